package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal ThreadStore for responder tests.
type fakeStore struct {
	mu      sync.Mutex
	threads map[string]string
	creates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{threads: make(map[string]string)}
}

func (s *fakeStore) GetOrCreate(sender string, create func() (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.threads[sender]; ok {
		return id, nil
	}
	id, err := create()
	if err != nil {
		return "", err
	}
	s.creates++
	s.threads[sender] = id
	return id, nil
}

// fakeAssistantAPI simulates the remote API for full-cycle tests.
type fakeAssistantAPI struct {
	mu          sync.Mutex
	threadSeq   int
	runStatus   string
	reply       string
	userInputs  []string
	runsCreated int
}

func (f *fakeAssistantAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.threadSeq++
		id := fmt.Sprintf("thread_%d", f.threadSeq)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"id": id})
	})
	mux.HandleFunc("POST /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.userInputs = append(f.userInputs, body.Content)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"id": "msg_1"})
	})
	mux.HandleFunc("POST /threads/{id}/runs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.runsCreated++
		f.mu.Unlock()
		json.NewEncoder(w).Encode(Run{ID: "run_1", Status: StatusQueued})
	})
	mux.HandleFunc("GET /threads/{id}/runs/run_1", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.runStatus
		f.mu.Unlock()
		json.NewEncoder(w).Encode(Run{ID: "run_1", Status: status})
	})
	mux.HandleFunc("GET /threads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		reply := f.reply
		f.mu.Unlock()
		fmt.Fprintf(w, `{"data":[{"id":"msg_2","role":"assistant","content":[{"type":"text","text":{"value":%q}}]}]}`, reply)
	})
	return mux
}

func newTestResponder(t *testing.T, api *fakeAssistantAPI, threads ThreadStore) *Responder {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		APIKey:      "sk-test",
		AssistantID: "asst_test",
		BaseURL:     srv.URL,
	}, testLogger())

	return NewResponder(client, threads, ResponderConfig{
		PollInterval: time.Millisecond,
		RunTimeout:   time.Second,
		Apology:      "Sorry, something went wrong.",
	}, testLogger())
}

func TestReplyHappyPath(t *testing.T) {
	api := &fakeAssistantAPI{runStatus: StatusCompleted, reply: "Hello from the assistant"}
	store := newFakeStore()
	r := newTestResponder(t, api, store)

	text, ok := r.Reply(context.Background(), "whatsapp:+5511999999999", "Oi")
	assert.True(t, ok)
	assert.Equal(t, "Hello from the assistant", text)
	assert.Equal(t, []string{"Oi"}, api.userInputs)
	assert.Equal(t, 1, store.creates)
}

func TestReplyReusesThreadPerSender(t *testing.T) {
	api := &fakeAssistantAPI{runStatus: StatusCompleted, reply: "ok"}
	store := newFakeStore()
	r := newTestResponder(t, api, store)

	_, ok := r.Reply(context.Background(), "whatsapp:+111", "first")
	require.True(t, ok)
	_, ok = r.Reply(context.Background(), "whatsapp:+111", "second")
	require.True(t, ok)
	_, ok = r.Reply(context.Background(), "whatsapp:+222", "other sender")
	require.True(t, ok)

	assert.Equal(t, 2, store.creates, "one thread per distinct sender")
	assert.Equal(t, 3, api.runsCreated)
}

func TestReplyApologyOnRunFailure(t *testing.T) {
	api := &fakeAssistantAPI{runStatus: StatusFailed, reply: "unused"}
	r := newTestResponder(t, api, newFakeStore())

	text, ok := r.Reply(context.Background(), "whatsapp:+111", "hi")
	assert.False(t, ok)
	assert.Equal(t, "Sorry, something went wrong.", text)
}

func TestReplyApologyOnTimeout(t *testing.T) {
	api := &fakeAssistantAPI{runStatus: StatusInProgress, reply: "unused"}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		APIKey:      "sk-test",
		AssistantID: "asst_test",
		BaseURL:     srv.URL,
	}, testLogger())
	r := NewResponder(client, newFakeStore(), ResponderConfig{
		PollInterval: 5 * time.Millisecond,
		RunTimeout:   25 * time.Millisecond,
		Apology:      "Sorry, something went wrong.",
	}, testLogger())

	text, ok := r.Reply(context.Background(), "whatsapp:+111", "hi")
	assert.False(t, ok)
	assert.Equal(t, "Sorry, something went wrong.", text)
}

func TestReplyApologyOnThreadCreationFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		APIKey:      "sk-test",
		AssistantID: "asst_test",
		BaseURL:     srv.URL,
	}, testLogger())
	r := NewResponder(client, newFakeStore(), ResponderConfig{
		PollInterval: time.Millisecond,
		RunTimeout:   time.Second,
		Apology:      "Sorry, something went wrong.",
	}, testLogger())

	text, ok := r.Reply(context.Background(), "whatsapp:+111", "hi")
	assert.False(t, ok)
	assert.Equal(t, "Sorry, something went wrong.", text)
}
