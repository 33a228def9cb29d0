package assistant

import (
	"context"
	"time"

	"github.com/soyeahso/wabridge/internal/logging"
)

// ThreadStore resolves a sender's conversation thread, creating it at most
// once per sender. Implementations must make lookup-or-create atomic so two
// concurrent first contacts never create two threads.
type ThreadStore interface {
	GetOrCreate(sender string, create func() (string, error)) (string, error)
}

// ResponderConfig tunes the ask/poll/fetch cycle.
type ResponderConfig struct {
	PollInterval time.Duration
	RunTimeout   time.Duration
	Apology      string
}

// Responder drives the full pipeline for one inbound message: resolve the
// sender's thread, append the message, run the assistant, poll to
// completion, and fetch the reply.
type Responder struct {
	client   *Client
	threads  ThreadStore
	interval time.Duration
	timeout  time.Duration
	apology  string
	log      *logging.Logger
}

// NewResponder creates a Responder.
func NewResponder(client *Client, threads ThreadStore, cfg ResponderConfig, log *logging.Logger) *Responder {
	return &Responder{
		client:   client,
		threads:  threads,
		interval: cfg.PollInterval,
		timeout:  cfg.RunTimeout,
		apology:  cfg.Apology,
		log:      log.Sub("responder"),
	}
}

// Reply returns the assistant's answer to body for the given sender. The
// chat channel has no way to surface technical errors, so every pipeline
// failure is logged with its cause and converted to the fixed apology
// string; ok reports whether the text is a real answer. The returned text
// is always presentable to the end user.
func (r *Responder) Reply(ctx context.Context, sender, body string) (text string, ok bool) {
	text, err := r.respond(ctx, sender, body)
	if err != nil {
		r.log.Error().Err(err).Str("sender", sender).Msg("assistant pipeline failed")
		return r.apology, false
	}
	return text, true
}

func (r *Responder) respond(ctx context.Context, sender, body string) (string, error) {
	threadID, err := r.threads.GetOrCreate(sender, func() (string, error) {
		return r.client.CreateThread(ctx)
	})
	if err != nil {
		return "", err
	}

	r.log.Debug().Str("sender", sender).Str("thread", threadID).Msg("processing message")

	if err := r.client.AddUserMessage(ctx, threadID, body); err != nil {
		return "", err
	}

	run, err := r.client.CreateRun(ctx, threadID)
	if err != nil {
		return "", err
	}

	if err := r.client.WaitForRun(ctx, threadID, run.ID, r.interval, r.timeout); err != nil {
		return "", err
	}

	return r.client.LastMessage(ctx, threadID)
}
