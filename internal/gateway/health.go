package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/soyeahso/wabridge/internal/assistant"
)

const healthCheckTimeout = 10 * time.Second

type healthOpenAI struct {
	Status         string `json:"status"`
	AssistantID    string `json:"assistant_id"`
	AssistantName  string `json:"assistant_name"`
	AssistantModel string `json:"assistant_model"`
	BetaVersion    string `json:"beta_version"`
}

type healthServices struct {
	OpenAI healthOpenAI `json:"openai"`
}

type healthEnvironment struct {
	OpenAIAPIKey bool `json:"openai_api_key"`
	AssistantID  bool `json:"assistant_id"`
}

type healthResponse struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Services    healthServices    `json:"services"`
	Environment healthEnvironment `json:"environment"`
}

type unhealthyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error"`
}

// handleHealth probes the upstream assistant and reports readiness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)

	a, err := s.checker.Assistant(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusInternalServerError, unhealthyResponse{
			Status:    "unhealthy",
			Timestamp: now,
			Error:     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: now,
		Services: healthServices{OpenAI: healthOpenAI{
			Status:         "ok",
			AssistantID:    a.ID,
			AssistantName:  a.Name,
			AssistantModel: a.Model,
			BetaVersion:    assistant.BetaVersion,
		}},
		Environment: healthEnvironment{
			OpenAIAPIKey: s.cfg.OpenAI.APIKey != "",
			AssistantID:  s.cfg.OpenAI.AssistantID != "",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
