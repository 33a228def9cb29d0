package gateway

import (
	"net/http"
	"time"

	"github.com/soyeahso/wabridge/internal/chunk"
	"github.com/soyeahso/wabridge/internal/metrics"
)

// statusCallbacks are SmsStatus values that mark delivery notifications
// rather than genuine inbound messages.
var statusCallbacks = map[string]bool{
	"sent":      true,
	"delivered": true,
	"read":      true,
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.log.Warn().Err(err).Msg("unparseable webhook form")
		s.metrics.ObserveInbound(metrics.OutcomeBadRequest)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	body := r.PostFormValue("Body")
	sender := r.PostFormValue("From")
	smsStatus := r.PostFormValue("SmsStatus")

	if statusCallbacks[smsStatus] {
		s.log.Info().
			Str("message_sid", r.PostFormValue("MessageSid")).
			Str("status", smsStatus).
			Msg("delivery status update")
		s.metrics.ObserveInbound(metrics.OutcomeStatus)
		w.WriteHeader(http.StatusOK)
		return
	}

	if body == "" || sender == "" {
		s.log.Warn().
			Bool("has_body", body != "").
			Bool("has_sender", sender != "").
			Msg("webhook missing Body or From")
		s.metrics.ObserveInbound(metrics.OutcomeBadRequest)
		http.Error(w, "missing Body or From", http.StatusBadRequest)
		return
	}

	s.log.Info().
		Str("sender", sender).
		Int("body_length", len(body)).
		Msg("inbound message")

	start := time.Now()
	text, ok := s.responder.Reply(r.Context(), sender, body)
	s.metrics.ObserveAssistantLatency(time.Since(start).Seconds())

	if ok {
		s.metrics.ObserveInbound(metrics.OutcomeReply)
	} else {
		s.metrics.ObserveInbound(metrics.OutcomeApology)
	}

	segments := chunk.Paragraphs(text, s.cfg.Reply.MaxLength)
	if len(segments) == 0 {
		// The provider expects a parseable envelope even when there is
		// nothing to say.
		segments = []string{s.cfg.Reply.Apology}
	}
	s.metrics.ObserveSegments(len(segments))

	s.log.Info().
		Str("sender", sender).
		Int("segments", len(segments)).
		Bool("assistant_ok", ok).
		Msg("reply sent")

	s.writeReply(w, segments)
}

func (s *Server) writeReply(w http.ResponseWriter, segments []string) {
	payload, err := renderReply(segments)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to render reply markup")
		payload, _ = renderReply([]string{s.cfg.Reply.Apology})
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
