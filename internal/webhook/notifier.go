// Package webhook posts transcript-processed events to an optional
// downstream automation endpoint. Delivery is best effort: failures are
// logged and never propagated to the pipeline.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EventTranscriptProcessed = "transcript.processed"

	signatureHeader = "X-Dentascribe-Signature"
)

type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Transcript     string    `json:"transcript"`
	ConsultationID string    `json:"consultationId"`
	SessionID      string    `json:"sessionId,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type Notifier struct {
	endpoint   string
	secret     string
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

func NewNotifier(endpoint, secret string, httpClient *http.Client, logger *slog.Logger, timeout time.Duration) *Notifier {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		endpoint:   strings.TrimSpace(endpoint),
		secret:     secret,
		httpClient: httpClient,
		logger:     logger,
		timeout:    timeout,
	}
}

// NewEvent builds a transcript-processed event with a fresh id.
func NewEvent(eventType, transcript, consultationID, sessionID string) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           eventType,
		Transcript:     transcript,
		ConsultationID: consultationID,
		SessionID:      sessionID,
		Timestamp:      time.Now().UTC(),
	}
}

// Notify delivers the event. Any failure is logged and swallowed; a non-2xx
// response counts as failure. Callers typically invoke this in a goroutine
// with a context detached from the request.
func (n *Notifier) Notify(ctx context.Context, event Event) {
	if n.endpoint == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("webhook payload encoding failed", "event_id", event.ID, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		n.logger.Error("webhook request build failed", "event_id", event.ID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set(signatureHeader, sign(n.secret, payload))
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed", "event_id", event.ID, "event_type", event.Type, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.Warn("webhook delivery rejected", "event_id", event.ID, "event_type", event.Type, "status", resp.StatusCode)
		return
	}
	n.logger.Debug("webhook delivered", "event_id", event.ID, "event_type", event.Type, "status", resp.StatusCode)
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
