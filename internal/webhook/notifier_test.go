package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyDeliversSignedEvent(t *testing.T) {
	var gotSignature string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("unexpected content type: %q", got)
		}
		gotSignature = r.Header.Get("X-Dentascribe-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n := NewNotifier(ts.URL, "shh", ts.Client(), discardLogger(), time.Second)
	event := NewEvent(EventTranscriptProcessed, "tooth 46 hurts", "c1", "s1")
	n.Notify(context.Background(), event)

	mac := hmac.New(sha256.New, []byte("shh"))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if gotSignature != want {
		t.Fatalf("signature mismatch: got %q want %q", gotSignature, want)
	}

	var decoded Event
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.Type != EventTranscriptProcessed {
		t.Fatalf("unexpected event type: %q", decoded.Type)
	}
	if decoded.ConsultationID != "c1" || decoded.SessionID != "s1" {
		t.Fatalf("unexpected ids: %+v", decoded)
	}
	if decoded.ID == "" {
		t.Fatal("expected event id")
	}
}

func TestNotifyWithoutSecretSkipsSignature(t *testing.T) {
	var sawSignature bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawSignature = r.Header["X-Dentascribe-Signature"]
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	n := NewNotifier(ts.URL, "", ts.Client(), discardLogger(), time.Second)
	n.Notify(context.Background(), NewEvent(EventTranscriptProcessed, "t", "c1", ""))
	if sawSignature {
		t.Fatal("expected no signature header")
	}
}

func TestNotifySwallowsRejection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusInternalServerError)
	}))
	defer ts.Close()

	n := NewNotifier(ts.URL, "shh", ts.Client(), discardLogger(), time.Second)
	// Must not panic or propagate anything.
	n.Notify(context.Background(), NewEvent(EventTranscriptProcessed, "t", "c1", ""))
}

func TestNotifyNoEndpointIsNoOp(t *testing.T) {
	n := NewNotifier("", "shh", nil, discardLogger(), time.Second)
	n.Notify(context.Background(), NewEvent(EventTranscriptProcessed, "t", "c1", ""))
}
