package consultations

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPatientIDParsesResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/consultations/cons-42" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cons-42","patientId":"pat-7","status":"completed"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "test-key", ts.Client())
	patientID, err := c.PatientID(context.Background(), "cons-42")
	if err != nil {
		t.Fatalf("PatientID() error = %v", err)
	}
	if patientID != "pat-7" {
		t.Fatalf("unexpected patient id: %q", patientID)
	}
}

func TestPatientIDEscapesConsultationID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/consultations/a%2Fb" {
			t.Fatalf("unexpected path: %s", r.URL.EscapedPath())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"patientId":"pat-7"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "test-key", ts.Client())
	if _, err := c.PatientID(context.Background(), "a/b"); err != nil {
		t.Fatalf("PatientID() error = %v", err)
	}
}

func TestPatientIDRejectsEmptyPatient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cons-42"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, "test-key", ts.Client())
	if _, err := c.PatientID(context.Background(), "cons-42"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPatientIDReturnsUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer ts.Close()

	c := New(ts.URL, "test-key", ts.Client())
	_, err := c.PatientID(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error")
	}
	upErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if upErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status code: %d", upErr.StatusCode)
	}
}
