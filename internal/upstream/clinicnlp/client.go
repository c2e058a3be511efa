// Package clinicnlp is the HTTP client for the external clinical
// conversation classification service. The orchestrator calls Analyze in
// two degrading modes: with a language hint (full analysis) and without
// one (simplified fallback).
package clinicnlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dentascribe/internal/record"
)

type ObserverFunc func(endpoint string, status int, duration time.Duration)

type Option func(*Client)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	observer   ObserverFunc
}

type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("clinicnlp request failed with status %d", e.StatusCode)
}

// Analysis is the service's structured view of one consultation
// transcript. Sections the service did not produce are nil.
type Analysis struct {
	ChiefComplaint      *record.ChiefComplaint
	HOPI                *record.HistoryOfPresentIllness
	MedicalHistory      *record.MedicalHistory
	PersonalHistory     *record.PersonalHistory
	ClinicalExamination *record.ClinicalExamination
	Confidence          int
	AutoExtracted       bool
	ExtractionTimestamp time.Time
}

func WithObserver(observer ObserverFunc) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func New(baseURL, apiKey string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: httpClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Analyze submits the transcript for classification. An empty language
// selects the service's reduced mode.
func (c *Client) Analyze(ctx context.Context, transcript, language string) (Analysis, error) {
	started := time.Now()
	statusCode := 0
	defer func() { c.observe("analyze", statusCode, time.Since(started)) }()

	payload, err := json.Marshal(analyzeRequest{Transcript: transcript, Language: language})
	if err != nil {
		return Analysis{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return Analysis{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Analysis{}, err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Analysis{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return Analysis{}, &Error{StatusCode: resp.StatusCode, Body: truncateBody(string(respBody))}
	}

	return parseAnalysis(respBody)
}

// CheckHealth probes the service for readiness reporting.
func (c *Client) CheckHealth(ctx context.Context) error {
	started := time.Now()
	statusCode := 0
	defer func() { c.observe("health", statusCode, time.Since(started)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &Error{StatusCode: resp.StatusCode, Body: truncateBody(string(body))}
	}
	return nil
}

func (c *Client) observe(endpoint string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer(endpoint, status, duration)
	}
}

type analyzeRequest struct {
	Transcript string `json:"transcript"`
	Language   string `json:"language,omitempty"`
}

type analyzeResponse struct {
	ChiefComplaint      *record.ChiefComplaint          `json:"chief_complaint"`
	HOPI                *record.HistoryOfPresentIllness `json:"history_of_present_illness"`
	MedicalHistory      *record.MedicalHistory          `json:"medical_history"`
	PersonalHistory     *record.PersonalHistory         `json:"personal_history"`
	ClinicalExamination *record.ClinicalExamination     `json:"clinical_examination"`
	Confidence          *int                            `json:"confidence"`
	AutoExtracted       bool                            `json:"auto_extracted"`
	ExtractionTimestamp time.Time                       `json:"extraction_timestamp"`
}

func parseAnalysis(data []byte) (Analysis, error) {
	var parsed analyzeResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Analysis{}, fmt.Errorf("invalid analyze response: %w", err)
	}
	if parsed.Confidence == nil {
		return Analysis{}, fmt.Errorf("missing confidence")
	}
	if parsed.ChiefComplaint == nil {
		return Analysis{}, fmt.Errorf("missing chief_complaint")
	}
	return Analysis{
		ChiefComplaint:      parsed.ChiefComplaint,
		HOPI:                parsed.HOPI,
		MedicalHistory:      parsed.MedicalHistory,
		PersonalHistory:     parsed.PersonalHistory,
		ClinicalExamination: parsed.ClinicalExamination,
		Confidence:          *parsed.Confidence,
		AutoExtracted:       parsed.AutoExtracted,
		ExtractionTimestamp: parsed.ExtractionTimestamp,
	}, nil
}

func truncateBody(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 4096 {
		return s
	}
	return s[:4096] + "..."
}
