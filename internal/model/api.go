package model

import "dentascribe/internal/record"

type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error     APIError `json:"error"`
	RequestID string   `json:"request_id,omitempty"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type ReadyResponse struct {
	OK          bool   `json:"ok"`
	ServiceName string `json:"service_name,omitempty"`
}

type ProcessTranscriptResponse struct {
	Success          bool                          `json:"success"`
	ProcessedContent record.ProcessedContent       `json:"processedContent"`
	ToothDiagnoses   []record.ToothDiagnosisRecord `json:"toothDiagnoses"`
	Message          string                        `json:"message"`
}
