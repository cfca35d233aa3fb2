// Package model holds the caller-facing judging result shapes shared by the
// facade, the persistence layer, and the HTTP surface.
package model

import "ataljudge/internal/judge/executor"

// UnifiedResponse is the backend-agnostic judging result returned to callers.
type UnifiedResponse struct {
	SubmissionID    string `json:"submission_id"`
	Passed          bool   `json:"passed"`
	Verdict         string `json:"verdict"`
	ExecutionTimeMs int64  `json:"execution_time_ms,omitempty"`
	MemoryUsedKB    int64  `json:"memory_used_kb,omitempty"`
	Output          string `json:"output,omitempty"`
	ErrorMessage    string `json:"error_message,omitempty"`
}

// StatusInfo is the raw status pair in the compatibility payload.
type StatusInfo struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// StatusPayload is the raw status shape served for pre-existing callers.
// The four text fields are base64-encoded when present; this encoding is a
// wire compatibility contract and must be preserved byte for byte.
type StatusPayload struct {
	Token         string     `json:"token"`
	Status        StatusInfo `json:"status"`
	Stdout        *string    `json:"stdout,omitempty"`
	Stderr        *string    `json:"stderr,omitempty"`
	CompileOutput *string    `json:"compile_output,omitempty"`
	Message       *string    `json:"message,omitempty"`
	Time          *string    `json:"time,omitempty"`
	Memory        *int64     `json:"memory,omitempty"`
}

// BatchProgress is the per-tick progress snapshot of a batch wait.
type BatchProgress struct {
	Completed  int                       `json:"completed"`
	Pending    int                       `json:"pending"`
	Total      int                       `json:"total"`
	Percentage int                       `json:"percentage"`
	Statuses   []executor.ExecutionState `json:"statuses"`
}
