// Package transport defines request/response DTOs for the extraction API.
package transport

import "bess_quote_backend/internal/extraction/engine"

// AnalyzeRequest carries the uploaded file descriptors to analyze.
type AnalyzeRequest struct {
	Files []engine.UploadedFile `json:"files" validate:"required,min=1,dive"`
}

// AnalyzeResponse returns the extracted profile and the analysis summary.
type AnalyzeResponse struct {
	Data    engine.Profile `json:"data"`
	Summary string         `json:"summary"`
}
