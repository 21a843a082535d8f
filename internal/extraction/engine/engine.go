// Package engine turns uploaded customer documents into a partial
// requirement profile for the quote wizard. The Extractor interface is the
// seam for a real analysis engine; the shipped implementation is a
// deterministic lookup keyed on the document types present.
package engine

import "context"

// UploadedFile describes one uploaded document. Only the metadata matters
// for extraction; file content is never inspected.
type UploadedFile struct {
	Name     string `json:"name" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	Size     int64  `json:"size" validate:"gte=0"`
}

// Profile is a partially filled customer requirement set. Zero values mean
// the field was not found in the documents.
type Profile struct {
	Name             string   `json:"name,omitempty"`
	Email            string   `json:"email,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Company          string   `json:"company,omitempty"`
	Address          string   `json:"address,omitempty"`
	InstallationType string   `json:"installationType,omitempty"`
	PowerKW          float64  `json:"power,omitempty"`
	CapacityKWH      float64  `json:"capacity,omitempty"`
	ConnectionType   string   `json:"connectionType,omitempty"`
	Usage            []string `json:"usage,omitempty"`
	ApplicationArea  string   `json:"applicationArea,omitempty"`
	HasPV            bool     `json:"hasPV"`
	PVPowerKW        float64  `json:"pvPower"`
	AdditionalNotes  string   `json:"additionalNotes,omitempty"`
	ValidityDays     int      `json:"validityDays,omitempty"`
}

// Extractor produces a requirement profile and a human-readable analysis
// summary from uploaded documents.
type Extractor interface {
	Extract(ctx context.Context, files []UploadedFile) (Profile, error)
	Summarize(files []UploadedFile) string
}
