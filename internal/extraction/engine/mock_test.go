package engine

import (
	"context"
	"strings"
	"testing"
)

func TestExtractImageProfile(t *testing.T) {
	m := NewMockExtractor()

	profile, err := m.Extract(context.Background(), []UploadedFile{
		{Name: "email.png", MimeType: "image/png", Size: 1024},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Company != "Energy Innovation S.p.A." {
		t.Errorf("unexpected company %q", profile.Company)
	}
	if profile.PowerKW != 1000 || profile.CapacityKWH != 2000 {
		t.Errorf("unexpected sizing %v kW / %v kWh", profile.PowerKW, profile.CapacityKWH)
	}
	if profile.ApplicationArea != "industriale" {
		t.Errorf("unexpected area %q", profile.ApplicationArea)
	}
	if !profile.HasPV || profile.PVPowerKW != 800 {
		t.Errorf("expected existing 800 kW PV plant, got hasPV=%v pv=%v", profile.HasPV, profile.PVPowerKW)
	}
}

func TestExtractSpreadsheetProfile(t *testing.T) {
	m := NewMockExtractor()

	profile, err := m.Extract(context.Background(), []UploadedFile{
		{Name: "sizing.xlsx", MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Size: 2048},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Company != "Green Energy Solutions" {
		t.Errorf("unexpected company %q", profile.Company)
	}
	if profile.ApplicationArea != "utility" || profile.ValidityDays != 45 {
		t.Errorf("unexpected profile %q / %d days", profile.ApplicationArea, profile.ValidityDays)
	}
}

func TestExtractPDFProfile(t *testing.T) {
	m := NewMockExtractor()

	profile, err := m.Extract(context.Background(), []UploadedFile{
		{Name: "project.pdf", MimeType: "application/pdf", Size: 4096},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.PowerKW != 2000 || profile.CapacityKWH != 4000 {
		t.Errorf("unexpected sizing %v/%v", profile.PowerKW, profile.CapacityKWH)
	}
	if profile.ConnectionType != "AT" {
		t.Errorf("unexpected connection type %q", profile.ConnectionType)
	}
}

func TestExtractGenericProfile(t *testing.T) {
	m := NewMockExtractor()

	profile, err := m.Extract(context.Background(), []UploadedFile{
		{Name: "notes.txt", MimeType: "text/plain", Size: 100},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.PowerKW != 250 || profile.CapacityKWH != 500 {
		t.Errorf("unexpected generic sizing %v/%v", profile.PowerKW, profile.CapacityKWH)
	}
	if profile.ApplicationArea != "commerciale" {
		t.Errorf("unexpected area %q", profile.ApplicationArea)
	}
}

func TestImageTakesPriorityOverPDF(t *testing.T) {
	m := NewMockExtractor()

	profile, err := m.Extract(context.Background(), []UploadedFile{
		{Name: "project.pdf", MimeType: "application/pdf", Size: 4096},
		{Name: "email.jpg", MimeType: "image/jpeg", Size: 512},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Company != "Energy Innovation S.p.A." {
		t.Errorf("expected image profile to win, got %q", profile.Company)
	}
}

func TestSummarizeListsAllCategories(t *testing.T) {
	m := NewMockExtractor()

	summary := m.Summarize([]UploadedFile{
		{Name: "email.png", MimeType: "image/png"},
		{Name: "sizing.xlsx", MimeType: "application/vnd.ms-excel.sheet.macroEnabled.12"},
		{Name: "project.pdf", MimeType: "application/pdf"},
	})

	for _, want := range []string{"SCREENSHOT EMAIL", "FOGLIO EXCEL", "DOCUMENTO PDF", "File analizzati: 3"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}
