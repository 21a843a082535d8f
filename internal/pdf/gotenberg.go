// Package pdf converts rendered offer HTML to PDF through a Gotenberg
// instance.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/config"
)

// Converter turns HTML into PDF bytes.
type Converter interface {
	ConvertHTML(ctx context.Context, indexHTML []byte) ([]byte, error)
}

// GotenbergClient converts HTML to PDF via Gotenberg's Chromium route.
type GotenbergClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewGotenbergClient creates a client from configuration. Basic auth is
// sent when credentials are set.
func NewGotenbergClient(cfg config.GotenbergConfig) *GotenbergClient {
	return &GotenbergClient{
		baseURL:  cfg.GetGotenbergURL(),
		username: cfg.GetGotenbergUsername(),
		password: cfg.GetGotenbergPassword(),
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ConvertHTML sends index.html to Gotenberg and returns the PDF bytes.
// A4 paper with background printing; a short wait delay lets fonts load.
func (g *GotenbergClient) ConvertHTML(ctx context.Context, indexHTML []byte) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := map[string]string{
		"paperWidth":           "8.27",
		"paperHeight":          "11.7",
		"marginTop":            "0.5",
		"marginBottom":         "0.7",
		"marginLeft":           "0.5",
		"marginRight":          "0.5",
		"printBackground":      "true",
		"preferCssPageSize":    "false",
		"waitDelay":            "1s",
		"skipNetworkIdleEvent": "true",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if err := addFilePart(writer, "index.html", "text/html", indexHTML); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return g.doPost(ctx, "/forms/chromium/convert/html", body, writer.FormDataContentType())
}

func (g *GotenbergClient) doPost(ctx context.Context, path string, body *bytes.Buffer, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if g.username != "" && g.password != "" {
		req.SetBasicAuth(g.username, g.password)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gotenberg %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gotenberg %s returned %d: %s", path, resp.StatusCode, string(errBody))
	}

	result, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", path, err)
	}
	return result, nil
}

func addFilePart(w *multipart.Writer, filename, mimeType string, content []byte) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, filename))
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", filename, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write part %s: %w", filename, err)
	}
	return nil
}

// DisabledConverter answers every conversion with an unavailable error.
// Used when no Gotenberg instance is configured.
type DisabledConverter struct{}

// ConvertHTML implements Converter.
func (DisabledConverter) ConvertHTML(context.Context, []byte) ([]byte, error) {
	return nil, apperr.Unavailable("pdf rendering is not configured").WithCode("pdf_disabled")
}
