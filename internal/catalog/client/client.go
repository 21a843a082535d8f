// Package client implements the HTTP client for the FFDPOWER company
// pricing and document service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"bess_quote_backend/internal/catalog/product"
)

const (
	productsPath       = "/api/v1/bess/products"
	pricesPath         = "/api/v1/pricing/current"
	schematicsPath     = "/api/v1/documents/schematics"
	certificationsPath = "/api/v1/documents/certifications"
	datasheetsPath     = "/api/v1/documents/datasheets"
	healthPath         = "/health"
)

// PriceData is a price list entry returned by the pricing service.
type PriceData struct {
	ProductCode string    `json:"productCode"`
	UnitPrice   float64   `json:"unitPrice"`
	Currency    string    `json:"currency"`
	ValidFrom   time.Time `json:"validFrom"`
	ValidTo     time.Time `json:"validTo"`
	PriceList   string    `json:"priceList"`
}

// Client talks to the company pricing service over HTTP with bearer auth.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// New creates a pricing service client. Timeout bounds every request.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: timeout},
	}
}

// GetProducts fetches the current product list.
func (c *Client) GetProducts(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := c.doJSON(ctx, http.MethodGet, productsPath, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetCurrentPrices fetches price list entries for the given product codes.
func (c *Client) GetCurrentPrices(ctx context.Context, codes []string) ([]PriceData, error) {
	body := map[string][]string{"productCodes": codes}
	var prices []PriceData
	if err := c.doJSON(ctx, http.MethodPost, pricesPath, body, &prices); err != nil {
		return nil, err
	}
	return prices, nil
}

// GetSchematic resolves the electrical schematic for a product and usage
// combination. The usage slugs are sorted so the same set always maps to the
// same file name.
func (c *Client) GetSchematic(ctx context.Context, code string, usage []string) (string, error) {
	sorted := append([]string(nil), usage...)
	sort.Strings(sorted)
	name := fmt.Sprintf("%s_%s_schema.pptx", code, strings.Join(sorted, "-"))

	resp, err := c.do(ctx, http.MethodGet, schematicsPath+"/"+url.PathEscape(name), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Specific schematic missing; point at the generic one.
		return c.baseURL + schematicsPath + "/" + code + "_generic_schema.pptx", nil
	}
	return c.baseURL + schematicsPath + "/" + name, nil
}

// GetCertifications fetches the certification file list for a product.
func (c *Client) GetCertifications(ctx context.Context, code string) ([]string, error) {
	var payload struct {
		Files []string `json:"files"`
	}
	if err := c.doJSON(ctx, http.MethodGet, certificationsPath+"/"+url.PathEscape(code), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Files, nil
}

// GetDatasheet fetches the latest datasheet reference for a product.
func (c *Client) GetDatasheet(ctx context.Context, code string) (string, error) {
	var payload struct {
		LatestVersion string `json:"latestVersion"`
	}
	if err := c.doJSON(ctx, http.MethodGet, datasheetsPath+"/"+url.PathEscape(code), nil, &payload); err != nil {
		return "", err
	}
	if payload.LatestVersion == "" {
		return "/datasheets/" + code + ".pdf", nil
	}
	return payload.LatestVersion, nil
}

// Health checks service reachability.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pricing service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.hc.Do(req)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pricing service: status %d on %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
