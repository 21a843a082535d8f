package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bess_quote_backend/internal/catalog/client"
	"bess_quote_backend/internal/catalog/product"
	"bess_quote_backend/platform/logger"
)

func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	remote := client.New(srv.URL, "test-key", 2*time.Second)
	return New(remote, logger.New("development")), srv
}

func TestListProductsWithoutRemote(t *testing.T) {
	svc := New(nil, logger.New("development"))

	products := svc.ListProducts(context.Background())
	if len(products) != 8 {
		t.Fatalf("expected 8 fallback products, got %d", len(products))
	}
	if products[0].Code != "GALAXY-233L-AIO-2H" {
		t.Errorf("unexpected first product %q", products[0].Code)
	}
}

func TestListProductsFallsBackOnRemoteError(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	products := svc.ListProducts(context.Background())
	if len(products) != 8 {
		t.Fatalf("expected fallback catalog on remote error, got %d products", len(products))
	}
}

func TestListProductsMergesRemotePrices(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/bess/products":
			_ = json.NewEncoder(w).Encode(product.Fallback())
		case "/api/v1/pricing/current":
			if r.Header.Get("Authorization") != "Bearer test-key" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode([]client.PriceData{
				{ProductCode: "ENERGY-CUBE-1MW", UnitPrice: 725000, Currency: "EUR"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	products := svc.ListProducts(context.Background())

	var cube product.Product
	for _, p := range products {
		if p.Code == "ENERGY-CUBE-1MW" {
			cube = p
		}
	}
	if cube.UnitPrice != 725000 {
		t.Errorf("expected refreshed price 725000, got %v", cube.UnitPrice)
	}

	for _, p := range products {
		if p.Code != "ENERGY-CUBE-1MW" && p.UnitPrice == 0 {
			t.Errorf("product %s lost its fallback price", p.Code)
		}
	}
}

func TestRefreshPricesFailureReturnsEmptyMap(t *testing.T) {
	svc, srv := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	srv.Close()

	prices := svc.RefreshPrices(context.Background(), []string{"ENERGY-CUBE-1MW"})
	if len(prices) != 0 {
		t.Fatalf("expected empty price map on failure, got %v", prices)
	}
}

func TestResolveDocumentsFallbackPaths(t *testing.T) {
	svc := New(nil, logger.New("development"))

	docs := svc.ResolveDocuments(context.Background(), "ENERGY-CUBE-1MW", []string{"peak-shaving"})
	if docs.SchematicPath != "/schematics/ENERGY-CUBE-1MW_generic.pptx" {
		t.Errorf("unexpected schematic path %q", docs.SchematicPath)
	}
	if docs.CertificationPath != "/certs/ENERGY-CUBE-1MW.pdf" {
		t.Errorf("unexpected certification path %q", docs.CertificationPath)
	}
	if docs.Datasheet != "/datasheets/ENERGY-CUBE-1MW.pdf" {
		t.Errorf("unexpected datasheet path %q", docs.Datasheet)
	}
}

func TestResolveDocumentsFromRemote(t *testing.T) {
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/documents/certifications/ENERGY-CUBE-1MW":
			_ = json.NewEncoder(w).Encode(map[string][]string{
				"files": {"/certs/energycube-1mw_ce.pdf", "/certs/energycube-1mw_iec.pdf"},
			})
		case r.URL.Path == "/api/v1/documents/datasheets/ENERGY-CUBE-1MW":
			_ = json.NewEncoder(w).Encode(map[string]string{"latestVersion": "/datasheets/energycube-1mw_v3.pdf"})
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))

	docs := svc.ResolveDocuments(context.Background(), "ENERGY-CUBE-1MW", []string{"backup", "peak-shaving"})
	if docs.CertificationPath != "/certs/energycube-1mw_ce.pdf" {
		t.Errorf("expected first certification file, got %q", docs.CertificationPath)
	}
	if docs.Datasheet != "/datasheets/energycube-1mw_v3.pdf" {
		t.Errorf("unexpected datasheet %q", docs.Datasheet)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := New(nil, logger.New("development"))

	if _, err := svc.GetProduct(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error for unknown product code")
	}
}
