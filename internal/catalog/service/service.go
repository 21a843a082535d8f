// Package service implements catalog business logic: product listing with
// remote price refresh and per-product document resolution, always falling
// back to the built-in catalog when the company service is unreachable.
package service

import (
	"context"

	"bess_quote_backend/internal/catalog/client"
	"bess_quote_backend/internal/catalog/product"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Documents holds the resolved document references for one product.
type Documents struct {
	SchematicPath     string `json:"schematicPath"`
	CertificationPath string `json:"certificationPath"`
	Datasheet         string `json:"datasheet"`
}

// Service provides catalog reads. The remote client is optional; without it
// every read answers from the built-in catalog.
type Service struct {
	remote *client.Client
	log    *logger.Logger
}

// New creates a catalog service. remote may be nil.
func New(remote *client.Client, log *logger.Logger) *Service {
	return &Service{remote: remote, log: log}
}

// ListProducts returns the available products. The result is never empty:
// any remote failure logs a warning and answers from the built-in catalog,
// and remote products get their prices refreshed from the price list.
func (s *Service) ListProducts(ctx context.Context) []product.Product {
	if s.remote == nil {
		return product.Fallback()
	}

	products, err := s.remote.GetProducts(ctx)
	if err != nil || len(products) == 0 {
		if err != nil {
			s.log.RemoteFallback("catalog.list_products", err)
		}
		products = product.Fallback()
	}

	return s.withRefreshedPrices(ctx, products)
}

// GetProduct returns a single product by code.
func (s *Service) GetProduct(ctx context.Context, code string) (product.Product, error) {
	for _, p := range s.ListProducts(ctx) {
		if p.Code == code {
			return p, nil
		}
	}
	return product.Product{}, apperr.NotFound("product not found").WithCode("product_not_found")
}

// RefreshPrices fetches current prices for the given codes. Failure is
// recoverable: it returns an empty map and no error so callers keep their
// existing prices.
func (s *Service) RefreshPrices(ctx context.Context, codes []string) map[string]float64 {
	if s.remote == nil || len(codes) == 0 {
		return map[string]float64{}
	}

	prices, err := s.remote.GetCurrentPrices(ctx, codes)
	if err != nil {
		s.log.RemoteFallback("catalog.refresh_prices", err)
		return map[string]float64{}
	}

	out := make(map[string]float64, len(prices))
	for _, p := range prices {
		if p.UnitPrice > 0 {
			out[p.ProductCode] = p.UnitPrice
		}
	}
	return out
}

// ResolveDocuments fetches the schematic, certification and datasheet
// references for a product in parallel. Each lookup degrades independently
// to a deterministic local path.
func (s *Service) ResolveDocuments(ctx context.Context, code string, usage []string) Documents {
	docs := Documents{
		SchematicPath:     "/schematics/" + code + "_generic.pptx",
		CertificationPath: "/certs/" + code + ".pdf",
		Datasheet:         "/datasheets/" + code + ".pdf",
	}
	if s.remote == nil {
		return docs
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		path, err := s.remote.GetSchematic(gctx, code, usage)
		if err != nil {
			s.log.RemoteFallback("catalog.schematic", err)
			return nil
		}
		docs.SchematicPath = path
		return nil
	})
	g.Go(func() error {
		files, err := s.remote.GetCertifications(gctx, code)
		if err != nil {
			s.log.RemoteFallback("catalog.certifications", err)
			return nil
		}
		if len(files) > 0 {
			docs.CertificationPath = files[0]
		}
		return nil
	})
	g.Go(func() error {
		path, err := s.remote.GetDatasheet(gctx, code)
		if err != nil {
			s.log.RemoteFallback("catalog.datasheet", err)
			return nil
		}
		docs.Datasheet = path
		return nil
	})

	_ = g.Wait()
	return docs
}

// Health reports whether the remote pricing service is reachable.
func (s *Service) Health(ctx context.Context) (configured, reachable bool) {
	if s.remote == nil {
		return false, false
	}
	return true, s.remote.Health(ctx) == nil
}

func (s *Service) withRefreshedPrices(ctx context.Context, products []product.Product) []product.Product {
	codes := make([]string, len(products))
	for i, p := range products {
		codes[i] = p.Code
	}

	prices := s.RefreshPrices(ctx, codes)
	if len(prices) == 0 {
		return products
	}

	for i := range products {
		if price, ok := prices[products[i].Code]; ok {
			products[i].UnitPrice = price
		}
	}
	return products
}
