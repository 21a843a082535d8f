// Package adapters wires module services to each other's ports without
// introducing direct dependencies between bounded contexts.
package adapters

import (
	"context"

	catalogsvc "bess_quote_backend/internal/catalog/service"
	quotessvc "bess_quote_backend/internal/quotes/service"
	"bess_quote_backend/internal/quotes/transport"
)

// CatalogReader adapts the catalog service to the quotes module's view of
// the product catalog, satisfying quotes/service.CatalogReader.
type CatalogReader struct {
	catalog *catalogsvc.Service
}

// NewCatalogReader creates a catalog reader adapter.
func NewCatalogReader(catalog *catalogsvc.Service) *CatalogReader {
	return &CatalogReader{catalog: catalog}
}

// ListProducts returns all catalog products as quote item snapshots.
func (a *CatalogReader) ListProducts(ctx context.Context) []transport.ProductSnapshot {
	products := a.catalog.ListProducts(ctx)
	snapshots := make([]transport.ProductSnapshot, 0, len(products))
	for _, p := range products {
		snapshots = append(snapshots, transport.ProductSnapshot{
			Code:              p.Code,
			Name:              p.Name,
			Description:       p.Description,
			UnitPrice:         p.UnitPrice,
			PowerRating:       p.PowerRating,
			EnergyCapacity:    p.EnergyCapacity,
			Category:          p.Category,
			Voltage:           p.Voltage,
			Efficiency:        p.Efficiency,
			CycleLife:         p.CycleLife,
			CertificationPath: p.CertificationPath,
			SchematicPath:     p.SchematicPath,
			Datasheet:         p.Datasheet,
		})
	}
	return snapshots
}

// GetProduct returns one catalog product as a quote item snapshot.
func (a *CatalogReader) GetProduct(ctx context.Context, code string) (transport.ProductSnapshot, error) {
	p, err := a.catalog.GetProduct(ctx, code)
	if err != nil {
		return transport.ProductSnapshot{}, err
	}
	return transport.ProductSnapshot{
		Code:              p.Code,
		Name:              p.Name,
		Description:       p.Description,
		UnitPrice:         p.UnitPrice,
		PowerRating:       p.PowerRating,
		EnergyCapacity:    p.EnergyCapacity,
		Category:          p.Category,
		Voltage:           p.Voltage,
		Efficiency:        p.Efficiency,
		CycleLife:         p.CycleLife,
		CertificationPath: p.CertificationPath,
		SchematicPath:     p.SchematicPath,
		Datasheet:         p.Datasheet,
	}, nil
}

// ResolveDocuments resolves the product document references.
func (a *CatalogReader) ResolveDocuments(ctx context.Context, code string, usage []string) quotessvc.ProductDocuments {
	docs := a.catalog.ResolveDocuments(ctx, code, usage)
	return quotessvc.ProductDocuments{
		SchematicPath:     docs.SchematicPath,
		CertificationPath: docs.CertificationPath,
		Datasheet:         docs.Datasheet,
	}
}

var _ quotessvc.CatalogReader = (*CatalogReader)(nil)
