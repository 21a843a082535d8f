package service

import (
	"testing"

	"bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/platform/apperr"
)

func testSelectorCatalog() []transport.ProductSnapshot {
	return []transport.ProductSnapshot{
		{Code: "GALAXY-233L-AIO-2H", Category: "Container BESS", UnitPrice: 185000, PowerRating: 233, EnergyCapacity: 465},
		{Code: "PCS-ENJOY-105", Category: "Power Conversion System", UnitPrice: 45000, PowerRating: 105, EnergyCapacity: 0},
		{Code: "POWER-STACK-500", Category: "Utility Scale BESS", UnitPrice: 420000, PowerRating: 500, EnergyCapacity: 1000},
		{Code: "ENERGY-CUBE-1MW", Category: "Industrial BESS", UnitPrice: 750000, PowerRating: 1000, EnergyCapacity: 2000},
		{Code: "GRID-MASTER-2MW", Category: "Grid Services BESS", UnitPrice: 1350000, PowerRating: 2000, EnergyCapacity: 4000},
		{Code: "COMPACT-ESS-100", Category: "Commercial BESS", UnitPrice: 95000, PowerRating: 100, EnergyCapacity: 200},
		{Code: "BATTERY-RACK-215", Category: "Battery Storage", UnitPrice: 85000, PowerRating: 0, EnergyCapacity: 215},
		{Code: "EMS-CONTROLLER-PRO", Category: "Energy Management System", UnitPrice: 25000, PowerRating: 0, EnergyCapacity: 0},
	}
}

func TestSelectBundleIndustrialMegawatt(t *testing.T) {
	product, quantity, err := SelectBundle(1000, 2000, testSelectorCatalog(), "industriale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Code != "ENERGY-CUBE-1MW" {
		t.Fatalf("expected ENERGY-CUBE-1MW, got %s", product.Code)
	}
	if quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", quantity)
	}
	if total := product.UnitPrice * float64(quantity); total != 750000 {
		t.Errorf("expected total 750000, got %v", total)
	}
}

func TestSelectBundleQuantityCoversBothDimensions(t *testing.T) {
	catalog := []transport.ProductSnapshot{
		{Code: "ONLY", Category: "Industrial BESS", PowerRating: 1000, EnergyCapacity: 2000},
	}

	_, quantity, err := SelectBundle(1500, 1500, catalog, "industriale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Power needs 2 units even though capacity needs only 1.
	if quantity != 2 {
		t.Fatalf("expected 2 units, got %d", quantity)
	}
}

func TestSelectBundleEmptyCatalog(t *testing.T) {
	_, _, err := SelectBundle(100, 200, nil, "commerciale")
	if err == nil {
		t.Fatal("expected error for empty catalog")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestSelectBundleAreaFilterFallsBackWhenEmpty(t *testing.T) {
	catalog := []transport.ProductSnapshot{
		{Code: "STORAGE-ONLY", Category: "Battery Storage", PowerRating: 0, EnergyCapacity: 215},
	}

	// No "commerciale" category keyword matches; the unfiltered catalog
	// must be used instead of failing.
	product, quantity, err := SelectBundle(50, 430, catalog, "commerciale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Code != "STORAGE-ONLY" || quantity != 2 {
		t.Fatalf("expected STORAGE-ONLY x2, got %s x%d", product.Code, quantity)
	}
}

func TestSelectBundleZeroRatedDimensionNonBinding(t *testing.T) {
	catalog := []transport.ProductSnapshot{
		{Code: "RACK", Category: "Battery Storage", PowerRating: 0, EnergyCapacity: 215},
		{Code: "EMS", Category: "Energy Management System", PowerRating: 0, EnergyCapacity: 0},
	}

	product, quantity, err := SelectBundle(1000, 430, catalog, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// EMS binds on neither dimension and must never be selected.
	if product.Code != "RACK" {
		t.Fatalf("expected RACK, got %s", product.Code)
	}
	if quantity != 2 {
		t.Fatalf("expected 2 units for 430 kWh on 215 kWh racks, got %d", quantity)
	}
}

func TestSelectBundleTieBreaksOnHigherPower(t *testing.T) {
	catalog := []transport.ProductSnapshot{
		{Code: "SMALL", Category: "Commercial BESS", PowerRating: 100, EnergyCapacity: 200},
		{Code: "BIG", Category: "Commercial BESS", PowerRating: 500, EnergyCapacity: 1000},
	}

	// Both need exactly 1 unit; the higher-rated product sorts first and
	// keeps the win.
	product, quantity, err := SelectBundle(80, 150, catalog, "commerciale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Code != "BIG" || quantity != 1 {
		t.Fatalf("expected BIG x1, got %s x%d", product.Code, quantity)
	}
}

func TestSelectBundleUtilityArea(t *testing.T) {
	product, quantity, err := SelectBundle(2000, 4000, testSelectorCatalog(), "utility")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Code != "GRID-MASTER-2MW" || quantity != 1 {
		t.Fatalf("expected GRID-MASTER-2MW x1, got %s x%d", product.Code, quantity)
	}
}

func TestSelectBundleResidentialUsesWholeCatalog(t *testing.T) {
	product, quantity, err := SelectBundle(60, 120, testSelectorCatalog(), "residenziale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Code == "" || quantity < 1 {
		t.Fatalf("expected a selection, got %s x%d", product.Code, quantity)
	}
}
