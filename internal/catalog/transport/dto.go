// Package transport defines request/response DTOs for the catalog API.
package transport

// RefreshPricesRequest asks for current prices of specific products.
type RefreshPricesRequest struct {
	Codes []string `json:"codes" validate:"required,min=1,dive,required"`
}

// RefreshPricesResponse returns the refreshed prices keyed by product code.
// Codes missing from the map kept their previous price.
type RefreshPricesResponse struct {
	Prices map[string]float64 `json:"prices"`
}

// HealthResponse reports remote pricing service reachability.
type HealthResponse struct {
	Configured bool `json:"configured"`
	Reachable  bool `json:"reachable"`
}
