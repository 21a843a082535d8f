// Package transport defines the wire types for the quotes API. The Quote
// JSON shape doubles as the backup snapshot encoding, so it must round-trip
// losslessly.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CustomerData is the full requirement set collected by the quote wizard.
type CustomerData struct {
	Name             string   `json:"name" validate:"required"`
	Email            string   `json:"email" validate:"required,email"`
	Phone            string   `json:"phone"`
	Company          string   `json:"company"`
	Address          string   `json:"address"`
	InstallationType string   `json:"installationType" validate:"omitempty,oneof=BESS ESS Storage"`
	PowerKW          float64  `json:"power" validate:"gt=0"`
	CapacityKWH      float64  `json:"capacity" validate:"gt=0"`
	ConnectionType   string   `json:"connectionType" validate:"omitempty,oneof=BT MT AT"`
	Usage            []string `json:"usage"`
	ApplicationArea  string   `json:"applicationArea" validate:"omitempty,area_category"`
	HasPV            bool     `json:"hasPV"`
	PVPowerKW        float64  `json:"pvPower" validate:"gte=0"`
	AdditionalNotes  string   `json:"additionalNotes"`
	ValidityDays     int      `json:"validityDays" validate:"gte=1,lte=365"`
}

// ProductSnapshot is the product state frozen into a quote item at creation
// time. Later catalog or price changes never touch existing quotes.
type ProductSnapshot struct {
	Code              string  `json:"code" validate:"required"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	UnitPrice         float64 `json:"unitPrice" validate:"gte=0"`
	PowerRating       float64 `json:"powerRating" validate:"gte=0"`
	EnergyCapacity    float64 `json:"energyCapacity" validate:"gte=0"`
	Category          string  `json:"category"`
	Voltage           string  `json:"voltage"`
	Efficiency        float64 `json:"efficiency"`
	CycleLife         int     `json:"cycleLife"`
	CertificationPath string  `json:"certificationPath"`
	SchematicPath     string  `json:"schematicPath"`
	Datasheet         string  `json:"datasheet"`
}

// QuoteItem is one line of a quote. Product.UnitPrice carries the effective
// (discounted) unit price; BasePrice retains the pre-discount price so
// removing the discount restores it exactly.
type QuoteItem struct {
	ID          uuid.UUID       `json:"id"`
	Product     ProductSnapshot `json:"product"`
	Quantity    int             `json:"quantity"`
	BasePrice   float64         `json:"basePrice"`
	DiscountPct float64         `json:"discountPct"`
	TotalPrice  float64         `json:"totalPrice"`
}

// UserRef identifies the user attached to a quote.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
}

// Quote is the full quote representation.
type Quote struct {
	ID             uuid.UUID    `json:"id"`
	QuoteNumber    string       `json:"quoteNumber"`
	ReferenceCode  string       `json:"referenceCode"`
	Status         string       `json:"status"`
	CustomerData   CustomerData `json:"customerData"`
	Items          []QuoteItem  `json:"items"`
	TotalAmount    float64      `json:"totalAmount"`
	Notes          *string      `json:"notes,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	CreatedBy      UserRef      `json:"createdBy"`
	AssignedTo     *UserRef     `json:"assignedTo,omitempty"`
	LastModifiedBy *UserRef     `json:"lastModifiedBy,omitempty"`
	LastModifiedAt *time.Time   `json:"lastModifiedAt,omitempty"`
	ConfirmedAt    *time.Time   `json:"confirmedAt,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// GenerateQuoteRequest runs the automatic pipeline: bundle selection over
// the current catalog followed by quote assembly.
type GenerateQuoteRequest struct {
	CustomerData CustomerData `json:"customerData" validate:"required"`
}

// ManualItem is an operator-picked line for the manual wizard path.
type ManualItem struct {
	ProductCode string   `json:"productCode" validate:"required"`
	Quantity    int      `json:"quantity" validate:"gte=1"`
	BasePrice   *float64 `json:"basePrice" validate:"omitempty,gte=0"`
	DiscountPct float64  `json:"discountPct" validate:"gte=0,lte=100"`
}

// GenerateFromItemsRequest assembles a quote from a manual item list.
type GenerateFromItemsRequest struct {
	CustomerData CustomerData `json:"customerData" validate:"required"`
	Items        []ManualItem `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuoteRequest edits quote fields; nil fields are left unchanged.
// A non-nil Items slice replaces the item list.
type UpdateQuoteRequest struct {
	CustomerData *CustomerData `json:"customerData" validate:"omitempty"`
	Notes        *string       `json:"notes"`
	Tags         []string      `json:"tags"`
	Items        []ManualItem  `json:"items" validate:"omitempty,min=1,dive"`
	AssignedTo   *uuid.UUID    `json:"assignedTo"`
}

// UpdateStatusRequest moves a quote through its lifecycle. Any target status
// is accepted; the machine is deliberately permissive.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,quote_status"`
}

// UpdateItemDiscountRequest sets the discount percentage on one item.
// Zero removes the discount and restores the base price.
type UpdateItemDiscountRequest struct {
	DiscountPct float64 `json:"discountPct" validate:"gte=0,lte=100"`
}

// ListQuotesRequest holds list query parameters.
type ListQuotesRequest struct {
	Status    string `form:"status" validate:"omitempty,quote_status"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// ListQuotesResponse is the paginated quote list.
type ListQuotesResponse struct {
	Items      []Quote `json:"items"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}
