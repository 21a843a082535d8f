package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Quote is the database model for a quote header. Customer holds the raw
// JSON encoding of the customer data block.
type Quote struct {
	ID                 uuid.UUID
	QuoteNumber        string
	ReferenceCode      string
	Status             string
	Customer           []byte
	TotalAmount        float64
	Notes              *string
	Tags               []string
	CreatedBy          uuid.UUID
	CreatedByName      string
	AssignedTo         *uuid.UUID
	AssignedToName     *string
	LastModifiedBy     *uuid.UUID
	LastModifiedByName *string
	LastModifiedAt     *time.Time
	ConfirmedAt        *time.Time
	CreatedAt          time.Time
}

// QuoteItem is the database model for a quote line. Product holds the raw
// JSON product snapshot.
type QuoteItem struct {
	ID          uuid.UUID
	QuoteID     uuid.UUID
	Product     []byte
	Quantity    int
	BasePrice   float64
	DiscountPct float64
	TotalPrice  float64
	SortOrder   int
	CreatedAt   time.Time
}

// ListParams contains parameters for listing quotes.
type ListParams struct {
	Status    *string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing quotes.
type ListResult struct {
	Items      []Quote
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// UserQuoteStats aggregates quote counts and volume per creating user.
type UserQuoteStats struct {
	UserID      uuid.UUID
	QuoteCount  int
	TotalAmount float64
}

// Repository is the persistence port for quotes. The Postgres
// implementation lives in this package; tests substitute in-memory fakes.
type Repository interface {
	// NextReferenceSeq atomically increments and returns the per-day counter
	// for reference codes. day is formatted YYYYMMDD.
	NextReferenceSeq(ctx context.Context, day string) (int, error)
	CreateWithItems(ctx context.Context, quote *Quote, items []QuoteItem) error
	UpdateWithItems(ctx context.Context, quote *Quote, items []QuoteItem, replaceItems bool) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	GetItemsByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]QuoteItem, error)
	UpdateItem(ctx context.Context, item *QuoteItem) error
	UpdateStatus(ctx context.Context, quote *Quote) error
	UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	ListAll(ctx context.Context) ([]Quote, map[uuid.UUID][]QuoteItem, error)
	StatsByUser(ctx context.Context) ([]UserQuoteStats, error)
	// UserStats returns total quote count, count since the given instant
	// and total volume for one creating user.
	UserStats(ctx context.Context, userID uuid.UUID, since time.Time) (total int, sinceCount int, totalAmount float64, err error)
}
