package adapters

import (
	"context"

	"github.com/google/uuid"

	authsvc "bess_quote_backend/internal/auth/service"
	quotessvc "bess_quote_backend/internal/quotes/service"
)

// QuoteStatsProvider adapts the quotes service for the user stats view,
// satisfying auth/service.QuoteStatsProvider.
type QuoteStatsProvider struct {
	quotes *quotessvc.Service
}

// NewQuoteStatsProvider creates a quote stats adapter.
func NewQuoteStatsProvider(quotes *quotessvc.Service) *QuoteStatsProvider {
	return &QuoteStatsProvider{quotes: quotes}
}

// UserQuoteStats returns quote counts and total value for one user.
func (a *QuoteStatsProvider) UserQuoteStats(ctx context.Context, userID uuid.UUID) (total int, thisMonth int, totalValue float64, err error) {
	return a.quotes.UserStats(ctx, userID)
}

var _ authsvc.QuoteStatsProvider = (*QuoteStatsProvider)(nil)
