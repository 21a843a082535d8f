package adapters

import (
	"context"

	"github.com/google/uuid"

	offersvc "bess_quote_backend/internal/offer/service"
	quotessvc "bess_quote_backend/internal/quotes/service"
	"bess_quote_backend/internal/quotes/transport"
)

// OfferQuoteSource adapts the quotes service for the offer module,
// satisfying offer/service.QuoteSource.
type OfferQuoteSource struct {
	quotes *quotessvc.Service
}

// NewOfferQuoteSource creates an offer quote source adapter.
func NewOfferQuoteSource(quotes *quotessvc.Service) *OfferQuoteSource {
	return &OfferQuoteSource{quotes: quotes}
}

// GetQuote returns one quote with items.
func (a *OfferQuoteSource) GetQuote(ctx context.Context, id uuid.UUID) (*transport.Quote, error) {
	return a.quotes.Get(ctx, id)
}

// MarkQuoteSent records the send transition on the quote.
func (a *OfferQuoteSource) MarkQuoteSent(ctx context.Context, actor offersvc.Actor, id uuid.UUID, recipient string) error {
	_, err := a.quotes.MarkSent(ctx, quotessvc.Actor{ID: actor.ID, Name: actor.Name}, id, recipient)
	return err
}

var _ offersvc.QuoteSource = (*OfferQuoteSource)(nil)
