// Package service renders offer documents, builds offer emails and sends
// them to customers.
package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bess_quote_backend/internal/email"
	"bess_quote_backend/internal/offer/renderer"
	"bess_quote_backend/internal/offer/transport"
	"bess_quote_backend/internal/pdf"
	qt "bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/internal/storage"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/logger"
)

// Actor identifies the operator performing an offer action.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// QuoteSource supplies quotes and records the send transition.
type QuoteSource interface {
	GetQuote(ctx context.Context, id uuid.UUID) (*qt.Quote, error)
	MarkQuoteSent(ctx context.Context, actor Actor, id uuid.UUID, recipient string) error
}

// Service implements offer operations.
type Service struct {
	quotes    QuoteSource
	renderer  *renderer.Renderer
	converter pdf.Converter
	sender    email.Sender
	store     storage.ObjectStore
	bucket    string
	log       *logger.Logger
}

// New creates the offer service. store may be nil when object storage is
// not configured; rendered PDFs are then returned without being archived.
func New(quotes QuoteSource, r *renderer.Renderer, converter pdf.Converter, sender email.Sender, store storage.ObjectStore, bucket string, log *logger.Logger) *Service {
	return &Service{
		quotes:    quotes,
		renderer:  r,
		converter: converter,
		sender:    sender,
		store:     store,
		bucket:    bucket,
		log:       log,
	}
}

// RenderPDF renders the offer document for a quote and returns the PDF
// bytes together with the download file name.
func (s *Service) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	quote, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := s.renderOffer(ctx, quote)
	if err != nil {
		return nil, "", err
	}
	return data, s.renderer.FileName(quote), nil
}

// EmailDraft builds the prefilled offer email for a quote.
func (s *Service) EmailDraft(ctx context.Context, id uuid.UUID) (*transport.EmailDraft, error) {
	quote, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := buildDraft(quote)
	return &draft, nil
}

// Send renders the offer PDF, emails it to the customer and marks the
// quote as sent. req.To overrides the customer address when set.
func (s *Service) Send(ctx context.Context, actor Actor, id uuid.UUID, req transport.SendQuoteRequest) (*transport.SendQuoteResponse, error) {
	quote, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	to := strings.TrimSpace(req.To)
	if to == "" {
		to = quote.CustomerData.Email
	}
	if to == "" {
		return nil, apperr.BadRequest("quote has no recipient email").WithCode("missing_recipient")
	}

	data, err := s.renderOffer(ctx, quote)
	if err != nil {
		return nil, err
	}

	draft := buildDraft(quote)
	attachment := email.Attachment{
		Content:  data,
		FileName: s.renderer.FileName(quote),
		MIMEType: "application/pdf",
	}
	if err := s.sender.SendOfferEmail(ctx, to, draft.Subject, draft.Body, attachment); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "failed to send offer email", err).WithOp("offer.Send")
	}

	if err := s.quotes.MarkQuoteSent(ctx, actor, id, to); err != nil {
		return nil, err
	}

	s.log.Info("offer sent", "quoteNumber", quote.QuoteNumber, "to", to)
	return &transport.SendQuoteResponse{QuoteID: id, SentTo: to, Status: "sent"}, nil
}

func (s *Service) renderOffer(ctx context.Context, quote *qt.Quote) ([]byte, error) {
	html, err := s.renderer.RenderHTML(quote)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to render offer document", err).WithOp("offer.renderOffer")
	}

	data, err := s.converter.ConvertHTML(ctx, html)
	if err != nil {
		return nil, err
	}

	s.archive(ctx, quote, data)
	return data, nil
}

// archive stores the rendered PDF when object storage is configured.
// Failures are logged, never surfaced.
func (s *Service) archive(ctx context.Context, quote *qt.Quote, data []byte) {
	if s.store == nil {
		return
	}
	key := fmt.Sprintf("offers/%s.pdf", quote.QuoteNumber)
	if err := s.store.Put(ctx, s.bucket, key, "application/pdf", bytes.NewReader(data), int64(len(data))); err != nil {
		s.log.Warn("failed to archive offer pdf", "key", key, "error", err)
	}
}

func buildDraft(quote *qt.Quote) transport.EmailDraft {
	validity := quote.CustomerData.ValidityDays
	if validity <= 0 {
		validity = 30
	}

	subject := fmt.Sprintf("FFD Power Offerta BESS %s - %s", quote.QuoteNumber, quote.CustomerData.Company)
	body := fmt.Sprintf(`Gentile %s,

In allegato trova la nostra offerta per il sistema BESS come richiesto.

Dettagli Offerta:
- Riferimento: %s
- Codice: %s
- Potenza Sistema: %s kW
- Capacità Sistema: %s kWh
- Importo Totale: € %s

Questa offerta è valida per %d giorni dalla data di emissione.

Per qualsiasi domanda o per richiedere informazioni aggiuntive, non esiti a contattarci.

Cordiali saluti,
Team FFD Power Italy
info@ffdpower.com
Tel: +39 000 000 0000`,
		quote.CustomerData.Name,
		quote.QuoteNumber,
		quote.ReferenceCode,
		trimFloat(quote.CustomerData.PowerKW),
		trimFloat(quote.CustomerData.CapacityKWH),
		renderer.AmountIT(quote.TotalAmount),
		validity,
	)

	return transport.EmailDraft{To: quote.CustomerData.Email, Subject: subject, Body: body}
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
