package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"bess_quote_backend/internal/email"
	"bess_quote_backend/internal/offer/renderer"
	"bess_quote_backend/internal/offer/transport"
	qt "bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/logger"
)

type fakeQuoteSource struct {
	quote    *qt.Quote
	sentTo   string
	sentBy   Actor
	sentID   uuid.UUID
	markErr  error
	markCall int
}

func (f *fakeQuoteSource) GetQuote(_ context.Context, id uuid.UUID) (*qt.Quote, error) {
	if f.quote == nil || f.quote.ID != id {
		return nil, apperr.NotFound("quote not found")
	}
	return f.quote, nil
}

func (f *fakeQuoteSource) MarkQuoteSent(_ context.Context, actor Actor, id uuid.UUID, recipient string) error {
	f.markCall++
	f.sentBy = actor
	f.sentID = id
	f.sentTo = recipient
	return f.markErr
}

type fakeConverter struct {
	err error
}

func (f *fakeConverter) ConvertHTML(_ context.Context, html []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("%PDF-1.4 "), html[:16]...), nil
}

type fakeSender struct {
	to          string
	subject     string
	body        string
	attachments []email.Attachment
	err         error
}

func (f *fakeSender) SendOfferEmail(_ context.Context, to, subject, body string, attachments ...email.Attachment) error {
	if f.err != nil {
		return f.err
	}
	f.to = to
	f.subject = subject
	f.body = body
	f.attachments = attachments
	return nil
}

type rendererConfig struct{}

func (rendererConfig) GetAppBaseURL() string { return "https://app.ffdpower.example" }

func testQuote() *qt.Quote {
	return &qt.Quote{
		ID:            uuid.New(),
		QuoteNumber:   "FFD-BESS-20260315-0042",
		ReferenceCode: "20260315-0007",
		Status:        "confirmed",
		CustomerData: qt.CustomerData{
			Name:         "Mario Colombo",
			Email:        "mario.colombo@acme.it",
			Company:      "Acme Energia",
			PowerKW:      1000,
			CapacityKWH:  2000,
			ValidityDays: 30,
		},
		Items: []qt.QuoteItem{
			{
				ID: uuid.New(),
				Product: qt.ProductSnapshot{
					Code:           "ENERGY-CUBE-1MW",
					Name:           "Energy Cube 1MW",
					Category:       "Container BESS",
					UnitPrice:      750000,
					PowerRating:    1000,
					EnergyCapacity: 2000,
				},
				Quantity:   1,
				BasePrice:  750000,
				TotalPrice: 750000,
			},
		},
		TotalAmount: 750000,
		CreatedAt:   time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func testService(t *testing.T, quotes *fakeQuoteSource, converter *fakeConverter, sender *fakeSender) *Service {
	t.Helper()
	r, err := renderer.New(rendererConfig{})
	if err != nil {
		t.Fatalf("renderer.New: %v", err)
	}
	return New(quotes, r, converter, sender, nil, "", logger.New("test"))
}

func TestEmailDraftWording(t *testing.T) {
	quotes := &fakeQuoteSource{quote: testQuote()}
	svc := testService(t, quotes, &fakeConverter{}, &fakeSender{})

	draft, err := svc.EmailDraft(context.Background(), quotes.quote.ID)
	if err != nil {
		t.Fatalf("EmailDraft: %v", err)
	}

	if draft.To != "mario.colombo@acme.it" {
		t.Errorf("To = %q", draft.To)
	}
	wantSubject := "FFD Power Offerta BESS FFD-BESS-20260315-0042 - Acme Energia"
	if draft.Subject != wantSubject {
		t.Errorf("Subject = %q, want %q", draft.Subject, wantSubject)
	}

	for _, want := range []string{
		"Gentile Mario Colombo,",
		"- Riferimento: FFD-BESS-20260315-0042",
		"- Codice: 20260315-0007",
		"- Potenza Sistema: 1000 kW",
		"- Capacità Sistema: 2000 kWh",
		"- Importo Totale: € 750.000",
		"valida per 30 giorni",
		"Cordiali saluti,\nTeam FFD Power Italy",
	} {
		if !strings.Contains(draft.Body, want) {
			t.Errorf("draft body missing %q", want)
		}
	}
}

func TestRenderPDFReturnsDocument(t *testing.T) {
	quotes := &fakeQuoteSource{quote: testQuote()}
	svc := testService(t, quotes, &fakeConverter{}, &fakeSender{})

	data, fileName, err := svc.RenderPDF(context.Background(), quotes.quote.ID)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("expected PDF payload")
	}
	if !strings.HasPrefix(fileName, "FFD_Power_Offerta_BESS_") || !strings.HasSuffix(fileName, ".pdf") {
		t.Errorf("unexpected file name %q", fileName)
	}
}

func TestSendEmailsAttachmentAndMarksSent(t *testing.T) {
	quotes := &fakeQuoteSource{quote: testQuote()}
	sender := &fakeSender{}
	svc := testService(t, quotes, &fakeConverter{}, sender)

	actor := Actor{ID: uuid.New(), Name: "Marco Rossi"}
	result, err := svc.Send(context.Background(), actor, quotes.quote.ID, transport.SendQuoteRequest{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if result.SentTo != "mario.colombo@acme.it" || result.Status != "sent" {
		t.Errorf("unexpected result %+v", result)
	}
	if sender.to != "mario.colombo@acme.it" {
		t.Errorf("sender.to = %q", sender.to)
	}
	if len(sender.attachments) != 1 || sender.attachments[0].MIMEType != "application/pdf" {
		t.Fatalf("expected one PDF attachment, got %+v", sender.attachments)
	}
	if quotes.markCall != 1 || quotes.sentTo != "mario.colombo@acme.it" || quotes.sentBy.Name != "Marco Rossi" {
		t.Errorf("MarkQuoteSent not recorded: calls=%d to=%q by=%q", quotes.markCall, quotes.sentTo, quotes.sentBy.Name)
	}
}

func TestSendHonorsRecipientOverride(t *testing.T) {
	quotes := &fakeQuoteSource{quote: testQuote()}
	sender := &fakeSender{}
	svc := testService(t, quotes, &fakeConverter{}, sender)

	result, err := svc.Send(context.Background(), Actor{ID: uuid.New()}, quotes.quote.ID, transport.SendQuoteRequest{To: "acquisti@acme.it"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if result.SentTo != "acquisti@acme.it" || sender.to != "acquisti@acme.it" {
		t.Errorf("override not honored: result=%q sender=%q", result.SentTo, sender.to)
	}
}

func TestSendRejectsMissingRecipient(t *testing.T) {
	q := testQuote()
	q.CustomerData.Email = ""
	quotes := &fakeQuoteSource{quote: q}
	svc := testService(t, quotes, &fakeConverter{}, &fakeSender{})

	_, err := svc.Send(context.Background(), Actor{ID: uuid.New()}, q.ID, transport.SendQuoteRequest{})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Errorf("expected bad request, got %v", err)
	}
	if quotes.markCall != 0 {
		t.Error("quote must not be marked sent on failure")
	}
}

func TestSendDoesNotMarkSentWhenEmailFails(t *testing.T) {
	quotes := &fakeQuoteSource{quote: testQuote()}
	sender := &fakeSender{err: context.DeadlineExceeded}
	svc := testService(t, quotes, &fakeConverter{}, sender)

	_, err := svc.Send(context.Background(), Actor{ID: uuid.New()}, quotes.quote.ID, transport.SendQuoteRequest{})
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Errorf("expected unavailable, got %v", err)
	}
	if quotes.markCall != 0 {
		t.Error("quote must not be marked sent when email delivery fails")
	}
}
