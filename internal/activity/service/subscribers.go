package service

import (
	"context"
	"fmt"

	"bess_quote_backend/internal/events"
)

// RegisterSubscribers wires the audit trail to the domain events published
// by the auth and quotes modules.
func (s *Service) RegisterSubscribers(bus events.Bus) {
	bus.Subscribe(events.UserLoggedIn{}.EventName(), events.HandlerFunc(s.onUserLoggedIn))
	bus.Subscribe(events.UserLoggedOut{}.EventName(), events.HandlerFunc(s.onUserLoggedOut))
	bus.Subscribe(events.UserCreated{}.EventName(), events.HandlerFunc(s.onUserCreated))
	bus.Subscribe(events.UserUpdated{}.EventName(), events.HandlerFunc(s.onUserUpdated))
	bus.Subscribe(events.UserDeleted{}.EventName(), events.HandlerFunc(s.onUserDeleted))
	bus.Subscribe(events.QuoteCreated{}.EventName(), events.HandlerFunc(s.onQuoteCreated))
	bus.Subscribe(events.QuoteUpdated{}.EventName(), events.HandlerFunc(s.onQuoteUpdated))
	bus.Subscribe(events.QuoteStatusChanged{}.EventName(), events.HandlerFunc(s.onQuoteStatusChanged))
	bus.Subscribe(events.QuoteSent{}.EventName(), events.HandlerFunc(s.onQuoteSent))
	bus.Subscribe(events.QuoteDeleted{}.EventName(), events.HandlerFunc(s.onQuoteDeleted))
}

func (s *Service) onUserLoggedIn(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.UserLoggedIn)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.UserID, ev.Username, "login",
		fmt.Sprintf("Login effettuato da %s", ev.Username), nil)
}

func (s *Service) onUserLoggedOut(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.UserLoggedOut)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.UserID, ev.Username, "logout",
		fmt.Sprintf("Logout effettuato da %s", ev.Username), nil)
}

func (s *Service) onUserCreated(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.UserCreated)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.ActorID, ev.ActorName, "create_user",
		fmt.Sprintf("Nuovo utente creato: %s", ev.Username),
		map[string]any{"newUserId": ev.UserID.String()})
}

func (s *Service) onUserUpdated(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.UserUpdated)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.ActorID, ev.ActorName, "update_user",
		fmt.Sprintf("Dati utente %s aggiornati", ev.Username),
		map[string]any{"targetUserId": ev.UserID.String()})
}

func (s *Service) onUserDeleted(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.UserDeleted)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.ActorID, ev.ActorName, "delete_user",
		fmt.Sprintf("Utente eliminato: %s", ev.Username),
		map[string]any{"deletedUserId": ev.UserID.String()})
}

func (s *Service) onQuoteCreated(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.QuoteCreated)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.UserID, ev.Username, "create_quote",
		fmt.Sprintf("Nuovo preventivo creato: %s", ev.QuoteNumber),
		map[string]any{"quoteId": ev.QuoteID.String(), "totalAmount": ev.TotalAmount})
}

func (s *Service) onQuoteUpdated(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.QuoteUpdated)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.UserID, ev.Username, "update_quote",
		fmt.Sprintf("Preventivo %s aggiornato", ev.QuoteNumber),
		map[string]any{"quoteId": ev.QuoteID.String()})
}

func (s *Service) onQuoteStatusChanged(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.QuoteStatusChanged)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.UserID, ev.Username, "update_quote",
		fmt.Sprintf("Stato preventivo %s cambiato da %s a %s", ev.QuoteNumber, ev.OldStatus, ev.NewStatus),
		map[string]any{"quoteId": ev.QuoteID.String(), "oldStatus": ev.OldStatus, "newStatus": ev.NewStatus})
}

func (s *Service) onQuoteSent(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.QuoteSent)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.UserID, ev.Username, "send_quote",
		fmt.Sprintf("Preventivo %s inviato a %s", ev.QuoteNumber, ev.Recipient),
		map[string]any{"quoteId": ev.QuoteID.String(), "recipient": ev.Recipient})
}

func (s *Service) onQuoteDeleted(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.QuoteDeleted)
	if !ok {
		return nil
	}
	return s.Record(ctx, ev.UserID, ev.Username, "delete_quote",
		fmt.Sprintf("Preventivo eliminato: %s", ev.QuoteNumber),
		map[string]any{"quoteId": ev.QuoteID.String()})
}
