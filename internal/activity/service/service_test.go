package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"bess_quote_backend/internal/activity/repository"
	"bess_quote_backend/internal/activity/transport"
	"bess_quote_backend/internal/events"
	platformevents "bess_quote_backend/platform/events"
	"bess_quote_backend/platform/logger"
)

type fakeActivityRepo struct {
	entries []repository.Entry
}

func (f *fakeActivityRepo) Insert(_ context.Context, entry *repository.Entry) error {
	f.entries = append(f.entries, *entry)
	if len(f.entries) > 1000 {
		f.entries = f.entries[len(f.entries)-1000:]
	}
	return nil
}

func (f *fakeActivityRepo) List(_ context.Context, params repository.ListParams) ([]repository.Entry, error) {
	limit := params.Limit
	if limit < 1 {
		limit = 50
	}
	out := make([]repository.Entry, 0, limit)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := f.entries[i]
		if params.UserID != nil && e.UserID != *params.UserID {
			continue
		}
		if params.Action != "" && e.Action != params.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeActivityRepo) LastForUser(_ context.Context, userID uuid.UUID) (*time.Time, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].UserID == userID {
			at := f.entries[i].CreatedAt
			return &at, nil
		}
	}
	return nil, nil
}

func newTestService() (*Service, *fakeActivityRepo) {
	repo := &fakeActivityRepo{}
	svc := New(repo, logger.New("test"))
	return svc, repo
}

func TestRecordAndList(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := svc.Record(context.Background(), userID, "Marco Rossi", "login", "Login effettuato da Marco Rossi", nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := svc.Record(context.Background(), uuid.New(), "Giulia Bianchi", "create_quote", "Nuovo preventivo creato: FFD-BESS-20260315-0001", map[string]any{"totalAmount": 750000.0}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	all, err := svc.List(context.Background(), transport.ListActivityRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].Action != "create_quote" {
		t.Errorf("newest first: got %q", all[0].Action)
	}

	filtered, err := svc.List(context.Background(), transport.ListActivityRequest{UserID: userID.String()})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 3 {
		t.Errorf("filtered len = %d, want 3", len(filtered))
	}
}

func TestSubscribersTranslateEvents(t *testing.T) {
	svc, repo := newTestService()
	log := logger.New("test")
	bus := platformevents.NewInMemoryBus(log)
	svc.RegisterSubscribers(bus)

	userID := uuid.New()
	quoteID := uuid.New()

	err := bus.PublishSync(context.Background(), events.QuoteCreated{
		QuoteID:     quoteID,
		QuoteNumber: "FFD-BESS-20260315-0042",
		TotalAmount: 420000,
		UserID:      userID,
		Username:    "Marco Rossi",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	err = bus.PublishSync(context.Background(), events.QuoteStatusChanged{
		QuoteID:     quoteID,
		QuoteNumber: "FFD-BESS-20260315-0042",
		OldStatus:   "draft",
		NewStatus:   "confirmed",
		UserID:      userID,
		Username:    "Marco Rossi",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(repo.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(repo.entries))
	}
	if repo.entries[0].Action != "create_quote" {
		t.Errorf("action = %q, want create_quote", repo.entries[0].Action)
	}
	if !strings.Contains(repo.entries[0].Description, "FFD-BESS-20260315-0042") {
		t.Errorf("description = %q", repo.entries[0].Description)
	}
	if repo.entries[1].Action != "update_quote" || !strings.Contains(repo.entries[1].Description, "confirmed") {
		t.Errorf("status entry = %+v", repo.entries[1])
	}
}

func TestLastActivity(t *testing.T) {
	svc, _ := newTestService()
	userID := uuid.New()

	last, err := svc.LastActivity(context.Background(), userID)
	if err != nil {
		t.Fatalf("LastActivity: %v", err)
	}
	if last != nil {
		t.Error("expected nil for silent user")
	}

	if err := svc.Record(context.Background(), userID, "Marco Rossi", "login", "Login effettuato da Marco Rossi", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}
	last, err = svc.LastActivity(context.Background(), userID)
	if err != nil {
		t.Fatalf("LastActivity: %v", err)
	}
	if last == nil {
		t.Error("expected timestamp after recording")
	}
}
