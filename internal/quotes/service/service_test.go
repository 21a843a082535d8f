package service

import (
	"context"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

	"bess_quote_backend/internal/quotes/repository"
	"bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/events"
	"bess_quote_backend/platform/logger"
)

type fakeRepo struct {
	counters map[string]int
	quotes   map[uuid.UUID]*repository.Quote
	items    map[uuid.UUID][]repository.QuoteItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		counters: make(map[string]int),
		quotes:   make(map[uuid.UUID]*repository.Quote),
		items:    make(map[uuid.UUID][]repository.QuoteItem),
	}
}

func (f *fakeRepo) NextReferenceSeq(_ context.Context, day string) (int, error) {
	f.counters[day]++
	return f.counters[day], nil
}

func (f *fakeRepo) CreateWithItems(_ context.Context, quote *repository.Quote, items []repository.QuoteItem) error {
	cp := *quote
	f.quotes[quote.ID] = &cp
	f.items[quote.ID] = append([]repository.QuoteItem(nil), items...)
	return nil
}

func (f *fakeRepo) UpdateWithItems(_ context.Context, quote *repository.Quote, items []repository.QuoteItem, replaceItems bool) error {
	cp := *quote
	f.quotes[quote.ID] = &cp
	if replaceItems {
		f.items[quote.ID] = append([]repository.QuoteItem(nil), items...)
	}
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*repository.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return nil, errNotFound()
	}
	cp := *q
	return &cp, nil
}

func (f *fakeRepo) GetItemsByQuoteID(_ context.Context, quoteID uuid.UUID) ([]repository.QuoteItem, error) {
	return append([]repository.QuoteItem(nil), f.items[quoteID]...), nil
}

func (f *fakeRepo) UpdateItem(_ context.Context, item *repository.QuoteItem) error {
	list := f.items[item.QuoteID]
	for i := range list {
		if list[i].ID == item.ID {
			list[i] = *item
			return nil
		}
	}
	return errNotFound()
}

func (f *fakeRepo) UpdateStatus(_ context.Context, quote *repository.Quote) error {
	existing, ok := f.quotes[quote.ID]
	if !ok {
		return errNotFound()
	}
	existing.Status = quote.Status
	existing.ConfirmedAt = quote.ConfirmedAt
	existing.LastModifiedBy = quote.LastModifiedBy
	existing.LastModifiedByName = quote.LastModifiedByName
	existing.LastModifiedAt = quote.LastModifiedAt
	return nil
}

func (f *fakeRepo) UpdateTotal(_ context.Context, id uuid.UUID, total float64) error {
	q, ok := f.quotes[id]
	if !ok {
		return errNotFound()
	}
	q.TotalAmount = total
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.quotes[id]; !ok {
		return errNotFound()
	}
	delete(f.quotes, id)
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	items := make([]repository.Quote, 0, len(f.quotes))
	for _, q := range f.quotes {
		items = append(items, *q)
	}
	return &repository.ListResult{Items: items, Total: len(items), Page: 1, PageSize: 20, TotalPages: 1}, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]repository.Quote, map[uuid.UUID][]repository.QuoteItem, error) {
	quotes := make([]repository.Quote, 0, len(f.quotes))
	for _, q := range f.quotes {
		quotes = append(quotes, *q)
	}
	byQuote := make(map[uuid.UUID][]repository.QuoteItem, len(f.items))
	for id, list := range f.items {
		byQuote[id] = append([]repository.QuoteItem(nil), list...)
	}
	return quotes, byQuote, nil
}

func (f *fakeRepo) StatsByUser(_ context.Context) ([]repository.UserQuoteStats, error) {
	byUser := make(map[uuid.UUID]*repository.UserQuoteStats)
	for _, q := range f.quotes {
		st, ok := byUser[q.CreatedBy]
		if !ok {
			st = &repository.UserQuoteStats{UserID: q.CreatedBy}
			byUser[q.CreatedBy] = st
		}
		st.QuoteCount++
		st.TotalAmount += q.TotalAmount
	}
	out := make([]repository.UserQuoteStats, 0, len(byUser))
	for _, st := range byUser {
		out = append(out, *st)
	}
	return out, nil
}

func (f *fakeRepo) UserStats(_ context.Context, userID uuid.UUID, since time.Time) (int, int, float64, error) {
	total, sinceCount := 0, 0
	amount := 0.0
	for _, q := range f.quotes {
		if q.CreatedBy != userID {
			continue
		}
		total++
		amount += q.TotalAmount
		if !q.CreatedAt.Before(since) {
			sinceCount++
		}
	}
	return total, sinceCount, amount, nil
}

func errNotFound() error {
	return apperr.NotFound("not found")
}

type fakeCatalog struct {
	products []transport.ProductSnapshot
}

func (f *fakeCatalog) ListProducts(_ context.Context) []transport.ProductSnapshot {
	return append([]transport.ProductSnapshot(nil), f.products...)
}

func (f *fakeCatalog) GetProduct(_ context.Context, code string) (transport.ProductSnapshot, error) {
	for _, p := range f.products {
		if p.Code == code {
			return p, nil
		}
	}
	return transport.ProductSnapshot{}, errNotFound()
}

func (f *fakeCatalog) ResolveDocuments(_ context.Context, code string, _ []string) ProductDocuments {
	return ProductDocuments{
		SchematicPath:     "/schematics/" + code + "_generic.pptx",
		CertificationPath: "/certs/" + code + ".pdf",
		Datasheet:         "/datasheets/" + code + ".pdf",
	}
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{products: []transport.ProductSnapshot{
		{Code: "ENERGY-CUBE-1MW", Name: "Energy Cube 1MW", UnitPrice: 750000, PowerRating: 1000, EnergyCapacity: 2000, Category: "Industrial BESS"},
		{Code: "COMPACT-ESS-100", Name: "Compact ESS 100", UnitPrice: 95000, PowerRating: 100, EnergyCapacity: 200, Category: "Commercial BESS"},
		{Code: "EMS-CONTROLLER-PRO", Name: "EMS Controller Pro", UnitPrice: 25000, PowerRating: 0, EnergyCapacity: 0, Category: "Energy Management System"},
	}}
}

func testService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	svc := New(repo, testCatalog(), bus, log)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func testActor() Actor {
	return Actor{ID: uuid.New(), Name: "mrossi"}
}

func testCustomer() transport.CustomerData {
	return transport.CustomerData{
		Name:            "Marco Bianchi",
		Email:           "m.bianchi@example.it",
		PowerKW:         1000,
		CapacityKWH:     2000,
		ApplicationArea: "industriale",
		ValidityDays:    30,
	}
}

func TestGenerateAssemblesDraftQuote(t *testing.T) {
	svc, repo := testService(t)

	quote, err := svc.Generate(context.Background(), testActor(), transport.GenerateQuoteRequest{CustomerData: testCustomer()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if quote.Status != "draft" {
		t.Errorf("status = %q, want draft", quote.Status)
	}
	if len(quote.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(quote.Items))
	}
	item := quote.Items[0]
	if item.Product.Code != "ENERGY-CUBE-1MW" || item.Quantity != 1 {
		t.Errorf("selected %s x%d, want ENERGY-CUBE-1MW x1", item.Product.Code, item.Quantity)
	}
	if quote.TotalAmount != 750000 {
		t.Errorf("total = %v, want 750000", quote.TotalAmount)
	}
	if item.Product.SchematicPath == "" || item.Product.Datasheet == "" {
		t.Error("expected resolved document paths on the selected product")
	}
	if _, ok := repo.quotes[quote.ID]; !ok {
		t.Error("quote was not persisted")
	}
}

func TestQuoteNumberFormat(t *testing.T) {
	svc, _ := testService(t)

	quote, err := svc.Generate(context.Background(), testActor(), transport.GenerateQuoteRequest{CustomerData: testCustomer()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	pattern := regexp.MustCompile(`^FFD-BESS-20260315-\d{4}$`)
	if !pattern.MatchString(quote.QuoteNumber) {
		t.Errorf("quote number %q does not match FFD-BESS-YYYYMMDD-NNNN", quote.QuoteNumber)
	}
}

func TestReferenceCodeSequencePerDay(t *testing.T) {
	svc, _ := testService(t)
	actor := testActor()

	first, err := svc.Generate(context.Background(), actor, transport.GenerateQuoteRequest{CustomerData: testCustomer()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := svc.Generate(context.Background(), actor, transport.GenerateQuoteRequest{CustomerData: testCustomer()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if first.ReferenceCode != "20260315-0001" {
		t.Errorf("first reference = %q, want 20260315-0001", first.ReferenceCode)
	}
	if second.ReferenceCode != "20260315-0002" {
		t.Errorf("second reference = %q, want 20260315-0002", second.ReferenceCode)
	}
}

func TestGenerateFromItemsWithOverrides(t *testing.T) {
	svc, _ := testService(t)
	override := 90000.0

	quote, err := svc.GenerateFromItems(context.Background(), testActor(), transport.GenerateFromItemsRequest{
		CustomerData: testCustomer(),
		Items: []transport.ManualItem{
			{ProductCode: "COMPACT-ESS-100", Quantity: 2, BasePrice: &override},
			{ProductCode: "EMS-CONTROLLER-PRO", Quantity: 1, DiscountPct: 10},
		},
	})
	if err != nil {
		t.Fatalf("GenerateFromItems: %v", err)
	}

	if len(quote.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(quote.Items))
	}
	if quote.Items[0].BasePrice != override || quote.Items[0].TotalPrice != 180000 {
		t.Errorf("override item: base %v total %v, want 90000 / 180000", quote.Items[0].BasePrice, quote.Items[0].TotalPrice)
	}
	if quote.Items[1].TotalPrice != 22500 {
		t.Errorf("discounted item total = %v, want 22500", quote.Items[1].TotalPrice)
	}
	if quote.TotalAmount != 202500 {
		t.Errorf("total = %v, want 202500", quote.TotalAmount)
	}
}

func TestUpdateItemDiscountRoundTrip(t *testing.T) {
	svc, _ := testService(t)
	actor := testActor()

	quote, err := svc.Generate(context.Background(), actor, transport.GenerateQuoteRequest{CustomerData: testCustomer()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	itemID := quote.Items[0].ID

	discounted, err := svc.UpdateItemDiscount(context.Background(), actor, quote.ID, itemID, 20)
	if err != nil {
		t.Fatalf("UpdateItemDiscount: %v", err)
	}
	if discounted.Items[0].Product.UnitPrice != 600000 {
		t.Errorf("effective unit price = %v, want 600000", discounted.Items[0].Product.UnitPrice)
	}
	if discounted.Items[0].BasePrice != 750000 {
		t.Errorf("base price = %v, want retained 750000", discounted.Items[0].BasePrice)
	}
	if discounted.TotalAmount != 600000 {
		t.Errorf("total = %v, want 600000", discounted.TotalAmount)
	}

	restored, err := svc.UpdateItemDiscount(context.Background(), actor, quote.ID, itemID, 0)
	if err != nil {
		t.Fatalf("UpdateItemDiscount(0): %v", err)
	}
	if restored.Items[0].Product.UnitPrice != 750000 {
		t.Errorf("restored unit price = %v, want 750000", restored.Items[0].Product.UnitPrice)
	}
	if restored.TotalAmount != 750000 {
		t.Errorf("restored total = %v, want 750000", restored.TotalAmount)
	}
}

func TestUpdateStatusStampsConfirmedAtOnce(t *testing.T) {
	svc, _ := testService(t)
	actor := testActor()

	quote, err := svc.Generate(context.Background(), actor, transport.GenerateQuoteRequest{CustomerData: testCustomer()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	confirmed, err := svc.UpdateStatus(context.Background(), actor, quote.ID, "confirmed")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if confirmed.ConfirmedAt == nil {
		t.Fatal("ConfirmedAt not stamped")
	}
	stamped := *confirmed.ConfirmedAt

	sent, err := svc.UpdateStatus(context.Background(), actor, quote.ID, "sent")
	if err != nil {
		t.Fatalf("UpdateStatus(sent): %v", err)
	}
	again, err := svc.UpdateStatus(context.Background(), actor, quote.ID, "confirmed")
	if err != nil {
		t.Fatalf("UpdateStatus(confirmed again): %v", err)
	}
	if sent.Status != "sent" || again.Status != "confirmed" {
		t.Errorf("statuses = %q then %q, want sent then confirmed", sent.Status, again.Status)
	}
	if again.ConfirmedAt == nil || !again.ConfirmedAt.Equal(stamped) {
		t.Error("ConfirmedAt must be stamped only on the first confirmation")
	}
}

func TestUpdateReplacesItemsAndRecomputesTotal(t *testing.T) {
	svc, _ := testService(t)
	actor := testActor()

	quote, err := svc.Generate(context.Background(), actor, transport.GenerateQuoteRequest{CustomerData: testCustomer()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	notes := "richiede sopralluogo"
	updated, err := svc.Update(context.Background(), actor, quote.ID, transport.UpdateQuoteRequest{
		Notes: &notes,
		Items: []transport.ManualItem{
			{ProductCode: "COMPACT-ESS-100", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Notes == nil || *updated.Notes != notes {
		t.Error("notes not updated")
	}
	if len(updated.Items) != 1 || updated.Items[0].Product.Code != "COMPACT-ESS-100" {
		t.Fatalf("items not replaced: %+v", updated.Items)
	}
	if updated.TotalAmount != 285000 {
		t.Errorf("total = %v, want 285000", updated.TotalAmount)
	}
	if updated.LastModifiedAt == nil || updated.LastModifiedBy == nil {
		t.Error("modification audit fields not set")
	}
}

func TestQuoteJSONRoundTrip(t *testing.T) {
	svc, _ := testService(t)
	actor := testActor()

	quote, err := svc.Generate(context.Background(), actor, transport.GenerateQuoteRequest{CustomerData: testCustomer()})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	loaded, err := svc.Get(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if loaded.QuoteNumber != quote.QuoteNumber || loaded.ReferenceCode != quote.ReferenceCode {
		t.Error("identifiers did not survive persistence")
	}
	if !reflect.DeepEqual(loaded.CustomerData, quote.CustomerData) {
		t.Errorf("customer data did not round-trip: %+v != %+v", loaded.CustomerData, quote.CustomerData)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Product != quote.Items[0].Product {
		t.Error("product snapshot did not round-trip")
	}
}

func TestCreateNormalizesCustomerFreeText(t *testing.T) {
	svc, _ := testService(t)
	customer := testCustomer()
	customer.Phone = "347 123 4567"
	customer.AdditionalNotes = "Sito <b>pronto</b> per installazione"

	quote, err := svc.Generate(context.Background(), testActor(), transport.GenerateQuoteRequest{CustomerData: customer})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if quote.CustomerData.Phone != "+393471234567" {
		t.Errorf("phone = %q, want +393471234567", quote.CustomerData.Phone)
	}
	if quote.CustomerData.AdditionalNotes != "Sito pronto per installazione" {
		t.Errorf("notes = %q, want HTML stripped", quote.CustomerData.AdditionalNotes)
	}
}
