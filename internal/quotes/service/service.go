package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"bess_quote_backend/internal/events"
	"bess_quote_backend/internal/quotes/repository"
	"bess_quote_backend/internal/quotes/transport"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/logger"
	"bess_quote_backend/platform/phone"
	"bess_quote_backend/platform/sanitize"
)

// ProductDocuments holds the document references resolved for a selected
// product.
type ProductDocuments struct {
	SchematicPath     string
	CertificationPath string
	Datasheet         string
}

// CatalogReader is the quotes module's view of the product catalog.
type CatalogReader interface {
	ListProducts(ctx context.Context) []transport.ProductSnapshot
	GetProduct(ctx context.Context, code string) (transport.ProductSnapshot, error)
	ResolveDocuments(ctx context.Context, code string, usage []string) ProductDocuments
}

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// Service implements quote assembly and lifecycle management.
type Service struct {
	repo    repository.Repository
	catalog CatalogReader
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

// New creates a quote service.
func New(repo repository.Repository, catalog CatalogReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		bus:     bus,
		log:     log,
		now:     time.Now,
	}
}

// Generate runs the automatic pipeline: bundle selection over the current
// catalog, document resolution for the selected product, then assembly and
// persistence of a draft quote.
func (s *Service) Generate(ctx context.Context, actor Actor, req transport.GenerateQuoteRequest) (*transport.Quote, error) {
	const op = "quotes.service.Generate"

	products := s.catalog.ListProducts(ctx)
	selected, units, err := SelectBundle(req.CustomerData.PowerKW, req.CustomerData.CapacityKWH, products, req.CustomerData.ApplicationArea)
	if err != nil {
		return nil, err
	}

	docs := s.catalog.ResolveDocuments(ctx, selected.Code, req.CustomerData.Usage)
	selected.SchematicPath = docs.SchematicPath
	selected.CertificationPath = docs.CertificationPath
	selected.Datasheet = docs.Datasheet

	item := transport.QuoteItem{
		ID:        uuid.New(),
		Product:   selected,
		Quantity:  units,
		BasePrice: selected.UnitPrice,
	}
	item.TotalPrice = itemTotal(item)

	return s.create(ctx, op, actor, req.CustomerData, []transport.QuoteItem{item})
}

// GenerateFromItems assembles a quote from an operator-picked item list.
// Each item is priced from the catalog unless a base price override is
// provided.
func (s *Service) GenerateFromItems(ctx context.Context, actor Actor, req transport.GenerateFromItemsRequest) (*transport.Quote, error) {
	const op = "quotes.service.GenerateFromItems"

	items, err := s.resolveManualItems(ctx, req.Items, req.CustomerData.Usage)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, op, actor, req.CustomerData, items)
}

func (s *Service) resolveManualItems(ctx context.Context, manual []transport.ManualItem, usage []string) ([]transport.QuoteItem, error) {
	items := make([]transport.QuoteItem, 0, len(manual))
	for _, m := range manual {
		product, err := s.catalog.GetProduct(ctx, m.ProductCode)
		if err != nil {
			return nil, err
		}

		docs := s.catalog.ResolveDocuments(ctx, product.Code, usage)
		product.SchematicPath = docs.SchematicPath
		product.CertificationPath = docs.CertificationPath
		product.Datasheet = docs.Datasheet

		base := product.UnitPrice
		if m.BasePrice != nil {
			base = *m.BasePrice
		}

		item := transport.QuoteItem{
			ID:          uuid.New(),
			Product:     product,
			Quantity:    m.Quantity,
			BasePrice:   base,
			DiscountPct: m.DiscountPct,
		}
		applyDiscount(&item)
		items = append(items, item)
	}
	return items, nil
}

func (s *Service) create(ctx context.Context, op string, actor Actor, customer transport.CustomerData, items []transport.QuoteItem) (*transport.Quote, error) {
	now := s.now()
	customer.Phone = phone.NormalizeE164(customer.Phone)
	customer.AdditionalNotes = sanitize.Text(customer.AdditionalNotes)

	referenceCode, err := s.nextReferenceCode(ctx, now)
	if err != nil {
		return nil, err
	}

	quote := &transport.Quote{
		ID:            uuid.New(),
		QuoteNumber:   newQuoteNumber(now),
		ReferenceCode: referenceCode,
		Status:        "draft",
		CustomerData:  customer,
		Items:         items,
		TotalAmount:   quoteTotal(items),
		CreatedBy:     transport.UserRef{ID: actor.ID, FullName: actor.Name},
		CreatedAt:     now,
	}

	record, itemRecords, err := toRecords(quote)
	if err != nil {
		return nil, apperr.Internal("failed to encode quote", err).WithOp(op)
	}
	if err := s.repo.CreateWithItems(ctx, record, itemRecords); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteCreated{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		TotalAmount: quote.TotalAmount,
		UserID:      actor.ID,
		Username:    actor.Name,
	})
	return quote, nil
}

// Get returns one quote with its items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.Quote, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	itemRecords, err := s.repo.GetItemsByQuoteID(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromRecords(record, itemRecords)
}

// List returns a filtered, paginated quote list. Items are not loaded for
// list views.
func (s *Service) List(ctx context.Context, req transport.ListQuotesRequest) (*transport.ListQuotesResponse, error) {
	params := repository.ListParams{
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.Status != "" {
		params.Status = &req.Status
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	quotes := make([]transport.Quote, 0, len(result.Items))
	for i := range result.Items {
		quote, err := fromRecords(&result.Items[i], nil)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}

	return &transport.ListQuotesResponse{
		Items:      quotes,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ExportAll returns every quote with items, for backup snapshots.
func (s *Service) ExportAll(ctx context.Context) ([]transport.Quote, error) {
	records, itemsByQuote, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	quotes := make([]transport.Quote, 0, len(records))
	for i := range records {
		quote, err := fromRecords(&records[i], itemsByQuote[records[i].ID])
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}
	return quotes, nil
}

// StatsByUser aggregates quote counts and volume per creating user.
func (s *Service) StatsByUser(ctx context.Context) (map[uuid.UUID]repository.UserQuoteStats, error) {
	stats, err := s.repo.StatsByUser(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]repository.UserQuoteStats, len(stats))
	for _, st := range stats {
		out[st.UserID] = st
	}
	return out, nil
}

// UserStats returns quote counts and volume for one creating user, with a
// this-month breakdown.
func (s *Service) UserStats(ctx context.Context, userID uuid.UUID) (total int, thisMonth int, totalAmount float64, err error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.repo.UserStats(ctx, userID, monthStart)
}

// Update edits quote fields. Nil request fields are left unchanged; a
// non-nil item list replaces the lines and the total is recomputed.
func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, req transport.UpdateQuoteRequest) (*transport.Quote, error) {
	const op = "quotes.service.Update"

	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerData != nil {
		quote.CustomerData = *req.CustomerData
		quote.CustomerData.Phone = phone.NormalizeE164(quote.CustomerData.Phone)
		quote.CustomerData.AdditionalNotes = sanitize.Text(quote.CustomerData.AdditionalNotes)
	}
	if req.Notes != nil {
		quote.Notes = sanitize.TextPtr(req.Notes)
	}
	if req.Tags != nil {
		quote.Tags = req.Tags
	}
	if req.AssignedTo != nil {
		quote.AssignedTo = &transport.UserRef{ID: *req.AssignedTo}
	}

	replaceItems := false
	if req.Items != nil {
		items, err := s.resolveManualItems(ctx, req.Items, quote.CustomerData.Usage)
		if err != nil {
			return nil, err
		}
		quote.Items = items
		replaceItems = true
	}
	quote.TotalAmount = quoteTotal(quote.Items)

	now := s.now()
	quote.LastModifiedBy = &transport.UserRef{ID: actor.ID, FullName: actor.Name}
	quote.LastModifiedAt = &now

	record, itemRecords, err := toRecords(quote)
	if err != nil {
		return nil, apperr.Internal("failed to encode quote", err).WithOp(op)
	}
	if err := s.repo.UpdateWithItems(ctx, record, itemRecords, replaceItems); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteUpdated{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		UserID:      actor.ID,
		Username:    actor.Name,
	})
	return quote, nil
}

// UpdateStatus moves a quote to the requested status. Every target is
// accepted; entering confirmed stamps ConfirmedAt once.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, status string) (*transport.Quote, error) {
	const op = "quotes.service.UpdateStatus"

	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := quote.Status
	now := s.now()
	quote.Status = status
	if status == "confirmed" && quote.ConfirmedAt == nil {
		quote.ConfirmedAt = &now
	}
	quote.LastModifiedBy = &transport.UserRef{ID: actor.ID, FullName: actor.Name}
	quote.LastModifiedAt = &now

	record, _, err := toRecords(quote)
	if err != nil {
		return nil, apperr.Internal("failed to encode quote", err).WithOp(op)
	}
	if err := s.repo.UpdateStatus(ctx, record); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteStatusChanged{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		OldStatus:   oldStatus,
		NewStatus:   status,
		UserID:      actor.ID,
		Username:    actor.Name,
	})
	return quote, nil
}

// UpdateItemDiscount sets the discount percentage on one item and
// recomputes the quote total. A zero percentage removes the discount and
// restores the retained base price.
func (s *Service) UpdateItemDiscount(ctx context.Context, actor Actor, quoteID, itemID uuid.UUID, discountPct float64) (*transport.Quote, error) {
	const op = "quotes.service.UpdateItemDiscount"

	quote, err := s.Get(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	var target *transport.QuoteItem
	for i := range quote.Items {
		if quote.Items[i].ID == itemID {
			target = &quote.Items[i]
			break
		}
	}
	if target == nil {
		return nil, apperr.NotFound("quote item not found").WithOp(op).WithCode("quote_item_not_found")
	}

	target.DiscountPct = discountPct
	applyDiscount(target)
	quote.TotalAmount = quoteTotal(quote.Items)

	itemRecord, err := toItemRecord(quoteID, *target, indexOfItem(quote.Items, itemID))
	if err != nil {
		return nil, apperr.Internal("failed to encode quote item", err).WithOp(op)
	}
	if err := s.repo.UpdateItem(ctx, itemRecord); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTotal(ctx, quoteID, quote.TotalAmount); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteUpdated{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		UserID:      actor.ID,
		Username:    actor.Name,
	})
	return quote, nil
}

// Delete removes a quote and its items.
func (s *Service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.QuoteDeleted{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		UserID:      actor.ID,
		Username:    actor.Name,
	})
	return nil
}

// MarkSent transitions a quote to sent after the offer email goes out and
// publishes the send event. Used by the offer module.
func (s *Service) MarkSent(ctx context.Context, actor Actor, id uuid.UUID, recipient string) (*transport.Quote, error) {
	quote, err := s.UpdateStatus(ctx, actor, id, "sent")
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.QuoteSent{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		Recipient:   recipient,
		UserID:      actor.ID,
		Username:    actor.Name,
	})
	return quote, nil
}

func (s *Service) nextReferenceCode(ctx context.Context, now time.Time) (string, error) {
	day := now.Format("20060102")
	seq, err := s.repo.NextReferenceSeq(ctx, day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", day, seq), nil
}

// newQuoteNumber builds FFD-BESS-YYYYMMDD-RRRR with a random 4-digit
// suffix. Uniqueness is enforced by the database constraint; the reference
// code is the sequential identifier.
func newQuoteNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("FFD-BESS-%s-%04d", now.Format("20060102"), suffix)
}

// applyDiscount recomputes the effective unit price and line total from the
// retained base price.
func applyDiscount(item *transport.QuoteItem) {
	item.Product.UnitPrice = item.BasePrice * (1 - item.DiscountPct/100)
	item.TotalPrice = itemTotal(*item)
}

func itemTotal(item transport.QuoteItem) float64 {
	return item.BasePrice * (1 - item.DiscountPct/100) * float64(item.Quantity)
}

func quoteTotal(items []transport.QuoteItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.TotalPrice
	}
	return total
}

func indexOfItem(items []transport.QuoteItem, id uuid.UUID) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return 0
}

func toRecords(quote *transport.Quote) (*repository.Quote, []repository.QuoteItem, error) {
	customer, err := json.Marshal(quote.CustomerData)
	if err != nil {
		return nil, nil, err
	}

	record := &repository.Quote{
		ID:            quote.ID,
		QuoteNumber:   quote.QuoteNumber,
		ReferenceCode: quote.ReferenceCode,
		Status:        quote.Status,
		Customer:      customer,
		TotalAmount:   quote.TotalAmount,
		Notes:         quote.Notes,
		Tags:          quote.Tags,
		CreatedBy:     quote.CreatedBy.ID,
		CreatedByName: quote.CreatedBy.FullName,
		ConfirmedAt:   quote.ConfirmedAt,
		CreatedAt:     quote.CreatedAt,
	}
	if quote.AssignedTo != nil {
		record.AssignedTo = &quote.AssignedTo.ID
		record.AssignedToName = &quote.AssignedTo.FullName
	}
	if quote.LastModifiedBy != nil {
		record.LastModifiedBy = &quote.LastModifiedBy.ID
		record.LastModifiedByName = &quote.LastModifiedBy.FullName
	}
	record.LastModifiedAt = quote.LastModifiedAt

	itemRecords := make([]repository.QuoteItem, 0, len(quote.Items))
	for i, item := range quote.Items {
		itemRecord, err := toItemRecord(quote.ID, item, i)
		if err != nil {
			return nil, nil, err
		}
		itemRecords = append(itemRecords, *itemRecord)
	}
	return record, itemRecords, nil
}

func toItemRecord(quoteID uuid.UUID, item transport.QuoteItem, sortOrder int) (*repository.QuoteItem, error) {
	product, err := json.Marshal(item.Product)
	if err != nil {
		return nil, err
	}
	return &repository.QuoteItem{
		ID:          item.ID,
		QuoteID:     quoteID,
		Product:     product,
		Quantity:    item.Quantity,
		BasePrice:   item.BasePrice,
		DiscountPct: item.DiscountPct,
		TotalPrice:  item.TotalPrice,
		SortOrder:   sortOrder,
	}, nil
}

func fromRecords(record *repository.Quote, itemRecords []repository.QuoteItem) (*transport.Quote, error) {
	var customer transport.CustomerData
	if err := json.Unmarshal(record.Customer, &customer); err != nil {
		return nil, apperr.Internal("failed to decode quote customer data", err)
	}

	items := make([]transport.QuoteItem, 0, len(itemRecords))
	for _, ir := range itemRecords {
		var product transport.ProductSnapshot
		if err := json.Unmarshal(ir.Product, &product); err != nil {
			return nil, apperr.Internal("failed to decode quote item product", err)
		}
		items = append(items, transport.QuoteItem{
			ID:          ir.ID,
			Product:     product,
			Quantity:    ir.Quantity,
			BasePrice:   ir.BasePrice,
			DiscountPct: ir.DiscountPct,
			TotalPrice:  ir.TotalPrice,
		})
	}

	quote := &transport.Quote{
		ID:            record.ID,
		QuoteNumber:   record.QuoteNumber,
		ReferenceCode: record.ReferenceCode,
		Status:        record.Status,
		CustomerData:  customer,
		Items:         items,
		TotalAmount:   record.TotalAmount,
		Notes:         record.Notes,
		Tags:          record.Tags,
		CreatedBy:     transport.UserRef{ID: record.CreatedBy, FullName: record.CreatedByName},
		ConfirmedAt:   record.ConfirmedAt,
		CreatedAt:     record.CreatedAt,
	}
	if record.AssignedTo != nil {
		ref := transport.UserRef{ID: *record.AssignedTo}
		if record.AssignedToName != nil {
			ref.FullName = *record.AssignedToName
		}
		quote.AssignedTo = &ref
	}
	if record.LastModifiedBy != nil {
		ref := transport.UserRef{ID: *record.LastModifiedBy}
		if record.LastModifiedByName != nil {
			ref.FullName = *record.LastModifiedByName
		}
		quote.LastModifiedBy = &ref
	}
	quote.LastModifiedAt = record.LastModifiedAt
	return quote, nil
}
