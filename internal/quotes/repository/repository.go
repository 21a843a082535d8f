package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bess_quote_backend/platform/apperr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed quote repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const quoteColumns = `id, quote_number, reference_code, status, customer, total_amount,
		notes, tags, created_by, created_by_name, assigned_to, assigned_to_name,
		last_modified_by, last_modified_by_name, last_modified_at, confirmed_at, created_at`

const itemColumns = `id, quote_id, product, quantity, base_price, discount_pct, total_price, sort_order, created_at`

// NextReferenceSeq atomically increments the per-day reference counter.
// The upsert guarantees a gap-free sequence per day even under concurrent
// quote creation.
func (r *postgresRepository) NextReferenceSeq(ctx context.Context, day string) (int, error) {
	const op = "quotes.repository.NextReferenceSeq"

	var seq int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bess_quote_day_counters (day, last_number)
		VALUES ($1, 1)
		ON CONFLICT (day)
		DO UPDATE SET last_number = bess_quote_day_counters.last_number + 1
		RETURNING last_number
	`, day).Scan(&seq)
	if err != nil {
		return 0, apperr.Internal("failed to generate reference sequence", err).WithOp(op)
	}
	return seq, nil
}

func (r *postgresRepository) CreateWithItems(ctx context.Context, quote *Quote, items []QuoteItem) error {
	const op = "quotes.repository.CreateWithItems"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Internal("failed to begin transaction", err).WithOp(op)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO bess_quotes (`+quoteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`,
		quote.ID, quote.QuoteNumber, quote.ReferenceCode, quote.Status, quote.Customer,
		quote.TotalAmount, quote.Notes, quote.Tags, quote.CreatedBy, quote.CreatedByName,
		quote.AssignedTo, quote.AssignedToName, quote.LastModifiedBy, quote.LastModifiedByName,
		quote.LastModifiedAt, quote.ConfirmedAt, quote.CreatedAt,
	)
	if err != nil {
		return apperr.Internal("failed to insert quote", err).WithOp(op)
	}

	if err := insertItems(ctx, tx, items); err != nil {
		return apperr.Internal("failed to insert quote items", err).WithOp(op)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal("failed to commit transaction", err).WithOp(op)
	}
	return nil
}

func (r *postgresRepository) UpdateWithItems(ctx context.Context, quote *Quote, items []QuoteItem, replaceItems bool) error {
	const op = "quotes.repository.UpdateWithItems"

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Internal("failed to begin transaction", err).WithOp(op)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE bess_quotes
		SET status = $2, customer = $3, total_amount = $4, notes = $5, tags = $6,
			assigned_to = $7, assigned_to_name = $8,
			last_modified_by = $9, last_modified_by_name = $10, last_modified_at = $11,
			confirmed_at = $12
		WHERE id = $1
	`,
		quote.ID, quote.Status, quote.Customer, quote.TotalAmount, quote.Notes, quote.Tags,
		quote.AssignedTo, quote.AssignedToName,
		quote.LastModifiedBy, quote.LastModifiedByName, quote.LastModifiedAt,
		quote.ConfirmedAt,
	)
	if err != nil {
		return apperr.Internal("failed to update quote", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("quote not found").WithOp(op).WithCode("quote_not_found")
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM bess_quote_items WHERE quote_id = $1`, quote.ID); err != nil {
			return apperr.Internal("failed to delete quote items", err).WithOp(op)
		}
		if err := insertItems(ctx, tx, items); err != nil {
			return apperr.Internal("failed to insert quote items", err).WithOp(op)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal("failed to commit transaction", err).WithOp(op)
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, items []QuoteItem) error {
	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO bess_quote_items (`+itemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			item.ID, item.QuoteID, item.Product, item.Quantity,
			item.BasePrice, item.DiscountPct, item.TotalPrice, item.SortOrder, item.CreatedAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quote, error) {
	const op = "quotes.repository.GetByID"

	row := r.pool.QueryRow(ctx, `
		SELECT `+quoteColumns+`
		FROM bess_quotes
		WHERE id = $1
	`, id)

	quote, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("quote not found").WithOp(op).WithCode("quote_not_found")
		}
		return nil, apperr.Internal("failed to get quote", err).WithOp(op)
	}
	return quote, nil
}

func (r *postgresRepository) GetItemsByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]QuoteItem, error) {
	const op = "quotes.repository.GetItemsByQuoteID"

	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM bess_quote_items
		WHERE quote_id = $1
		ORDER BY sort_order ASC
	`, quoteID)
	if err != nil {
		return nil, apperr.Internal("failed to query quote items", err).WithOp(op)
	}
	defer rows.Close()

	return scanItems(rows, op)
}

func (r *postgresRepository) UpdateItem(ctx context.Context, item *QuoteItem) error {
	const op = "quotes.repository.UpdateItem"

	tag, err := r.pool.Exec(ctx, `
		UPDATE bess_quote_items
		SET quantity = $3, base_price = $4, discount_pct = $5, total_price = $6
		WHERE id = $1 AND quote_id = $2
	`, item.ID, item.QuoteID, item.Quantity, item.BasePrice, item.DiscountPct, item.TotalPrice)
	if err != nil {
		return apperr.Internal("failed to update quote item", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("quote item not found").WithOp(op).WithCode("quote_item_not_found")
	}
	return nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, quote *Quote) error {
	const op = "quotes.repository.UpdateStatus"

	tag, err := r.pool.Exec(ctx, `
		UPDATE bess_quotes
		SET status = $2, confirmed_at = $3,
			last_modified_by = $4, last_modified_by_name = $5, last_modified_at = $6
		WHERE id = $1
	`, quote.ID, quote.Status, quote.ConfirmedAt,
		quote.LastModifiedBy, quote.LastModifiedByName, quote.LastModifiedAt)
	if err != nil {
		return apperr.Internal("failed to update quote status", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("quote not found").WithOp(op).WithCode("quote_not_found")
	}
	return nil
}

func (r *postgresRepository) UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error {
	const op = "quotes.repository.UpdateTotal"

	tag, err := r.pool.Exec(ctx, `
		UPDATE bess_quotes SET total_amount = $2 WHERE id = $1
	`, id, total)
	if err != nil {
		return apperr.Internal("failed to update quote total", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("quote not found").WithOp(op).WithCode("quote_not_found")
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "quotes.repository.Delete"

	tag, err := r.pool.Exec(ctx, `DELETE FROM bess_quotes WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal("failed to delete quote", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("quote not found").WithOp(op).WithCode("quote_not_found")
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	const op = "quotes.repository.List"

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	search := strings.TrimSpace(params.Search)
	searchPattern := ""
	if search != "" {
		searchPattern = "%" + search + "%"
	}

	filter := `
		WHERE ($1::text IS NULL OR status = $1)
		AND ($2 = '' OR quote_number ILIKE $2 OR reference_code ILIKE $2
			OR customer->>'name' ILIKE $2 OR customer->>'company' ILIKE $2)
	`

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bess_quotes `+filter,
		params.Status, searchPattern).Scan(&total)
	if err != nil {
		return nil, apperr.Internal("failed to count quotes", err).WithOp(op)
	}

	offset := (params.Page - 1) * params.PageSize
	rows, err := r.pool.Query(ctx, `
		SELECT `+quoteColumns+`
		FROM bess_quotes
		`+filter+`
		ORDER BY
			CASE WHEN $3 = 'quoteNumber' AND $4 = 'asc' THEN quote_number END ASC,
			CASE WHEN $3 = 'quoteNumber' AND $4 = 'desc' THEN quote_number END DESC,
			CASE WHEN $3 = 'status' AND $4 = 'asc' THEN status END ASC,
			CASE WHEN $3 = 'status' AND $4 = 'desc' THEN status END DESC,
			CASE WHEN $3 = 'total' AND $4 = 'asc' THEN total_amount END ASC,
			CASE WHEN $3 = 'total' AND $4 = 'desc' THEN total_amount END DESC,
			CASE WHEN $3 = 'createdAt' AND $4 = 'asc' THEN created_at END ASC,
			created_at DESC
		LIMIT $5 OFFSET $6
	`, params.Status, searchPattern, resolveSortBy(params.SortBy), resolveSortOrder(params.SortOrder),
		params.PageSize, offset)
	if err != nil {
		return nil, apperr.Internal("failed to query quotes", err).WithOp(op)
	}
	defer rows.Close()

	items := make([]Quote, 0, params.PageSize)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, apperr.Internal("failed to scan quote", err).WithOp(op)
		}
		items = append(items, *quote)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read quotes", err).WithOp(op)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]Quote, map[uuid.UUID][]QuoteItem, error) {
	const op = "quotes.repository.ListAll"

	rows, err := r.pool.Query(ctx, `
		SELECT `+quoteColumns+`
		FROM bess_quotes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, nil, apperr.Internal("failed to query quotes", err).WithOp(op)
	}
	defer rows.Close()

	quotes := make([]Quote, 0)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, nil, apperr.Internal("failed to scan quote", err).WithOp(op)
		}
		quotes = append(quotes, *quote)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperr.Internal("failed to read quotes", err).WithOp(op)
	}

	itemRows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM bess_quote_items
		ORDER BY quote_id, sort_order ASC
	`)
	if err != nil {
		return nil, nil, apperr.Internal("failed to query quote items", err).WithOp(op)
	}
	defer itemRows.Close()

	allItems, err := scanItems(itemRows, op)
	if err != nil {
		return nil, nil, err
	}

	byQuote := make(map[uuid.UUID][]QuoteItem, len(quotes))
	for _, item := range allItems {
		byQuote[item.QuoteID] = append(byQuote[item.QuoteID], item)
	}
	return quotes, byQuote, nil
}

func (r *postgresRepository) StatsByUser(ctx context.Context) ([]UserQuoteStats, error) {
	const op = "quotes.repository.StatsByUser"

	rows, err := r.pool.Query(ctx, `
		SELECT created_by, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM bess_quotes
		GROUP BY created_by
	`)
	if err != nil {
		return nil, apperr.Internal("failed to query quote stats", err).WithOp(op)
	}
	defer rows.Close()

	stats := make([]UserQuoteStats, 0)
	for rows.Next() {
		var s UserQuoteStats
		if err := rows.Scan(&s.UserID, &s.QuoteCount, &s.TotalAmount); err != nil {
			return nil, apperr.Internal("failed to scan quote stats", err).WithOp(op)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read quote stats", err).WithOp(op)
	}
	return stats, nil
}

func (r *postgresRepository) UserStats(ctx context.Context, userID uuid.UUID, since time.Time) (int, int, float64, error) {
	const op = "quotes.repository.UserStats"

	var total, sinceCount int
	var totalAmount float64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $2),
			COALESCE(SUM(total_amount), 0)
		FROM bess_quotes
		WHERE created_by = $1
	`, userID, since).Scan(&total, &sinceCount, &totalAmount)
	if err != nil {
		return 0, 0, 0, apperr.Internal("failed to query user quote stats", err).WithOp(op)
	}
	return total, sinceCount, totalAmount, nil
}

func resolveSortBy(sortBy string) string {
	switch sortBy {
	case "quoteNumber", "status", "total", "createdAt":
		return sortBy
	default:
		return "createdAt"
	}
}

func resolveSortOrder(order string) string {
	if order == "asc" {
		return "asc"
	}
	return "desc"
}

func scanQuote(row pgx.Row) (*Quote, error) {
	var q Quote
	err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.ReferenceCode, &q.Status, &q.Customer, &q.TotalAmount,
		&q.Notes, &q.Tags, &q.CreatedBy, &q.CreatedByName, &q.AssignedTo, &q.AssignedToName,
		&q.LastModifiedBy, &q.LastModifiedByName, &q.LastModifiedAt, &q.ConfirmedAt, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func scanItems(rows pgx.Rows, op string) ([]QuoteItem, error) {
	items := make([]QuoteItem, 0)
	for rows.Next() {
		var it QuoteItem
		err := rows.Scan(
			&it.ID, &it.QuoteID, &it.Product, &it.Quantity,
			&it.BasePrice, &it.DiscountPct, &it.TotalPrice, &it.SortOrder, &it.CreatedAt,
		)
		if err != nil {
			return nil, apperr.Internal("failed to scan quote item", err).WithOp(op)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read quote items", err).WithOp(op)
	}
	return items, nil
}
