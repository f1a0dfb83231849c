package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/ledger"
)

var _ ledger.EntryRepository = (*EntryRepo)(nil)

type EntryRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewEntryRepo(pgpool PgxPool, logger *slog.Logger) *EntryRepo {
	return &EntryRepo{logger: logger, pgpool: pgpool}
}

func (r *EntryRepo) CreateEntry(ctx context.Context, entry *ledger.Entry) error {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "CreateEntry", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "entries"),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx, `
		INSERT INTO entries (
			id, user_id, direction, amount, currency, account_id,
			to_account_id, category_id, tag_id, description,
			converted_amount, convert_to, transaction_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		entry.ID, entry.UserID, entry.Direction, entry.Amount, entry.Currency,
		entry.AccountID, entry.ToAccountID, entry.CategoryID, entry.TagID,
		entry.Description, entry.ConvertedAmount, entry.ConvertTo,
		entry.TransactionDate, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	r.logger.DebugContext(ctx, "entry created",
		"entry_id", entry.ID, "direction", entry.Direction, "amount", entry.Amount)
	return nil
}

func (r *EntryRepo) UpdateEntry(ctx context.Context, id uuid.UUID, patch *ledger.EntryPatch) error {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "UpdateEntry", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "entries"),
	))
	defer span.End()

	var setClauses []string
	var args []interface{}
	argID := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Amount != nil {
		add("amount", *patch.Amount)
	}
	if patch.Currency != nil {
		add("currency", *patch.Currency)
	}
	if patch.AccountID != nil {
		add("account_id", *patch.AccountID)
	}
	if patch.ToAccountID != nil {
		add("to_account_id", *patch.ToAccountID)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.TagID != nil {
		add("tag_id", *patch.TagID)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.TransactionDate != nil {
		add("transaction_date", *patch.TransactionDate)
	}

	if len(setClauses) == 0 {
		r.logger.WarnContext(ctx, "UpdateEntry called with an empty patch", "entry_id", id)
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE entries SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry not found: %w", common.ErrNotFound)
	}
	return nil
}

func (r *EntryRepo) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "DeleteEntry", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "entries"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, "DELETE FROM entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry not found: %w", common.ErrNotFound)
	}
	return nil
}

func (r *EntryRepo) ListEntries(ctx context.Context, userID uuid.UUID, filter ledger.EntryFilter) ([]*ledger.Entry, error) {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "ListEntries", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "entries"),
	))
	defer span.End()

	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	argID := 2

	and := func(clause string, value interface{}) {
		where = append(where, fmt.Sprintf(clause, argID))
		args = append(args, value)
		argID++
	}

	if filter.Direction != "" {
		and("direction = $%d", filter.Direction)
	}
	if filter.Currency != "" {
		and("currency = $%d", filter.Currency)
	}
	if filter.AccountID != nil {
		and("(account_id = $%[1]d OR to_account_id = $%[1]d)", *filter.AccountID)
	}
	if !filter.From.IsZero() {
		and("transaction_date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		and("transaction_date < $%d", filter.To)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, direction, amount, currency, account_id,
		       to_account_id, category_id, tag_id, description,
		       converted_amount, convert_to, transaction_date, created_at
		FROM entries WHERE %s
		ORDER BY transaction_date DESC, created_at DESC`,
		strings.Join(where, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[ledger.Entry])
	if err != nil {
		return nil, fmt.Errorf("failed to collect entries: %w", err)
	}
	return entries, nil
}

type usageRow struct {
	AccountID  uuid.UUID `db:"account_id"`
	UsageCount int       `db:"usage_count"`
	LastUsedAt time.Time `db:"last_used_at"`
}

func (r *EntryRepo) AccountUsageStats(ctx context.Context, userID uuid.UUID, window int) (map[uuid.UUID]ledger.AccountUsage, error) {
	ctx, span := otel.Tracer("EntryRepo").Start(ctx, "AccountUsageStats", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "entries"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT account_id, COUNT(*) AS usage_count, MAX(created_at) AS last_used_at
		FROM (
			SELECT account_id, created_at FROM entries
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		GROUP BY account_id`, userID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage stats: %w", err)
	}
	usageRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[usageRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect usage stats: %w", err)
	}

	stats := make(map[uuid.UUID]ledger.AccountUsage, len(usageRows))
	for _, row := range usageRows {
		stats[row.AccountID] = ledger.AccountUsage{
			UsageCount: row.UsageCount,
			LastUsedAt: row.LastUsedAt,
		}
	}
	return stats, nil
}
