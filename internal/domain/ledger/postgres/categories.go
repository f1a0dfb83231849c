package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatledger/chatledger/internal/domain/ledger"
)

var _ ledger.CategoryRepository = (*CategoryRepo)(nil)

type CategoryRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewCategoryRepo(pgpool PgxPool, logger *slog.Logger) *CategoryRepo {
	return &CategoryRepo{logger: logger, pgpool: pgpool}
}

type categoryRow struct {
	ID     uuid.UUID `db:"id"`
	UserID uuid.UUID `db:"user_id"`
	Name   string    `db:"name"`
}

func (r *CategoryRepo) ListCategories(ctx context.Context, userID uuid.UUID) ([]*ledger.Category, error) {
	ctx, span := otel.Tracer("CategoryRepo").Start(ctx, "ListCategories", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "categories"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx,
		"SELECT id, user_id, name FROM categories WHERE user_id = $1 ORDER BY name",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	categoryRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[categoryRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect categories: %w", err)
	}

	categories := make([]*ledger.Category, 0, len(categoryRows))
	for _, row := range categoryRows {
		categories = append(categories, &ledger.Category{ID: row.ID, UserID: row.UserID, Name: row.Name})
	}
	return categories, nil
}
