package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
)

var _ ledger.TagRepository = (*TagRepo)(nil)

type TagRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewTagRepo(pgpool PgxPool, logger *slog.Logger) *TagRepo {
	return &TagRepo{logger: logger, pgpool: pgpool}
}

func (r *TagRepo) ListTags(ctx context.Context, userID uuid.UUID) ([]*ledger.Tag, error) {
	ctx, span := otel.Tracer("TagRepo").Start(ctx, "ListTags", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "tags"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, user_id, name, usage_count
		FROM tags WHERE user_id = $1
		ORDER BY usage_count DESC, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[ledger.Tag])
	if err != nil {
		return nil, fmt.Errorf("failed to collect tags: %w", err)
	}
	return tags, nil
}

// FindSimilarTag looks a tag up by its folded name. The write path folds
// with the same textscan.Fold, so "Кофе с собой" and "кофе с собой!"
// land on one row.
func (r *TagRepo) FindSimilarTag(ctx context.Context, userID uuid.UUID, normalized string) (*ledger.Tag, error) {
	ctx, span := otel.Tracer("TagRepo").Start(ctx, "FindSimilarTag", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "tags"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, user_id, name, usage_count
		FROM tags WHERE user_id = $1 AND normalized_name = $2
		ORDER BY usage_count DESC
		LIMIT 1`, userID, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag: %w", err)
	}
	tag, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[ledger.Tag])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tag %q: %w", normalized, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to collect tag: %w", err)
	}
	return tag, nil
}

func (r *TagRepo) CreateTag(ctx context.Context, tag *ledger.Tag) error {
	ctx, span := otel.Tracer("TagRepo").Start(ctx, "CreateTag", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "tags"),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx, `
		INSERT INTO tags (id, user_id, name, normalized_name, usage_count)
		VALUES ($1, $2, $3, $4, $5)`,
		tag.ID, tag.UserID, tag.Name, textscan.Fold(tag.Name), tag.UsageCount)
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	r.logger.DebugContext(ctx, "tag created", "tag_id", tag.ID, "name", tag.Name)
	return nil
}

func (r *TagRepo) IncrementTagUsage(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("TagRepo").Start(ctx, "IncrementTagUsage", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "tags"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		"UPDATE tags SET usage_count = usage_count + 1 WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to increment tag usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tag not found: %w", common.ErrNotFound)
	}
	return nil
}
