// Package postgres implements the ledger repositories on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/ledger"
)

var _ ledger.AccountRepository = (*AccountRepo)(nil)

type AccountRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewAccountRepo(pgpool PgxPool, logger *slog.Logger) *AccountRepo {
	return &AccountRepo{logger: logger, pgpool: pgpool}
}

type accountRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	IsHidden  bool      `db:"is_hidden"`
	IsDefault bool      `db:"is_default"`
	IsOutside bool      `db:"is_outside"`
}

type holdingRow struct {
	AccountID uuid.UUID       `db:"account_id"`
	Currency  string          `db:"currency"`
	Amount    decimal.Decimal `db:"amount"`
}

func (r *AccountRepo) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*ledger.Account, error) {
	ctx, span := otel.Tracer("AccountRepo").Start(ctx, "ListAccounts", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "accounts"),
	))
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, user_id, name, is_hidden, is_default, is_outside
		FROM accounts WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	accountRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[accountRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect accounts: %w", err)
	}

	accounts := make([]*ledger.Account, 0, len(accountRows))
	byID := make(map[uuid.UUID]*ledger.Account, len(accountRows))
	for _, row := range accountRows {
		a := rowToAccount(row)
		accounts = append(accounts, a)
		byID[a.ID] = a
	}

	hrows, err := r.pgpool.Query(ctx, `
		SELECT h.account_id, h.currency, h.amount
		FROM account_holdings h
		JOIN accounts a ON a.id = h.account_id
		WHERE a.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	holdingRows, err := pgx.CollectRows(hrows, pgx.RowToStructByName[holdingRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect holdings: %w", err)
	}
	for _, h := range holdingRows {
		if a, ok := byID[h.AccountID]; ok {
			a.Holdings = append(a.Holdings, ledger.Holding{Currency: h.Currency, Amount: h.Amount})
		}
	}

	return accounts, nil
}

func (r *AccountRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	ctx, span := otel.Tracer("AccountRepo").Start(ctx, "GetAccountByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "accounts"),
	))
	defer span.End()

	return r.one(ctx, `
		SELECT id, user_id, name, is_hidden, is_default, is_outside
		FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepo) OutsideAccount(ctx context.Context, userID uuid.UUID) (*ledger.Account, error) {
	ctx, span := otel.Tracer("AccountRepo").Start(ctx, "OutsideAccount", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "accounts"),
	))
	defer span.End()

	return r.one(ctx, `
		SELECT id, user_id, name, is_hidden, is_default, is_outside
		FROM accounts WHERE user_id = $1 AND is_outside = TRUE`, userID)
}

func (r *AccountRepo) DefaultAccount(ctx context.Context, userID uuid.UUID) (*ledger.Account, error) {
	ctx, span := otel.Tracer("AccountRepo").Start(ctx, "DefaultAccount", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "accounts"),
	))
	defer span.End()

	return r.one(ctx, `
		SELECT id, user_id, name, is_hidden, is_default, is_outside
		FROM accounts WHERE user_id = $1 AND is_default = TRUE`, userID)
}

func (r *AccountRepo) one(ctx context.Context, query string, arg any) (*ledger.Account, error) {
	rows, err := r.pgpool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[accountRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to collect account: %w", err)
	}

	account := rowToAccount(row)
	hrows, err := r.pgpool.Query(ctx,
		"SELECT account_id, currency, amount FROM account_holdings WHERE account_id = $1",
		account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	holdingRows, err := pgx.CollectRows(hrows, pgx.RowToStructByName[holdingRow])
	if err != nil {
		return nil, fmt.Errorf("failed to collect holdings: %w", err)
	}
	for _, h := range holdingRows {
		account.Holdings = append(account.Holdings, ledger.Holding{Currency: h.Currency, Amount: h.Amount})
	}
	return account, nil
}

func rowToAccount(row accountRow) *ledger.Account {
	return &ledger.Account{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		IsHidden:  row.IsHidden,
		IsDefault: row.IsDefault,
		IsOutside: row.IsOutside,
	}
}
