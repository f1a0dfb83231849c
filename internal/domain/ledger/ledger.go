// Package ledger defines the entities the reconciliation pipeline reads and
// mutates, and the repository contracts its collaborators must implement.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction classifies a ledger entry or candidate.
type Direction string

const (
	Income   Direction = "income"
	Expense  Direction = "expense"
	Transfer Direction = "transfer"
)

// Holding is one currency balance inside an account.
type Holding struct {
	Currency string          `db:"currency"`
	Amount   decimal.Decimal `db:"amount"`
}

// Account is a user's money container. Exactly one account per user is the
// reserved "outside" account: it represents value entering or leaving the
// tracked system and is never a real wallet.
type Account struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	Holdings  []Holding
	IsHidden  bool      `db:"is_hidden"`
	IsDefault bool      `db:"is_default"`
	IsOutside bool      `db:"is_outside"`
	CreatedAt time.Time `db:"created_at"`
}

// Holds reports whether the account has a holding in the given currency.
func (a *Account) Holds(currency string) bool {
	for _, h := range a.Holdings {
		if h.Currency == currency {
			return true
		}
	}
	return false
}

// HoldingAmount returns the balance held in the given currency, zero when
// the account does not hold it.
func (a *Account) HoldingAmount(currency string) decimal.Decimal {
	for _, h := range a.Holdings {
		if h.Currency == currency {
			return h.Amount
		}
	}
	return decimal.Zero
}

// Category groups non-transfer entries.
type Category struct {
	ID     uuid.UUID `db:"id"`
	UserID uuid.UUID `db:"user_id"`
	Name   string    `db:"name"`
}

// Tag is a free-form label attached to entries. Tags are created lazily on
// first use and usage-counted so popular tags rank first in suggestions.
type Tag struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	Name       string    `db:"name"`
	UsageCount int       `db:"usage_count"`
}

// Entry is one committed ledger mutation.
type Entry struct {
	ID              uuid.UUID        `db:"id"`
	UserID          uuid.UUID        `db:"user_id"`
	Direction       Direction        `db:"direction"`
	Amount          decimal.Decimal  `db:"amount"`
	Currency        string           `db:"currency"`
	AccountID       uuid.UUID        `db:"account_id"`
	ToAccountID     *uuid.UUID       `db:"to_account_id"`
	CategoryID      *uuid.UUID       `db:"category_id"`
	TagID           *uuid.UUID       `db:"tag_id"`
	Description     string           `db:"description"`
	ConvertedAmount *decimal.Decimal `db:"converted_amount"`
	ConvertTo       string           `db:"convert_to"`
	TransactionDate time.Time        `db:"transaction_date"`
	CreatedAt       time.Time        `db:"created_at"`
}

// ExchangeLike reports whether the entry is a transfer between two
// different currencies.
func (e *Entry) ExchangeLike() bool {
	return e.Direction == Transfer && e.ConvertTo != "" && e.ConvertTo != e.Currency
}

// EntryPatch carries the fields a mass edit wants to change. Nil fields are
// left untouched.
type EntryPatch struct {
	Amount          *decimal.Decimal
	Currency        *string
	AccountID       *uuid.UUID
	ToAccountID     *uuid.UUID
	CategoryID      *uuid.UUID
	TagID           *uuid.UUID
	Description     *string
	TransactionDate *time.Time
}

// AccountUsage summarizes how recently and how often an account appeared in
// the user's ledger history. Used only to break ties when resolving
// ambiguous exchange endpoints.
type AccountUsage struct {
	UsageCount int
	LastUsedAt time.Time
}
