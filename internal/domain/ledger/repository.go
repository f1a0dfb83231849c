package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntryFilter narrows a paged entry listing. Zero values mean "any".
type EntryFilter struct {
	Direction Direction
	Currency  string
	AccountID *uuid.UUID
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

// AccountRepository reads and writes the user's accounts.
type AccountRepository interface {
	ListAccounts(ctx context.Context, userID uuid.UUID) ([]*Account, error)
	GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// OutsideAccount returns the user's reserved sentinel account.
	OutsideAccount(ctx context.Context, userID uuid.UUID) (*Account, error)
	// DefaultAccount returns the account non-transfer candidates fall back to.
	DefaultAccount(ctx context.Context, userID uuid.UUID) (*Account, error)
}

// CategoryRepository reads the user's categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*Category, error)
}

// TagRepository reads and lazily creates tags.
type TagRepository interface {
	ListTags(ctx context.Context, userID uuid.UUID) ([]*Tag, error)
	// FindSimilarTag looks an existing tag up by normalized name, returns
	// common.ErrNotFound when nothing is close enough.
	FindSimilarTag(ctx context.Context, userID uuid.UUID, normalized string) (*Tag, error)
	CreateTag(ctx context.Context, tag *Tag) error
	IncrementTagUsage(ctx context.Context, id uuid.UUID) error
}

// EntryRepository reads and writes ledger entries.
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry *Entry) error
	UpdateEntry(ctx context.Context, id uuid.UUID, patch *EntryPatch) error
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	ListEntries(ctx context.Context, userID uuid.UUID, filter EntryFilter) ([]*Entry, error)
	// AccountUsageStats aggregates usage over the most recent entries, at
	// most the given window size.
	AccountUsageStats(ctx context.Context, userID uuid.UUID, window int) (map[uuid.UUID]AccountUsage, error)
}
