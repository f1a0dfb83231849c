// Package memory holds mutex-guarded in-memory ledger repositories. They
// back the demo binary and make service wiring testable without a
// database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
)

// Store implements every ledger repository over in-process state.
type Store struct {
	mu         sync.RWMutex
	accounts   []*ledger.Account
	categories []*ledger.Category
	tags       map[uuid.UUID]*ledger.Tag
	entries    []*ledger.Entry
}

var (
	_ ledger.AccountRepository  = (*Store)(nil)
	_ ledger.CategoryRepository = (*Store)(nil)
	_ ledger.TagRepository      = (*Store)(nil)
	_ ledger.EntryRepository    = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{tags: make(map[uuid.UUID]*ledger.Tag)}
}

// Seed replaces the account and category sets. Meant for startup only.
func (s *Store) Seed(accounts []*ledger.Account, categories []*ledger.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.categories = categories
}

func (s *Store) ListAccounts(_ context.Context, userID uuid.UUID) ([]*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ledger.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) GetAccountByID(_ context.Context, id uuid.UUID) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", id, common.ErrNotFound)
}

func (s *Store) OutsideAccount(_ context.Context, userID uuid.UUID) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.UserID == userID && a.IsOutside {
			return a, nil
		}
	}
	return nil, fmt.Errorf("outside account: %w", common.ErrNotFound)
}

func (s *Store) DefaultAccount(_ context.Context, userID uuid.UUID) (*ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.UserID == userID && a.IsDefault {
			return a, nil
		}
	}
	return nil, fmt.Errorf("default account: %w", common.ErrNotFound)
}

func (s *Store) ListCategories(_ context.Context, userID uuid.UUID) ([]*ledger.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ledger.Category
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) ListTags(_ context.Context, userID uuid.UUID) ([]*ledger.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ledger.Tag
	for _, t := range s.tags {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) FindSimilarTag(_ context.Context, userID uuid.UUID, normalized string) (*ledger.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tags {
		if t.UserID == userID && textscan.Fold(t.Name) == normalized {
			return t, nil
		}
	}
	return nil, fmt.Errorf("tag %q: %w", normalized, common.ErrNotFound)
}

func (s *Store) CreateTag(_ context.Context, tag *ledger.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tags[tag.ID]; exists {
		return fmt.Errorf("tag %s: %w", tag.ID, common.ErrConflict)
	}
	copied := *tag
	s.tags[tag.ID] = &copied
	return nil
}

func (s *Store) IncrementTagUsage(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag, ok := s.tags[id]
	if !ok {
		return fmt.Errorf("tag %s: %w", id, common.ErrNotFound)
	}
	tag.UsageCount++
	return nil
}

func (s *Store) CreateEntry(_ context.Context, entry *ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == entry.ID {
			return fmt.Errorf("entry %s: %w", entry.ID, common.ErrConflict)
		}
	}
	copied := *entry
	s.entries = append(s.entries, &copied)
	return nil
}

func (s *Store) UpdateEntry(_ context.Context, id uuid.UUID, patch *ledger.EntryPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID != id {
			continue
		}
		applyPatch(e, patch)
		return nil
	}
	return fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
}

func (s *Store) DeleteEntry(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
}

func (s *Store) ListEntries(_ context.Context, userID uuid.UUID, filter ledger.EntryFilter) ([]*ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ledger.Entry
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if filter.Direction != "" && e.Direction != filter.Direction {
			continue
		}
		if filter.Currency != "" && e.Currency != filter.Currency {
			continue
		}
		if filter.AccountID != nil && e.AccountID != *filter.AccountID &&
			(e.ToAccountID == nil || *e.ToAccountID != *filter.AccountID) {
			continue
		}
		if !filter.From.IsZero() && e.TransactionDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !e.TransactionDate.Before(filter.To) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.After(out[j].TransactionDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *Store) AccountUsageStats(_ context.Context, userID uuid.UUID, window int) (map[uuid.UUID]ledger.AccountUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recent := make([]*ledger.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.UserID == userID {
			recent = append(recent, e)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if window > 0 && len(recent) > window {
		recent = recent[:window]
	}

	stats := make(map[uuid.UUID]ledger.AccountUsage)
	for _, e := range recent {
		usage := stats[e.AccountID]
		usage.UsageCount++
		if e.CreatedAt.After(usage.LastUsedAt) {
			usage.LastUsedAt = e.CreatedAt
		}
		stats[e.AccountID] = usage
	}
	return stats, nil
}

func applyPatch(e *ledger.Entry, patch *ledger.EntryPatch) {
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Currency != nil {
		e.Currency = *patch.Currency
	}
	if patch.AccountID != nil {
		e.AccountID = *patch.AccountID
	}
	if patch.ToAccountID != nil {
		e.ToAccountID = patch.ToAccountID
	}
	if patch.CategoryID != nil {
		e.CategoryID = patch.CategoryID
	}
	if patch.TagID != nil {
		e.TagID = patch.TagID
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.TransactionDate != nil {
		e.TransactionDate = *patch.TransactionDate
	}
}
