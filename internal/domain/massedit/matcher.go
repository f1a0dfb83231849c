// Package massedit selects existing ledger entries for bulk update or
// delete from one structured natural-language instruction. It only
// proposes rows; the caller must confirm before anything is mutated.
package massedit

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/currency"
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon/accounts"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
	"github.com/chatledger/chatledger/pkg/observability"
)

type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Mode controls how many matches the instruction may legally select.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

// maxMatches caps a batch instruction; past this the filter is treated
// as too broad to have been meant literally.
const maxMatches = 500

// Filter is the structured selection the extraction collaborator built
// from the instruction. Zero-valued fields are absent and match anything.
type Filter struct {
	Direction       ledger.Direction
	Currency        string
	Amount          *decimal.Decimal
	Category        string
	Description     string
	Tag             string
	Account         string
	ToAccount       string
	TransactionDate *time.Time
}

func (f *Filter) empty() bool {
	return f.Direction == "" && f.Currency == "" && f.Amount == nil &&
		f.Category == "" && f.Description == "" && f.Tag == "" &&
		f.Account == "" && f.ToAccount == "" && f.TransactionDate == nil
}

// Instruction is one parsed mass-edit request.
type Instruction struct {
	Action    Action
	Mode      Mode
	Filter    Filter
	Exclude   *Filter
	Update    *ledger.EntryPatch
	DeleteAll bool

	// RawText is the original instruction; deletes mine it for literal
	// amount+currency pairs the structured filter missed.
	RawText string
}

// DraftRow is one proposed change: the entry as stored and, for updates,
// the patch to apply.
type DraftRow struct {
	EntryID uuid.UUID
	Action  Action
	Before  ledger.Entry
	After   *ledger.EntryPatch
}

// Matcher matches one user's entries against instructions. Like the
// account resolver it is built per run from a snapshot.
type Matcher struct {
	registry   *currency.Registry
	accounts   *accounts.Resolver
	categories []*ledger.Category
	tags       []*ledger.Tag
}

func NewMatcher(registry *currency.Registry, accts []*ledger.Account, cats []*ledger.Category, tags []*ledger.Tag) *Matcher {
	return &Matcher{
		registry:   registry,
		accounts:   accounts.NewResolver(accts, nil),
		categories: cats,
		tags:       tags,
	}
}

// Match selects the entries the instruction refers to and returns them as
// draft rows. Nothing is mutated. A single-mode instruction matching more
// than one entry, a filter matching over 500 entries, and a filter
// matching nothing are all hard failures.
func (m *Matcher) Match(entries []*ledger.Entry, in Instruction) ([]DraftRow, error) {
	target, err := m.compile(in.Filter)
	if err != nil {
		return nil, err
	}
	var exclude *compiledFilter
	if in.Exclude != nil && !in.Exclude.empty() {
		exclude, err = m.compile(*in.Exclude)
		if err != nil {
			return nil, err
		}
	}

	pairs := m.literalPairs(in)

	var matched []*ledger.Entry
	for _, e := range entries {
		ok := in.DeleteAll || m.matches(e, target)
		if !ok && len(pairs) > 0 && m.matchesPair(e, target, pairs) {
			ok = true
		}
		if !ok {
			continue
		}
		if exclude != nil && m.matches(e, exclude) {
			continue
		}
		matched = append(matched, e)
	}

	observability.MassEditMatches.Observe(float64(len(matched)))

	switch {
	case len(matched) == 0:
		return nil, common.ErrNoMatches
	case len(matched) > maxMatches:
		return nil, common.ErrTooManyMatches
	case in.Mode == ModeSingle && len(matched) > 1:
		return nil, common.ErrAmbiguousMatch
	}

	rows := make([]DraftRow, 0, len(matched))
	for _, e := range matched {
		row := DraftRow{EntryID: e.ID, Action: in.Action, Before: *e}
		if in.Action == ActionUpdate {
			row.After = in.Update
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// compiledFilter has the name mentions pre-resolved against the user's
// own accounts/categories/tags so the per-entry check compares IDs.
type compiledFilter struct {
	src        Filter
	accountID  *uuid.UUID
	toID       *uuid.UUID
	categoryID *uuid.UUID
	tagID      *uuid.UUID
}

func (m *Matcher) compile(f Filter) (*compiledFilter, error) {
	cf := &compiledFilter{src: f}
	cf.src.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))

	if f.Account != "" {
		acct, ok := m.accounts.Match(f.Account)
		if !ok {
			return nil, common.ErrNoMatches
		}
		id := acct.ID
		cf.accountID = &id
	}
	if f.ToAccount != "" {
		acct, ok := m.accounts.Match(f.ToAccount)
		if !ok {
			return nil, common.ErrNoMatches
		}
		id := acct.ID
		cf.toID = &id
	}
	if f.Category != "" {
		cat := matchCategory(m.categories, f.Category)
		if cat == nil {
			return nil, common.ErrNoMatches
		}
		id := cat.ID
		cf.categoryID = &id
	}
	if f.Tag != "" {
		tag := matchTag(m.tags, f.Tag)
		if tag == nil {
			return nil, common.ErrNoMatches
		}
		id := tag.ID
		cf.tagID = &id
	}
	return cf, nil
}

func (m *Matcher) matches(e *ledger.Entry, cf *compiledFilter) bool {
	f := cf.src

	if f.Direction != "" && e.Direction != f.Direction {
		return false
	}
	if f.Currency != "" && e.Currency != f.Currency {
		return false
	}
	if f.Amount != nil && !m.amountWithinBand(e, f.Currency, *f.Amount) {
		return false
	}
	if cf.accountID != nil && e.AccountID != *cf.accountID {
		return false
	}
	if cf.toID != nil && (e.ToAccountID == nil || *e.ToAccountID != *cf.toID) {
		return false
	}
	if cf.categoryID != nil && (e.CategoryID == nil || *e.CategoryID != *cf.categoryID) {
		return false
	}
	if cf.tagID != nil && (e.TagID == nil || *e.TagID != *cf.tagID) {
		return false
	}
	if f.Description != "" && !descriptionMatches(e.Description, f.Description) {
		return false
	}
	if f.TransactionDate != nil && !sameUTCDay(e.TransactionDate, *f.TransactionDate) {
		return false
	}
	return true
}

// matchesPair is the secondary delete filter: the entry satisfies every
// non-amount field of the target filter and its amount+currency hits one
// of the literal pairs mined from the instruction text.
func (m *Matcher) matchesPair(e *ledger.Entry, cf *compiledFilter, pairs []textscan.Money) bool {
	loose := *cf
	loose.src.Amount = nil
	loose.src.Currency = ""
	if !m.matches(e, &loose) {
		return false
	}
	for _, p := range pairs {
		if e.Currency != p.Currency {
			continue
		}
		if e.Amount.Sub(p.Amount).Abs().LessThanOrEqual(m.registry.Tolerance(p.Currency, p.Amount)) {
			return true
		}
	}
	return false
}

// literalPairs mines delete instructions for amount+currency pairs the
// structured filter does not already cover.
func (m *Matcher) literalPairs(in Instruction) []textscan.Money {
	if in.Action != ActionDelete || in.RawText == "" {
		return nil
	}
	var out []textscan.Money
	for _, p := range textscan.ScanMoney(in.RawText) {
		if p.Currency == "" || !m.registry.Supported(p.Currency) {
			continue
		}
		if in.Filter.Amount != nil && in.Filter.Currency == p.Currency &&
			in.Filter.Amount.Equal(p.Amount) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m *Matcher) amountWithinBand(e *ledger.Entry, code string, want decimal.Decimal) bool {
	if code == "" {
		code = e.Currency
	}
	band := m.registry.Tolerance(code, want)
	return e.Amount.Sub(want).Abs().LessThanOrEqual(band)
}

func descriptionMatches(stored, mention string) bool {
	s, q := textscan.Fold(stored), textscan.Fold(mention)
	if s == "" || q == "" {
		return false
	}
	return strings.Contains(s, q) || textscan.FuzzyEqual(s, q, 2)
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func matchCategory(cats []*ledger.Category, mention string) *ledger.Category {
	folded := textscan.Fold(mention)
	if folded == "" {
		return nil
	}
	for _, c := range cats {
		if textscan.Fold(c.Name) == folded {
			return c
		}
	}
	for _, c := range cats {
		if textscan.FuzzyEqual(folded, textscan.Fold(c.Name), 2) {
			return c
		}
	}
	return nil
}

func matchTag(tags []*ledger.Tag, mention string) *ledger.Tag {
	folded := textscan.Fold(mention)
	if folded == "" {
		return nil
	}
	for _, t := range tags {
		if textscan.Fold(t.Name) == folded {
			return t
		}
	}
	for _, t := range tags {
		if textscan.FuzzyEqual(folded, textscan.Fold(t.Name), 2) {
			return t
		}
	}
	return nil
}
