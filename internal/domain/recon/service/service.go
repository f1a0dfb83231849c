// Package service orchestrates the candidate reconciliation pipeline:
// extraction, batch reshaping, resolution, validation and commit.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/currency"
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/internal/domain/recon/accounts"
	"github.com/chatledger/chatledger/internal/domain/recon/batch"
	"github.com/chatledger/chatledger/internal/domain/recon/dates"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
	"github.com/chatledger/chatledger/pkg/observability"
)

// ExtractionRequest is what the extraction collaborator receives. The
// name lists steer the model toward the user's own vocabulary.
type ExtractionRequest struct {
	Text          string
	Source        recon.BatchSource
	Timezone      string
	AccountNames  []string
	CategoryNames []string
	TagNames      []string
}

// Extractor is the external natural-language extraction collaborator.
type Extractor interface {
	ParseTransactions(ctx context.Context, req ExtractionRequest) ([]*recon.Candidate, error)
}

// Input is one inbound user event.
type Input struct {
	Text     string
	Source   recon.BatchSource
	Timezone string
}

// Proposal is a resolved, validated draft awaiting confirmation.
type Proposal struct {
	Candidates  []*recon.Candidate
	Source      recon.BatchSource
	Fingerprint string
}

// Result is a committed batch. ReviewIndex points at the entry the
// session shows first for optional one-by-one editing.
type Result struct {
	Entries     []*ledger.Entry
	ReviewIndex int
}

// Service runs the reconciliation pipeline for one process.
type Service struct {
	extractor  Extractor
	accounts   ledger.AccountRepository
	categories ledger.CategoryRepository
	tags       ledger.TagRepository
	entries    ledger.EntryRepository
	registry   *currency.Registry
	resolver   *currency.Resolver
	throttle   *Throttle
	guard      *ConfirmGuard
	logger     *slog.Logger
	now        func() time.Time
}

// usageWindow is how many recent entries feed the account usage stats.
const usageWindow = 200

func NewService(
	extractor Extractor,
	accountRepo ledger.AccountRepository,
	categoryRepo ledger.CategoryRepository,
	tagRepo ledger.TagRepository,
	entryRepo ledger.EntryRepository,
	registry *currency.Registry,
	converter currency.Converter,
	throttle *Throttle,
	logger *slog.Logger,
) *Service {
	return &Service{
		extractor:  extractor,
		accounts:   accountRepo,
		categories: categoryRepo,
		tags:       tagRepo,
		entries:    entryRepo,
		registry:   registry,
		resolver:   currency.NewResolver(registry, converter),
		throttle:   throttle,
		guard:      NewConfirmGuard(),
		logger:     logger,
		now:        time.Now,
	}
}

// userState is the snapshot of everything the resolution stages read.
// The lookups are independent and fetched concurrently.
type userState struct {
	accounts   []*ledger.Account
	categories []*ledger.Category
	tags       []*ledger.Tag
	usage      map[uuid.UUID]ledger.AccountUsage
}

func (s *Service) loadState(ctx context.Context, userID uuid.UUID) (*userState, error) {
	state := &userState{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accts, err := s.accounts.ListAccounts(ctx, userID)
		state.accounts = accts
		return err
	})
	g.Go(func() error {
		cats, err := s.categories.ListCategories(ctx, userID)
		state.categories = cats
		return err
	})
	g.Go(func() error {
		tags, err := s.tags.ListTags(ctx, userID)
		state.tags = tags
		return err
	})
	g.Go(func() error {
		usage, err := s.entries.AccountUsageStats(ctx, userID, usageWindow)
		state.usage = usage
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading user state: %w", err)
	}
	return state, nil
}

// Propose runs extraction and every resolution stage, returning a draft
// ready to confirm. On validation failure the error is a
// *common.MissingFieldsError and the returned proposal still carries the
// partially-resolved draft so a correction can be merged into it.
func (s *Service) Propose(ctx context.Context, userID uuid.UUID, in Input) (*Proposal, error) {
	if !s.throttle.Allow(userID) {
		return nil, common.ErrExtractionRateLimited
	}

	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx, done := observability.StartStage(ctx, "extract")
	cands, err := s.extractor.ParseTransactions(ctx, ExtractionRequest{
		Text:          in.Text,
		Source:        in.Source,
		Timezone:      in.Timezone,
		AccountNames:  accountNames(state.accounts),
		CategoryNames: categoryNames(state.categories),
		TagNames:      tagNames(state.tags),
	})
	done(err)
	if err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}
	if len(cands) == 0 {
		return &Proposal{}, nil
	}

	return s.finalize(ctx, userID, cands, in.Source, state)
}

// Correct merges a follow-up correction into the held draft and re-runs
// resolution and validation over the merged batch.
func (s *Service) Correct(ctx context.Context, userID uuid.UUID, draft []*recon.Candidate, index int, correction *recon.Candidate, source recon.BatchSource) (*Proposal, error) {
	if index < 0 || index >= len(draft) {
		return nil, fmt.Errorf("correction index %d out of range", index)
	}
	merged := make([]*recon.Candidate, len(draft))
	for i, c := range draft {
		if i == index {
			merged[i] = recon.MergeCorrection(c, correction)
			continue
		}
		merged[i] = c.Clone()
	}

	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, userID, merged, source, state)
}

// finalize reshapes the batch and runs resolution stages in pipeline
// order, ending with validation.
func (s *Service) finalize(ctx context.Context, userID uuid.UUID, cands []*recon.Candidate, source recon.BatchSource, state *userState) (*Proposal, error) {
	for _, c := range cands {
		c.NormalizeText()
	}

	_, done := observability.StartStage(ctx, "reshape")
	cands = batch.Merge(cands)
	cands = batch.ExpandCompositeTrade(cands)
	cands = batch.NormalizeExchange(cands, source)
	done(nil)

	acctResolver := accounts.NewResolver(state.accounts, state.usage)

	_, done = observability.StartStage(ctx, "resolve-accounts")
	for _, c := range cands {
		acctResolver.Resolve(c)
	}
	done(nil)

	if err := s.resolveCategoriesAndTags(ctx, userID, cands, state); err != nil {
		return nil, err
	}

	ctx, done = observability.StartStage(ctx, "resolve-currency")
	var resolveErr error
	for _, c := range cands {
		if err := s.resolver.Resolve(ctx, c, accountByID(state.accounts, c.AccountID)); err != nil {
			resolveErr = err
			break
		}
	}
	done(resolveErr)
	if resolveErr != nil {
		return &Proposal{Candidates: cands}, resolveErr
	}

	dates.Stabilize(cands, source, s.now())

	outsideID := uuid.Nil
	if out := acctResolver.Outside(); out != nil {
		outsideID = out.ID
	}
	if idx, reasons := recon.FirstInvalid(cands, outsideID); idx >= 0 {
		cands[idx].Missing = reasons
		s.logger.Debug("batch blocked by validation",
			"user_id", userID, "candidate", idx, "missing", reasons)
		return &Proposal{Candidates: cands}, &common.MissingFieldsError{Index: idx, Reasons: reasons}
	}

	return &Proposal{
		Candidates:  cands,
		Source:      source,
		Fingerprint: Fingerprint(userID, cands),
	}, nil
}

// Run is Propose followed by Confirm, for callers that do not hold a
// confirmation step of their own.
func (s *Service) Run(ctx context.Context, userID uuid.UUID, in Input) (*Result, error) {
	proposal, err := s.Propose(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	if len(proposal.Candidates) == 0 {
		return &Result{}, nil
	}
	return s.Confirm(ctx, userID, proposal)
}

func (s *Service) resolveCategoriesAndTags(ctx context.Context, userID uuid.UUID, cands []*recon.Candidate, state *userState) error {
	for _, c := range cands {
		if c.Direction != ledger.Transfer && c.Category != "" && c.CategoryID == nil {
			if cat := matchCategory(state.categories, c.Category); cat != nil {
				id := cat.ID
				c.CategoryID = &id
				c.Category = cat.Name
			}
		}

		if c.TagText == "" || c.TagID != nil {
			continue
		}
		c.NormalizedTag = textscan.Fold(c.TagText)
		tag, err := s.tags.FindSimilarTag(ctx, userID, c.NormalizedTag)
		if errors.Is(err, common.ErrNotFound) {
			c.TagIsNew = true
			c.TagName = c.TagText
			continue
		}
		if err != nil {
			return fmt.Errorf("tag lookup: %w", err)
		}
		id := tag.ID
		c.TagID = &id
		c.TagName = tag.Name
		c.TagIsNew = false
	}
	return nil
}

func matchCategory(cats []*ledger.Category, mention string) *ledger.Category {
	folded := textscan.Fold(mention)
	if folded == "" {
		return nil
	}
	for _, cat := range cats {
		if textscan.Fold(cat.Name) == folded {
			return cat
		}
	}
	for _, cat := range cats {
		if textscan.FuzzyEqual(textscan.Fold(cat.Name), folded, 2) {
			return cat
		}
	}
	return nil
}

func accountByID(accts []*ledger.Account, id *uuid.UUID) *ledger.Account {
	if id == nil {
		return nil
	}
	for _, a := range accts {
		if a.ID == *id {
			return a
		}
	}
	return nil
}

func accountNames(accts []*ledger.Account) []string {
	names := make([]string, 0, len(accts))
	for _, a := range accts {
		if !a.IsHidden {
			names = append(names, a.Name)
		}
	}
	return names
}

func categoryNames(cats []*ledger.Category) []string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names
}

func tagNames(tags []*ledger.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
