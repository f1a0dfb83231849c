package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/pkg/observability"
)

// Confirm commits a validated proposal. A fingerprint already in flight is
// rejected so a double-tapped confirmation cannot commit twice. On any
// creation failure the entries already created in this batch are deleted
// best-effort and the whole batch is reported failed, leaving the ledger
// as it was.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, proposal *Proposal) (*Result, error) {
	fp := proposal.Fingerprint
	if fp == "" {
		fp = Fingerprint(userID, proposal.Candidates)
	}
	if !s.guard.Acquire(fp) {
		return nil, common.ErrDuplicateConfirm
	}
	defer s.guard.Release(fp)

	ctx, done := observability.StartStage(ctx, "commit")
	result, err := s.commit(ctx, userID, proposal.Candidates)
	done(err)

	source := proposal.Source
	if source == "" {
		source = recon.SourceText
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	observability.PipelineRunsTotal.WithLabelValues(string(source), outcome).Inc()
	return result, err
}

func (s *Service) commit(ctx context.Context, userID uuid.UUID, cands []*recon.Candidate) (*Result, error) {
	created := make([]*ledger.Entry, 0, len(cands))

	for i, c := range cands {
		if err := s.resolveTagForCommit(ctx, userID, c); err != nil {
			s.rollback(ctx, created)
			return nil, &common.CommitError{Cause: err}
		}

		entry := buildEntry(userID, c, s.now())
		if err := s.entries.CreateEntry(ctx, entry); err != nil {
			s.logger.Warn("entry creation failed, rolling back batch",
				"user_id", userID, "candidate", i, "error", err)
			s.rollback(ctx, created)
			return nil, &common.CommitError{Cause: err}
		}
		created = append(created, entry)
		observability.EntriesCommitted.Inc()
	}

	s.logger.Info("batch committed", "user_id", userID, "entries", len(created))
	return &Result{Entries: created, ReviewIndex: 0}, nil
}

// rollback compensates for a partially-committed batch. Failures are
// logged and swallowed: there is nothing better to do with them here.
func (s *Service) rollback(ctx context.Context, created []*ledger.Entry) {
	for _, entry := range created {
		if err := s.entries.DeleteEntry(ctx, entry.ID); err != nil {
			s.logger.Warn("compensating delete failed",
				"entry_id", entry.ID, "error", err)
			continue
		}
		observability.CompensatingDeletes.Inc()
	}
}

// resolveTagForCommit creates the tag on first use and counts the usage.
func (s *Service) resolveTagForCommit(ctx context.Context, userID uuid.UUID, c *recon.Candidate) error {
	if c.TagID == nil && c.TagIsNew && c.TagName != "" {
		tag := &ledger.Tag{ID: uuid.New(), UserID: userID, Name: c.TagName}
		if err := s.tags.CreateTag(ctx, tag); err != nil {
			return err
		}
		id := tag.ID
		c.TagID = &id
		c.TagIsNew = false
	}
	if c.TagID != nil {
		return s.tags.IncrementTagUsage(ctx, *c.TagID)
	}
	return nil
}

func buildEntry(userID uuid.UUID, c *recon.Candidate, now time.Time) *ledger.Entry {
	entry := &ledger.Entry{
		ID:              uuid.New(),
		UserID:          userID,
		Direction:       c.Direction,
		Amount:          c.Amount,
		Currency:        c.Currency,
		ToAccountID:     c.ToAccountID,
		CategoryID:      c.CategoryID,
		TagID:           c.TagID,
		Description:     c.Description,
		TransactionDate: c.TransactionDate,
		CreatedAt:       now,
	}
	if c.AccountID != nil {
		entry.AccountID = *c.AccountID
	}
	if c.ExchangeLike {
		amount := c.ConvertedAmount
		entry.ConvertedAmount = &amount
		entry.ConvertTo = c.ConvertToCurrency
	}
	return entry
}
