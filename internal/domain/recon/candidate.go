// Package recon holds the working record of the candidate reconciliation
// pipeline and the ledger invariants it must satisfy before commit.
package recon

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chatledger/chatledger/internal/domain/ledger"
)

// ConversionSource records where an exchange candidate's converted amount
// came from.
type ConversionSource string

const (
	// ConversionExplicit means both legs were present in the user's text.
	ConversionExplicit ConversionSource = "explicit"
	// ConversionRate means the amount was computed from a live rate lookup.
	ConversionRate ConversionSource = "rate"
	// ConversionUnknown means the amount is still unresolved.
	ConversionUnknown ConversionSource = "unknown"
)

// BatchSource tells the pipeline what produced the batch.
type BatchSource string

const (
	SourceText  BatchSource = "text"
	SourceVoice BatchSource = "voice"
	SourceImage BatchSource = "image"
)

// Candidate is one proposed, not-yet-committed ledger event. It is created
// fresh per extraction call, mutated stage by stage, and destroyed once
// committed or abandoned.
type Candidate struct {
	Direction    ledger.Direction
	ExchangeLike bool

	Amount   decimal.Decimal
	Currency string

	Account   string
	AccountID *uuid.UUID

	// Transfer destination. For exchange-like transfers the destination
	// currency and amount live in ConvertToCurrency/ConvertedAmount.
	ToAccount   string
	ToAccountID *uuid.UUID

	// BothSidesOutside is set by the account resolver when the user
	// explicitly named the outside account on both transfer sides; it is
	// the only case the validator allows that shape.
	BothSidesOutside bool

	Category   string
	CategoryID *uuid.UUID

	TagText       string
	NormalizedTag string
	TagConfidence float64
	TagID         *uuid.UUID
	TagName       string
	TagIsNew      bool

	Description     string
	RawText         string
	TransactionDate time.Time

	ConvertToCurrency string
	ConvertedAmount   decimal.Decimal
	ConversionSource  ConversionSource

	// FeeLike marks a commission sub-record split off by the exchange
	// normalizer; it passes through that stage untouched.
	FeeLike bool

	// Missing holds the reasons this candidate cannot be committed yet.
	// Transient: recomputed by the validator on every pass.
	Missing []string
}

// Clone returns a deep-enough copy: pointer fields are duplicated so the
// clone can be mutated independently.
func (c *Candidate) Clone() *Candidate {
	out := *c
	out.AccountID = cloneID(c.AccountID)
	out.ToAccountID = cloneID(c.ToAccountID)
	out.CategoryID = cloneID(c.CategoryID)
	out.TagID = cloneID(c.TagID)
	out.Missing = append([]string(nil), c.Missing...)
	return &out
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// NormalizeText upper-cases currencies and trims the free-text fields the
// extractor tends to pad. Mirrors the cleanup every stage relies on.
func (c *Candidate) NormalizeText() {
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	c.ConvertToCurrency = strings.ToUpper(strings.TrimSpace(c.ConvertToCurrency))
	c.Account = strings.TrimSpace(c.Account)
	c.ToAccount = strings.TrimSpace(c.ToAccount)
	c.Category = strings.TrimSpace(c.Category)
	c.Description = strings.TrimSpace(c.Description)
	c.TagText = strings.TrimSpace(c.TagText)
}
