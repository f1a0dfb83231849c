package batch

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 12, 30, 0, 0, time.UTC)
}

func expense(amount int64, currency, account, desc string) *recon.Candidate {
	return &recon.Candidate{
		Direction:       ledger.Expense,
		Amount:          decimal.NewFromInt(amount),
		Currency:        currency,
		Account:         account,
		Description:     desc,
		TransactionDate: day(5),
	}
}

func TestMerge_SumsSameEvent(t *testing.T) {
	a := expense(100, "UAH", "моно", "кофе")
	b := expense(50, "UAH", "моно", "кофе")

	out := Merge([]*recon.Candidate{a, b})
	if len(out) != 1 {
		t.Fatalf("expected 1 merged candidate, got %d", len(out))
	}
	if !out[0].Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("merged amount = %s, want 150", out[0].Amount)
	}
}

func TestMerge_OrderIndependent(t *testing.T) {
	a := expense(100, "UAH", "моно", "кофе")
	b := expense(50, "UAH", "моно", "кофе")

	ab := Merge([]*recon.Candidate{a.Clone(), b.Clone()})
	ba := Merge([]*recon.Candidate{b.Clone(), a.Clone()})

	if len(ab) != 1 || len(ba) != 1 {
		t.Fatalf("expected single groups, got %d and %d", len(ab), len(ba))
	}
	if !ab[0].Amount.Equal(ba[0].Amount) {
		t.Errorf("merge not order independent: %s vs %s", ab[0].Amount, ba[0].Amount)
	}
}

func TestMerge_KeyBoundaries(t *testing.T) {
	t.Run("capitalization of description merges", func(t *testing.T) {
		a := expense(100, "UAH", "моно", "Кофе")
		b := expense(50, "UAH", "моно", "кофе")
		if out := Merge([]*recon.Candidate{a, b}); len(out) != 1 {
			t.Errorf("expected merge across capitalization, got %d groups", len(out))
		}
	})

	t.Run("different account stays apart", func(t *testing.T) {
		a := expense(100, "UAH", "моно", "кофе")
		b := expense(50, "UAH", "приват", "кофе")
		if out := Merge([]*recon.Candidate{a, b}); len(out) != 2 {
			t.Errorf("expected separate groups per account, got %d", len(out))
		}
	})

	t.Run("different currency stays apart", func(t *testing.T) {
		a := expense(100, "UAH", "моно", "кофе")
		b := expense(100, "USD", "моно", "кофе")
		if out := Merge([]*recon.Candidate{a, b}); len(out) != 2 {
			t.Errorf("expected separate groups per currency, got %d", len(out))
		}
	})

	t.Run("different day stays apart", func(t *testing.T) {
		a := expense(100, "UAH", "моно", "кофе")
		b := expense(100, "UAH", "моно", "кофе")
		b.TransactionDate = day(6)
		if out := Merge([]*recon.Candidate{a, b}); len(out) != 2 {
			t.Errorf("expected separate groups per day, got %d", len(out))
		}
	})
}

func TestMerge_TransfersKeyOnBothSides(t *testing.T) {
	a := &recon.Candidate{
		Direction: ledger.Transfer, Amount: decimal.NewFromInt(100), Currency: "UAH",
		Account: "моно", ToAccount: "приват", TransactionDate: day(5),
	}
	b := a.Clone()
	c := a.Clone()
	c.ToAccount = "binance"

	out := Merge([]*recon.Candidate{a, b, c})
	if len(out) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(out))
	}
	if !out[0].Amount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("transfer group amount = %s, want 200", out[0].Amount)
	}
}

func TestMerge_KeepsFirstNonEmptyDescription(t *testing.T) {
	// Transfers do not key on description, so the first non-empty one
	// within the group survives the merge.
	a := &recon.Candidate{
		Direction: ledger.Transfer, Amount: decimal.NewFromInt(100), Currency: "UAH",
		Account: "моно", ToAccount: "приват", TransactionDate: day(5),
	}
	b := a.Clone()
	b.Description = "маме на подарок"

	out := Merge([]*recon.Candidate{a, b})
	if len(out) != 1 {
		t.Fatalf("expected 1 group, got %d", len(out))
	}
	if out[0].Description != "маме на подарок" {
		t.Errorf("description = %q, want first non-empty kept", out[0].Description)
	}
}
