package currency

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
)

type stubConverter struct {
	rate decimal.Decimal
	ok   bool
	err  error
}

func (s *stubConverter) Convert(_ context.Context, amount decimal.Decimal, _, _ string) (decimal.Decimal, bool, error) {
	if s.err != nil {
		return decimal.Zero, false, s.err
	}
	return amount.Mul(s.rate), s.ok, nil
}

func account(holdings ...ledger.Holding) *ledger.Account {
	return &ledger.Account{Name: "Monobank", Holdings: holdings}
}

func TestResolve_UnsupportedCurrency(t *testing.T) {
	r := NewResolver(DefaultRegistry(), &stubConverter{})
	c := &recon.Candidate{Direction: ledger.Expense, Currency: "zzz", Amount: decimal.NewFromInt(10)}

	err := r.Resolve(context.Background(), c, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedCurrency)
}

func TestResolve_HoldingsAsymmetry(t *testing.T) {
	r := NewResolver(DefaultRegistry(), &stubConverter{})
	acct := account(ledger.Holding{Currency: "UAH", Amount: decimal.NewFromInt(100)})

	t.Run("expense in unheld currency fails", func(t *testing.T) {
		c := &recon.Candidate{Direction: ledger.Expense, Currency: "usd", Amount: decimal.NewFromInt(10)}
		err := r.Resolve(context.Background(), c, acct)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrUnsupportedCurrency)
	})

	t.Run("income in unheld currency is allowed", func(t *testing.T) {
		c := &recon.Candidate{Direction: ledger.Income, Currency: "USD", Amount: decimal.NewFromInt(10)}
		require.NoError(t, r.Resolve(context.Background(), c, acct))
		assert.Equal(t, "USD", c.Currency)
	})

	t.Run("sentinel account is exempt", func(t *testing.T) {
		outside := &ledger.Account{Name: "Outside", IsOutside: true}
		c := &recon.Candidate{Direction: ledger.Expense, Currency: "USD", Amount: decimal.NewFromInt(10)}
		require.NoError(t, r.Resolve(context.Background(), c, outside))
	})

	t.Run("empty holdings reported distinctly", func(t *testing.T) {
		c := &recon.Candidate{Direction: ledger.Expense, Currency: "USD", Amount: decimal.NewFromInt(10)}
		err := r.Resolve(context.Background(), c, account())
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrAccountHasNoHoldings)
	})
}

func TestResolve_ClearsStaleConversion(t *testing.T) {
	r := NewResolver(DefaultRegistry(), &stubConverter{})
	c := &recon.Candidate{
		Direction: ledger.Expense, Currency: "UAH", Amount: decimal.NewFromInt(120),
		ConvertToCurrency: "USD", ConvertedAmount: decimal.NewFromInt(3),
		ConversionSource: recon.ConversionExplicit,
	}
	acct := account(ledger.Holding{Currency: "UAH", Amount: decimal.NewFromInt(500)})

	require.NoError(t, r.Resolve(context.Background(), c, acct))
	assert.Empty(t, c.ConvertToCurrency)
	assert.True(t, c.ConvertedAmount.IsZero())
	assert.Empty(t, string(c.ConversionSource))
}

func TestResolve_ExchangeRateLookup(t *testing.T) {
	acct := account(ledger.Holding{Currency: "USD", Amount: decimal.NewFromInt(1000)})

	t.Run("fills converted amount from rate", func(t *testing.T) {
		r := NewResolver(DefaultRegistry(), &stubConverter{rate: decimal.RequireFromString("0.92"), ok: true})
		c := &recon.Candidate{
			Direction: ledger.Transfer, ExchangeLike: true,
			Currency: "USD", ConvertToCurrency: "EUR",
			Amount: decimal.NewFromInt(500),
		}
		require.NoError(t, r.Resolve(context.Background(), c, acct))
		assert.True(t, c.ConvertedAmount.Equal(decimal.NewFromInt(460)))
		assert.Equal(t, recon.ConversionRate, c.ConversionSource)
	})

	t.Run("keeps explicit amount untouched", func(t *testing.T) {
		r := NewResolver(DefaultRegistry(), &stubConverter{ok: false})
		c := &recon.Candidate{
			Direction: ledger.Transfer, ExchangeLike: true,
			Currency: "USD", ConvertToCurrency: "EUR",
			Amount: decimal.NewFromInt(500), ConvertedAmount: decimal.NewFromInt(455),
		}
		require.NoError(t, r.Resolve(context.Background(), c, acct))
		assert.True(t, c.ConvertedAmount.Equal(decimal.NewFromInt(455)))
		assert.Equal(t, recon.ConversionExplicit, c.ConversionSource)
	})

	t.Run("no rate is a hard failure", func(t *testing.T) {
		r := NewResolver(DefaultRegistry(), &stubConverter{ok: false})
		c := &recon.Candidate{
			Direction: ledger.Transfer, ExchangeLike: true,
			Currency: "USD", ConvertToCurrency: "EUR",
			Amount: decimal.NewFromInt(500),
		}
		err := r.Resolve(context.Background(), c, acct)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrRateLookupFailed)
	})
}

func TestTolerance(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		code   string
		amount string
		want   string
	}{
		{"USD", "100", "0.01"},
		{"USD", "100.00", "0.01"},
		{"USD", "100.004", "0.001"},
		{"BTC", "0.5", "0.00000001"},
		{"USDT", "12", "0.00000001"},
	}

	for _, tc := range tests {
		got := reg.Tolerance(tc.code, decimal.RequireFromString(tc.amount))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("Tolerance(%s, %s) = %s, want %s", tc.code, tc.amount, got, tc.want)
		}
	}
}
