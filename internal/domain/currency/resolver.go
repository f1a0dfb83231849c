package currency

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/chatledger/chatledger/internal/domain/common"
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
)

// Resolver reconciles a candidate's currency against the supported set and
// the bound account's holdings, and fills in missing conversion amounts.
type Resolver struct {
	registry  *Registry
	converter Converter
}

func NewResolver(registry *Registry, converter Converter) *Resolver {
	return &Resolver{registry: registry, converter: converter}
}

// Resolve normalizes and validates the candidate's currency fields.
// account is the already-resolved source account, nil when unresolved.
//
// Rules:
//   - an unsupported code is rejected outright;
//   - debiting a currency the account does not hold is a hard failure for
//     expenses and plain transfers, unless the account is the sentinel;
//   - income and exchange candidates may introduce a new currency;
//   - stale conversion fields on a non-exchange candidate are cleared;
//   - an exchange candidate without a converted amount gets one from the
//     rate collaborator, or fails with ErrRateLookupFailed.
func (r *Resolver) Resolve(ctx context.Context, c *recon.Candidate, account *ledger.Account) error {
	c.NormalizeText()

	if c.Currency == "" {
		return nil // the validator reports the missing currency
	}
	if !r.registry.Supported(c.Currency) {
		return fmt.Errorf("%q: %w", c.Currency, common.ErrUnsupportedCurrency)
	}
	if c.ExchangeLike && c.ConvertToCurrency != "" && !r.registry.Supported(c.ConvertToCurrency) {
		return fmt.Errorf("%q: %w", c.ConvertToCurrency, common.ErrUnsupportedCurrency)
	}

	if account != nil && !account.IsOutside && !account.Holds(c.Currency) {
		switch {
		case c.Direction == ledger.Income:
			// Receiving a new currency opens a holding; allowed.
		case c.ExchangeLike:
			// The exchange itself introduces the currency pair; allowed.
		case len(account.Holdings) == 0:
			return fmt.Errorf("account %s: %w", account.Name, common.ErrAccountHasNoHoldings)
		default:
			return fmt.Errorf("account %s does not hold %s: %w",
				account.Name, c.Currency, common.ErrUnsupportedCurrency)
		}
	}

	if !c.ExchangeLike {
		// Conversion fields left over from a previous pipeline run or a
		// reclassified candidate are meaningless now.
		c.ConvertToCurrency = ""
		c.ConvertedAmount = decimal.Zero
		c.ConversionSource = ""
		return nil
	}

	if c.ConvertToCurrency == "" || c.ConvertToCurrency == c.Currency {
		return nil // validator reports the bad conversion target
	}
	if c.ConvertedAmount.IsPositive() {
		if c.ConversionSource == "" {
			c.ConversionSource = recon.ConversionExplicit
		}
		return nil
	}

	converted, ok, err := r.converter.Convert(ctx, c.Amount, c.Currency, c.ConvertToCurrency)
	if err != nil {
		return fmt.Errorf("rate lookup %s->%s: %w", c.Currency, c.ConvertToCurrency, err)
	}
	if !ok || !converted.IsPositive() {
		return fmt.Errorf("%s->%s: %w", c.Currency, c.ConvertToCurrency, common.ErrRateLookupFailed)
	}
	c.ConvertedAmount = converted
	c.ConversionSource = recon.ConversionRate
	return nil
}

// Tolerance returns the amount-tolerance band mass edits use when
// comparing a filter amount against stored entries: crypto precision for
// crypto codes, cents otherwise, tightened when the filter amount itself
// carries more decimal places.
func (r *Registry) Tolerance(code string, filterAmount decimal.Decimal) decimal.Decimal {
	band := decimal.RequireFromString("0.01")
	if r.IsCrypto(code) {
		band = decimal.RequireFromString("0.00000001")
	}
	if exp := -filterAmount.Exponent(); exp > 0 {
		precise := decimal.New(1, filterAmount.Exponent())
		if precise.LessThan(band) {
			band = precise
		}
	}
	return band
}
