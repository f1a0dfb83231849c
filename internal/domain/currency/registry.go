// Package currency owns the supported-currency registry and reconciles a
// candidate's stated currency against its account's actual holdings.
package currency

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Registry is the globally supported currency set, split by kind because
// crypto codes get a much tighter amount tolerance downstream.
type Registry struct {
	fiat   map[string]struct{}
	crypto map[string]struct{}
}

// NewRegistry builds a registry from code lists; codes are upper-cased.
func NewRegistry(fiat, crypto []string) *Registry {
	r := &Registry{
		fiat:   make(map[string]struct{}, len(fiat)),
		crypto: make(map[string]struct{}, len(crypto)),
	}
	for _, c := range fiat {
		r.fiat[strings.ToUpper(c)] = struct{}{}
	}
	for _, c := range crypto {
		r.crypto[strings.ToUpper(c)] = struct{}{}
	}
	return r
}

// DefaultRegistry covers the fiat and crypto codes the product supports
// out of the box.
func DefaultRegistry() *Registry {
	return NewRegistry(
		[]string{
			"USD", "EUR", "UAH", "RUB", "GBP", "PLN", "KZT", "BYN", "TRY",
			"CZK", "HUF", "RON", "GEL", "AMD", "AZN", "CNY", "JPY", "CHF",
			"CAD", "AUD", "SEK", "NOK", "DKK", "ILS", "MDL", "RSD", "THB",
			"AED", "INR", "BRL", "MXN", "SGD", "HKD", "KRW",
		},
		[]string{
			"BTC", "ETH", "USDT", "USDC", "SOL", "TON", "BNB", "XRP",
			"DOGE", "LTC", "TRX", "ADA", "DOT", "AVAX", "NOT",
		},
	)
}

// Supported reports whether the code belongs to the known fiat+crypto set.
func (r *Registry) Supported(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := r.fiat[code]; ok {
		return true
	}
	_, ok := r.crypto[code]
	return ok
}

// IsCrypto reports whether the code is a known crypto currency.
func (r *Registry) IsCrypto(code string) bool {
	_, ok := r.crypto[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Converter is the live conversion-rate collaborator. Convert returns the
// target amount, or ok=false when no rate is obtainable.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, bool, error)
}
