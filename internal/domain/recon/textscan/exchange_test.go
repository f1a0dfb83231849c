package textscan

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseExchangeIntent(t *testing.T) {
	tests := []struct {
		input string
		want  *ExchangeIntent
	}{
		{
			"обмен 500 usd на 460 eur",
			&ExchangeIntent{
				SourceAmount:   decimal.NewFromInt(500),
				SourceCurrency: "USD",
				TargetAmount:   decimal.NewFromInt(460),
				TargetCurrency: "EUR",
				ExplicitPair:   true,
			},
		},
		{
			"поменял 1000 грн в 25 EUR",
			&ExchangeIntent{
				SourceAmount:   decimal.NewFromInt(1000),
				SourceCurrency: "UAH",
				TargetAmount:   decimal.NewFromInt(25),
				TargetCurrency: "EUR",
				ExplicitPair:   true,
			},
		},
		{"купил кофе за 120 грн", nil},
		{"просто слова без валют", nil},
		{"обменял 100 usd на 100 usd", nil}, // same currency on both legs
	}

	for _, tc := range tests {
		got := ParseExchangeIntent(tc.input)
		if tc.want == nil {
			if got != nil {
				t.Errorf("ParseExchangeIntent(%q) = %+v, want nil", tc.input, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("ParseExchangeIntent(%q) = nil, want %+v", tc.input, tc.want)
			continue
		}
		if !got.SourceAmount.Equal(tc.want.SourceAmount) || got.SourceCurrency != tc.want.SourceCurrency ||
			!got.TargetAmount.Equal(tc.want.TargetAmount) || got.TargetCurrency != tc.want.TargetCurrency ||
			got.ExplicitPair != tc.want.ExplicitPair {
			t.Errorf("ParseExchangeIntent(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestFallbackIntent(t *testing.T) {
	outflows := []Money{
		{Amount: decimal.NewFromInt(500), Currency: "USD"},
		{Amount: decimal.NewFromInt(100), Currency: "USD"},
	}
	inflows := []Money{
		{Amount: decimal.NewFromInt(460), Currency: "EUR"},
		{Amount: decimal.NewFromInt(50), Currency: "USD"}, // same currency, ignored
	}

	got := FallbackIntent(outflows, inflows)
	if got == nil {
		t.Fatal("FallbackIntent returned nil")
	}
	if got.ExplicitPair {
		t.Error("fallback intent must not claim an explicit pair")
	}
	if got.SourceCurrency != "USD" || !got.SourceAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("unexpected source leg: %s %s", got.SourceAmount, got.SourceCurrency)
	}
	if got.TargetCurrency != "EUR" || !got.TargetAmount.Equal(decimal.NewFromInt(460)) {
		t.Errorf("unexpected target leg: %s %s", got.TargetAmount, got.TargetCurrency)
	}

	if FallbackIntent(nil, inflows) != nil {
		t.Error("FallbackIntent with no outflows should be nil")
	}
	if FallbackIntent(outflows, []Money{{Amount: decimal.NewFromInt(1), Currency: "USD"}}) != nil {
		t.Error("FallbackIntent with only same-currency inflows should be nil")
	}
}

func TestPairPattern(t *testing.T) {
	base, quote, ok := PairPattern("ордер BTC/USDT исполнен")
	if !ok || base != "BTC" || quote != "USDT" {
		t.Errorf("PairPattern = %s/%s %v, want BTC/USDT true", base, quote, ok)
	}

	if _, _, ok := PairPattern("шашлык/люля за 300"); ok {
		t.Error("unexpected pair match for non-currency words")
	}
}

func TestHasExchangeVocabulary(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"обмен валюты", true},
		{"сделал swap на бирже", true},
		{"купил кофе", false},
		{"перевод маме", false},
	}
	for _, tc := range tests {
		if got := HasExchangeVocabulary(tc.input); got != tc.want {
			t.Errorf("HasExchangeVocabulary(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestHasTradeVocabulary(t *testing.T) {
	if !HasTradeVocabulary("ордер исполнен") {
		t.Error("expected trade vocabulary for ордер")
	}
	if !HasTradeVocabulary("купил на бирже") {
		t.Error("expected trade vocabulary for купил")
	}
	if HasTradeVocabulary("зарплата пришла") {
		t.Error("unexpected trade vocabulary")
	}
}
