package textscan

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestScanMoney(t *testing.T) {
	tests := []struct {
		input string
		want  []Money
	}{
		{
			"купил кофе за 120 грн",
			[]Money{{Amount: decimal.NewFromInt(120), Currency: "UAH"}},
		},
		{
			"обмен 500 usd на 460 eur",
			[]Money{
				{Amount: decimal.NewFromInt(500), Currency: "USD"},
				{Amount: decimal.NewFromInt(460), Currency: "EUR"},
			},
		},
		{
			"$25.50 lunch",
			[]Money{{Amount: decimal.RequireFromString("25.50"), Currency: "USD"}},
		},
		{
			"перевел 1 000 рублей",
			[]Money{{Amount: decimal.NewFromInt(1000), Currency: "RUB"}},
		},
		{
			"0.005 btc продал",
			[]Money{{Amount: decimal.RequireFromString("0.005"), Currency: "BTC"}},
		},
		{"просто текст без денег", nil},
		{"взял 3 яблока", nil},
	}

	for _, tc := range tests {
		got := ScanMoney(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("ScanMoney(%q) returned %d pairs, want %d (%v)", tc.input, len(got), len(tc.want), got)
			continue
		}
		for i := range got {
			if !got[i].Amount.Equal(tc.want[i].Amount) || got[i].Currency != tc.want[i].Currency {
				t.Errorf("ScanMoney(%q)[%d] = %s %s, want %s %s",
					tc.input, i, got[i].Amount, got[i].Currency, tc.want[i].Amount, tc.want[i].Currency)
			}
		}
	}
}

func TestNormalizeCurrencyToken(t *testing.T) {
	tests := []struct {
		input string
		code  string
		ok    bool
	}{
		{"грн", "UAH", true},
		{"гривен", "UAH", true},
		{"долларов", "USD", true},
		{"$", "USD", true},
		{"usdt", "USDT", true},
		{"EUR", "EUR", true},
		{"кофе", "", false},
		{"for", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		code, ok := NormalizeCurrencyToken(tc.input)
		if code != tc.code || ok != tc.ok {
			t.Errorf("NormalizeCurrencyToken(%q) = %q, %v; want %q, %v", tc.input, code, ok, tc.code, tc.ok)
		}
	}
}

func TestLargestMoney(t *testing.T) {
	pairs := []Money{
		{Amount: decimal.NewFromInt(10), Currency: "USD"},
		{Amount: decimal.NewFromInt(500), Currency: "EUR"},
		{Amount: decimal.NewFromInt(500), Currency: "UAH"},
	}
	best, ok := LargestMoney(pairs)
	if !ok || best.Currency != "EUR" {
		t.Errorf("LargestMoney = %v %v, want first 500 (EUR)", best, ok)
	}

	if _, ok := LargestMoney(nil); ok {
		t.Error("LargestMoney(nil) should report not found")
	}
}

func TestIsFeeText(t *testing.T) {
	if !IsFeeText("комиссия 2 usd") {
		t.Error("expected fee detection for комиссия")
	}
	if !IsFeeText("exchange fee 1.5 usdt") {
		t.Error("expected fee detection for fee")
	}
	if IsFeeText("кофе и булочка") {
		t.Error("unexpected fee detection")
	}
}
