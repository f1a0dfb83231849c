package textscan

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is one amount+currency pair found in text.
type Money struct {
	Amount   decimal.Decimal
	Currency string
	// Pos is the byte offset of the match, used to order pairs and to
	// relate them to nearby keywords.
	Pos int
}

// currencyWords maps spoken/written currency tokens to ISO-like codes.
// Tokens are matched against folded prefixes, so "долларов" hits "доллар".
var currencyWords = map[string]string{
	"$": "USD", "доллар": "USD", "бакс": "USD", "usd": "USD",
	"€": "EUR", "евро": "EUR", "eur": "EUR",
	"₴": "UAH", "грн": "UAH", "гривн": "UAH", "гривен": "UAH", "uah": "UAH",
	"₽": "RUB", "руб": "RUB", "рубл": "RUB", "rub": "RUB",
	"£": "GBP", "фунт": "GBP", "gbp": "GBP",
	"тенге": "KZT", "злот": "PLN", "лир": "TRY", "лари": "GEL",
	"юан": "CNY", "йен": "JPY", "иен": "JPY", "франк": "CHF",
	"биткоин": "BTC", "биток": "BTC", "эфир": "ETH", "тезер": "USDT",
}

// knownCodes keeps bare 3-5 letter tokens from being misread as currency
// codes: only codes the product has ever seen are accepted here. The
// authoritative supported set lives in the currency registry; this list
// only gates text mining.
var knownCodes = map[string]struct{}{
	"USD": {}, "EUR": {}, "UAH": {}, "RUB": {}, "GBP": {}, "PLN": {},
	"KZT": {}, "BYN": {}, "TRY": {}, "CZK": {}, "HUF": {}, "RON": {},
	"GEL": {}, "AMD": {}, "AZN": {}, "CNY": {}, "JPY": {}, "CHF": {},
	"CAD": {}, "AUD": {}, "SEK": {}, "NOK": {}, "DKK": {}, "ILS": {},
	"BTC": {}, "ETH": {}, "USDT": {}, "USDC": {}, "SOL": {}, "TON": {},
	"BNB": {}, "XRP": {}, "DOGE": {}, "LTC": {}, "TRX": {}, "ADA": {},
}

const currencyToken = `[$€₴₽£]|[A-Za-zА-Яа-яЁё]{2,12}`

var moneyRe = regexp.MustCompile(
	`(?:(` + currencyToken + `)\s*)?(\d+(?:[ \x{00a0}]\d{3})*(?:[.,]\d+)?)(?:\s*(` + currencyToken + `))?`,
)

// NormalizeCurrencyToken resolves a raw token ("грн", "$", "usdt",
// "долларов") to a currency code. Unknown tokens are rejected rather than
// guessed: text mining must not invent currencies.
func NormalizeCurrencyToken(tok string) (string, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", false
	}
	if code, ok := currencyWords[tok]; ok {
		return code, true
	}
	folded := Fold(tok)
	for word, code := range currencyWords {
		w := Fold(word)
		if w != "" && strings.HasPrefix(folded, w) {
			return code, true
		}
	}
	upper := strings.ToUpper(tok)
	if _, ok := knownCodes[upper]; ok {
		return upper, true
	}
	return "", false
}

// ScanMoney extracts every amount+currency pair from the text in order of
// appearance. An amount with no resolvable currency token on either side
// is skipped.
func ScanMoney(text string) []Money {
	matches := moneyRe.FindAllStringSubmatchIndex(text, -1)
	var out []Money
	for _, m := range matches {
		amountStr := text[m[4]:m[5]]
		currency := ""
		if m[2] != -1 {
			currency, _ = NormalizeCurrencyToken(text[m[2]:m[3]])
		}
		if currency == "" && m[6] != -1 {
			currency, _ = NormalizeCurrencyToken(text[m[6]:m[7]])
		}
		if currency == "" {
			continue
		}
		amount, err := parseAmount(amountStr)
		if err != nil || !amount.IsPositive() {
			continue
		}
		out = append(out, Money{Amount: amount, Currency: currency, Pos: m[0]})
	}
	return out
}

// LargestMoney returns the pair with the greatest amount, ties broken by
// first occurrence.
func LargestMoney(pairs []Money) (Money, bool) {
	if len(pairs) == 0 {
		return Money{}, false
	}
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Amount.GreaterThan(best.Amount) {
			best = p
		}
	}
	return best, true
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.Replace(s, ",", ".", 1)
	return decimal.NewFromString(s)
}

var feeRe = regexp.MustCompile(`(?i)комисси|fee\b|commission|сбор`)

// IsFeeText reports whether the text labels its amount as a commission.
func IsFeeText(s string) bool {
	return feeRe.MatchString(s)
}
