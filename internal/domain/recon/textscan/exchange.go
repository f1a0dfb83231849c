package textscan

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ExchangeIntent is what the user's text says about a currency swap.
type ExchangeIntent struct {
	SourceAmount   decimal.Decimal
	SourceCurrency string
	TargetAmount   decimal.Decimal
	TargetCurrency string
	// ExplicitPair is true when both legs were literally present in the
	// text, as opposed to being reconstructed from candidate amounts.
	ExplicitPair bool
}

var exchangeWords = []string{
	"обмен", "обменя", "поменя", "конверт", "по курсу",
	"swap", "своп", "exchange", "converted",
}

var tradeWords = []string{
	"ордер", "order", "сделк", "trade", "trading",
	"купил", "продал", "buy", "sell", "bought", "sold",
}

// HasExchangeVocabulary reports whether the text talks about a currency
// exchange outright.
func HasExchangeVocabulary(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range exchangeWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// HasTradeVocabulary is the wider net the composite-trade expander casts:
// exchange wording plus order/trade/buy/sell vocabulary.
func HasTradeVocabulary(text string) bool {
	if HasExchangeVocabulary(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, w := range tradeWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

var pairPatternRe = regexp.MustCompile(`\b([A-Za-z]{3,5})\s*/\s*([A-Za-z]{3,5})\b`)

// PairPattern finds a "CCY/CCY" market pair mention, e.g. "BTC/USDT".
func PairPattern(text string) (base, quote string, ok bool) {
	for _, m := range pairPatternRe.FindAllStringSubmatch(text, -1) {
		b, okB := NormalizeCurrencyToken(m[1])
		q, okQ := NormalizeCurrencyToken(m[2])
		if okB && okQ && b != q {
			return b, q, true
		}
	}
	return "", "", false
}

var connectorRe = regexp.MustCompile(
	`(\d+(?:[.,]\d+)?)\s*(` + currencyToken + `)\s*(?:на|в|->|→|to|for|per)\s*(\d+(?:[.,]\d+)?)\s*(` + currencyToken + `)`,
)

// ParseExchangeIntent reads a swap out of the text. The strong form is a
// connector phrase, "500 usd на 460 eur"; both legs must carry resolvable,
// distinct currencies or the match is discarded. Returns nil when the text
// carries no such phrase.
func ParseExchangeIntent(text string) *ExchangeIntent {
	for _, m := range connectorRe.FindAllStringSubmatch(text, -1) {
		srcCur, okSrc := NormalizeCurrencyToken(m[2])
		dstCur, okDst := NormalizeCurrencyToken(m[4])
		if !okSrc || !okDst || srcCur == dstCur {
			continue
		}
		srcAmt, err1 := parseAmount(m[1])
		dstAmt, err2 := parseAmount(m[3])
		if err1 != nil || err2 != nil || !srcAmt.IsPositive() || !dstAmt.IsPositive() {
			continue
		}
		return &ExchangeIntent{
			SourceAmount:   srcAmt,
			SourceCurrency: srcCur,
			TargetAmount:   dstAmt,
			TargetCurrency: dstCur,
			ExplicitPair:   true,
		}
	}
	return nil
}

// FallbackIntent pairs the largest outflow with the largest inflow of a
// different currency. Used when the connector phrase is absent but the
// candidate shapes already suggest a swap.
func FallbackIntent(outflows, inflows []Money) *ExchangeIntent {
	src, okSrc := LargestMoney(outflows)
	if !okSrc {
		return nil
	}
	var candidates []Money
	for _, in := range inflows {
		if in.Currency != src.Currency {
			candidates = append(candidates, in)
		}
	}
	dst, okDst := LargestMoney(candidates)
	if !okDst {
		return nil
	}
	return &ExchangeIntent{
		SourceAmount:   src.Amount,
		SourceCurrency: src.Currency,
		TargetAmount:   dst.Amount,
		TargetCurrency: dst.Currency,
		ExplicitPair:   false,
	}
}
