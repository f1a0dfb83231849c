package main

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/internal/domain/recon/service"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
)

// heuristicExtractor is the demo stand-in for the natural-language
// extraction collaborator: it mines amounts with textscan and classifies
// direction by keyword. Good enough to drive the pipeline end to end
// from a terminal.
type heuristicExtractor struct{}

var _ service.Extractor = (*heuristicExtractor)(nil)

var incomeWords = []string{
	"получил", "получила", "зарплата", "пришло", "вернули", "доход",
	"кэшбек", "кешбек", "продал", "продала",
}

var transferWords = []string{
	"перевел", "перевёл", "перевела", "перекинул", "перекинула",
	"переложил", "положил на", "снял", "сняла",
}

func (heuristicExtractor) ParseTransactions(_ context.Context, req service.ExtractionRequest) ([]*recon.Candidate, error) {
	monies := textscan.ScanMoney(req.Text)
	if len(monies) == 0 {
		return nil, nil
	}

	direction := classify(req.Text)
	out := make([]*recon.Candidate, 0, len(monies))
	for _, m := range monies {
		c := &recon.Candidate{
			Direction:   direction,
			Amount:      m.Amount,
			Currency:    m.Currency,
			Description: req.Text,
			RawText:     req.Text,
		}
		if direction != ledger.Transfer {
			c.Category = guessCategory(req.Text, req.CategoryNames)
		}
		out = append(out, c)
	}
	return out, nil
}

func classify(text string) ledger.Direction {
	folded := strings.ToLower(text)
	for _, w := range transferWords {
		if strings.Contains(folded, w) {
			return ledger.Transfer
		}
	}
	if textscan.HasExchangeVocabulary(folded) {
		return ledger.Transfer
	}
	for _, w := range incomeWords {
		if strings.Contains(folded, w) {
			return ledger.Income
		}
	}
	return ledger.Expense
}

// categoryHints maps trigger words to likely category names; the guess is
// only kept when the user actually has such a category.
var categoryHints = map[string][]string{
	"еда":         {"кофе", "обед", "ужин", "завтрак", "продукты", "ресторан", "кафе"},
	"транспорт":   {"такси", "метро", "автобус", "бензин", "проезд"},
	"развлечения": {"кино", "концерт", "игра", "бар"},
}

func guessCategory(text string, known []string) string {
	folded := strings.ToLower(text)
	for category, hints := range categoryHints {
		for _, hint := range hints {
			if !strings.Contains(folded, hint) {
				continue
			}
			for _, name := range known {
				if strings.EqualFold(name, category) {
					return name
				}
			}
		}
	}
	return ""
}

// staticConverter serves the demo with a small fixed rate table instead
// of a live rate provider.
type staticConverter struct{}

var usdRates = map[string]string{
	"USD": "1",
	"EUR": "0.92",
	"UAH": "41.5",
	"RUB": "92",
	"GBP": "0.79",
	"PLN": "3.95",
	"BTC": "0.000016",
	"ETH": "0.00041",
}

func (staticConverter) Convert(_ context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, bool, error) {
	fromRate, okFrom := usdRates[from]
	toRate, okTo := usdRates[to]
	if !okFrom || !okTo {
		return decimal.Zero, false, nil
	}
	inUSD := amount.Div(decimal.RequireFromString(fromRate))
	return inUSD.Mul(decimal.RequireFromString(toRate)).Round(8), true, nil
}
