package batch

import (
	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
)

// ExpandCompositeTrade synthesizes the missing inflow leg of a trade the
// extractor only half-saw: a receipt or order text that mentions both legs
// of a swap but yielded only expense candidates. The highest-value
// amount+currency pair in the text not accounted for by any candidate
// becomes the acquired asset, cloned from the largest expense.
//
// It never fires when an income candidate already exists and never reuses
// a pair already present on a candidate.
func ExpandCompositeTrade(batch []*recon.Candidate) []*recon.Candidate {
	if len(batch) == 0 {
		return batch
	}

	var largestExpense *recon.Candidate
	for _, c := range batch {
		switch c.Direction {
		case ledger.Income:
			return batch
		case ledger.Expense:
			if largestExpense == nil || c.Amount.GreaterThan(largestExpense.Amount) {
				largestExpense = c
			}
		default:
			// A transfer means the batch is not outflow-only.
			return batch
		}
	}
	if largestExpense == nil {
		return batch
	}

	text := CombinedText(batch)
	if !textscan.HasTradeVocabulary(text) {
		return batch
	}

	seen := make(map[string]struct{}, len(batch)*2)
	for _, c := range batch {
		seen[pairKey(c.Currency, c.Amount.String())] = struct{}{}
		if c.ConvertedAmount.IsPositive() {
			seen[pairKey(c.ConvertToCurrency, c.ConvertedAmount.String())] = struct{}{}
		}
	}

	var unseen []textscan.Money
	for _, m := range textscan.ScanMoney(text) {
		if _, dup := seen[pairKey(m.Currency, m.Amount.String())]; dup {
			continue
		}
		unseen = append(unseen, m)
	}

	acquired, ok := textscan.LargestMoney(unseen)
	if !ok {
		return batch
	}

	leg := largestExpense.Clone()
	leg.Direction = ledger.Income
	leg.Amount = acquired.Amount
	leg.Currency = acquired.Currency
	leg.AccountID = nil
	leg.Missing = nil
	return append(batch, leg)
}

func pairKey(currency, amount string) string {
	return currency + "@" + amount
}
