package batch

import (
	"github.com/shopspring/decimal"

	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
)

// NormalizeExchange collapses an exchange-shaped batch into one
// transfer-with-conversion record. Without it a swap double-counts as an
// unrelated expense plus income and net worth drifts. Fee candidates are
// set aside first and re-attached untouched.
func NormalizeExchange(batch []*recon.Candidate, source recon.BatchSource) []*recon.Candidate {
	if len(batch) == 0 {
		return batch
	}

	var fees, rest []*recon.Candidate
	for _, c := range batch {
		if c.FeeLike || textscan.IsFeeText(c.Description) {
			c.FeeLike = true
			fees = append(fees, c)
			continue
		}
		rest = append(rest, c)
	}

	text := CombinedText(batch)
	if !exchangeShaped(rest, text, source) {
		return batch
	}

	intent := textscan.ParseExchangeIntent(text)
	if intent == nil {
		intent = fallbackFromCandidates(rest)
	}
	if intent == nil {
		return batch
	}

	transfer, others := buildTransfer(rest, intent)
	out := make([]*recon.Candidate, 0, len(others)+len(fees)+1)
	out = append(out, transfer)
	out = append(out, others...)
	out = append(out, fees...)
	return out
}

// exchangeShaped implements the detection predicate: explicit exchange
// vocabulary or a CCY/CCY pair mention, or two distinct currencies among
// non-fee candidates combined with either an income+expense pair or, for
// image batches, two differently-currencied expenses.
func exchangeShaped(rest []*recon.Candidate, text string, source recon.BatchSource) bool {
	if len(rest) == 0 {
		return false
	}

	if textscan.HasExchangeVocabulary(text) {
		return true
	}
	if _, _, ok := textscan.PairPattern(text); ok {
		return true
	}

	currencies := make(map[string]struct{})
	var incomes, expenses int
	expenseCurrencies := make(map[string]struct{})
	for _, c := range rest {
		if c.Currency != "" {
			currencies[c.Currency] = struct{}{}
		}
		switch c.Direction {
		case ledger.Income:
			incomes++
		case ledger.Expense:
			expenses++
			if c.Currency != "" {
				expenseCurrencies[c.Currency] = struct{}{}
			}
		}
	}
	if len(currencies) < 2 {
		return false
	}
	if incomes > 0 && expenses > 0 {
		return true
	}
	return source == recon.SourceImage && len(expenseCurrencies) >= 2
}

func fallbackFromCandidates(rest []*recon.Candidate) *textscan.ExchangeIntent {
	var outflows, inflows []textscan.Money
	for _, c := range rest {
		m := textscan.Money{Amount: c.Amount, Currency: c.Currency}
		switch c.Direction {
		case ledger.Expense:
			outflows = append(outflows, m)
		case ledger.Income:
			inflows = append(inflows, m)
		}
	}
	return textscan.FallbackIntent(outflows, inflows)
}

// buildTransfer assembles the single replacement transfer: the outflow leg
// becomes amount/currency, the inflow leg the conversion target. Account
// mentions are carried over from the legs that named them. Only the two
// legs of the swap are consumed; every other candidate in the batch is
// returned untouched.
func buildTransfer(rest []*recon.Candidate, intent *textscan.ExchangeIntent) (*recon.Candidate, []*recon.Candidate) {
	src := pickLeg(rest, ledger.Expense, intent.SourceCurrency, intent.SourceAmount, nil)
	dst := pickLeg(rest, ledger.Income, intent.TargetCurrency, intent.TargetAmount, src)
	if src == nil && dst == nil {
		// Neither intent currency appears on a candidate. Consume the
		// first one so the swap is not double-counted.
		src = rest[0]
	}

	base := src
	if base == nil {
		base = dst
	}
	transfer := base.Clone()
	transfer.Direction = ledger.Transfer
	transfer.ExchangeLike = true
	transfer.Amount = intent.SourceAmount
	transfer.Currency = intent.SourceCurrency
	transfer.ConvertToCurrency = intent.TargetCurrency
	transfer.ConvertedAmount = intent.TargetAmount
	transfer.Category = ""
	transfer.CategoryID = nil
	transfer.AccountID = nil
	transfer.ToAccountID = nil
	transfer.Missing = nil
	if intent.ExplicitPair {
		transfer.ConversionSource = recon.ConversionExplicit
	} else {
		transfer.ConversionSource = recon.ConversionUnknown
	}

	if src != nil && src.Account != "" {
		transfer.Account = src.Account
	}
	if dst != nil && dst.Account != "" {
		transfer.ToAccount = dst.Account
	}

	others := make([]*recon.Candidate, 0, len(rest))
	for _, c := range rest {
		if c == src || c == dst {
			continue
		}
		others = append(others, c)
	}
	return transfer, others
}

// pickLeg finds the candidate that is one leg of the swap. Currency must
// match; an equal amount and the expected direction break ties, so an
// unrelated purchase in the same currency loses to the real leg. skip keeps
// one candidate from serving as both legs.
func pickLeg(rest []*recon.Candidate, dir ledger.Direction, currency string, amount decimal.Decimal, skip *recon.Candidate) *recon.Candidate {
	var best *recon.Candidate
	bestScore := -1
	for _, c := range rest {
		if c == skip || c.Currency != currency {
			continue
		}
		score := 0
		if c.Amount.Equal(amount) {
			score += 2
		}
		if c.Direction == dir {
			score++
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
