// Package batch reshapes the candidate list of one extraction call:
// merging duplicates, expanding half-seen trades and collapsing
// exchange-shaped groups into single transfers.
package batch

import (
	"strings"

	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
)

// mergeKey identifies candidates that describe the same real-world event.
// Description enters folded, so capitalization differences still merge;
// currency, account, date and tag differences keep candidates apart.
func mergeKey(c *recon.Candidate) string {
	day := ""
	if !c.TransactionDate.IsZero() {
		day = c.TransactionDate.UTC().Format("2006-01-02")
	}
	parts := []string{
		string(c.Direction),
		day,
		c.Currency,
		textscan.Fold(c.Account),
	}
	if c.Direction == ledger.Transfer {
		parts = append(parts, textscan.Fold(c.ToAccount))
	} else {
		parts = append(parts,
			textscan.Fold(c.Category),
			textscan.Fold(c.Description),
			textscan.Fold(c.TagText),
		)
	}
	return strings.Join(parts, "|")
}

// Merge collapses candidates sharing a merge key by summing their amounts.
// The first candidate of each group is the representative: its fields win,
// except the description, where the first non-empty one in the group is
// kept. Group order follows first occurrence, so merging is stable and the
// summed amount is independent of input order.
func Merge(batch []*recon.Candidate) []*recon.Candidate {
	if len(batch) < 2 {
		return batch
	}

	var order []string
	groups := make(map[string]*recon.Candidate, len(batch))

	for _, c := range batch {
		key := mergeKey(c)
		rep, ok := groups[key]
		if !ok {
			groups[key] = c.Clone()
			order = append(order, key)
			continue
		}
		rep.Amount = rep.Amount.Add(c.Amount)
		if rep.Description == "" {
			rep.Description = c.Description
		}
	}

	out := make([]*recon.Candidate, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}

// CombinedText joins the raw utterance text of the batch for the text
// heuristics that operate on the whole message.
func CombinedText(batch []*recon.Candidate) string {
	var parts []string
	seen := make(map[string]struct{}, len(batch))
	for _, c := range batch {
		if c.RawText == "" {
			continue
		}
		if _, dup := seen[c.RawText]; dup {
			continue
		}
		seen[c.RawText] = struct{}{}
		parts = append(parts, c.RawText)
	}
	return strings.Join(parts, "\n")
}
