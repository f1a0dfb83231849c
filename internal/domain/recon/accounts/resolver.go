package accounts

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chatledger/chatledger/internal/domain/ledger"
	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
)

const (
	fuzzyMaxDist    = 2
	translitMaxDist = 3
)

// Resolver matches account mentions for one user's pipeline run. It is
// built per run from a snapshot of the user's accounts and usage stats.
type Resolver struct {
	accounts []*ledger.Account
	usage    map[uuid.UUID]ledger.AccountUsage
	outside  *ledger.Account
	dflt     *ledger.Account
}

// NewResolver snapshots the account list. Hidden accounts are skipped for
// matching but the outside sentinel is kept even when hidden.
func NewResolver(accts []*ledger.Account, usage map[uuid.UUID]ledger.AccountUsage) *Resolver {
	r := &Resolver{usage: usage}
	for _, a := range accts {
		if a.IsOutside {
			r.outside = a
			continue
		}
		if a.IsDefault {
			r.dflt = a
		}
		if a.IsHidden {
			continue
		}
		r.accounts = append(r.accounts, a)
	}
	return r
}

// Outside returns the sentinel account, nil when the user has none.
func (r *Resolver) Outside() *ledger.Account { return r.outside }

// Default returns the user's default account, nil when unset.
func (r *Resolver) Default() *ledger.Account { return r.dflt }

// Match resolves a free-text mention to an account. Order: exact folded
// name, substring containment either direction, alias hit, then fuzzy
// distance (wider when transliteration was needed to compare scripts).
func (r *Resolver) Match(mention string) (*ledger.Account, bool) {
	folded := textscan.Fold(mention)
	if folded == "" {
		return nil, false
	}

	if r.outside != nil && r.mentionsOutside(folded) {
		return r.outside, true
	}

	for _, a := range r.accounts {
		if textscan.Fold(a.Name) == folded {
			return a, true
		}
	}

	for _, a := range r.accounts {
		name := textscan.Fold(a.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, folded) || strings.Contains(folded, name) {
			return a, true
		}
	}

	for _, a := range r.accounts {
		if r.matchesAlias(a, folded) {
			return a, true
		}
	}

	for _, a := range r.accounts {
		name := textscan.Fold(a.Name)
		if textscan.FuzzyEqual(folded, name, fuzzyMaxDist) {
			return a, true
		}
		// Cross-script: compare the transliterated spellings with extra
		// tolerance, "манабанк" against "monobank".
		if textscan.HasCyrillic(folded) != textscan.HasCyrillic(name) {
			if textscan.FuzzyEqual(textscan.Transliterate(folded), textscan.Transliterate(name), translitMaxDist) {
				return a, true
			}
		}
	}

	return nil, false
}

func (r *Resolver) matchesAlias(a *ledger.Account, folded string) bool {
	for _, alias := range aliasesFor(textscan.Fold(a.Name)) {
		fa := textscan.Fold(alias)
		if fa == folded || textscan.FuzzyEqual(folded, fa, fuzzyMaxDist) {
			return true
		}
	}
	return false
}

var outsideWords = []string{"вне", "внешний", "наружу", "outside", "external"}

func (r *Resolver) mentionsOutside(folded string) bool {
	if r.outside == nil {
		return false
	}
	if name := textscan.Fold(r.outside.Name); name != "" && (folded == name ||
		strings.Contains(folded, name)) {
		return true
	}
	for _, w := range outsideWords {
		if strings.Contains(folded, w) {
			return true
		}
	}
	return false
}

// Resolve fills AccountID (and ToAccountID for transfers) on the candidate
// per the side rules. It never leaves a transfer with both sides on the
// sentinel while a real default account exists.
func (r *Resolver) Resolve(c *recon.Candidate) {
	if c.Direction != ledger.Transfer {
		r.resolveSimple(c)
		return
	}
	r.resolveTransfer(c)
}

func (r *Resolver) resolveSimple(c *recon.Candidate) {
	if acct, ok := r.Match(c.Account); ok && !acct.IsOutside {
		c.AccountID = idOf(acct)
		return
	}
	// No mention, an unknown mention, or the sentinel: non-transfers post
	// to the default account.
	if r.dflt != nil {
		c.AccountID = idOf(r.dflt)
	}
}

func (r *Resolver) resolveTransfer(c *recon.Candidate) {
	from, fromOK := r.Match(c.Account)
	to, toOK := r.Match(c.ToAccount)

	if fromOK && toOK && from.IsOutside && to.IsOutside {
		// The user named the outside account on both sides on purpose;
		// record that so validation lets it through.
		c.BothSidesOutside = true
		c.AccountID = idOf(from)
		c.ToAccountID = idOf(to)
		return
	}

	if !fromOK {
		if c.ExchangeLike {
			from = r.PickSourceAccount(c.Currency, c.Amount)
		} else if r.dflt != nil {
			from = r.dflt
		}
	}
	if !toOK {
		if c.ExchangeLike {
			to = r.PickTargetAccount(c.ConvertToCurrency)
		} else {
			to = r.outside
		}
	}

	if from != nil {
		c.AccountID = idOf(from)
	}
	if to != nil {
		c.ToAccountID = idOf(to)
	}

	// Both sides collapsed onto the sentinel without the user asking for
	// it: move the resolvable side to the default account.
	if r.dflt != nil && from != nil && to != nil && from.IsOutside && to.IsOutside {
		c.AccountID = idOf(r.dflt)
	}
}

// PickTargetAccount chooses the receiving side of an exchange when the text
// named none: prefer an account already holding the target currency, break
// ties by most recent use, then by use count. The sentinel is avoided.
func (r *Resolver) PickTargetAccount(currency string) *ledger.Account {
	var best *ledger.Account
	for _, a := range r.accounts {
		if !a.Holds(currency) {
			continue
		}
		if best == nil || r.moreRecentlyUsed(a, best) {
			best = a
		}
	}
	if best != nil {
		return best
	}
	if r.dflt != nil {
		return r.dflt
	}
	return r.outside
}

// PickSourceAccount chooses the paying side of an exchange: prefer an
// account whose holding of the currency covers the amount, then any holder
// of the currency, with the same recency/frequency tie-breaks.
func (r *Resolver) PickSourceAccount(currency string, amount decimal.Decimal) *ledger.Account {
	var covering, holder *ledger.Account
	for _, a := range r.accounts {
		if !a.Holds(currency) {
			continue
		}
		if holder == nil || r.moreRecentlyUsed(a, holder) {
			holder = a
		}
		if a.HoldingAmount(currency).GreaterThanOrEqual(amount) {
			if covering == nil || r.moreRecentlyUsed(a, covering) {
				covering = a
			}
		}
	}
	if covering != nil {
		return covering
	}
	if holder != nil {
		return holder
	}
	if r.dflt != nil {
		return r.dflt
	}
	return r.outside
}

func (r *Resolver) moreRecentlyUsed(a, b *ledger.Account) bool {
	ua, ub := r.usage[a.ID], r.usage[b.ID]
	if !ua.LastUsedAt.Equal(ub.LastUsedAt) {
		return ua.LastUsedAt.After(ub.LastUsedAt)
	}
	return ua.UsageCount > ub.UsageCount
}

func idOf(a *ledger.Account) *uuid.UUID {
	id := a.ID
	return &id
}
