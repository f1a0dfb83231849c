package recon

import (
	"github.com/google/uuid"

	"github.com/chatledger/chatledger/internal/domain/ledger"
)

// User-facing reasons, worded the way the confirmation prompt shows them.
const (
	ReasonAmount          = "сумма"
	ReasonCurrency        = "валюта"
	ReasonAccount         = "счёт"
	ReasonToAccount       = "счёт получателя"
	ReasonBothOutside     = "оба счёта внешние"
	ReasonConvertCurrency = "валюта получения"
	ReasonConvertedAmount = "сумма получения"
)

// MissingFields computes which critical fields keep the candidate from
// being committed. outsideID is the user's sentinel account. It is a pure
// function: the candidate is not mutated.
func MissingFields(c *Candidate, outsideID uuid.UUID) []string {
	var missing []string

	if !c.Amount.IsPositive() {
		missing = append(missing, ReasonAmount)
	}
	if c.Currency == "" {
		missing = append(missing, ReasonCurrency)
	}

	if c.Direction != ledger.Transfer {
		// A non-transfer parked on the sentinel account has nowhere real
		// to post; the resolver should have redirected it.
		if c.AccountID == nil || *c.AccountID == outsideID {
			missing = append(missing, ReasonAccount)
		}
		return missing
	}

	if c.AccountID == nil {
		missing = append(missing, ReasonAccount)
	}
	if c.ToAccountID == nil {
		missing = append(missing, ReasonToAccount)
	}
	if c.AccountID != nil && c.ToAccountID != nil &&
		*c.AccountID == outsideID && *c.ToAccountID == outsideID && !c.BothSidesOutside {
		missing = append(missing, ReasonBothOutside)
	}

	if c.ExchangeLike {
		if c.ConvertToCurrency == "" || c.ConvertToCurrency == c.Currency {
			missing = append(missing, ReasonConvertCurrency)
		}
		if !c.ConvertedAmount.IsPositive() {
			missing = append(missing, ReasonConvertedAmount)
		}
	}

	return missing
}

// FirstInvalid validates candidates left to right and returns the index of
// the first one with missing fields, or -1 when the whole batch is
// committable. The batch halts on the first failure so the confirmation
// prompt stays coherent.
func FirstInvalid(batch []*Candidate, outsideID uuid.UUID) (int, []string) {
	for i, c := range batch {
		if reasons := MissingFields(c, outsideID); len(reasons) > 0 {
			return i, reasons
		}
	}
	return -1, nil
}
