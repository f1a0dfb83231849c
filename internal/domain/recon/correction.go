package recon

// MergeCorrection folds a follow-up extraction into a held draft
// field by field: non-empty fields of the correction overwrite the draft,
// blanks leave it alone. The user only restates what was wrong.
func MergeCorrection(draft, correction *Candidate) *Candidate {
	out := draft.Clone()

	if correction.Direction != "" {
		out.Direction = correction.Direction
	}
	if correction.Amount.IsPositive() {
		out.Amount = correction.Amount
	}
	if correction.Currency != "" {
		out.Currency = correction.Currency
	}
	if correction.Account != "" {
		out.Account = correction.Account
		out.AccountID = cloneID(correction.AccountID)
	}
	if correction.ToAccount != "" {
		out.ToAccount = correction.ToAccount
		out.ToAccountID = cloneID(correction.ToAccountID)
	}
	if correction.Category != "" {
		out.Category = correction.Category
		out.CategoryID = cloneID(correction.CategoryID)
	}
	if correction.TagText != "" {
		out.TagText = correction.TagText
		out.NormalizedTag = correction.NormalizedTag
		out.TagConfidence = correction.TagConfidence
		out.TagID = cloneID(correction.TagID)
		out.TagName = correction.TagName
		out.TagIsNew = correction.TagIsNew
	}
	if correction.Description != "" {
		out.Description = correction.Description
	}
	if !correction.TransactionDate.IsZero() {
		out.TransactionDate = correction.TransactionDate
	}
	if correction.ConvertToCurrency != "" {
		out.ConvertToCurrency = correction.ConvertToCurrency
	}
	if correction.ConvertedAmount.IsPositive() {
		out.ConvertedAmount = correction.ConvertedAmount
		out.ConversionSource = correction.ConversionSource
	}
	if correction.ExchangeLike {
		out.ExchangeLike = true
	}

	// A held draft's failure list is stale once anything changed.
	out.Missing = nil
	return out
}
