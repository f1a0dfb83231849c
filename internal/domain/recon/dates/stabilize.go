// Package dates picks one trustworthy transaction date per candidate out
// of the competing guesses a batch carries.
package dates

import (
	"time"

	"github.com/chatledger/chatledger/internal/domain/recon"
	"github.com/chatledger/chatledger/internal/domain/recon/textscan"
)

const (
	futureGraceDays = 2
	driftLimitDays  = 31
)

// Stabilize rewrites each candidate's TransactionDate. Per candidate the
// sources rank: an explicitly stated date in the text, a full calendar
// date pattern, then the extractor's own guess (image-derived for photo
// batches). For image batches the dominant date wins outright. Otherwise
// a date is clamped to the batch's dominant date when it sits more than
// two days in the future with no future-intent wording and drifts more
// than a month from the dominant date.
func Stabilize(batch []*recon.Candidate, source recon.BatchSource, now time.Time) {
	if len(batch) == 0 {
		return
	}

	chosen := make([]time.Time, len(batch))
	for i, c := range batch {
		chosen[i] = pickDate(c, now)
	}

	dominant := dominantDay(chosen)

	if source == recon.SourceImage {
		for _, c := range batch {
			c.TransactionDate = dominant
		}
		return
	}

	for i, c := range batch {
		c.TransactionDate = clamp(chosen[i], dominant, c.RawText, now)
	}
}

func pickDate(c *recon.Candidate, now time.Time) time.Time {
	if d, ok := textscan.FindExplicitDate(c.RawText, now); ok {
		return d
	}
	if d, ok := textscan.FindFullDate(c.RawText); ok {
		return d
	}
	if !c.TransactionDate.IsZero() {
		return dayOf(c.TransactionDate)
	}
	return dayOf(now)
}

func clamp(d, dominant time.Time, rawText string, now time.Time) time.Time {
	farFuture := d.After(dayOf(now).AddDate(0, 0, futureGraceDays))
	if !farFuture || textscan.HasFutureIntent(rawText) {
		return d
	}
	drift := d.Sub(dominant)
	if drift < 0 {
		drift = -drift
	}
	if drift > driftLimitDays*24*time.Hour {
		return dominant
	}
	return d
}

// dominantDay returns the calendar day occurring most often, ties broken
// by first occurrence.
func dominantDay(dates []time.Time) time.Time {
	counts := make(map[time.Time]int, len(dates))
	var best time.Time
	bestCount := 0
	for _, d := range dates {
		day := dayOf(d)
		counts[day]++
		if counts[day] > bestCount {
			bestCount = counts[day]
			best = day
		}
	}
	return best
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
