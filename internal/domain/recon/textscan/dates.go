package textscan

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var fullDateRe = regexp.MustCompile(
	`\b(\d{4})-(\d{2})-(\d{2})\b|\b(\d{1,2})[./](\d{1,2})[./](\d{4})\b`,
)

// FindFullDate locates a complete calendar date anywhere in the text:
// ISO "2024-03-05" or day-first "05.03.2024" / "5/3/2024".
func FindFullDate(text string) (time.Time, bool) {
	m := fullDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	var year, month, day int
	if m[1] != "" {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	} else {
		day, _ = strconv.Atoi(m[4])
		month, _ = strconv.Atoi(m[5])
		year, _ = strconv.Atoi(m[6])
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		// Normalization moved the day: the text said "31.02".
		return time.Time{}, false
	}
	return t, true
}

var monthNames = map[string]time.Month{
	"январ": time.January, "феврал": time.February, "март": time.March,
	"апрел": time.April, "мая": time.May, "май": time.May, "июн": time.June,
	"июл": time.July, "август": time.August, "сентябр": time.September,
	"октябр": time.October, "ноябр": time.November, "декабр": time.December,
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var dayMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:-?го)?\s+([а-яА-Яa-zA-Z]+)`)

// FindExplicitDate reads a humanly stated date: relative words first
// ("вчера", "yesterday"), then "5 марта" style day+month (year taken from
// now, shifted back a year if the result lands over a month ahead).
func FindExplicitDate(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)
	day := func(offset int) time.Time {
		y, m, d := now.AddDate(0, 0, offset).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	switch {
	case strings.Contains(lower, "позавчера"):
		return day(-2), true
	case strings.Contains(lower, "вчера"), strings.Contains(lower, "yesterday"):
		return day(-1), true
	case strings.Contains(lower, "сегодня"), strings.Contains(lower, "today"):
		return day(0), true
	}

	for _, m := range dayMonthRe.FindAllStringSubmatch(lower, -1) {
		d, _ := strconv.Atoi(m[1])
		if d < 1 || d > 31 {
			continue
		}
		month, ok := lookupMonth(m[2])
		if !ok {
			continue
		}
		t := time.Date(now.Year(), month, d, 0, 0, 0, 0, time.UTC)
		if t.Day() != d {
			continue
		}
		// "5 декабря" said in January refers to last December.
		if t.After(now.AddDate(0, 1, 0)) {
			t = t.AddDate(-1, 0, 0)
		}
		return t, true
	}
	return time.Time{}, false
}

func lookupMonth(word string) (time.Month, bool) {
	for prefix, month := range monthNames {
		if strings.HasPrefix(word, prefix) {
			return month, true
		}
	}
	return 0, false
}

var futureIntentWords = []string{
	"завтра", "послезавтра", "через", "следующ", "планиру", "буду",
	"tomorrow", "next week", "next month", "upcoming", "will ",
}

// HasFutureIntent reports whether the text deliberately talks about a
// future event, which exempts its date from the far-future clamp.
func HasFutureIntent(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range futureIntentWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
