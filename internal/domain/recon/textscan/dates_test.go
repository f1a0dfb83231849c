package textscan

import (
	"testing"
	"time"
)

func TestFindFullDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"чек от 05.03.2024 магазин", "2024-03-05", true},
		{"statement 2024-03-05", "2024-03-05", true},
		{"оплата 5/3/2024", "2024-03-05", true},
		{"встреча 31.02.2024", "", false}, // impossible date
		{"без даты вообще", "", false},
	}

	for _, tc := range tests {
		got, ok := FindFullDate(tc.input)
		if ok != tc.ok {
			t.Errorf("FindFullDate(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tc.expected {
			t.Errorf("FindFullDate(%q) = %s, want %s", tc.input, got.Format("2006-01-02"), tc.expected)
		}
	}
}

func TestFindExplicitDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"вчера купил кофе", "2024-03-09", true},
		{"позавчера обед", "2024-03-08", true},
		{"сегодня зарплата", "2024-03-10", true},
		{"paid yesterday", "2024-03-09", true},
		{"5 марта такси", "2024-03-05", true},
		{"25 декабря подарки", "2023-12-25", true}, // said in March, means last December
		{"кофе 120 грн", "", false},
	}

	for _, tc := range tests {
		got, ok := FindExplicitDate(tc.input, now)
		if ok != tc.ok {
			t.Errorf("FindExplicitDate(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tc.expected {
			t.Errorf("FindExplicitDate(%q) = %s, want %s", tc.input, got.Format("2006-01-02"), tc.expected)
		}
	}
}

func TestHasFutureIntent(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"завтра заплачу за интернет", true},
		{"через неделю аренда", true},
		{"rent due next week", true},
		{"вчера купил кофе", false},
	}
	for _, tc := range tests {
		if got := HasFutureIntent(tc.input); got != tc.want {
			t.Errorf("HasFutureIntent(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
