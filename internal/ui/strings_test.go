package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  hello  ", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
		{"协程与线程的区别", 5, "协程..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle tiny limit = %q, want ab", got)
	}
	got := truncateMiddle("/home/user/.local/share/wanreader/articles/kotlin-flow-42.md", 24)
	if n := len([]rune(got)); n != 24 {
		t.Fatalf("got %q (%d runes), want 24", got, n)
	}
}

func TestFitWidthCountsCells(t *testing.T) {
	got := fitWidth("协程与线程的区别", 7)
	if w := lipgloss.Width(got); w > 7 {
		t.Fatalf("fitWidth = %q (width %d), want <= 7", got, w)
	}
	if got := fitWidth("short", 10); got != "short" {
		t.Fatalf("fitWidth short = %q", got)
	}
	if got := fitWidth("x", 0); got != "" {
		t.Fatalf("fitWidth zero = %q", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 0, 3, 3},
		{-1, 0, 3, 0},
		{2, 0, 3, 2},
		{4, 0, -1, 0},
	}
	for _, tc := range cases {
		if got := clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}
