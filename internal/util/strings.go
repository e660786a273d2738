// Package util provides common utility functions used across the codebase.
package util

import (
	"sort"
	"strings"
)

// JoinOrNone joins strings with ", " or returns "(none)" for empty slices.
// This is useful for displaying lists of hosts, tags, or other items where
// an empty list should show a placeholder rather than nothing.
func JoinOrNone(items []string) string {
	return JoinOrDefault(items, "(none)")
}

// JoinOrDefault joins strings with ", " or returns the default value for empty slices.
func JoinOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// LevenshteinDistance computes the edit distance between two strings:
// the minimum number of single-character insertions, deletions, and
// substitutions to turn a into b.
func LevenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// SuggestSimilar returns up to max candidates within edit distance 2 of
// the input, closest first. Comparison is case-insensitive.
func SuggestSimilar(input string, candidates []string, max int) []string {
	if input == "" || len(candidates) == 0 {
		return nil
	}
	lower := strings.ToLower(input)

	type scored struct {
		name string
		dist int
	}
	var close []scored
	for _, c := range candidates {
		d := LevenshteinDistance(lower, strings.ToLower(c))
		if d <= 2 {
			close = append(close, scored{name: c, dist: d})
		}
	}
	if len(close) == 0 {
		return nil
	}

	sort.SliceStable(close, func(i, j int) bool {
		return close[i].dist < close[j].dist
	})

	if max > 0 && len(close) > max {
		close = close[:max]
	}
	out := make([]string, len(close))
	for i, s := range close {
		out[i] = s.name
	}
	return out
}

// Itoa converts an integer to its string representation.
// This is a lightweight alternative to strconv.Itoa that avoids the strconv import
// for packages that only need simple integer formatting.
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}
