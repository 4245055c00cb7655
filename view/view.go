// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package view

import (
	"sort"
	"strings"

	"github.com/ARRNAV26/Voting-System/models"
)

// Query is a pure description of how to project the suggestion replica for
// display. The zero value passes everything through unchanged.
type Query struct {
	// Search is a case-insensitive substring matched against title,
	// description and author username.
	Search string

	// Category keeps only suggestions in the given category.
	Category string

	// Status keeps only suggestions with the given status.
	Status string

	// SortByVotes orders the result by descending vote count (leaderboard
	// order). Ties keep their incoming relative order. When false, the
	// incoming order is preserved.
	SortByVotes bool

	// Limit truncates the result when positive.
	Limit int
}

// Project applies a query to a replica slice and returns a new slice. The
// input is never mutated, so callers can project the same replica under
// several queries concurrently.
func Project(items []models.Suggestion, q Query) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(items))

	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, s := range items {
		if q.Category != "" && s.Category != q.Category {
			continue
		}
		if q.Status != "" && s.Status != q.Status {
			continue
		}
		if search != "" && !matches(s, search) {
			continue
		}
		out = append(out, s)
	}

	if q.SortByVotes {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].VoteCount > out[j].VoteCount
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Categories returns the distinct categories present in the replica with a
// count per category, ordered by descending count.
func Categories(items []models.Suggestion) []models.CategoryStat {
	counts := make(map[string]int)
	for _, s := range items {
		counts[s.Category]++
	}

	out := make([]models.CategoryStat, 0, len(counts))
	for c, n := range counts {
		out = append(out, models.CategoryStat{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func matches(s models.Suggestion, search string) bool {
	return strings.Contains(strings.ToLower(s.Title), search) ||
		strings.Contains(strings.ToLower(s.Description), search) ||
		strings.Contains(strings.ToLower(s.Author.Username), search)
}
