// Package digest holds the pure transforms that turn extracted grant records
// into the final ordered digest: keyword filtering, deduplication and
// publication-date ordering.
package digest

import (
	"sort"
	"strings"

	"clemfr/grantwatch/internal/grant"
)

// Build runs filter, dedupe and sort over the merged extraction output.
// It is deterministic and idempotent for a fixed keyword set.
func Build(records []grant.Record, keywords []string) []grant.Record {
	return SortByPublished(Dedupe(Filter(records, keywords)))
}

// Filter keeps records whose title, description or tags contain at least one
// configured keyword, case-insensitively.
func Filter(records []grant.Record, keywords []string) []grant.Record {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}

	var kept []grant.Record
	for _, r := range records {
		text := r.SearchText()
		for _, k := range lowered {
			if strings.Contains(text, k) {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

// Dedupe keeps the first-seen record per key. Input order, which is
// source-list order after the merge, breaks ties.
func Dedupe(records []grant.Record) []grant.Record {
	seen := make(map[string]bool, len(records))
	var kept []grant.Record
	for _, r := range records {
		key := r.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	return kept
}

// SortByPublished orders records by publication date descending. Records
// without a publication date sort after all dated records, keeping their
// relative order.
func SortByPublished(records []grant.Record) []grant.Record {
	sorted := make([]grant.Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PublishedAt, sorted[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return sorted
}
