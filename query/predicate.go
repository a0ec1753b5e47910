/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"regexp"

	"github.com/suparena/memorystore/storagemodels"
)

// Test reports whether a stored value satisfies one where entry.
// A regexp only ever matches string values.
func Test(expected, actual any) bool {
	if s, ok := actual.(string); ok {
		if re, ok := expected.(*regexp.Regexp); ok && re != nil {
			return re.MatchString(s)
		}
	}
	return LooseEqual(expected, actual)
}

// Match builds the record predicate described by filter. A nil filter, or
// one without Where and Predicate, matches everything.
func Match(filter *storagemodels.Filter) func(storagemodels.Record) bool {
	if !filter.HasWhere() {
		return func(storagemodels.Record) bool { return true }
	}
	if filter.Predicate != nil {
		return filter.Predicate
	}

	where := filter.Where
	return func(rec storagemodels.Record) bool {
		for key, expected := range where {
			if !Test(expected, rec[key]) {
				return false
			}
		}
		return true
	}
}

// Filter returns the records accepted by filter, preserving their order.
func Filter(records []storagemodels.Record, filter *storagemodels.Filter) []storagemodels.Record {
	if !filter.HasWhere() {
		return records
	}
	match := Match(filter)
	out := make([]storagemodels.Record, 0, len(records))
	for _, rec := range records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns how many records loosely equal every entry of where.
// Unlike Match, regexp values get no special treatment.
func Count(records []storagemodels.Record, where map[string]any) int {
	if where == nil {
		return len(records)
	}
	n := 0
	for _, rec := range records {
		ok := true
		for key, expected := range where {
			if !LooseEqual(expected, rec[key]) {
				ok = false
				break
			}
		}
		if ok {
			n++
		}
	}
	return n
}
