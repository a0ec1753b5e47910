/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"encoding/json"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/memorystore/errors"
	"github.com/suparena/memorystore/storagemodels"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		id   any
		want string
	}{
		{1, "1"},
		{int64(42), "42"},
		{uint8(7), "7"},
		{1.0, "1"},
		{2.5, "2.5"},
		{json.Number("3"), "3"},
		{"abc", "abc"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyString(tt.id), "KeyString(%#v)", tt.id)
	}
}

func TestIsBlankID(t *testing.T) {
	for _, id := range []any{nil, "", 0, 0.0, false, math.NaN()} {
		assert.True(t, IsBlankID(id), "%#v should be blank", id)
	}
	for _, id := range []any{1, "0", "x", true, -1} {
		assert.False(t, IsBlankID(id), "%#v should not be blank", id)
	}
}

func TestLooseEqual(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dt := strfmt.DateTime(now)

	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"same int", 5, 5, true},
		{"int and float", 5, 5.0, true},
		{"int and int64", 5, int64(5), true},
		{"numeric string and number", "5", 5, true},
		{"number and numeric string", 5, "5.0", true},
		{"different numbers", 5, 6, false},
		{"non-numeric string", 5, "five", false},
		{"empty string is not zero", 0, "", false},
		{"bool is not number", true, 1, false},
		{"strings", "a", "a", true},
		{"strings differ", "a", "A", false},
		{"nil and missing", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"value and missing", 0, nil, false},
		{"time and strfmt", now, dt, true},
		{"strfmt pointer", &dt, now, true},
		{"slices", []any{1, "a"}, []any{1, "a"}, true},
		{"maps", map[string]any{"x": 1}, map[string]any{"x": 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooseEqual(tt.expected, tt.actual))
		})
	}
}

func TestMatch(t *testing.T) {
	records := []storagemodels.Record{
		{"id": 1, "a": 5, "name": "Alice"},
		{"id": 2, "a": 10, "name": "Bob"},
		{"id": 3, "a": 5, "name": "alfred"},
	}

	t.Run("WhereConjunction", func(t *testing.T) {
		got := Filter(records, &storagemodels.Filter{Where: map[string]any{"a": 5}})
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0]["id"])
		assert.Equal(t, 3, got[1]["id"])

		got = Filter(records, &storagemodels.Filter{Where: map[string]any{"a": 5, "name": "alfred"}})
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0]["id"])
	})

	t.Run("Regexp", func(t *testing.T) {
		got := Filter(records, &storagemodels.Filter{Where: map[string]any{"name": regexp.MustCompile("(?i)^al")}})
		require.Len(t, got, 2)
		assert.Equal(t, "Alice", got[0]["name"])
		assert.Equal(t, "alfred", got[1]["name"])
	})

	t.Run("RegexpOnNonString", func(t *testing.T) {
		got := Filter(records, &storagemodels.Filter{Where: map[string]any{"a": regexp.MustCompile("5")}})
		assert.Empty(t, got)
	})

	t.Run("Predicate", func(t *testing.T) {
		filter := &storagemodels.Filter{
			Where:     map[string]any{"a": 5},
			Predicate: func(r storagemodels.Record) bool { return r["a"].(int) > 5 },
		}
		got := Filter(records, filter)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0]["id"])
	})

	t.Run("NoWhere", func(t *testing.T) {
		assert.Len(t, Filter(records, nil), 3)
		assert.Len(t, Filter(records, storagemodels.OrderBy("a")), 3)
		assert.True(t, Match(nil)(storagemodels.Record{}))
	})
}

func TestCount(t *testing.T) {
	records := []storagemodels.Record{
		{"id": 1, "a": 5, "name": "x"},
		{"id": 2, "a": "5", "name": "y"},
		{"id": 3, "a": 6, "name": "x"},
	}
	assert.Equal(t, 3, Count(records, nil))
	assert.Equal(t, 3, Count(records, map[string]any{}))
	assert.Equal(t, 2, Count(records, map[string]any{"a": 5}))
	assert.Equal(t, 1, Count(records, map[string]any{"a": 5, "name": "x"}))
	assert.Equal(t, 0, Count(records, map[string]any{"name": regexp.MustCompile("x")}), "count does not match patterns")
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name    string
		clauses []string
		keys    []string
		reverse bool
	}{
		{"plain", []string{"a"}, []string{"a"}, false},
		{"asc", []string{"a ASC"}, []string{"a"}, false},
		{"desc", []string{"a DESC"}, []string{"a"}, true},
		{"lower case desc", []string{"a  desc"}, []string{"a"}, true},
		{"any desc reverses", []string{"a DESC", "b ASC"}, []string{"a", "b"}, true},
		{"marker needs whitespace", []string{"aDESC"}, []string{"aDESC"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := ParseOrder(tt.clauses)
			require.NoError(t, err)
			assert.Equal(t, tt.keys, order.Keys)
			assert.Equal(t, tt.reverse, order.Reverse)
		})
	}

	_, err := ParseOrder([]string{" DESC"})
	assert.True(t, errors.IsValidationError(err))
}

func typesOf(types map[string]storagemodels.PropertyType) TypeResolver {
	return func(field string) (storagemodels.PropertyType, error) {
		t, ok := types[field]
		if !ok {
			return "", errors.NewValidationError(field, "property is not declared")
		}
		return t, nil
	}
}

func values(records []storagemodels.Record, field string) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r[field]
	}
	return out
}

func TestSort(t *testing.T) {
	types := typesOf(map[string]storagemodels.PropertyType{
		"a":    storagemodels.TypeNumber,
		"at":   storagemodels.TypeDate,
		"name": storagemodels.TypeString,
		"b":    storagemodels.TypeNumber,
	})

	newRecords := func() []storagemodels.Record {
		return []storagemodels.Record{
			{"id": 1, "a": 3, "name": "carol", "b": 1},
			{"id": 2, "a": 1, "name": "alice", "b": 2},
			{"id": 3, "a": 2, "name": "bob", "b": 3},
		}
	}

	t.Run("NumericAscending", func(t *testing.T) {
		recs := newRecords()
		require.NoError(t, Sort(recs, []string{"a"}, types))
		assert.Equal(t, []any{1, 2, 3}, values(recs, "a"))
	})

	t.Run("NumericDescending", func(t *testing.T) {
		recs := newRecords()
		require.NoError(t, Sort(recs, []string{"a DESC"}, types))
		assert.Equal(t, []any{3, 2, 1}, values(recs, "a"))
	})

	t.Run("NumericNotLexicographic", func(t *testing.T) {
		recs := []storagemodels.Record{{"a": 10}, {"a": 9}, {"a": "100"}}
		require.NoError(t, Sort(recs, []string{"a"}, types))
		assert.Equal(t, []any{9, 10, "100"}, values(recs, "a"))
	})

	t.Run("Strings", func(t *testing.T) {
		recs := newRecords()
		require.NoError(t, Sort(recs, []string{"name"}, types))
		assert.Equal(t, []any{"alice", "bob", "carol"}, values(recs, "name"))
	})

	t.Run("MixedKeysUseValueComparator", func(t *testing.T) {
		recs := []storagemodels.Record{{"a": 10, "name": "x"}, {"a": 9, "name": "y"}, {"a": "100", "name": "z"}}
		require.NoError(t, Sort(recs, []string{"a", "name"}, types))
		assert.Equal(t, []any{9, 10, "100"}, values(recs, "a"), "numbers rank before strings")
	})

	t.Run("OnlyFirstKeyCompared", func(t *testing.T) {
		recs := []storagemodels.Record{
			{"id": 1, "a": 1, "b": 9},
			{"id": 2, "a": 1, "b": 1},
			{"id": 3, "a": 0, "b": 5},
		}
		require.NoError(t, Sort(recs, []string{"a", "b"}, types))
		assert.Equal(t, []any{3, 1, 2}, values(recs, "id"), "ties on the first key keep their order")
	})

	t.Run("GlobalReverse", func(t *testing.T) {
		recs := newRecords()
		require.NoError(t, Sort(recs, []string{"a ASC", "b DESC"}, types))
		assert.Equal(t, []any{3, 2, 1}, values(recs, "a"))
	})

	t.Run("Dates", func(t *testing.T) {
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		recs := []storagemodels.Record{
			{"id": 1, "at": strfmt.DateTime(base.Add(2 * time.Hour))},
			{"id": 2, "at": base},
			{"id": 3, "at": base.Add(time.Hour).Format(time.RFC3339)},
		}
		require.NoError(t, Sort(recs, []string{"at"}, types))
		assert.Equal(t, []any{2, 3, 1}, values(recs, "id"))
	})

	t.Run("MissingValuesLast", func(t *testing.T) {
		recs := []storagemodels.Record{{"id": 1}, {"id": 2, "a": 5}, {"id": 3, "name": "z"}, {"id": 4, "a": 1, "name": "a"}}
		require.NoError(t, Sort(recs, []string{"a"}, types))
		assert.Equal(t, []any{4, 2, 1, 3}, values(recs, "id"))

		require.NoError(t, Sort(recs, []string{"name"}, types))
		assert.Equal(t, []any{4, 3, 2, 1}, values(recs, "id"))
	})

	t.Run("UnknownProperty", func(t *testing.T) {
		err := Sort(newRecords(), []string{"missing"}, types)
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))

		err = Sort(newRecords(), []string{"a", "missing DESC"}, types)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("NoClauses", func(t *testing.T) {
		recs := newRecords()
		require.NoError(t, Sort(recs, nil, types))
		assert.Equal(t, []any{1, 2, 3}, values(recs, "id"))
	})
}

func TestCompareValues(t *testing.T) {
	ordered := []any{false, true, -1, 2.5, 3, time.Unix(0, 0), "a", "b", []int{1}, nil}
	for i := 0; i < len(ordered)-1; i++ {
		assert.Equal(t, -1, CompareValues(ordered[i], ordered[i+1]), "%#v < %#v", ordered[i], ordered[i+1])
		assert.Equal(t, 1, CompareValues(ordered[i+1], ordered[i]))
	}
	assert.Equal(t, 0, CompareValues(2, 2.0))
	assert.Equal(t, 0, CompareValues(nil, nil))
}

func TestIndexKey(t *testing.T) {
	for key, want := range map[string]bool{
		"0": true, "17": true, "4294967294": true,
		"": false, "017": false, "-1": false, "+1": false, "1.5": false, "4294967295": false, "abc": false,
	} {
		_, ok := IndexKey(key)
		assert.Equal(t, want, ok, "IndexKey(%q)", key)
	}
}
