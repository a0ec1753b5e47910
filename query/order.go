/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"cmp"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/memorystore/errors"
	"github.com/suparena/memorystore/storagemodels"
)

var directionSuffix = regexp.MustCompile(`(?i)\s+(ASC|DESC)$`)

// Order is a parsed order clause list.
type Order struct {
	// Keys are the field names with their direction markers removed.
	Keys []string
	// Reverse is set when any clause asked for DESC. It applies to the whole result.
	Reverse bool
}

// TypeResolver returns the declared type of a property.
type TypeResolver func(field string) (storagemodels.PropertyType, error)

// ParseOrder strips ASC/DESC markers from clauses.
func ParseOrder(clauses []string) (Order, error) {
	order := Order{Keys: make([]string, 0, len(clauses))}
	for _, clause := range clauses {
		key := clause
		if m := directionSuffix.FindStringSubmatch(clause); m != nil {
			key = clause[:len(clause)-len(m[0])]
			if strings.EqualFold(m[1], "DESC") {
				order.Reverse = true
			}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return Order{}, errors.NewValidationError("order", fmt.Sprintf("empty field in clause %q", clause))
		}
		order.Keys = append(order.Keys, key)
	}
	return order, nil
}

// Sort orders records in place according to clauses.
//
// Every key must be a declared property. If all keys are Number or Date
// typed, values compare numerically; otherwise they compare by CompareValues.
// Only the first key is compared. Records the comparator considers equal keep
// their relative order, and a DESC marker reverses the sorted slice.
func Sort(records []storagemodels.Record, clauses []string, typeOf TypeResolver) error {
	if len(clauses) == 0 {
		return nil
	}
	order, err := ParseOrder(clauses)
	if err != nil {
		return err
	}

	allNumeric := true
	for _, key := range order.Keys {
		typ, err := typeOf(key)
		if err != nil {
			return fmt.Errorf("cannot order by %q: %w", key, err)
		}
		if !typ.IsNumeric() {
			allNumeric = false
		}
	}

	first := order.Keys[0]
	if allNumeric {
		slices.SortStableFunc(records, func(a, b storagemodels.Record) int {
			return compareNumerically(a[first], b[first])
		})
	} else {
		slices.SortStableFunc(records, func(a, b storagemodels.Record) int {
			return CompareValues(a[first], b[first])
		})
	}

	if order.Reverse {
		slices.Reverse(records)
	}
	return nil
}

// compareNumerically orders by numeric value; values without one sort last.
func compareNumerically(a, b any) int {
	an, aok := sortNumber(a)
	bn, bok := sortNumber(b)
	switch {
	case aok && bok:
		return cmp.Compare(an, bn)
	case aok:
		return -1
	case bok:
		return 1
	}
	return 0
}

// sortNumber extends asNumber with dates (milliseconds since the epoch),
// booleans, numeric strings and RFC 3339 strings.
func sortNumber(v any) (float64, bool) {
	if n, ok := asNumber(v); ok {
		return n, !math.IsNaN(n)
	}
	if t, ok := asInstant(v); ok {
		return epochMillis(t), true
	}
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		if n, ok := parseNumeric(x); ok {
			return n, !math.IsNaN(n)
		}
		if dt, err := strfmt.ParseDateTime(x); err == nil {
			return epochMillis(time.Time(dt)), true
		}
	}
	return 0, false
}

func epochMillis(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Millisecond)
}

// value ranks for CompareValues; lower ranks sort first.
const (
	rankBool = iota
	rankNumber
	rankTime
	rankString
	rankOther
	rankNil
)

func rankOf(v any) int {
	if isNil(v) {
		return rankNil
	}
	if _, ok := asNumber(v); ok {
		return rankNumber
	}
	if _, ok := asInstant(v); ok {
		return rankTime
	}
	switch v.(type) {
	case bool:
		return rankBool
	case string:
		return rankString
	}
	return rankOther
}

// CompareValues is a total order over heterogeneous values: booleans, then
// numbers, then dates, then strings, then anything else by its printed form,
// with missing values last.
func CompareValues(a, b any) int {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		}
		return 1
	case rankNumber:
		an, _ := asNumber(a)
		bn, _ := asNumber(b)
		return cmp.Compare(an, bn)
	case rankTime:
		at, _ := asInstant(a)
		bt, _ := asInstant(b)
		return at.Compare(bt)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankOther:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	return 0
}
