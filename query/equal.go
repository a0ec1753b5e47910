/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// LooseEqual compares an expected where value with a stored value.
//
// The rule, in order:
//   - nil equals only nil (a missing field reads as nil)
//   - numbers of any Go kind compare by value
//   - a number and a numeric string compare by the parsed value
//   - time.Time, strfmt.DateTime and strfmt.Date compare by instant
//   - anything else must be deeply equal
//
// No other coercion happens: true does not equal 1 and "" does not equal 0.
func LooseEqual(expected, actual any) bool {
	expNil, actNil := isNil(expected), isNil(actual)
	if expNil || actNil {
		return expNil && actNil
	}

	en, eNum := asNumber(expected)
	an, aNum := asNumber(actual)
	switch {
	case eNum && aNum:
		return en == an
	case eNum:
		if s, ok := actual.(string); ok {
			f, ok := parseNumeric(s)
			return ok && f == en
		}
		return false
	case aNum:
		if s, ok := expected.(string); ok {
			f, ok := parseNumeric(s)
			return ok && f == an
		}
		return false
	}

	et, eTime := asInstant(expected)
	at, aTime := asInstant(actual)
	if eTime && aTime {
		return et.Equal(at)
	}

	return reflect.DeepEqual(expected, actual)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// asNumber converts Go numeric kinds and json.Number. Strings are not numbers here.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// asInstant converts the supported date representations.
func asInstant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	case strfmt.DateTime:
		return time.Time(t), true
	case *strfmt.DateTime:
		if t != nil {
			return time.Time(*t), true
		}
	case strfmt.Date:
		return time.Time(t), true
	case *strfmt.Date:
		if t != nil {
			return time.Time(*t), true
		}
	}
	return time.Time{}, false
}
