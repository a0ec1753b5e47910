/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// KeyString renders an id as the key it is stored under. Integral numbers of
// any Go kind render identically, so 1, int64(1), 1.0 and "1" share a key.
func KeyString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// IsBlankID reports whether id counts as absent: nil, the empty string,
// false, zero or NaN. Blank ids are replaced by generated ones on create.
func IsBlankID(id any) bool {
	switch v := id.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	}
	if n, ok := asNumber(id); ok {
		return n == 0 || math.IsNaN(n)
	}
	return false
}

// maxIndexKey bounds the keys that iterate in numeric order.
const maxIndexKey = 1<<32 - 2

// IndexKey reports whether key is a canonical non-negative integer ("0",
// "17", but not "017" or "-1"). Such keys iterate before all others, in
// numeric order.
func IndexKey(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 64)
	if err != nil || n > maxIndexKey {
		return 0, false
	}
	return n, true
}
