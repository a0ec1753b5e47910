/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memory

import (
	"slices"
	"strconv"

	"github.com/suparena/memorystore/query"
	"github.com/suparena/memorystore/storagemodels"
)

// table maps record keys to records and remembers the order keys were first
// inserted. Iteration yields integer keys ascending, then every other key in
// insertion order. Overwriting a key keeps its position; deleting and
// re-inserting moves it to the end of the insertion order.
type table struct {
	rows  map[string]storagemodels.Record
	order []string
}

func newTable() *table {
	return &table{rows: make(map[string]storagemodels.Record)}
}

func (t *table) get(key string) (storagemodels.Record, bool) {
	rec, ok := t.rows[key]
	return rec, ok
}

func (t *table) put(key string, rec storagemodels.Record) {
	if _, exists := t.rows[key]; !exists {
		t.order = append(t.order, key)
	}
	t.rows[key] = rec
}

func (t *table) delete(key string) {
	if _, exists := t.rows[key]; !exists {
		return
	}
	delete(t.rows, key)
	if i := slices.Index(t.order, key); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
	}
}

func (t *table) len() int {
	return len(t.rows)
}

// keys returns the keys in iteration order.
func (t *table) keys() []string {
	indexed := make([]uint64, 0, len(t.order))
	named := make([]string, 0, len(t.order))
	for _, key := range t.order {
		if n, ok := query.IndexKey(key); ok {
			indexed = append(indexed, n)
		} else {
			named = append(named, key)
		}
	}
	slices.Sort(indexed)

	keys := make([]string, 0, len(t.order))
	for _, n := range indexed {
		keys = append(keys, strconv.FormatUint(n, 10))
	}
	return append(keys, named...)
}

// records returns a fresh slice of the stored records in iteration order.
// The records themselves are shared, not copied.
func (t *table) records() []storagemodels.Record {
	keys := t.keys()
	out := make([]storagemodels.Record, 0, len(keys))
	for _, key := range keys {
		out = append(out, t.rows[key])
	}
	return out
}
