/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/memorystore/storagemodels"
)

// Adapter is the storage contract a mapping layer drives: one entry point per
// record operation, keyed by model name. A missing record is reported as a
// nil result, never as an error.
type Adapter interface {
	// Define registers a model and resets its records and id counter.
	Define(def storagemodels.ModelDefinition) error

	// Create stores data and returns its id. A blank id is replaced by the next generated one.
	Create(ctx context.Context, model string, data storagemodels.Record) (any, error)

	// UpdateOrCreate saves data if its id exists, otherwise creates it. Either way the full record is returned.
	UpdateOrCreate(ctx context.Context, model string, data storagemodels.Record) (storagemodels.Record, error)

	// Save stores data under its id, replacing any existing record.
	Save(ctx context.Context, model string, data storagemodels.Record) (storagemodels.Record, error)

	Exists(ctx context.Context, model string, id any) (bool, error)

	Find(ctx context.Context, model string, id any) (storagemodels.Record, error)

	Destroy(ctx context.Context, model string, id any) error

	// All returns the records selected and ordered by filter. A nil filter returns everything.
	All(ctx context.Context, model string, filter *storagemodels.Filter) ([]storagemodels.Record, error)

	DestroyAll(ctx context.Context, model string) error

	// Count returns how many records loosely match where; nil counts all records.
	Count(ctx context.Context, model string, where map[string]any) (int, error)

	// UpdateAttributes merges data onto the record stored under id and saves the result.
	UpdateAttributes(ctx context.Context, model string, id any, data storagemodels.Record) (storagemodels.Record, error)
}
