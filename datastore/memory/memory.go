/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides the in-process implementation of datastore.Adapter
package memory

import (
	"context"
	"io"
	"sync"

	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suparena/memorystore/datastore"
	"github.com/suparena/memorystore/errors"
	"github.com/suparena/memorystore/query"
	"github.com/suparena/memorystore/registry"
	"github.com/suparena/memorystore/storagemodels"
)

// IDStrategy selects how ids are generated for records created without one.
type IDStrategy string

const (
	// IDSequence assigns 1, 2, 3, ... per model.
	IDSequence IDStrategy = "sequence"
	// IDUUID assigns random UUID strings.
	IDUUID IDStrategy = "uuid"
)

// Store is an in-process datastore.Adapter. It holds, per model, a record
// table, an id counter and the model definition. Nothing is persisted.
//
// Every operation runs to completion under the store lock. Records are
// stored and returned by reference: callers that mutate a record they read
// see the change on the next read, and must not do so concurrently with
// other operations on the same model.
type Store struct {
	mu       sync.RWMutex
	registry *registry.ModelRegistry
	tables   map[string]*table
	ids      map[string]int

	strategy IDStrategy
	sugar    *zap.SugaredLogger
	metrics  *metrics.Set
}

var _ datastore.Adapter = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger operations are reported to at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.sugar = logger.Sugar()
	}
}

// WithIDStrategy selects the id generator. The default is IDSequence.
func WithIDStrategy(strategy IDStrategy) Option {
	return func(s *Store) {
		s.strategy = strategy
	}
}

// WithMetricsSet makes the store register its counters in set.
func WithMetricsSet(set *metrics.Set) Option {
	return func(s *Store) {
		s.metrics = set
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		tables:   make(map[string]*table),
		ids:      make(map[string]int),
		strategy: IDSequence,
		sugar:    zap.NewNop().Sugar(),
		metrics:  metrics.NewSet(),
	}
	for _, opt := range opts {
		opt(s)
	}

	idType := storagemodels.TypeNumber
	if s.strategy == IDUUID {
		idType = storagemodels.TypeString
	}
	s.registry = registry.New(registry.WithIDType(idType))
	return s
}

// Define registers a model. Defining an existing model again discards its
// records and restarts its id counter at 1.
func (s *Store) Define(def storagemodels.ModelDefinition) error {
	if err := s.registry.Define(def); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[def.Name] = newTable()
	s.ids[def.Name] = 1

	s.sugar.Debugw("model defined", "model", def.Name, "properties", len(def.Properties))
	return nil
}

// Create stores data under its id, generating one if the id is blank, and
// writes the id back onto data. An existing record with the same id is
// silently replaced.
func (s *Store) Create(ctx context.Context, model string, data storagemodels.Record) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(model)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = storagemodels.Record{}
	}
	s.count(model, "create")
	return s.create(model, t, data), nil
}

func (s *Store) create(model string, t *table, data storagemodels.Record) any {
	id := data[storagemodels.IDField]
	if query.IsBlankID(id) {
		id = s.nextID(model)
	}
	data[storagemodels.IDField] = id
	t.put(query.KeyString(id), data)

	s.sugar.Debugw("record created", "model", model, "id", id)
	return id
}

func (s *Store) nextID(model string) any {
	if s.strategy == IDUUID {
		return uuid.NewString()
	}
	id := s.ids[model]
	s.ids[model] = id + 1
	return id
}

// UpdateOrCreate saves data if a record with its id exists and creates it
// otherwise. Both paths return data itself, carrying its final id.
func (s *Store) UpdateOrCreate(ctx context.Context, model string, data storagemodels.Record) (storagemodels.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(model)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = storagemodels.Record{}
	}
	s.count(model, "upsert")

	id := data.ID()
	if id != nil {
		if _, exists := t.get(query.KeyString(id)); exists {
			t.put(query.KeyString(id), data)
			s.sugar.Debugw("record updated", "model", model, "id", id)
			return data, nil
		}
	}

	data[storagemodels.IDField] = s.create(model, t, data)
	return data, nil
}

// Save stores data under its id, replacing any existing record.
func (s *Store) Save(ctx context.Context, model string, data storagemodels.Record) (storagemodels.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(model)
	if err != nil {
		return nil, err
	}
	s.count(model, "save")
	return s.save(model, t, data)
}

func (s *Store) save(model string, t *table, data storagemodels.Record) (storagemodels.Record, error) {
	id := data.ID()
	if id == nil {
		return nil, errors.NewValidationError(storagemodels.IDField, "cannot save a record without an id")
	}
	t.put(query.KeyString(id), data)

	s.sugar.Debugw("record saved", "model", model, "id", id)
	return data, nil
}

// Exists reports whether a record is stored under id.
func (s *Store) Exists(ctx context.Context, model string, id any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(model)
	if err != nil {
		return false, err
	}
	s.count(model, "exists")
	_, ok := t.get(query.KeyString(id))
	return ok, nil
}

// Find returns the record stored under id, or nil if there is none.
func (s *Store) Find(ctx context.Context, model string, id any) (storagemodels.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(model)
	if err != nil {
		return nil, err
	}
	s.count(model, "find")
	rec, _ := t.get(query.KeyString(id))
	return rec, nil
}

// Destroy removes the record stored under id. Removing a missing record is a no-op.
func (s *Store) Destroy(ctx context.Context, model string, id any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(model)
	if err != nil {
		return err
	}
	s.count(model, "destroy")
	t.delete(query.KeyString(id))

	s.sugar.Debugw("record destroyed", "model", model, "id", id)
	return nil
}

// All returns the model's records in table order, narrowed by the filter's
// where clause and then sorted by its order clause.
func (s *Store) All(ctx context.Context, model string, filter *storagemodels.Filter) ([]storagemodels.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(model)
	if err != nil {
		return nil, err
	}
	s.count(model, "all")

	records := query.Filter(t.records(), filter)
	if filter != nil && len(filter.Order) > 0 {
		if err := query.Sort(records, filter.Order, s.registry.TypeResolver(model)); err != nil {
			return nil, err
		}
	}

	s.sugar.Debugw("records listed", "model", model, "matched", len(records), "total", t.len())
	return records, nil
}

// DestroyAll removes every record of the model. The id counter keeps counting.
func (s *Store) DestroyAll(ctx context.Context, model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.table(model); err != nil {
		return err
	}
	s.count(model, "destroy_all")
	s.tables[model] = newTable()

	s.sugar.Debugw("records cleared", "model", model)
	return nil
}

// Count returns how many records loosely match every entry of where.
func (s *Store) Count(ctx context.Context, model string, where map[string]any) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(model)
	if err != nil {
		return 0, err
	}
	s.count(model, "count")
	if where == nil {
		return t.len(), nil
	}
	return query.Count(t.records(), where), nil
}

// UpdateAttributes sets data's id to id, copies data's fields onto the stored
// record (or uses data itself when nothing is stored under id) and saves the
// result. Fields only present on the stored record survive.
func (s *Store) UpdateAttributes(ctx context.Context, model string, id any, data storagemodels.Record) (storagemodels.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(model)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = storagemodels.Record{}
	}
	s.count(model, "update_attributes")

	data[storagemodels.IDField] = id
	base, _ := t.get(query.KeyString(id))
	return s.save(model, t, merge(base, data))
}

// merge copies update's fields onto base in place.
func merge(base, update storagemodels.Record) storagemodels.Record {
	if base == nil {
		return update
	}
	for k, v := range update {
		base[k] = v
	}
	return base
}

// Helper methods

// Len returns the number of records stored for model.
func (s *Store) Len(model string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tables[model]; ok {
		return t.len()
	}
	return 0
}

// Models returns the defined model names in sorted order.
func (s *Store) Models() []string {
	return s.registry.Names()
}

// WritePrometheus writes the store's operation counters in Prometheus text format.
func (s *Store) WritePrometheus(w io.Writer) {
	s.metrics.WritePrometheus(w)
}

// table returns the table of a defined model. Callers hold s.mu.
func (s *Store) table(model string) (*table, error) {
	t, ok := s.tables[model]
	if !ok {
		return nil, errors.NewUnknownModelError(model)
	}
	return t, nil
}
