/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memorystore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/memorystore/datastore"
	"github.com/suparena/memorystore/datastore/memory"
	"github.com/suparena/memorystore/storagemodels"
)

// Schema is the mapping layer's handle on a storage adapter: it owns the
// adapter and the set of models defined through it.
type Schema struct {
	adapter datastore.Adapter

	mu     sync.RWMutex
	models map[string]storagemodels.ModelDefinition
}

// Initialize attaches adapter to a new Schema and defines defs on it. A nil
// adapter gets a fresh in-memory store. The schema is handed out through
// the returned future, which completes after Initialize has returned.
func Initialize(ctx context.Context, adapter datastore.Adapter, defs ...storagemodels.ModelDefinition) *datastore.Future[*Schema] {
	if adapter == nil {
		adapter = memory.New()
	}
	s := &Schema{
		adapter: adapter,
		models:  make(map[string]storagemodels.ModelDefinition),
	}

	var err error
	for _, def := range defs {
		if err = s.Define(def); err != nil {
			break
		}
	}
	if err != nil {
		return datastore.Deliver[*Schema](nil, err)
	}
	return datastore.Deliver(s, ctx.Err())
}

// Define registers def with the adapter.
func (s *Schema) Define(def storagemodels.ModelDefinition) error {
	if err := s.adapter.Define(def); err != nil {
		return fmt.Errorf("failed to define model %q: %w", def.Name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[def.Name] = def
	return nil
}

// Adapter returns the storage adapter backing the schema.
func (s *Schema) Adapter() datastore.Adapter {
	return s.adapter
}

// Model returns the definition registered under name.
func (s *Schema) Model(name string) (storagemodels.ModelDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.models[name]
	return def, ok
}

// Models lists the defined model names in sorted order.
func (s *Schema) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
