/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"sort"
	"sync"

	"github.com/suparena/memorystore/errors"
	"github.com/suparena/memorystore/storagemodels"
)

// ModelRegistry holds the definitions of every model known to one store.
type ModelRegistry struct {
	mu     sync.RWMutex
	models map[string]storagemodels.ModelDefinition
	idType storagemodels.PropertyType
}

// Option configures a ModelRegistry.
type Option func(*ModelRegistry)

// WithIDType sets the type of the implicit id property added to models that
// do not declare one. The default is Number.
func WithIDType(t storagemodels.PropertyType) Option {
	return func(r *ModelRegistry) {
		r.idType = t
	}
}

// New creates an empty registry.
func New(opts ...Option) *ModelRegistry {
	r := &ModelRegistry{
		models: make(map[string]storagemodels.ModelDefinition),
		idType: storagemodels.TypeNumber,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Define registers def under its name, replacing any previous definition.
// The stored definition is a copy; later changes to def are not observed.
func (r *ModelRegistry) Define(def storagemodels.ModelDefinition) error {
	if def.Name == "" {
		return errors.NewValidationError("name", "model name is required")
	}

	props := make(map[string]storagemodels.Property, len(def.Properties)+1)
	for name, p := range def.Properties {
		props[name] = p
	}
	if _, ok := props[storagemodels.IDField]; !ok {
		props[storagemodels.IDField] = storagemodels.Property{Type: r.idType}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[def.Name] = storagemodels.ModelDefinition{Name: def.Name, Properties: props}
	return nil
}

// Lookup returns the definition registered under name.
func (r *ModelRegistry) Lookup(name string) (storagemodels.ModelDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.models[name]
	return def, ok
}

// PropertyType returns the declared type of field on model.
func (r *ModelRegistry) PropertyType(model, field string) (storagemodels.PropertyType, error) {
	def, ok := r.Lookup(model)
	if !ok {
		return "", errors.NewUnknownModelError(model)
	}
	p, ok := def.Properties[field]
	if !ok {
		return "", errors.NewValidationError(field, "property is not declared on model "+model)
	}
	return p.Type, nil
}

// TypeResolver returns a lookup bound to one model, suitable for query.Sort.
func (r *ModelRegistry) TypeResolver(model string) func(field string) (storagemodels.PropertyType, error) {
	return func(field string) (storagemodels.PropertyType, error) {
		return r.PropertyType(model, field)
	}
}

// Names returns the registered model names in sorted order.
func (r *ModelRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
