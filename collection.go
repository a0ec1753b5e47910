/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memorystore

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/suparena/memorystore/datastore"
	"github.com/suparena/memorystore/errors"
	"github.com/suparena/memorystore/storagemodels"
)

// Collection provides typed access to one model. Entities are converted to
// and from records using their json tags; nested struct fields are stored as
// nested records.
type Collection[T any] struct {
	adapter datastore.Adapter
	model   string
}

// NewCollection returns a Collection for a model defined on s.
func NewCollection[T any](s *Schema, model string) (*Collection[T], error) {
	if _, ok := s.Model(model); !ok {
		return nil, errors.NewUnknownModelError(model)
	}
	return &Collection[T]{adapter: s.adapter, model: model}, nil
}

// Model returns the model name the collection reads and writes.
func (c *Collection[T]) Model() string {
	return c.model
}

func decode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func toRecord[T any](entity *T) (storagemodels.Record, error) {
	rec := storagemodels.Record{}
	if err := decode(entity, &rec); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", *entity, err)
	}
	return rec, nil
}

func fromRecord[T any](rec storagemodels.Record) (*T, error) {
	if rec == nil {
		return nil, nil
	}
	out := new(T)
	if err := decode(map[string]any(rec), out); err != nil {
		return nil, fmt.Errorf("failed to decode %T: %w", *out, err)
	}
	return out, nil
}

// Create stores entity and copies the assigned id back into it.
func (c *Collection[T]) Create(ctx context.Context, entity *T) (any, error) {
	rec, err := toRecord(entity)
	if err != nil {
		return nil, err
	}
	id, err := c.adapter.Create(ctx, c.model, rec)
	if err != nil {
		return nil, err
	}
	if err := decode(map[string]any{storagemodels.IDField: id}, entity); err != nil {
		return nil, fmt.Errorf("failed to set id on %T: %w", *entity, err)
	}
	return id, nil
}

// Save stores entity under its id.
func (c *Collection[T]) Save(ctx context.Context, entity *T) error {
	rec, err := toRecord(entity)
	if err != nil {
		return err
	}
	_, err = c.adapter.Save(ctx, c.model, rec)
	return err
}

// Find returns the entity stored under id, or nil if there is none.
func (c *Collection[T]) Find(ctx context.Context, id any) (*T, error) {
	rec, err := c.adapter.Find(ctx, c.model, id)
	if err != nil {
		return nil, err
	}
	return fromRecord[T](rec)
}

func (c *Collection[T]) Exists(ctx context.Context, id any) (bool, error) {
	return c.adapter.Exists(ctx, c.model, id)
}

func (c *Collection[T]) Destroy(ctx context.Context, id any) error {
	return c.adapter.Destroy(ctx, c.model, id)
}

// All returns the entities selected by filter.
func (c *Collection[T]) All(ctx context.Context, filter *storagemodels.Filter) ([]T, error) {
	recs, err := c.adapter.All(ctx, c.model, filter)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		entity, err := fromRecord[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *entity)
	}
	return out, nil
}

func (c *Collection[T]) Count(ctx context.Context, where map[string]any) (int, error) {
	return c.adapter.Count(ctx, c.model, where)
}

// UpdateAttributes merges fields onto the entity stored under id.
func (c *Collection[T]) UpdateAttributes(ctx context.Context, id any, fields map[string]any) (*T, error) {
	rec, err := c.adapter.UpdateAttributes(ctx, c.model, id, storagemodels.Record(fields))
	if err != nil {
		return nil, err
	}
	return fromRecord[T](rec)
}
