/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package memorystore

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/suparena/memorystore/datastore"
	"github.com/suparena/memorystore/storagemodels"
)

// SeedFile is the YAML layout accepted by Seed:
//
//	records:
//	  User:
//	    - name: Ada
//	      age: 36
type SeedFile struct {
	Records map[string][]map[string]any `yaml:"records"`
}

// Seed creates the records listed in r. Models are seeded in sorted order and
// records in file order, so sequence ids are assigned deterministically.
// It returns the number of records created.
func Seed(ctx context.Context, adapter datastore.Adapter, r io.Reader) (int, error) {
	var file SeedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to decode seed file: %w", err)
	}

	created := 0
	for _, model := range sortedKeys(file.Records) {
		for _, fields := range file.Records[model] {
			if err := ctx.Err(); err != nil {
				return created, err
			}
			if _, err := adapter.Create(ctx, model, storagemodels.Record(fields)); err != nil {
				return created, fmt.Errorf("failed to seed %s: %w", model, err)
			}
			created++
		}
	}
	return created, nil
}

// SeedPath is Seed reading from the named file.
func SeedPath(ctx context.Context, adapter datastore.Adapter, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Seed(ctx, adapter, f)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
