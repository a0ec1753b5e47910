/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/suparena/memorystore/storagemodels"
)

// schemaFile is the on-disk layout of a model schema:
//
//	models:
//	  - name: User
//	    properties:
//	      name: String
//	      age: Number
type schemaFile struct {
	Models []struct {
		Name       string            `yaml:"name"`
		Properties map[string]string `yaml:"properties"`
	} `yaml:"models"`
}

// LoadDefinitions decodes model definitions from YAML.
func LoadDefinitions(r io.Reader) ([]storagemodels.ModelDefinition, error) {
	var file schemaFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}

	defs := make([]storagemodels.ModelDefinition, 0, len(file.Models))
	for _, m := range file.Models {
		props := make(map[string]storagemodels.Property, len(m.Properties))
		for field, typeName := range m.Properties {
			props[field] = storagemodels.Property{Type: storagemodels.PropertyType(typeName)}
		}
		defs = append(defs, storagemodels.ModelDefinition{Name: m.Name, Properties: props})
	}
	return defs, nil
}

// LoadDefinitionsFile reads model definitions from a YAML file.
func LoadDefinitionsFile(path string) ([]storagemodels.ModelDefinition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}
	defer f.Close()
	return LoadDefinitions(f)
}
