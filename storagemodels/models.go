/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// IDField is the name of the identity field every stored record carries.
const IDField = "id"

// Record is an open-ended mapping from field name to value.
// Records are shared by reference: mutating a record returned by a read is
// visible to subsequent reads of the same record.
type Record map[string]any

// ID returns the record's identity value, or nil if it has none.
func (r Record) ID() any {
	if r == nil {
		return nil
	}
	return r[IDField]
}

// PropertyType is the declared type name of a model property.
type PropertyType string

const (
	TypeNumber  PropertyType = "Number"
	TypeDate    PropertyType = "Date"
	TypeString  PropertyType = "String"
	TypeBoolean PropertyType = "Boolean"
	TypeText    PropertyType = "Text"
	TypeJSON    PropertyType = "JSON"
)

// IsNumeric reports whether values of this type sort numerically.
func (t PropertyType) IsNumeric() bool {
	return t == TypeNumber || t == TypeDate
}

// Property describes one declared field of a model.
type Property struct {
	Type PropertyType `yaml:"type" json:"type"`
}

// ModelDefinition is the descriptor the mapping layer hands to Define.
type ModelDefinition struct {
	// Name is the model name records are keyed under.
	Name string `yaml:"name" json:"name"`
	// Properties maps field names to their declared types.
	Properties map[string]Property `yaml:"properties" json:"properties"`
}

// Filter selects and orders records returned by All.
type Filter struct {
	// Where maps field names to expected values. A *regexp.Regexp value matches
	// string fields by pattern; everything else uses loose equality.
	Where map[string]any
	// Predicate, when set, is used instead of Where.
	Predicate func(Record) bool
	// Order holds sort clauses such as "name" or "age DESC".
	Order []string
}

// OrderBy is a convenience constructor for a Filter that only sorts.
func OrderBy(clauses ...string) *Filter {
	return &Filter{Order: clauses}
}

// HasWhere reports whether the filter restricts the result set.
func (f *Filter) HasWhere() bool {
	return f != nil && (f.Predicate != nil || f.Where != nil)
}
