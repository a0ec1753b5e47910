/*
Package query evaluates where clauses and order clauses against in-memory records.

It is shared by every backend: the memory store runs it over its tables, the
DynamoDB backend runs it over the items a partition query returns.

Where clauses:
Every key must match (conjunction). A *regexp.Regexp expected value matches
string fields by pattern; any other expected value is compared with
LooseEqual, which treats numbers of different Go kinds, numeric strings and
numbers, and the various date representations as equivalent when they denote
the same value.

	match := query.Match(&storagemodels.Filter{
	    Where: map[string]any{"name": regexp.MustCompile("^A"), "age": "36"},
	})

Order clauses:
A clause is a field name optionally followed by ASC or DESC. Only the first
clause drives the comparison; a DESC on any clause reverses the whole result.
When every clause names a Number or Date property the values are compared
numerically, otherwise with a type-ranked value comparison.

	err := query.Sort(records, []string{"age DESC"}, reg.TypeResolver("User"))
*/
package query
