/*
Package storagemodels defines the data structures shared by every memorystore backend.

Key Types:

Record:
One stored instance of a model, keyed by its "id" field:

	rec := storagemodels.Record{"name": "Ada", "age": 36}

ModelDefinition:
The descriptor a mapping layer registers once per model. Only the property
type names are consulted, to decide whether a sort is numeric:

	def := storagemodels.ModelDefinition{
	    Name: "User",
	    Properties: map[string]storagemodels.Property{
	        "name": {Type: storagemodels.TypeString},
	        "age":  {Type: storagemodels.TypeNumber},
	    },
	}

Filter:
Where/Predicate selection plus an order clause:

	filter := &storagemodels.Filter{
	    Where: map[string]any{"name": regexp.MustCompile("^A")},
	    Order: []string{"age DESC"},
	}
*/
package storagemodels
