/*
Package registry manages model definitions for a memorystore backend.

Each store owns its own ModelRegistry; there is no process-wide registry.
Definitions are consulted only for property type names, which decide whether
an order clause sorts numerically:

	reg := registry.New()
	reg.Define(storagemodels.ModelDefinition{
	    Name: "User",
	    Properties: map[string]storagemodels.Property{
	        "age": {Type: storagemodels.TypeNumber},
	    },
	})
	t, _ := reg.PropertyType("User", "age") // Number

Models that do not declare an id property get an implicit one (Number by
default, see WithIDType).

Definitions can also be loaded from YAML:

	models:
	  - name: User
	    properties:
	      name: String
	      age: Number
*/
package registry
