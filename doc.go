/*
Package memorystore provides an in-process storage adapter for object-relational mapping layers.

It implements the full data-access contract (create, read, update, delete,
existence checks, filtered and sorted enumeration, counting) without a real
database, so an application can exercise its data layer in tests or
prototypes. Records live in process memory and vanish on exit.

Key Features:
  - Per-model record tables with auto-increment (or UUID) ids
  - Where clauses with loose equality and regexp matching on strings
  - Order clauses with numeric or value ordering chosen from property types
  - Deferred result delivery through datastore.Future
  - Typed access through Collection[T]
  - A DynamoDB backend implementing the same contract

Basic Usage:

	schema, err := memorystore.Initialize(ctx, nil, storagemodels.ModelDefinition{
	    Name: "User",
	    Properties: map[string]storagemodels.Property{
	        "name": {Type: storagemodels.TypeString},
	        "age":  {Type: storagemodels.TypeNumber},
	    },
	}).Await(ctx)

	store := schema.Adapter()
	id, _ := store.Create(ctx, "User", storagemodels.Record{"name": "Ada", "age": 36})
	users, _ := store.All(ctx, "User", &storagemodels.Filter{
	    Where: map[string]any{"name": regexp.MustCompile("^A")},
	    Order: []string{"age DESC"},
	})

	type User struct {
	    ID   int    `json:"id"`
	    Name string `json:"name"`
	    Age  int    `json:"age"`
	}
	users, _ := memorystore.NewCollection[User](schema, "User")
*/
package memorystore
