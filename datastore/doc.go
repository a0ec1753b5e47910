/*
Package datastore defines the storage contract between a mapping layer and a memorystore backend.

The main interface is Adapter, one entry point per record operation:

	type Adapter interface {
	    Define(def storagemodels.ModelDefinition) error
	    Create(ctx, model, data) (any, error)
	    UpdateOrCreate(ctx, model, data) (storagemodels.Record, error)
	    Save(ctx, model, data) (storagemodels.Record, error)
	    Exists(ctx, model, id) (bool, error)
	    Find(ctx, model, id) (storagemodels.Record, error)
	    Destroy(ctx, model, id) error
	    All(ctx, model, filter) ([]storagemodels.Record, error)
	    DestroyAll(ctx, model) error
	    Count(ctx, model, where) (int, error)
	    UpdateAttributes(ctx, model, id, data) (storagemodels.Record, error)
	}

Implementations:
  - memory: the in-process store, records live only in process memory
  - ddb: DynamoDB implementation of the same contract

Deferred delivery:
Results that a caller must not assume are ready when the call returns are
handed out as a Future:

	fut := datastore.AllAsync(ctx, store, "User", storagemodels.OrderBy("age DESC"))
	fut.OnComplete(func(users []storagemodels.Record, err error) {
	    ...
	})
	users, err := fut.Await(ctx)
*/
package datastore
