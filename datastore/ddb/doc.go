/*
Package ddb provides a DynamoDB implementation of the datastore.Adapter contract.

All records of a model share one partition of a single table:

	PK = "MODEL#User", SK = "ID#42"    one item per record
	PK = "SEQ#User",   SK = "SEQ"      the model's id counter

Generated ids come from an atomic ADD on the counter item. Where and order
clauses are evaluated in process with the query package after reading the
model's partition, so results match the memory backend exactly, apart from
numbers, which come back as float64.

	client, err := ddb.NewDynamoDBClient(ctx, accessKey, secretKey, "eu-west-1")
	store := ddb.New(client, "memorystore")
	store.Define(userDefinition)
	id, err := store.Create(ctx, "User", storagemodels.Record{"name": "Ada"})
*/
package ddb
