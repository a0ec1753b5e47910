/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/memorystore/datastore"
	"github.com/suparena/memorystore/errors"
	"github.com/suparena/memorystore/query"
	"github.com/suparena/memorystore/registry"
	"github.com/suparena/memorystore/storagemodels"
)

// Item layout: every record of a model lives in one partition.
//
//	PK = "MODEL#<model>", SK = "ID#<key>"       record fields as attributes
//	PK = "SEQ#<model>",   SK = "SEQ"             Next = last generated id
const (
	attrPK   = "PK"
	attrSK   = "SK"
	attrNext = "Next"

	recordPrefix = "ID#"
)

// Client is the subset of the DynamoDB API the datastore uses.
type Client interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// DataStore implements datastore.Adapter on a single DynamoDB table.
// Where and order clauses are evaluated in process over the model's partition.
type DataStore struct {
	client    Client
	tableName string
	registry  *registry.ModelRegistry
	sugar     *zap.SugaredLogger
}

var _ datastore.Adapter = (*DataStore)(nil)

// Option configures a DataStore.
type Option func(*DataStore)

// WithLogger sets the logger operations are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(d *DataStore) {
		d.sugar = logger.Sugar()
	}
}

// NewDynamoDBClient initializes a DynamoDB client using static AWS credentials.
// Empty credentials fall back to the default credential chain.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(awsRegion)}
	if awsAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// New constructs a DataStore on tableName.
func New(client Client, tableName string, opts ...Option) *DataStore {
	d := &DataStore{
		client:    client,
		tableName: tableName,
		registry:  registry.New(),
		sugar:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func partitionKey(model string) string {
	return "MODEL#" + model
}

func recordKey(model string, id any) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: partitionKey(model)},
		attrSK: &types.AttributeValueMemberS{Value: recordPrefix + query.KeyString(id)},
	}
}

func counterKey(model string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: "SEQ#" + model},
		attrSK: &types.AttributeValueMemberS{Value: "SEQ"},
	}
}

// Define registers the model. Stored records are durable and are not
// discarded, but the id counter restarts at 1.
func (d *DataStore) Define(def storagemodels.ModelDefinition) error {
	if err := d.registry.Define(def); err != nil {
		return err
	}
	_, err := d.client.DeleteItem(context.Background(), &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       counterKey(def.Name),
	})
	if err != nil {
		return errors.NewBackendError("DeleteItem", err)
	}
	return nil
}

func (d *DataStore) checkModel(model string) error {
	if _, ok := d.registry.Lookup(model); !ok {
		return errors.NewUnknownModelError(model)
	}
	return nil
}

// nextID atomically increments the model's counter and returns the new value.
func (d *DataStore) nextID(ctx context.Context, model string) (int, error) {
	out, err := d.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:                 &d.tableName,
		Key:                       counterKey(model),
		UpdateExpression:          aws.String("ADD #next :one"),
		ExpressionAttributeNames:  map[string]string{"#next": attrNext},
		ExpressionAttributeValues: map[string]types.AttributeValue{":one": &types.AttributeValueMemberN{Value: "1"}},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, errors.NewBackendError("UpdateItem", err)
	}

	var next int
	if err := attributevalue.Unmarshal(out.Attributes[attrNext], &next); err != nil {
		return 0, fmt.Errorf("failed to unmarshal id counter: %w", err)
	}
	return next, nil
}

func (d *DataStore) put(ctx context.Context, model string, data storagemodels.Record) error {
	av, err := attributevalue.MarshalMap(map[string]any(data))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	for k, v := range recordKey(model, data.ID()) {
		av[k] = v
	}

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      av,
	})
	if err != nil {
		return errors.NewBackendError("PutItem", err)
	}
	return nil
}

func (d *DataStore) get(ctx context.Context, model string, id any) (storagemodels.Record, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:      &d.tableName,
		Key:            recordKey(model, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.NewBackendError("GetItem", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return decodeRecord(out.Item)
}

func decodeRecord(item map[string]types.AttributeValue) (storagemodels.Record, error) {
	rec := storagemodels.Record{}
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	delete(rec, attrPK)
	delete(rec, attrSK)
	return rec, nil
}

// Create stores data, generating an id from the model counter if data's id is blank.
func (d *DataStore) Create(ctx context.Context, model string, data storagemodels.Record) (any, error) {
	if err := d.checkModel(model); err != nil {
		return nil, err
	}
	if data == nil {
		data = storagemodels.Record{}
	}

	id := data.ID()
	if query.IsBlankID(id) {
		next, err := d.nextID(ctx, model)
		if err != nil {
			return nil, err
		}
		id = next
	}
	data[storagemodels.IDField] = id

	if err := d.put(ctx, model, data); err != nil {
		return nil, err
	}
	d.sugar.Debugw("record created", "model", model, "id", id)
	return id, nil
}

// UpdateOrCreate saves data if its id exists, otherwise creates it.
func (d *DataStore) UpdateOrCreate(ctx context.Context, model string, data storagemodels.Record) (storagemodels.Record, error) {
	if data == nil {
		data = storagemodels.Record{}
	}
	if id := data.ID(); id != nil {
		exists, err := d.Exists(ctx, model, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return d.Save(ctx, model, data)
		}
	}

	id, err := d.Create(ctx, model, data)
	if err != nil {
		return nil, err
	}
	data[storagemodels.IDField] = id
	return data, nil
}

// Save stores data under its id, replacing any existing item.
func (d *DataStore) Save(ctx context.Context, model string, data storagemodels.Record) (storagemodels.Record, error) {
	if err := d.checkModel(model); err != nil {
		return nil, err
	}
	if data.ID() == nil {
		return nil, errors.NewValidationError(storagemodels.IDField, "cannot save a record without an id")
	}
	if err := d.put(ctx, model, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *DataStore) Exists(ctx context.Context, model string, id any) (bool, error) {
	if err := d.checkModel(model); err != nil {
		return false, err
	}
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:            &d.tableName,
		Key:                  recordKey(model, id),
		ProjectionExpression: aws.String(attrPK),
		ConsistentRead:       aws.Bool(true),
	})
	if err != nil {
		return false, errors.NewBackendError("GetItem", err)
	}
	return out.Item != nil, nil
}

// Find returns the record stored under id, or nil if there is none.
func (d *DataStore) Find(ctx context.Context, model string, id any) (storagemodels.Record, error) {
	if err := d.checkModel(model); err != nil {
		return nil, err
	}
	return d.get(ctx, model, id)
}

// Destroy deletes the item for id. Deleting a missing item is not an error.
func (d *DataStore) Destroy(ctx context.Context, model string, id any) error {
	if err := d.checkModel(model); err != nil {
		return err
	}
	_, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       recordKey(model, id),
	})
	if err != nil {
		return errors.NewBackendError("DeleteItem", err)
	}
	return nil
}

// load reads the model's partition and returns its records in natural key order.
func (d *DataStore) load(ctx context.Context, model string) ([]storagemodels.Record, error) {
	input := &sdk.QueryInput{
		TableName:              &d.tableName,
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: partitionKey(model)},
		},
		ConsistentRead: aws.Bool(true),
	}

	type keyed struct {
		key string
		rec storagemodels.Record
	}
	var rows []keyed

	paginator := sdk.NewQueryPaginator(d.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewBackendError("Query", err)
		}
		for _, item := range out.Items {
			var sk string
			if err := attributevalue.Unmarshal(item[attrSK], &sk); err != nil {
				return nil, fmt.Errorf("failed to unmarshal sort key: %w", err)
			}
			rec, err := decodeRecord(item)
			if err != nil {
				return nil, err
			}
			rows = append(rows, keyed{key: strings.TrimPrefix(sk, recordPrefix), rec: rec})
		}
	}

	// Items arrive in sort key order; pull integer keys to the front numerically.
	slices.SortStableFunc(rows, func(a, b keyed) int {
		an, aok := query.IndexKey(a.key)
		bn, bok := query.IndexKey(b.key)
		switch {
		case aok && bok:
			return compareUint(an, bn)
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})

	records := make([]storagemodels.Record, len(rows))
	for i, row := range rows {
		records[i] = row.rec
	}
	return records, nil
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// All loads the model's partition and applies filter in process.
func (d *DataStore) All(ctx context.Context, model string, filter *storagemodels.Filter) ([]storagemodels.Record, error) {
	if err := d.checkModel(model); err != nil {
		return nil, err
	}
	records, err := d.load(ctx, model)
	if err != nil {
		return nil, err
	}

	records = query.Filter(records, filter)
	if filter != nil && len(filter.Order) > 0 {
		if err := query.Sort(records, filter.Order, d.registry.TypeResolver(model)); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// DestroyAll deletes every record item of the model.
func (d *DataStore) DestroyAll(ctx context.Context, model string) error {
	if err := d.checkModel(model); err != nil {
		return err
	}
	records, err := d.load(ctx, model)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := d.Destroy(ctx, model, rec.ID()); err != nil {
			return err
		}
	}
	d.sugar.Debugw("records cleared", "model", model, "deleted", len(records))
	return nil
}

func (d *DataStore) Count(ctx context.Context, model string, where map[string]any) (int, error) {
	if err := d.checkModel(model); err != nil {
		return 0, err
	}
	records, err := d.load(ctx, model)
	if err != nil {
		return 0, err
	}
	return query.Count(records, where), nil
}

// UpdateAttributes merges data onto the stored item for id and writes it back.
func (d *DataStore) UpdateAttributes(ctx context.Context, model string, id any, data storagemodels.Record) (storagemodels.Record, error) {
	if err := d.checkModel(model); err != nil {
		return nil, err
	}
	if data == nil {
		data = storagemodels.Record{}
	}
	data[storagemodels.IDField] = id

	base, err := d.get(ctx, model, id)
	if err != nil {
		return nil, err
	}
	if base != nil {
		for k, v := range data {
			base[k] = v
		}
		data = base
	}
	return d.Save(ctx, model, data)
}
