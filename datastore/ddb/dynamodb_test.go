/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/memorystore/errors"
	"github.com/suparena/memorystore/storagemodels"
)

// fakeClient keeps items in memory, keyed by PK and SK.
type fakeClient struct {
	mu      sync.Mutex
	items   map[string]map[string]types.AttributeValue
	failPut error
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: make(map[string]map[string]types.AttributeValue)}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func itemKey(key map[string]types.AttributeValue) string {
	return str(key[attrPK]) + "|" + str(key[attrSK])
}

func (f *fakeClient) GetItem(ctx context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &sdk.GetItemOutput{Item: f.items[itemKey(in.Key)]}, nil
}

func (f *fakeClient) PutItem(ctx context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[itemKey(in.Item)] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(ctx context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, itemKey(in.Key))
	return &sdk.DeleteItemOutput{}, nil
}

func (f *fakeClient) UpdateItem(ctx context.Context, in *sdk.UpdateItemInput, _ ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := itemKey(in.Key)
	item, ok := f.items[key]
	if !ok {
		item = map[string]types.AttributeValue{attrPK: in.Key[attrPK], attrSK: in.Key[attrSK]}
	}
	current := 0
	if n, ok := item[attrNext].(*types.AttributeValueMemberN); ok {
		current, _ = strconv.Atoi(n.Value)
	}
	inc, _ := strconv.Atoi(in.ExpressionAttributeValues[":one"].(*types.AttributeValueMemberN).Value)

	next := &types.AttributeValueMemberN{Value: strconv.Itoa(current + inc)}
	item[attrNext] = next
	f.items[key] = item
	return &sdk.UpdateItemOutput{Attributes: map[string]types.AttributeValue{attrNext: next}}, nil
}

func (f *fakeClient) Query(ctx context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pk := str(in.ExpressionAttributeValues[":pk"])
	var items []map[string]types.AttributeValue
	for _, item := range f.items {
		if str(item[attrPK]) == pk {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return str(items[i][attrSK]) < str(items[j][attrSK]) })
	return &sdk.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func newTestStore(t *testing.T) (*DataStore, *fakeClient) {
	t.Helper()
	client := newFakeClient()
	store := New(client, "test-table")
	require.NoError(t, store.Define(storagemodels.ModelDefinition{
		Name: "User",
		Properties: map[string]storagemodels.Property{
			"name": {Type: storagemodels.TypeString},
			"age":  {Type: storagemodels.TypeNumber},
		},
	}))
	return store, client
}

func TestDataStoreCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateFindDestroy", func(t *testing.T) {
		store, _ := newTestStore(t)

		id, err := store.Create(ctx, "User", storagemodels.Record{"name": "Ada", "age": 36})
		require.NoError(t, err)
		assert.Equal(t, 1, id)

		id2, err := store.Create(ctx, "User", storagemodels.Record{"name": "Bob"})
		require.NoError(t, err)
		assert.Equal(t, 2, id2)

		rec, err := store.Find(ctx, "User", 1)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "Ada", rec["name"])
		assert.EqualValues(t, 36, rec["age"])
		assert.NotContains(t, rec, attrPK)

		exists, err := store.Exists(ctx, "User", "1")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, store.Destroy(ctx, "User", 1))
		rec, err = store.Find(ctx, "User", 1)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("UpdateAttributes", func(t *testing.T) {
		store, _ := newTestStore(t)
		id, err := store.Create(ctx, "User", storagemodels.Record{"name": "Ada", "age": 36})
		require.NoError(t, err)

		rec, err := store.UpdateAttributes(ctx, "User", id, storagemodels.Record{"age": 37})
		require.NoError(t, err)
		assert.Equal(t, "Ada", rec["name"])
		assert.Equal(t, 37, rec["age"])

		found, err := store.Find(ctx, "User", id)
		require.NoError(t, err)
		assert.EqualValues(t, 37, found["age"])
	})

	t.Run("UpdateOrCreate", func(t *testing.T) {
		store, _ := newTestStore(t)
		rec, err := store.UpdateOrCreate(ctx, "User", storagemodels.Record{"name": "New"})
		require.NoError(t, err)
		assert.Equal(t, 1, rec["id"])

		rec, err = store.UpdateOrCreate(ctx, "User", storagemodels.Record{"id": 1, "name": "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", rec["name"])

		n, err := store.Count(ctx, "User", nil)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("BackendFailure", func(t *testing.T) {
		store, client := newTestStore(t)
		client.failPut = fmt.Errorf("throttled")

		_, err := store.Create(ctx, "User", storagemodels.Record{"name": "x"})
		assert.True(t, errors.IsBackendError(err))
	})

	t.Run("UnknownModel", func(t *testing.T) {
		store, _ := newTestStore(t)
		_, err := store.All(ctx, "Ghost", nil)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestDataStoreQueries(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, rec := range []storagemodels.Record{
		{"id": 10, "name": "carol", "age": 5},
		{"id": 2, "name": "alice", "age": 10},
		{"id": 1, "name": "bob", "age": 5},
	} {
		_, err := store.Create(ctx, "User", rec)
		require.NoError(t, err)
	}

	t.Run("NaturalOrder", func(t *testing.T) {
		recs, err := store.All(ctx, "User", nil)
		require.NoError(t, err)
		names := make([]any, len(recs))
		for i, r := range recs {
			names[i] = r["name"]
		}
		assert.Equal(t, []any{"bob", "alice", "carol"}, names)
	})

	t.Run("WhereAndOrder", func(t *testing.T) {
		recs, err := store.All(ctx, "User", &storagemodels.Filter{
			Where: map[string]any{"age": 5},
			Order: []string{"name DESC"},
		})
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "carol", recs[0]["name"])
		assert.Equal(t, "bob", recs[1]["name"])
	})

	t.Run("Count", func(t *testing.T) {
		n, err := store.Count(ctx, "User", map[string]any{"age": "5"})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("DestroyAll", func(t *testing.T) {
		require.NoError(t, store.DestroyAll(ctx, "User"))
		n, err := store.Count(ctx, "User", nil)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}
