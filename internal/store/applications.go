package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/resumetry/backend/internal/model"
	"github.com/resumetry/backend/internal/table"
)

// DynamoClient is the subset of the DynamoDB API the repository uses.
// Satisfied by *dynamodb.Client and by *ddblocal.Store.
type DynamoClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

const defaultPageSize = 100

// Applications owns the create/read/list/update/delete protocol against
// the store, including id generation and timestamping. It holds no
// cross-request state; the store's conditional writes are the only
// synchronization point.
type Applications struct {
	ddb      DynamoClient
	table    table.Definition
	pageSize int32
	now      func() time.Time
}

type Option func(*Applications)

// WithPageSize overrides the internal list page size.
func WithPageSize(n int) Option {
	return func(a *Applications) {
		a.pageSize = int32(n)
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Applications) {
		a.now = now
	}
}

func NewApplications(ddb DynamoClient, def table.Definition, opts ...Option) *Applications {
	a := &Applications{
		ddb:      ddb,
		table:    def,
		pageSize: defaultPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Create assigns a fresh id and timestamps, writes the record
// unconditionally, and returns it as persisted.
func (a *Applications) Create(ctx context.Context, n model.NewApplication) (*model.Application, error) {
	item, err := encodeRecord(n)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	id := uuid.NewString()
	now := a.now().UTC().Format(time.RFC3339Nano)
	item[PartitionKeyAttr] = &types.AttributeValueMemberS{Value: partitionLiteral}
	item[SortKeyAttr] = &types.AttributeValueMemberS{Value: sortKeyFor(id)}
	item[attrCreatedAt] = &types.AttributeValueMemberS{Value: now}
	item[attrUpdatedAt] = &types.AttributeValueMemberS{Value: now}

	_, err = a.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &a.table.Name,
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}

	return decodeItem(item)
}

// Get returns the record for id, or (nil, nil) when it does not exist.
func (a *Applications) Get(ctx context.Context, id string) (*model.Application, error) {
	res, err := a.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &a.table.Name,
		Key:       KeyFor(a.table, id),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if res.Item == nil {
		return nil, nil
	}
	return decodeItem(res.Item)
}

// List returns every record in the collection, following the store's
// pagination until exhausted. Order is sort-key order within the
// partition, not creation order.
func (a *Applications) List(ctx context.Context) ([]model.Application, error) {
	keyCond := expression.KeyEqual(expression.Key(PartitionKeyAttr), expression.Value(partitionLiteral))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query expression: %w", err)
	}

	apps := []model.Application{}
	var cursor map[string]types.AttributeValue
	for {
		res, err := a.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:                 &a.table.Name,
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			Limit:                     &a.pageSize,
			ExclusiveStartKey:         cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}
		for _, item := range res.Items {
			app, err := decodeItem(item)
			if err != nil {
				return nil, err
			}
			apps = append(apps, *app)
		}
		cursor = res.LastEvaluatedKey
		if cursor == nil {
			break
		}
	}
	return apps, nil
}

// Update applies a partial update to an existing record and returns the
// post-update record, or (nil, nil) when the record does not exist.
// Updates never upsert: the write is conditioned on the key already
// being present, which is also what resolves a race against Delete.
// An empty patch is defined as a read.
func (a *Applications) Update(ctx context.Context, id string, p model.Patch) (*model.Application, error) {
	if p.IsEmpty() {
		return a.Get(ctx, id)
	}

	fields, err := patchFields(p)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	fields = append(fields, Field{
		Name:  attrUpdatedAt,
		Value: &types.AttributeValueMemberS{Value: a.now().UTC().Format(time.RFC3339Nano)},
	})

	updateExpr, names, values, err := buildSetExpression(fields)
	if err != nil {
		return nil, fmt.Errorf("build update expression: %w", err)
	}

	res, err := a.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &a.table.Name,
		Key:                       KeyFor(a.table, id),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String(recordExistsCondition),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, nil
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return decodeItem(res.Attributes)
}

// Delete removes the record and reports whether it existed. Deleting
// twice is not an error; the second call reports false.
func (a *Applications) Delete(ctx context.Context, id string) (bool, error) {
	res, err := a.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    &a.table.Name,
		Key:          KeyFor(a.table, id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return len(res.Attributes) > 0, nil
}
