package ddblocal

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// UpdateItem applies a SET update expression. Without a condition the
// update upserts, as DynamoDB does; a failed condition surfaces as
// ConditionalCheckFailedException.
func (s *Store) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if params == nil || params.Key == nil {
		return nil, fmt.Errorf("key is required")
	}
	if params.UpdateExpression == nil {
		return nil, fmt.Errorf("update expression is required")
	}
	if err := s.checkTable(params.TableName); err != nil {
		return nil, err
	}

	pk, err := s.def.ExtractPrimaryKey(params.Key)
	if err != nil {
		return nil, fmt.Errorf("extract primary key: %w", err)
	}
	key := encodeItemKey(s.def.Name, pk)

	assignments, err := parseSetExpression(*params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, fmt.Errorf("parse update expression: %w", err)
	}

	var newItem map[string]types.AttributeValue
	err = s.db.Update(func(txn *badger.Txn) error {
		var oldItem map[string]types.AttributeValue
		existing, err := txn.Get(key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err == nil {
			if err := existing.Value(func(val []byte) error {
				oldItem, err = deserializeItem(val)
				return err
			}); err != nil {
				return err
			}
		}

		if params.ConditionExpression != nil {
			valid, err := evalCondition(*params.ConditionExpression, params.ExpressionAttributeNames, oldItem)
			if err != nil {
				return fmt.Errorf("evaluate condition: %w", err)
			}
			if !valid {
				return &types.ConditionalCheckFailedException{
					Message: ptrStr("The conditional request failed"),
				}
			}
		}

		newItem = make(map[string]types.AttributeValue, len(oldItem)+len(assignments))
		for k, v := range oldItem {
			newItem[k] = v
		}
		for k, v := range params.Key {
			newItem[k] = v
		}
		for _, a := range assignments {
			newItem[a.name] = a.value
		}

		data, err := serializeItem(newItem)
		if err != nil {
			return fmt.Errorf("serialize item: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}

	out := &dynamodb.UpdateItemOutput{}
	if params.ReturnValues == types.ReturnValueAllNew {
		out.Attributes = newItem
	}
	return out, nil
}
