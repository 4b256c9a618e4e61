package ddblocal

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// PutItem writes an item, replacing any existing item at the same key.
func (s *Store) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if params == nil || params.Item == nil {
		return nil, fmt.Errorf("item is required")
	}
	if err := s.checkTable(params.TableName); err != nil {
		return nil, err
	}

	pk, err := s.def.ExtractPrimaryKey(params.Item)
	if err != nil {
		return nil, fmt.Errorf("extract primary key: %w", err)
	}
	key := encodeItemKey(s.def.Name, pk)

	var oldItem map[string]types.AttributeValue
	err = s.db.Update(func(txn *badger.Txn) error {
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

		data, err := serializeItem(params.Item)
		if err != nil {
			return fmt.Errorf("serialize item: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, err
	}

	out := &dynamodb.PutItemOutput{}
	if params.ReturnValues == types.ReturnValueAllOld && oldItem != nil {
		out.Attributes = oldItem
	}
	return out, nil
}

func ptrStr(s string) *string {
	return &s
}
