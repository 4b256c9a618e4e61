package ddblocal

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// GetItem retrieves a single item by its primary key. A missing item
// yields an empty output, not an error, matching DynamoDB.
func (s *Store) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if params == nil || params.Key == nil {
		return nil, fmt.Errorf("key is required")
	}
	if err := s.checkTable(params.TableName); err != nil {
		return nil, err
	}

	pk, err := s.def.ExtractPrimaryKey(params.Key)
	if err != nil {
		return nil, fmt.Errorf("extract primary key: %w", err)
	}
	key := encodeItemKey(s.def.Name, pk)

	var item map[string]types.AttributeValue
	err = s.db.View(func(txn *badger.Txn) error {
		badgerItem, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return badgerItem.Value(func(val []byte) error {
			item, err = deserializeItem(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	return &dynamodb.GetItemOutput{Item: item}, nil
}
