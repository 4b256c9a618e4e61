package ddblocal

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dgraph-io/badger/v4"
)

// Query returns items in a partition in sort-key order, honoring Limit
// and ExclusiveStartKey/LastEvaluatedKey paging. Only a plain partition
// equality key condition is supported.
func (s *Store) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if params == nil || params.KeyConditionExpression == nil {
		return nil, fmt.Errorf("key condition expression is required")
	}
	if err := s.checkTable(params.TableName); err != nil {
		return nil, err
	}

	name, pkValue, err := parseKeyConditionEquality(*params.KeyConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, fmt.Errorf("parse key condition: %w", err)
	}
	if name != s.def.Keys.PartitionKey.Name {
		return nil, fmt.Errorf("key condition on %q, want partition key %q", name, s.def.Keys.PartitionKey.Name)
	}

	prefix := encodePartitionPrefix(s.def.Name, pkValue)

	limit := 0
	if params.Limit != nil {
		limit = int(*params.Limit)
	}

	var items []map[string]types.AttributeValue
	hasMore := false

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		start := prefix
		if params.ExclusiveStartKey != nil {
			startPK, err := s.def.ExtractPrimaryKey(params.ExclusiveStartKey)
			if err != nil {
				return fmt.Errorf("extract start key: %w", err)
			}
			start = encodeItemKey(s.def.Name, startPK)
		}

		it.Seek(start)
		if params.ExclusiveStartKey != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(start) {
			it.Next()
		}

		for it.ValidForPrefix(prefix) {
			if limit > 0 && len(items) == limit {
				hasMore = true
				break
			}
			var item map[string]types.AttributeValue
			if err := it.Item().Value(func(val []byte) error {
				var err error
				item, err = deserializeItem(val)
				return err
			}); err != nil {
				return err
			}
			items = append(items, item)
			it.Next()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &dynamodb.QueryOutput{
		Items: items,
		Count: int32(len(items)),
	}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		lastPK, err := s.def.ExtractPrimaryKey(last)
		if err != nil {
			return nil, fmt.Errorf("extract last key: %w", err)
		}
		out.LastEvaluatedKey = lastPK.DDB()
	}
	return out, nil
}
