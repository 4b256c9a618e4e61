package store

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/resumetry/backend/internal/table"
)

// Single-table key layout: every application shares one partition, so
// the whole collection is retrievable with one partition query. The
// sort key carries the record id behind a fixed tag.
const (
	PartitionKeyAttr = "pk"
	SortKeyAttr      = "sk"

	partitionLiteral = "JOB_APPS"
	sortKeyPrefix    = "APP#"
)

// Definition returns the table shape for the given table name.
func Definition(name string) table.Definition {
	return table.Definition{
		Name: name,
		Keys: table.PrimaryKeyDefinition{
			PartitionKey: table.KeyDef{Name: PartitionKeyAttr, Kind: table.KeyKindS},
			SortKey:      table.KeyDef{Name: SortKeyAttr, Kind: table.KeyKindS},
		},
	}
}

func sortKeyFor(id string) string {
	return sortKeyPrefix + id
}

// KeyFor derives the store key for a record id. Deterministic;
// IDFromSortKey is its exact inverse on the sort component.
func KeyFor(def table.Definition, id string) map[string]types.AttributeValue {
	return table.PrimaryKey{
		Definition: def.Keys,
		Values: table.PrimaryKeyValues{
			PartitionKey: partitionLiteral,
			SortKey:      sortKeyFor(id),
		},
	}.DDB()
}

func IDFromSortKey(sk string) string {
	return strings.TrimPrefix(sk, sortKeyPrefix)
}
