// Package table describes the shape of a DynamoDB table: its name and
// its two-part primary key. Definitions are plain values handed to the
// repository and to the local store so both agree on key layout.
package table

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type Definition struct {
	Name string
	Keys PrimaryKeyDefinition
}

type PrimaryKeyDefinition struct {
	PartitionKey KeyDef
	SortKey      KeyDef
}

type KeyDef struct {
	Name string
	Kind KeyKind
}

type KeyKind string

const (
	KeyKindS KeyKind = "S"
	KeyKindN KeyKind = "N"
	KeyKindB KeyKind = "B"
)

// PrimaryKey is one concrete key value pair under a definition.
type PrimaryKey struct {
	Definition PrimaryKeyDefinition
	Values     PrimaryKeyValues
}

type PrimaryKeyValues struct {
	PartitionKey string
	SortKey      string
}

// DDB renders the key in the attribute map shape the SDK takes.
func (k PrimaryKey) DDB() map[string]types.AttributeValue {
	key := map[string]types.AttributeValue{
		k.Definition.PartitionKey.Name: &types.AttributeValueMemberS{Value: k.Values.PartitionKey},
	}
	if k.Definition.SortKey.Name != "" {
		key[k.Definition.SortKey.Name] = &types.AttributeValueMemberS{Value: k.Values.SortKey}
	}
	return key
}

// ExtractPrimaryKey pulls the key values out of an item.
func (d Definition) ExtractPrimaryKey(item map[string]types.AttributeValue) (PrimaryKey, error) {
	return d.Keys.ExtractPrimaryKey(item)
}

func (k PrimaryKeyDefinition) ExtractPrimaryKey(item map[string]types.AttributeValue) (PrimaryKey, error) {
	part, err := stringKeyValue(item, k.PartitionKey.Name)
	if err != nil {
		return PrimaryKey{}, fmt.Errorf("partition key: %w", err)
	}
	pk := PrimaryKey{
		Definition: k,
		Values:     PrimaryKeyValues{PartitionKey: part},
	}
	if k.SortKey.Name == "" {
		return pk, nil
	}
	sort, err := stringKeyValue(item, k.SortKey.Name)
	if err != nil {
		return PrimaryKey{}, fmt.Errorf("sort key: %w", err)
	}
	pk.Values.SortKey = sort
	return pk, nil
}

func stringKeyValue(item map[string]types.AttributeValue, name string) (string, error) {
	av, ok := item[name]
	if !ok {
		return "", fmt.Errorf("attribute %q not found", name)
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %q has kind %T, want S", name, av)
	}
	return s.Value, nil
}
