package ddblocal

import (
	"bytes"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyConditionEquality(t *testing.T) {
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: "P"},
	}

	t.Run("placeholder name", func(t *testing.T) {
		name, value, err := parseKeyConditionEquality("#0 = :pk", map[string]string{"#0": "pk"}, values)
		require.NoError(t, err)
		assert.Equal(t, "pk", name)
		assert.Equal(t, "P", value)
	})

	t.Run("literal name", func(t *testing.T) {
		name, value, err := parseKeyConditionEquality("pk = :pk", nil, values)
		require.NoError(t, err)
		assert.Equal(t, "pk", name)
		assert.Equal(t, "P", value)
	})

	t.Run("rejects compound conditions", func(t *testing.T) {
		_, _, err := parseKeyConditionEquality("pk = :pk AND sk = :sk", nil, values)
		assert.Error(t, err)
	})

	t.Run("rejects unresolved placeholders", func(t *testing.T) {
		_, _, err := parseKeyConditionEquality("#0 = :pk", nil, values)
		assert.Error(t, err)

		_, _, err = parseKeyConditionEquality("pk = :missing", nil, values)
		assert.Error(t, err)
	})
}

func TestParseSetExpression(t *testing.T) {
	names := map[string]string{"#f0": "company", "#f1": "status"}
	values := map[string]types.AttributeValue{
		":v0": &types.AttributeValueMemberS{Value: "Initech"},
		":v1": &types.AttributeValueMemberS{Value: "OFFER"},
	}

	t.Run("multiple clauses in order", func(t *testing.T) {
		assignments, err := parseSetExpression("SET #f0 = :v0, #f1 = :v1", names, values)
		require.NoError(t, err)
		require.Len(t, assignments, 2)
		assert.Equal(t, "company", assignments[0].name)
		assert.Equal(t, "status", assignments[1].name)
	})

	t.Run("rejects non-SET", func(t *testing.T) {
		_, err := parseSetExpression("REMOVE #f0", names, values)
		assert.Error(t, err)
	})

	t.Run("rejects literal values", func(t *testing.T) {
		_, err := parseSetExpression("SET #f0 = Initech", names, values)
		assert.Error(t, err)
	})
}

func TestEvalCondition(t *testing.T) {
	item := map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: "P"},
	}

	t.Run("attribute_exists", func(t *testing.T) {
		ok, err := evalCondition("attribute_exists(pk)", nil, item)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = evalCondition("attribute_exists(pk)", nil, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("attribute_not_exists", func(t *testing.T) {
		ok, err := evalCondition("attribute_not_exists(pk)", nil, nil)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = evalCondition("attribute_not_exists(pk)", nil, item)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("placeholder name", func(t *testing.T) {
		ok, err := evalCondition("attribute_exists(#k)", map[string]string{"#k": "pk"}, item)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects other functions", func(t *testing.T) {
		_, err := evalCondition("begins_with(sk, :p)", nil, item)
		assert.Error(t, err)
	})
}

func TestEncodeItemKeyEscaping(t *testing.T) {
	// A separator byte inside a partition key value must not make its
	// items visible to another partition's prefix scan.
	plain := encodePartitionPrefix("t", "a")
	tricky := encodePartitionPrefix("t", "a\x00b")
	assert.False(t, bytes.HasPrefix(tricky, plain))
	assert.NotEqual(t, plain, tricky)
}
