package store

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strAV(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func TestBuildSetExpression(t *testing.T) {
	t.Run("single field", func(t *testing.T) {
		expr, names, values, err := buildSetExpression([]Field{
			{Name: "company", Value: strAV("Initech")},
		})
		require.NoError(t, err)

		assert.Equal(t, "SET #f0 = :v0", expr)
		assert.Equal(t, map[string]string{"#f0": "company"}, names)
		assert.Equal(t, map[string]types.AttributeValue{":v0": strAV("Initech")}, values)
	})

	t.Run("preserves field order", func(t *testing.T) {
		expr, names, values, err := buildSetExpression([]Field{
			{Name: "company", Value: strAV("Initech")},
			{Name: "status", Value: strAV("OFFER")},
			{Name: "status_date", Value: strAV("2025-06-01")},
		})
		require.NoError(t, err)

		assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", expr)
		assert.Equal(t, "company", names["#f0"])
		assert.Equal(t, "status", names["#f1"])
		assert.Equal(t, "status_date", names["#f2"])
		assert.Len(t, values, 3)
	})

	t.Run("placeholders are unique", func(t *testing.T) {
		fields := make([]Field, 20)
		for i := range fields {
			fields[i] = Field{Name: "status", Value: strAV("APPLIED")}
		}
		_, names, values, err := buildSetExpression(fields)
		require.NoError(t, err)
		assert.Len(t, names, 20)
		assert.Len(t, values, 20)
	})

	t.Run("reserved word as field name is safe", func(t *testing.T) {
		expr, names, _, err := buildSetExpression([]Field{
			{Name: "status", Value: strAV("APPLIED")},
		})
		require.NoError(t, err)
		assert.NotContains(t, expr, "status")
		assert.Equal(t, "status", names["#f0"])
	})

	t.Run("empty input errors", func(t *testing.T) {
		_, _, _, err := buildSetExpression(nil)
		assert.Error(t, err)
	})
}
