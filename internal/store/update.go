package store

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// recordExistsCondition guards updates so they never upsert. pk is not
// a reserved word, so the raw expression needs no placeholders.
const recordExistsCondition = "attribute_exists(" + PartitionKeyAttr + ")"

// buildSetExpression produces a SET update expression for the given
// fields plus its name and value placeholder tables. Placeholders are
// index-suffixed, so they cannot collide with reserved words or with
// each other regardless of field-name content. Field order in the
// expression follows the input order.
func buildSetExpression(fields []Field) (string, map[string]string, map[string]types.AttributeValue, error) {
	if len(fields) == 0 {
		return "", nil, nil, fmt.Errorf("no fields to update")
	}

	parts := make([]string, 0, len(fields))
	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))

	for i, f := range fields {
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		parts = append(parts, name+" = "+value)
		names[name] = f.Name
		values[value] = f.Value
	}

	return "SET " + strings.Join(parts, ", "), names, values, nil
}
