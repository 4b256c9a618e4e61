package ddblocal

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Minimal expression support: the service only ever generates
// single-equality key conditions, comma-separated SET updates, and
// attribute_exists/attribute_not_exists conditions. Anything outside
// that grammar is rejected rather than silently misread.

type assignment struct {
	name  string
	value types.AttributeValue
}

// parseKeyConditionEquality resolves "#n = :v" (or "name = :v") to the
// attribute name and its string value.
func parseKeyConditionEquality(expr string, names map[string]string, values map[string]types.AttributeValue) (string, string, error) {
	lhs, rhs, ok := strings.Cut(expr, "=")
	if !ok || strings.Contains(rhs, "=") {
		return "", "", fmt.Errorf("unsupported key condition %q: want a single equality", expr)
	}

	name, err := resolveName(strings.TrimSpace(lhs), names)
	if err != nil {
		return "", "", err
	}
	av, err := resolveValue(strings.TrimSpace(rhs), values)
	if err != nil {
		return "", "", err
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", "", fmt.Errorf("key condition value for %q is %T, want S", name, av)
	}
	return name, s.Value, nil
}

// parseSetExpression parses "SET #a = :v, #b = :w" into assignments in
// expression order.
func parseSetExpression(expr string, names map[string]string, values map[string]types.AttributeValue) ([]assignment, error) {
	trimmed := strings.TrimSpace(expr)
	rest, ok := cutPrefixFold(trimmed, "SET ")
	if !ok {
		return nil, fmt.Errorf("unsupported update expression %q: only SET is supported", expr)
	}

	clauses := strings.Split(rest, ",")
	assignments := make([]assignment, 0, len(clauses))
	for _, clause := range clauses {
		lhs, rhs, ok := strings.Cut(clause, "=")
		if !ok {
			return nil, fmt.Errorf("malformed SET clause %q", clause)
		}
		name, err := resolveName(strings.TrimSpace(lhs), names)
		if err != nil {
			return nil, err
		}
		av, err := resolveValue(strings.TrimSpace(rhs), values)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment{name: name, value: av})
	}
	return assignments, nil
}

// evalCondition evaluates attribute_exists(name) and
// attribute_not_exists(name) against an item. A nil item means the key
// has no item at all.
func evalCondition(cond string, names map[string]string, item map[string]types.AttributeValue) (bool, error) {
	trimmed := strings.TrimSpace(cond)

	negate := false
	arg, ok := cutPrefixFold(trimmed, "attribute_exists(")
	if !ok {
		arg, ok = cutPrefixFold(trimmed, "attribute_not_exists(")
		negate = true
	}
	if !ok || !strings.HasSuffix(arg, ")") {
		return false, fmt.Errorf("unsupported condition expression %q", cond)
	}

	name, err := resolveName(strings.TrimSpace(strings.TrimSuffix(arg, ")")), names)
	if err != nil {
		return false, err
	}

	_, exists := item[name]
	if negate {
		return !exists, nil
	}
	return exists, nil
}

func resolveName(token string, names map[string]string) (string, error) {
	if !strings.HasPrefix(token, "#") {
		return token, nil
	}
	name, ok := names[token]
	if !ok {
		return "", fmt.Errorf("unresolved name placeholder %q", token)
	}
	return name, nil
}

func resolveValue(token string, values map[string]types.AttributeValue) (types.AttributeValue, error) {
	if !strings.HasPrefix(token, ":") {
		return nil, fmt.Errorf("want a value placeholder, got %q", token)
	}
	av, ok := values[token]
	if !ok {
		return nil, fmt.Errorf("unresolved value placeholder %q", token)
	}
	return av, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
