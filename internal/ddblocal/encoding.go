package ddblocal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/resumetry/backend/internal/table"
)

// Badger key format: [tableName][0x00][partitionKey][0x00][sortKey].
// The separator byte is escaped out of the key components so items in
// one partition sort by sort key and share a scannable prefix.

const keySeparator byte = 0x00

func encodeItemKey(tableName string, pk table.PrimaryKey) []byte {
	var buf bytes.Buffer
	buf.WriteString(tableName)
	buf.WriteByte(keySeparator)
	buf.Write(escapeBytes([]byte(pk.Values.PartitionKey)))
	buf.WriteByte(keySeparator)
	buf.Write(escapeBytes([]byte(pk.Values.SortKey)))
	return buf.Bytes()
}

// encodePartitionPrefix returns the prefix shared by every item with
// the given partition key value.
func encodePartitionPrefix(tableName, partitionKey string) []byte {
	var buf bytes.Buffer
	buf.WriteString(tableName)
	buf.WriteByte(keySeparator)
	buf.Write(escapeBytes([]byte(partitionKey)))
	buf.WriteByte(keySeparator)
	return buf.Bytes()
}

// escapeBytes escapes separator bytes (0x00) to preserve key component
// boundaries. 0x00 becomes 0x01 0x01, literal 0x01 becomes 0x01 0x02.
func escapeBytes(b []byte) []byte {
	var buf bytes.Buffer
	for _, c := range b {
		switch c {
		case 0x00:
			buf.WriteByte(0x01)
			buf.WriteByte(0x01)
		case 0x01:
			buf.WriteByte(0x01)
			buf.WriteByte(0x02)
		default:
			buf.WriteByte(c)
		}
	}
	return buf.Bytes()
}

// Item values are stored as a JSON tree of tagged attribute values.

type storedAV struct {
	Type  string          `json:"t"`
	Value json.RawMessage `json:"v"`
}

func serializeItem(item map[string]types.AttributeValue) ([]byte, error) {
	stored := make(map[string]storedAV, len(item))
	for k, v := range item {
		sav, err := toStored(v)
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", k, err)
		}
		stored[k] = sav
	}
	return json.Marshal(stored)
}

func deserializeItem(data []byte) (map[string]types.AttributeValue, error) {
	var stored map[string]storedAV
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	item := make(map[string]types.AttributeValue, len(stored))
	for k, v := range stored {
		av, err := fromStored(v)
		if err != nil {
			return nil, fmt.Errorf("deserialize %s: %w", k, err)
		}
		item[k] = av
	}
	return item, nil
}

func toStored(av types.AttributeValue) (storedAV, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return tagged("S", v.Value)
	case *types.AttributeValueMemberN:
		return tagged("N", v.Value)
	case *types.AttributeValueMemberB:
		return tagged("B", v.Value)
	case *types.AttributeValueMemberBOOL:
		return tagged("BOOL", v.Value)
	case *types.AttributeValueMemberNULL:
		return tagged("NULL", v.Value)
	case *types.AttributeValueMemberM:
		m := make(map[string]storedAV, len(v.Value))
		for k, el := range v.Value {
			sav, err := toStored(el)
			if err != nil {
				return storedAV{}, err
			}
			m[k] = sav
		}
		return tagged("M", m)
	case *types.AttributeValueMemberL:
		l := make([]storedAV, len(v.Value))
		for i, el := range v.Value {
			sav, err := toStored(el)
			if err != nil {
				return storedAV{}, err
			}
			l[i] = sav
		}
		return tagged("L", l)
	default:
		return storedAV{}, fmt.Errorf("unsupported attribute value type %T", av)
	}
}

func tagged(typ string, v any) (storedAV, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return storedAV{}, err
	}
	return storedAV{Type: typ, Value: raw}, nil
}

func fromStored(sav storedAV) (types.AttributeValue, error) {
	switch sav.Type {
	case "S":
		var s string
		if err := json.Unmarshal(sav.Value, &s); err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberS{Value: s}, nil
	case "N":
		var s string
		if err := json.Unmarshal(sav.Value, &s); err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberN{Value: s}, nil
	case "B":
		var b []byte
		if err := json.Unmarshal(sav.Value, &b); err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberB{Value: b}, nil
	case "BOOL":
		var b bool
		if err := json.Unmarshal(sav.Value, &b); err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberBOOL{Value: b}, nil
	case "NULL":
		var b bool
		if err := json.Unmarshal(sav.Value, &b); err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberNULL{Value: b}, nil
	case "M":
		var stored map[string]storedAV
		if err := json.Unmarshal(sav.Value, &stored); err != nil {
			return nil, err
		}
		m := make(map[string]types.AttributeValue, len(stored))
		for k, v := range stored {
			av, err := fromStored(v)
			if err != nil {
				return nil, err
			}
			m[k] = av
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	case "L":
		var stored []storedAV
		if err := json.Unmarshal(sav.Value, &stored); err != nil {
			return nil, err
		}
		l := make([]types.AttributeValue, len(stored))
		for i, v := range stored {
			av, err := fromStored(v)
			if err != nil {
				return nil, err
			}
			l[i] = av
		}
		return &types.AttributeValueMemberL{Value: l}, nil
	default:
		return nil, fmt.Errorf("unsupported stored type %q", sav.Type)
	}
}
