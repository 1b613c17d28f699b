package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FromInterface converts plain Go values (as produced by Value.Interface or encoding/json)
// into a Value.
func FromInterface(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case *Object:
		return ObjectValue(x), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		return fromNumber(x)
	case []any:
		elems := make([]Value, len(x))
		for i, elem := range x {
			v, err := FromInterface(elem)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = v
		}
		return Array(elems...), nil
	case map[string]any:
		obj := NewObject()
		for key, elem := range x {
			v, err := FromInterface(elem)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			obj.Set(key, v)
		}
		return ObjectValue(obj), nil
	default:
		return Value{}, fmt.Errorf("unsupported type %T", in)
	}
}

// FromJSON decodes a JSON object into an Object. Numbers written without a fraction or
// exponent become Int values, all others Float values.
func FromJSON(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a json object, got %T", raw)
	}
	v, err := FromInterface(m)
	if err != nil {
		return nil, err
	}
	obj, _ := v.AsObject()
	return obj, nil
}

func fromNumber(n json.Number) (Value, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", n, err)
	}
	return Float(f), nil
}
