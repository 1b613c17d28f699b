package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// MarshalJSON encodes v. Integral floats keep a fractional part so that FromJSON restores
// the same tag.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case StringKind:
		return json.Marshal(v.str)
	case IntKind:
		return strconv.AppendInt(nil, v.num, 10), nil
	case FloatKind:
		if math.IsInf(v.flt, 0) || math.IsNaN(v.flt) {
			return nil, fmt.Errorf("float %v has no JSON representation", v.flt)
		}
		s := strconv.FormatFloat(v.flt, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return []byte(s), nil
	case BoolKind:
		return strconv.AppendBool(nil, v.bit), nil
	case ArrayKind:
		if len(v.arr) == 0 {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case ObjectKind:
		return v.obj.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// MarshalJSON encodes o with its keys in lexicographic order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var (
		buf bytes.Buffer
		err error
	)
	buf.WriteByte('{')
	o.Range(func(key string, v Value) bool {
		var kb, vb []byte
		if kb, err = json.Marshal(key); err != nil {
			return false
		}
		if vb, err = v.MarshalJSON(); err != nil {
			err = fmt.Errorf("key %q: %w", key, err)
			return false
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case ArrayKind:
		if v.arr == nil {
			return []Value{}, nil
		}
		return v.arr, nil
	case ObjectKind:
		return v.obj, nil
	default:
		return v.Interface(), nil
	}
}

// MarshalYAML implements yaml.Marshaler, keeping keys in lexicographic order.
func (o *Object) MarshalYAML() (interface{}, error) {
	out := make(yaml.MapSlice, 0, o.Len())
	o.Range(func(key string, v Value) bool {
		out = append(out, yaml.MapItem{Key: key, Value: v})
		return true
	})
	return out, nil
}

// EncodeTOML writes o as a TOML document. TOML has no null, so null entries are omitted
// from objects; a null inside an array is an error.
func EncodeTOML(w io.Writer, o *Object) error {
	tree, err := tomlObject(o, nil)
	if err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(tree)
}

func tomlObject(o *Object, path []string) (map[string]any, error) {
	out := make(map[string]any, o.Len())
	var err error
	o.Range(func(key string, v Value) bool {
		if v.IsNull() {
			return true
		}
		out[key], err = tomlValue(v, append(path[:len(path):len(path)], key))
		return err == nil
	})
	return out, err
}

func tomlValue(v Value, path []string) (any, error) {
	switch v.kind {
	case NullKind:
		return nil, fmt.Errorf("toml cannot encode null at %s", strings.Join(path, "."))
	case ArrayKind:
		out := make([]any, len(v.arr))
		for i, elem := range v.arr {
			var err error
			if out[i], err = tomlValue(elem, append(path[:len(path):len(path)], strconv.Itoa(i))); err != nil {
				return nil, err
			}
		}
		return out, nil
	case ObjectKind:
		return tomlObject(v.obj, path)
	default:
		return v.Interface(), nil
	}
}
