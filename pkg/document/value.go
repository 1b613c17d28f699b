// Package document holds the in-memory form of a parsed BULBA! document: a tree of ordered
// mappings, arrays and scalars.
package document

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which member of a Value is set.
type Kind int

const (
	NullKind Kind = iota
	StringKind
	IntKind
	FloatKind
	BoolKind
	ArrayKind
	ObjectKind
)

var kindNames = [...]string{
	NullKind:   "null",
	StringKind: "string",
	IntKind:    "int",
	FloatKind:  "float",
	BoolKind:   "bool",
	ArrayKind:  "array",
	ObjectKind: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is a tagged union over the types a document can hold.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	bit  bool
	arr  []Value
	obj  *Object
}

func String(s string) Value { return Value{kind: StringKind, str: s} }
func Int(i int64) Value     { return Value{kind: IntKind, num: i} }
func Float(f float64) Value { return Value{kind: FloatKind, flt: f} }
func Bool(b bool) Value     { return Value{kind: BoolKind, bit: b} }
func Null() Value           { return Value{} }

// ObjectValue wraps o. A nil o becomes an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: ObjectKind, obj: o}
}

// Array returns an array value holding a copy of elems.
func Array(elems ...Value) Value {
	return Value{kind: ArrayKind, arr: append([]Value(nil), elems...)}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == NullKind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == StringKind }
func (v Value) AsInt() (int64, bool)     { return v.num, v.kind == IntKind }
func (v Value) AsFloat() (float64, bool) { return v.flt, v.kind == FloatKind }
func (v Value) AsBool() (bool, bool)     { return v.bit, v.kind == BoolKind }
func (v Value) AsObject() (*Object, bool) {
	return v.obj, v.kind == ObjectKind
}

// AsArray returns the elements of an array value. The slice is shared with v.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == ArrayKind
}

// Equal reports whether v and other hold the same tag and the same contents.
// Int(1) and Float(1) are not equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case StringKind:
		return v.str == other.str
	case IntKind:
		return v.num == other.num
	case FloatKind:
		return v.flt == other.flt || (math.IsNaN(v.flt) && math.IsNaN(other.flt))
	case BoolKind:
		return v.bit == other.bit
	case ArrayKind:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case ObjectKind:
		return v.obj.Equal(other.obj)
	default:
		return true
	}
}

// Interface converts v into plain Go values: string, int64, float64, bool, nil, []any and
// map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case StringKind:
		return v.str
	case IntKind:
		return v.num
	case FloatKind:
		return v.flt
	case BoolKind:
		return v.bit
	case ArrayKind:
		out := make([]any, len(v.arr))
		for i, elem := range v.arr {
			out[i] = elem.Interface()
		}
		return out
	case ObjectKind:
		return v.obj.Interface()
	default:
		return nil
	}
}

// String renders scalars the way the printer does. Arrays and objects are rendered as blocks.
func (v Value) String() string {
	switch v.kind {
	case ArrayKind:
		p := &printer{}
		p.array(v.arr, 0)
		return p.buf.String()
	case ObjectKind:
		return v.obj.String()
	default:
		return formatScalar(v)
	}
}

func formatScalar(v Value) string {
	switch v.kind {
	case StringKind:
		return v.str
	case IntKind:
		return strconv.FormatInt(v.num, 10)
	case FloatKind:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case BoolKind:
		return strconv.FormatBool(v.bit)
	default:
		return "null"
	}
}
