package document

import (
	"github.com/emirpasic/gods/v2/trees/redblacktree"
)

// Object is a mapping from unique keys to values. Keys are always enumerated in
// lexicographic (byte-wise) order, regardless of insertion order.
//
// The zero Object is empty and ready to use. NOT CONCURRENCY SAFE.
type Object struct {
	tree *redblacktree.Tree[string, Value]
}

func NewObject() *Object {
	return &Object{tree: redblacktree.New[string, Value]()}
}

// Set stores v under key, replacing any previous value.
func (o *Object) Set(key string, v Value) {
	if o.tree == nil {
		o.tree = redblacktree.New[string, Value]()
	}
	o.tree.Put(key, v)
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.tree == nil {
		return Value{}, false
	}
	return o.tree.Get(key)
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if !o.Has(key) {
		return false
	}
	o.tree.Remove(key)
	return true
}

func (o *Object) Len() int {
	if o == nil || o.tree == nil {
		return 0
	}
	return o.tree.Size()
}

// Keys returns the keys in lexicographic order.
func (o *Object) Keys() []string {
	if o.Len() == 0 {
		return nil
	}
	return o.tree.Keys()
}

// Range calls fn for each entry in key order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o.Len() == 0 {
		return
	}
	it := o.tree.Iterator()
	for it.Next() {
		if !fn(it.Key(), it.Value()) {
			return
		}
	}
}

// Lookup walks nested objects along path. An empty path returns the object itself.
func (o *Object) Lookup(path ...string) (Value, bool) {
	current := ObjectValue(o)
	for _, key := range path {
		obj, ok := current.AsObject()
		if !ok {
			return Value{}, false
		}
		if current, ok = obj.Get(key); !ok {
			return Value{}, false
		}
	}
	return current, true
}

func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	equal := true
	o.Range(func(key string, v Value) bool {
		ov, ok := other.Get(key)
		equal = ok && v.Equal(ov)
		return equal
	})
	return equal
}

// Interface converts the object into a map[string]any tree (see Value.Interface).
func (o *Object) Interface() map[string]any {
	out := make(map[string]any, o.Len())
	o.Range(func(key string, v Value) bool {
		out[key] = v.Interface()
		return true
	})
	return out
}

// String renders the object with the printer.
func (o *Object) String() string {
	p := &printer{}
	p.object(o, 0)
	return p.buf.String()
}
