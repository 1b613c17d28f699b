package mutation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/google/cel-go/cel"

	bulbacel "github.com/Azure/bulba/internal/cel"
	"github.com/Azure/bulba/pkg/document"
)

// Op is an operation that conditionally assigns a value to a path within a document.
// Ops are read from JSON, e.g.
//
//	{"path": "self.database.host", "condition": "self.version >= 2.0", "value": "db.internal"}
//
// A null value deletes the addressed key.
type Op struct {
	Path      *PathExpr
	Condition cel.Program
	Value     any
}

type jsonOp struct {
	Path      string `json:"path"`
	Condition string `json:"condition"`
	Value     any    `json:"value"`
}

func (o *Op) UnmarshalJSON(data []byte) error {
	var j jsonOp
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // keeps 1 and 1.0 apart
	if err := dec.Decode(&j); err != nil {
		return err
	}
	o.Value = j.Value

	var err error
	o.Path, err = ParsePathExpr(j.Path)
	if err != nil {
		return fmt.Errorf("parsing path: %w", err)
	}

	if j.Condition != "" {
		o.Condition, err = bulbacel.Parse(j.Condition)
		if err != nil {
			return fmt.Errorf("parsing condition: %w", err)
		}
	}
	return nil
}

// DecodeOps reads a JSON array of ops.
func DecodeOps(data []byte) ([]Op, error) {
	var ops []Op
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("decoding mutation ops: %w", err)
	}
	return ops, nil
}

// Apply applies the operation to tree if the condition is met by the current document.
// tree is the map view of doc (see document.Object.Interface).
func (o *Op) Apply(ctx context.Context, doc *document.Object, tree map[string]any) error {
	if o.Condition != nil {
		val, err := bulbacel.Eval(ctx, o.Condition, doc)
		if err != nil {
			logr.FromContextOrDiscard(ctx).V(1).Info("mutation condition failed", "path", o.Path.String(), "error", err.Error())
			return nil // fail closed
		}
		if b, ok := val.Value().(bool); !ok || !b {
			return nil // condition not met
		}
	}
	return Apply(o.Path, tree, o.Value)
}

// ApplyAll applies ops in order and returns the resulting document. Conditions always see
// the input document, not the result of earlier ops. doc is not modified.
func ApplyAll(ctx context.Context, doc *document.Object, ops []Op) (*document.Object, error) {
	tree := doc.Interface()
	for i := range ops {
		if err := ops[i].Apply(ctx, doc, tree); err != nil {
			return nil, fmt.Errorf("applying op %d (%s): %w", i, ops[i].Path, err)
		}
	}

	v, err := document.FromInterface(tree)
	if err != nil {
		return nil, err
	}
	out, _ := v.AsObject()
	return out, nil
}

// unquoteKey removes the quotes the path lexer leaves around string keys.
func unquoteKey(key string) string {
	if unquoted, err := strconv.Unquote(key); err == nil {
		return unquoted
	}
	return key
}

// Apply sets the value(s) referred to by the path expression.
// Missing or nil values in the path will not be created.
func Apply(path *PathExpr, obj map[string]any, value any) error {
	if path == nil {
		return nil
	}

	if s := path.ast.Sections; len(s) == 0 || s[0].Field == nil || *s[0].Field != "self" {
		return fmt.Errorf("cannot apply mutation to non-self path")
	}

	return apply(path.ast.Sections[1:], obj, value)
}

func apply(sections []*section, obj any, value any) error {
	state := obj

	for i, section := range sections {
		last := i == len(sections)-1

		// Map field indexing
		var key *string
		if section.Field != nil {
			key = section.Field
		} else if section.Index != nil && section.Index.Key != nil {
			k := unquoteKey(*section.Index.Key)
			key = &k
		}
		if key != nil {
			m, ok := state.(map[string]any)
			if !ok {
				return nil // missing parents are not created
			}
			if last {
				if value == nil {
					delete(m, *key)
				} else {
					m[*key] = value
				}
				return nil
			}
			state = m[*key]
			continue
		}

		if section.Index == nil {
			continue // should be impossible
		}

		slice, ok := state.([]any)
		if !ok {
			return fmt.Errorf("cannot index non-array value")
		}

		// Simple array indexing
		if el := section.Index.Element; el != nil {
			if *el < 0 || *el >= len(slice) {
				return fmt.Errorf("index %d out of range for array of length %d", *el, len(slice))
			}
			if last {
				slice[*el] = value
				return nil
			}
			state = slice[*el]
			continue
		}

		// Wildcard or matcher
		for j, cur := range slice {
			m, isMap := cur.(map[string]any)

			if matcher := section.Index.Matcher; matcher != nil {
				if !isMap {
					continue // can't apply matcher to non-map value
				}
				str, ok := m[matcher.Key].(string)
				if !ok || str != unquoteKey(matcher.Value) {
					continue
				}
			}

			if !last {
				switch cur.(type) {
				case map[string]any, []any:
					if err := apply(sections[i+1:], cur, value); err != nil {
						return err
					}
				}
				continue
			}
			slice[j] = value
		}
		return nil
	}

	return nil
}
