package cel

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"

	"github.com/Azure/bulba/pkg/document"
)

var Env *cel.Env

func init() {
	initDefaultEnv()
}

func initDefaultEnv() {
	var err error
	Env, err = cel.NewEnv(cel.Variable("self", cel.DynType))
	if err != nil {
		panic(fmt.Sprintf("failed to create default CEL environment: %v", err))
	}
}

func Parse(expr string) (cel.Program, error) {
	ast, iss := Env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	return Env.Program(ast, cel.InterruptCheckFrequency(10))
}

// Eval runs prgm with `self` bound to the document root.
func Eval(ctx context.Context, prgm cel.Program, doc *document.Object) (ref.Val, error) {
	val, _, err := prgm.ContextEval(ctx, map[string]any{
		"self": doc.Interface(),
	})
	return val, err
}

// ToValue converts a CEL result back into a document value.
func ToValue(val ref.Val) (document.Value, error) {
	switch v := val.(type) {
	case types.String:
		return document.String(string(v)), nil
	case types.Int:
		return document.Int(int64(v)), nil
	case types.Uint:
		return document.Int(int64(v)), nil
	case types.Double:
		return document.Float(float64(v)), nil
	case types.Bool:
		return document.Bool(bool(v)), nil
	case types.Null:
		return document.Null(), nil
	case traits.Lister:
		var elems []document.Value
		for it := v.Iterator(); it.HasNext() == types.True; {
			elem, err := ToValue(it.Next())
			if err != nil {
				return document.Value{}, err
			}
			elems = append(elems, elem)
		}
		return document.Array(elems...), nil
	case traits.Mapper:
		obj := document.NewObject()
		for it := v.Iterator(); it.HasNext() == types.True; {
			key := it.Next()
			k, ok := key.(types.String)
			if !ok {
				return document.Value{}, fmt.Errorf("map key %v is a %s, not a string", key, key.Type().TypeName())
			}
			elem, err := ToValue(v.Get(key))
			if err != nil {
				return document.Value{}, err
			}
			obj.Set(string(k), elem)
		}
		return document.ObjectValue(obj), nil
	default:
		return document.FromInterface(val.Value())
	}
}
