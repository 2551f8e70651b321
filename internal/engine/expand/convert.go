package expand

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"go.trai.ch/zerr"
)

// ToCty converts a resolved scope value into a cty value. Sequences become
// tuples and string maps become objects.
func ToCty(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return x, nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case int32:
		return cty.NumberIntVal(int64(x)), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint:
		return cty.NumberUIntVal(uint64(x)), nil
	case uint64:
		return cty.NumberUIntVal(x), nil
	case float32:
		return cty.NumberFloatVal(float64(x)), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case []string:
		if len(x) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(x))
		for i, s := range x {
			vals[i] = cty.StringVal(s)
		}
		return cty.TupleVal(vals), nil
	case []any:
		if len(x) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, len(x))
		for i, item := range x {
			cv, err := ToCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			vals[i] = cv
		}
		return cty.TupleVal(vals), nil
	case map[string]any:
		if len(x) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(x))
		for k, item := range x {
			cv, err := ToCty(item)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil
	case fmt.Stringer:
		return cty.StringVal(x.String()), nil
	}
	return cty.NilVal, zerr.With(zerr.New("unsupported value type"), "type", fmt.Sprintf("%T", v))
}

// FromCty converts an evaluation result back into a scope value. Whole
// numbers become int, other numbers float64.
func FromCty(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, zerr.New("expression result is unknown")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		items := v.AsValueSlice()
		out := make([]any, len(items))
		for i, item := range items {
			native, err := FromCty(item)
			if err != nil {
				return nil, err
			}
			out[i] = native
		}
		return out, nil
	case ty.IsMapType(), ty.IsObjectType():
		attrs := v.AsValueMap()
		out := make(map[string]any, len(attrs))
		for k, item := range attrs {
			native, err := FromCty(item)
			if err != nil {
				return nil, err
			}
			out[k] = native
		}
		return out, nil
	}
	return nil, zerr.With(zerr.New("unsupported expression result"), "type", ty.FriendlyName())
}
