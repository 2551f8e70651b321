package expand

import (
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"go.trai.ch/mach/internal/core/scope"
)

// builtins returns the functions available to every expression.
func builtins() map[string]function.Function {
	return map[string]function.Function{
		"quote":     renderFunc(scope.Quote),
		"flatten":   renderFunc(scope.Flatten),
		"join":      stdlib.JoinFunc,
		"split":     stdlib.SplitFunc,
		"upper":     stdlib.UpperFunc,
		"lower":     stdlib.LowerFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"replace":   stdlib.ReplaceFunc,
		"format":    stdlib.FormatFunc,
		"length":    stdlib.LengthFunc,
		"concat":    stdlib.ConcatFunc,
		"sort":      stdlib.SortFunc,
		"dir":       pathFunc(filepath.Dir),
		"base":      pathFunc(filepath.Base),
		"ext":       pathFunc(filepath.Ext),
		"stem":      pathFunc(stem),
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// renderFunc exposes a scope renderer taking any value and returning text.
func renderFunc(render func(any) string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{
				Name:             "value",
				Type:             cty.DynamicPseudoType,
				AllowNull:        true,
				AllowDynamicType: true,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			native, err := FromCty(args[0])
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(render(native)), nil
		},
	})
}

func pathFunc(fn func(string) string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "path", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(fn(args[0].AsString())), nil
		},
	})
}

// callableFunc exposes a callable scope value as a zero-argument function.
func callableFunc(s *scope.Scope, v any) function.Function {
	return function.New(&function.Spec{
		Type: function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(_ []cty.Value, _ cty.Type) (cty.Value, error) {
			resolved, err := s.ResolveDeep(v)
			if err != nil {
				return cty.NilVal, err
			}
			return ToCty(resolved)
		},
	})
}
