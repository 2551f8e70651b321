package scope

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Flatten renders a value as shell words: sequences at any depth become their
// leaves joined by single spaces, nil becomes the empty string.
func Flatten(v any) string {
	return strings.Join(leaves(v, nil, false), " ")
}

// Quote renders a value like Flatten, but wraps every leaf in single quotes
// with backslashes and single quotes escaped.
func Quote(v any) string {
	return strings.Join(leaves(v, nil, true), " ")
}

// QuoteString quotes a single shell word.
func QuoteString(s string) string {
	return "'" + quoteEscaper.Replace(s) + "'"
}

func leaves(v any, out []string, quote bool) []string {
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			out = leaves(item, out, quote)
		}
		return out
	case []string:
		for _, item := range x {
			out = leaves(item, out, quote)
		}
		return out
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(x)) {
			out = leaves(k+"="+Flatten(x[k]), out, quote)
		}
		return out
	}

	s := String(v)
	if quote {
		s = QuoteString(s)
	}
	return append(out, s)
}

// String converts a scalar to its textual form.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
