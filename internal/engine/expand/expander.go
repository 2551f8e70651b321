// Package expand implements the `$` escape language used in build scripts.
package expand

import (
	"maps"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/scope"
	"go.trai.ch/zerr"
)

const exprFilename = "<expr>"

// Expander substitutes `$` escapes in script text with values from a scope.
type Expander struct {
	functions map[string]function.Function
}

// New creates an Expander with the builtin function registry.
func New() *Expander {
	return &Expander{functions: builtins()}
}

// Expand processes text line by line, keeping line terminators as they are.
// Substituted text is never scanned again.
func (e *Expander) Expand(text string, s *scope.Scope) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	for len(text) > 0 {
		line, eol, rest := nextLine(text)
		out, err := e.expandLine(line, s)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		b.WriteString(eol)
		text = rest
	}
	return b.String(), nil
}

// nextLine splits off the first line and the run of CR/LF characters after it.
func nextLine(text string) (line, eol, rest string) {
	i := strings.IndexAny(text, "\r\n")
	if i < 0 {
		return text, "", ""
	}
	j := i
	for j < len(text) && (text[j] == '\r' || text[j] == '\n') {
		j++
	}
	return text[:i], text[i:j], text[j:]
}

func (e *Expander) expandLine(line string, s *scope.Scope) (string, error) {
	var b strings.Builder
	for {
		i := strings.IndexByte(line, '$')
		if i < 0 {
			b.WriteString(line)
			return b.String(), nil
		}
		b.WriteString(line[:i])

		out, n, err := e.escape(line[i+1:], s)
		if err != nil {
			return "", zerr.With(err, "line", line)
		}
		b.WriteString(out)
		line = line[i+1+n:]
	}
}

// escape expands the escape whose text follows a `$` and reports how many
// bytes of src it consumed.
func (e *Expander) escape(src string, s *scope.Scope) (string, int, error) {
	if src == "" {
		return "$", 0, nil
	}

	switch src[0] {
	case '$':
		return "$", 1, nil
	case '(':
		out, n, err := e.expression(src[1:], false, s)
		return out, n + 1, err
	case '\'':
		return e.quoted(src[1:], s)
	}

	key, size := utf8.DecodeRuneInString(src)
	if isWord(key) {
		return "", 0, ambiguous(src)
	}

	out, err := e.variable(string(key), false, s)
	return out, size, err
}

func (e *Expander) quoted(src string, s *scope.Scope) (string, int, error) {
	if src == "" {
		return "", 0, zerr.With(zerr.Wrap(domain.ErrMissingQuote, "$'"), "expected", "'")
	}

	if src[0] == '(' {
		out, n, err := e.expression(src[1:], true, s)
		return out, n + 2, err
	}

	key, size := utf8.DecodeRuneInString(src)
	if isWord(key) {
		return "", 0, ambiguous(src)
	}

	if !strings.HasPrefix(src[size:], "'") {
		return "", 0, zerr.With(zerr.Wrap(domain.ErrMissingQuote, "$'"+string(key)), "expected", "'")
	}

	out, err := e.variable(string(key), true, s)
	return out, size + 2, err
}

func (e *Expander) variable(key string, quote bool, s *scope.Scope) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	v, err = s.ResolveDeep(v)
	if err != nil {
		return "", err
	}
	return render(v, quote), nil
}

// expression finds the end of the expression starting at src: the first
// closing parenthesis before which the text parses as a complete expression.
// The returned count covers the expression and its closing marker.
func (e *Expander) expression(src string, quote bool, s *scope.Scope) (string, int, error) {
	closing := ")"
	if quote {
		closing = ")'"
	}

	for offset := 0; ; {
		j := strings.IndexByte(src[offset:], ')')
		if j < 0 {
			return "", 0, zerr.With(zerr.Wrap(domain.ErrUnterminatedExpression, "$("+src), "expression", src)
		}
		end := offset + j
		candidate := src[:end]

		switch strings.TrimSpace(candidate) {
		case "":
			return "", 0, zerr.Wrap(domain.ErrEmptyExpression, "$()")
		case "$":
			if !strings.HasPrefix(src[end:], closing) {
				return "", 0, missingClose(candidate, closing)
			}
			return render("$", quote), end + len(closing), nil
		}

		expr, diags := hclsyntax.ParseExpression([]byte(candidate), exprFilename, hcl.InitialPos)
		if diags.HasErrors() {
			offset = end + 1
			continue
		}

		if !strings.HasPrefix(src[end:], closing) {
			return "", 0, missingClose(candidate, closing)
		}

		v, err := e.evaluate(expr, candidate, s)
		if err != nil {
			return "", 0, err
		}
		return render(v, quote), end + len(closing), nil
	}
}

// Eval parses src as a whole expression and evaluates it against s.
func (e *Expander) Eval(src string, s *scope.Scope) (any, error) {
	if strings.TrimSpace(src) == "" {
		return nil, zerr.Wrap(domain.ErrEmptyExpression, "expr")
	}

	expr, diags := hclsyntax.ParseExpression([]byte(src), exprFilename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, zerr.With(zerr.Wrap(domain.ErrExpression, diags.Error()), "expression", src)
	}
	return e.evaluate(expr, src, s)
}

// Lazy returns a callable that evaluates src each time it is read.
func (e *Expander) Lazy(src string) scope.Func {
	return func(s *scope.Scope) (any, error) {
		return e.Eval(src, s)
	}
}

func (e *Expander) evaluate(expr hclsyntax.Expression, src string, s *scope.Scope) (any, error) {
	ctx, err := e.evalContext(expr, s)
	if err != nil {
		return nil, zerr.With(err, "expression", src)
	}

	val, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return nil, zerr.With(zerr.Wrap(domain.ErrExpression, diags.Error()), "expression", src)
	}

	v, err := FromCty(val)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrExpression, err.Error()), "expression", src)
	}
	return v, nil
}

// evalContext converts only the variables and callables the expression
// references.
func (e *Expander) evalContext(expr hclsyntax.Expression, s *scope.Scope) (*hcl.EvalContext, error) {
	vars := make(map[string]cty.Value)
	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		if _, done := vars[name]; done {
			continue
		}

		v, err := s.Get(name)
		if err != nil {
			return nil, err
		}
		v, err = s.ResolveDeep(v)
		if err != nil {
			return nil, err
		}
		cv, err := ToCty(v)
		if err != nil {
			return nil, zerr.With(err, "variable", name)
		}
		vars[name] = cv
	}

	funcs := e.functions
	for _, name := range calledFunctions(expr) {
		if _, builtin := e.functions[name]; builtin {
			continue
		}
		v, ok := s.Lookup(name)
		if !ok || !isCallable(v) {
			continue
		}
		if len(funcs) == len(e.functions) {
			funcs = maps.Clone(e.functions)
		}
		funcs[name] = callableFunc(s, v)
	}

	return &hcl.EvalContext{Variables: vars, Functions: funcs}, nil
}

func calledFunctions(expr hclsyntax.Expression) []string {
	var names []string
	hclsyntax.VisitAll(expr, func(n hclsyntax.Node) hcl.Diagnostics {
		if call, ok := n.(*hclsyntax.FunctionCallExpr); ok {
			names = append(names, call.Name)
		}
		return nil
	})
	return names
}

func isCallable(v any) bool {
	switch v.(type) {
	case scope.Func, func(*scope.Scope) (any, error):
		return true
	}
	return false
}

func render(v any, quote bool) string {
	if quote {
		return scope.Quote(v)
	}
	return scope.Flatten(v)
}

func isWord(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func ambiguous(src string) error {
	end := 0
	for end < len(src) && isWord(rune(src[end])) {
		end++
	}
	word := src[:end]
	return zerr.With(zerr.Wrap(domain.ErrAmbiguousVariable, "$"+word+": use $$"+word+" or $("+word+")"), "variable", word)
}

func missingClose(expr, closing string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingQuote, "$'("+expr), "expression", expr), "expected", closing)
}
