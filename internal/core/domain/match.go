package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Match is the result of a target recognizing a name. Pattern matches carry
// the wildcard captures in order; plain matches carry none.
type Match struct {
	target   *Target
	captures []string
}

// Target returns the target that produced the match.
func (m *Match) Target() *Target {
	return m.target
}

// Captures returns the wildcard captures, left to right.
func (m *Match) Captures() []string {
	return m.captures
}

// IsPattern reports whether the match came from a wildcard target.
func (m *Match) IsPattern() bool {
	return m.target.kind == KindPattern
}

// CookName replaces each successive wildcard in s by the next capture.
func (m *Match) CookName(s string) (string, error) {
	if !m.IsPattern() {
		return s, nil
	}

	parts := strings.Split(s, Wildcard)
	if len(parts)-1 > len(m.captures) {
		err := zerr.Wrap(ErrWildcardMismatch, s)
		err = zerr.With(err, "name", s)
		return "", zerr.With(err, "captures", len(m.captures))
	}

	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteString(m.captures[i-1])
		}
		b.WriteString(part)
	}
	return b.String(), nil
}

// CookRule produces the concrete rule for this match. A plain match returns r
// itself. A pattern match returns a new rule whose target is the file named by
// the cooked pattern. Name inputs are cooked the same way, target inputs keep
// their kind as described by Target.Cooked, and nested rule inputs pass
// through unchanged.
func (m *Match) CookRule(r *Rule) (*Rule, error) {
	if !m.IsPattern() {
		return r, nil
	}

	name, err := m.CookName(r.Target.Name())
	if err != nil {
		return nil, err
	}

	inputs := make([]Input, 0, len(r.Inputs))
	for _, in := range r.Inputs {
		switch in.Kind() {
		case InputRule:
			inputs = append(inputs, in)
		case InputTarget:
			cooked, err := m.CookName(in.Target().Name())
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, TargetInput(in.Target().Cooked(cooked)))
		default:
			cooked, err := m.CookName(in.Name())
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, NameInput(cooked))
		}
	}

	return &Rule{
		Target: NewFileTarget(name),
		Inputs: inputs,
		Recipe: r.Recipe,
		Help:   r.Help,
	}, nil
}
