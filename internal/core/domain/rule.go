package domain

import (
	"context"

	"go.trai.ch/mach/internal/core/scope"
)

// Recipe is the action that produces a rule's target. It receives the scope
// holding the target and input bindings.
type Recipe func(ctx context.Context, s *scope.Scope) error

// Sequence chains recipes, stopping at the first failure.
func Sequence(recipes ...Recipe) Recipe {
	return func(ctx context.Context, s *scope.Scope) error {
		for _, r := range recipes {
			if r == nil {
				continue
			}
			if err := r(ctx, s); err != nil {
				return err
			}
		}
		return nil
	}
}

// Rule ties a target to its inputs and the recipe that makes it.
type Rule struct {
	Target *Target
	Inputs []Input
	Recipe Recipe
	Help   string
}

// NewRule creates a rule for the named target. The target kind follows
// NewTarget. A nil recipe makes a rule that only aggregates its inputs.
func NewRule(target string, inputs []Input, recipe Recipe, help string) *Rule {
	return &Rule{
		Target: NewTarget(target),
		Inputs: inputs,
		Recipe: recipe,
		Help:   help,
	}
}

// Name returns the rule's target name.
func (r *Rule) Name() string {
	return r.Target.Name()
}

// String implements fmt.Stringer.
func (r *Rule) String() string {
	return r.Target.Name()
}

// Matches delegates to the rule's target.
func (r *Rule) Matches(name string) *Match {
	return r.Target.Matches(name)
}

// IsPrivate reports whether the rule is a helper hidden from listings.
func (r *Rule) IsPrivate() bool {
	name := r.Target.Name()
	return len(name) > 0 && name[0] == '_'
}

// InputNames returns the names of the rule's inputs in order.
func (r *Rule) InputNames() []string {
	names := make([]string, len(r.Inputs))
	for i, in := range r.Inputs {
		names[i] = in.Name()
	}
	return names
}

// InputKind tags the variant held by an Input.
type InputKind int

const (
	// InputName is a bare name resolved through the rule registry.
	InputName InputKind = iota
	// InputTarget is a target without its own recipe.
	InputTarget
	// InputRule is an inline rule.
	InputRule
)

// Input is one dependency of a rule: a bare name, a target or a nested rule.
type Input struct {
	kind   InputKind
	name   string
	target *Target
	rule   *Rule
}

// NameInput references another rule by name.
func NameInput(name string) Input {
	return Input{kind: InputName, name: name}
}

// TargetInput references a target that has no recipe of its own.
func TargetInput(t *Target) Input {
	return Input{kind: InputTarget, target: t}
}

// RuleInput embeds a rule as a dependency.
func RuleInput(r *Rule) Input {
	return Input{kind: InputRule, rule: r}
}

// Names converts plain names into name inputs.
func Names(names ...string) []Input {
	inputs := make([]Input, len(names))
	for i, n := range names {
		inputs[i] = NameInput(n)
	}
	return inputs
}

// Kind returns the variant tag.
func (i Input) Kind() InputKind {
	return i.kind
}

// Target returns the target of a target input, or nil.
func (i Input) Target() *Target {
	return i.target
}

// Rule returns the rule of a rule input, or nil.
func (i Input) Rule() *Rule {
	return i.rule
}

// Name returns the name the input refers to.
func (i Input) Name() string {
	switch i.kind {
	case InputTarget:
		return i.target.Name()
	case InputRule:
		return i.rule.Name()
	default:
		return i.name
	}
}

// String implements fmt.Stringer.
func (i Input) String() string {
	return i.Name()
}
