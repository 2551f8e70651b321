// Package orchestrator implements the build engine: the rule registry, the
// recursive staleness check and the variable and option declarations that
// drive it.
package orchestrator

import (
	"context"
	"io"
	"strings"

	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/mach/internal/core/scope"
	"go.trai.ch/mach/internal/engine/expand"
	"go.trai.ch/zerr"
)

// MaxDepth bounds how deeply inputs may nest while building one target.
const MaxDepth = 1000

// RuleStatus represents the state of a rule within a run.
type RuleStatus string

const (
	// StatusPending indicates the rule has not been visited.
	StatusPending RuleStatus = "Pending"
	// StatusRunning indicates the rule's inputs or recipe are being built.
	StatusRunning RuleStatus = "Running"
	// StatusCompleted indicates the recipe ran and succeeded.
	StatusCompleted RuleStatus = "Completed"
	// StatusFailed indicates the rule or one of its inputs failed.
	StatusFailed RuleStatus = "Failed"
	// StatusCached indicates the target was up to date.
	StatusCached RuleStatus = "Cached"
)

// Orchestrator owns the rules, variables and options of one run and builds
// targets from them. It is not safe for concurrent use.
type Orchestrator struct {
	executor  ports.Executor
	dryRun    ports.Executor
	logger    ports.Logger
	telemetry ports.Telemetry
	expander  *expand.Expander
	out       io.Writer

	rules  []*domain.Rule
	cooked map[string]*domain.Rule
	status map[string]RuleStatus
	stack  []string

	scope       *scope.Scope
	flags       []domain.Flag
	options     map[string]*domain.Option
	optionOrder []string
}

// New creates an orchestrator with the built-in options declared. Script
// recipes run on executor, or on dryRun when the dry-run option is set, and
// echo to out.
func New(
	executor ports.Executor,
	dryRun ports.Executor,
	logger ports.Logger,
	telemetry ports.Telemetry,
	out io.Writer,
) *Orchestrator {
	o := &Orchestrator{
		executor:  executor,
		dryRun:    dryRun,
		logger:    logger,
		telemetry: telemetry,
		expander:  expand.New(),
		out:       out,
		cooked:    make(map[string]*domain.Rule),
		status:    make(map[string]RuleStatus),
		scope:     scope.New(nil),
		options:   make(map[string]*domain.Option),
	}
	o.declareBuiltinOptions()
	return o
}

// Scope returns the root scope.
func (o *Orchestrator) Scope() *scope.Scope {
	return o.scope
}

// Expander returns the expander used by script recipes.
func (o *Orchestrator) Expander() *expand.Expander {
	return o.expander
}

// RegisterRule appends a rule to the registry. Earlier rules take precedence.
func (o *Orchestrator) RegisterRule(rule *domain.Rule) {
	o.rules = append(o.rules, rule)
}

// Rules returns the registered rules in registration order.
func (o *Orchestrator) Rules() []*domain.Rule {
	return append([]*domain.Rule(nil), o.rules...)
}

// HasRule reports whether a rule is registered under exactly this name.
func (o *Orchestrator) HasRule(name string) bool {
	for _, r := range o.rules {
		if r.Name() == name {
			return true
		}
	}
	return false
}

// Status returns the state of the named rule in this run.
func (o *Orchestrator) Status(name string) RuleStatus {
	if s, ok := o.status[name]; ok {
		return s
	}
	return StatusPending
}

// ResolveRule returns the concrete rule that makes name. The first
// registered rule whose target matches wins; pattern rules are cooked for the
// name and the result is remembered, so later lookups return the same rule.
func (o *Orchestrator) ResolveRule(name string) (*domain.Rule, error) {
	if r, ok := o.cooked[name]; ok {
		return r, nil
	}

	for _, r := range o.rules {
		m := r.Matches(name)
		if m == nil {
			continue
		}

		cooked, err := m.CookRule(r)
		if err != nil {
			return nil, zerr.With(err, "target", name)
		}
		o.cooked[name] = cooked
		o.logger.Debug("resolved " + name + " via " + r.Name())
		return cooked, nil
	}

	return nil, zerr.With(zerr.Wrap(domain.ErrNoRule, "cannot make `"+name+"`"), "target", name)
}

// Make resolves and builds each name in order, stopping at the first failure.
func (o *Orchestrator) Make(ctx context.Context, names []string) error {
	for _, name := range names {
		rule, err := o.ResolveRule(name)
		if err != nil {
			return err
		}
		if err := o.Build(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}

// Build makes rule's inputs depth-first, then runs its recipe if the target
// is stale. Staleness is decided against the last input only.
func (o *Orchestrator) Build(ctx context.Context, rule *domain.Rule) error {
	name := rule.Name()
	if o.status[name] == StatusRunning {
		return o.cycleError(name)
	}
	if len(o.stack) >= MaxDepth {
		return zerr.With(
			zerr.With(zerr.Wrap(domain.ErrRecursionLimit, "cannot make `"+name+"`"), "depth", len(o.stack)),
			"stack", append([]string(nil), o.stack...),
		)
	}

	o.status[name] = StatusRunning
	o.stack = append(o.stack, name)
	defer func() { o.stack = o.stack[:len(o.stack)-1] }()

	o.logger.Info("making " + name + "...")
	ctx, vertex := o.telemetry.Record(ctx, name)

	stale := rule.Target.Outdated(nil)
	for _, in := range rule.Inputs {
		inRule, err := o.inputRule(in)
		if err != nil {
			o.fail(name, vertex, err)
			return err
		}
		if err := o.Build(ctx, inRule); err != nil {
			o.fail(name, vertex, err)
			return err
		}
		stale = rule.Target.Outdated(inRule.Target)
	}

	if !stale {
		o.status[name] = StatusCached
		vertex.Cached()
		o.logger.Info("...got " + name + ".")
		return nil
	}

	if err := o.execute(ctx, rule); err != nil {
		err = zerr.With(zerr.Wrap(err, "rule execution failed"), "rule", name)
		o.fail(name, vertex, err)
		return err
	}

	rule.Target.MarkDone()
	o.status[name] = StatusCompleted
	vertex.Complete(nil)
	o.logger.Info("...made " + name + ".")
	return nil
}

func (o *Orchestrator) fail(name string, vertex ports.Vertex, err error) {
	o.status[name] = StatusFailed
	vertex.Complete(err)
}

func (o *Orchestrator) cycleError(name string) error {
	start := 0
	for i, n := range o.stack {
		if n == name {
			start = i
			break
		}
	}
	path := append(append([]string(nil), o.stack[start:]...), name)
	return zerr.With(zerr.Wrap(domain.ErrCycleDetected, "cannot make `"+name+"`"), "cycle", strings.Join(path, " -> "))
}

// inputRule finds the rule that makes an input. Targets get a rule without a
// recipe. Unknown names that look like files are treated as source files.
func (o *Orchestrator) inputRule(in domain.Input) (*domain.Rule, error) {
	switch in.Kind() {
	case domain.InputRule:
		return in.Rule(), nil
	case domain.InputTarget:
		return &domain.Rule{Target: in.Target()}, nil
	}

	rule, err := o.ResolveRule(in.Name())
	if err == nil {
		return rule, nil
	}
	if domain.IsFileName(in.Name()) {
		return &domain.Rule{Target: domain.NewFileTarget(in.Name())}, nil
	}
	return nil, err
}

// execute runs the recipe in a child of the root scope binding the target
// and its inputs.
func (o *Orchestrator) execute(ctx context.Context, rule *domain.Rule) error {
	if rule.Recipe == nil {
		return nil
	}

	names := rule.InputNames()
	var first any
	if len(names) > 0 {
		first = names[0]
	}

	child := o.scope.NewChild(map[string]any{
		"@":           rule.Name(),
		"target":      rule.Name(),
		"<":           first,
		"first_input": first,
		"^":           names,
		"inputs":      names,
	})
	return rule.Recipe(ctx, child)
}
