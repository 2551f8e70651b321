package orchestrator

import (
	"context"
	"regexp"
	"strings"

	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/scope"
	"go.trai.ch/mach/internal/engine/recipe"
	"go.trai.ch/zerr"
)

var environName = regexp.MustCompile(`^[A-Z_]+$`)

// Script returns a recipe running text as a shell script. Options not given
// explicitly follow the orchestrator's output, shell and encoding options at
// the time the recipe runs.
func (o *Orchestrator) Script(text string, opts ...recipe.Option) domain.Recipe {
	s := recipe.New(text, opts...)
	return func(ctx context.Context, sc *scope.Scope) error {
		rt, err := o.runtime()
		if err != nil {
			return err
		}
		return s.Run(ctx, sc, rt)
	}
}

func (o *Orchestrator) runtime() (recipe.Runtime, error) {
	mode, err := domain.ParseOutputMode(o.StringOption(OptionOutput))
	if err != nil {
		return recipe.Runtime{}, err
	}

	defaults := recipe.Defaults()
	defaults.Output = mode
	if shell := o.StringOption(OptionShell); shell != "" {
		defaults.Shell = shell
	}
	if encoding := o.StringOption(OptionEncoding); encoding != "" {
		defaults.Encoding = encoding
	}

	executor := o.executor
	if o.BoolOption(OptionDryRun) {
		executor = o.dryRun
	}

	return recipe.Runtime{
		Executor: executor,
		Expander: o.expander,
		Echo:     o.out,
		Defaults: defaults,
	}, nil
}

// LoadMachfile declares the variables and registers the rules of a build
// description, in file order.
func (o *Orchestrator) LoadMachfile(mf *domain.Machfile) error {
	for _, v := range mf.Variables {
		if err := o.loadVariable(v); err != nil {
			return zerr.With(err, "machfile", mf.Path)
		}
	}

	for _, decl := range mf.Rules {
		rule, err := o.ruleFromDecl(decl)
		if err != nil {
			return zerr.With(zerr.With(err, "machfile", mf.Path), "rule", decl.Target)
		}
		o.RegisterRule(rule)
	}
	return nil
}

func (o *Orchestrator) loadVariable(v domain.VariableDecl) error {
	value := v.Value
	if v.Expr != "" {
		value = o.expander.Lazy(v.Expr)
	}

	if err := o.Declare(v.Name, value, v.CLI, v.Help); err != nil {
		return err
	}
	if !v.Export {
		return nil
	}

	// Exported variables are also visible to scripts under their upper-case
	// name, following later assignments.
	env := strings.ToUpper(v.Name)
	if !environName.MatchString(env) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidVariableName, "cannot export "+v.Name), "variable", v.Name)
	}
	if env != v.Name {
		name := v.Name
		o.Define(env, scope.Func(func(s *scope.Scope) (any, error) {
			return s.Get(name)
		}))
	}
	return nil
}

func (o *Orchestrator) ruleFromDecl(decl domain.RuleDecl) (*domain.Rule, error) {
	inputs := make([]domain.Input, 0, len(decl.Inputs))
	for _, in := range decl.Inputs {
		if in.Rule == nil {
			inputs = append(inputs, domain.NameInput(in.Name))
			continue
		}
		nested, err := o.ruleFromDecl(*in.Rule)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, domain.RuleInput(nested))
	}

	opts, err := recipe.FromDecl(decl.Options)
	if err != nil {
		return nil, err
	}

	var rcp domain.Recipe
	switch len(decl.Scripts) {
	case 0:
	case 1:
		rcp = o.Script(decl.Scripts[0], opts...)
	default:
		recipes := make([]domain.Recipe, len(decl.Scripts))
		for i, text := range decl.Scripts {
			recipes[i] = o.Script(text, opts...)
		}
		rcp = domain.Sequence(recipes...)
	}

	return domain.NewRule(decl.Target, inputs, rcp, decl.Help), nil
}
