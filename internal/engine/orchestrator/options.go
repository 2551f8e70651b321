package orchestrator

import (
	"regexp"

	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/engine/recipe"
	"go.trai.ch/zerr"
)

// Built-in option names.
const (
	OptionFile     = "file"
	OptionDryRun   = "dry-run"
	OptionOutput   = "output"
	OptionShell    = "shell"
	OptionEncoding = "encoding"
)

var optionName = regexp.MustCompile(`^\w[\w-]*\w$`)

func (o *Orchestrator) declareBuiltinOptions() {
	defaults := recipe.Defaults()
	for _, opt := range []domain.Option{
		{Name: OptionFile, Value: ""},
		{Name: OptionDryRun, Value: false},
		{Name: OptionOutput, Value: string(defaults.Output)},
		{Name: OptionShell, Value: defaults.Shell},
		{Name: OptionEncoding, Value: defaults.Encoding},
	} {
		// Built-in names are valid and distinct.
		_ = o.DeclareOption(opt.Name, opt.Value)
	}
}

// DeclareOption registers a command-line option. A bool default makes a
// switch (--name), a string default a valued option (--name=value).
func (o *Orchestrator) DeclareOption(name string, def any) error {
	if !optionName.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidVariableName, name), "option", name)
	}
	if _, ok := o.options[name]; ok {
		return zerr.With(zerr.Wrap(domain.ErrAlreadyDeclared, name), "option", name)
	}

	opt := &domain.Option{Name: name, Value: def}
	switch def.(type) {
	case bool:
	case string:
		opt.Valued = true
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidOptionDefault, name), "option", name)
	}

	o.options[name] = opt
	o.optionOrder = append(o.optionOrder, name)
	return nil
}

// SetOption assigns an option. Switches must be given without a value and
// valued options with one.
func (o *Orchestrator) SetOption(name, value string, hasValue bool) error {
	opt, ok := o.options[name]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrUnknownOption, "--"+name), "option", name)
	}

	switch {
	case !opt.Valued && hasValue:
		return zerr.With(zerr.Wrap(domain.ErrOptionTakesNoValue, "--"+name), "option", name)
	case opt.Valued && !hasValue:
		return zerr.With(zerr.Wrap(domain.ErrOptionExpectsValue, "--"+name), "option", name)
	case opt.Valued:
		opt.Value = value
	default:
		opt.Value = true
	}
	return nil
}

// Option returns the current value of an option.
func (o *Orchestrator) Option(name string) (any, bool) {
	opt, ok := o.options[name]
	if !ok {
		return nil, false
	}
	return opt.Value, true
}

// BoolOption returns the value of a switch, false if absent.
func (o *Orchestrator) BoolOption(name string) bool {
	v, _ := o.Option(name)
	b, _ := v.(bool)
	return b
}

// StringOption returns the value of a valued option, empty if absent.
func (o *Orchestrator) StringOption(name string) string {
	v, _ := o.Option(name)
	s, _ := v.(string)
	return s
}

// Options returns the declared options in declaration order.
func (o *Orchestrator) Options() []domain.Option {
	out := make([]domain.Option, 0, len(o.optionOrder))
	for _, name := range o.optionOrder {
		out = append(out, *o.options[name])
	}
	return out
}
