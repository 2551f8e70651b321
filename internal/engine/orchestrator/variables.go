package orchestrator

import (
	"regexp"

	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/zerr"
)

var variableName = regexp.MustCompile(`^\w\w+$`)

// Declare registers a flag and sets its default in the root scope. When cli
// is set the flag may be assigned on the command line as name=value. Flags
// with help text are listed by the help rule.
func (o *Orchestrator) Declare(name string, def any, cli bool, help string) error {
	if !variableName.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidVariableName, name), "variable", name)
	}
	if _, ok := o.flag(name); ok {
		return zerr.With(zerr.Wrap(domain.ErrAlreadyDeclared, name), "variable", name)
	}

	o.flags = append(o.flags, domain.Flag{Name: name, Default: def, CLI: cli, Help: help})
	o.scope.Set(name, def)
	o.logger.Debug("declared " + name)
	return nil
}

// Flags returns the declared flags in declaration order.
func (o *Orchestrator) Flags() []domain.Flag {
	return append([]domain.Flag(nil), o.flags...)
}

// Define sets a variable in the root scope without declaring it.
func (o *Orchestrator) Define(name string, value any) {
	o.scope.Set(name, value)
}

// Export sets a variable in the root scope, where it stays visible to every
// later recipe.
func (o *Orchestrator) Export(name string, value any) {
	o.scope.Export(name, value)
}

// SetFlag assigns a declared flag from the command line.
func (o *Orchestrator) SetFlag(name string, value any) error {
	f, ok := o.flag(name)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrUndeclaredFlag, name), "flag", name)
	}
	if !f.CLI {
		return zerr.With(zerr.Wrap(domain.ErrFlagNotCLI, name), "flag", name)
	}

	o.scope.Set(name, value)
	return nil
}

func (o *Orchestrator) flag(name string) (domain.Flag, bool) {
	for _, f := range o.flags {
		if f.Name == name {
			return f, true
		}
	}
	return domain.Flag{}, false
}
