// Package recipe implements script recipes: shell templates expanded against
// a scope and handed to an executor.
package recipe

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/lithammer/dedent"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/mach/internal/core/scope"
	"go.trai.ch/zerr"
)

// Expander substitutes `$` escapes in script text.
type Expander interface {
	Expand(text string, s *scope.Scope) (string, error)
}

// Runtime is what a script needs from its surroundings when it runs.
type Runtime struct {
	Executor ports.Executor
	Expander Expander
	// Echo receives the expanded script when echoing is on.
	Echo io.Writer
	// Defaults are the options explicit script options are applied over.
	Defaults Options
}

// Script is an immutable script template plus its explicit options.
type Script struct {
	template string
	opts     []Option
}

// New creates a script. The text is trimmed of surrounding line breaks and
// its common indentation is removed.
func New(text string, opts ...Option) *Script {
	return &Script{
		template: Dedent(text),
		opts:     append([]Option(nil), opts...),
	}
}

// Template returns the dedented script text.
func (s *Script) Template() string {
	return s.template
}

// Options returns the effective options over the given defaults.
func (s *Script) Options(defaults Options) Options {
	o := defaults
	o.Env = maps.Clone(defaults.Env)
	for _, opt := range s.opts {
		opt(&o)
	}
	return o
}

// Run expands the template in sc and executes it.
func (s *Script) Run(ctx context.Context, sc *scope.Scope, rt Runtime) error {
	opts := s.Options(rt.Defaults)

	script, err := rt.Expander.Expand(s.template, sc)
	if err != nil {
		return err
	}

	if opts.Echo && rt.Echo != nil {
		if _, err := io.WriteString(rt.Echo, echoText(script)); err != nil {
			return zerr.Wrap(err, "failed to echo script")
		}
	}

	env, err := sc.Environ()
	if err != nil {
		return err
	}
	maps.Copy(env, opts.Env)

	code, err := rt.Executor.Execute(ctx, ports.ExecRequest{
		Script:   script,
		Env:      env,
		Shell:    opts.Shell,
		Output:   opts.Output,
		Encoding: opts.Encoding,
	})
	if err != nil {
		return err
	}

	if opts.Check && code != 0 {
		return zerr.With(zerr.Wrap(domain.ErrScriptFailed, fmt.Sprintf("script returned error code %d", code)), "exit_code", code)
	}
	return nil
}

// echoText prefixes each non-blank line with "> ".
func echoText(script string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(script, "\n") {
		if strings.TrimSpace(line) != "" {
			b.WriteString("> ")
		}
		b.WriteString(line)
	}
	return strings.Trim(b.String(), "\r\n") + "\n"
}

// Dedent removes the whitespace prefix shared by all non-blank lines of text
// and trims leading and trailing line breaks.
func Dedent(text string) string {
	return strings.Trim(dedent.Dedent(text), "\r\n")
}
