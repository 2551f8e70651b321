package recipe

import (
	"maps"

	"go.trai.ch/mach/internal/core/domain"
)

const (
	// DefaultShell is the interpreter used when no shell is configured.
	DefaultShell = "/bin/sh"
	// DefaultEncoding is the script text encoding used when none is configured.
	DefaultEncoding = "utf-8"
)

// Options control how a script is echoed, run and checked.
type Options struct {
	Echo     bool
	Check    bool
	Env      map[string]string
	Output   domain.OutputMode
	Shell    string
	Encoding string
}

// Defaults returns the options every script starts from.
func Defaults() Options {
	return Options{
		Echo:     true,
		Check:    true,
		Output:   domain.OutputLine,
		Shell:    DefaultShell,
		Encoding: DefaultEncoding,
	}
}

// Option sets one script option explicitly.
type Option func(*Options)

// WithEcho toggles printing the expanded script before running it.
func WithEcho(echo bool) Option {
	return func(o *Options) { o.Echo = echo }
}

// WithCheck toggles failing on a nonzero exit code.
func WithCheck(check bool) Option {
	return func(o *Options) { o.Check = check }
}

// WithEnv layers variables over the scope's exported environment.
func WithEnv(env map[string]string) Option {
	env = maps.Clone(env)
	return func(o *Options) {
		merged := make(map[string]string, len(o.Env)+len(env))
		maps.Copy(merged, o.Env)
		maps.Copy(merged, env)
		o.Env = merged
	}
}

// WithOutput selects the output policy.
func WithOutput(mode domain.OutputMode) Option {
	return func(o *Options) { o.Output = mode }
}

// WithShell selects the interpreter.
func WithShell(shell string) Option {
	return func(o *Options) { o.Shell = shell }
}

// WithEncoding selects the script text encoding.
func WithEncoding(encoding string) Option {
	return func(o *Options) { o.Encoding = encoding }
}

// FromDecl converts options read from a build description. Unset fields
// produce no option, so they keep falling back to the defaults.
func FromDecl(decl domain.ScriptOptions) ([]Option, error) {
	var opts []Option
	if decl.Echo != nil {
		opts = append(opts, WithEcho(*decl.Echo))
	}
	if decl.Check != nil {
		opts = append(opts, WithCheck(*decl.Check))
	}
	if len(decl.Env) > 0 {
		opts = append(opts, WithEnv(decl.Env))
	}
	if decl.Output != "" {
		mode, err := domain.ParseOutputMode(decl.Output)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithOutput(mode))
	}
	if decl.Shell != "" {
		opts = append(opts, WithShell(decl.Shell))
	}
	if decl.Encoding != "" {
		opts = append(opts, WithEncoding(decl.Encoding))
	}
	return opts, nil
}
