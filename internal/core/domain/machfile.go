package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// OutputMode selects how a script's output streams are handled.
type OutputMode string

const (
	// OutputLine forwards every line as soon as it is read.
	OutputLine OutputMode = "line"
	// OutputDeferred buffers output and emits it once the script ends.
	OutputDeferred OutputMode = "deferred"
	// OutputMute discards output.
	OutputMute OutputMode = "mute"
)

// ParseOutputMode validates a textual output mode. The empty string selects OutputLine.
func ParseOutputMode(s string) (OutputMode, error) {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputLine:
		return OutputLine, nil
	case OutputDeferred:
		return OutputDeferred, nil
	case OutputMute:
		return OutputMute, nil
	}
	return "", zerr.With(zerr.Wrap(ErrUnknownOutputMode, s), "output", s)
}

// Machfile is a build description after decoding.
type Machfile struct {
	Path      string
	Variables []VariableDecl
	Rules     []RuleDecl
}

// VariableDecl declares a scope variable. Expr, when set, is evaluated
// lazily each time the variable is read, instead of using Value.
type VariableDecl struct {
	Name   string
	Value  any
	Expr   string
	CLI    bool
	Help   string
	Export bool
}

// RuleDecl describes a rule. Each entry of Scripts becomes one script recipe
// run in order.
type RuleDecl struct {
	Target  string
	Inputs  []InputDecl
	Scripts []string
	Help    string
	Options ScriptOptions
}

// InputDecl is either a name or an inline rule.
type InputDecl struct {
	Name string
	Rule *RuleDecl
}

// ScriptOptions carries per-rule script settings. Nil and empty fields fall
// back to the script defaults.
type ScriptOptions struct {
	Echo     *bool
	Check    *bool
	Env      map[string]string
	Output   string
	Shell    string
	Encoding string
}
