package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/zerr"
	"mvdan.cc/sh/v3/syntax"
)

var _ ports.Executor = (*DryRunExecutor)(nil)

// DryRunExecutor checks that scripts parse as shell code without running them.
type DryRunExecutor struct {
	logger ports.Logger
}

// NewDryRunExecutor creates a new DryRunExecutor.
func NewDryRunExecutor(logger ports.Logger) *DryRunExecutor {
	return &DryRunExecutor{logger: logger}
}

// Execute parses the script in the dialect of the requested shell and
// reports success without spawning anything.
func (d *DryRunExecutor) Execute(_ context.Context, req ports.ExecRequest) (int, error) {
	shell := req.Shell
	if shell == "" {
		shell = DefaultShell
	}

	parser := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(dialect(shell)))
	file, err := parser.Parse(strings.NewReader(req.Script), shell)
	if err != nil {
		return -1, zerr.With(zerr.Wrap(err, "invalid shell syntax"), "shell", shell)
	}

	d.logger.Info(fmt.Sprintf("dry run: %d statement(s) not executed", len(file.Stmts)))
	return 0, nil
}

// dialect picks the parser variant matching the shell's name, falling back
// to POSIX.
func dialect(shell string) syntax.LangVariant {
	var lang syntax.LangVariant
	if err := lang.Set(filepath.Base(shell)); err != nil || lang == syntax.LangAuto {
		return syntax.LangPOSIX
	}
	return lang
}
