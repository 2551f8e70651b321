// Package app implements the application layer for mach.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/mach/internal/adapters/settings"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/mach/internal/core/scope"
	"go.trai.ch/mach/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// HelpRule is the target of the built-in listing rule.
const HelpRule = "help"

const helpText = "List all targets along with the help message associated with them."

// App represents the main application logic.
type App struct {
	loader   ports.MachfileLoader
	factory  *orchestrator.Factory
	renderer ports.HelpRenderer
	logger   ports.Logger
	settings *settings.Settings
	out      io.Writer
	watch    *WatchDeps
}

// New creates a new App instance. Listings are written to out.
func New(
	loader ports.MachfileLoader,
	factory *orchestrator.Factory,
	renderer ports.HelpRenderer,
	logger ports.Logger,
	cfg *settings.Settings,
	out io.Writer,
) *App {
	return &App{
		loader:   loader,
		factory:  factory,
		renderer: renderer,
		logger:   logger,
		settings: cfg,
		out:      out,
	}
}

// Run builds the targets named in args. Args follow the mach command line:
// target names, name=value flag assignments and --option[=value] switches.
func (a *App) Run(ctx context.Context, args []string) error {
	path, err := a.locate(fileArg(args))
	if err != nil {
		return err
	}
	return a.build(ctx, path, args)
}

// List prints the flags and public rules of the Machfile. An empty file
// selects the configured or discovered Machfile.
func (a *App) List(_ context.Context, file string) error {
	path, err := a.locate(file)
	if err != nil {
		return err
	}
	orch, err := a.load(path)
	if err != nil {
		return err
	}
	return a.renderer.Render(a.out, orch.Flags(), orch.Rules())
}

func (a *App) build(ctx context.Context, path string, args []string) error {
	orch, err := a.load(path)
	if err != nil {
		return err
	}

	targets, err := orch.ProcessArgv(args)
	if err != nil {
		return err
	}

	if err := orch.Make(ctx, targets); err != nil {
		return zerr.Wrap(err, "build failed")
	}
	return nil
}

// load creates an orchestrator for one run with the settings applied as
// option defaults and the Machfile at path registered.
func (a *App) load(path string) (*orchestrator.Orchestrator, error) {
	orch := a.factory.New()
	if err := a.applySettings(orch); err != nil {
		return nil, err
	}

	mf, err := a.loader.Load(path)
	if err != nil {
		return nil, err
	}
	if err := orch.LoadMachfile(mf); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if !orch.HasRule(HelpRule) {
		orch.RegisterRule(domain.NewRule(HelpRule, nil, a.helpRecipe(orch), helpText))
	}
	return orch, nil
}

func (a *App) applySettings(orch *orchestrator.Orchestrator) error {
	if a.settings == nil {
		return nil
	}
	for name, value := range map[string]string{
		orchestrator.OptionOutput:   a.settings.Output,
		orchestrator.OptionShell:    a.settings.Shell,
		orchestrator.OptionEncoding: a.settings.Encoding,
	} {
		if value == "" {
			continue
		}
		if err := orch.SetOption(name, value, true); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) helpRecipe(orch *orchestrator.Orchestrator) domain.Recipe {
	return func(_ context.Context, _ *scope.Scope) error {
		return a.renderer.Render(a.out, orch.Flags(), orch.Rules())
	}
}

// locate returns the absolute Machfile path and makes its directory the
// working directory, so rule names resolve relative to the Machfile.
func (a *App) locate(file string) (string, error) {
	if file == "" && a.settings != nil {
		file = a.settings.Machfile
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}

	var path string
	if file == "" {
		if path, err = a.loader.Discover(cwd); err != nil {
			return "", err
		}
	} else {
		path = file
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	if dir := filepath.Dir(path); dir != filepath.Clean(cwd) {
		a.logger.Info("entering " + dir)
		if err := os.Chdir(dir); err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to enter Machfile directory"), "dir", dir)
		}
	}
	return path, nil
}

// fileArg returns the value of the last --file=PATH in args.
func fileArg(args []string) string {
	var file string
	for _, arg := range orchestrator.ClassifyArgv(args) {
		if arg.Kind == orchestrator.ArgOption && arg.Name == orchestrator.OptionFile && arg.HasValue {
			file = arg.Value
		}
	}
	return file
}
