package orchestrator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/mach/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

func TestOrchestrator_Declare(t *testing.T) {
	f := newFixture(t).quiet()

	require.NoError(t, f.orch.Declare("CC", "gcc", true, "C compiler"))
	require.NoError(t, f.orch.Declare("lazy", "lazy var", false, ""))

	require.ErrorIs(t, f.orch.Declare("x", 1, false, ""), domain.ErrInvalidVariableName)
	require.ErrorIs(t, f.orch.Declare("bad-name", 1, false, ""), domain.ErrInvalidVariableName)
	require.ErrorIs(t, f.orch.Declare("CC", "clang", true, ""), domain.ErrAlreadyDeclared)

	flags := f.orch.Flags()
	require.Len(t, flags, 2)
	assert.Equal(t, domain.Flag{Name: "CC", Default: "gcc", CLI: true, Help: "C compiler"}, flags[0])
	assert.True(t, flags[0].Documented())
	assert.False(t, flags[1].Documented())

	v, err := f.orch.Scope().Get("CC")
	require.NoError(t, err)
	assert.Equal(t, "gcc", v)
}

func TestOrchestrator_SetFlag(t *testing.T) {
	f := newFixture(t).quiet()
	require.NoError(t, f.orch.Declare("CC", "gcc", true, ""))
	require.NoError(t, f.orch.Declare("internal", "x", false, ""))

	require.NoError(t, f.orch.SetFlag("CC", "clang"))
	v, err := f.orch.Scope().Get("CC")
	require.NoError(t, err)
	assert.Equal(t, "clang", v)

	require.ErrorIs(t, f.orch.SetFlag("LD", "ld"), domain.ErrUndeclaredFlag)
	require.ErrorIs(t, f.orch.SetFlag("internal", "y"), domain.ErrFlagNotCLI)
}

func TestOrchestrator_Options(t *testing.T) {
	f := newFixture(t).quiet()

	assert.False(t, f.orch.BoolOption(orchestrator.OptionDryRun))
	assert.Equal(t, "line", f.orch.StringOption(orchestrator.OptionOutput))
	assert.Equal(t, "/bin/sh", f.orch.StringOption(orchestrator.OptionShell))
	assert.Equal(t, "utf-8", f.orch.StringOption(orchestrator.OptionEncoding))
	assert.Len(t, f.orch.Options(), 5)

	require.NoError(t, f.orch.DeclareOption("verbose", false))
	require.NoError(t, f.orch.DeclareOption("jobs", "1"))
	require.ErrorIs(t, f.orch.DeclareOption("jobs", "2"), domain.ErrAlreadyDeclared)
	require.ErrorIs(t, f.orch.DeclareOption("count", 3), domain.ErrInvalidOptionDefault)
	require.ErrorIs(t, f.orch.DeclareOption("-x", false), domain.ErrInvalidVariableName)

	require.NoError(t, f.orch.SetOption("verbose", "", false))
	assert.True(t, f.orch.BoolOption("verbose"))
	require.NoError(t, f.orch.SetOption("jobs", "4", true))
	assert.Equal(t, "4", f.orch.StringOption("jobs"))

	require.ErrorIs(t, f.orch.SetOption("missing", "", false), domain.ErrUnknownOption)
	require.ErrorIs(t, f.orch.SetOption("verbose", "yes", true), domain.ErrOptionTakesNoValue)
	require.ErrorIs(t, f.orch.SetOption("jobs", "", false), domain.ErrOptionExpectsValue)

	_, ok := f.orch.Option("missing")
	assert.False(t, ok)
	assert.Empty(t, f.orch.StringOption("missing"))
}

func TestClassifyArgv(t *testing.T) {
	got := orchestrator.ClassifyArgv([]string{
		"--dry-run", "--output=mute", "--file=", "CC=clang", "x=y", "all", "path/to=file",
	})

	assert.Equal(t, []orchestrator.Arg{
		{Kind: orchestrator.ArgOption, Name: "dry-run"},
		{Kind: orchestrator.ArgOption, Name: "output", Value: "mute", HasValue: true},
		{Kind: orchestrator.ArgOption, Name: "file"},
		{Kind: orchestrator.ArgFlag, Name: "CC", Value: "clang", HasValue: true},
		{Kind: orchestrator.ArgTarget, Name: "x=y"},
		{Kind: orchestrator.ArgTarget, Name: "all"},
		{Kind: orchestrator.ArgTarget, Name: "path/to=file"},
	}, got)
}

func TestOrchestrator_ProcessArgv(t *testing.T) {
	f := newFixture(t).quiet()
	require.NoError(t, f.orch.Declare("CC", "gcc", true, ""))

	targets, err := f.orch.ProcessArgv([]string{"--dry-run", "CC=clang", "all", "--output=mute", "test"})
	require.NoError(t, err)
	assert.Equal(t, []string{"all", "test"}, targets)
	assert.True(t, f.orch.BoolOption(orchestrator.OptionDryRun))
	assert.Equal(t, "mute", f.orch.StringOption(orchestrator.OptionOutput))

	v, err := f.orch.Scope().Get("CC")
	require.NoError(t, err)
	assert.Equal(t, "clang", v)

	targets, err = f.orch.ProcessArgv(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{orchestrator.DefaultTarget}, targets)

	_, err = f.orch.ProcessArgv([]string{"LD=ld"})
	require.ErrorIs(t, err, domain.ErrUndeclaredFlag)

	_, err = f.orch.ProcessArgv([]string{"--shell"})
	require.ErrorIs(t, err, domain.ErrOptionExpectsValue)
}

func TestOrchestrator_ScriptFollowsOptions(t *testing.T) {
	f := newFixture(t).quiet()
	require.NoError(t, f.orch.SetOption(orchestrator.OptionOutput, "deferred", true))
	require.NoError(t, f.orch.SetOption(orchestrator.OptionShell, "/bin/bash", true))
	f.orch.Define("CFLAGS", "-O2")

	f.executor.EXPECT().Execute(gomock.Any(), ports.ExecRequest{
		Script:   "cc -O2 -o main",
		Env:      map[string]string{"CFLAGS": "-O2"},
		Shell:    "/bin/bash",
		Output:   domain.OutputDeferred,
		Encoding: "utf-8",
	}).Return(0, nil)

	f.orch.RegisterRule(domain.NewRule("main", nil, f.orch.Script("cc $(CFLAGS) -o $@"), ""))
	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	assert.Equal(t, "> cc -O2 -o main\n", f.out.String())
}

func TestOrchestrator_ScriptDryRun(t *testing.T) {
	f := newFixture(t).quiet()
	require.NoError(t, f.orch.SetOption(orchestrator.OptionDryRun, "", false))

	f.dryRun.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(0, nil)

	f.orch.RegisterRule(domain.NewRule("main", nil, f.orch.Script("rm -rf build"), ""))
	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
}

func TestOrchestrator_ScriptInvalidOutputOption(t *testing.T) {
	f := newFixture(t).quiet()
	require.NoError(t, f.orch.SetOption(orchestrator.OptionOutput, "loud", true))

	f.orch.RegisterRule(domain.NewRule("main", nil, f.orch.Script("true"), ""))
	err := f.orch.Make(context.Background(), []string{"main"})
	require.ErrorIs(t, err, domain.ErrUnknownOutputMode)
}

func TestOrchestrator_LoadMachfile(t *testing.T) {
	f := newFixture(t).quiet()
	no := false

	mf := &domain.Machfile{
		Path: "Machfile.yaml",
		Variables: []domain.VariableDecl{
			{Name: "TEST", Value: "JUST A TEST", CLI: true, Help: "A test value"},
			{Name: "greeting", Expr: `upper("hello")`},
			{Name: "cflags", Value: []any{"-O2", "-g"}, Export: true},
		},
		Rules: []domain.RuleDecl{
			{
				Target: "main",
				Help:   "build everything",
				Inputs: []domain.InputDecl{
					{Rule: &domain.RuleDecl{Target: "_setup"}},
					{Name: "vartest"},
				},
			},
			{
				Target:  "vartest",
				Scripts: []string{"echo $(greeting) $$TEST", "echo second"},
				Options: domain.ScriptOptions{Echo: &no, Output: "mute"},
			},
		},
	}
	require.NoError(t, f.orch.LoadMachfile(mf))

	require.Len(t, f.orch.Rules(), 2)
	assert.Equal(t, "build everything", f.orch.Rules()[0].Help)
	assert.Len(t, f.orch.Flags(), 3)

	greeting, err := f.orch.Scope().Value("greeting")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", greeting)

	gomock.InOrder(
		f.executor.EXPECT().Execute(gomock.Any(), ports.ExecRequest{
			Script:   "echo HELLO $TEST",
			Env:      map[string]string{"TEST": "JUST A TEST", "CFLAGS": "-O2 -g"},
			Shell:    "/bin/sh",
			Output:   domain.OutputMute,
			Encoding: "utf-8",
		}).Return(0, nil),
		f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(0, nil),
	)

	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	assert.Empty(t, f.out.String())
}

func TestOrchestrator_LoadMachfileErrors(t *testing.T) {
	t.Run("bad output option", func(t *testing.T) {
		f := newFixture(t).quiet()
		err := f.orch.LoadMachfile(&domain.Machfile{Rules: []domain.RuleDecl{
			{Target: "main", Scripts: []string{"true"}, Options: domain.ScriptOptions{Output: "loud"}},
		}})
		require.ErrorIs(t, err, domain.ErrUnknownOutputMode)
	})

	t.Run("duplicate variable", func(t *testing.T) {
		f := newFixture(t).quiet()
		err := f.orch.LoadMachfile(&domain.Machfile{Variables: []domain.VariableDecl{
			{Name: "CC", Value: "gcc"},
			{Name: "CC", Value: "clang"},
		}})
		require.ErrorIs(t, err, domain.ErrAlreadyDeclared)
	})

	t.Run("unexportable name", func(t *testing.T) {
		f := newFixture(t).quiet()
		err := f.orch.LoadMachfile(&domain.Machfile{Variables: []domain.VariableDecl{
			{Name: "cc2", Value: "gcc", Export: true},
		}})
		require.ErrorIs(t, err, domain.ErrInvalidVariableName)
	})
}

func TestOrchestrator_ExportedAliasFollowsFlag(t *testing.T) {
	f := newFixture(t).quiet()
	require.NoError(t, f.orch.LoadMachfile(&domain.Machfile{Variables: []domain.VariableDecl{
		{Name: "mode", Value: "debug", CLI: true, Export: true},
	}}))
	require.NoError(t, f.orch.SetFlag("mode", "release"))

	env, err := f.orch.Scope().Environ()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MODE": "release"}, env)
}
