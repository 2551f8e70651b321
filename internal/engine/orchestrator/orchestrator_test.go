package orchestrator_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mach/internal/adapters/shell"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/mach/internal/core/ports/mocks"
	"go.trai.ch/mach/internal/core/scope"
	"go.trai.ch/mach/internal/engine/orchestrator"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	orch     *orchestrator.Orchestrator
	executor *mocks.MockExecutor
	dryRun   *mocks.MockExecutor
	logger   *mocks.MockLogger
	vertex   *mocks.MockVertex
	out      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		executor: mocks.NewMockExecutor(ctrl),
		dryRun:   mocks.NewMockExecutor(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		vertex:   mocks.NewMockVertex(ctrl),
		out:      &bytes.Buffer{},
	}

	telemetry := mocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ports.ContextWithVertex(ctx, f.vertex), f.vertex
		},
	).AnyTimes()
	f.vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	f.vertex.EXPECT().Cached().AnyTimes()
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	f.orch = orchestrator.New(f.executor, f.dryRun, f.logger, telemetry, f.out)
	return f
}

func (f *fixture) quiet() *fixture {
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	return f
}

type counter struct {
	runs int
}

func (c *counter) recipe(context.Context, *scope.Scope) error {
	c.runs++
	return nil
}

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(path), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestOrchestrator_ResolveRule(t *testing.T) {
	f := newFixture(t).quiet()

	plain := domain.NewRule("main", nil, nil, "")
	pattern := domain.NewRule("%.txt", domain.Names("%.py"), nil, "")
	shadowed := domain.NewRule("a.txt", nil, nil, "")
	f.orch.RegisterRule(plain)
	f.orch.RegisterRule(pattern)
	f.orch.RegisterRule(shadowed)

	got, err := f.orch.ResolveRule("main")
	require.NoError(t, err)
	assert.Same(t, plain, got)

	cooked, err := f.orch.ResolveRule("a.txt")
	require.NoError(t, err)
	assert.NotSame(t, shadowed, cooked)
	assert.Equal(t, "a.txt", cooked.Name())
	assert.True(t, cooked.Target.IsFile())
	assert.Equal(t, []string{"a.py"}, cooked.InputNames())

	again, err := f.orch.ResolveRule("a.txt")
	require.NoError(t, err)
	assert.Same(t, cooked, again)

	_, err = f.orch.ResolveRule("unknown")
	require.ErrorIs(t, err, domain.ErrNoRule)
	assert.False(t, f.orch.HasRule("a.py"))
	assert.True(t, f.orch.HasRule("%.txt"))
	assert.Len(t, f.orch.Rules(), 3)
}

func TestOrchestrator_BuildPlainTarget(t *testing.T) {
	f := newFixture(t)
	c := &counter{}
	f.orch.RegisterRule(domain.NewRule("main", nil, c.recipe, ""))

	gomock.InOrder(
		f.logger.EXPECT().Info("making main..."),
		f.logger.EXPECT().Info("...made main."),
		f.logger.EXPECT().Info("making main..."),
		f.logger.EXPECT().Info("...got main."),
	)

	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	assert.Equal(t, orchestrator.StatusCompleted, f.orch.Status("main"))

	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	assert.Equal(t, 1, c.runs)
	assert.Equal(t, orchestrator.StatusCached, f.orch.Status("main"))
}

func TestOrchestrator_BuildSharedInputOnce(t *testing.T) {
	f := newFixture(t).quiet()
	lib := &counter{}
	f.orch.RegisterRule(domain.NewRule("main", domain.Names("app", "tool"), nil, ""))
	f.orch.RegisterRule(domain.NewRule("app", domain.Names("lib"), nil, ""))
	f.orch.RegisterRule(domain.NewRule("tool", domain.Names("lib"), nil, ""))
	f.orch.RegisterRule(domain.NewRule("lib", nil, lib.recipe, ""))

	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	assert.Equal(t, 1, lib.runs)
}

func TestOrchestrator_BuildPatternFromFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	telemetry := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).Return(context.Background(), vertex).AnyTimes()
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	vertex.EXPECT().Cached().AnyTimes()

	var out bytes.Buffer
	factory := orchestrator.NewFactory(shell.NewExecutor(log, &out), shell.NewDryRunExecutor(log), log, telemetry, &out)

	newRun := func() *orchestrator.Orchestrator {
		o := factory.New()
		o.RegisterRule(domain.NewRule("%.txt", domain.Names("%.py"), o.Script("cp $< $@"), ""))
		return o
	}

	old := time.Now().Add(-time.Hour)
	touch(t, "a.py", old)

	o := newRun()
	require.NoError(t, o.Make(context.Background(), []string{"a.txt"}))
	assert.FileExists(t, "a.txt")
	assert.Equal(t, orchestrator.StatusCompleted, o.Status("a.txt"))
	assert.Contains(t, out.String(), "> cp a.py a.txt\n")

	o = newRun()
	require.NoError(t, o.Make(context.Background(), []string{"a.txt"}))
	assert.Equal(t, orchestrator.StatusCached, o.Status("a.txt"))

	touch(t, "a.py", time.Now().Add(time.Hour))
	o = newRun()
	require.NoError(t, o.Make(context.Background(), []string{"a.txt"}))
	assert.Equal(t, orchestrator.StatusCompleted, o.Status("a.txt"))

	o = newRun()
	err := o.Make(context.Background(), []string{"b.txt"})
	require.ErrorIs(t, err, domain.ErrScriptFailed)
	assert.Equal(t, orchestrator.StatusFailed, o.Status("b.txt"))
}

func TestOrchestrator_BuildLastInputWins(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	newer := filepath.Join(dir, "newer.txt")
	older := filepath.Join(dir, "older.txt")
	missing := filepath.Join(dir, "missing.txt")

	now := time.Now()
	touch(t, older, now.Add(-3*time.Hour))
	touch(t, out, now.Add(-2*time.Hour))
	touch(t, newer, now.Add(-time.Hour))

	t.Run("older last input hides newer earlier input", func(t *testing.T) {
		f := newFixture(t).quiet()
		c := &counter{}
		f.orch.RegisterRule(domain.NewRule(out, domain.Names(newer, older), c.recipe, ""))

		require.NoError(t, f.orch.Make(context.Background(), []string{out}))
		assert.Equal(t, 0, c.runs)
	})

	t.Run("newer last input triggers rebuild", func(t *testing.T) {
		f := newFixture(t).quiet()
		c := &counter{}
		f.orch.RegisterRule(domain.NewRule(out, domain.Names(older, newer), c.recipe, ""))

		require.NoError(t, f.orch.Make(context.Background(), []string{out}))
		assert.Equal(t, 1, c.runs)
	})

	t.Run("missing last input always rebuilds", func(t *testing.T) {
		f := newFixture(t).quiet()
		c := &counter{}
		f.orch.RegisterRule(domain.NewRule(out, domain.Names(older, missing), c.recipe, ""))

		require.NoError(t, f.orch.Make(context.Background(), []string{out}))
		assert.Equal(t, 1, c.runs)
		assert.Equal(t, orchestrator.StatusCompleted, f.orch.Status(missing))
	})
}

func TestOrchestrator_BuildInputVariants(t *testing.T) {
	f := newFixture(t).quiet()
	inline := &counter{}
	nested := domain.NewRule("_inline", nil, inline.recipe, "")
	f.orch.RegisterRule(domain.NewRule("main", []domain.Input{
		domain.RuleInput(nested),
		domain.TargetInput(domain.NewTarget("marker")),
	}, nil, ""))

	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	assert.Equal(t, 1, inline.runs)
	assert.True(t, nested.Target.Done())
}

func TestOrchestrator_BuildUnknownInput(t *testing.T) {
	f := newFixture(t).quiet()
	f.orch.RegisterRule(domain.NewRule("main", domain.Names("nothing"), nil, ""))

	err := f.orch.Make(context.Background(), []string{"main"})
	require.ErrorIs(t, err, domain.ErrNoRule)
	assert.Equal(t, orchestrator.StatusFailed, f.orch.Status("main"))
}

func TestOrchestrator_BuildCycle(t *testing.T) {
	f := newFixture(t).quiet()
	f.orch.RegisterRule(domain.NewRule("main", domain.Names("a"), nil, ""))
	f.orch.RegisterRule(domain.NewRule("a", domain.Names("b"), nil, ""))
	f.orch.RegisterRule(domain.NewRule("b", domain.Names("a"), nil, ""))

	err := f.orch.Make(context.Background(), []string{"main"})
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "a -> b -> a", zErr.Metadata()["cycle"])
}

func TestOrchestrator_BuildRecursionLimit(t *testing.T) {
	f := newFixture(t).quiet()
	t.Chdir(t.TempDir())
	// Every input cooks a longer name, so no name repeats.
	f.orch.RegisterRule(domain.NewRule("%", domain.Names("%.c"), nil, ""))

	err := f.orch.Make(context.Background(), []string{"foo"})
	require.ErrorIs(t, err, domain.ErrRecursionLimit)
	assert.NotErrorIs(t, err, domain.ErrCycleDetected)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, orchestrator.MaxDepth, zErr.Metadata()["depth"])
	stack, ok := zErr.Metadata()["stack"].([]string)
	require.True(t, ok)
	require.Len(t, stack, orchestrator.MaxDepth)
	assert.Equal(t, []string{"foo", "foo.c", "foo.c.c"}, stack[:3])
	assert.Equal(t, orchestrator.StatusFailed, f.orch.Status("foo"))
}

func TestOrchestrator_RecipeBindings(t *testing.T) {
	f := newFixture(t).quiet()
	f.orch.RegisterRule(domain.NewRule("x", nil, nil, ""))
	f.orch.RegisterRule(domain.NewRule("y", nil, nil, ""))

	var got *scope.Scope
	capture := func(_ context.Context, s *scope.Scope) error {
		got = s
		return nil
	}
	f.orch.RegisterRule(domain.NewRule("main", domain.Names("x", "y"), capture, ""))
	f.orch.RegisterRule(domain.NewRule("lonely", nil, capture, ""))

	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	for key, want := range map[string]any{
		"@": "main", "target": "main",
		"<": "x", "first_input": "x",
		"^": []string{"x", "y"}, "inputs": []string{"x", "y"},
	} {
		v, err := got.Get(key)
		require.NoError(t, err)
		assert.Equal(t, want, v, key)
	}

	require.NoError(t, f.orch.Make(context.Background(), []string{"lonely"}))
	first, err := got.Get("<")
	require.NoError(t, err)
	assert.Nil(t, first)
}

func TestOrchestrator_ExportFromRecipe(t *testing.T) {
	f := newFixture(t).quiet()
	f.orch.RegisterRule(domain.NewRule("_setup", nil, func(_ context.Context, s *scope.Scope) error {
		s.Export("test", "hello")
		return nil
	}, ""))

	var seen any
	f.orch.RegisterRule(domain.NewRule("main", domain.Names("_setup"), func(_ context.Context, s *scope.Scope) error {
		seen, _ = s.Get("test")
		return nil
	}, ""))

	require.NoError(t, f.orch.Make(context.Background(), []string{"main"}))
	assert.Equal(t, "hello", seen)

	v, err := f.orch.Scope().Get("test")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}
