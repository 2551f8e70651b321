package recipe_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/mach/internal/core/ports/mocks"
	"go.trai.ch/mach/internal/core/scope"
	"go.trai.ch/mach/internal/engine/expand"
	"go.trai.ch/mach/internal/engine/recipe"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestDedent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "echo hi", "echo hi"},
		{"surrounding breaks", "\n\necho hi\n\n", "echo hi"},
		{"common indent", "\n    echo a\n      echo b\n    echo c\n", "echo a\n  echo b\necho c"},
		{"blank lines ignored", "\n    echo a\n\n  \n    echo b\n", "echo a\n\n\necho b"},
		{"mixed indentation", "\t echo a\n\techo b", " echo a\necho b"},
		{"nothing shared", "echo a\n  echo b", "echo a\n  echo b"},
		{"tabs and spaces disagree", "  echo a\n\techo b\n", "  echo a\n\techo b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recipe.Dedent(tt.in))
		})
	}
}

func TestScript_Options(t *testing.T) {
	s := recipe.New("true",
		recipe.WithEcho(false),
		recipe.WithEnv(map[string]string{"A": "1"}),
		recipe.WithEnv(map[string]string{"B": "2"}),
		recipe.WithOutput(domain.OutputMute),
	)

	defaults := recipe.Defaults()
	defaults.Shell = "/bin/bash"

	opts := s.Options(defaults)
	assert.False(t, opts.Echo)
	assert.True(t, opts.Check)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, opts.Env)
	assert.Equal(t, domain.OutputMute, opts.Output)
	assert.Equal(t, "/bin/bash", opts.Shell)
	assert.Equal(t, recipe.DefaultEncoding, opts.Encoding)
	assert.Nil(t, defaults.Env)
}

func TestFromDecl(t *testing.T) {
	no := false
	opts, err := recipe.FromDecl(domain.ScriptOptions{
		Echo:     &no,
		Output:   "deferred",
		Encoding: "latin1",
	})
	require.NoError(t, err)

	got := recipe.New("true", opts...).Options(recipe.Defaults())
	assert.False(t, got.Echo)
	assert.True(t, got.Check)
	assert.Equal(t, domain.OutputDeferred, got.Output)
	assert.Equal(t, "latin1", got.Encoding)
	assert.Equal(t, recipe.DefaultShell, got.Shell)

	_, err = recipe.FromDecl(domain.ScriptOptions{Output: "loud"})
	assert.ErrorIs(t, err, domain.ErrUnknownOutputMode)
}

func newRuntime(t *testing.T) (recipe.Runtime, *mocks.MockExecutor, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	var echo bytes.Buffer
	return recipe.Runtime{
		Executor: executor,
		Expander: expand.New(),
		Echo:     &echo,
		Defaults: recipe.Defaults(),
	}, executor, &echo
}

func TestScript_Run(t *testing.T) {
	rt, executor, echo := newRuntime(t)

	sc := scope.New(map[string]any{
		"CC":    "gcc",
		"lower": "not exported",
	}).NewChild(map[string]any{"@": "out.o", "<": "in.c"})

	executor.EXPECT().Execute(gomock.Any(), ports.ExecRequest{
		Script:   "$CC -c in.c \\\n  -o out.o",
		Env:      map[string]string{"CC": "clang", "CFLAGS": "-O2"},
		Shell:    recipe.DefaultShell,
		Output:   domain.OutputLine,
		Encoding: recipe.DefaultEncoding,
	}).Return(0, nil)

	s := recipe.New("\n\t$$CC -c $< \\\n\t  -o $@\n", recipe.WithEnv(map[string]string{"CC": "clang", "CFLAGS": "-O2"}))
	require.NoError(t, s.Run(context.Background(), sc, rt))
	assert.Equal(t, "> $CC -c in.c \\\n>   -o out.o\n", echo.String())
}

func TestScript_RunEchoSkipsBlankLines(t *testing.T) {
	rt, executor, echo := newRuntime(t)
	executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(0, nil)

	s := recipe.New("echo a\n\necho b")
	require.NoError(t, s.Run(context.Background(), scope.New(nil), rt))
	assert.Equal(t, "> echo a\n\n> echo b\n", echo.String())
}

func TestScript_RunNoEcho(t *testing.T) {
	rt, executor, echo := newRuntime(t)
	executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(0, nil)

	s := recipe.New("echo quiet", recipe.WithEcho(false))
	require.NoError(t, s.Run(context.Background(), scope.New(nil), rt))
	assert.Empty(t, echo.String())
}

func TestScript_RunCheck(t *testing.T) {
	t.Run("nonzero exit fails", func(t *testing.T) {
		rt, executor, _ := newRuntime(t)
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(3, nil)

		err := recipe.New("exit 3").Run(context.Background(), scope.New(nil), rt)
		require.ErrorIs(t, err, domain.ErrScriptFailed)

		var zErr *zerr.Error
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, 3, zErr.Metadata()["exit_code"])
	})

	t.Run("unchecked exit passes", func(t *testing.T) {
		rt, executor, _ := newRuntime(t)
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(3, nil)

		err := recipe.New("exit 3", recipe.WithCheck(false)).Run(context.Background(), scope.New(nil), rt)
		require.NoError(t, err)
	})

	t.Run("executor error propagates", func(t *testing.T) {
		rt, executor, _ := newRuntime(t)
		boom := errors.New("boom")
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(-1, boom)

		err := recipe.New("true", recipe.WithCheck(false)).Run(context.Background(), scope.New(nil), rt)
		require.ErrorIs(t, err, boom)
	})
}

func TestScript_RunExpansionError(t *testing.T) {
	rt, _, echo := newRuntime(t)

	err := recipe.New("echo $x").Run(context.Background(), scope.New(nil), rt)
	require.ErrorIs(t, err, domain.ErrAmbiguousVariable)
	assert.Empty(t, echo.String())
}
