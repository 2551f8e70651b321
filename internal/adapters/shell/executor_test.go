package shell_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mach/internal/adapters/shell"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/mach/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T) (*shell.Executor, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	var out bytes.Buffer
	return shell.NewExecutor(mockLogger, &out), &out
}

func TestExecutor_Execute_MultiLineScript(t *testing.T) {
	executor, out := newExecutor(t)

	code, err := executor.Execute(context.Background(), ports.ExecRequest{
		Script: "echo line1\necho line2\n",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "line1\nline2\n", out.String())
}

func TestExecutor_Execute_ScriptFromStdin(t *testing.T) {
	executor, out := newExecutor(t)

	code, err := executor.Execute(context.Background(), ports.ExecRequest{
		Script: "x=1\nif [ \"$x\" = 1 ]; then\n  echo yes\nfi\n",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "yes\n", out.String())
}

func TestExecutor_Execute_ExitCode(t *testing.T) {
	executor, _ := newExecutor(t)

	code, err := executor.Execute(context.Background(), ports.ExecRequest{Script: "exit 3"})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestExecutor_Execute_EarlyExitIgnoresUnreadScript(t *testing.T) {
	executor, _ := newExecutor(t)

	script := "exit 4\n" + strings.Repeat("# filler line\n", 200000)
	code, err := executor.Execute(context.Background(), ports.ExecRequest{Script: script})
	require.NoError(t, err)
	assert.Equal(t, 4, code)
}

func TestExecutor_Execute_EnvironmentVariables(t *testing.T) {
	t.Setenv("MACH_TEST_SYSTEM", "system")
	t.Setenv("MACH_TEST_OVERRIDE", "system")

	executor, out := newExecutor(t)

	code, err := executor.Execute(context.Background(), ports.ExecRequest{
		Script: "echo \"$MACH_TEST_SYSTEM $MACH_TEST_OVERRIDE $MACH_TEST_NEW\"",
		Env: map[string]string{
			"MACH_TEST_OVERRIDE": "request",
			"MACH_TEST_NEW":      "new",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "system request new\n", out.String())
}

func TestExecutor_Execute_OutputModes(t *testing.T) {
	script := "echo a1\necho b1 >&2\necho a2\necho b2 >&2\nprintf tail"

	t.Run("line forwards both streams", func(t *testing.T) {
		executor, out := newExecutor(t)
		_, err := executor.Execute(context.Background(), ports.ExecRequest{Script: script, Output: domain.OutputLine})
		require.NoError(t, err)
		for _, want := range []string{"a1\n", "a2\n", "b1\n", "b2\n", "tail"} {
			assert.Contains(t, out.String(), want)
		}
	})

	t.Run("deferred keeps streams contiguous", func(t *testing.T) {
		executor, out := newExecutor(t)
		_, err := executor.Execute(context.Background(), ports.ExecRequest{Script: script, Output: domain.OutputDeferred})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "a1\na2\ntail")
		assert.Contains(t, out.String(), "b1\nb2\n")
	})

	t.Run("mute discards", func(t *testing.T) {
		executor, out := newExecutor(t)
		code, err := executor.Execute(context.Background(), ports.ExecRequest{Script: script, Output: domain.OutputMute})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Empty(t, out.String())
	})
}

func TestExecutor_Execute_LargeOutput(t *testing.T) {
	executor, out := newExecutor(t)

	code, err := executor.Execute(context.Background(), ports.ExecRequest{
		Script: "i=0\nwhile [ $i -lt 5000 ]; do echo line $i; echo err $i >&2; i=$((i+1)); done\n",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, 10000, strings.Count(out.String(), "\n"))
}

func TestExecutor_Execute_WithVertex(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockVertex := mocks.NewMockVertex(ctrl)

	var stdoutBuf, stderrBuf, out bytes.Buffer
	mockVertex.EXPECT().Stdout().Return(&stdoutBuf).AnyTimes()
	mockVertex.EXPECT().Stderr().Return(&stderrBuf).AnyTimes()

	executor := shell.NewExecutor(mockLogger, &out)
	ctx := ports.ContextWithVertex(context.Background(), mockVertex)

	_, err := executor.Execute(ctx, ports.ExecRequest{
		Script: "echo hello to stdout; echo hello to stderr >&2",
	})
	require.NoError(t, err)

	assert.Contains(t, stdoutBuf.String(), "hello to stdout")
	assert.Contains(t, stderrBuf.String(), "hello to stderr")
	assert.Contains(t, out.String(), "hello to stdout")
	assert.Contains(t, out.String(), "hello to stderr")
}

func TestExecutor_Execute_Encoding(t *testing.T) {
	executor, out := newExecutor(t)

	code, err := executor.Execute(context.Background(), ports.ExecRequest{
		Script:   `printf 'caf\351\n'`,
		Encoding: "latin1",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "café\n", out.String())
}

func TestExecutor_Execute_Errors(t *testing.T) {
	t.Run("unknown encoding", func(t *testing.T) {
		executor, _ := newExecutor(t)
		_, err := executor.Execute(context.Background(), ports.ExecRequest{Script: "true", Encoding: "klingon"})
		require.Error(t, err)
	})

	t.Run("missing shell", func(t *testing.T) {
		executor, _ := newExecutor(t)
		code, err := executor.Execute(context.Background(), ports.ExecRequest{Script: "true", Shell: "/nonexistent/sh"})
		require.Error(t, err)
		assert.Equal(t, -1, code)
	})
}
