package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript writes an executable shell script into dir for tests.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecRunner_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	script := writeScript(t, dir, "ok", `echo "hello $1"; echo warn >&2`)

	res, err := ExecRunner{}.Run(context.Background(), Command{Name: script, Args: []string{"world"}})
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", res.Stdout)
	assert.Equal(t, "warn\n", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecRunner_ExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	script := writeScript(t, dir, "fail", "echo broken\nexit 3\n")

	res, err := ExecRunner{}.Run(context.Background(), Command{Name: script})
	require.Error(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output(), "broken")
}

func TestExecRunner_MissingProgram(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), Command{Name: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecRunner_WorkingDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	dir := t.TempDir()
	script := writeScript(t, dir, "pwd", "pwd\n")

	res, err := ExecRunner{}.Run(context.Background(), Command{Name: script, Dir: dir})
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(filepath.Clean(res.Stdout[:len(res.Stdout)-1]))
	assert.Equal(t, want, got)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "pdftoppm", Resolve("", "pdftoppm"))
	assert.Equal(t, filepath.Join("/opt/poppler/bin", "pdftoppm"), Resolve("/opt/poppler/bin", "pdftoppm"))
}

func TestTail(t *testing.T) {
	log := "line 1\nline 2\n\nline 3\nline 4\n\n"
	assert.Equal(t, "line 3\nline 4", Tail(log, 2))
	assert.Equal(t, "line 1\nline 2\nline 3\nline 4", Tail(log, 10))
	assert.Equal(t, "", Tail("", 3))
}
