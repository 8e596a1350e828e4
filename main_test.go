package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageWasmExecCopiesLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, stageWasmExec(context.Background(), dir))

	data, err := os.ReadFile(filepath.Join(dir, "wasm_exec.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Go")
}

func TestGoCmdInheritsOutput(t *testing.T) {
	cmd := goCmd(context.Background(), "version")
	assert.Equal(t, []string{"go", "version"}, cmd.Args)
	assert.Same(t, os.Stdout, cmd.Stdout)
	assert.Same(t, os.Stderr, cmd.Stderr)
}
