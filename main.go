package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
)

const assetsDir = "ui"

// Development runner: builds the WASM bundle, stages wasm_exec.js and runs
// the UI server until interrupted. Extra arguments go to the server.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "apex exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serverArgs []string) error {
	build := goCmd(ctx, "build", "-o", filepath.Join(assetsDir, "main.wasm"), "./cmd/ui-wasm")
	build.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	if err := build.Run(); err != nil {
		return fmt.Errorf("build ui wasm: %w", err)
	}
	if err := stageWasmExec(ctx, assetsDir); err != nil {
		return err
	}

	serve := goCmd(ctx, append([]string{"run", "./cmd/ui-server", "--assets", assetsDir}, serverArgs...)...)
	if err := serve.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("ui server: %w", err)
	}
	return nil
}

func goCmd(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// stageWasmExec copies the Go runtime's WASM loader next to the bundle.
func stageWasmExec(ctx context.Context, dir string) error {
	out, err := exec.CommandContext(ctx, "go", "env", "GOROOT").Output()
	if err != nil {
		return fmt.Errorf("go env GOROOT: %w", err)
	}
	goroot := strings.TrimSpace(string(out))
	for _, src := range []string{
		filepath.Join(goroot, "lib", "wasm", "wasm_exec.js"),
		filepath.Join(goroot, "misc", "wasm", "wasm_exec.js"),
	} {
		data, err := os.ReadFile(src)
		if err != nil {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, "wasm_exec.js"), data, 0o644); err != nil {
			return fmt.Errorf("stage wasm_exec.js: %w", err)
		}
		return nil
	}
	return fmt.Errorf("wasm_exec.js not found under %s", goroot)
}
