//go:build !js && !wasm

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Its-donkey/apex/internal/config"
	"github.com/Its-donkey/apex/internal/server"
	"github.com/Its-donkey/apex/logging"
)

const logFileName = "ui-server.log"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ui-server",
		Short:        "Serve the Apex UI shell, WASM bundle and proxy paths",
		SilenceUsage: true,
		RunE:         runServe,
	}
	flags := cmd.Flags()
	flags.String("env-file", ".env", "dotenv file loaded before the APEX_* environment")
	flags.String("listen", "", "address to serve the UI on (APEX_LISTEN)")
	flags.String("assets", "", "directory containing index.html, main.wasm and static files (APEX_ASSETS)")
	flags.String("proxy-prefix", "", "path prefix the proxy library serves content under, must match __uv$config.prefix (APEX_PROXY_PREFIX)")
	flags.String("proxy-backend", "", "base URL requests under the proxy paths are forwarded to (APEX_PROXY_BACKEND)")
	flags.StringSlice("proxy-path", nil, "additional path forwarded to the proxy backend, repeatable (APEX_PROXY_PATHS)")
	flags.String("log-level", "", "debug, info, warn or error (APEX_LOG_LEVEL)")
	flags.String("log-dir", "", "directory for rotating log files (APEX_LOG_DIR)")
	flags.Int("log-max-size", 0, "megabytes before the log file rolls over (APEX_LOG_MAX_SIZE_MB)")
	flags.Int("log-max-files", 0, "rolled log archives to keep (APEX_LOG_MAX_FILES)")
	flags.Duration("log-max-age", 0, "roll the log file over after this long, 0 disables (APEX_LOG_MAX_AGE)")
	flags.Bool("open", false, "open the UI in the default browser once listening (APEX_OPEN_BROWSER)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLogs, err := newLogger(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeLogs()

	backend, err := cfg.BackendURL()
	if err != nil {
		return err
	}
	srv, err := server.New(server.Options{
		AssetsDir:   cfg.AssetsDir,
		ProxyPrefix: cfg.ProxyPrefix,
		ProxyPaths:  cfg.ProxyPaths,
		Backend:     backend,
	}, logger, server.NewMetrics())
	if err != nil {
		logger.Error("server", "failed to start", err, nil)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx, cfg.Listen, cfg.ShutdownTimeout, func(baseURL string) {
		if !cfg.OpenBrowser {
			return
		}
		if err := browser.OpenURL(baseURL); err != nil {
			logger.Warn("server", "could not open browser", map[string]any{"url": baseURL, "error": err.Error()})
		}
	})
}

// applyFlags copies explicitly set flags over the environment configuration.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	setString := func(name string, dst *string) {
		if err != nil || !flags.Changed(name) {
			return
		}
		*dst, err = flags.GetString(name)
	}
	setString("listen", &cfg.Listen)
	setString("assets", &cfg.AssetsDir)
	setString("proxy-prefix", &cfg.ProxyPrefix)
	setString("proxy-backend", &cfg.ProxyBackend)
	setString("log-level", &cfg.LogLevel)
	setString("log-dir", &cfg.LogDir)
	if err != nil {
		return err
	}

	if flags.Changed("log-max-size") {
		if cfg.LogMaxSizeMB, err = flags.GetInt("log-max-size"); err != nil {
			return err
		}
	}
	if flags.Changed("log-max-files") {
		if cfg.LogMaxFiles, err = flags.GetInt("log-max-files"); err != nil {
			return err
		}
	}
	if flags.Changed("log-max-age") {
		if cfg.LogMaxAge, err = flags.GetDuration("log-max-age"); err != nil {
			return err
		}
	}
	if flags.Changed("proxy-path") {
		if cfg.ProxyPaths, err = flags.GetStringSlice("proxy-path"); err != nil {
			return err
		}
	}
	if flags.Changed("open") {
		if cfg.OpenBrowser, err = flags.GetBool("open"); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(cfg *config.Config, stdout io.Writer) (*logging.Logger, func(), error) {
	logger := logging.New("apex-server", cfg.Level(), stdout)
	if cfg.LogDir == "" {
		return logger, func() {}, nil
	}
	fw, err := logging.NewFileWriter(cfg.LogDir, logFileName, cfg.Rotation())
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.AddWriter(fw)
	return logger, func() { _ = fw.Close() }, nil
}
