// Package config loads the UI server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"

	"github.com/Its-donkey/apex/logging"
)

// EnvPrefix prefixes every variable, e.g. APEX_LISTEN.
const EnvPrefix = "apex"

// Config holds the UI server settings.
type Config struct {
	Listen    string `envconfig:"LISTEN" default:"127.0.0.1:4173"`
	AssetsDir string `envconfig:"ASSETS" default:"ui"`

	// ProxyPrefix is where the proxy library serves rewritten content. It must
	// equal __uv$config.prefix, which the shell also uses as the worker scope.
	ProxyPrefix string `envconfig:"PROXY_PREFIX" default:"/service/"`
	// ProxyBackend, when set, receives every request under ProxyPrefix and ProxyPaths.
	ProxyBackend string `envconfig:"PROXY_BACKEND"`
	// ProxyPaths are extra collaborator paths such as the library bundle and bare server.
	ProxyPaths []string `envconfig:"PROXY_PATHS" default:"/uv/,/bare/"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogDir   string `envconfig:"LOG_DIR"`
	// Rotation of the file under LogDir.
	LogMaxSizeMB int           `envconfig:"LOG_MAX_SIZE_MB" default:"10"`
	LogMaxFiles  int           `envconfig:"LOG_MAX_FILES" default:"5"`
	LogMaxAge    time.Duration `envconfig:"LOG_MAX_AGE" default:"24h"`

	OpenBrowser     bool          `envconfig:"OPEN_BROWSER" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// Load reads the given dotenv files (missing ones are skipped) and then the
// APEX_* environment.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks and normalizes the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return errors.New("listen address is required")
	}
	if strings.TrimSpace(c.AssetsDir) == "" {
		return errors.New("assets directory is required")
	}

	prefix, err := normalizePath(c.ProxyPrefix)
	if err != nil {
		return fmt.Errorf("proxy prefix: %w", err)
	}
	c.ProxyPrefix = prefix

	paths := make([]string, 0, len(c.ProxyPaths))
	for _, p := range c.ProxyPaths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		normalized, err := normalizePath(p)
		if err != nil {
			return fmt.Errorf("proxy path %q: %w", p, err)
		}
		paths = append(paths, normalized)
	}
	c.ProxyPaths = lo.Uniq(paths)

	if c.ProxyBackend = strings.TrimSpace(c.ProxyBackend); c.ProxyBackend != "" {
		if _, err := c.BackendURL(); err != nil {
			return err
		}
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogDir != "" {
		if c.LogMaxSizeMB <= 0 || c.LogMaxFiles <= 0 {
			return fmt.Errorf("log rotation needs a positive size and file count, got %dMB/%d", c.LogMaxSizeMB, c.LogMaxFiles)
		}
		if c.LogMaxAge < 0 {
			return fmt.Errorf("log max age must not be negative, got %s", c.LogMaxAge)
		}
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// BackendURL parses ProxyBackend. It returns nil when no backend is configured.
func (c *Config) BackendURL() (*url.URL, error) {
	if c.ProxyBackend == "" {
		return nil, nil
	}
	u, err := url.Parse(c.ProxyBackend)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy backend %q", c.ProxyBackend)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// Rotation returns the log file rotation bounds.
func (c *Config) Rotation() logging.RotateOptions {
	return logging.RotateOptions{MaxSizeMB: c.LogMaxSizeMB, MaxFiles: c.LogMaxFiles, MaxAge: c.LogMaxAge}
}

// Level returns the parsed log level.
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

func normalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%q must start with /", p)
	}
	if p == "/" {
		return "", errors.New("must not be the site root")
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p, nil
}
