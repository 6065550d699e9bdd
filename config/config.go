// Package config loads storefront settings from YAML or TOML files and the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/localrivet/storefront/logx"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "STOREFRONT_"

// Config is the complete storefront configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Store   StoreConfig   `yaml:"store" toml:"store"`
}

// ServerConfig is reported to clients during the MCP handshake.
type ServerConfig struct {
	Name         string `yaml:"name" toml:"name"`
	Version      string `yaml:"version" toml:"version"`
	Instructions string `yaml:"instructions" toml:"instructions"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // console, json
	File   string `yaml:"file" toml:"file"`
	// TeeDir, when set, receives copies of everything read from stdin and
	// written to stdout.
	TeeDir string `yaml:"tee_dir" toml:"tee_dir"`
}

type StoreConfig struct {
	Currency        string `yaml:"currency" toml:"currency"`
	ImagesServerURL string `yaml:"images_server_url" toml:"images_server_url"`
	MCPURLImages    bool   `yaml:"mcp_url_images" toml:"mcp_url_images"`
	// CountriesFile replaces the built-in country list when set.
	CountriesFile string `yaml:"countries_file" toml:"countries_file"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         "brandz-sports-store",
			Version:      "0.1.0",
			Instructions: "Brand Z Sports Store. Browse items, manage a cart and check out.",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Store: StoreConfig{
			Currency:        "USD",
			ImagesServerURL: "http://localhost:8080/images/",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.decode(path, data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys %v", undecoded)
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

func (c *Config) applyEnvOverrides(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_NAME":       &c.Server.Name,
		"LOG_LEVEL":         &c.Logging.Level,
		"LOG_FORMAT":        &c.Logging.Format,
		"LOG_FILE":          &c.Logging.File,
		"TEE_DIR":           &c.Logging.TeeDir,
		"CURRENCY":          &c.Store.Currency,
		"IMAGES_SERVER_URL": &c.Store.ImagesServerURL,
		"COUNTRIES_FILE":    &c.Store.CountriesFile,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "MCP_URL_IMAGES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sMCP_URL_IMAGES %q: %w", EnvPrefix, v, err)
		}
		c.Store.MCPURLImages = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Name) == "" {
		return errors.New("config: server.name must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: logging.format %q must be console or json", c.Logging.Format)
	}
	if len(c.Store.Currency) != 3 || strings.ToUpper(c.Store.Currency) != c.Store.Currency {
		return fmt.Errorf("config: store.currency %q must be a three letter ISO code", c.Store.Currency)
	}
	if !c.Store.MCPURLImages {
		u, err := url.Parse(c.Store.ImagesServerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: store.images_server_url %q must be an http(s) URL", c.Store.ImagesServerURL)
		}
	}
	return nil
}

// LoggerOptions converts the logging section for logx.New.
func (c *Config) LoggerOptions() logx.Options {
	opts := logx.Options{Level: c.Logging.Level, Format: c.Logging.Format}
	if c.Logging.File != "" {
		opts.OutputPaths = []string{"stderr", c.Logging.File}
	}
	return opts
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// TOML renders the configuration as TOML.
func (c *Config) TOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
