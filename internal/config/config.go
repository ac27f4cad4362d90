package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/vango-dev/markview/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "markview.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "markview.yaml"

	// DefaultPort is the default preview server port.
	DefaultPort = 4000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "markview"

	// DefaultMetricsPath is the default metrics endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "markview"
)

// fileNames are the configuration files Load looks for, in order.
var fileNames = []string{ConfigFileName, YAMLConfigFileName, "markview.yml"}

// Config represents the complete markview configuration.
type Config struct {
	// Server contains preview server configuration.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Render contains document rendering configuration.
	Render RenderConfig `json:"render,omitempty" yaml:"render,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`

	// S3 contains settings for s3:// document sources.
	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Title is the page title of the preview page.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// RenderConfig contains rendering settings.
type RenderConfig struct {
	// Pretty enables indented HTML output.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`

	// Indent is the indentation string for pretty output.
	Indent string `json:"indent,omitempty" yaml:"indent,omitempty"`

	// AllowRawHTML renders raw HTML nodes instead of dropping them.
	AllowRawHTML bool `json:"allowRawHTML,omitempty" yaml:"allowRawHTML,omitempty"`

	// Memoize wraps the components so unchanged blocks are reused
	// (default: true).
	Memoize *bool `json:"memoize,omitempty" yaml:"memoize,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics on the preview server.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Namespace is the metric namespace.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`

	// Path is the HTTP path metrics are served on.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Name is the tracer name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// S3Config contains S3 client settings.
type S3Config struct {
	// Region is the AWS region. Falls back to AWS_REGION.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack, R2).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// UsePathStyle addresses buckets as path segments.
	UsePathStyle bool `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	memoize := true
	return &Config{
		Server: ServerConfig{
			Host:  DefaultHost,
			Port:  DefaultPort,
			Title: "markview",
		},
		Render: RenderConfig{
			Indent:  "  ",
			Memoize: &memoize,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			Name: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for markview.json, then markview.yaml and markview.yml.
func Load(dir string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E111").
		WithDetail("No markview.json or markview.yaml found in " + dir).
		WithSuggestion("Create markview.json, or run without a config to use the defaults")
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension: .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E111").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E110").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E110").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML")
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("E110").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads the configuration in dir, returning the defaults when
// there is none.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, "E111") {
		return New(), nil
	}
	return cfg, err
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// extension says so and JSON otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E110").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E110").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Render.Indent == "" {
		c.Render.Indent = "  "
	}
	if c.Render.Memoize == nil {
		memoize := true
		c.Render.Memoize = &memoize
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.Name == "" {
		c.Tracing.Name = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E112").
			WithDetail("server.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E112").
			WithDetail("metrics.path must start with /, got " + strconv.Quote(c.Metrics.Path))
	}
	if strings.TrimSpace(c.Render.Indent) != "" {
		return errors.New("E112").
			WithDetail("render.indent must contain only whitespace")
	}
	return nil
}

// Memoized reports whether components should be memoized.
func (c *Config) Memoized() bool {
	return c.Render.Memoize == nil || *c.Render.Memoize
}

// Address returns the listen address of the preview server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the preview server URL.
func (c *Config) URL() string {
	return "http://" + c.Address()
}
