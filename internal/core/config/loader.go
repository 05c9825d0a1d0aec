package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/logship/internal/core/domain"
)

// Load reads configuration from a YAML file. An empty path yields an
// AppConfig with defaults only, so the agent can run from flags alone.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Expand environment variables in the YAML content
		expandedData := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Set defaults if necessary
	if cfg.Transport == "" {
		cfg.Transport = string(domain.TransportStdout)
	}
	if cfg.Mode == "" {
		cfg.Mode = string(domain.ModeBind)
	}
	if cfg.Redis.Key == "" {
		cfg.Redis.Key = "logship"
	}
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = "list"
	}

	return &cfg, nil
}

// Flags carries the command-line overrides applied on top of the file.
type Flags struct {
	Paths     []string
	Globs     []string
	Transport string
	Mode      string
	Hostname  string
	Debug     bool
}

// Resolve merges flags over cfg into the immutable RunConfig. Flag
// values win; validation failures here are fatal, never retried.
func Resolve(cfg *AppConfig, flags Flags) (*RunConfig, error) {
	files := make([]FileConfig, 0, len(cfg.Files)+len(flags.Paths)+len(flags.Globs))
	files = append(files, cfg.Files...)
	for _, p := range flags.Paths {
		files = append(files, FileConfig{Path: p})
	}
	for _, g := range flags.Globs {
		files = append(files, FileConfig{Glob: g})
	}

	transport := cfg.Transport
	if flags.Transport != "" {
		transport = flags.Transport
	}
	if err := domain.ValidateTransport(domain.TransportKind(transport)); err != nil {
		return nil, err
	}

	mode := cfg.Mode
	if flags.Mode != "" {
		mode = flags.Mode
	}
	if err := domain.ValidateMode(domain.SocketMode(mode)); err != nil {
		return nil, err
	}

	hostname := cfg.Hostname
	if flags.Hostname != "" {
		hostname = flags.Hostname
	}
	if hostname == "" {
		h, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve hostname: %w", err)
		}
		hostname = h
	}

	return &RunConfig{
		Files:     files,
		Transport: domain.TransportKind(transport),
		Mode:      domain.SocketMode(mode),
		Debug:     flags.Debug,
		Hostname:  hostname,
		Redis:     cfg.Redis,
		TCP:       cfg.TCP,
		Database:  cfg.Database,
	}, nil
}
