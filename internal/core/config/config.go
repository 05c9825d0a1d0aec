package config

import (
	"github.com/vietddude/logship/internal/core/domain"
	"github.com/vietddude/logship/internal/infra/postgres"
)

// AppConfig represents the top-level configuration file.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Files     []FileConfig    `yaml:"files"`
	Transport string          `yaml:"transport"`
	Mode      string          `yaml:"mode"`
	Hostname  string          `yaml:"hostname"`
	Redis     RedisConfig     `yaml:"redis"`
	TCP       TCPConfig       `yaml:"tcp"`
	Logging   LoggingConfig   `yaml:"logging"`
	Database  postgres.Config `yaml:"database"`
}

// ServerConfig holds the health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"` // 0 disables the server
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// FileConfig holds settings for one watched path or glob.
type FileConfig struct {
	Path string   `yaml:"path"` // literal file path
	Glob string   `yaml:"glob"` // glob pattern, e.g. /var/log/*.log
	Type string   `yaml:"type"` // event type stamped on shipped lines
	Tags []string `yaml:"tags"`
}

// RedisConfig holds settings for the redis transport.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Key      string `yaml:"key"`  // list key or pub/sub channel
	Mode     string `yaml:"mode"` // list, channel
}

// TCPConfig holds settings for the tcp transport.
type TCPConfig struct {
	Address string `yaml:"address"` // host:port to bind or connect to
}

// RunConfig is the resolved, immutable run configuration shared
// read-only by every worker start.
type RunConfig struct {
	Files     []FileConfig
	Transport domain.TransportKind
	Mode      domain.SocketMode
	Debug     bool
	Hostname  string

	Redis    RedisConfig
	TCP      TCPConfig
	Database postgres.Config
}
