package redis

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kbukum/rediskit/security"
	"github.com/kbukum/rediskit/validation"
)

// Default connection settings.
const (
	DefaultHost = "localhost"
	DefaultPort = 6379
	DefaultName = "redis"
)

// Config holds Redis connection configuration.
type Config struct {
	// Name identifies the client in logs and the component registry.
	Name string `yaml:"name" mapstructure:"name"`

	// Host is not resolved here; an unknown name fails at dial time.
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`

	// TLS switches the scheme to rediss. The remaining TLS fields only apply
	// when it is set; TLSServerName defaults to Host.
	TLS           bool   `yaml:"tls" mapstructure:"tls"`
	TLSSkipVerify bool   `yaml:"tls_skip_verify" mapstructure:"tls_skip_verify"`
	TLSCAFile     string `yaml:"tls_ca_file" mapstructure:"tls_ca_file"`
	TLSCertFile   string `yaml:"tls_cert_file" mapstructure:"tls_cert_file"`
	TLSKeyFile    string `yaml:"tls_key_file" mapstructure:"tls_key_file"`
	TLSServerName string `yaml:"tls_server_name" mapstructure:"tls_server_name"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size" validate:"min=1"`
	// MinIdleConns is the minimum number of idle connections (-1 keeps none).
	MinIdleConns int `yaml:"min_idle_conns" mapstructure:"min_idle_conns" validate:"min=-1"`

	// MaxRetries is the per-command retry count of the pool (-1 disables).
	MaxRetries      int    `yaml:"max_retries" mapstructure:"max_retries" validate:"min=-1"`
	MinRetryBackoff string `yaml:"min_retry_backoff" mapstructure:"min_retry_backoff"`
	MaxRetryBackoff string `yaml:"max_retry_backoff" mapstructure:"max_retry_backoff"`

	DialTimeout     string `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout     string `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout" mapstructure:"write_timeout"`
	PoolTimeout     string `yaml:"pool_timeout" mapstructure:"pool_timeout"`
	ConnMaxIdleTime string `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ConnMaxLifetime string `yaml:"max_conn_age" mapstructure:"max_conn_age"`

	// ConnectRetries is the number of PING attempts made by Connect.
	ConnectRetries int `yaml:"connect_retries" mapstructure:"connect_retries" validate:"min=1"`
	// ConnectRetryInterval is the delay before the second PING attempt.
	ConnectRetryInterval string `yaml:"connect_retry_interval" mapstructure:"connect_retry_interval"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns == 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.MinRetryBackoff == "" {
		c.MinRetryBackoff = "8ms"
	}
	if c.MaxRetryBackoff == "" {
		c.MaxRetryBackoff = "512ms"
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
	if c.ConnectRetries <= 0 {
		c.ConnectRetries = 3
	}
	if c.ConnectRetryInterval == "" {
		c.ConnectRetryInterval = "100ms"
	}
}

// Validate checks field ranges and that every duration parses.
func (c *Config) Validate() error {
	v := validation.New().
		Required("host", c.Host).
		Range("port", c.Port, 1, 65535).
		Min("db", c.DB, 0).
		Merge(validation.Validate(c))
	v.Duration("min_retry_backoff", c.MinRetryBackoff).
		Duration("max_retry_backoff", c.MaxRetryBackoff).
		Duration("dial_timeout", c.DialTimeout).
		Duration("read_timeout", c.ReadTimeout).
		Duration("write_timeout", c.WriteTimeout).
		Duration("pool_timeout", c.PoolTimeout).
		Duration("idle_timeout", c.ConnMaxIdleTime).
		Duration("max_conn_age", c.ConnMaxLifetime).
		Duration("connect_retry_interval", c.ConnectRetryInterval)
	if !c.TLS {
		v.Custom(!c.TLSSkipVerify, "tls_skip_verify", "requires tls").
			Custom(c.TLSCAFile == "" && c.TLSCertFile == "" && c.TLSKeyFile == "", "tls_ca_file", "tls files require tls")
	}
	v.Custom((c.TLSCertFile == "") == (c.TLSKeyFile == ""), "tls_cert_file", "must be set together with tls_key_file")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (c *Config) tlsConfig() security.TLSConfig {
	serverName := c.TLSServerName
	if serverName == "" {
		serverName = c.Host
	}
	return security.TLSConfig{
		SkipVerify: c.TLSSkipVerify,
		CAFile:     c.TLSCAFile,
		CertFile:   c.TLSCertFile,
		KeyFile:    c.TLSKeyFile,
		ServerName: serverName,
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// durationOr parses s, returning def for empty or unparseable input.
func durationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func (c Config) String() string {
	return fmt.Sprintf("%s db=%d pool=%d", c.Addr(), c.DB, c.PoolSize)
}
