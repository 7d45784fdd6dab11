package config

import (
	"path/filepath"
	"time"
)

// WorkDir is the directory, relative to the current one, where the client
// keeps its local files.
const WorkDir = ".gbv"

// Config holds runtime settings for the records CLI.
//
// Units: OnlineCheckInterval and CacheTTL are time.Duration values.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration

	CacheDriver string
	CacheDSN    string
	CacheTTL    time.Duration

	PageSize int

	UploadDriver      string
	UploadConcurrency int
	S3Region          string
	S3BaseEndpoint    string
	S3Bucket          string
	S3AccessKey       string
	S3SecretKey       string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.CacheDriver = "sqlite"
	c.CacheDSN = filepath.Join(WorkDir, "gbv-cache.db")
	c.CacheTTL = 5 * time.Minute
	c.PageSize = 15
	c.UploadDriver = "remote"
	c.UploadConcurrency = 4
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
