package config

import (
	"encoding/json"
	"os"

	"github.com/krktechnologyandservices/GBV/internal/flagx"
	"github.com/krktechnologyandservices/GBV/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	CacheDriver         string         `json:"cache_driver"`
	CacheDSN            string         `json:"cache_dsn"`
	CacheTTL            timex.Duration `json:"cache_ttl"`
	PageSize            int            `json:"page_size"`
	UploadDriver        string         `json:"upload_driver"`
	UploadConcurrency   int            `json:"upload_concurrency"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	S3Bucket            string         `json:"s3_bucket"`
	S3AccessKey         string         `json:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without such a flag nothing happens. Zero values in the
// file leave the field alone. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	setString(&cfg.CacheDriver, jc.CacheDriver)
	setString(&cfg.CacheDSN, jc.CacheDSN)
	if jc.CacheTTL.Duration > 0 {
		cfg.CacheTTL = jc.CacheTTL.Duration
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	setString(&cfg.UploadDriver, jc.UploadDriver)
	if jc.UploadConcurrency > 0 {
		cfg.UploadConcurrency = jc.UploadConcurrency
	}
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
