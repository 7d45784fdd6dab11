// Package config loads runtime configuration for the records CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string           address:port of the record service
//	-i int              online status check interval (seconds)
//	-cache string       listing cache driver: sqlite, postgres, redis or memory
//	-cache-dsn string   DSN or URL of the listing cache store
//	-page-size int      listing page size
//	-upload string      certificate upload driver: remote or s3
//	-log-level string   debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds. Keys that are absent keep their earlier value:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "cache_driver": "redis",
//	  "cache_dsn": "redis://localhost:6379/0",
//	  "cache_ttl": "5m",
//	  "page_size": 15,
//	  "upload_driver": "s3",
//	  "upload_concurrency": 4,
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://localhost:9000",
//	  "s3_bucket": "certificates",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123",
//	  "log_level": "debug",
//	  "log_format": "json"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
