package config

import (
	"flag"
	"os"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so -c/-config and unknown flags are ignored here.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-i", "-cache", "-cache-dsn", "-page-size", "-upload", "-log-level",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.CacheDriver, "cache", cfg.CacheDriver, "listing cache driver (sqlite, postgres, redis, memory)")
	fs.StringVar(&cfg.CacheDSN, "cache-dsn", cfg.CacheDSN, "listing cache DSN or URL")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "listing page size")
	fs.StringVar(&cfg.UploadDriver, "upload", cfg.UploadDriver, "certificate upload driver (remote, s3)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
