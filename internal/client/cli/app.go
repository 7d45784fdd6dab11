package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/krktechnologyandservices/GBV/internal/client/cache"
	"github.com/krktechnologyandservices/GBV/internal/client/client"
	"github.com/krktechnologyandservices/GBV/internal/client/config"
	"github.com/krktechnologyandservices/GBV/internal/client/editor"
	"github.com/krktechnologyandservices/GBV/internal/client/listing"
	"github.com/krktechnologyandservices/GBV/internal/client/metrics"
	"github.com/krktechnologyandservices/GBV/internal/client/notify"
	"github.com/krktechnologyandservices/GBV/internal/client/repositories/snapshots"
	"github.com/krktechnologyandservices/GBV/internal/client/services"
	"github.com/krktechnologyandservices/GBV/internal/client/uploads"
	"github.com/krktechnologyandservices/GBV/internal/filex"
	"github.com/krktechnologyandservices/GBV/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	records  services.RecordService
	uploader uploads.Uploader
	metrics  *metrics.Metrics
	log      logging.Logger
	notifier notify.Notifier

	browser *listing.Browser
	editor  *editor.Editor

	mu   sync.Mutex
	Mode Mode

	in      *bufio.Scanner
	out     io.Writer
	closers []func() error
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.New(c.LogLevel, c.LogFormat, os.Stderr)
	m := metrics.New(prometheus.NewRegistry())

	if c.CacheDriver == snapshots.DriverSQLite {
		if _, err := filex.EnsureSubDir(config.WorkDir); err != nil {
			logger.Error(ctx, "error creating working directory", "err", err)
			return nil, err
		}
	}

	repo, closeRepo, err := snapshots.Open(ctx, c.CacheDriver, c.CacheDSN)
	if err != nil {
		logger.Error(ctx, "error opening listing cache", "driver", c.CacheDriver, "err", err)
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, client.WithLogger(logger))
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	uploader, err := newUploader(ctx, c, apiClient)
	if err != nil {
		_ = apiClient.Close()
		_ = closeRepo()
		return nil, err
	}

	store := cache.New(repo,
		cache.WithTTL(c.CacheTTL),
		cache.WithLogger(logger),
		cache.WithMetrics(m),
	)
	rs := services.NewRecordService(apiClient, store, services.WithLogger(logger), services.WithMetrics(m))

	a := newApp(c, rs, uploader, logger)
	a.metrics = m
	a.closers = []func() error{rs.Close, closeRepo}
	return a, nil
}

func newApp(c *config.Config, rs services.RecordService, u uploads.Uploader, logger logging.Logger) *App {
	a := &App{
		config:   c,
		records:  rs,
		uploader: u,
		log:      logger,
		browser:  listing.NewBrowser(c.PageSize),
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
	}
	a.notifier = notify.Func(func(n notify.Notification) {
		printlnFn(n.String())
	})
	return a
}

func newUploader(ctx context.Context, c *config.Config, apiClient *client.GRPCClient) (uploads.Uploader, error) {
	switch c.UploadDriver {
	case "", "remote":
		return uploads.NewRemoteUploader(apiClient), nil
	case "s3":
		return uploads.NewS3Uploader(ctx, uploads.S3Config{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		}, &http.Client{Timeout: 30 * time.Second})
	default:
		return nil, fmt.Errorf("unknown upload driver %q", c.UploadDriver)
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Mode != mode {
		a.Mode = mode
		a.records.SetOffline(mode == ModeOffline)
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

// Run probes the service, loads the listing and serves the REPL until the
// user exits.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.probe(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to the records CLI (type 'help' for commands)")
	if err := a.List(ctx); err != nil {
		a.log.Warn(ctx, "initial listing failed", "err", err)
	}

	runREPL(ctx, a, a.prompt, a.in)
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "error closing resource", "err", err)
		}
	}
}

func (a *App) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.records.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the record service every interval and
// switches the app, and with it the listing cache policy, between online
// and offline mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}
