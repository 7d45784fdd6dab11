// Package services contains the application services of the records client.
// RecordService wraps the remote record service with the listing cache: it
// serves listings offline or after a failed fetch, and drops the cache on
// every write.
package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/krktechnologyandservices/GBV/internal/client/cache"
	"github.com/krktechnologyandservices/GBV/internal/client/client"
	"github.com/krktechnologyandservices/GBV/internal/client/metrics"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/common"
	"github.com/krktechnologyandservices/GBV/internal/logging"
)

// RecordService defines the record operations used by the CLI.
//
// Contract:
//   - LoadAll: listing entries, from the cache when offline, otherwise
//     from the remote service with the cache as fallback.
//   - Refresh: drop the cache and load again.
//   - Create, Update, Delete, UpdateStatus: remote writes; each one
//     invalidates the cache on success.
//   - SetOffline: record the result of the latest liveness probe.
//
// LoadAll returns common.ErrBusy while another LoadAll is running.
type RecordService interface {
	LoadAll(ctx context.Context) ([]models.ListingEntry, error)
	Refresh(ctx context.Context) ([]models.ListingEntry, error)
	Get(ctx context.Context, id int64) (*models.Record, error)
	Create(ctx context.Context, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, id int64, rec *models.Record) (*models.Record, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, active bool) error
	AttributeCatalog(ctx context.Context) ([]models.AttributeDefinition, error)
	Ping(ctx context.Context) error
	SetOffline(offline bool)
	Offline() bool
	Close() error
}

type recordService struct {
	client  client.Client
	cache   cache.Store
	log     logging.Logger
	metrics *metrics.Metrics

	offline atomic.Bool
	loading atomic.Bool
}

type Option func(*recordService)

func WithLogger(l logging.Logger) Option {
	return func(s *recordService) {
		s.log = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *recordService) {
		s.metrics = m
	}
}

// NewRecordService binds the remote client to the listing cache.
func NewRecordService(c client.Client, store cache.Store, opts ...Option) RecordService {
	s := &recordService{client: c, cache: store, log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *recordService) SetOffline(offline bool) {
	s.offline.Store(offline)
}

func (s *recordService) Offline() bool {
	return s.offline.Load()
}

func (s *recordService) LoadAll(ctx context.Context) ([]models.ListingEntry, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return nil, common.ErrBusy
	}
	defer s.loading.Store(false)

	if s.offline.Load() {
		if entries, ok := s.cache.Read(ctx); ok {
			return entries, nil
		}
	}

	records, err := s.client.FetchAll(ctx)
	if err != nil {
		s.metrics.RemoteFetch("failed")
		if entries, ok := s.cache.Read(ctx); ok {
			s.log.Warn(ctx, "fetch records failed, serving cached listing", "err", err)
			return entries, nil
		}
		s.log.Error(ctx, "fetch records", "err", err)
		return nil, fmt.Errorf("load records: %w", err)
	}
	s.metrics.RemoteFetch("ok")

	entries := models.ListingEntries(records)
	if err := s.cache.Write(ctx, entries); err != nil {
		s.log.Warn(ctx, "write listing cache", "err", err)
	}

	return entries, nil
}

func (s *recordService) Refresh(ctx context.Context) ([]models.ListingEntry, error) {
	s.invalidate(ctx)
	return s.LoadAll(ctx)
}

func (s *recordService) Get(ctx context.Context, id int64) (*models.Record, error) {
	rec, err := s.client.FetchOne(ctx, id)
	if err != nil {
		s.log.Error(ctx, "fetch record", "id", id, "err", err)
		return nil, fmt.Errorf("error retrieving record %d: %w", id, err)
	}
	return rec, nil
}

func (s *recordService) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	created, err := s.client.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *recordService) Update(ctx context.Context, id int64, rec *models.Record) (*models.Record, error) {
	updated, err := s.client.Update(ctx, id, rec)
	if err != nil {
		return nil, fmt.Errorf("error updating record %d: %w", id, err)
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *recordService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, id); err != nil {
		s.log.Error(ctx, "delete record", "id", id, "err", err)
		return fmt.Errorf("error deleting record %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *recordService) UpdateStatus(ctx context.Context, id int64, active bool) error {
	if err := s.client.UpdateStatus(ctx, id, active); err != nil {
		s.log.Error(ctx, "update record status", "id", id, "err", err)
		return fmt.Errorf("error updating status of record %d: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *recordService) AttributeCatalog(ctx context.Context) ([]models.AttributeDefinition, error) {
	defs, err := s.client.FetchAttributeCatalog(ctx)
	if err != nil {
		s.log.Error(ctx, "fetch attribute catalog", "err", err)
		return nil, fmt.Errorf("error loading attribute catalog: %w", err)
	}
	return defs, nil
}

func (s *recordService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *recordService) Close() error {
	return s.client.Close()
}

// invalidate drops the cache. A failure leaves a snapshot that expires on
// its own, so it is only logged.
func (s *recordService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn(ctx, "invalidate listing cache", "err", err)
	}
}
