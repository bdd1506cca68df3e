// Package service wires the remote client, the catalog filter and the
// reconciliation engine into the reports the HTTP API and the CLI render.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/summitgap/internal/adapters/memo"
	"github.com/okian/summitgap/internal/domain/catalog"
	"github.com/okian/summitgap/internal/domain/marker"
	"github.com/okian/summitgap/internal/domain/model"
	"github.com/okian/summitgap/internal/domain/reconcile"
	"github.com/okian/summitgap/internal/domain/types"
	"github.com/okian/summitgap/pkg/logger"
	"github.com/okian/summitgap/pkg/metrics"
)

// Fetcher is the upstream surface the service needs. remote.Client
// satisfies it; every method is fail-soft.
type Fetcher interface {
	FetchCompleted(ctx context.Context, userID string) model.CodeSet
	FetchCompletedS2S(ctx context.Context, userID string) model.CodeSet
	FetchValidSummits(ctx context.Context, region string) []model.RawSummit
}

// Service builds reconciliation reports for one user and region.
type Service struct {
	mu sync.RWMutex

	fetcher Fetcher
	memo    *memo.Memo[any]

	// Configuration
	userID    string
	region    string
	cacheTTL  time.Duration
	cacheSize int
	now       func() time.Time

	// State
	started bool
	reports map[types.View]int
	last    map[types.View]types.Report

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the upstream client.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithUserID sets whose completions are reconciled.
func WithUserID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.userID = id
		}
	}
}

// WithRegion sets the summit region, e.g. "GM/ES".
func WithRegion(region string) Option {
	return func(s *Service) {
		if region != "" {
			s.region = region
		}
	}
}

// WithCacheTTL turns on memoization of upstream results. Zero, the default,
// fetches on every report.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheTTL = ttl
	}
}

// WithCacheSize bounds the number of memoized upstream results.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithClock overrides the time source used for validity filtering.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		userID:    "46844",
		region:    "GM/ES",
		cacheSize: 16,
		now:       time.Now,
		reports:   make(map[types.View]int),
		last:      make(map[types.View]types.Report),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.memo = memo.New[any](
		memo.WithTTL(s.cacheTTL),
		memo.WithMaxSize(s.cacheSize),
		memo.WithClock(s.now),
	)
	return s
}

// Start checks the service is usable and marks it started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "summit service started",
		logger.String("user", s.userID),
		logger.String("region", s.region),
		logger.Duration("cacheTTL", s.cacheTTL),
	)
	return nil
}

// Stop marks the service stopped and drops memoized results.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	for _, key := range s.memoKeys() {
		s.memo.Forget(key)
	}
	s.started = false
	s.log().Info(context.Background(), "summit service stopped")
}

// Region returns the configured region.
func (s *Service) Region() string { return s.region }

// Summits returns the region's currently valid summits in upstream order.
func (s *Service) Summits(ctx context.Context) ([]model.Summit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	valid := catalog.FilterValid(s.rawSummits(ctx), s.now())
	metrics.UpdateValidSummits(len(valid))
	return valid, nil
}

// Report builds a single view's report. See Reports.
func (s *Service) Report(ctx context.Context, view types.View) (types.Report, error) {
	reps, err := s.Reports(ctx, view)
	if err != nil {
		return types.Report{}, err
	}
	return reps[0], nil
}

// Reports fetches and filters the catalog once, then reconciles each view
// against that same slice, in the order given. Upstream failures surface as
// empty inputs, never as errors.
func (s *Service) Reports(ctx context.Context, views ...types.View) ([]types.Report, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("%w: none requested", types.ErrUnknownView)
	}
	for _, view := range views {
		if view != types.ViewCompletes && view != types.ViewS2S {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownView, view)
		}
	}

	now := s.now()
	valid := catalog.FilterValid(s.rawSummits(ctx), now)
	metrics.UpdateValidSummits(len(valid))

	reps := make([]types.Report, 0, len(views))
	for _, view := range views {
		reps = append(reps, s.report(ctx, view, valid, now))
	}
	return reps, nil
}

func (s *Service) report(ctx context.Context, view types.View, valid []model.Summit, now time.Time) types.Report {
	res := reconcile.Reconcile(valid, s.completed(ctx, view))
	metrics.RecordReconciliation(string(view), res.Remaining(), res.Completed)

	rep := types.Report{
		View:        view,
		Region:      s.region,
		GeneratedAt: now.UTC(),
		Total:       res.Total,
		Completed:   res.Completed,
		Remaining:   res.Remaining(),
		Missing:     res.Missing,
		Markers:     marker.Build(res.Missing),
	}
	if c, ok := marker.Center(res.Missing); ok {
		rep.Center = &c
	}

	s.mu.Lock()
	s.reports[view]++
	s.last[view] = rep
	s.mu.Unlock()

	s.log().Debug(ctx, "report built",
		logger.String("view", string(view)),
		logger.Int("total", rep.Total),
		logger.Int("remaining", rep.Remaining),
	)
	return rep
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"user":         s.userID,
		"region":       s.region,
		"cacheEnabled": s.memo.Enabled(),
		"cacheEntries": s.memo.Len(),
	}
	for view, n := range s.reports {
		stats[string(view)+"Reports"] = n
	}
	for view, rep := range s.last {
		stats[string(view)+"Remaining"] = rep.Remaining
		stats[string(view)+"Completed"] = rep.Completed
	}
	return stats
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

func (s *Service) memoKeys() []string {
	return []string{
		"summits:" + s.region,
		string(types.ViewCompletes) + ":" + s.userID,
		string(types.ViewS2S) + ":" + s.userID,
	}
}

func (s *Service) rawSummits(ctx context.Context) []model.RawSummit {
	v, _ := s.memo.Get(ctx, "summits:"+s.region, func(ctx context.Context) (any, error) {
		raw := s.fetcher.FetchValidSummits(ctx, s.region)
		if len(raw) == 0 {
			return raw, memo.ErrNotStored
		}
		return raw, nil
	})
	raw, _ := v.([]model.RawSummit)
	return raw
}

func (s *Service) completed(ctx context.Context, view types.View) model.CodeSet {
	v, _ := s.memo.Get(ctx, string(view)+":"+s.userID, func(ctx context.Context) (any, error) {
		var set model.CodeSet
		if view == types.ViewS2S {
			set = s.fetcher.FetchCompletedS2S(ctx, s.userID)
		} else {
			set = s.fetcher.FetchCompleted(ctx, s.userID)
		}
		if set.Len() == 0 {
			return set, memo.ErrNotStored
		}
		return set, nil
	})
	set, _ := v.(model.CodeSet)
	if set == nil {
		set = model.CodeSet{}
	}
	return set
}
