// Package service provides the application service behind the HTTP API. It
// wraps the injected store with activity publishing, idempotent replay and
// the career analysis.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	eventqueue "github.com/okian/talentportal/internal/adapters/mq/queue"
	workerpool "github.com/okian/talentportal/internal/adapters/mq/worker"
	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/domain/activity"
	"github.com/okian/talentportal/internal/domain/career"
	"github.com/okian/talentportal/internal/domain/idempotency"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/logger"
	"github.com/okian/talentportal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Service implements the API dependencies for the talent portal.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	idem       idempotency.Cache
	eventQueue eventqueue.Queue
	feed       *activity.Feed
	workerPool *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	feedSize        int
	idempotencySize int
	now             func() time.Time

	// State
	started bool

	logger logger.Logger
}

var _ repository.Store = (*Service)(nil)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of activity workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the activity queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithFeedSize sets how many activity events are retained.
func WithFeedSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.feedSize = size
		}
	}
}

// WithIdempotencySize sets how many Idempotency-Key values are remembered.
func WithIdempotencySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.idempotencySize = size
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

// WithClock overrides the time source for activity events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:           store,
		workerCount:     2,
		queueSize:       1024,
		feedSize:        200,
		idempotencySize: 10_000,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the activity pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return fmt.Errorf("%w: no store configured", repository.ErrStoreUnavailable)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.idem = idempotency.NewInMemoryCache(idempotency.WithMaxSize(s.idempotencySize))
	s.feed = activity.NewFeed(s.feedSize)
	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.feed)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "talent portal service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("feedSize", s.feedSize),
		logger.Int("idempotencySize", s.idempotencySize),
	)
	return nil
}

// Stop drains the activity pipeline and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping talent portal service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}
	if closer, ok := s.store.(repository.Closer); ok {
		if err := closer.Close(ctx); err != nil {
			s.logger.Warn(ctx, "closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "talent portal service stopped")
}

func (s *Service) GetProfile(ctx context.Context) (model.UserProfile, error) {
	return s.store.GetProfile(ctx)
}

func (s *Service) GetPersonas(ctx context.Context) ([]model.Persona, error) {
	return s.store.GetPersonas(ctx)
}

func (s *Service) GetTeam(ctx context.Context) ([]model.TeamMemberSummary, error) {
	team, err := s.store.GetTeam(ctx)
	if err == nil {
		metrics.UpdateTeamMembers(len(team))
	}
	return team, err
}

// RegisterFeedback stores the feedback and publishes an activity event.
func (s *Service) RegisterFeedback(ctx context.Context, memberID string, in model.FeedbackInput) (model.ClientFeedback, error) {
	fb, err := s.store.RegisterFeedback(ctx, memberID, in)
	if err != nil {
		return model.ClientFeedback{}, err
	}
	metrics.RecordFeedbackRegistered(fb.Sentiment)
	s.publish(ctx, activity.KindFeedbackRegistered, memberID, fb.Sentiment+" feedback from "+fb.ClientName)
	return fb, nil
}

// AwardKudos increments the counter and publishes an activity event.
func (s *Service) AwardKudos(ctx context.Context, memberID string) (model.KudosResult, error) {
	r, err := s.store.AwardKudos(ctx, memberID)
	if err != nil {
		return model.KudosResult{}, err
	}
	metrics.RecordKudosAwarded()
	s.publish(ctx, activity.KindKudosAwarded, memberID, fmt.Sprintf("kudos count is now %d", r.NewCount))
	return r, nil
}

// Career loads profile and personas concurrently and runs the analysis.
func (s *Service) Career(ctx context.Context) (career.Analysis, error) {
	var (
		user     model.UserProfile
		personas []model.Persona
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.store.GetProfile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		personas, err = s.store.GetPersonas(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return career.Analysis{}, err
	}
	return career.Analyze(user, personas), nil
}

// Activity returns up to limit recent events, newest first.
func (s *Service) Activity(_ context.Context, limit int) []activity.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.feed == nil {
		return []activity.Event{}
	}
	return s.feed.Recent(limit)
}

// Replay returns the stored response for an Idempotency-Key.
func (s *Service) Replay(ctx context.Context, key string) (idempotency.Response, bool) {
	s.mu.RLock()
	idem := s.idem
	s.mu.RUnlock()
	if idem == nil || key == "" {
		return idempotency.Response{}, false
	}
	resp, ok := idem.Lookup(ctx, key)
	if ok {
		metrics.RecordIdempotentReplay()
	}
	return resp, ok
}

// Remember stores the first successful response for an Idempotency-Key.
func (s *Service) Remember(ctx context.Context, key string, resp idempotency.Response) {
	s.mu.RLock()
	idem := s.idem
	s.mu.RUnlock()
	if idem == nil || key == "" {
		return
	}
	idem.Store(ctx, key, resp)
	metrics.UpdateIdempotencyKeys(idem.Size())
}

// publish enqueues an activity event. A full or closed queue drops it.
func (s *Service) publish(ctx context.Context, kind activity.Kind, memberID, detail string) {
	s.mu.RLock()
	q := s.eventQueue
	started := s.started
	s.mu.RUnlock()
	if !started || q == nil {
		return
	}
	if !q.Enqueue(ctx, activity.NewEvent(kind, memberID, detail, s.now())) {
		s.logger.Warn(ctx, "activity event dropped",
			logger.String("kind", string(kind)),
			logger.String("member_id", memberID),
		)
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"feedSize":        s.feedSize,
		"idempotencySize": s.idempotencySize,
	}
	if s.started {
		stats["queueLength"] = s.eventQueue.Len(ctx)
		stats["activityRetained"] = s.feed.Len()
		stats["activityProcessed"] = s.workerPool.Processed()
		stats["idempotencyKeys"] = s.idem.Size()
	}
	return stats
}
