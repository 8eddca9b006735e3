package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/metrics"
)

// MemoryStore keeps process-lifetime collections seeded from fixtures.
// State is lost on restart. Reads return deep copies.
type MemoryStore struct {
	mu       sync.RWMutex
	cfg      settings
	seeded   bool
	profile  *model.UserProfile
	personas []model.Persona
	team     []model.TeamMemberSummary

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewMemoryStore creates a seeded in-memory store and starts its metrics
// updater, which runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		cfg:      newSettings(opts),
		stopChan: make(chan struct{}),
	}
	_ = s.Init(ctx)
	s.startMetricsUpdater(ctx)
	return s
}

// Init seeds the store once; later calls are no-ops.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded {
		return nil
	}
	seed := s.cfg.seed
	if seed.Profile.ID != "" {
		p := seed.Profile.Clone()
		s.profile = &p
	}
	s.personas = model.ClonePersonas(seed.Personas)
	s.team = model.CloneTeam(seed.Team)
	s.seeded = true
	metrics.RecordStoreSeeded(BackendMemory)
	metrics.UpdateTeamMembers(len(s.team))
	return nil
}

func (s *MemoryStore) GetProfile(_ context.Context) (p model.UserProfile, err error) {
	defer func(start time.Time) { observe(BackendMemory, "get_profile", start, err) }(time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil || s.profile.ID != s.cfg.profileID {
		return model.UserProfile{}, ErrNotFound
	}
	return s.profile.Clone(), nil
}

func (s *MemoryStore) GetPersonas(_ context.Context) ([]model.Persona, error) {
	defer observe(BackendMemory, "get_personas", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ClonePersonas(s.personas), nil
}

func (s *MemoryStore) GetTeam(_ context.Context) ([]model.TeamMemberSummary, error) {
	defer observe(BackendMemory, "get_team", time.Now(), nil)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneTeam(s.team), nil
}

func (s *MemoryStore) RegisterFeedback(_ context.Context, memberID string, in model.FeedbackInput) (fb model.ClientFeedback, err error) {
	defer func(start time.Time) { observe(BackendMemory, "register_feedback", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendFeedback(s.team, memberID, in, s.cfg.now())
}

func (s *MemoryStore) AwardKudos(_ context.Context, memberID string) (r model.KudosResult, err error) {
	defer func(start time.Time) { observe(BackendMemory, "award_kudos", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	return incrementKudos(s.team, memberID)
}

// startMetricsUpdater periodically publishes the team size gauge.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				n := len(s.team)
				s.mu.RUnlock()
				metrics.UpdateTeamMembers(n)
			}
		}
	}()
}

// Close stops the metrics updater.
func (s *MemoryStore) Close(_ context.Context) error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}
