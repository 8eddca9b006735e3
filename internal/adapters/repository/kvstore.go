package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/talentportal/internal/adapters/kv"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/metrics"
)

// Keys of the three independently stored blobs.
const (
	KeyProfile  = "talentPortal_userProfile"
	KeyPersonas = "talentPortal_personas"
	KeyTeam     = "talentPortal_teamMembers"
)

// KVStore persists profile, personas and team as JSON blobs in a kv.Store.
// Writes are serialised within the process only.
type KVStore struct {
	mu  sync.Mutex
	kv  kv.Store
	cfg settings
}

// NewKVStore wraps store and runs Init, seeding any missing blob.
func NewKVStore(ctx context.Context, store kv.Store, opts ...Option) (*KVStore, error) {
	s := &KVStore{kv: store, cfg: newSettings(opts)}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Init writes each fixture blob whose key is missing. Existing blobs are
// never overwritten.
func (s *KVStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := s.cfg.seed
	blobs := []struct {
		key   string
		value any
	}{
		{KeyProfile, seed.Profile},
		{KeyPersonas, seed.Personas},
		{KeyTeam, seed.Team},
	}
	seeded := false
	for _, b := range blobs {
		_, err := s.kv.Get(ctx, b.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, kv.ErrKeyNotFound) {
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		if err := s.put(ctx, b.key, b.value); err != nil {
			return err
		}
		seeded = true
	}
	if seeded {
		metrics.RecordStoreSeeded(BackendKV)
	}
	return nil
}

func (s *KVStore) GetProfile(ctx context.Context) (p model.UserProfile, err error) {
	defer func(start time.Time) { observe(BackendKV, "get_profile", start, err) }(time.Now())
	if err = s.get(ctx, KeyProfile, &p); err != nil {
		return model.UserProfile{}, err
	}
	if p.ID == "" || p.ID != s.cfg.profileID {
		return model.UserProfile{}, ErrNotFound
	}
	return p, nil
}

func (s *KVStore) GetPersonas(ctx context.Context) (out []model.Persona, err error) {
	defer func(start time.Time) { observe(BackendKV, "get_personas", start, err) }(time.Now())
	if err = s.get(ctx, KeyPersonas, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Persona{}
	}
	return out, nil
}

func (s *KVStore) GetTeam(ctx context.Context) (out []model.TeamMemberSummary, err error) {
	defer func(start time.Time) { observe(BackendKV, "get_team", start, err) }(time.Now())
	if err = s.get(ctx, KeyTeam, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.TeamMemberSummary{}
	}
	return out, nil
}

func (s *KVStore) RegisterFeedback(ctx context.Context, memberID string, in model.FeedbackInput) (fb model.ClientFeedback, err error) {
	defer func(start time.Time) { observe(BackendKV, "register_feedback", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	var team []model.TeamMemberSummary
	if err = s.get(ctx, KeyTeam, &team); err != nil {
		return model.ClientFeedback{}, err
	}
	if fb, err = appendFeedback(team, memberID, in, s.cfg.now()); err != nil {
		return model.ClientFeedback{}, err
	}
	if err = s.put(ctx, KeyTeam, team); err != nil {
		return model.ClientFeedback{}, err
	}
	return fb, nil
}

func (s *KVStore) AwardKudos(ctx context.Context, memberID string) (r model.KudosResult, err error) {
	defer func(start time.Time) { observe(BackendKV, "award_kudos", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	var team []model.TeamMemberSummary
	if err = s.get(ctx, KeyTeam, &team); err != nil {
		return model.KudosResult{}, err
	}
	if r, err = incrementKudos(team, memberID); err != nil {
		return model.KudosResult{}, err
	}
	if err = s.put(ctx, KeyTeam, team); err != nil {
		return model.KudosResult{}, err
	}
	return r, nil
}

// Close closes the underlying kv store.
func (s *KVStore) Close(_ context.Context) error {
	return s.kv.Close()
}

// get decodes key into v. A missing key after Init means the record was
// removed externally and is reported as ErrNotFound.
func (s *KVStore) get(ctx context.Context, key string, v any) error {
	b, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
