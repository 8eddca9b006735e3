package repository

import (
	"time"

	"github.com/okian/talentportal/internal/fixtures"
)

// settings are shared by every backend constructor.
type settings struct {
	seed                  *fixtures.Seed
	profileID             string
	now                   func() time.Time
	metricsUpdateInterval time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{
		now:                   time.Now,
		metricsUpdateInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.seed == nil {
		d := fixtures.Default()
		s.seed = &d
	}
	if s.profileID == "" {
		s.profileID = s.seed.Profile.ID
	}
	return s
}

// Option applies a configuration option to a backend.
type Option func(*settings)

// WithSeed replaces the embedded fixtures used to seed an empty store.
func WithSeed(seed fixtures.Seed) Option {
	return func(s *settings) {
		s.seed = &seed
	}
}

// WithProfileID sets the id of the signed-in user's profile. Defaults to the
// seed profile's id.
func WithProfileID(id string) Option {
	return func(s *settings) {
		s.profileID = id
	}
}

// WithClock overrides the time source used for feedback dates and ids.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background gauge updates
// in the memory backend.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *settings) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
