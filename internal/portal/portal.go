// Package portal is the client-side controller: it loads the portal data
// from any repository.Store, builds view models, and applies mutations to
// its local copy only after the store confirms them.
package portal

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/domain/career"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/logger"
)

// State is the locally held copy of the portal data.
type State struct {
	Profile  model.UserProfile
	Personas []model.Persona
	Team     []model.TeamMemberSummary
}

func (s State) clone() State {
	return State{
		Profile:  s.Profile.Clone(),
		Personas: model.ClonePersonas(s.Personas),
		Team:     model.CloneTeam(s.Team),
	}
}

// Controller holds the loaded state. Safe for concurrent use.
type Controller struct {
	store  repository.Store
	logger logger.Logger

	mu     sync.RWMutex
	state  State
	loaded bool
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a controller over store. Call Load before reading views.
func New(store repository.Store, opts ...Option) *Controller {
	c := &Controller{store: store}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("portal")
	}
	return c
}

// Load fetches profile, personas and team concurrently. Any failure yields
// ErrLoadFailed and leaves the previous state untouched.
func (c *Controller) Load(ctx context.Context) error {
	var next State
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.store.GetProfile(gctx)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		next.Profile = p
		return nil
	})
	g.Go(func() error {
		ps, err := c.store.GetPersonas(gctx)
		if err != nil {
			return fmt.Errorf("personas: %w", err)
		}
		next.Personas = ps
		return nil
	})
	g.Go(func() error {
		team, err := c.store.GetTeam(gctx)
		if err != nil {
			return fmt.Errorf("team: %w", err)
		}
		next.Team = team
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.Error(ctx, "portal load failed", logger.Error(err))
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	c.mu.Lock()
	c.state = next
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Loaded reports whether a Load has succeeded.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// State returns a copy of the local state.
func (c *Controller) State() (State, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return State{}, ErrNotLoaded
	}
	return c.state.clone(), nil
}

// AwardKudos awards kudos through the store and, on success, updates the
// member's local counter to the confirmed value.
func (c *Controller) AwardKudos(ctx context.Context, memberID string) (model.KudosResult, error) {
	r, err := c.store.AwardKudos(ctx, memberID)
	if err != nil {
		c.logger.Warn(ctx, "kudos failed", logger.String("member_id", memberID), logger.Error(err))
		return model.KudosResult{}, fmt.Errorf("%w: kudos for %s: %w", ErrSubmitFailed, memberID, err)
	}

	c.mu.Lock()
	if i := model.FindMember(c.state.Team, memberID); i >= 0 {
		c.state.Team[i].KudosCount = r.NewCount
	}
	c.mu.Unlock()
	return r, nil
}

// RegisterFeedback records feedback through the store and, on success,
// appends the created record to the member's local feedback list.
func (c *Controller) RegisterFeedback(ctx context.Context, memberID string, in model.FeedbackInput) (model.ClientFeedback, error) {
	fb, err := c.store.RegisterFeedback(ctx, memberID, in)
	if err != nil {
		c.logger.Warn(ctx, "feedback failed", logger.String("member_id", memberID), logger.Error(err))
		return model.ClientFeedback{}, fmt.Errorf("%w: feedback for %s: %w", ErrSubmitFailed, memberID, err)
	}

	c.mu.Lock()
	if i := model.FindMember(c.state.Team, memberID); i >= 0 {
		c.state.Team[i].Feedbacks = append(c.state.Team[i].Feedbacks, fb)
	}
	c.mu.Unlock()
	return fb, nil
}

// Navigation returns the sections visible to the loaded user.
func (c *Controller) Navigation() ([]NavSection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, ErrNotLoaded
	}
	return Navigation(c.state.Profile.Role), nil
}

// analysis runs the career analysis on the current state. Caller holds mu.
func (c *Controller) analysis() career.Analysis {
	return career.Analyze(c.state.Profile.Clone(), model.ClonePersonas(c.state.Personas))
}
