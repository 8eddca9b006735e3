// Package repository defines the talent data store interface, its errors and
// the interchangeable backends that implement it.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/talentportal/internal/domain/feedback"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/metrics"
)

// Store is the single capability interface every backend satisfies with
// identical external behavior.
type Store interface {
	// GetProfile returns the signed-in user's profile.
	// Returns ErrNotFound if no profile record exists.
	GetProfile(ctx context.Context) (model.UserProfile, error)

	// GetPersonas returns all persona definitions. Order is insignificant.
	GetPersonas(ctx context.Context) ([]model.Persona, error)

	// GetTeam returns every team-member summary. No filtering by manager.
	GetTeam(ctx context.Context) ([]model.TeamMemberSummary, error)

	// RegisterFeedback appends a new feedback, built from the partial input
	// with defaults filled, to the member's list and returns it.
	// Returns ErrNotFound if the member is unknown; nothing is created.
	RegisterFeedback(ctx context.Context, memberID string, in model.FeedbackInput) (model.ClientFeedback, error)

	// AwardKudos increments the member's kudos counter by one.
	// Returns ErrNotFound if the member is unknown.
	AwardKudos(ctx context.Context, memberID string) (model.KudosResult, error)
}

// Initializer is implemented by backends that need a one-off seeding step.
// Init is idempotent.
type Initializer interface {
	Init(ctx context.Context) error
}

// Closer is implemented by backends holding connections.
type Closer interface {
	Close(ctx context.Context) error
}

// Backend names used in metrics and logs.
const (
	BackendMemory   = "memory"
	BackendKV       = "kv"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// appendFeedback builds a feedback for member i and appends it in place.
func appendFeedback(team []model.TeamMemberSummary, memberID string, in model.FeedbackInput, now time.Time) (model.ClientFeedback, error) {
	i := model.FindMember(team, memberID)
	if i < 0 {
		return model.ClientFeedback{}, ErrNotFound
	}
	fb := feedback.Build(in, now)
	team[i].Feedbacks = append(team[i].Feedbacks, fb)
	return fb, nil
}

// incrementKudos bumps the counter of member i in place.
func incrementKudos(team []model.TeamMemberSummary, memberID string) (model.KudosResult, error) {
	i := model.FindMember(team, memberID)
	if i < 0 {
		return model.KudosResult{}, ErrNotFound
	}
	team[i].KudosCount++
	return model.KudosResult{Success: true, NewCount: team[i].KudosCount}, nil
}

// observe records the outcome and latency of a store operation.
func observe(backend, op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrStoreUnavailable):
		outcome = "unavailable"
	default:
		outcome = "error"
	}
	metrics.RecordStoreOperation(backend, op, outcome, float64(time.Since(start).Microseconds())/1000)
	if err != nil && outcome != "not_found" {
		metrics.RecordErrorByComponent("store_"+backend, outcome)
	}
}
