// Package repotest holds the behavioral contract every repository.Store
// backend must satisfy, as a reusable test suite.
package repotest

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a store freshly seeded with the default fixtures.
type Factory func(t *testing.T) repository.Store

// Run exercises the full store contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("profile is returned", func(t *testing.T) {
		s := newStore(t)
		p, err := s.GetProfile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "u123", p.ID)
		assert.Equal(t, "Alex Rivera", p.Name)
		assert.Equal(t, model.RoleManager, p.Role)
		assert.Len(t, p.Skills, 3)
		require.Len(t, p.Reviews, 1)
		require.NotNil(t, p.Reviews[0].Score)
		assert.InDelta(t, 4.8, *p.Reviews[0].Score, 1e-9)
	})

	t.Run("personas are returned", func(t *testing.T) {
		s := newStore(t)
		ps, err := s.GetPersonas(context.Background())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"p1", "p2"}, personaIDs(ps))
	})

	t.Run("team is returned unfiltered", func(t *testing.T) {
		s := newStore(t)
		team, err := s.GetTeam(context.Background())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"tm1", "tm2", "tm3", "tm4"}, memberIDs(team))
		tm1 := member(t, team, "tm1")
		assert.Len(t, tm1.Feedbacks, 2)
		assert.Equal(t, 12, tm1.KudosCount)
	})

	t.Run("kudos increments by exactly one", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		before := member(t, mustTeam(t, s), "tm2").KudosCount

		r1, err := s.AwardKudos(ctx, "tm2")
		require.NoError(t, err)
		r2, err := s.AwardKudos(ctx, "tm2")
		require.NoError(t, err)

		assert.True(t, r1.Success)
		assert.Equal(t, before+1, r1.NewCount)
		assert.Equal(t, before+2, r2.NewCount)
		assert.Equal(t, before+2, member(t, mustTeam(t, s), "tm2").KudosCount)
	})

	t.Run("empty feedback is filled with defaults", func(t *testing.T) {
		s := newStore(t)
		fb, err := s.RegisterFeedback(context.Background(), "tm2", model.FeedbackInput{})
		require.NoError(t, err)
		assert.NotEmpty(t, fb.ID)
		assert.Equal(t, model.SentimentNeutral, fb.Sentiment)
		assert.Equal(t, model.FeedbackReceived, fb.Status)
		assert.Equal(t, "No content provided", fb.Content)
		assert.Equal(t, "c-generated", fb.ClientID)
		assert.Equal(t, "Generated Client", fb.ClientName)
		assert.NotEmpty(t, fb.Date)
	})

	t.Run("feedback round-trips through the team", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		content, sentiment, skill := "Shipped early", model.SentimentPositive, "s1"
		fb, err := s.RegisterFeedback(ctx, "tm1", model.FeedbackInput{
			Content: &content, Sentiment: &sentiment, LinkedSkillID: &skill,
		})
		require.NoError(t, err)

		tm1 := member(t, mustTeam(t, s), "tm1")
		require.Len(t, tm1.Feedbacks, 3)
		assert.Equal(t, fb, tm1.Feedbacks[2])
	})

	t.Run("feedback ids are unique", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		a, err := s.RegisterFeedback(ctx, "tm3", model.FeedbackInput{})
		require.NoError(t, err)
		b, err := s.RegisterFeedback(ctx, "tm3", model.FeedbackInput{})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("unknown member fails with not found and creates nothing", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		before := mustTeam(t, s)

		_, err := s.AwardKudos(ctx, "ghost")
		assert.True(t, errors.Is(err, repository.ErrNotFound), "kudos: %v", err)
		_, err = s.RegisterFeedback(ctx, "ghost", model.FeedbackInput{})
		assert.True(t, errors.Is(err, repository.ErrNotFound), "feedback: %v", err)

		after := mustTeam(t, s)
		assert.ElementsMatch(t, before, after)
	})

	t.Run("returned values do not alias stored state", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		team := mustTeam(t, s)
		team[0].KudosCount = -1
		team[0].Feedbacks = nil
		p, err := s.GetProfile(ctx)
		require.NoError(t, err)
		p.Skills[0].CurrentLevel = 1

		again := mustTeam(t, s)
		assert.NotEqual(t, -1, again[0].KudosCount)
		p2, err := s.GetProfile(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, model.SkillLevel(1), p2.Skills[0].CurrentLevel)
	})
}

func mustTeam(t *testing.T, s repository.Store) []model.TeamMemberSummary {
	t.Helper()
	team, err := s.GetTeam(context.Background())
	require.NoError(t, err)
	return team
}

func member(t *testing.T, team []model.TeamMemberSummary, id string) model.TeamMemberSummary {
	t.Helper()
	i := model.FindMember(team, id)
	require.GreaterOrEqual(t, i, 0, "member %s missing", id)
	return team[i]
}

func personaIDs(ps []model.Persona) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func memberIDs(team []model.TeamMemberSummary) []string {
	out := make([]string, 0, len(team))
	for _, m := range team {
		out = append(out, m.ID)
	}
	return out
}
