package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/adapters/repository/repotest"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/internal/fixtures"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store {
		s := repository.NewMemoryStore(context.Background())
		t.Cleanup(func() { _ = s.Close(context.Background()) })
		return s
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory store", t, func() {
		fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		s := repository.NewMemoryStore(ctx,
			repository.WithClock(func() time.Time { return fixed }),
			repository.WithMetricsUpdateInterval(10*time.Millisecond),
		)
		defer func() { _ = s.Close(ctx) }()

		Convey("When Init runs again after a mutation", func() {
			_, err := s.AwardKudos(ctx, "tm1")
			So(err, ShouldBeNil)
			So(s.Init(ctx), ShouldBeNil)

			Convey("Then the state should not be re-seeded", func() {
				team, _ := s.GetTeam(ctx)
				So(team[model.FindMember(team, "tm1")].KudosCount, ShouldEqual, 13)
			})
		})

		Convey("When a feedback is registered", func() {
			fb, err := s.RegisterFeedback(ctx, "tm4", model.FeedbackInput{})

			Convey("Then its date should come from the clock", func() {
				So(err, ShouldBeNil)
				So(fb.Date, ShouldEqual, "2024-05-01T12:00:00Z")
			})
		})

		Convey("When Close is called twice", func() {
			So(s.Close(ctx), ShouldBeNil)
			So(s.Close(ctx), ShouldBeNil)
		})
	})

	Convey("Given a store configured for a different signed-in user", t, func() {
		s := repository.NewMemoryStore(ctx, repository.WithProfileID("u999"))
		defer func() { _ = s.Close(ctx) }()

		_, err := s.GetProfile(ctx)

		Convey("Then the profile should not be found", func() {
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a seed without a profile", t, func() {
		seed := fixtures.Default()
		seed.Profile = model.UserProfile{}
		s := repository.NewMemoryStore(ctx, repository.WithSeed(seed))
		defer func() { _ = s.Close(ctx) }()

		_, err := s.GetProfile(ctx)
		So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
	})

	Convey("Given a member seeded without a feedback list", t, func() {
		seed := fixtures.Default()
		seed.Team = []model.TeamMemberSummary{{ID: "solo", Name: "Solo"}}
		s := repository.NewMemoryStore(ctx, repository.WithSeed(seed))
		defer func() { _ = s.Close(ctx) }()

		Convey("Then the list is created on the first feedback", func() {
			_, err := s.RegisterFeedback(ctx, "solo", model.FeedbackInput{})
			So(err, ShouldBeNil)
			team, _ := s.GetTeam(ctx)
			So(len(team[0].Feedbacks), ShouldEqual, 1)
		})

		Convey("And an absent counter counts from zero", func() {
			r, err := s.AwardKudos(ctx, "solo")
			So(err, ShouldBeNil)
			So(r.NewCount, ShouldEqual, 1)
		})
	})
}
