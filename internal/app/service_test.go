package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/talentportal/internal/adapters/repository"
	service "github.com/okian/talentportal/internal/app"
	"github.com/okian/talentportal/internal/domain/activity"
	"github.com/okian/talentportal/internal/domain/idempotency"
	"github.com/okian/talentportal/internal/domain/model"
	"github.com/okian/talentportal/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func newService(opts ...service.Option) (*service.Service, context.Context) {
	ctx := context.Background()
	svc := service.New(repository.NewMemoryStore(ctx), opts...)
	return svc, ctx
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc, ctx := newService(service.WithWorkerCount(1), service.WithQueueSize(8))
		defer svc.Stop()

		Convey("When it has not been started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(svc.Activity(ctx, 10), ShouldBeEmpty)
		})

		Convey("When starting the service twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["workerCount"], ShouldEqual, 1)
				So(stats["queueLength"], ShouldEqual, 0)
			})
		})

		Convey("When stopping a stopped service", func() {
			So(func() { svc.Stop() }, ShouldNotPanic)
		})
	})

	Convey("Given a service without a store", t, func() {
		svc := service.New(nil)
		err := svc.Start(context.Background())
		So(errors.Is(err, repository.ErrStoreUnavailable), ShouldBeTrue)
	})
}

func TestService_Mutations(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, ctx := newService(service.WithFeedSize(10))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When kudos is awarded and feedback registered", func() {
			r, err := svc.AwardKudos(ctx, "tm1")
			So(err, ShouldBeNil)
			So(r.NewCount, ShouldEqual, 13)

			content := "Great"
			_, err = svc.RegisterFeedback(ctx, "tm2", model.FeedbackInput{Content: &content})
			So(err, ShouldBeNil)

			Convey("Then both should appear in the activity feed, newest first", func() {
				So(waitFor(func() bool { return len(svc.Activity(ctx, 0)) == 2 }), ShouldBeTrue)
				events := svc.Activity(ctx, 0)
				kinds := map[activity.Kind]string{}
				for _, e := range events {
					kinds[e.Kind] = e.MemberID
				}
				So(kinds[activity.KindKudosAwarded], ShouldEqual, "tm1")
				So(kinds[activity.KindFeedbackRegistered], ShouldEqual, "tm2")
			})
		})

		Convey("When a mutation targets an unknown member", func() {
			_, err := svc.AwardKudos(ctx, "ghost")

			Convey("Then it fails with not found and publishes nothing", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				time.Sleep(20 * time.Millisecond)
				So(svc.Activity(ctx, 0), ShouldBeEmpty)
			})
		})
	})
}

func TestService_Career(t *testing.T) {
	Convey("Given the seeded store", t, func() {
		svc, ctx := newService()

		a, err := svc.Career(ctx)

		Convey("Then the analysis should target the level above the user's persona", func() {
			So(err, ShouldBeNil)
			So(a.CurrentPersona.ID, ShouldEqual, "p2")
			// The seed ladder stops at level 2.
			So(a.NextPersona, ShouldBeNil)
			So(a.Readiness, ShouldEqual, 100)
			So(a.CompetenciesTotal, ShouldEqual, 3)
		})
	})

	Convey("Given a store without the signed-in profile", t, func() {
		ctx := context.Background()
		svc := service.New(repository.NewMemoryStore(ctx, repository.WithProfileID("nobody")))

		_, err := svc.Career(ctx)
		So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
	})
}

func TestService_Idempotency(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, ctx := newService(service.WithIdempotencySize(2))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a response is remembered", func() {
			svc.Remember(ctx, "key-1", idempotency.Response{Status: 201, Body: []byte("{}")})

			resp, ok := svc.Replay(ctx, "key-1")
			So(ok, ShouldBeTrue)
			So(resp.Status, ShouldEqual, 201)
			So(svc.GetStats()["idempotencyKeys"], ShouldEqual, int64(1))
		})

		Convey("When the key is empty", func() {
			svc.Remember(ctx, "", idempotency.Response{Status: 200})
			_, ok := svc.Replay(ctx, "")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc, ctx := newService()
		svc.Remember(ctx, "k", idempotency.Response{Status: 200})
		_, ok := svc.Replay(ctx, "k")
		So(ok, ShouldBeFalse)
	})
}
