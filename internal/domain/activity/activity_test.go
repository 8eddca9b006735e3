package activity_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/talentportal/internal/domain/activity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFeed(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given a feed of size 3", t, func() {
		f := activity.NewFeed(3)

		Convey("When it is empty", func() {
			So(f.Recent(10), ShouldBeEmpty)
			So(f.Len(), ShouldEqual, 0)
		})

		Convey("When five events are appended", func() {
			for i := 1; i <= 5; i++ {
				f.Append(ctx, activity.NewEvent(activity.KindKudosAwarded, fmt.Sprintf("tm%d", i), "", at))
			}

			Convey("Then only the newest three are kept, newest first", func() {
				got := f.Recent(0)
				So(len(got), ShouldEqual, 3)
				So(got[0].MemberID, ShouldEqual, "tm5")
				So(got[1].MemberID, ShouldEqual, "tm4")
				So(got[2].MemberID, ShouldEqual, "tm3")
			})

			Convey("And the limit is honoured", func() {
				got := f.Recent(2)
				So(len(got), ShouldEqual, 2)
				So(got[0].MemberID, ShouldEqual, "tm5")
			})
		})
	})

	Convey("Given a feed with a non-positive size", t, func() {
		f := activity.NewFeed(0)
		f.Append(ctx, activity.NewEvent(activity.KindFeedbackRegistered, "a", "", at))
		f.Append(ctx, activity.NewEvent(activity.KindFeedbackRegistered, "b", "", at))

		So(f.Len(), ShouldEqual, 1)
		So(f.Recent(0)[0].MemberID, ShouldEqual, "b")
	})

	Convey("Given concurrent writers", t, func() {
		f := activity.NewFeed(50)
		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				f.Append(ctx, activity.NewEvent(activity.KindKudosAwarded, "x", "", at))
			}()
		}
		wg.Wait()

		So(f.Len(), ShouldEqual, 50)
	})

	Convey("Given a new event", t, func() {
		e := activity.NewEvent(activity.KindKudosAwarded, "tm1", "count=13", at.In(time.FixedZone("X", 3600)))

		So(e.ID, ShouldNotBeEmpty)
		So(e.At.Location(), ShouldEqual, time.UTC)
		So(e.Detail, ShouldEqual, "count=13")
	})
}
