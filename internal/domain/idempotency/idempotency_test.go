package idempotency_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/talentportal/internal/domain/idempotency"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new cache", t, func() {
		c := idempotency.NewInMemoryCache(idempotency.WithMaxSize(3))

		Convey("Then it should start empty", func() {
			So(c.Size(), ShouldEqual, 0)
			_, ok := c.Lookup(ctx, "k")
			So(ok, ShouldBeFalse)
		})

		Convey("When a response is stored", func() {
			stored := c.Store(ctx, "k1", idempotency.Response{Status: 201, Body: []byte(`{"id":"f1"}`)})

			Convey("Then it can be looked up", func() {
				So(stored, ShouldBeTrue)
				resp, ok := c.Lookup(ctx, "k1")
				So(ok, ShouldBeTrue)
				So(resp.Status, ShouldEqual, 201)
				So(string(resp.Body), ShouldEqual, `{"id":"f1"}`)
			})

			Convey("And the first response wins", func() {
				So(c.Store(ctx, "k1", idempotency.Response{Status: 500}), ShouldBeFalse)
				resp, _ := c.Lookup(ctx, "k1")
				So(resp.Status, ShouldEqual, 201)
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("And mutating a lookup result does not change the cache", func() {
				resp, _ := c.Lookup(ctx, "k1")
				resp.Body[0] = 'X'
				again, _ := c.Lookup(ctx, "k1")
				So(string(again.Body), ShouldEqual, `{"id":"f1"}`)
			})
		})

		Convey("When more keys than capacity are stored", func() {
			for i := 1; i <= 4; i++ {
				c.Store(ctx, fmt.Sprintf("k%d", i), idempotency.Response{Status: 200})
			}

			Convey("Then the oldest key is evicted", func() {
				So(c.Size(), ShouldEqual, 3)
				_, ok := c.Lookup(ctx, "k1")
				So(ok, ShouldBeFalse)
				_, ok = c.Lookup(ctx, "k4")
				So(ok, ShouldBeTrue)
			})
		})
	})

	Convey("Given a cache of size one", t, func() {
		c := idempotency.NewInMemoryCache(idempotency.WithMaxSize(1))
		c.Store(ctx, "a", idempotency.Response{})
		c.Store(ctx, "b", idempotency.Response{})

		So(c.Size(), ShouldEqual, 1)
		_, ok := c.Lookup(ctx, "b")
		So(ok, ShouldBeTrue)
	})

	Convey("Given a full cache receiving many more keys", t, func() {
		const size = 1000
		c := idempotency.NewInMemoryCache(idempotency.WithMaxSize(size))
		for i := 0; i < 5*size; i++ {
			c.Store(ctx, fmt.Sprintf("k%d", i), idempotency.Response{Status: i})
		}

		Convey("Then only the newest keys remain, oldest evicted first", func() {
			So(c.Size(), ShouldEqual, size)
			_, ok := c.Lookup(ctx, fmt.Sprintf("k%d", 4*size-1))
			So(ok, ShouldBeFalse)
			resp, ok := c.Lookup(ctx, fmt.Sprintf("k%d", 4*size))
			So(ok, ShouldBeTrue)
			So(resp.Status, ShouldEqual, 4*size)
			_, ok = c.Lookup(ctx, fmt.Sprintf("k%d", 5*size-1))
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Given an unbounded cache under concurrent writers", t, func() {
		c := idempotency.NewInMemoryCache(idempotency.WithMaxSize(0))
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if c.Store(ctx, "same", idempotency.Response{Status: i}) {
					mu.Lock()
					wins++
					mu.Unlock()
				}
				c.Store(ctx, fmt.Sprintf("k%d", i), idempotency.Response{})
			}(i)
		}
		wg.Wait()

		Convey("Then exactly one writer wins per key", func() {
			So(wins, ShouldEqual, 1)
			So(c.Size(), ShouldEqual, 51)
		})
	})
}
