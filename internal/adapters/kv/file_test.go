package kv_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/okian/talentportal/internal/adapters/kv"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file store in a fresh directory", t, func() {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		s, err := kv.NewFileStore(dir)
		So(err, ShouldBeNil)

		Convey("When reading a key that was never written", func() {
			_, err := s.Get(ctx, "talentPortal_userProfile")

			Convey("Then it should report ErrKeyNotFound", func() {
				So(errors.Is(err, kv.ErrKeyNotFound), ShouldBeTrue)
			})
		})

		Convey("When a value is written", func() {
			So(s.Set(ctx, "talentPortal_personas", []byte(`[1]`)), ShouldBeNil)

			Convey("Then it should be readable", func() {
				b, err := s.Get(ctx, "talentPortal_personas")
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `[1]`)
			})

			Convey("And overwriting should replace it without leaving temp files", func() {
				So(s.Set(ctx, "talentPortal_personas", []byte(`[2]`)), ShouldBeNil)
				b, _ := s.Get(ctx, "talentPortal_personas")
				So(string(b), ShouldEqual, `[2]`)

				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
			})

			Convey("And a second store on the same directory should see it", func() {
				other, err := kv.NewFileStore(dir)
				So(err, ShouldBeNil)
				b, err := other.Get(ctx, "talentPortal_personas")
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `[1]`)
			})
		})

		Convey("When a key would escape the directory", func() {
			So(s.Set(ctx, "../evil", []byte("x")), ShouldNotBeNil)
			_, err := s.Get(ctx, "a/b")
			So(err, ShouldNotBeNil)
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(errors.Is(s.Set(cctx, "k", nil), context.Canceled), ShouldBeTrue)
		})

		Convey("When many goroutines write concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = s.Set(ctx, "k", []byte(`{"ok":true}`))
				}()
			}
			wg.Wait()

			b, err := s.Get(ctx, "k")
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"ok":true}`)
		})

		So(s.Close(), ShouldBeNil)
	})
}
