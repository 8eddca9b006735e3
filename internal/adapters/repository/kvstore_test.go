package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/talentportal/internal/adapters/kv"
	"github.com/okian/talentportal/internal/adapters/repository"
	"github.com/okian/talentportal/internal/adapters/repository/repotest"
	"github.com/okian/talentportal/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKVStore_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Store {
		fs, err := kv.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatalf("file store: %v", err)
		}
		s, err := repository.NewKVStore(context.Background(), fs)
		if err != nil {
			t.Fatalf("kv store: %v", err)
		}
		return s
	})
}

// failingKV fails every call after the first n successful ones.
type failingKV struct {
	kv.Store
	n int
}

var errDisk = errors.New("disk gone")

func (f *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.n <= 0 {
		return nil, errDisk
	}
	f.n--
	return f.Store.Get(ctx, key)
}

func TestKVStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file-backed kv store", t, func() {
		dir := t.TempDir()
		fs, err := kv.NewFileStore(dir)
		So(err, ShouldBeNil)
		s, err := repository.NewKVStore(ctx, fs)
		So(err, ShouldBeNil)

		Convey("Then all three blobs should be seeded under their keys", func() {
			for _, key := range []string{repository.KeyProfile, repository.KeyPersonas, repository.KeyTeam} {
				b, err := fs.Get(ctx, key)
				So(err, ShouldBeNil)
				So(json.Valid(b), ShouldBeTrue)
			}
		})

		Convey("When the store is reopened after a mutation", func() {
			_, err := s.AwardKudos(ctx, "tm3")
			So(err, ShouldBeNil)

			reopened, err := repository.NewKVStore(ctx, fs)
			So(err, ShouldBeNil)

			Convey("Then the persisted state should survive and not be re-seeded", func() {
				team, err := reopened.GetTeam(ctx)
				So(err, ShouldBeNil)
				So(team[model.FindMember(team, "tm3")].KudosCount, ShouldEqual, 29)
			})
		})

		Convey("When only one blob is missing", func() {
			_, err := s.AwardKudos(ctx, "tm1")
			So(err, ShouldBeNil)

			fresh := t.TempDir()
			other, _ := kv.NewFileStore(fresh)
			b, _ := fs.Get(ctx, repository.KeyTeam)
			So(other.Set(ctx, repository.KeyTeam, b), ShouldBeNil)

			s2, err := repository.NewKVStore(ctx, other)
			So(err, ShouldBeNil)

			Convey("Then only the missing blobs are seeded", func() {
				team, _ := s2.GetTeam(ctx)
				So(team[model.FindMember(team, "tm1")].KudosCount, ShouldEqual, 13)
				ps, _ := s2.GetPersonas(ctx)
				So(len(ps), ShouldEqual, 2)
				p, err := s2.GetProfile(ctx)
				So(err, ShouldBeNil)
				So(p.ID, ShouldEqual, "u123")
			})
		})

		So(s.Close(ctx), ShouldBeNil)
	})

	Convey("Given a kv driver that becomes unavailable", t, func() {
		fs, _ := kv.NewFileStore(t.TempDir())
		flaky := &failingKV{Store: fs, n: 3}
		s, err := repository.NewKVStore(ctx, flaky)
		So(err, ShouldBeNil)

		_, err = s.AwardKudos(ctx, "tm1")

		Convey("Then mutations should report ErrStoreUnavailable", func() {
			So(errors.Is(err, repository.ErrStoreUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given a kv driver that is unavailable from the start", t, func() {
		fs, _ := kv.NewFileStore(t.TempDir())
		_, err := repository.NewKVStore(ctx, &failingKV{Store: fs})

		So(errors.Is(err, repository.ErrStoreUnavailable), ShouldBeTrue)
	})
}
