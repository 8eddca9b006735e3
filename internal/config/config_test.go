package config_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/talentportal/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.Backend, convey.ShouldEqual, config.BackendMemory)
			convey.So(cfg.DatabaseID, convey.ShouldEqual, "talentdb")
			convey.So(cfg.ContainerID, convey.ShouldEqual, "profiles")
			convey.So(cfg.ProfileID, convey.ShouldEqual, "u123")
			convey.So(cfg.ActivityQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.ActivityWorkers, convey.ShouldEqual, 2)
			convey.So(cfg.IdempotencySize, convey.ShouldEqual, 10_000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the backend is unknown", func() {
			cfg.Backend = "cassandra"
			err := cfg.Validate()

			convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When postgres is selected without a DSN", func() {
			cfg.Backend = config.BackendPostgres
			err := cfg.Validate()

			convey.Convey("Then validation should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "postgres_url")
			})
		})

		convey.Convey("When the profile id is blank", func() {
			cfg.ProfileID = ""
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})
	})
}
