package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get should return a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When it is initialized twice", func() {
			So(Init(), ShouldBeNil)
			So(Init(WithFormat("json")), ShouldBeNil)

			Convey("Then the last call should win", func() {
				So(Get(), ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a json logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "entry stored",
				String("skipper", "Ana"),
				Int("fleet", 3),
				Bool("known", true),
				Duration("corrected", 90*time.Second),
				Float64("rating", 91.1),
				Time("submittedAt", time.Date(2026, 1, 9, 19, 30, 0, 0, time.UTC)),
				Error(errors.New("boom")),
			)

			Convey("Then the record should carry every field plus the source", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "entry stored")
				So(rec["skipper"], ShouldEqual, "Ana")
				So(rec["fleet"], ShouldEqual, float64(3))
				So(rec["known"], ShouldEqual, true)
				So(rec["corrected"], ShouldEqual, "1m30s")
				So(rec["rating"], ShouldEqual, 91.1)
				So(rec["submittedAt"], ShouldEqual, "2026-01-09T19:30:00Z")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then only the warning should be written", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "hidden")
				So(out, ShouldContainSubstring, "shown")
			})
		})

		Convey("When using a named logger", func() {
			Named("store").Info(ctx, "opened")

			Convey("Then the name should be attached", func() {
				So(strings.Contains(buf.String(), `"logger":"store"`), ShouldBeTrue)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels should be accepted", func() {
			for _, lvl := range []string{"debug", "info", "", "WARN", "warning", "error"} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then unknown levels should be rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown log level")
		})
	})
}
