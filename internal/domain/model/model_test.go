package model_test

import (
	"errors"
	"testing"
	"time"

	model "github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestFormatDuration(t *testing.T) {
	convey.Convey("Given durations to store", t, func() {
		convey.Convey("Then positive durations should render as H:MM:SS", func() {
			convey.So(model.FormatDuration(0), convey.ShouldEqual, "0:00:00")
			convey.So(model.FormatDuration(45*time.Minute), convey.ShouldEqual, "0:45:00")
			convey.So(model.FormatDuration(time.Hour+2*time.Minute+3*time.Second), convey.ShouldEqual, "1:02:03")
		})

		convey.Convey("Then negative durations should carry a day component", func() {
			convey.So(model.FormatDuration(-10*time.Minute), convey.ShouldEqual, "-1 day, 23:50:00")
		})

		convey.Convey("Then durations over a day should carry a day component", func() {
			convey.So(model.FormatDuration(50*time.Hour), convey.ShouldEqual, "2 days, 2:00:00")
		})
	})
}

func TestParseDuration(t *testing.T) {
	convey.Convey("Given stored duration cells", t, func() {
		cases := map[string]time.Duration{
			"0:45:00":          45 * time.Minute,
			"1:02:03":          time.Hour + 2*time.Minute + 3*time.Second,
			"00:09:30":         9*time.Minute + 30*time.Second,
			"0:45":             45 * time.Minute,
			"-1 day, 23:50:00": -10 * time.Minute,
			"0 days 00:12:00":  12 * time.Minute,
			"0:10:00.500000":   10*time.Minute + 500*time.Millisecond,
			"1h30m":            90 * time.Minute,
			" 0:30:00 ":        30 * time.Minute,
		}

		convey.Convey("Then well-formed cells should parse", func() {
			for in, want := range cases {
				got, err := model.ParseDuration(in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, want)
			}
		})

		convey.Convey("Then round trips through FormatDuration should be lossless", func() {
			for _, d := range []time.Duration{0, 90 * time.Second, 47*time.Minute + 12*time.Second, -5 * time.Minute} {
				got, err := model.ParseDuration(model.FormatDuration(d))
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldEqual, d)
			}
		})

		convey.Convey("Then a full day should be the longest accepted cell", func() {
			got, err := model.ParseDuration("24:00:00")
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, model.MaxStoredDuration)
		})

		convey.Convey("Then malformed cells should be rejected", func() {
			for _, in := range []string{"", "nan", "NaN", "NaT", "abc", "1:75:00", "12",
				"5124096:00:00", "99999999999999999999:00:00", "3 days, 0:00:00", "25:00:00", "200h"} {
				_, err := model.ParseDuration(in)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, model.ErrBadDuration), convey.ShouldBeTrue)
			}
		})
	})
}

func TestClock(t *testing.T) {
	convey.Convey("Given clock helpers", t, func() {
		convey.Convey("When parsing HH:MM", func() {
			off, err := model.ParseClock("18:05")
			convey.So(err, convey.ShouldBeNil)
			convey.So(off, convey.ShouldEqual, 18*time.Hour+5*time.Minute)
			convey.So(model.ClockString(off), convey.ShouldEqual, "18:05")
		})

		convey.Convey("When parsing an invalid time", func() {
			_, err := model.ParseClock("25:00")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When formatting a display clock", func() {
			convey.So(model.FormatClock(9*time.Minute+30*time.Second), convey.ShouldEqual, "00:09:30")
			convey.So(model.FormatClock(-time.Minute), convey.ShouldEqual, "-00:01:00")
		})
	})
}

func TestDates(t *testing.T) {
	convey.Convey("Given race dates", t, func() {
		convey.Convey("When parsing YYYY-MM-DD", func() {
			d, err := model.ParseDate("2026-01-09")
			convey.So(err, convey.ShouldBeNil)
			convey.So(d.Weekday(), convey.ShouldEqual, time.Friday)
			convey.So(model.RaceEntry{RaceDate: d}.Year(), convey.ShouldEqual, 2026)
		})

		convey.Convey("When truncating a local timestamp", func() {
			loc := time.FixedZone("EST", -5*3600)
			ts := time.Date(2026, 1, 9, 23, 30, 0, 0, loc)
			convey.So(model.DateOf(ts), convey.ShouldEqual, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
		})

		convey.Convey("When parsing garbage", func() {
			_, err := model.ParseDate("09/01/2026")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
