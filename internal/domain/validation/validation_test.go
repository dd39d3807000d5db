package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/sailsizzle/regatta/internal/domain/ratings"
	"github.com/sailsizzle/regatta/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

func validSubmission() model.Submission {
	return model.Submission{
		RaceDate:    "2026-01-09",
		BoatName:    "Sea Biscuit",
		SkipperName: "Morgan",
		BoatType:    "laser",
		StartTime:   "18:05",
		FinishTime:  "18:50",
		Comments:    "  windy  ",
	}
}

func reasonOf(err error) validation.Reason {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return ""
}

func TestValidate(t *testing.T) {
	Convey("Given the default race-night rules", t, func() {
		rules := validation.DefaultRules()
		table := ratings.Default()
		sub := validSubmission()

		Convey("When the submission is valid", func() {
			checked, err := rules.Validate(sub, table)

			Convey("Then it should be normalized and timed", func() {
				So(err, ShouldBeNil)
				So(checked.RaceDate, ShouldEqual, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC))
				So(checked.BoatType, ShouldEqual, "Laser")
				So(checked.KnownBoatType, ShouldBeTrue)
				So(checked.Elapsed, ShouldEqual, 45*time.Minute)
				So(checked.Comments, ShouldEqual, "windy")
			})
		})

		Convey("When the date is not a Friday", func() {
			sub.RaceDate = "2026-01-10"
			_, err := rules.Validate(sub, table)

			Convey("Then it should be rejected before anything else", func() {
				So(errors.Is(err, validation.ErrInvalidSubmission), ShouldBeTrue)
				So(reasonOf(err), ShouldEqual, validation.ReasonNotRaceDay)
				So(err.Error(), ShouldContainSubstring, "Race date must be a Friday.")
			})
		})

		Convey("When the date cannot be parsed", func() {
			sub.RaceDate = "09/01/2026"
			_, err := rules.Validate(sub, table)
			So(reasonOf(err), ShouldEqual, validation.ReasonInvalidDate)
		})

		Convey("When a required field is blank", func() {
			sub.SkipperName = "   "
			_, err := rules.Validate(sub, table)
			So(reasonOf(err), ShouldEqual, validation.ReasonMissingField)
		})

		Convey("When the boat name is blank", func() {
			sub.BoatName = ""
			_, err := rules.Validate(sub, table)
			So(err, ShouldBeNil)
		})

		Convey("When the start is at 17:59", func() {
			sub.StartTime = "17:59"
			_, err := rules.Validate(sub, table)

			Convey("Then it should be too early", func() {
				So(reasonOf(err), ShouldEqual, validation.ReasonStartTooEarly)
				So(err.Error(), ShouldContainSubstring, "Start time must be after 17:59.")
			})
		})

		Convey("When the start is exactly 18:00", func() {
			sub.StartTime = "18:00"
			_, err := rules.Validate(sub, table)
			So(err, ShouldBeNil)
		})

		Convey("When the start is after the window", func() {
			sub.StartTime = "20:01"
			sub.FinishTime = "21:00"
			_, err := rules.Validate(sub, table)
			So(reasonOf(err), ShouldEqual, validation.ReasonStartOutsideWindow)
		})

		Convey("When the finish is not after the start", func() {
			sub.FinishTime = "18:05"
			_, err := rules.Validate(sub, table)
			So(reasonOf(err), ShouldEqual, validation.ReasonFinishBeforeStart)

			sub.FinishTime = "18:00"
			_, err = rules.Validate(sub, table)
			So(reasonOf(err), ShouldEqual, validation.ReasonFinishBeforeStart)
		})

		Convey("When the finish is after the window", func() {
			sub.FinishTime = "22:00"
			_, err := rules.Validate(sub, table)
			So(reasonOf(err), ShouldEqual, validation.ReasonFinishOutsideWindow)
		})

		Convey("When a time is not HH:MM", func() {
			sub.FinishTime = "quarter to seven"
			_, err := rules.Validate(sub, table)
			So(reasonOf(err), ShouldEqual, validation.ReasonInvalidTime)
		})

		Convey("When the boat type is not listed", func() {
			sub.BoatType = "Mystery Skiff"

			Convey("Then lenient rules should accept it as unknown", func() {
				checked, err := rules.Validate(sub, table)
				So(err, ShouldBeNil)
				So(checked.KnownBoatType, ShouldBeFalse)
				So(checked.BoatType, ShouldEqual, "Mystery Skiff")
			})

			Convey("Then strict rules should reject it", func() {
				rules.StrictBoatTypes = true
				_, err := rules.Validate(sub, table)
				So(reasonOf(err), ShouldEqual, validation.ReasonUnknownBoatType)
			})
		})
	})
}

func TestParseRules(t *testing.T) {
	Convey("Given rule settings", t, func() {
		Convey("When they are the defaults as strings", func() {
			rules, err := validation.ParseRules("friday", "17:59", "20:00", "21:59", false)
			So(err, ShouldBeNil)
			So(rules, ShouldResemble, validation.DefaultRules())
		})

		Convey("When the weekday is abbreviated", func() {
			rules, err := validation.ParseRules("Sat", "09:59", "11:00", "13:00", true)
			So(err, ShouldBeNil)
			So(rules.Weekday, ShouldEqual, time.Saturday)
			So(rules.StrictBoatTypes, ShouldBeTrue)
		})

		Convey("When the weekday is unknown", func() {
			_, err := validation.ParseRules("someday", "17:59", "20:00", "21:59", false)
			So(errors.Is(err, validation.ErrBadRules), ShouldBeTrue)
		})

		Convey("When a clock value is malformed", func() {
			_, err := validation.ParseRules("friday", "6pm", "20:00", "21:59", false)
			So(err, ShouldNotBeNil)
		})

		Convey("When the window is inverted", func() {
			_, err := validation.ParseRules("friday", "20:00", "18:00", "21:59", false)
			So(errors.Is(err, validation.ErrBadRules), ShouldBeTrue)
		})
	})
}
