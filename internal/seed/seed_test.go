package seed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sailsizzle/regatta/internal/adapters/http/api"
	service "github.com/sailsizzle/regatta/internal/app"
	"github.com/sailsizzle/regatta/internal/client"
	"github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/sailsizzle/regatta/internal/domain/ratings"
	"github.com/sailsizzle/regatta/internal/domain/scoring"
	"github.com/sailsizzle/regatta/internal/domain/types"
	"github.com/sailsizzle/regatta/internal/domain/validation"
	"github.com/sailsizzle/regatta/internal/seed"
	"github.com/sailsizzle/regatta/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeSubmitter remembers IDs and fails every entry from one skipper.
type fakeSubmitter struct {
	mu     sync.Mutex
	seen   map[string]bool
	failOn string
}

func (f *fakeSubmitter) Submit(_ context.Context, req types.EntryRequest) (types.EntryReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.SkipperName == f.failOn {
		return types.EntryReceipt{}, errors.New("store down")
	}
	if f.seen[req.SubmissionID] {
		return types.EntryReceipt{SubmissionID: req.SubmissionID, Duplicate: true}, nil
	}
	f.seen[req.SubmissionID] = true
	return types.EntryReceipt{SubmissionID: req.SubmissionID}, nil
}

func TestGenerate(t *testing.T) {
	Convey("Given a season config", t, func() {
		boats := ratings.Default().Ratings()
		cfg := seed.Config{Year: 2026, Races: 4, Fleet: 5, Seed: 7}

		Convey("When a season is generated", func() {
			reqs, err := seed.Generate(cfg, time.Friday, boats)
			So(err, ShouldBeNil)

			Convey("Then every race night should be a full fleet on a Friday", func() {
				So(reqs, ShouldHaveLength, 20)
				for _, r := range reqs {
					date, err := model.ParseDate(r.RaceDate)
					So(err, ShouldBeNil)
					So(date.Weekday(), ShouldEqual, time.Friday)
					So(date.Year(), ShouldEqual, 2026)
				}
				So(reqs[0].RaceDate, ShouldEqual, "2026-01-02")
				So(reqs[19].RaceDate, ShouldEqual, "2026-01-23")
			})

			Convey("Then every entry should pass the default rules", func() {
				rules := validation.DefaultRules()
				for _, r := range reqs {
					_, err := rules.Validate(model.Submission{
						RaceDate: r.RaceDate, SkipperName: r.SkipperName, BoatType: r.BoatType,
						StartTime: r.StartTime, FinishTime: r.FinishTime,
					}, ratings.Default())
					So(err, ShouldBeNil)
				}
			})

			Convey("Then the same seed should give the same season", func() {
				again, err := seed.Generate(cfg, time.Friday, boats)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, reqs)
			})

			Convey("Then a different seed should give a different season", func() {
				cfg.Seed = 8
				other, err := seed.Generate(cfg, time.Friday, boats)
				So(err, ShouldBeNil)
				So(other, ShouldNotResemble, reqs)
			})
		})

		Convey("When the fleet is larger than the skipper pool", func() {
			cfg.Fleet = 100
			_, err := seed.Generate(cfg, time.Friday, boats)
			So(errors.Is(err, seed.ErrBadConfig), ShouldBeTrue)
		})

		Convey("When there are no boats", func() {
			_, err := seed.Generate(cfg, time.Friday, nil)
			So(errors.Is(err, seed.ErrBadConfig), ShouldBeTrue)
		})
	})
}

func TestExpect(t *testing.T) {
	Convey("Given a generated season", t, func() {
		reqs, err := seed.Generate(seed.Config{Year: 2026, Races: 3, Fleet: 4, Seed: 1}, time.Friday, ratings.Default().Ratings())
		So(err, ShouldBeNil)

		exp, err := seed.Expect(reqs, ratings.Default(), validation.DefaultRules())

		Convey("Then the weekly board should be the last race", func() {
			So(err, ShouldBeNil)
			So(exp.Rejected, ShouldEqual, 0)
			So(exp.Weekly.RaceDate.Format(model.DateLayout), ShouldEqual, "2026-01-16")
			So(exp.Weekly.FleetSize, ShouldEqual, 4)
			So(exp.Weekly.Rows[0].Points, ShouldEqual, 4)
		})

		Convey("Then the annual total should be ten points per race", func() {
			total := 0
			for _, s := range exp.Annual.Standings {
				total += s.Points
			}
			So(exp.Annual.Races, ShouldEqual, 3)
			So(total, ShouldEqual, 30)
		})
	})
}

func TestSubmit(t *testing.T) {
	Convey("Given a submitter and a season with a repeated entry", t, func() {
		f := &fakeSubmitter{seen: map[string]bool{}, failOn: "nobody"}
		reqs := []types.EntryRequest{
			{SubmissionID: "a", SkipperName: "Alex"},
			{SubmissionID: "b", SkipperName: "Blair"},
			{SubmissionID: "a", SkipperName: "Alex"},
			{SubmissionID: "c", SkipperName: "nobody"},
		}

		stats := seed.Submit(context.Background(), f, reqs, 3)

		Convey("Then every outcome should be counted", func() {
			So(stats, ShouldResemble, seed.Stats{Submitted: 4, Accepted: 2, Duplicate: 1, Failed: 1})
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f := &fakeSubmitter{seen: map[string]bool{}}
		reqs := make([]types.EntryRequest, 100)

		stats := seed.Submit(ctx, f, reqs, 1)

		Convey("Then most work should be skipped", func() {
			So(stats.Submitted, ShouldBeLessThan, 100)
		})
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a running server and a generated season", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		c := client.New(srv.URL)
		ctx := context.Background()
		reqs, err := seed.Generate(seed.Config{Year: 2026, Races: 5, Fleet: 6, Seed: 42}, time.Friday, svc.BoatTypes())
		So(err, ShouldBeNil)

		Convey("When the season is submitted", func() {
			stats := seed.Submit(ctx, c, reqs, 4)
			So(stats.Accepted, ShouldEqual, len(reqs))

			exp, err := seed.Expect(reqs, ratings.Default(), svc.Rules())
			So(err, ShouldBeNil)
			weekly, err := c.Weekly(ctx)
			So(err, ShouldBeNil)
			annual, err := c.Annual(ctx)
			So(err, ShouldBeNil)

			Convey("Then the server's boards should match local scoring", func() {
				So(seed.Verify(exp, weekly, annual), ShouldBeNil)
			})

			Convey("Then a tampered board should be reported", func() {
				weekly.Rows[0].Points++
				err := seed.Verify(exp, weekly, annual)
				So(errors.Is(err, seed.ErrMismatch), ShouldBeTrue)
			})

			Convey("Then resubmitting should only produce duplicates", func() {
				again := seed.Submit(ctx, c, reqs, 4)
				So(again.Duplicate, ShouldEqual, len(reqs))
			})
		})
	})
}

func TestVerifyEmpty(t *testing.T) {
	Convey("Given an expectation with one boat", t, func() {
		date := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
		exp := seed.Expected{
			Weekly: scoring.Weekly{RaceDate: date, FleetSize: 1, Rows: []model.LeaderboardRow{
				{Position: 1, SkipperName: "Alex", Corrected: time.Hour, Points: 1},
			}},
			Annual: scoring.Annual{Year: 2026, Races: 1, Standings: []model.AnnualStanding{{SkipperName: "Alex", Points: 1, Races: 1}}},
		}

		Convey("When the server shows nothing", func() {
			err := seed.Verify(exp, types.WeeklyBoard{}, types.AnnualBoard{})

			Convey("Then every gap should be reported", func() {
				So(errors.Is(err, seed.ErrMismatch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "weekly row 1 missing")
				So(err.Error(), ShouldContainSubstring, "annual total for Alex")
			})
		})
	})
}
