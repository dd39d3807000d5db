// Package seed generates synthetic race seasons, submits them to a server
// and checks the server's leaderboards against locally computed ones.
package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/sailsizzle/regatta/internal/domain/model"
	"github.com/sailsizzle/regatta/internal/domain/ratings"
	"github.com/sailsizzle/regatta/internal/domain/scoring"
	"github.com/sailsizzle/regatta/internal/domain/types"
)

// Defaults for a generated season.
const (
	DefaultRaces = 10
	DefaultFleet = 6
)

// Race window used by generated entries. Starts fall in 18:00-19:00 and
// every finish lands before 21:00.
const (
	firstStart     = 18 * time.Hour
	startSpread    = 60
	minElapsedMins = 25
	elapsedSpread  = 90
	maxRedraws     = 50
)

var skippers = []string{
	"Alex", "Blair", "Casey", "Dana", "Eli", "Frankie", "Gale", "Harper",
	"Indy", "Jules", "Kai", "Lane", "Morgan", "Noor", "Oakley", "Parker",
}

var boatNames = []string{
	"Sea Biscuit", "Wet Dream", "Knot Again", "Fish Tales", "Salty Dog",
	"Aqua Holic", "Reel Therapy", "Second Wind", "Nauti Buoy", "Blue Moon",
}

// Config describes a season to generate.
type Config struct {
	Year  int    // season year; zero selects the current year
	Races int    // number of consecutive race nights
	Fleet int    // boats per race, capped at the skipper pool
	Seed  uint64 // same seed, same season
}

func (c Config) normalized() (Config, error) {
	if c.Year == 0 {
		c.Year = time.Now().Year()
	}
	if c.Races == 0 {
		c.Races = DefaultRaces
	}
	if c.Fleet == 0 {
		c.Fleet = DefaultFleet
	}
	switch {
	case c.Races < 0 || c.Races > 52:
		return c, fmt.Errorf("%w: races %d not in 1..52", ErrBadConfig, c.Races)
	case c.Fleet < 0 || c.Fleet > len(skippers):
		return c, fmt.Errorf("%w: fleet %d not in 1..%d", ErrBadConfig, c.Fleet, len(skippers))
	}
	return c, nil
}

// Generate builds a season of valid entries on the given weekday. Within a
// race no two boats share a corrected time, so the expected ranking does not
// depend on submission order.
func Generate(cfg Config, weekday time.Weekday, boats []ratings.Rating) ([]types.EntryRequest, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}
	if len(boats) == 0 {
		return nil, fmt.Errorf("%w: empty boat list", ErrBadConfig)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(cfg.Year)))
	namespace := uuid.NewSHA1(uuid.NameSpaceURL, []byte("regatta-seed"))

	date := time.Date(cfg.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for date.Weekday() != weekday {
		date = date.AddDate(0, 0, 1)
	}

	out := make([]types.EntryRequest, 0, cfg.Races*cfg.Fleet)
	for race := range cfg.Races {
		raceDate := date.AddDate(0, 0, 7*race)
		if raceDate.Year() != cfg.Year {
			break
		}
		seen := make(map[time.Duration]bool, cfg.Fleet)
		for i, pick := range rng.Perm(len(skippers))[:cfg.Fleet] {
			boat := boats[rng.IntN(len(boats))]
			var start, elapsed time.Duration
			for range maxRedraws {
				start = firstStart + time.Duration(rng.IntN(startSpread))*time.Minute
				elapsed = time.Duration(minElapsedMins+rng.IntN(elapsedSpread)) * time.Minute
				if corrected := scoring.Correct(elapsed, boat.Rating); !seen[corrected] {
					seen[corrected] = true
					break
				}
			}
			id := uuid.NewSHA1(namespace, fmt.Appendf(nil, "%d/%d/%d/%d", cfg.Seed, cfg.Year, race, i))
			out = append(out, types.EntryRequest{
				SubmissionID: id.String(),
				RaceDate:     raceDate.Format(model.DateLayout),
				BoatName:     boatNames[rng.IntN(len(boatNames))],
				SkipperName:  skippers[pick],
				BoatType:     boat.Name,
				StartTime:    model.ClockString(start),
				FinishTime:   model.ClockString(start + elapsed),
			})
		}
	}
	return out, nil
}
