package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sailsizzle/regatta/internal/config"
	"github.com/sailsizzle/regatta/internal/domain/ratings"
	"github.com/sailsizzle/regatta/internal/domain/types"
	"github.com/sailsizzle/regatta/internal/seed"
	"github.com/sailsizzle/regatta/pkg/logger"
)

func newSubmitCmd(g *globalFlags) *cobra.Command {
	var req types.EntryRequest
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one race entry to the server",
		Example: `  regattactl submit --date 2026-01-09 --skipper Morgan --boat-type Laser \
      --start 18:05 --finish 18:50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			receipt, err := g.client().Submit(cmd.Context(), req)
			if err != nil {
				return exitError(exitFailure, "submit failed: %v", err)
			}
			printReceipt(cmd.OutOrStdout(), receipt)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.SubmissionID, "id", "", "Submission ID; resubmitting the same ID is a no-op")
	flags.StringVar(&req.RaceDate, "date", "", "Race date (YYYY-MM-DD)")
	flags.StringVar(&req.SkipperName, "skipper", "", "Skipper name")
	flags.StringVar(&req.BoatName, "boat", "", "Boat name")
	flags.StringVar(&req.BoatType, "boat-type", "", "Boat class from the Portsmouth table")
	flags.StringVar(&req.StartTime, "start", "", "Start time (HH:MM)")
	flags.StringVar(&req.FinishTime, "finish", "", "Finish time (HH:MM)")
	flags.StringVar(&req.Comments, "comments", "", "Free-text comments")
	return cmd
}

func printReceipt(w io.Writer, r types.EntryReceipt) {
	if r.Duplicate {
		fmt.Fprintf(w, "%s already received; nothing stored\n", r.SubmissionID)
		return
	}
	fmt.Fprintln(w, r.Message)
	fmt.Fprintf(w, "  id:        %s\n", r.SubmissionID)
	fmt.Fprintf(w, "  elapsed:   %s\n", r.ElapsedTime)
	fmt.Fprintf(w, "  corrected: %s\n", r.CorrectedTime)
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  warning:   %s\n", warn)
	}
}

func newLeaderboardCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "leaderboard weekly|annual",
		Short:     "Print a leaderboard from the server",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"weekly", "annual"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := g.client()
			out := cmd.OutOrStdout()
			if args[0] == "weekly" {
				board, err := c.Weekly(cmd.Context())
				if err != nil {
					return exitError(exitFailure, "weekly leaderboard: %v", err)
				}
				printWeekly(out, board)
				return nil
			}
			board, err := c.Annual(cmd.Context())
			if err != nil {
				return exitError(exitFailure, "annual leaderboard: %v", err)
			}
			printAnnual(out, board)
			return nil
		},
	}
	return cmd
}

func printWeekly(w io.Writer, b types.WeeklyBoard) {
	if b.Warning != "" {
		fmt.Fprintln(w, b.Warning)
	}
	if len(b.Rows) == 0 {
		return
	}
	fmt.Fprintf(w, "Race %s, %d boats\n", b.RaceDate, b.FleetSize)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tSKIPPER\tBOAT\tTYPE\tELAPSED\tCORRECTED\tPOINTS")
	for _, r := range b.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.Position, r.SkipperName, r.BoatName, r.BoatType, r.ElapsedTime, r.CorrectedTime, r.Points)
	}
	_ = tw.Flush()
}

func printAnnual(w io.Writer, b types.AnnualBoard) {
	if b.Warning != "" {
		fmt.Fprintln(w, b.Warning)
	}
	if len(b.Standings) == 0 {
		return
	}
	fmt.Fprintf(w, "%d season, %d races\n", b.Year, b.Races)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tSKIPPER\tPOINTS\tRACES")
	for _, s := range b.Standings {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", s.Position, s.SkipperName, s.Points, s.Races)
	}
	_ = tw.Flush()
}

type seedFlags struct {
	cfg     seed.Config
	workers int
	verify  bool
	wait    time.Duration
}

func newSeedCmd(g *globalFlags) *cobra.Command {
	f := &seedFlags{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Submit a synthetic season and check the server's boards",
		Long: `Generates a season of valid race entries, submits them concurrently and,
unless --verify=false, compares the server's weekly and annual boards with
boards computed locally. Run it against an empty store: existing entries
change the expected boards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), g, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.cfg.Year, "year", time.Now().Year(), "Season year")
	flags.IntVar(&f.cfg.Races, "races", seed.DefaultRaces, "Number of race nights")
	flags.IntVar(&f.cfg.Fleet, "fleet", seed.DefaultFleet, "Boats per race")
	flags.Uint64Var(&f.cfg.Seed, "seed", 1, "Random seed")
	flags.IntVar(&f.workers, "workers", runtime.NumCPU()*2, "Concurrent submitters")
	flags.BoolVar(&f.verify, "verify", true, "Compare the server's boards with local scoring")
	flags.DurationVar(&f.wait, "deadline", 10*time.Minute, "Overall deadline")
	return cmd
}

func runSeed(ctx context.Context, out io.Writer, g *globalFlags, f *seedFlags) error {
	ctx, cancel := context.WithTimeout(ctx, f.wait)
	defer cancel()
	log := logger.Named("regattactl")

	cfg, err := config.Load(ctx)
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}
	rules, err := cfg.Rules()
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}
	table, err := ratings.LoadOrDefault(cfg.RatingsFile)
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}

	reqs, err := seed.Generate(f.cfg, rules.Weekday, table.Ratings())
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}
	log.Info(ctx, "generated season", logger.Int("entries", len(reqs)), logger.Int("year", f.cfg.Year))

	c := g.client()
	start := time.Now()
	stats := seed.Submit(ctx, c, reqs, f.workers)
	fmt.Fprintf(out, "submitted %d entries in %s: %d accepted, %d duplicate, %d failed\n",
		stats.Submitted, time.Since(start).Round(time.Millisecond), stats.Accepted, stats.Duplicate, stats.Failed)
	if stats.Failed > 0 {
		return exitError(exitFailure, "%d submissions failed", stats.Failed)
	}
	if !f.verify {
		return nil
	}

	exp, err := seed.Expect(reqs, table, rules)
	if err != nil {
		return exitError(exitFailure, "local scoring: %v", err)
	}
	weekly, err := c.Weekly(ctx)
	if err != nil {
		return exitError(exitFailure, "weekly leaderboard: %v", err)
	}
	annual, err := c.Annual(ctx)
	if err != nil {
		return exitError(exitFailure, "annual leaderboard: %v", err)
	}
	if err := seed.Verify(exp, weekly, annual); err != nil {
		return exitError(exitMismatch, "%s", strings.ReplaceAll(err.Error(), "\n", "\n  "))
	}
	fmt.Fprintln(out, "leaderboards match local scoring")
	return nil
}
