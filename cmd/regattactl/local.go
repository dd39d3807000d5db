package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sailsizzle/regatta/internal/adapters/repository"
	service "github.com/sailsizzle/regatta/internal/app"
	"github.com/sailsizzle/regatta/internal/config"
	"github.com/sailsizzle/regatta/internal/domain/ratings"
	"github.com/sailsizzle/regatta/pkg/logger"
)

// openConfiguredStore opens the store named by the service configuration.
func openConfiguredStore(ctx context.Context) (repository.Store, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, exitError(exitConfig, "%v", err)
	}
	store, err := service.OpenStore(ctx, cfg, logger.Named("regattactl"))
	if err != nil {
		return nil, exitError(exitConfig, "%v", err)
	}
	return store, nil
}

type importFlags struct {
	skipMalformed bool
	dryRun        bool
}

func newImportCmd() *cobra.Command {
	f := &importFlags{}
	cmd := &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Append rows from a spreadsheet CSV export to the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return exitError(exitFailure, "open %s: %v", args[0], err)
			}
			defer in.Close()

			store, err := openConfiguredStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := importRows(cmd.Context(), store, in, f)
			if err != nil {
				return exitError(exitFailure, "import %s: %v", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s (%d malformed, %d skipped)\n",
				res.imported, store.Backend(), res.malformed, res.skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.skipMalformed, "skip-malformed", false, "Leave out rows whose times cannot be parsed")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Parse and count rows without storing them")
	return cmd
}

type importResult struct {
	imported  int
	malformed int
	skipped   int
}

// importRows copies CSV records into store. A header row is skipped when it
// is the first record. Rows are kept as strings; malformed ones are only
// counted unless skipMalformed is set.
func importRows(ctx context.Context, store repository.Store, r io.Reader, f *importFlags) (importResult, error) {
	var res importResult
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		if line == 1 && repository.IsHeader(rec) {
			continue
		}
		row, err := repository.RowFromStrings(rec)
		if err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		entry, ok := repository.DecodeRow(row)
		if !ok || entry.Malformed {
			res.malformed++
			if f.skipMalformed {
				res.skipped++
				continue
			}
		}
		if f.dryRun {
			continue
		}
		if err := store.Append(ctx, row); err != nil {
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		res.imported++
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [csv-file]",
		Short: "Write every stored row as CSV (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				file, err := os.Create(args[0])
				if err != nil {
					return exitError(exitFailure, "create %s: %v", args[0], err)
				}
				defer file.Close()
				out = file
			}
			n, err := exportRows(cmd.Context(), store, out)
			if err != nil {
				return exitError(exitFailure, "export: %v", err)
			}
			if len(args) == 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", n, args[0])
			}
			return nil
		},
	}
	return cmd
}

// exportRows writes the header and every row of store to w.
func exportRows(ctx context.Context, store repository.Store, w io.Writer) (int, error) {
	rows, err := store.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(repository.Headers[:]); err != nil {
		return 0, err
	}
	for _, row := range rows {
		if err := cw.Write(row[:]); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(rows), cw.Error()
}

func newRatingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ratings",
		Short: "Print the Portsmouth table in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return exitError(exitConfig, "%v", err)
			}
			table, err := ratings.LoadOrDefault(cfg.RatingsFile)
			if err != nil {
				return exitError(exitConfig, "%v", err)
			}
			printRatings(cmd.OutOrStdout(), table)
			return nil
		},
	}
}

func printRatings(w io.Writer, table *ratings.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BOAT TYPE\tRATING\tMULTIPLIER")
	for _, r := range table.Ratings() {
		fmt.Fprintf(tw, "%s\t%.1f\t%.4f\n", r.Name, r.Rating, r.Multiplier())
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d boat types; unlisted types score at %.1f\n", table.Len(), table.Fallback())
}
