package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/sailsizzle/regatta/internal/adapters/http/api"
	"github.com/sailsizzle/regatta/internal/adapters/repository"
	service "github.com/sailsizzle/regatta/internal/app"
)

const sheetCSV = `Race Date,Boat Name,Skipper Name or Nickname,Boat Type,Start Time,Finish Time,Elapsed Time,Corrected Time,Comments or Improvement Ideas,Submission Timestamp
2026-01-09,Sea Biscuit,Morgan,Laser,18:05,18:50,0:45:00,0:49:24,,2026-01-09T19:30:00Z
2026-01-09,Salty Dog,Alex,Topper,18:02,18:40,0:38:00,0:33:04,more sausages,2026-01-09T19:31:00Z
2026-01-09,Blue Moon,Kai,Laser,18:10,18:55,nan,nan,,2026-01-09T19:32:00Z
`

func runCLI(args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func exitCode(err error) int {
	if ee, ok := err.(*exitErr); ok {
		return ee.code
	}
	return -1
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv
}

func TestImportExport(t *testing.T) {
	convey.Convey("Given a sqlite store configured through the environment", t, func() {
		dir := t.TempDir()
		t.Setenv("REGATTA_STORE_BACKEND", "sqlite")
		t.Setenv("REGATTA_SQLITE_PATH", filepath.Join(dir, "entries.db"))
		csvPath := filepath.Join(dir, "sheet.csv")
		convey.So(os.WriteFile(csvPath, []byte(sheetCSV), 0o600), convey.ShouldBeNil)

		convey.Convey("When a spreadsheet export is imported", func() {
			out, err := runCLI("import", csvPath)

			convey.Convey("Then every row should be stored, malformed ones included", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "imported 3 rows into sqlite (1 malformed, 0 skipped)")
			})

			convey.Convey("And exporting should give the same CSV back", func() {
				exported, err := runCLI("export")
				convey.So(err, convey.ShouldBeNil)
				convey.So(exported, convey.ShouldEqual, sheetCSV)
			})

			convey.Convey("And exporting to a file should report the count", func() {
				target := filepath.Join(dir, "out.csv")
				out, err := runCLI("export", target)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "exported 3 rows")
				data, err := os.ReadFile(target)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, sheetCSV)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := runCLI("import", filepath.Join(dir, "missing.csv"))
			convey.So(exitCode(err), convey.ShouldEqual, exitFailure)
		})
	})

	convey.Convey("Given a broken configuration", t, func() {
		t.Setenv("REGATTA_STORE_BACKEND", "postgres")

		_, err := runCLI("export")

		convey.Convey("Then the config exit code should be used", func() {
			convey.So(exitCode(err), convey.ShouldEqual, exitConfig)
		})
	})
}

func TestImportRows(t *testing.T) {
	convey.Convey("Given a memory store", t, func() {
		store := repository.NewMemoryStore()
		ctx := context.Background()

		convey.Convey("When malformed rows are skipped", func() {
			res, err := importRows(ctx, store, strings.NewReader(sheetCSV), &importFlags{skipMalformed: true})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res, convey.ShouldResemble, importResult{imported: 2, malformed: 1, skipped: 1})
			rows, _ := store.ReadAll(ctx)
			convey.So(rows, convey.ShouldHaveLength, 2)
		})

		convey.Convey("When it is a dry run", func() {
			res, err := importRows(ctx, store, strings.NewReader(sheetCSV), &importFlags{dryRun: true})
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.imported, convey.ShouldEqual, 0)
			rows, _ := store.ReadAll(ctx)
			convey.So(rows, convey.ShouldBeEmpty)
		})

		convey.Convey("When a record has the wrong width", func() {
			_, err := importRows(ctx, store, strings.NewReader("2026-01-09,Laser\n"), &importFlags{})
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "line 1")
		})
	})
}

func TestRemoteCommands(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		srv := newTestServer(t)

		convey.Convey("When an entry is submitted", func() {
			out, err := runCLI("--url", srv.URL, "submit",
				"--id", "cli-1", "--date", "2026-01-09", "--skipper", "Morgan",
				"--boat-type", "Laser", "--start", "18:05", "--finish", "18:50")

			convey.Convey("Then the receipt should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "corrected: 00:49:24")
			})

			convey.Convey("And the weekly board should list it", func() {
				out, err := runCLI("--url", srv.URL, "leaderboard", "weekly")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Race 2026-01-09, 1 boats")
				convey.So(out, convey.ShouldContainSubstring, "Morgan")
			})

			convey.Convey("And a resubmission should be reported as a duplicate", func() {
				out, err := runCLI("--url", srv.URL, "submit",
					"--id", "cli-1", "--date", "2026-01-09", "--skipper", "Morgan",
					"--boat-type", "Laser", "--start", "18:05", "--finish", "18:50")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "already received")
			})
		})

		convey.Convey("When an entry breaks a rule", func() {
			_, err := runCLI("--url", srv.URL, "submit",
				"--date", "2026-01-08", "--skipper", "Morgan",
				"--boat-type", "Laser", "--start", "18:05", "--finish", "18:50")

			convey.Convey("Then the server's reason should surface", func() {
				convey.So(exitCode(err), convey.ShouldEqual, exitFailure)
				convey.So(err.Error(), convey.ShouldContainSubstring, "not_friday")
			})
		})

		convey.Convey("When the board kind is unknown", func() {
			_, err := runCLI("--url", srv.URL, "leaderboard", "monthly")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When a season is seeded", func() {
			out, err := runCLI("--url", srv.URL, "seed", "--year", "2026", "--races", "3", "--fleet", "5", "--workers", "4")

			convey.Convey("Then the server's boards should match", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "15 accepted")
				convey.So(out, convey.ShouldContainSubstring, "leaderboards match local scoring")
			})

			convey.Convey("And the annual board should print the season", func() {
				out, err := runCLI("--url", srv.URL, "leaderboard", "annual")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "2026 season, 3 races")
			})
		})
	})
}

func TestRatingsCommand(t *testing.T) {
	convey.Convey("Given the default table", t, func() {
		out, err := runCLI("ratings")

		convey.Convey("Then every boat type should be listed", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Laser")
			convey.So(out, convey.ShouldContainSubstring, "40 boat types; unlisted types score at 100.0")
		})
	})
}
