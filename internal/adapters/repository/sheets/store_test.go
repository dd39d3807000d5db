package sheets

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sailsizzle/regatta/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeValues is an in-memory worksheet.
type fakeValues struct {
	mu      sync.Mutex
	grid    [][]any
	ranges  []string
	failGet error
}

func (f *fakeValues) Append(_ context.Context, a1 string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = append(f.ranges, a1)
	f.grid = append(f.grid, values...)
	return nil
}

func (f *fakeValues) Get(_ context.Context, a1 string) ([][]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = append(f.ranges, a1)
	if f.failGet != nil {
		return nil, f.failGet
	}
	if strings.HasSuffix(a1, "!A1:J1") && len(f.grid) > 0 {
		return f.grid[:1], nil
	}
	return f.grid, nil
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty worksheet", t, func() {
		api := &fakeValues{}
		store, err := newStore(ctx, api, "")

		Convey("Then opening should write the header row", func() {
			So(err, ShouldBeNil)
			So(api.grid, ShouldHaveLength, 1)
			So(toStrings(api.grid[0]), ShouldResemble, repository.Headers[:])
			So(store.Backend(), ShouldEqual, "sheets")
			So(api.ranges[0], ShouldEqual, "'Race Entries'!A1:J1")
		})

		Convey("When a row is appended", func() {
			row := repository.Row{"2026-01-09", "Sea Biscuit", "Morgan", "Laser", "18:05", "18:50", "0:45:00", "0:49:24", "", "2026-01-09T19:02:03Z"}
			So(store.Append(ctx, row), ShouldBeNil)

			Convey("Then it should be read back without the header", func() {
				rows, err := store.ReadAll(ctx)
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, []repository.Row{row})
			})
		})
	})

	Convey("Given a worksheet with short rows", t, func() {
		api := &fakeValues{grid: [][]any{
			toCells(repository.Row(repository.Headers)),
			{"2026-01-09", "Sea Biscuit", "Morgan", "Laser", "18:05", "18:50", "0:45:00", "0:49:24"},
		}}
		store, err := newStore(ctx, api, "Entries")
		So(err, ShouldBeNil)

		Convey("Then missing trailing cells should read as empty", func() {
			rows, err := store.ReadAll(ctx)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
			So(rows[0][repository.ColComments], ShouldEqual, "")
			So(rows[0][repository.ColSubmittedAt], ShouldEqual, "")
			So(api.ranges[len(api.ranges)-1], ShouldEqual, "'Entries'!A:J")
		})
	})

	Convey("Given a worksheet with foreign headers", t, func() {
		api := &fakeValues{grid: [][]any{{"Name", "Time"}}}
		_, err := newStore(ctx, api, "")
		So(errors.Is(err, repository.ErrHeaderMismatch), ShouldBeTrue)
	})

	Convey("Given an unreachable spreadsheet", t, func() {
		api := &fakeValues{failGet: errors.New("403 forbidden")}
		_, err := newStore(ctx, api, "")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "403 forbidden")
	})

	Convey("Given no spreadsheet id", t, func() {
		_, err := Open(ctx, Config{Worksheet: DefaultWorksheet})
		So(errors.Is(err, repository.ErrMissingSetting), ShouldBeTrue)
	})

	Convey("Given a worksheet name with a quote", t, func() {
		s := &Store{worksheet: "Sail'n'Sizzle"}
		So(s.a1("A:J"), ShouldEqual, "'Sail''n''Sizzle'!A:J")
	})
}
