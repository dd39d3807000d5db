package tracing

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSetup(t *testing.T) {
	Convey("Given tracing options", t, func() {
		ctx := context.Background()

		Convey("When tracing is disabled", func() {
			shutdown, err := Setup(ctx, Options{Enabled: false, Endpoint: "http://localhost:4318"})

			Convey("Then a no-op shutdown should be returned", func() {
				So(err, ShouldBeNil)
				So(shutdown, ShouldNotBeNil)
				So(shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When enabled without an endpoint", func() {
			shutdown, err := Setup(ctx, Options{Enabled: true})

			Convey("Then it should stay a no-op", func() {
				So(err, ShouldBeNil)
				So(shutdown(ctx), ShouldBeNil)
			})
		})

		Convey("When asking for a tracer", func() {
			_, span := Tracer("test").Start(ctx, "op")
			defer span.End()

			Convey("Then a span should be returned even without a provider", func() {
				So(span, ShouldNotBeNil)
			})
		})
	})
}
