package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	dedupe "github.com/okian/momentum/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When an id is recorded", func() {
			seen := d.SeenAndRecord(ctx, "match-1")

			Convey("Then it was not seen before", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports it as seen", func() {
				So(d.SeenAndRecord(ctx, "match-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And unrecording frees it", func() {
				d.Unrecord(ctx, "match-1")
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "match-1"), ShouldBeFalse)
			})

			Convey("And unrecording an unknown id changes nothing", func() {
				d.Unrecord(ctx, "other")
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
		d.SeenAndRecord(ctx, "a")
		d.SeenAndRecord(ctx, "b")

		Convey("When it is full", func() {
			Convey("Then unknown ids are refused", func() {
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 2)
			})

			Convey("Then a refused id is not pending", func() {
				d.SeenAndRecord(ctx, "c")
				So(d.Contains(ctx, "c"), ShouldBeFalse)
				So(d.Contains(ctx, "a"), ShouldBeTrue)
			})

			Convey("Then space returns after an unrecord", func() {
				d.Unrecord(ctx, "a")
				So(d.SeenAndRecord(ctx, "c"), ShouldBeFalse)
			})
		})
	})

	Convey("Given concurrent recorders of the same ids", t, func() {
		ctx := context.Background()
		d := dedupe.NewInMemoryDeduper()
		var fresh atomic.Int64
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					if !d.SeenAndRecord(ctx, fmt.Sprintf("match-%d", i)) {
						fresh.Add(1)
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then every id is recorded exactly once", func() {
			So(fresh.Load(), ShouldEqual, 100)
			So(d.Size(), ShouldEqual, 100)
		})
	})
}
