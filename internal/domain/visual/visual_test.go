package visual_test

import (
	"testing"

	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/internal/domain/visual"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMap(t *testing.T) {
	Convey("Given four game states", t, func() {
		states := []float64{0, 2, -2, 1}

		Convey("When mapping to visual attributes", func() {
			v := visual.Map(states, nil)

			Convey("Then positions carry a leading neutral anchor", func() {
				So(v.Positions, ShouldHaveLength, 5)
				So(v.Positions[0], ShouldResemble, model.Position{X: 0, Y: 140})
			})

			Convey("Then x spreads games evenly up to 1000", func() {
				So(v.Positions[1].X, ShouldEqual, 250)
				So(v.Positions[2].X, ShouldEqual, 500)
				So(v.Positions[3].X, ShouldEqual, 750)
				So(v.Positions[4].X, ShouldEqual, 1000)
			})

			Convey("Then y maps state 2 to the top and -2 to the bottom", func() {
				So(v.Positions[1].Y, ShouldEqual, 140)
				So(v.Positions[2].Y, ShouldEqual, 0)
				So(v.Positions[3].Y, ShouldEqual, 280)
				So(v.Positions[4].Y, ShouldEqual, 70)
			})

			Convey("Then colors are index-aligned with states", func() {
				So(v.Colors, ShouldResemble, []string{
					visual.ColorNeutral,
					visual.ColorStrongPositive,
					visual.ColorStrongNegative,
					visual.ColorSoftPositive,
				})
			})
		})
	})

	Convey("Given no states", t, func() {
		v := visual.Map(nil, nil)

		Convey("Then only the anchor is produced and no division happens", func() {
			So(v.Colors, ShouldNotBeNil)
			So(v.Colors, ShouldBeEmpty)
			So(v.Positions, ShouldResemble, []model.Position{{X: 0, Y: 140}})
		})
	})

	Convey("Given a state slice", t, func() {
		states := []float64{1, -1}

		Convey("Then mapping does not modify it", func() {
			_ = visual.Map(states, nil)
			So(states, ShouldResemble, []float64{1, -1})
		})
	})
}

func TestColor(t *testing.T) {
	Convey("Given fractional states", t, func() {
		Convey("Then halves round toward positive infinity", func() {
			So(visual.Color(0.5), ShouldEqual, visual.ColorSoftPositive)
			So(visual.Color(-0.5), ShouldEqual, visual.ColorNeutral)
			So(visual.Color(1.5), ShouldEqual, visual.ColorStrongPositive)
			So(visual.Color(-1.5), ShouldEqual, visual.ColorSoftNegative)
		})

		Convey("Then values round to the nearest bucket", func() {
			So(visual.Color(-0.4), ShouldEqual, visual.ColorNeutral)
			So(visual.Color(-1.6), ShouldEqual, visual.ColorStrongNegative)
		})
	})

	Convey("Given out-of-range states", t, func() {
		Convey("Then the neutral color is used", func() {
			So(visual.Color(3), ShouldEqual, visual.ColorNeutral)
			So(visual.Color(-7), ShouldEqual, visual.ColorNeutral)
		})
	})
}
