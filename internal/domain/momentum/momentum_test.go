package momentum_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/internal/domain/momentum"
	"github.com/okian/momentum/internal/domain/visual"
	. "github.com/smartystreets/goconvey/convey"
)

// game returns the points of game g served by server and won by winner. The
// pattern W L W W L W never lets anyone win three points in a row.
func game(g int, server, winner model.Side) []model.Point {
	loser := winner.Opponent()
	sides := []model.Side{winner, loser, winner, winner, loser, winner}
	points := make([]model.Point, 0, len(sides))
	for i, w := range sides {
		points = append(points, model.Point{Game: g, Point: i + 1, Winner: w, Type: model.PointWinner, Server: server})
	}
	return points
}

// sampleMatch builds a two set match of 10 and 9 games with alternating serve.
// Player2 breaks in game 3, player1 breaks back in game 4 and player2 breaks
// again in game 15.
func sampleMatch() model.Match {
	var points []model.Point
	server := model.Player1
	for g := 1; g <= 19; g++ {
		winner := server
		if g == 3 || g == 4 || g == 15 {
			winner = server.Opponent()
		}
		points = append(points, game(g, server, winner)...)
		server = server.Opponent()
	}
	return model.Match{
		ID:      "sample",
		Player1: model.Player{Name: "Djokovic", Country: "SRB"},
		Player2: model.Player{Name: "Alcaraz", Country: "ESP"},
		Sets: []model.Set{
			{SetNumber: 1, Games: 10, Score: "6-4", Winner: "Djokovic"},
			{SetNumber: 2, Games: 9, Score: "3-6", Winner: "Alcaraz"},
		},
		PointSequence: points,
	}
}

func TestCalculate(t *testing.T) {
	Convey("Given a two set match", t, func() {
		m := sampleMatch()

		Convey("When calculating momentum", func() {
			out := momentum.Calculate(m)
			total := model.TotalGames(m.Sets)

			Convey("Then array lengths follow the game count", func() {
				So(out.States, ShouldHaveLength, total)
				So(out.Colors, ShouldHaveLength, total)
				So(out.Positions, ShouldHaveLength, total+1)
				So(out.SetSeparators, ShouldHaveLength, len(m.Sets)-1)
			})

			Convey("Then every state is clipped and every event is inside the match", func() {
				for _, s := range out.States {
					So(s, ShouldBeBetweenOrEqual, -2, 2)
				}
				for _, e := range out.Events {
					So(e.Game, ShouldBeBetweenOrEqual, 1, total)
				}
			})

			Convey("Then x is monotonic from 0 to 1000", func() {
				So(out.Positions[0].X, ShouldEqual, 0)
				So(out.Positions[len(out.Positions)-1].X, ShouldEqual, 1000)
				for i := 1; i < len(out.Positions); i++ {
					So(out.Positions[i].X, ShouldBeGreaterThanOrEqualTo, out.Positions[i-1].X)
				}
			})

			Convey("Then only the three breaks are detected", func() {
				So(out.Events, ShouldHaveLength, 3)
				for _, e := range out.Events {
					So(e.Type, ShouldEqual, model.EventBreak)
				}
			})

			Convey("Then the states follow the breaks, holds, decay and set damping", func() {
				So(out.States, ShouldResemble, []float64{
					0, 0, -2, 2, 2, 2, 1.5, 1, 0.5, 0,
					0, 0, 0, 0, -2, -2, -2, -1.5, 0,
				})
			})

			Convey("Then the set separator sits at the first set's share of games", func() {
				So(out.SetSeparators[0], ShouldAlmostEqual, 10.0/19.0*1000, 1e-9)
			})
		})

		Convey("When calculating twice", func() {
			first := momentum.Calculate(m)
			second := momentum.Calculate(m)

			Convey("Then the output is identical", func() {
				So(second, ShouldResemble, first)
			})

			Convey("And outputs do not share storage", func() {
				first.States[0] = 42
				So(second.States[0], ShouldNotEqual, 42)
			})
		})
	})

	Convey("Given an empty point log over a four game set", t, func() {
		m := model.Match{Sets: []model.Set{{SetNumber: 1, Games: 4}}}
		out := momentum.Calculate(m)

		Convey("Then no events are detected and everything is neutral", func() {
			So(out.Events, ShouldBeEmpty)
			So(out.States, ShouldResemble, []float64{0, 0, 0, 0})
			So(out.Colors, ShouldResemble, []string{visual.ColorNeutral, visual.ColorNeutral, visual.ColorNeutral, visual.ColorNeutral})
			So(out.SetSeparators, ShouldBeEmpty)
		})
	})

	Convey("Given a match with no sets", t, func() {
		out := momentum.Calculate(model.Match{})

		Convey("Then only the anchor position is produced", func() {
			So(out.States, ShouldBeEmpty)
			So(out.Colors, ShouldBeEmpty)
			So(out.Positions, ShouldResemble, []model.Position{{X: 0, Y: 140}})
			So(out.SetSeparators, ShouldNotBeNil)
			So(out.SetSeparators, ShouldBeEmpty)
		})
	})
}

func TestSetSeparators(t *testing.T) {
	Convey("Given three sets", t, func() {
		sets := []model.Set{{Games: 10}, {Games: 6}, {Games: 4}}

		Convey("Then separators are strictly increasing inside (0, 1000)", func() {
			seps := momentum.SetSeparators(sets)
			So(seps, ShouldResemble, []float64{500, 800})
		})
	})

	Convey("Given sets without any games", t, func() {
		Convey("Then zeros are returned without dividing", func() {
			So(momentum.SetSeparators([]model.Set{{}, {}, {}}), ShouldResemble, []float64{0, 0})
		})
	})
}

func TestEngine(t *testing.T) {
	Convey("Given a new engine", t, func() {
		engine := momentum.NewEngine(momentum.WithDefaultPlayerNames("Home", "Away"))

		Convey("When the match carries no player names", func() {
			m := model.Match{
				Sets: []model.Set{{SetNumber: 1, Games: 1}},
				PointSequence: []model.Point{
					{Game: 1, Winner: model.Player2, Type: model.PointWinner, Server: model.Player1},
				},
			}
			out, err := engine.Calculate(context.Background(), m)

			Convey("Then the default names label the events", func() {
				So(err, ShouldBeNil)
				So(out.Events, ShouldHaveLength, 1)
				So(out.Events[0].Name, ShouldEqual, "Break (Away)")
			})

			Convey("And the caller's match is not modified", func() {
				So(m.Player2.Name, ShouldEqual, "")
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := engine.Calculate(ctx, sampleMatch())

			Convey("Then it returns the context error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When the match is well-formed", func() {
			m := sampleMatch()
			out, err := engine.Calculate(context.Background(), m)

			Convey("Then it matches the plain pipeline", func() {
				So(err, ShouldBeNil)
				So(out, ShouldResemble, momentum.Calculate(m))
			})
		})
	})
}
