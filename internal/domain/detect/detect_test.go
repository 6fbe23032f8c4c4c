package detect_test

import (
	"testing"

	"github.com/okian/momentum/internal/domain/detect"
	"github.com/okian/momentum/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	p1 = model.Player1
	p2 = model.Player2
)

// pt builds a point with the given game, winner, type and server.
func pt(game int, winner model.Side, typ model.PointType, server model.Side) model.Point {
	return model.Point{Game: game, Winner: winner, Type: typ, Server: server}
}

// ofType filters events by type.
func ofType(events []model.MomentumEvent, typ model.EventType) []model.MomentumEvent {
	var out []model.MomentumEvent
	for _, e := range events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestEvents_Break(t *testing.T) {
	Convey("Given a game won by the receiver", t, func() {
		points := []model.Point{
			pt(1, p2, model.PointWinner, p1),
			pt(1, p1, model.PointAce, p1),
			pt(1, p2, model.PointForcedError, p1),
			pt(1, p1, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
		}

		Convey("When detecting events", func() {
			events := detect.Events(points, nil, "Djokovic", "Alcaraz")
			breaks := ofType(events, model.EventBreak)

			Convey("Then a single tier 1 break is attributed to the receiver", func() {
				So(breaks, ShouldHaveLength, 1)
				So(breaks[0].Game, ShouldEqual, 1)
				So(breaks[0].Tier, ShouldEqual, model.TierMajor)
				So(breaks[0].Player, ShouldEqual, p2)
				So(breaks[0].Name, ShouldEqual, "Break (Alcaraz)")
				So(breaks[0].Icon, ShouldEqual, detect.IconPadlock)
			})
		})
	})

	Convey("Given a game held by the server", t, func() {
		points := []model.Point{
			pt(1, p1, model.PointAce, p1),
			pt(1, p1, model.PointAce, p1),
			pt(1, p2, model.PointWinner, p1),
			pt(1, p1, model.PointWinner, p1),
			pt(1, p1, model.PointAce, p1),
		}

		Convey("Then no break is detected", func() {
			So(ofType(detect.Events(points, nil, "A", "B"), model.EventBreak), ShouldBeEmpty)
		})
	})
}

func TestEvents_BigGame(t *testing.T) {
	Convey("Given a game that reaches deuce twice", t, func() {
		// 40-40, adv p2, deuce, adv p1, game p1
		winners := []model.Side{p1, p2, p1, p2, p1, p2, p2, p1, p1, p1}
		var points []model.Point
		for _, w := range winners {
			points = append(points, pt(4, w, model.PointWinner, p1))
		}

		Convey("When detecting events", func() {
			events := detect.Events(points, nil, "A", "B")
			big := ofType(events, model.EventBigGame)

			Convey("Then a big game is credited to the game winner", func() {
				So(big, ShouldHaveLength, 1)
				So(big[0].Game, ShouldEqual, 4)
				So(big[0].Tier, ShouldEqual, model.TierMedium)
				So(big[0].Player, ShouldEqual, p1)
				So(big[0].Name, ShouldEqual, "Big Game (A)")
				So(big[0].Icon, ShouldEqual, detect.IconStar)
			})
		})
	})

	Convey("Given a game with a single deuce", t, func() {
		winners := []model.Side{p1, p2, p1, p2, p1, p2, p1, p1}
		var points []model.Point
		for _, w := range winners {
			points = append(points, pt(2, w, model.PointWinner, p1))
		}

		Convey("Then no big game is detected", func() {
			So(ofType(detect.Events(points, nil, "A", "B"), model.EventBigGame), ShouldBeEmpty)
		})
	})
}

func TestEvents_PointStreak(t *testing.T) {
	Convey("Given a streak of exactly three points that ends the log", t, func() {
		points := []model.Point{
			pt(1, p2, model.PointWinner, p1),
			pt(1, p1, model.PointWinner, p1),
			pt(1, p1, model.PointAce, p1),
			pt(2, p1, model.PointWinner, p2),
		}

		Convey("When detecting events", func() {
			streaks := ofType(detect.Events(points, nil, "A", "B"), model.EventPointStreak)

			Convey("Then the end-of-log streak is still emitted", func() {
				So(streaks, ShouldHaveLength, 1)
				So(streaks[0].Game, ShouldEqual, 2)
				So(streaks[0].Player, ShouldEqual, p1)
				So(streaks[0].Name, ShouldEqual, "3-Point Streak (A)")
				So(streaks[0].Icon, ShouldEqual, detect.IconLightning)
			})
		})
	})

	Convey("Given a streak interrupted mid-log", t, func() {
		points := []model.Point{
			pt(1, p2, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
			pt(2, p1, model.PointWinner, p2),
			pt(2, p2, model.PointWinner, p2),
		}

		Convey("Then the streak is attributed to the game of its last point", func() {
			streaks := ofType(detect.Events(points, nil, "A", "B"), model.EventPointStreak)
			So(streaks, ShouldHaveLength, 1)
			So(streaks[0].Game, ShouldEqual, 1)
			So(streaks[0].Player, ShouldEqual, p2)
			So(streaks[0].Name, ShouldEqual, "4-Point Streak (B)")
		})
	})

	Convey("Given alternating points", t, func() {
		points := []model.Point{
			pt(1, p1, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
			pt(1, p1, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
		}

		Convey("Then no streak is detected", func() {
			So(ofType(detect.Events(points, nil, "A", "B"), model.EventPointStreak), ShouldBeEmpty)
		})
	})
}

func TestEvents_ErrorCluster(t *testing.T) {
	Convey("Given three consecutive unforced errors by player2", t, func() {
		// player2 commits the errors, so player1 wins the points
		points := []model.Point{
			pt(1, p1, model.PointUnforcedError, p1),
			pt(1, p1, model.PointUnforcedError, p1),
			pt(2, p1, model.PointUnforcedError, p2),
			pt(2, p2, model.PointAce, p2),
		}

		Convey("When detecting events", func() {
			clusters := ofType(detect.Events(points, nil, "A", "B"), model.EventErrorCluster)

			Convey("Then exactly one cluster is emitted for the erring player", func() {
				So(clusters, ShouldHaveLength, 1)
				So(clusters[0].Game, ShouldEqual, 1)
				So(clusters[0].Tier, ShouldEqual, model.TierMinor)
				So(clusters[0].Player, ShouldEqual, p2)
				So(clusters[0].Name, ShouldEqual, "Error Cluster (B)")
				So(clusters[0].Icon, ShouldEqual, detect.IconCross)
			})
		})
	})

	Convey("Given four consecutive unforced errors by the same player", t, func() {
		points := []model.Point{
			pt(1, p2, model.PointUnforcedError, p1),
			pt(1, p2, model.PointUnforcedError, p1),
			pt(1, p2, model.PointUnforcedError, p1),
			pt(2, p2, model.PointUnforcedError, p2),
		}

		Convey("Then two non-overlapping clusters are emitted", func() {
			clusters := ofType(detect.Events(points, nil, "A", "B"), model.EventErrorCluster)
			So(clusters, ShouldHaveLength, 2)
			So(clusters[0].Game, ShouldEqual, 1)
			So(clusters[1].Game, ShouldEqual, 2)
			So(clusters[0].Player, ShouldEqual, p1)
		})
	})

	Convey("Given adjacent unforced errors by different players", t, func() {
		points := []model.Point{
			pt(1, p1, model.PointUnforcedError, p1),
			pt(1, p2, model.PointUnforcedError, p1),
		}

		Convey("Then no cluster is emitted", func() {
			So(ofType(detect.Events(points, nil, "A", "B"), model.EventErrorCluster), ShouldBeEmpty)
		})
	})
}

func TestEvents_Tiebreak(t *testing.T) {
	Convey("Given sets with and without decided tiebreaks", t, func() {
		sets := []model.Set{
			{SetNumber: 1, Games: 13, Winner: "Djokovic", Tiebreak: true},
			{SetNumber: 2, Games: 13, Winner: "Alcaraz", Tiebreak: true},
			{SetNumber: 3, Games: 13, Winner: "", Tiebreak: true},
			{SetNumber: 4, Games: 10, Winner: "Djokovic"},
		}

		Convey("When detecting events", func() {
			tbs := ofType(detect.Events(nil, sets, "Djokovic", "Alcaraz"), model.EventTiebreakWon)

			Convey("Then one event per decided tiebreak set is emitted at the set's game count", func() {
				So(tbs, ShouldHaveLength, 2)
				So(tbs[0].Game, ShouldEqual, 13)
				So(tbs[0].Player, ShouldEqual, p1)
				So(tbs[0].Name, ShouldEqual, "Tiebreak Won (Djokovic)")
				So(tbs[0].Icon, ShouldEqual, detect.IconTrophy)
				So(tbs[0].Tier, ShouldEqual, model.TierMajor)
				So(tbs[1].Player, ShouldEqual, p2)
			})
		})
	})
}

func TestEvents_Defaults(t *testing.T) {
	Convey("Given an empty point log and no tiebreaks", t, func() {
		events := detect.Events(nil, []model.Set{{SetNumber: 1, Games: 4}}, "", "")

		Convey("Then no events are detected and the result is not nil", func() {
			So(events, ShouldNotBeNil)
			So(events, ShouldBeEmpty)
		})
	})

	Convey("Given no player names", t, func() {
		points := []model.Point{
			pt(1, p2, model.PointWinner, p1),
		}

		Convey("Then the default labels are used", func() {
			breaks := ofType(detect.Events(points, nil, "", ""), model.EventBreak)
			So(breaks, ShouldHaveLength, 1)
			So(breaks[0].Name, ShouldEqual, "Break (Player 2)")
		})
	})

	Convey("Given a point log with several rules firing", t, func() {
		points := []model.Point{
			pt(1, p2, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
			pt(1, p2, model.PointWinner, p1),
		}
		sets := []model.Set{{SetNumber: 1, Games: 1, Winner: "B", Tiebreak: true}}

		Convey("Then events are grouped by rule in detection order", func() {
			events := detect.Events(points, sets, "A", "B")
			So(events, ShouldHaveLength, 3)
			So(events[0].Type, ShouldEqual, model.EventBreak)
			So(events[1].Type, ShouldEqual, model.EventPointStreak)
			So(events[2].Type, ShouldEqual, model.EventTiebreakWon)
		})
	})
}
