package simulate_test

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/okian/momentum/internal/domain/model"
	"github.com/okian/momentum/internal/simulate"
	. "github.com/smartystreets/goconvey/convey"
)

func parseScore(score string) (int, int) {
	a, b, _ := strings.Cut(score, "-")
	x, _ := strconv.Atoi(a)
	y, _ := strconv.Atoi(b)
	return x, y
}

func TestGenerateMatch(t *testing.T) {
	Convey("Given a batch of generated matches", t, func() {
		matches := simulate.Generate(42, 200)
		So(matches, ShouldHaveLength, 200)

		Convey("Then every match is a valid record", func() {
			for _, m := range matches {
				So(m.Validate(), ShouldBeNil)
				So(m.ID, ShouldNotBeEmpty)
				So(m.Player1.Name, ShouldNotEqual, m.Player2.Name)
			}
		})

		Convey("Then game numbers run contiguously over the whole log", func() {
			for _, m := range matches {
				last := 0
				for _, p := range m.PointSequence {
					So(p.Game == last || p.Game == last+1, ShouldBeTrue)
					last = p.Game
				}
				So(last, ShouldEqual, model.TotalGames(m.Sets))
			}
		})

		Convey("Then set scores follow the scoring rules", func() {
			tiebreaks := 0
			for _, m := range matches {
				So(len(m.Sets), ShouldBeBetweenOrEqual, 2, 3)

				won := map[string]int{}
				for i, s := range m.Sets {
					a, b := parseScore(s.Score)
					hi, lo := max(a, b), min(a, b)

					So(s.SetNumber, ShouldEqual, i+1)
					So(s.Games, ShouldEqual, a+b)
					switch {
					case s.Tiebreak:
						tiebreaks++
						So([2]int{hi, lo}, ShouldResemble, [2]int{7, 6})
					case hi == 6:
						So(lo, ShouldBeLessThanOrEqualTo, 4)
					default:
						So([2]int{hi, lo}, ShouldResemble, [2]int{7, 5})
					}

					want := m.Player1.Name
					if b > a {
						want = m.Player2.Name
					}
					So(s.Winner, ShouldEqual, want)
					won[s.Winner]++
				}

				champion := m.Sets[len(m.Sets)-1].Winner
				So(won[champion], ShouldEqual, 2)
				So(strings.Fields(m.FinalScore), ShouldHaveLength, len(m.Sets))
			}
			So(tiebreaks, ShouldBeGreaterThan, 0)
		})

		Convey("Then serve alternates between games", func() {
			m := matches[0]
			servers := map[int]model.Side{}
			for _, p := range m.PointSequence {
				if _, ok := servers[p.Game]; !ok {
					servers[p.Game] = p.Server
				}
			}
			for g := 2; g <= len(servers); g++ {
				So(servers[g], ShouldEqual, servers[g-1].Opponent())
			}
		})
	})

	Convey("Given the same seed twice", t, func() {
		first := simulate.Generate(7, 5)
		second := simulate.Generate(7, 5)

		Convey("Then the matches are identical", func() {
			So(second, ShouldResemble, first)
		})
	})

	Convey("Given different seeds", t, func() {
		Convey("Then the match ids differ", func() {
			So(simulate.Generate(1, 1)[0].ID, ShouldNotEqual, simulate.Generate(2, 1)[0].ID)
		})
	})

	Convey("Given a player draw", t, func() {
		rng := rand.New(rand.NewPCG(3, 4))

		Convey("Then the two players are always distinct", func() {
			for range 100 {
				players := simulate.PickPlayers(rng)
				So(players[0].Name, ShouldNotEqual, players[1].Name)
			}
		})
	})
}
