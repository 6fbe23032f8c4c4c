// Package simulate generates synthetic tennis matches, drives them through a
// running momentum service and checks the returned outputs.
package simulate

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/momentum/internal/domain/model"
)

// Scoring rules of a best-of-three match.
const (
	setsToWin         = 2
	gamesToWinSet     = 6
	pointsToWinGame   = 4
	pointsToWinTiebrk = 7
	winMargin         = 2
)

// Serve strength bounds: the probability that the server wins a point.
const (
	minServeStrength = 0.55
	maxServeStrength = 0.70
)

// matchNamespace seeds the deterministic ids of generated matches.
var matchNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("momentum/simulate"))

// Roster is the pool of players matches are drawn from.
var Roster = []model.Player{
	{Name: "Alcaraz", Country: "ESP", Rank: 2},
	{Name: "Sinner", Country: "ITA", Rank: 1},
	{Name: "Djokovic", Country: "SRB", Rank: 4},
	{Name: "Zverev", Country: "GER", Rank: 3},
	{Name: "Medvedev", Country: "RUS", Rank: 9},
	{Name: "Fritz", Country: "USA", Rank: 5},
	{Name: "Rune", Country: "DEN", Rank: 11},
	{Name: "de Minaur", Country: "AUS", Rank: 8},
}

var rounds = []string{"R128", "R64", "R32", "R16", "QF", "SF", "F"}

// PickPlayers draws two distinct players from Roster.
func PickPlayers(rng *rand.Rand) [2]model.Player {
	i := rng.IntN(len(Roster))
	j := rng.IntN(len(Roster) - 1)
	if j >= i {
		j++
	}
	return [2]model.Player{Roster[i], Roster[j]}
}

// GenerateMatch plays out a best-of-three match between players point by
// point. Serve alternates every game, games go to four points and sets to six
// games, both won by two; a set reaching 6-6 is decided by a single tiebreak
// game to seven. The result depends only on rng's state and index.
func GenerateMatch(rng *rand.Rand, index int, players [2]model.Player) model.Match {
	g := &generator{
		rng: rng,
		strength: [2]float64{
			minServeStrength + rng.Float64()*(maxServeStrength-minServeStrength),
			minServeStrength + rng.Float64()*(maxServeStrength-minServeStrength),
		},
		server: model.Player1,
	}

	id := uuid.NewSHA1(matchNamespace, fmt.Appendf(nil, "%d-%d", index, rng.Uint64()))
	m := model.Match{
		ID:            id.String(),
		Tournament:    "Simulated Open",
		Round:         rounds[index%len(rounds)],
		Date:          fmt.Sprintf("2024-07-%02d", index%28+1),
		Player1:       players[0],
		Player2:       players[1],
		Sets:          make([]model.Set, 0, setsToWin*2-1),
		PointSequence: make([]model.Point, 0),
	}

	var setsWon [2]int
	var scores []string
	for setsWon[0] < setsToWin && setsWon[1] < setsToWin {
		set := g.playSet(len(m.Sets) + 1)
		winner := model.Player1
		if set.games[1] > set.games[0] {
			winner = model.Player2
		}
		setsWon[side(winner)]++

		score := strconv.Itoa(set.games[0]) + "-" + strconv.Itoa(set.games[1])
		scores = append(scores, score)
		m.Sets = append(m.Sets, model.Set{
			SetNumber: len(m.Sets) + 1,
			Games:     set.games[0] + set.games[1],
			Score:     score,
			Winner:    players[side(winner)].Name,
			Tiebreak:  set.tiebreak,
		})
	}
	m.PointSequence = g.points
	m.FinalScore = strings.Join(scores, " ")
	return m
}

type generator struct {
	rng      *rand.Rand
	strength [2]float64 // serve strength per side
	server   model.Side // server of the next game
	game     int        // global number of the last game played
	points   []model.Point
}

type setResult struct {
	games    [2]int
	tiebreak bool
}

func (g *generator) playSet(number int) setResult {
	var r setResult
	for {
		if r.games[0] == gamesToWinSet && r.games[1] == gamesToWinSet {
			r.games[side(g.playGame(pointsToWinTiebrk, true))]++
			r.tiebreak = true
			return r
		}
		r.games[side(g.playGame(pointsToWinGame, false))]++
		if leads(r.games, gamesToWinSet) {
			return r
		}
	}
}

// playGame appends the points of one game and returns its winner.
func (g *generator) playGame(target int, tiebreak bool) model.Side {
	g.game++
	server := g.server
	g.server = g.server.Opponent()

	var won [2]int
	for n := 1; ; n++ {
		// in a tiebreak serve changes after the first point, then every two
		if tiebreak && n > 1 && n%2 == 0 {
			server = server.Opponent()
		}
		winner, kind := g.playPoint(server)
		won[side(winner)]++
		g.points = append(g.points, model.Point{
			Game:   g.game,
			Point:  n,
			Winner: winner,
			Type:   kind,
			Server: server,
			Score:  callScore(won, tiebreak),
		})
		if leads(won, target) {
			return winner
		}
	}
}

// playPoint decides the winner of a point and how it ended.
func (g *generator) playPoint(server model.Side) (model.Side, model.PointType) {
	roll := g.rng.Float64()
	if g.rng.Float64() < g.strength[side(server)] {
		switch {
		case roll < 0.12:
			return server, model.PointAce
		case roll < 0.50:
			return server, model.PointWinner
		case roll < 0.75:
			return server, model.PointForcedError
		default:
			return server, model.PointUnforcedError
		}
	}
	receiver := server.Opponent()
	switch {
	case roll < 0.08:
		return receiver, model.PointDoubleFault
	case roll < 0.45:
		return receiver, model.PointWinner
	case roll < 0.65:
		return receiver, model.PointForcedError
	default:
		return receiver, model.PointUnforcedError
	}
}

// leads reports whether either side reached target with a margin of two.
func leads(score [2]int, target int) bool {
	hi, lo := score[0], score[1]
	if lo > hi {
		hi, lo = lo, hi
	}
	return hi >= target && hi-lo >= winMargin
}

var calls = [...]string{"0", "15", "30", "40"}

// callScore renders the running game score from player1's side.
func callScore(won [2]int, tiebreak bool) string {
	a, b := won[0], won[1]
	switch {
	case tiebreak:
		return strconv.Itoa(a) + "-" + strconv.Itoa(b)
	case a >= 3 && b >= 3:
		switch {
		case a == b:
			return "40-40"
		case a > b+1 || b > a+1:
			return "game"
		case a > b:
			return "AD-40"
		default:
			return "40-AD"
		}
	case a > 3 || b > 3:
		return "game"
	}
	return calls[a] + "-" + calls[b]
}

func side(s model.Side) int {
	if s == model.Player1 {
		return 0
	}
	return 1
}
