package model

// Side identifies one of the two players of a match.
type Side string

// Match sides.
const (
	Player1 Side = "player1"
	Player2 Side = "player2"
)

// Sign returns +1 for player1 and -1 for player2. Positive momentum favors player1.
func (s Side) Sign() float64 {
	if s == Player1 {
		return 1
	}
	return -1
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether s is player1 or player2.
func (s Side) Valid() bool {
	return s == Player1 || s == Player2
}

// PointType classifies how a point ended.
type PointType string

// Point types.
const (
	PointAce           PointType = "ace"
	PointWinner        PointType = "winner"
	PointUnforcedError PointType = "unforced_error"
	PointForcedError   PointType = "forced_error"
	PointDoubleFault   PointType = "double_fault"
	PointLet           PointType = "let"
	PointNet           PointType = "net"
)

// Valid reports whether t is a known point type.
func (t PointType) Valid() bool {
	switch t {
	case PointAce, PointWinner, PointUnforcedError, PointForcedError, PointDoubleFault, PointLet, PointNet:
		return true
	}
	return false
}

// Point is one scored point of the match log.
type Point struct {
	Game   int       `json:"game" yaml:"game"`                       // 1-based global game number
	Point  int       `json:"point" yaml:"point"`                     // index within the game
	Winner Side      `json:"winner" yaml:"winner"`                   // who won the point
	Type   PointType `json:"type" yaml:"type"`                       // how the point ended
	Server Side      `json:"server" yaml:"server"`                   // who served
	Score  string    `json:"score,omitempty" yaml:"score,omitempty"` // display only, e.g. "30-15"
}

// Set describes one set of the match. Winner is the winning player's name, or
// empty while the set is undecided.
type Set struct {
	SetNumber int    `json:"setNumber" yaml:"setNumber"`
	Games     int    `json:"games" yaml:"games"`
	Score     string `json:"score" yaml:"score"`
	Winner    string `json:"winner" yaml:"winner"`
	Tiebreak  bool   `json:"tiebreak,omitempty" yaml:"tiebreak,omitempty"`
}

// Player identifies a competitor. Rank 0 means unranked.
type Player struct {
	Name    string `json:"name" yaml:"name"`
	Country string `json:"country" yaml:"country"`
	Rank    int    `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// Match is a full match record. Tournament, Round, Date and FinalScore are
// display fields the momentum pipeline ignores.
type Match struct {
	ID            string  `json:"id" yaml:"id"`
	Tournament    string  `json:"tournament" yaml:"tournament"`
	Round         string  `json:"round" yaml:"round"`
	Date          string  `json:"date" yaml:"date"`
	Player1       Player  `json:"player1" yaml:"player1"`
	Player2       Player  `json:"player2" yaml:"player2"`
	Sets          []Set   `json:"sets" yaml:"sets"`
	PointSequence []Point `json:"pointSequence" yaml:"pointSequence"`
	FinalScore    string  `json:"finalScore" yaml:"finalScore"`
}

// MatchSummary is the catalog listing shape of a match.
type MatchSummary struct {
	ID         string `json:"id"`
	Tournament string `json:"tournament"`
	Round      string `json:"round"`
	Date       string `json:"date"`
	Player1    Player `json:"player1"`
	Player2    Player `json:"player2"`
	FinalScore string `json:"finalScore"`
	TotalGames int    `json:"totalGames"`
}

// Summary returns the listing view of m.
func (m *Match) Summary() MatchSummary {
	return MatchSummary{
		ID:         m.ID,
		Tournament: m.Tournament,
		Round:      m.Round,
		Date:       m.Date,
		Player1:    m.Player1,
		Player2:    m.Player2,
		FinalScore: m.FinalScore,
		TotalGames: TotalGames(m.Sets),
	}
}

// Clone returns a copy of m that shares no slices with it.
func (m *Match) Clone() Match {
	c := *m
	if m.Sets != nil {
		c.Sets = make([]Set, len(m.Sets))
		copy(c.Sets, m.Sets)
	}
	if m.PointSequence != nil {
		c.PointSequence = make([]Point, len(m.PointSequence))
		copy(c.PointSequence, m.PointSequence)
	}
	return c
}

// TotalGames returns the number of games across all sets.
func TotalGames(sets []Set) int {
	total := 0
	for _, s := range sets {
		total += s.Games
	}
	return total
}

// SetEndGames returns the cumulative game index that closes each set, in set order.
func SetEndGames(sets []Set) []int {
	ends := make([]int, 0, len(sets))
	cumulative := 0
	for _, s := range sets {
		cumulative += s.Games
		ends = append(ends, cumulative)
	}
	return ends
}
