package opening

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/notnil/chess"
)

// RatingBands are the rating pools the opening explorer can be filtered by,
// ascending.
var RatingBands = []int{1600, 1800, 2000, 2500}

// CoverageThreshold is the cumulative popularity share at which candidate
// selection stops keeping further moves.
const CoverageThreshold = 0.6

// DefaultFirstMoves are the four canonical first moves a repertoire is grown
// from when the caller does not supply an initial frontier.
var DefaultFirstMoves = []string{"e4", "d4", "c4", "Nf3"}

// Candidate is one proposed move at a position together with its popularity in
// the queried pool. Games and Share are derived, not reported by the explorer.
type Candidate struct {
	SAN   string  `json:"san"`
	White int     `json:"white"`
	Draws int     `json:"draws"`
	Black int     `json:"black"`
	Games int     `json:"games"`
	Share float64 `json:"share"`
}

// Repertoire is one finished expansion run.
type Repertoire struct {
	ID         string    `bson:"_id" json:"id"`
	Color      string    `bson:"color" json:"color"`
	Iterations int       `bson:"iterations" json:"iterations"`
	LineCount  int       `bson:"line_count" json:"line_count"`
	Lines      []string  `bson:"lines" json:"lines"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// Band returns the smallest rating band at or above minRating. A zero or
// negative minRating selects the highest band, and a minRating above every
// band clamps to the highest one.
func Band(minRating int) int {
	highest := RatingBands[len(RatingBands)-1]
	if minRating <= 0 {
		return highest
	}
	for _, r := range RatingBands {
		if r >= minRating {
			return r
		}
	}
	return highest
}

// RankByCoverage computes each candidate's game count and share of the full
// set, orders candidates by descending game count (stable, so equal counts
// keep the caller's order) and returns the shortest prefix whose cumulative
// share reaches threshold. The share denominator is always the total over the
// full input, not the kept prefix. A set with no recorded games yields nil.
func RankByCoverage(cands []Candidate, threshold float64) []Candidate {
	if len(cands) == 0 {
		return nil
	}

	ranked := make([]Candidate, len(cands))
	copy(ranked, cands)

	total := 0
	for i := range ranked {
		ranked[i].Games = ranked[i].White + ranked[i].Draws + ranked[i].Black
		total += ranked[i].Games
	}
	if total == 0 {
		return nil
	}
	for i := range ranked {
		ranked[i].Share = round2(float64(ranked[i].Games) / float64(total))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Games > ranked[j].Games
	})

	sum := 0.0
	for i, c := range ranked {
		sum += c.Share
		if sum >= threshold {
			return ranked[:i+1]
		}
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Replay walks the space-separated SAN moves of a line from the starting
// position and returns the resulting position.
func Replay(line string) (*chess.Position, error) {
	game := chess.NewGame()
	for _, san := range strings.Fields(line) {
		if err := game.MoveStr(san); err != nil {
			return nil, fmt.Errorf("replay %q: %w", line, err)
		}
	}
	return game.Position(), nil
}

// PositionKey normalizes a FEN to the four fields the explorer keys positions
// by: placement, side to move, castling rights and en-passant square.
func PositionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}
