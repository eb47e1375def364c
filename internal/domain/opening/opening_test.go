package opening

import (
	"math"
	"testing"

	"github.com/notnil/chess"
)

func candidateSet() []Candidate {
	return []Candidate{
		{SAN: "c5", White: 20, Draws: 10, Black: 10},
		{SAN: "e5", White: 15, Draws: 5, Black: 10},
		{SAN: "e6", White: 5, Draws: 5, Black: 5},
		{SAN: "c6", White: 5, Draws: 5, Black: 5},
	}
}

func TestSharesSumToOneAcrossFullSet(t *testing.T) {
	ranked := RankByCoverage(candidateSet(), 2.0)
	if len(ranked) != 4 {
		t.Fatalf("expected the full set back with an unreachable threshold, got %d", len(ranked))
	}
	sum := 0.0
	for _, c := range ranked {
		sum += c.Share
	}
	if math.Abs(sum-1.0) > 0.02 {
		t.Fatalf("expected shares to sum to 1.00 within rounding, got %.4f", sum)
	}
}

func TestShareDenominatorIsFullSet(t *testing.T) {
	ranked := RankByCoverage(candidateSet(), CoverageThreshold)
	if ranked[0].Share != 0.40 {
		t.Fatalf("expected top share 0.40 over the full set, got %.2f", ranked[0].Share)
	}
	if ranked[1].Share != 0.30 {
		t.Fatalf("expected second share 0.30 over the full set, got %.2f", ranked[1].Share)
	}
}

func TestCoverageCutoffReturnsMinimalPrefix(t *testing.T) {
	ranked := RankByCoverage(candidateSet(), CoverageThreshold)
	if len(ranked) != 2 {
		t.Fatalf("expected cutoff after two candidates (0.40+0.30), got %d", len(ranked))
	}
	if ranked[0].SAN != "c5" || ranked[1].SAN != "e5" {
		t.Fatalf("expected prefix c5,e5 got %s,%s", ranked[0].SAN, ranked[1].SAN)
	}
	if ranked[0].Share >= CoverageThreshold {
		t.Fatalf("shorter prefix already satisfies the bound, cutoff is not minimal")
	}
}

func TestCoverageCutoffSingleDominantCandidate(t *testing.T) {
	cands := []Candidate{
		{SAN: "e5", White: 65, Draws: 0, Black: 0},
		{SAN: "c5", White: 35, Draws: 0, Black: 0},
	}
	ranked := RankByCoverage(cands, CoverageThreshold)
	if len(ranked) != 1 || ranked[0].SAN != "e5" {
		t.Fatalf("expected only the dominant candidate, got %v", ranked)
	}
}

func TestCoverageCutoffNeverEmptyForNonEmptyInput(t *testing.T) {
	cands := []Candidate{
		{SAN: "a", White: 20}, {SAN: "b", White: 20}, {SAN: "c", White: 20},
		{SAN: "d", White: 20}, {SAN: "e", White: 20},
	}
	ranked := RankByCoverage(cands, CoverageThreshold)
	if len(ranked) != 3 {
		t.Fatalf("expected three equal candidates to reach 0.60, got %d", len(ranked))
	}
}

func TestCoverageCutoffSortsByGamesDescending(t *testing.T) {
	cands := []Candidate{
		{SAN: "e6", White: 10},
		{SAN: "c5", White: 50},
		{SAN: "e5", White: 40},
	}
	ranked := RankByCoverage(cands, CoverageThreshold)
	if ranked[0].SAN != "c5" {
		t.Fatalf("expected the most played move first, got %s", ranked[0].SAN)
	}
}

func TestCoverageCutoffStableForEqualCounts(t *testing.T) {
	cands := []Candidate{
		{SAN: "first", White: 30},
		{SAN: "second", White: 30},
		{SAN: "third", White: 40},
	}
	ranked := RankByCoverage(cands, 2.0)
	if ranked[0].SAN != "third" || ranked[1].SAN != "first" || ranked[2].SAN != "second" {
		t.Fatalf("equal counts must keep input order, got %v", ranked)
	}
}

func TestCoverageCutoffZeroGames(t *testing.T) {
	cands := []Candidate{{SAN: "e5"}, {SAN: "c5"}}
	if ranked := RankByCoverage(cands, CoverageThreshold); ranked != nil {
		t.Fatalf("expected nil for a set with no recorded games, got %v", ranked)
	}
	if ranked := RankByCoverage(nil, CoverageThreshold); ranked != nil {
		t.Fatalf("expected nil for empty input, got %v", ranked)
	}
}

func TestCoverageCutoffDoesNotMutateInput(t *testing.T) {
	cands := candidateSet()
	RankByCoverage(cands, CoverageThreshold)
	if cands[0].Games != 0 || cands[0].Share != 0 {
		t.Fatalf("input slice was mutated: %+v", cands[0])
	}
}

func TestBand(t *testing.T) {
	cases := []struct {
		minRating int
		want      int
	}{
		{0, 2500},
		{-1, 2500},
		{1600, 1600},
		{1700, 1800},
		{2001, 2500},
		{2500, 2500},
		{2600, 2500},
	}
	for _, c := range cases {
		if got := Band(c.minRating); got != c.want {
			t.Fatalf("Band(%d) = %d, want %d", c.minRating, got, c.want)
		}
	}
}

func TestReplayTracksSideToMove(t *testing.T) {
	pos, err := Replay("")
	if err != nil {
		t.Fatalf("replay of empty line failed: %v", err)
	}
	if pos.Turn() != chess.White {
		t.Fatalf("expected White to move at the start position")
	}

	pos, err = Replay("e4")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if pos.Turn() != chess.Black {
		t.Fatalf("expected Black to move after e4")
	}

	pos, err = Replay("e4 c5 Nf3")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if pos.Turn() != chess.Black {
		t.Fatalf("expected Black to move after e4 c5 Nf3")
	}
}

func TestReplayRejectsIllegalMove(t *testing.T) {
	if _, err := Replay("e4 e4"); err == nil {
		t.Fatalf("expected error replaying an illegal move")
	}
}

func TestPositionKeyKeepsFourFields(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -"
	if got := PositionKey(fen); got != want {
		t.Fatalf("PositionKey = %q, want %q", got, want)
	}
}
