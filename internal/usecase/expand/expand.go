package expand

import (
	"context"
	"time"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"openbook/internal/domain/opening"
)

// CandidateProvider returns ranked statistical candidates for a position,
// restricted to games at or above minRating.
type CandidateProvider interface {
	RatedCandidates(ctx context.Context, fen string, minRating int) ([]opening.Candidate, error)
}

// Evaluator returns one engine move in SAN for a position within a time
// budget.
type Evaluator interface {
	BestMove(ctx context.Context, fen string, budget time.Duration) (string, error)
}

// ProgressFunc is called after each completed iteration with the current
// frontier size.
type ProgressFunc func(iteration, iterations, lineCount int)

const (
	// Opponent replies come from the strongest statistical pool.
	opponentMinRating = 2500
	// Budget when statistics are empty and the opponent's reply must come
	// from the engine instead.
	fallbackBudget = time.Second
	// Budget for the player's own committed move.
	ownMoveBudget = 500 * time.Millisecond
)

// Expander grows a frontier of opening lines. At the opponent's turn a line
// branches over every candidate kept by the coverage cutoff; at the player's
// own turn it commits to a single engine move. Every iteration produces a
// fresh generation one ply deeper, and any provider or evaluator failure
// aborts the whole run.
type Expander struct {
	stats  CandidateProvider
	engine Evaluator
	log    *zap.SugaredLogger
}

func NewExpander(stats CandidateProvider, engine Evaluator, log *zap.SugaredLogger) *Expander {
	return &Expander{
		stats:  stats,
		engine: engine,
		log:    log,
	}
}

// Expand runs the given number of iterations over the initial lines and
// returns the final generation.
func (e *Expander) Expand(ctx context.Context, initial []string, player chess.Color, iterations int) ([]string, error) {
	return e.ExpandWithProgress(ctx, initial, player, iterations, nil)
}

// ExpandWithProgress is Expand with a per-iteration progress callback.
func (e *Expander) ExpandWithProgress(ctx context.Context, initial []string, player chess.Color, iterations int, progress ProgressFunc) ([]string, error) {
	lines := make([]string, len(initial))
	copy(lines, initial)

	e.log.Infof("starting with %d lines", len(lines))

	for i := 0; i < iterations; i++ {
		next := make([]string, 0, len(lines))
		for _, line := range lines {
			children, err := e.expandLine(ctx, line, player)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		lines = next

		e.log.Infof("iteration %d/%d: %d lines", i+1, iterations, len(lines))
		if progress != nil {
			progress(i+1, iterations, len(lines))
		}
	}

	return lines, nil
}

func (e *Expander) expandLine(ctx context.Context, line string, player chess.Color) ([]string, error) {
	pos, err := opening.Replay(line)
	if err != nil {
		return nil, err
	}
	fen := pos.String()

	if pos.Turn() == player {
		san, err := e.engine.BestMove(ctx, fen, ownMoveBudget)
		if err != nil {
			return nil, err
		}
		return []string{line + " " + san}, nil
	}

	candidates, err := e.stats.RatedCandidates(ctx, fen, opponentMinRating)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		san, err := e.engine.BestMove(ctx, fen, fallbackBudget)
		if err != nil {
			return nil, err
		}
		candidates = []opening.Candidate{{SAN: san}}
	}

	children := make([]string, 0, len(candidates))
	for _, c := range candidates {
		children = append(children, line+" "+c.SAN)
	}
	return children, nil
}
