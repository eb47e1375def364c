package repo

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/freeeve/uci"
	"github.com/notnil/chess"
	"go.uber.org/zap"

	"openbook/internal/bootstrap"
	openbookErrors "openbook/internal/errors"
)

// EngineRepository evaluates positions with a UCI engine. Every call starts
// its own engine process and tears it down on return, so a failed evaluation
// never leaks a handle into the next one.
type EngineRepository struct {
	cfg  bootstrap.Config
	log  *zap.SugaredLogger
	path string
}

func NewEngineRepository(cfg bootstrap.Config, log *zap.SugaredLogger) *EngineRepository {
	path := cfg.EnginePath
	if path == "" {
		if found, err := exec.LookPath("stockfish"); err == nil {
			path = found
		}
	}
	return &EngineRepository{
		cfg:  cfg,
		log:  log,
		path: path,
	}
}

// BestMove returns the engine's best move in SAN for the given position,
// searching for the given budget.
func (e *EngineRepository) BestMove(ctx context.Context, fen string, budget time.Duration) (string, error) {
	if e.path == "" {
		return "", fmt.Errorf("%w: no engine binary configured or found in PATH", openbookErrors.ErrEngineUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	engine, err := uci.NewEngine(e.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", openbookErrors.ErrEngineUnavailable, err)
	}
	defer engine.Close()

	opts := uci.Options{
		Hash:    e.hashMb(),
		Threads: e.threads(),
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}
	if err := engine.SetOptions(opts); err != nil {
		return "", fmt.Errorf("%w: set options: %v", openbookErrors.ErrEngineUnavailable, err)
	}

	if err := engine.SetFEN(fen); err != nil {
		return "", fmt.Errorf("%w: set fen: %v", openbookErrors.ErrEvaluation, err)
	}

	results, err := engine.Go(0, "", budget.Milliseconds())
	if err != nil {
		return "", fmt.Errorf("%w: %v", openbookErrors.ErrEvaluation, err)
	}
	if results == nil || results.BestMove == "" {
		return "", openbookErrors.ErrEvaluation
	}

	san, err := uciToSAN(fen, results.BestMove)
	if err != nil {
		return "", fmt.Errorf("%w: %v", openbookErrors.ErrEvaluation, err)
	}

	return san, nil
}

func (e *EngineRepository) hashMb() int {
	if e.cfg.EngineHashMb > 0 {
		return e.cfg.EngineHashMb
	}
	return 256
}

func (e *EngineRepository) threads() int {
	if e.cfg.EngineThreads > 0 {
		return e.cfg.EngineThreads
	}
	return runtime.NumCPU()
}

// uciToSAN rewrites an engine move (long algebraic, e.g. "e2e4") as SAN for
// the position it was produced from.
func uciToSAN(fen string, uciMove string) (string, error) {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return "", fmt.Errorf("parse fen: %w", err)
	}
	move, err := chess.UCINotation{}.Decode(pos, uciMove)
	if err != nil {
		return "", fmt.Errorf("decode move %q: %w", uciMove, err)
	}
	return chess.AlgebraicNotation{}.Encode(pos, move), nil
}
