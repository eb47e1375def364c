package main

import (
	"context"

	"github.com/notnil/chess"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"openbook/internal/adapters"
	"openbook/internal/bootstrap"
	"openbook/internal/domain/opening"
	repo "openbook/internal/repository"
	"openbook/internal/usecase/expand"
)

// Batch entry: grows a White and a Black repertoire from the canonical first
// moves and writes them to sorted text files.
func main() {
	logger := bootstrap.NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.RedisUrl != "" {
		redisAdapter := adapters.NewAdapterRedis(cfg)
		if err := redisAdapter.Init(ctx); err != nil {
			logger.Warnf("Redis unavailable, explorer cache disabled: %v", err)
		} else {
			defer redisAdapter.Close(ctx)
			redisClient = redisAdapter.GetClient()
		}
	}

	explorer := repo.NewExplorerRepository(*cfg, logger, redisClient)
	engine := repo.NewEngineRepository(*cfg, logger)
	expander := expand.NewExpander(explorer, engine, logger)

	logger.Info("Expanding White openings...")
	whiteLines, err := expander.Expand(ctx, opening.DefaultFirstMoves, chess.White, cfg.Iterations)
	if err != nil {
		logger.Fatal("White expansion failed", zap.Error(err))
	}
	if err := repo.SaveToFile("white_openings.txt", whiteLines); err != nil {
		logger.Fatal("Failed to write white_openings.txt", zap.Error(err))
	}

	logger.Info("Expanding Black openings...")
	blackLines, err := expander.Expand(ctx, opening.DefaultFirstMoves, chess.Black, cfg.Iterations)
	if err != nil {
		logger.Fatal("Black expansion failed", zap.Error(err))
	}
	if err := repo.SaveToFile("black_openings.txt", blackLines); err != nil {
		logger.Fatal("Failed to write black_openings.txt", zap.Error(err))
	}

	logger.Infof("Wrote %d lines to white_openings.txt", len(whiteLines))
	logger.Infof("Wrote %d lines to black_openings.txt", len(blackLines))
}
