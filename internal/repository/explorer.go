package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"openbook/internal/bootstrap"
	"openbook/internal/domain/opening"
	openbookErrors "openbook/internal/errors"
)

// ExplorerRepository queries the opening explorer for ranked move candidates.
// Results of each (pool, position) query survive in redis for the configured
// TTL; a nil redis client disables caching.
type ExplorerRepository struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	redis  *redis.Client
	client *http.Client
}

func NewExplorerRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client) *ExplorerRepository {
	return &ExplorerRepository{
		cfg:    cfg,
		log:    log,
		redis:  redis,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type explorerResponse struct {
	Moves []opening.Candidate `json:"moves"`
}

// MastersCandidates queries the unfiltered masters pool.
func (e *ExplorerRepository) MastersCandidates(ctx context.Context, fen string) ([]opening.Candidate, error) {
	params := url.Values{}
	params.Set("fen", opening.PositionKey(fen))
	return e.candidates(ctx, e.cfg.MastersUrl, params, "masters")
}

// RatedCandidates queries the rating-filtered pool for the smallest band at or
// above minRating.
func (e *ExplorerRepository) RatedCandidates(ctx context.Context, fen string, minRating int) ([]opening.Candidate, error) {
	band := opening.Band(minRating)
	params := url.Values{}
	params.Set("fen", opening.PositionKey(fen))
	params.Set("ratings", strconv.Itoa(band))
	return e.candidates(ctx, e.cfg.LichessUrl, params, strconv.Itoa(band))
}

func (e *ExplorerRepository) candidates(ctx context.Context, baseUrl string, params url.Values, pool string) ([]opening.Candidate, error) {
	cacheKey := fmt.Sprintf("explorer:%s:%s", pool, params.Get("fen"))

	if cached, ok := e.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseUrl+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", openbookErrors.ErrStatsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code %d", openbookErrors.ErrStatsUnavailable, resp.StatusCode)
	}

	var result explorerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", openbookErrors.ErrStatsUnavailable, err)
	}

	selected := opening.RankByCoverage(result.Moves, opening.CoverageThreshold)

	e.toCache(ctx, cacheKey, selected)

	return selected, nil
}

func (e *ExplorerRepository) fromCache(ctx context.Context, key string) ([]opening.Candidate, bool) {
	if e.redis == nil {
		return nil, false
	}
	raw, err := e.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			e.log.Errorf("explorer cache get failed: %v", err)
		}
		return nil, false
	}
	var cands []opening.Candidate
	if err := json.Unmarshal([]byte(raw), &cands); err != nil {
		e.log.Errorf("explorer cache entry corrupt: %v", err)
		return nil, false
	}
	return cands, true
}

func (e *ExplorerRepository) toCache(ctx context.Context, key string, cands []opening.Candidate) {
	if e.redis == nil {
		return
	}
	raw, err := json.Marshal(cands)
	if err != nil {
		return
	}
	ttl := time.Duration(e.cfg.CacheTtlMinutes) * time.Minute
	if err := e.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		e.log.Errorf("explorer cache set failed: %v", err)
	}
}
