package errors

import "errors"

var (
	ErrStatsUnavailable   = errors.New("opening statistics service unavailable")
	ErrEngineUnavailable  = errors.New("engine could not be acquired")
	ErrEvaluation         = errors.New("engine produced no move within the budget")
	ErrRepertoireNotFound = errors.New("repertoire not found")
)
