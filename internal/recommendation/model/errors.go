package model

import "errors"

var (
	// ErrSelectionFailed wraps candidate selector failures; callers may retry.
	ErrSelectionFailed = errors.New("candidate selection failed")
	// ErrRecommendationNotFound is returned for a missing or foreign recommendation.
	ErrRecommendationNotFound = errors.New("recommendation not found")
	// ErrInvalidActor is returned for an unknown actor type or id.
	ErrInvalidActor = errors.New("invalid actor")
)

// ErrBatchNotFound is returned when no batch exists for an actor and day.
var ErrBatchNotFound = errors.New("recommendation batch not found")
