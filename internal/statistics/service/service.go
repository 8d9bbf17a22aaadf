// Package service provides business logic layer for statistics module.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/clock"
	"github.com/festy23/workmatch/internal/config"
	"github.com/festy23/workmatch/internal/statistics/model"
	"github.com/festy23/workmatch/internal/statistics/repository"
)

// Service defines the interface for statistics business logic operations.
type Service interface {
	// GetMatchingStatistics returns recommendation counts for day, today when
	// day is empty, along with pipeline totals.
	GetMatchingStatistics(ctx context.Context, day string) (*model.MatchingStatisticsResponse, error)
}

type service struct {
	repo   repository.Repository
	clock  clock.Clock
	cfg    *config.MatchingConfigHolder
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(
	repo repository.Repository,
	clk clock.Clock,
	cfg *config.MatchingConfigHolder,
	logger *zap.SugaredLogger,
) Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &service{
		repo:   repo,
		clock:  clk,
		cfg:    cfg,
		logger: logger,
	}
}

// GetMatchingStatistics returns statistics for day.
func (s *service) GetMatchingStatistics(ctx context.Context, day string) (*model.MatchingStatisticsResponse, error) {
	s.logger.Debugw("GetMatchingStatistics called", "day", day)

	loc := s.cfg.Get().Location()
	if day == "" {
		day = clock.Today(s.clock, loc)
	} else if _, err := clock.ParseDay(day, loc); err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDay, day)
	}

	recommendations, err := s.repo.GetRecommendationStatistics(ctx, day)
	if err != nil {
		s.logger.Errorw("GetMatchingStatistics failed", "day", day, "error", err)
		return nil, err
	}
	pipeline, err := s.repo.GetPipelineStatistics(ctx)
	if err != nil {
		s.logger.Errorw("GetMatchingStatistics failed", "day", day, "error", err)
		return nil, err
	}

	s.logger.Infow("GetMatchingStatistics completed",
		"day", day,
		"company_batches", recommendations.CompanyBatches,
		"member_batches", recommendations.MemberBatches,
	)
	return &model.MatchingStatisticsResponse{
		Recommendations: *recommendations,
		Pipeline:        *pipeline,
	}, nil
}
