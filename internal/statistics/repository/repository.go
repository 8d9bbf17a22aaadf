// Package repository provides data access layer for statistics module.
package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	applicationRepository "github.com/festy23/workmatch/internal/application/repository"
	interviewRepository "github.com/festy23/workmatch/internal/interview/repository"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	recRepository "github.com/festy23/workmatch/internal/recommendation/repository"
	"github.com/festy23/workmatch/internal/statistics/model"
	teamRepository "github.com/festy23/workmatch/internal/team/repository"
)

// Repository defines the interface for statistics data access operations.
type Repository interface {
	// GetRecommendationStatistics returns batch and entry counts for day.
	GetRecommendationStatistics(ctx context.Context, day string) (*model.RecommendationStatistics, error)

	// GetPipelineStatistics returns application, invitation and interview counts.
	GetPipelineStatistics(ctx context.Context) (*model.PipelineStatistics, error)
}

type repository struct {
	recommendations recRepository.Repository
	applications    applicationRepository.Repository
	teams           teamRepository.Repository
	interviews      interviewRepository.Repository
	logger          *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		recommendations: recRepository.New(db),
		applications:    applicationRepository.New(db),
		teams:           teamRepository.New(db),
		interviews:      interviewRepository.New(db),
		logger:          logger,
	}
}

// GetRecommendationStatistics returns batch and entry counts for day.
func (r *repository) GetRecommendationStatistics(ctx context.Context, day string) (*model.RecommendationStatistics, error) {
	r.logger.Debugw("GetRecommendationStatistics called", "day", day)

	stats := &model.RecommendationStatistics{Day: day}
	counts := []struct {
		dst   *int64
		count func() (int64, error)
	}{
		{&stats.CompanyBatches, func() (int64, error) {
			return r.recommendations.CountBatchesByDay(ctx, recModel.ActorCompany, day)
		}},
		{&stats.MemberBatches, func() (int64, error) {
			return r.recommendations.CountBatchesByDay(ctx, recModel.ActorMember, day)
		}},
		{&stats.CompanyEntries, func() (int64, error) {
			return r.recommendations.CountEntriesByDay(ctx, recModel.ActorCompany, day)
		}},
		{&stats.MemberEntries, func() (int64, error) {
			return r.recommendations.CountEntriesByDay(ctx, recModel.ActorMember, day)
		}},
		{&stats.RefusedEntries, func() (int64, error) {
			return r.recommendations.CountRefusedByDay(ctx, day)
		}},
	}

	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			r.logger.Errorw("GetRecommendationStatistics database error", "day", day, "error", err)
			return nil, err
		}
		*c.dst = n
	}

	r.logger.Debugw("GetRecommendationStatistics completed",
		"day", day,
		"company_entries", stats.CompanyEntries,
		"member_entries", stats.MemberEntries,
	)
	return stats, nil
}

// GetPipelineStatistics returns application, invitation and interview counts.
func (r *repository) GetPipelineStatistics(ctx context.Context) (*model.PipelineStatistics, error) {
	r.logger.Debugw("GetPipelineStatistics called")

	applications, err := r.applications.CountByStatus(ctx)
	if err != nil {
		r.logger.Errorw("GetPipelineStatistics database error", "table", "applications", "error", err)
		return nil, err
	}
	invitations, err := r.teams.CountInvitationsByStatus(ctx)
	if err != nil {
		r.logger.Errorw("GetPipelineStatistics database error", "table", "team_member_invitations", "error", err)
		return nil, err
	}
	interviews, err := r.interviews.CountBySupportCategory(ctx)
	if err != nil {
		r.logger.Errorw("GetPipelineStatistics database error", "table", "interviews", "error", err)
		return nil, err
	}

	stats := &model.PipelineStatistics{
		Applications: stringKeys(applications),
		Invitations:  stringKeys(invitations),
		Interviews:   stringKeys(interviews),
	}

	r.logger.Debugw("GetPipelineStatistics completed",
		"application_statuses", len(stats.Applications),
		"invitation_statuses", len(stats.Invitations),
	)
	return stats, nil
}

func stringKeys[K ~string](m map[K]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
