// Package repository provides data access for applications.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
)

// Repository defines data access operations for applications.
type Repository interface {
	// Create inserts an application. A duplicate (applicant, post) surfaces
	// as the driver's unique violation.
	Create(ctx context.Context, app *applicationModel.Application) error

	// Exists reports whether the applicant already has an application for the post.
	Exists(ctx context.Context, a applicant.Applicant, postID int64) (bool, error)

	// AppliedPostIDs returns the posts any of applicants applied to. When
	// postIDs is non-empty the result is restricted to them.
	AppliedPostIDs(ctx context.Context, applicants []applicant.Applicant, postIDs []int64) ([]int64, error)

	// CountByStatus counts applications per status.
	CountByStatus(ctx context.Context) (map[applicationModel.Status]int64, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new application repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts an application.
func (r *repository) Create(ctx context.Context, app *applicationModel.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// Exists reports whether the applicant already applied for the post.
func (r *repository) Exists(ctx context.Context, a applicant.Applicant, postID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&applicationModel.Application{}).
		Where("applicant_type = ? AND applicant_id = ? AND post_id = ?", a.Kind(), a.ID(), postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AppliedPostIDs returns the posts any of applicants applied to.
func (r *repository) AppliedPostIDs(
	ctx context.Context,
	applicants []applicant.Applicant,
	postIDs []int64,
) ([]int64, error) {
	if len(applicants) == 0 {
		return []int64{}, nil
	}

	var memberIDs, teamIDs []int64
	for _, a := range applicants {
		if id, ok := a.MemberID(); ok {
			memberIDs = append(memberIDs, id)
		} else if id, ok := a.TeamID(); ok {
			teamIDs = append(teamIDs, id)
		}
	}

	owner := r.db.Where("1 = 0")
	if len(memberIDs) > 0 {
		owner = owner.Or("applicant_type = ? AND applicant_id IN ?", applicant.KindIndividual, memberIDs)
	}
	if len(teamIDs) > 0 {
		owner = owner.Or("applicant_type = ? AND applicant_id IN ?", applicant.KindTeam, teamIDs)
	}

	query := r.db.WithContext(ctx).
		Model(&applicationModel.Application{}).
		Where(owner)
	if len(postIDs) > 0 {
		query = query.Where("post_id IN ?", postIDs)
	}

	var ids []int64
	if err := query.Distinct("post_id").Order("post_id ASC").Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountByStatus counts applications per status.
func (r *repository) CountByStatus(ctx context.Context) (map[applicationModel.Status]int64, error) {
	var rows []struct {
		Status applicationModel.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&applicationModel.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[applicationModel.Status]int64, len(applicationModel.AllStatuses))
	for _, s := range applicationModel.AllStatuses {
		result[s] = 0
	}
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
