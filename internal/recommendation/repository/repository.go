// Package repository provides data access for recommendation batches.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/applicant"
	postModel "github.com/festy23/workmatch/internal/post/model"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	"github.com/festy23/workmatch/pkg/dberr"
)

// Repository defines data access operations for recommendations.
type Repository interface {
	// FindBatch returns the batch of actor for day or ErrBatchNotFound.
	FindBatch(ctx context.Context, actor recModel.Actor, day string) (*recModel.Batch, error)

	// CreateBatch inserts a batch and its entries. A duplicate batch surfaces
	// as the driver's unique violation.
	CreateBatch(ctx context.Context, batch *recModel.Batch, entries []recModel.Recommendation) error

	// ListEntries returns a batch's entries in selection order.
	ListEntries(ctx context.Context, batchID int64) ([]recModel.Recommendation, error)

	// ListMemberEntries pages through a member's history for a category.
	ListMemberEntries(
		ctx context.Context,
		filter recModel.MemberFilter,
		offset, limit int,
	) ([]recModel.Recommendation, int64, error)

	// ListCompanyEntries pages through a company's batch for day.
	ListCompanyEntries(
		ctx context.Context,
		companyID int64,
		day string,
		offset, limit int,
	) ([]recModel.Recommendation, int64, error)

	// GetMemberEntry loads a recommendation owned by the member's batches.
	GetMemberEntry(ctx context.Context, memberID, recommendationID int64) (*recModel.Recommendation, error)

	// MarkRefused sets is_refuse. It never clears the flag.
	MarkRefused(ctx context.Context, recommendationID int64) error

	// HeadhuntingContains reports whether the applicant was ever recommended
	// to a company for the post.
	HeadhuntingContains(ctx context.Context, postID int64, a applicant.Applicant) (bool, error)

	// CountEntriesByDay counts entries created for actorType on day.
	CountEntriesByDay(ctx context.Context, actorType recModel.ActorType, day string) (int64, error)

	// CountBatchesByDay counts batches created for actorType on day.
	CountBatchesByDay(ctx context.Context, actorType recModel.ActorType, day string) (int64, error)

	// CountRefusedByDay counts refused member entries assigned on day.
	CountRefusedByDay(ctx context.Context, day string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new recommendation repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindBatch returns the batch of actor for day.
func (r *repository) FindBatch(ctx context.Context, actor recModel.Actor, day string) (*recModel.Batch, error) {
	var batch recModel.Batch
	err := r.db.WithContext(ctx).
		Where("actor_type = ? AND actor_id = ? AND assigned_on = ?", actor.Type, actor.ID, day).
		First(&batch).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, recModel.ErrBatchNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// CreateBatch inserts a batch and its entries.
func (r *repository) CreateBatch(
	ctx context.Context,
	batch *recModel.Batch,
	entries []recModel.Recommendation,
) error {
	if err := r.db.WithContext(ctx).Create(batch).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// ListEntries returns a batch's entries in selection order.
func (r *repository) ListEntries(ctx context.Context, batchID int64) ([]recModel.Recommendation, error) {
	var entries []recModel.Recommendation
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("sort_order ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListMemberEntries pages through a member's history for a category.
func (r *repository) ListMemberEntries(
	ctx context.Context,
	filter recModel.MemberFilter,
	offset, limit int,
) ([]recModel.Recommendation, int64, error) {
	if filter.Category == recModel.CategoryApplication && len(filter.AppliedPostIDs) == 0 {
		return []recModel.Recommendation{}, 0, nil
	}

	scope := func() *gorm.DB {
		query := r.db.WithContext(ctx).
			Model(&recModel.Recommendation{}).
			Scopes(withLivePost).
			Where("recommendations.actor_type = ? AND recommendations.actor_id = ?", recModel.ActorMember, filter.MemberID)

		switch filter.Category {
		case recModel.CategoryApplication:
			return query.Where("recommendations.post_id IN ?", filter.AppliedPostIDs)
		case recModel.CategoryRejection:
			return query.Where("recommendations.is_refuse = ?", true)
		case recModel.CategoryDeadline:
			return query.Where("posts.end_date < ?", postModel.DayStart(filter.Day))
		default:
			return query.Where("recommendations.assigned_on = ?", filter.Day)
		}
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []recModel.Recommendation
	err := scope().
		Select("recommendations.*").
		Order("recommendations.assigned_on DESC").
		Order("recommendations.sort_order ASC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// withLivePost drops entries whose post has been soft-deleted, so counts
// and pages agree.
func withLivePost(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN posts ON posts.id = recommendations.post_id AND posts.deleted_at IS NULL")
}

// ListCompanyEntries pages through a company's batch for day.
func (r *repository) ListCompanyEntries(
	ctx context.Context,
	companyID int64,
	day string,
	offset, limit int,
) ([]recModel.Recommendation, int64, error) {
	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&recModel.Recommendation{}).
			Scopes(withLivePost).
			Where("recommendations.actor_type = ? AND recommendations.actor_id = ? AND recommendations.assigned_on = ?",
				recModel.ActorCompany, companyID, day)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []recModel.Recommendation
	err := scope().
		Select("recommendations.*").
		Order("recommendations.sort_order ASC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// GetMemberEntry loads a recommendation owned by the member.
func (r *repository) GetMemberEntry(
	ctx context.Context,
	memberID, recommendationID int64,
) (*recModel.Recommendation, error) {
	var entry recModel.Recommendation
	err := r.db.WithContext(ctx).
		Where("id = ? AND actor_type = ? AND actor_id = ?", recommendationID, recModel.ActorMember, memberID).
		First(&entry).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, recModel.ErrRecommendationNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// MarkRefused sets is_refuse.
func (r *repository) MarkRefused(ctx context.Context, recommendationID int64) error {
	result := r.db.WithContext(ctx).
		Model(&recModel.Recommendation{}).
		Where("id = ?", recommendationID).
		Update("is_refuse", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return recModel.ErrRecommendationNotFound
	}
	return nil
}

// HeadhuntingContains reports whether the applicant was recommended for the post.
func (r *repository) HeadhuntingContains(ctx context.Context, postID int64, a applicant.Applicant) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&recModel.Recommendation{}).
		Where("actor_type = ? AND post_id = ? AND applicant_type = ? AND applicant_id = ?",
			recModel.ActorCompany, postID, a.Kind(), a.ID()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountEntriesByDay counts entries created for actorType on day.
func (r *repository) CountEntriesByDay(ctx context.Context, actorType recModel.ActorType, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&recModel.Recommendation{}).
		Where("actor_type = ? AND assigned_on = ?", actorType, day).
		Count(&count).Error
	return count, err
}

// CountBatchesByDay counts batches created for actorType on day.
func (r *repository) CountBatchesByDay(ctx context.Context, actorType recModel.ActorType, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&recModel.Batch{}).
		Where("actor_type = ? AND assigned_on = ?", actorType, day).
		Count(&count).Error
	return count, err
}

// CountRefusedByDay counts refused member entries assigned on day.
func (r *repository) CountRefusedByDay(ctx context.Context, day string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&recModel.Recommendation{}).
		Where("actor_type = ? AND assigned_on = ? AND is_refuse = ?", recModel.ActorMember, day, true).
		Count(&count).Error
	return count, err
}
