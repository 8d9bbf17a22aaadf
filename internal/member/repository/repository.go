// Package repository provides data access for members, careers and interests.
package repository

import (
	"context"

	"gorm.io/gorm"

	memberModel "github.com/festy23/workmatch/internal/member/model"
	"github.com/festy23/workmatch/pkg/dberr"
)

// Repository defines data access operations of the member module.
type Repository interface {
	// GetByID finds a live member.
	GetByID(ctx context.Context, memberID int64) (*memberModel.Member, error)

	// GetByAccountID finds the member owned by an account.
	GetByAccountID(ctx context.Context, accountID int64) (*memberModel.Member, error)

	// GetByIDs returns live members keyed by id. Missing ids are skipped.
	GetByIDs(ctx context.Context, memberIDs []int64) (map[int64]memberModel.Member, error)

	// CountCareers counts the member's career rows.
	CountCareers(ctx context.Context, memberID int64) (int64, error)

	// ListCareers returns careers of the given members ordered by id.
	ListCareers(ctx context.Context, memberIDs []int64) ([]memberModel.Career, error)

	// ListCertificates returns certificates of the given members.
	ListCertificates(ctx context.Context, memberIDs []int64) ([]memberModel.Certificate, error)

	// ListLicenses returns licenses of the given members.
	ListLicenses(ctx context.Context, memberIDs []int64) ([]memberModel.License, error)

	// ListMemberIDsWithCareers returns ids of live members having at least one
	// career, ascending. limit <= 0 returns all.
	ListMemberIDsWithCareers(ctx context.Context, limit int) ([]int64, error)

	// ToggleInterest flips the (member, post) interest row and reports the new state.
	ToggleInterest(ctx context.Context, memberID, postID int64) (bool, error)

	// InterestedPostIDs returns which of postIDs the member is interested in.
	InterestedPostIDs(ctx context.Context, memberID int64, postIDs []int64) (map[int64]bool, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new member repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetByID finds a live member.
func (r *repository) GetByID(ctx context.Context, memberID int64) (*memberModel.Member, error) {
	return r.find(ctx, "id = ?", memberID)
}

// GetByAccountID finds the member owned by an account.
func (r *repository) GetByAccountID(ctx context.Context, accountID int64) (*memberModel.Member, error) {
	return r.find(ctx, "account_id = ?", accountID)
}

func (r *repository) find(ctx context.Context, query string, arg int64) (*memberModel.Member, error) {
	var member memberModel.Member
	err := r.db.WithContext(ctx).Where(query, arg).First(&member).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, memberModel.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// GetByIDs returns live members keyed by id.
func (r *repository) GetByIDs(ctx context.Context, memberIDs []int64) (map[int64]memberModel.Member, error) {
	result := make(map[int64]memberModel.Member, len(memberIDs))
	if len(memberIDs) == 0 {
		return result, nil
	}

	var members []memberModel.Member
	if err := r.db.WithContext(ctx).Where("id IN ?", memberIDs).Find(&members).Error; err != nil {
		return nil, err
	}
	for _, m := range members {
		result[m.ID] = m
	}
	return result, nil
}

// CountCareers counts the member's career rows.
func (r *repository) CountCareers(ctx context.Context, memberID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&memberModel.Career{}).
		Where("member_id = ?", memberID).
		Count(&count).Error
	return count, err
}

// ListCareers returns careers of the given members.
func (r *repository) ListCareers(ctx context.Context, memberIDs []int64) ([]memberModel.Career, error) {
	var careers []memberModel.Career
	if len(memberIDs) == 0 {
		return careers, nil
	}
	err := r.db.WithContext(ctx).
		Where("member_id IN ?", memberIDs).
		Order("id ASC").
		Find(&careers).Error
	return careers, err
}

// ListCertificates returns certificates of the given members.
func (r *repository) ListCertificates(ctx context.Context, memberIDs []int64) ([]memberModel.Certificate, error) {
	var certs []memberModel.Certificate
	if len(memberIDs) == 0 {
		return certs, nil
	}
	err := r.db.WithContext(ctx).
		Where("member_id IN ?", memberIDs).
		Order("id ASC").
		Find(&certs).Error
	return certs, err
}

// ListLicenses returns licenses of the given members.
func (r *repository) ListLicenses(ctx context.Context, memberIDs []int64) ([]memberModel.License, error) {
	var licenses []memberModel.License
	if len(memberIDs) == 0 {
		return licenses, nil
	}
	err := r.db.WithContext(ctx).
		Where("member_id IN ?", memberIDs).
		Order("id ASC").
		Find(&licenses).Error
	return licenses, err
}

// ListMemberIDsWithCareers returns ids of live members having a career.
func (r *repository) ListMemberIDsWithCareers(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	query := r.db.WithContext(ctx).
		Model(&memberModel.Member{}).
		Where("EXISTS (SELECT 1 FROM careers c WHERE c.member_id = members.id AND c.deleted_at IS NULL)").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ToggleInterest flips the (member, post) interest row. A concurrent insert
// of the same row counts as "interested".
func (r *repository) ToggleInterest(ctx context.Context, memberID, postID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND post_id = ?", memberID, postID).
		Delete(&memberModel.Interest{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	err := r.db.WithContext(ctx).Create(&memberModel.Interest{MemberID: memberID, PostID: postID}).Error
	if err != nil && !dberr.IsDuplicateKey(err) {
		return false, err
	}
	return true, nil
}

// InterestedPostIDs returns which of postIDs the member is interested in.
func (r *repository) InterestedPostIDs(ctx context.Context, memberID int64, postIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&memberModel.Interest{}).
		Where("member_id = ? AND post_id IN ?", memberID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
