// Package repository provides data access for interviews.
package repository

import (
	"context"

	"gorm.io/gorm"

	interviewModel "github.com/festy23/workmatch/internal/interview/model"
)

// Repository defines data access operations for interviews.
type Repository interface {
	// Create inserts an interview row.
	Create(ctx context.Context, iv *interviewModel.Interview) error

	// CountBySupportCategory counts interviews per support category.
	CountBySupportCategory(ctx context.Context) (map[interviewModel.SupportCategory]int64, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new interview repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts an interview row.
func (r *repository) Create(ctx context.Context, iv *interviewModel.Interview) error {
	return r.db.WithContext(ctx).Create(iv).Error
}

// CountBySupportCategory counts interviews per support category.
func (r *repository) CountBySupportCategory(ctx context.Context) (map[interviewModel.SupportCategory]int64, error) {
	var rows []struct {
		SupportCategory interviewModel.SupportCategory
		Count           int64
	}
	err := r.db.WithContext(ctx).
		Model(&interviewModel.Interview{}).
		Select("support_category, COUNT(*) AS count").
		Group("support_category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := map[interviewModel.SupportCategory]int64{
		interviewModel.CategoryMatching:    0,
		interviewModel.CategoryHeadhunting: 0,
	}
	for _, row := range rows {
		result[row.SupportCategory] = row.Count
	}
	return result, nil
}
