// Package repository provides read access to posts, sites and companies.
package repository

import (
	"context"

	"gorm.io/gorm"

	postModel "github.com/festy23/workmatch/internal/post/model"
	"github.com/festy23/workmatch/pkg/dberr"
)

// Repository defines read operations over the post read model.
type Repository interface {
	// GetPost finds a live post by id.
	GetPost(ctx context.Context, postID int64) (*postModel.Post, error)

	// GetPostDetails returns posts joined with site and company, keyed by post id.
	// Missing ids are skipped.
	GetPostDetails(ctx context.Context, postIDs []int64) (map[int64]postModel.PostDetail, error)

	// ListOpenPosts returns up to limit posts still open on day, oldest first.
	ListOpenPosts(ctx context.Context, day string, limit int) ([]postModel.Post, error)

	// ListOpenPostsByCompany returns the company's posts still open on day.
	ListOpenPostsByCompany(ctx context.Context, companyID int64, day string) ([]postModel.Post, error)

	// ListCompanyIDsWithOpenPosts returns companies having at least one post open on day.
	ListCompanyIDsWithOpenPosts(ctx context.Context, day string) ([]int64, error)

	// GetCompanyByAccountID finds the company owned by an account.
	GetCompanyByAccountID(ctx context.Context, accountID int64) (*postModel.Company, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new post repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetPost finds a live post by id.
func (r *repository) GetPost(ctx context.Context, postID int64) (*postModel.Post, error) {
	var post postModel.Post
	err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, postModel.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostDetails returns posts joined with site and company.
func (r *repository) GetPostDetails(ctx context.Context, postIDs []int64) (map[int64]postModel.PostDetail, error) {
	result := make(map[int64]postModel.PostDetail, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var posts []postModel.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
		return nil, err
	}

	siteIDs := make([]int64, 0, len(posts))
	companyIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		siteIDs = append(siteIDs, p.SiteID)
		companyIDs = append(companyIDs, p.CompanyID)
	}

	var sites []postModel.Site
	if err := r.db.WithContext(ctx).Where("id IN ?", siteIDs).Find(&sites).Error; err != nil {
		return nil, err
	}
	var companies []postModel.Company
	if err := r.db.WithContext(ctx).Where("id IN ?", companyIDs).Find(&companies).Error; err != nil {
		return nil, err
	}

	siteByID := make(map[int64]postModel.Site, len(sites))
	for _, s := range sites {
		siteByID[s.ID] = s
	}
	companyByID := make(map[int64]postModel.Company, len(companies))
	for _, c := range companies {
		companyByID[c.ID] = c
	}

	for _, p := range posts {
		result[p.ID] = postModel.PostDetail{
			Post:    p,
			Site:    siteByID[p.SiteID],
			Company: companyByID[p.CompanyID],
		}
	}
	return result, nil
}

// ListOpenPosts returns up to limit open posts, oldest first.
func (r *repository) ListOpenPosts(ctx context.Context, day string, limit int) ([]postModel.Post, error) {
	var posts []postModel.Post
	err := r.db.WithContext(ctx).
		Where("end_date >= ?", postModel.DayStart(day)).
		Order("id ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListOpenPostsByCompany returns the company's open posts.
func (r *repository) ListOpenPostsByCompany(ctx context.Context, companyID int64, day string) ([]postModel.Post, error) {
	var posts []postModel.Post
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND end_date >= ?", companyID, postModel.DayStart(day)).
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListCompanyIDsWithOpenPosts returns companies with at least one open post.
func (r *repository) ListCompanyIDsWithOpenPosts(ctx context.Context, day string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&postModel.Post{}).
		Where("end_date >= ?", postModel.DayStart(day)).
		Distinct("company_id").
		Order("company_id ASC").
		Pluck("company_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetCompanyByAccountID finds the company owned by an account.
func (r *repository) GetCompanyByAccountID(ctx context.Context, accountID int64) (*postModel.Company, error) {
	return r.findCompany(ctx, "account_id = ?", accountID)
}

func (r *repository) findCompany(ctx context.Context, query string, arg int64) (*postModel.Company, error) {
	var company postModel.Company
	err := r.db.WithContext(ctx).Where(query, arg).First(&company).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, postModel.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}
