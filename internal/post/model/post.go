// Package model provides the post, site and company read models consumed by matching.
package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/clock"
)

// Company is a hiring company.
type Company struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	AccountID int64     `gorm:"column:account_id;not null;uniqueIndex" json:"-"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	LogoURL   string    `gorm:"column:logo_url;not null;default:''" json:"logo_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (Company) TableName() string {
	return "companies"
}

// Site is a construction site owned by a company.
type Site struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	CompanyID int64     `gorm:"column:company_id;not null;index" json:"company_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Address   string    `gorm:"column:address;not null;default:''" json:"address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (Site) TableName() string {
	return "sites"
}

// Post is a job post at a site.
type Post struct {
	ID         int64          `gorm:"primaryKey;column:id" json:"id"`
	CompanyID  int64          `gorm:"column:company_id;not null;index" json:"company_id"`
	SiteID     int64          `gorm:"column:site_id;not null" json:"site_id"`
	Name       string         `gorm:"column:name;not null" json:"name"`
	Occupation string         `gorm:"column:occupation;not null" json:"occupation"`
	StartDate  time.Time      `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    time.Time      `gorm:"column:end_date;not null" json:"end_date"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// ClosedOn reports whether the post's end date lies before the given day key.
// Post dates are calendar dates stored at UTC midnight.
func (p Post) ClosedOn(today string) bool {
	return p.EndDate.UTC().Format(clock.DayLayout) < today
}

// DayStart returns the UTC instant that opens the given day key, for
// comparing against post dates in SQL.
func DayStart(day string) time.Time {
	t, err := clock.ParseDay(day, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PostDetail is a post joined with its site and company.
type PostDetail struct {
	Post    Post
	Site    Site
	Company Company
}
