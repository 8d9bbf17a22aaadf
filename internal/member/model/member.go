// Package model provides member, career and interest models for the member module.
package model

import (
	"time"

	"gorm.io/gorm"
)

// Member is a construction worker account.
type Member struct {
	ID                    int64          `gorm:"primaryKey;column:id" json:"id"`
	AccountID             int64          `gorm:"column:account_id;not null;uniqueIndex" json:"-"`
	Name                  string         `gorm:"column:name;not null" json:"name"`
	Contact               string         `gorm:"column:contact;not null;default:''" json:"contact"`
	BirthYear             int            `gorm:"column:birth_year;not null;default:0" json:"birth_year"`
	HealthSafetyCertified bool           `gorm:"column:health_safety_certified;not null;default:false" json:"health_safety_certified"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt             time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt             gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Member) TableName() string {
	return "members"
}

// Career is one occupation entry of a member's work history.
type Career struct {
	ID         int64          `gorm:"primaryKey;column:id" json:"id"`
	MemberID   int64          `gorm:"column:member_id;not null;index" json:"-"`
	Occupation string         `gorm:"column:occupation;not null" json:"occupation"`
	Years      int            `gorm:"column:years;not null;default:0" json:"years"`
	Months     int            `gorm:"column:months;not null;default:0" json:"months"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Career) TableName() string {
	return "careers"
}

// Certificate is a qualification held by a member.
type Certificate struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	MemberID  int64     `gorm:"column:member_id;not null;index" json:"-"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (Certificate) TableName() string {
	return "certificates"
}

// License is an equipment or trade license held by a member.
type License struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	MemberID  int64     `gorm:"column:member_id;not null;index" json:"-"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (License) TableName() string {
	return "licenses"
}

// Interest marks a post the member wants to keep an eye on.
type Interest struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	MemberID  int64     `gorm:"column:member_id;not null;uniqueIndex:uq_interest_member_post" json:"member_id"`
	PostID    int64     `gorm:"column:post_id;not null;uniqueIndex:uq_interest_member_post" json:"post_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (Interest) TableName() string {
	return "interests"
}
