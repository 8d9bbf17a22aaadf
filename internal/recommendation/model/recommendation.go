// Package model provides recommendation batches and their entries.
package model

import (
	"fmt"
	"time"

	"github.com/festy23/workmatch/internal/applicant"
)

// ActorType is the kind of party receiving recommendations.
type ActorType string

const (
	// ActorCompany receives candidates for its posts.
	ActorCompany ActorType = "COMPANY"
	// ActorMember receives posts.
	ActorMember ActorType = "MEMBER"
)

// Valid reports whether t is a known actor type.
func (t ActorType) Valid() bool {
	return t == ActorCompany || t == ActorMember
}

// Actor identifies who a batch was generated for.
type Actor struct {
	Type ActorType
	ID   int64
}

// CompanyActor returns the actor for a company.
func CompanyActor(companyID int64) Actor {
	return Actor{Type: ActorCompany, ID: companyID}
}

// MemberActor returns the actor for a member.
func MemberActor(memberID int64) Actor {
	return Actor{Type: ActorMember, ID: memberID}
}

// String implements fmt.Stringer.
func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Type, a.ID)
}

// Batch is the set of recommendations generated for one actor on one day.
// (ActorType, ActorID, AssignedOn) is unique.
type Batch struct {
	ID         int64     `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"`
	ActorType  ActorType `gorm:"column:actor_type;type:varchar(10);not null;uniqueIndex:uq_batch_actor_day" json:"actor_type"`
	ActorID    int64     `gorm:"column:actor_id;not null;uniqueIndex:uq_batch_actor_day" json:"actor_id"`
	AssignedOn string    `gorm:"column:assigned_on;type:varchar(10);not null;uniqueIndex:uq_batch_actor_day" json:"assigned_on"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Batch) TableName() string {
	return "recommendation_batches"
}

// Recommendation is one entry of a batch.
//
// In a company batch the applicant is the recommended member or team and
// PostID is the company post it was recommended for. In a member batch the
// applicant is the member itself and PostID is the recommended post.
// IsRefuse only ever goes from false to true.
type Recommendation struct {
	ID            int64          `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"`
	BatchID       int64          `gorm:"column:batch_id;not null;uniqueIndex:uq_recommendation_entry" json:"batch_id"`
	ActorType     ActorType      `gorm:"column:actor_type;type:varchar(10);not null;index:idx_recommendations_actor" json:"actor_type"`
	ActorID       int64          `gorm:"column:actor_id;not null;index:idx_recommendations_actor" json:"actor_id"`
	AssignedOn    string         `gorm:"column:assigned_on;type:varchar(10);not null;index:idx_recommendations_actor" json:"assigned_on"`
	ApplicantType applicant.Kind `gorm:"column:applicant_type;type:varchar(12);not null;uniqueIndex:uq_recommendation_entry" json:"applicant_type"`
	ApplicantID   int64          `gorm:"column:applicant_id;not null;uniqueIndex:uq_recommendation_entry" json:"applicant_id"`
	PostID        int64          `gorm:"column:post_id;not null;uniqueIndex:uq_recommendation_entry;index" json:"post_id"`
	SortOrder     int            `gorm:"column:sort_order;not null" json:"-"`
	IsRefuse      bool           `gorm:"column:is_refuse;not null" json:"is_refuse"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (Recommendation) TableName() string {
	return "recommendations"
}

// Applicant returns the recommended applicant.
func (r Recommendation) Applicant() (applicant.Applicant, error) {
	return applicant.FromColumns(r.ApplicantType, r.ApplicantID)
}

// Candidate is one selector output: who is recommended for which post.
type Candidate struct {
	Applicant applicant.Applicant
	PostID    int64
}

// BatchResult is the outcome of ensuring a daily batch.
type BatchResult struct {
	Actor Actor
	Day   string
	// Batch is nil when selection timed out and nothing was persisted.
	Batch   *Batch
	Entries []Recommendation
	// Created is true only for the caller that persisted the batch.
	Created bool
}

// RunSummary aggregates a scheduled run over many actors.
type RunSummary struct {
	ActorType ActorType `json:"actor_type"`
	Day       string    `json:"day"`
	Actors    int       `json:"actors"`
	Created   int       `json:"created"`
	Existing  int       `json:"existing"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
}

// Category partitions a member's recommendation history.
type Category string

const (
	// CategoryToday lists the current day's batch.
	CategoryToday Category = ""
	// CategoryApplication lists posts already applied to.
	CategoryApplication Category = "APPLICATION"
	// CategoryRejection lists refused recommendations.
	CategoryRejection Category = "REJECTION"
	// CategoryDeadline lists recommendations whose post has closed.
	CategoryDeadline Category = "DEADLINE"
)

// ParseCategory validates a category query value. Empty means today.
func ParseCategory(s string) (Category, bool) {
	switch c := Category(s); c {
	case CategoryToday, CategoryApplication, CategoryRejection, CategoryDeadline:
		return c, true
	default:
		return "", false
	}
}

// MemberFilter selects entries of a member's batches.
type MemberFilter struct {
	MemberID int64
	Category Category
	// Day is today's day key. CategoryToday matches it exactly and
	// CategoryDeadline compares post end dates against it.
	Day string
	// AppliedPostIDs backs CategoryApplication.
	AppliedPostIDs []int64
}
