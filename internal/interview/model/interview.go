// Package model provides interview proposals and applicant details.
package model

import (
	"time"

	"github.com/festy23/workmatch/internal/applicant"
	memberModel "github.com/festy23/workmatch/internal/member/model"
)

// Status is the interview outcome.
type Status string

// Interview statuses.
const (
	StatusInterviewing Status = "INTERVIEWING"
	StatusPass         Status = "PASS"
	StatusFail         Status = "FAIL"
)

// SupportCategory tells how the company found the applicant.
type SupportCategory string

const (
	// CategoryMatching: the applicant came through regular matching.
	CategoryMatching SupportCategory = "MATCHING"
	// CategoryHeadhunting: the company picked the applicant from its daily
	// recommendations.
	CategoryHeadhunting SupportCategory = "HEADHUNTING"
)

// Valid reports whether c is a known category.
func (c SupportCategory) Valid() bool {
	return c == CategoryMatching || c == CategoryHeadhunting
}

// Interview is created together with its application, one per application.
type Interview struct {
	ID              int64           `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"`
	ApplicationID   int64           `gorm:"column:application_id;not null;uniqueIndex" json:"application_id"`
	InterviewStatus Status          `gorm:"column:interview_status;type:varchar(20);not null" json:"interview_status"`
	SupportCategory SupportCategory `gorm:"column:support_category;type:varchar(20);not null" json:"support_category"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Interview) TableName() string {
	return "interviews"
}

// ApplicantQuery identifies an applicant for one of the company's posts.
type ApplicantQuery struct {
	ApplicantID     int64           `json:"applicant_id" form:"applicant_id" binding:"required,gt=0"`
	Object          applicant.Kind  `json:"object" form:"object" binding:"required"`
	PostID          int64           `json:"post_id" form:"post_id" binding:"required,gt=0"`
	SupportCategory SupportCategory `json:"support_category" form:"support_category" binding:"required"`
}

// Applicant returns the applicant the query refers to.
func (q ApplicantQuery) Applicant() (applicant.Applicant, error) {
	return applicant.FromColumns(q.Object, q.ApplicantID)
}

// ProposalRequest is the body of an interview proposal.
type ProposalRequest = ApplicantQuery

// ProposalResponse is returned after proposing an interview.
type ProposalResponse struct {
	ApplicationID   int64           `json:"application_id"`
	InterviewID     int64           `json:"interview_id"`
	PostID          int64           `json:"post_id"`
	ApplicantType   applicant.Kind  `json:"applicant_type"`
	ApplicantID     int64           `json:"applicant_id"`
	Status          string          `json:"status"`
	InterviewStatus Status          `json:"interview_status"`
	SupportCategory SupportCategory `json:"support_category"`
}

// TeamDetail is the team view of an applicant.
type TeamDetail struct {
	TeamID       int64                 `json:"team_id"`
	Name         string                `json:"name"`
	TotalMembers int                   `json:"total_members"`
	Leader       memberModel.Profile   `json:"leader"`
	Members      []memberModel.Profile `json:"members"`
}

// ApplicantDetail is either an individual profile or a team profile.
type ApplicantDetail struct {
	Object     applicant.Kind       `json:"object"`
	Individual *memberModel.Profile `json:"individual,omitempty"`
	Team       *TeamDetail          `json:"team,omitempty"`
}
