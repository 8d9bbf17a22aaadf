// Package model provides the application entity linking an applicant to a post.
package model

import (
	"time"

	"github.com/festy23/workmatch/internal/applicant"
)

// Status is the state of an application. Rows are never deleted; cancelling
// moves to APPLY_CANCEL.
type Status string

// Application statuses.
const (
	StatusApplying          Status = "APPLYING"
	StatusApplyCancel       Status = "APPLY_CANCEL"
	StatusProposalInterview Status = "PROPOSAL_INTERVIEW"
	StatusInterviewing      Status = "INTERVIEWING"
	StatusInterviewFail     Status = "INTERVIEW_FAIL"
	StatusApproveInterview  Status = "APPROVE_INTERVIEW"
	StatusRejectInterview   Status = "REJECT_INTERVIEW"
)

// AllStatuses lists statuses in lifecycle order.
var AllStatuses = []Status{
	StatusApplying,
	StatusApplyCancel,
	StatusProposalInterview,
	StatusInterviewing,
	StatusInterviewFail,
	StatusApproveInterview,
	StatusRejectInterview,
}

// Application records that an applicant applied, or was proposed, for a post.
// (ApplicantType, ApplicantID, PostID) is unique.
type Application struct {
	ID            int64          `gorm:"primaryKey;autoIncrement:false;column:id" json:"id"`
	ApplicantType applicant.Kind `gorm:"column:applicant_type;type:varchar(12);not null;uniqueIndex:uq_application_applicant_post" json:"applicant_type"`
	ApplicantID   int64          `gorm:"column:applicant_id;not null;uniqueIndex:uq_application_applicant_post" json:"applicant_id"`
	PostID        int64          `gorm:"column:post_id;not null;uniqueIndex:uq_application_applicant_post;index" json:"post_id"`
	Status        Status         `gorm:"column:status;type:varchar(20);not null" json:"status"`
	AssignedAt    time.Time      `gorm:"column:assigned_at;not null" json:"assigned_at"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Application) TableName() string {
	return "applications"
}

// NewApplication builds an application row for a.
func NewApplication(id int64, a applicant.Applicant, postID int64, status Status, now time.Time) *Application {
	return &Application{
		ID:            id,
		ApplicantType: a.Kind(),
		ApplicantID:   a.ID(),
		PostID:        postID,
		Status:        status,
		AssignedAt:    now,
	}
}

// Applicant returns the applying party.
func (a Application) Applicant() (applicant.Applicant, error) {
	return applicant.FromColumns(a.ApplicantType, a.ApplicantID)
}

// ApplyResult is returned after a successful application.
type ApplyResult struct {
	ApplicationID int64          `json:"application_id"`
	PostID        int64          `json:"post_id"`
	ApplicantType applicant.Kind `json:"applicant_type"`
	ApplicantID   int64          `json:"applicant_id"`
	Status        Status         `json:"status"`
}

// ToApplyResult converts a to its API form.
func (a Application) ToApplyResult() *ApplyResult {
	return &ApplyResult{
		ApplicationID: a.ID,
		PostID:        a.PostID,
		ApplicantType: a.ApplicantType,
		ApplicantID:   a.ApplicantID,
		Status:        a.Status,
	}
}
