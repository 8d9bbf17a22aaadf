// Package model provides the API shapes of member and company matching lists.
package model

import (
	"time"

	"github.com/festy23/workmatch/internal/applicant"
)

// MemberMatchItem is a recommended post as shown to a member.
type MemberMatchItem struct {
	MatchID       int64     `json:"match_id"`
	PostID        int64     `json:"post_id"`
	PostName      string    `json:"post_name"`
	Occupation    string    `json:"occupation"`
	SiteName      string    `json:"site_name"`
	SiteAddress   string    `json:"site_address"`
	CompanyName   string    `json:"company_name"`
	CompanyLogo   string    `json:"company_logo"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	AssignedOn    string    `json:"assigned_on"`
	IsRefuse      bool      `json:"is_refuse"`
	IsClosed      bool      `json:"is_closed"`
	IsApplication bool      `json:"is_application"`
	IsInterested  bool      `json:"is_interested"`
}

// CompanyMatchItem is a recommended applicant as shown to a company.
type CompanyMatchItem struct {
	MatchID       int64          `json:"match_id"`
	PostID        int64          `json:"post_id"`
	PostName      string         `json:"post_name"`
	ApplicantType applicant.Kind `json:"applicant_type"`
	ApplicantID   int64          `json:"applicant_id"`
	ApplicantName string         `json:"applicant_name"`
	AssignedOn    string         `json:"assigned_on"`
}

// MemberListQuery is bound from GET /matching/members.
type MemberListQuery struct {
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CompanyListQuery is bound from GET /matching/companies.
type CompanyListQuery struct {
	DateOffset int `form:"date_offset"`
	Page       int `form:"page"`
	PageSize   int `form:"page_size"`
}

// RefuseResult is returned by the refuse endpoint.
type RefuseResult struct {
	MatchID  int64 `json:"match_id"`
	PostID   int64 `json:"post_id"`
	IsRefuse bool  `json:"is_refuse"`
}

// ApplyTeamRequest is the body of POST /matching/members/:matchId/apply-team.
type ApplyTeamRequest struct {
	TeamID int64 `json:"team_id" binding:"required,gt=0"`
}
