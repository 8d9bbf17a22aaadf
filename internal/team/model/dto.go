package model

import "time"

// Outcome tells whether a transition changed state or found it already applied.
type Outcome string

const (
	// OutcomeApplied means this call performed the transition.
	OutcomeApplied Outcome = "APPLIED"
	// OutcomeAlreadyProcessed means the target state was already in place.
	OutcomeAlreadyProcessed Outcome = "ALREADY_PROCESSED"
)

// InvitationResult is returned by Accept and Decline.
type InvitationResult struct {
	InvitationID     int64            `json:"invitation_id"`
	TeamID           int64            `json:"team_id"`
	InvitationStatus InvitationStatus `json:"invitation_status"`
	TotalMembers     int              `json:"total_members"`
	Result           Outcome          `json:"result"`
}

// InvitationItem is one entry of the invitation list.
type InvitationItem struct {
	InvitationID     int64            `json:"invitation_id"`
	TeamID           int64            `json:"team_id"`
	TeamName         string           `json:"team_name"`
	LeaderName       string           `json:"leader_name"`
	TotalMembers     int              `json:"total_members"`
	InvitationStatus InvitationStatus `json:"invitation_status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// TeamMember is an active member of a team in API responses.
type TeamMember struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	IsLeader bool   `json:"is_leader"`
}

// TeamResponse is a team with its active members, leader first.
type TeamResponse struct {
	TeamID       int64        `json:"team_id"`
	Name         string       `json:"name"`
	LeaderID     int64        `json:"leader_id"`
	TotalMembers int          `json:"total_members"`
	Status       Status       `json:"status"`
	Members      []TeamMember `json:"members"`
}
