// Package model provides team, membership and invitation models.
package model

import (
	"time"

	"gorm.io/gorm"
)

// Status is the lifecycle state of a team.
type Status string

const (
	// StatusActive teams accept members and applications.
	StatusActive Status = "ACTIVE"
	// StatusDisbanded teams are kept for history only.
	StatusDisbanded Status = "DISBANDED"
)

// Team is a group of members led by one of them.
// TotalMembers always equals the number of active memberships plus the leader.
type Team struct {
	ID           int64          `gorm:"primaryKey;column:id" json:"id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	LeaderID     int64          `gorm:"column:leader_id;not null;index" json:"leader_id"`
	TotalMembers int            `gorm:"column:total_members;not null" json:"total_members"`
	Status       Status         `gorm:"column:status;type:varchar(20);not null" json:"status"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// MembersOnTeams links a non-leader member to a team.
type MembersOnTeams struct {
	MemberID  int64     `gorm:"primaryKey;autoIncrement:false;column:member_id" json:"member_id"`
	TeamID    int64     `gorm:"primaryKey;autoIncrement:false;column:team_id" json:"team_id"`
	IsActive  bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (MembersOnTeams) TableName() string {
	return "members_on_teams"
}

// InvitationStatus is the state of a team invitation.
type InvitationStatus string

const (
	// InvitationWaiting is the only non-terminal state.
	InvitationWaiting InvitationStatus = "WAITING"
	// InvitationAccepted is terminal.
	InvitationAccepted InvitationStatus = "ACCEPTED"
	// InvitationDeclined is terminal.
	InvitationDeclined InvitationStatus = "DECLINED"
)

// Valid reports whether s is a known status.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationWaiting, InvitationAccepted, InvitationDeclined:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s InvitationStatus) Terminal() bool {
	return s == InvitationAccepted || s == InvitationDeclined
}

// TeamMemberInvitation invites a member to join a team.
type TeamMemberInvitation struct {
	ID               int64            `gorm:"primaryKey;column:id" json:"id"`
	TeamID           int64            `gorm:"column:team_id;not null;index" json:"team_id"`
	MemberID         int64            `gorm:"column:member_id;not null;index" json:"member_id"`
	InvitationStatus InvitationStatus `gorm:"column:invitation_status;type:varchar(20);not null" json:"invitation_status"`
	IsActive         bool             `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (TeamMemberInvitation) TableName() string {
	return "team_member_invitations"
}
