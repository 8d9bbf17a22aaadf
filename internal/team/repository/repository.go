// Package repository provides data access layer for team module.
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	teamModel "github.com/festy23/workmatch/internal/team/model"
	"github.com/festy23/workmatch/pkg/dberr"
)

// Repository defines the interface for team data access operations.
type Repository interface {
	// GetActiveTeam finds a live ACTIVE team.
	GetActiveTeam(ctx context.Context, teamID int64) (*teamModel.Team, error)

	// GetTeamsByIDs returns live teams keyed by id. Missing ids are skipped.
	GetTeamsByIDs(ctx context.Context, teamIDs []int64) (map[int64]teamModel.Team, error)

	// ListActiveMemberIDs returns ids of active non-leader members, ascending.
	ListActiveMemberIDs(ctx context.Context, teamID int64) ([]int64, error)

	// ListActiveTeamIDs returns up to limit ACTIVE team ids, ascending.
	ListActiveTeamIDs(ctx context.Context, limit int) ([]int64, error)

	// ListLedTeamIDs returns ids of ACTIVE teams led by the member.
	ListLedTeamIDs(ctx context.Context, leaderID int64) ([]int64, error)

	// GetInvitationForMember loads an active invitation addressed to the
	// member. With forUpdate the row is locked until the transaction ends.
	GetInvitationForMember(
		ctx context.Context,
		invitationID, memberID int64,
		forUpdate bool,
	) (*teamModel.TeamMemberInvitation, error)

	// ListInvitations pages through the member's active invitations of live
	// teams, newest first. An empty status matches all.
	ListInvitations(
		ctx context.Context,
		memberID int64,
		status teamModel.InvitationStatus,
		offset, limit int,
	) ([]teamModel.TeamMemberInvitation, int64, error)

	// TransitionInvitation moves an invitation from one status to another and
	// reports whether this call performed the change.
	TransitionInvitation(
		ctx context.Context,
		invitationID int64,
		from, to teamModel.InvitationStatus,
	) (bool, error)

	// GetMembership returns the (member, team) row or ErrMembershipNotFound.
	GetMembership(ctx context.Context, memberID, teamID int64) (*teamModel.MembersOnTeams, error)

	// CreateMembership inserts an active membership row.
	CreateMembership(ctx context.Context, memberID, teamID int64) error

	// ReactivateMembership flips an inactive row to active and reports
	// whether this call performed the change.
	ReactivateMembership(ctx context.Context, memberID, teamID int64) (bool, error)

	// IncrementTotalMembers adds one to the team's member counter.
	IncrementTotalMembers(ctx context.Context, teamID int64) error

	// CountInvitationsByStatus counts active invitations per status.
	CountInvitationsByStatus(ctx context.Context) (map[teamModel.InvitationStatus]int64, error)
}

type repository struct {
	db *gorm.DB
}

// New creates a new team repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetActiveTeam finds a live ACTIVE team.
func (r *repository) GetActiveTeam(ctx context.Context, teamID int64) (*teamModel.Team, error) {
	var team teamModel.Team
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", teamID, teamModel.StatusActive).
		First(&team).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, teamModel.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// GetTeamsByIDs returns live teams keyed by id.
func (r *repository) GetTeamsByIDs(ctx context.Context, teamIDs []int64) (map[int64]teamModel.Team, error) {
	result := make(map[int64]teamModel.Team, len(teamIDs))
	if len(teamIDs) == 0 {
		return result, nil
	}

	var teams []teamModel.Team
	if err := r.db.WithContext(ctx).Where("id IN ?", teamIDs).Find(&teams).Error; err != nil {
		return nil, err
	}
	for _, t := range teams {
		result[t.ID] = t
	}
	return result, nil
}

// ListActiveMemberIDs returns ids of active non-leader members.
func (r *repository) ListActiveMemberIDs(ctx context.Context, teamID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&teamModel.MembersOnTeams{}).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Order("member_id ASC").
		Pluck("member_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListActiveTeamIDs returns up to limit ACTIVE team ids.
func (r *repository) ListActiveTeamIDs(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	query := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("status = ?", teamModel.StatusActive).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListLedTeamIDs returns ids of ACTIVE teams led by the member.
func (r *repository) ListLedTeamIDs(ctx context.Context, leaderID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("leader_id = ? AND status = ?", leaderID, teamModel.StatusActive).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetInvitationForMember loads an active invitation addressed to the member.
func (r *repository) GetInvitationForMember(
	ctx context.Context,
	invitationID, memberID int64,
	forUpdate bool,
) (*teamModel.TeamMemberInvitation, error) {
	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var inv teamModel.TeamMemberInvitation
	err := query.
		Where("id = ? AND member_id = ? AND is_active = ?", invitationID, memberID, true).
		First(&inv).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, teamModel.ErrInvitationNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// ListInvitations pages through the member's active invitations.
func (r *repository) ListInvitations(
	ctx context.Context,
	memberID int64,
	status teamModel.InvitationStatus,
	offset, limit int,
) ([]teamModel.TeamMemberInvitation, int64, error) {
	scope := func() *gorm.DB {
		query := r.db.WithContext(ctx).
			Model(&teamModel.TeamMemberInvitation{}).
			Joins("JOIN teams ON teams.id = team_member_invitations.team_id AND teams.deleted_at IS NULL").
			Where("team_member_invitations.member_id = ? AND team_member_invitations.is_active = ?", memberID, true)
		if status != "" {
			query = query.Where("team_member_invitations.invitation_status = ?", status)
		}
		return query
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invitations []teamModel.TeamMemberInvitation
	err := scope().
		Select("team_member_invitations.*").
		Order("team_member_invitations.created_at DESC").
		Order("team_member_invitations.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&invitations).Error
	if err != nil {
		return nil, 0, err
	}
	return invitations, total, nil
}

// TransitionInvitation moves an invitation between statuses.
func (r *repository) TransitionInvitation(
	ctx context.Context,
	invitationID int64,
	from, to teamModel.InvitationStatus,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&teamModel.TeamMemberInvitation{}).
		Where("id = ? AND invitation_status = ?", invitationID, from).
		Update("invitation_status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetMembership returns the (member, team) row.
func (r *repository) GetMembership(ctx context.Context, memberID, teamID int64) (*teamModel.MembersOnTeams, error) {
	var m teamModel.MembersOnTeams
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND team_id = ?", memberID, teamID).
		First(&m).Error
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, teamModel.ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CreateMembership inserts an active membership row.
func (r *repository) CreateMembership(ctx context.Context, memberID, teamID int64) error {
	return r.db.WithContext(ctx).
		Create(&teamModel.MembersOnTeams{MemberID: memberID, TeamID: teamID, IsActive: true}).Error
}

// ReactivateMembership flips an inactive row to active.
func (r *repository) ReactivateMembership(ctx context.Context, memberID, teamID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&teamModel.MembersOnTeams{}).
		Where("member_id = ? AND team_id = ? AND is_active = ?", memberID, teamID, false).
		Update("is_active", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// IncrementTotalMembers adds one to the team's member counter.
func (r *repository) IncrementTotalMembers(ctx context.Context, teamID int64) error {
	result := r.db.WithContext(ctx).
		Model(&teamModel.Team{}).
		Where("id = ?", teamID).
		Update("total_members", gorm.Expr("total_members + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return teamModel.ErrTeamNotFound
	}
	return nil
}

// CountInvitationsByStatus counts active invitations per status.
func (r *repository) CountInvitationsByStatus(ctx context.Context) (map[teamModel.InvitationStatus]int64, error) {
	var rows []struct {
		InvitationStatus teamModel.InvitationStatus
		Count            int64
	}
	err := r.db.WithContext(ctx).
		Model(&teamModel.TeamMemberInvitation{}).
		Select("invitation_status, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("invitation_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := map[teamModel.InvitationStatus]int64{
		teamModel.InvitationWaiting:  0,
		teamModel.InvitationAccepted: 0,
		teamModel.InvitationDeclined: 0,
	}
	for _, row := range rows {
		result[row.InvitationStatus] = row.Count
	}
	return result, nil
}
