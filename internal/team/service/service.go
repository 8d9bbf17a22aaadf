// Package service provides business logic layer for team module.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	applicationService "github.com/festy23/workmatch/internal/application/service"
	"github.com/festy23/workmatch/internal/config"
	memberRepository "github.com/festy23/workmatch/internal/member/repository"
	"github.com/festy23/workmatch/internal/metrics"
	teamModel "github.com/festy23/workmatch/internal/team/model"
	"github.com/festy23/workmatch/internal/team/repository"
	"github.com/festy23/workmatch/pkg/dberr"
	"github.com/festy23/workmatch/pkg/pagination"
)

// maxTransitionAttempts bounds how often a transition that lost a race is
// re-evaluated against the winner's state.
const maxTransitionAttempts = 3

// errRaceLost rolls back a transition whose conditional write matched no row.
var errRaceLost = errors.New("concurrent transition")

// Service defines the interface for team business logic operations.
type Service interface {
	// Accept moves a WAITING invitation to ACCEPTED and activates membership.
	Accept(ctx context.Context, memberID, invitationID int64) (*teamModel.InvitationResult, error)

	// Decline moves a WAITING invitation to DECLINED.
	Decline(ctx context.Context, memberID, invitationID int64) (*teamModel.InvitationResult, error)

	// ListInvitations pages through the member's invitations.
	ListInvitations(
		ctx context.Context,
		memberID int64,
		status string,
		page pagination.Params,
	) (*pagination.Page[teamModel.InvitationItem], error)

	// ApplyPost applies the team to a post on behalf of its leader.
	ApplyPost(ctx context.Context, leaderID, teamID, postID int64) (*applicationModel.Application, error)

	// GetTeam returns an active team with its active members.
	GetTeam(ctx context.Context, teamID int64) (*teamModel.TeamResponse, error)

	// LedTeamIDs returns the active teams led by the member.
	LedTeamIDs(ctx context.Context, memberID int64) ([]int64, error)

	// TeamNames returns display names keyed by team id.
	TeamNames(ctx context.Context, teamIDs []int64) (map[int64]string, error)
}

type service struct {
	repo         repository.Repository
	members      memberRepository.Repository
	applications applicationService.Service
	db           *gorm.DB
	logger       *zap.SugaredLogger
	cfg          *config.MatchingConfigHolder
	metrics      *metrics.Metrics
}

// New creates a new team service instance. m may be nil.
func New(
	repo repository.Repository,
	members memberRepository.Repository,
	applications applicationService.Service,
	db *gorm.DB,
	logger *zap.SugaredLogger,
	cfg *config.MatchingConfigHolder,
	m *metrics.Metrics,
) Service {
	return &service{
		repo:         repo,
		members:      members,
		applications: applications,
		db:           db,
		logger:       logger,
		cfg:          cfg,
		metrics:      m,
	}
}

// Accept moves a WAITING invitation to ACCEPTED.
//
// The membership change, the counter increment and the status write commit
// together. A conditional write that matches nothing means another request
// won; the transaction rolls back and the outcome is re-read.
func (s *service) Accept(ctx context.Context, memberID, invitationID int64) (*teamModel.InvitationResult, error) {
	s.logger.Debugw("Accepting invitation", "member_id", memberID, "invitation_id", invitationID)

	var result *teamModel.InvitationResult
	var err error
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		result, err = s.acceptOnce(ctx, memberID, invitationID)
		if !errors.Is(err, errRaceLost) && !dberr.IsDuplicateKey(err) {
			break
		}
		s.logger.Debugw("Invitation accept lost a race, re-evaluating",
			"invitation_id", invitationID,
			"attempt", attempt,
		)
	}

	s.observe("accept", result, err)
	if err != nil {
		if errors.Is(err, errRaceLost) || dberr.IsDuplicateKey(err) {
			err = fmt.Errorf("failed to accept invitation %d: %w", invitationID, err)
		}
		s.logInvitationError("accept", memberID, invitationID, err)
		return nil, err
	}

	s.logger.Infow("Invitation accepted",
		"member_id", memberID,
		"invitation_id", invitationID,
		"team_id", result.TeamID,
		"total_members", result.TotalMembers,
		"result", result.Result,
	)
	return result, nil
}

func (s *service) acceptOnce(ctx context.Context, memberID, invitationID int64) (*teamModel.InvitationResult, error) {
	var result *teamModel.InvitationResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		inv, err := txRepo.GetInvitationForMember(ctx, invitationID, memberID, true)
		if err != nil {
			return err
		}
		if _, err := txRepo.GetActiveTeam(ctx, inv.TeamID); err != nil {
			if errors.Is(err, teamModel.ErrTeamNotFound) {
				return teamModel.ErrInvitationNotFound
			}
			return err
		}

		if inv.InvitationStatus.Terminal() {
			result, err = s.settledResult(ctx, txRepo, inv, teamModel.InvitationAccepted)
			return err
		}

		joined, err := s.activateMembership(ctx, txRepo, memberID, inv.TeamID)
		if err != nil {
			return err
		}
		if joined {
			if err := txRepo.IncrementTotalMembers(ctx, inv.TeamID); err != nil {
				return err
			}
		}

		ok, err := txRepo.TransitionInvitation(ctx, inv.ID, teamModel.InvitationWaiting, teamModel.InvitationAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return errRaceLost
		}

		inv.InvitationStatus = teamModel.InvitationAccepted
		result, err = s.invitationResult(ctx, txRepo, inv, teamModel.OutcomeApplied)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// activateMembership ensures an active (member, team) row and reports
// whether this call turned membership on.
func (s *service) activateMembership(
	ctx context.Context,
	txRepo repository.Repository,
	memberID, teamID int64,
) (bool, error) {
	membership, err := txRepo.GetMembership(ctx, memberID, teamID)
	switch {
	case errors.Is(err, teamModel.ErrMembershipNotFound):
		if err := txRepo.CreateMembership(ctx, memberID, teamID); err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, err
	case membership.IsActive:
		return false, nil
	}

	ok, err := txRepo.ReactivateMembership(ctx, memberID, teamID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errRaceLost
	}
	return true, nil
}

// Decline moves a WAITING invitation to DECLINED.
func (s *service) Decline(ctx context.Context, memberID, invitationID int64) (*teamModel.InvitationResult, error) {
	s.logger.Debugw("Declining invitation", "member_id", memberID, "invitation_id", invitationID)

	var result *teamModel.InvitationResult
	var err error
	for attempt := 1; attempt <= maxTransitionAttempts; attempt++ {
		result, err = s.declineOnce(ctx, memberID, invitationID)
		if !errors.Is(err, errRaceLost) {
			break
		}
	}

	s.observe("decline", result, err)
	if err != nil {
		s.logInvitationError("decline", memberID, invitationID, err)
		return nil, err
	}

	s.logger.Infow("Invitation declined",
		"member_id", memberID,
		"invitation_id", invitationID,
		"team_id", result.TeamID,
		"result", result.Result,
	)
	return result, nil
}

func (s *service) declineOnce(ctx context.Context, memberID, invitationID int64) (*teamModel.InvitationResult, error) {
	inv, err := s.repo.GetInvitationForMember(ctx, invitationID, memberID, false)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetActiveTeam(ctx, inv.TeamID); err != nil {
		if errors.Is(err, teamModel.ErrTeamNotFound) {
			return nil, teamModel.ErrInvitationNotFound
		}
		return nil, err
	}

	if inv.InvitationStatus.Terminal() {
		return s.settledResult(ctx, s.repo, inv, teamModel.InvitationDeclined)
	}

	var result *teamModel.InvitationResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx)

		locked, err := txRepo.GetInvitationForMember(ctx, invitationID, memberID, true)
		if err != nil {
			return err
		}
		if locked.InvitationStatus != teamModel.InvitationWaiting {
			return errRaceLost
		}

		membership, err := txRepo.GetMembership(ctx, memberID, locked.TeamID)
		if err != nil && !errors.Is(err, teamModel.ErrMembershipNotFound) {
			return err
		}
		if membership != nil && membership.IsActive {
			return teamModel.ErrAlreadyMember
		}

		ok, err := txRepo.TransitionInvitation(ctx, locked.ID, teamModel.InvitationWaiting, teamModel.InvitationDeclined)
		if err != nil {
			return err
		}
		if !ok {
			return errRaceLost
		}

		locked.InvitationStatus = teamModel.InvitationDeclined
		result, err = s.invitationResult(ctx, txRepo, locked, teamModel.OutcomeApplied)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settledResult answers a transition request on an invitation that already
// reached a terminal state: the same state is idempotent success, the other
// one a conflict.
func (s *service) settledResult(
	ctx context.Context,
	repo repository.Repository,
	inv *teamModel.TeamMemberInvitation,
	target teamModel.InvitationStatus,
) (*teamModel.InvitationResult, error) {
	switch {
	case inv.InvitationStatus == target:
		return s.invitationResult(ctx, repo, inv, teamModel.OutcomeAlreadyProcessed)
	case inv.InvitationStatus == teamModel.InvitationAccepted:
		return nil, teamModel.ErrInvitationAccepted
	default:
		return nil, teamModel.ErrInvitationDeclined
	}
}

func (s *service) invitationResult(
	ctx context.Context,
	repo repository.Repository,
	inv *teamModel.TeamMemberInvitation,
	outcome teamModel.Outcome,
) (*teamModel.InvitationResult, error) {
	team, err := repo.GetActiveTeam(ctx, inv.TeamID)
	if err != nil {
		return nil, err
	}
	return &teamModel.InvitationResult{
		InvitationID:     inv.ID,
		TeamID:           inv.TeamID,
		InvitationStatus: inv.InvitationStatus,
		TotalMembers:     team.TotalMembers,
		Result:           outcome,
	}, nil
}

func (s *service) observe(action string, result *teamModel.InvitationResult, err error) {
	switch {
	case err != nil:
		s.metrics.ObserveInvitation(action, metrics.InvitationConflict)
	case result.Result == teamModel.OutcomeAlreadyProcessed:
		s.metrics.ObserveInvitation(action, metrics.InvitationAlready)
	default:
		s.metrics.ObserveInvitation(action, metrics.InvitationApplied)
	}
}

func (s *service) logInvitationError(action string, memberID, invitationID int64, err error) {
	switch {
	case errors.Is(err, teamModel.ErrInvitationNotFound),
		errors.Is(err, teamModel.ErrInvitationAccepted),
		errors.Is(err, teamModel.ErrInvitationDeclined),
		errors.Is(err, teamModel.ErrAlreadyMember):
		s.logger.Infow("Invitation transition rejected",
			"action", action,
			"member_id", memberID,
			"invitation_id", invitationID,
			"reason", err.Error(),
		)
	default:
		s.logger.Errorw("Invitation transition failed",
			"action", action,
			"member_id", memberID,
			"invitation_id", invitationID,
			"error", err,
		)
	}
}

// ListInvitations pages through the member's invitations.
func (s *service) ListInvitations(
	ctx context.Context,
	memberID int64,
	status string,
	page pagination.Params,
) (*pagination.Page[teamModel.InvitationItem], error) {
	filter := teamModel.InvitationStatus(status)
	if filter != "" && !filter.Valid() {
		return nil, teamModel.ErrInvalidStatus
	}

	cfg := s.cfg.Get()
	page, err := page.Normalize(cfg.DefaultPageSize, cfg.MaxPageSize)
	if err != nil {
		return nil, err
	}

	invitations, total, err := s.repo.ListInvitations(ctx, memberID, filter, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}

	teamIDs := make([]int64, 0, len(invitations))
	for _, inv := range invitations {
		teamIDs = append(teamIDs, inv.TeamID)
	}
	teams, err := s.repo.GetTeamsByIDs(ctx, teamIDs)
	if err != nil {
		return nil, err
	}

	leaderIDs := make([]int64, 0, len(teams))
	for _, t := range teams {
		leaderIDs = append(leaderIDs, t.LeaderID)
	}
	leaders, err := s.members.GetByIDs(ctx, leaderIDs)
	if err != nil {
		return nil, err
	}

	items := make([]teamModel.InvitationItem, 0, len(invitations))
	for _, inv := range invitations {
		team := teams[inv.TeamID]
		items = append(items, teamModel.InvitationItem{
			InvitationID:     inv.ID,
			TeamID:           inv.TeamID,
			TeamName:         team.Name,
			LeaderName:       leaders[team.LeaderID].Name,
			TotalMembers:     team.TotalMembers,
			InvitationStatus: inv.InvitationStatus,
			CreatedAt:        inv.CreatedAt.UTC().Truncate(time.Second),
		})
	}

	result := pagination.New(items, page, total)
	return &result, nil
}

// ApplyPost applies the team to a post on behalf of its leader.
func (s *service) ApplyPost(
	ctx context.Context,
	leaderID, teamID, postID int64,
) (*applicationModel.Application, error) {
	s.logger.Debugw("Applying team to post", "leader_id", leaderID, "team_id", teamID, "post_id", postID)

	team, err := s.repo.GetActiveTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != leaderID {
		s.logger.Infow("Team application rejected: caller is not the leader",
			"member_id", leaderID,
			"team_id", teamID,
		)
		return nil, teamModel.ErrNotTeamLeader
	}

	return s.applications.Apply(ctx, applicant.Team(teamID), postID)
}

// GetTeam returns an active team with its active members.
func (s *service) GetTeam(ctx context.Context, teamID int64) (*teamModel.TeamResponse, error) {
	team, err := s.repo.GetActiveTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	memberIDs, err := s.repo.ListActiveMemberIDs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	ids := append([]int64{team.LeaderID}, memberIDs...)
	people, err := s.members.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	members := make([]teamModel.TeamMember, 0, len(ids))
	for i, id := range ids {
		members = append(members, teamModel.TeamMember{
			MemberID: id,
			Name:     people[id].Name,
			IsLeader: i == 0,
		})
	}

	return &teamModel.TeamResponse{
		TeamID:       team.ID,
		Name:         team.Name,
		LeaderID:     team.LeaderID,
		TotalMembers: team.TotalMembers,
		Status:       team.Status,
		Members:      members,
	}, nil
}

// LedTeamIDs returns the active teams led by the member.
func (s *service) LedTeamIDs(ctx context.Context, memberID int64) ([]int64, error) {
	return s.repo.ListLedTeamIDs(ctx, memberID)
}

// TeamNames returns display names keyed by team id.
func (s *service) TeamNames(ctx context.Context, teamIDs []int64) (map[int64]string, error) {
	teams, err := s.repo.GetTeamsByIDs(ctx, teamIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(teams))
	for id, t := range teams {
		names[id] = t.Name
	}
	return names, nil
}
