package service

import (
	"context"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	matchingModel "github.com/festy23/workmatch/internal/matching/model"
	memberModel "github.com/festy23/workmatch/internal/member/model"
)

// Refuse marks a recommendation as refused.
func (s *service) Refuse(ctx context.Context, memberID, matchID int64) (*matchingModel.RefuseResult, error) {
	entry, err := s.entries.GetMemberEntry(ctx, memberID, matchID)
	if err != nil {
		return nil, err
	}

	if !entry.IsRefuse {
		if err := s.entries.MarkRefused(ctx, entry.ID); err != nil {
			s.logger.Errorw("Failed to refuse recommendation", "member_id", memberID, "match_id", matchID, "error", err)
			return nil, err
		}
		s.logger.Infow("Recommendation refused", "member_id", memberID, "match_id", matchID, "post_id", entry.PostID)
	}

	return &matchingModel.RefuseResult{MatchID: entry.ID, PostID: entry.PostID, IsRefuse: true}, nil
}

// MarkInterested toggles the member's interest in the recommended post. The
// recommendation itself is left untouched.
func (s *service) MarkInterested(ctx context.Context, memberID, matchID int64) (*memberModel.InterestState, error) {
	entry, err := s.entries.GetMemberEntry(ctx, memberID, matchID)
	if err != nil {
		return nil, err
	}
	return s.members.ToggleInterest(ctx, memberID, entry.PostID)
}

// ApplyIndividual applies the member to the recommended post.
func (s *service) ApplyIndividual(ctx context.Context, memberID, matchID int64) (*applicationModel.ApplyResult, error) {
	entry, err := s.entries.GetMemberEntry(ctx, memberID, matchID)
	if err != nil {
		return nil, err
	}

	app, err := s.applications.Apply(ctx, applicant.Individual(memberID), entry.PostID)
	if err != nil {
		return nil, err
	}
	return app.ToApplyResult(), nil
}

// ApplyAsTeam applies a team led by the member to the recommended post.
func (s *service) ApplyAsTeam(
	ctx context.Context,
	memberID, matchID, teamID int64,
) (*applicationModel.ApplyResult, error) {
	entry, err := s.entries.GetMemberEntry(ctx, memberID, matchID)
	if err != nil {
		return nil, err
	}

	app, err := s.teams.ApplyPost(ctx, memberID, teamID, entry.PostID)
	if err != nil {
		return nil, err
	}
	return app.ToApplyResult(), nil
}
