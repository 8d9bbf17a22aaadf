package service

import (
	"context"

	"github.com/festy23/workmatch/internal/applicant"
	memberRepository "github.com/festy23/workmatch/internal/member/repository"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
)

// CandidateSelector chooses at most limit candidates for actor on day.
// Implementations must be deterministic for the same inputs and should
// honour ctx cancellation.
type CandidateSelector interface {
	SelectCandidates(ctx context.Context, actor recModel.Actor, day string, limit int) ([]recModel.Candidate, error)
}

// TeamLister lists active teams that can be recommended to companies.
type TeamLister interface {
	ListActiveTeamIDs(ctx context.Context, limit int) ([]int64, error)
}

// FirstNSelector is the placeholder ranking: members get the first open
// posts by id; companies get the first eligible members and then teams,
// paired round-robin with their open posts.
type FirstNSelector struct {
	posts   postRepository.Repository
	members memberRepository.Repository
	teams   TeamLister
}

// NewFirstNSelector creates the default selector.
func NewFirstNSelector(
	posts postRepository.Repository,
	members memberRepository.Repository,
	teams TeamLister,
) *FirstNSelector {
	return &FirstNSelector{posts: posts, members: members, teams: teams}
}

// SelectCandidates implements CandidateSelector.
func (s *FirstNSelector) SelectCandidates(
	ctx context.Context,
	actor recModel.Actor,
	day string,
	limit int,
) ([]recModel.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	switch actor.Type {
	case recModel.ActorMember:
		return s.forMember(ctx, actor.ID, day, limit)
	case recModel.ActorCompany:
		return s.forCompany(ctx, actor.ID, day, limit)
	default:
		return nil, recModel.ErrInvalidActor
	}
}

func (s *FirstNSelector) forMember(ctx context.Context, memberID int64, day string, limit int) ([]recModel.Candidate, error) {
	posts, err := s.posts.ListOpenPosts(ctx, day, limit)
	if err != nil {
		return nil, err
	}

	me := applicant.Individual(memberID)
	candidates := make([]recModel.Candidate, 0, len(posts))
	for _, p := range posts {
		candidates = append(candidates, recModel.Candidate{Applicant: me, PostID: p.ID})
	}
	return candidates, nil
}

func (s *FirstNSelector) forCompany(ctx context.Context, companyID int64, day string, limit int) ([]recModel.Candidate, error) {
	posts, err := s.posts.ListOpenPostsByCompany(ctx, companyID, day)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}

	memberIDs, err := s.members.ListMemberIDsWithCareers(ctx, limit)
	if err != nil {
		return nil, err
	}
	pool := make([]applicant.Applicant, 0, limit)
	for _, id := range memberIDs {
		pool = append(pool, applicant.Individual(id))
	}

	if len(pool) < limit && s.teams != nil {
		teamIDs, err := s.teams.ListActiveTeamIDs(ctx, limit-len(pool))
		if err != nil {
			return nil, err
		}
		for _, id := range teamIDs {
			pool = append(pool, applicant.Team(id))
		}
	}

	candidates := make([]recModel.Candidate, 0, len(pool))
	for i, a := range pool {
		candidates = append(candidates, recModel.Candidate{Applicant: a, PostID: posts[i%len(posts)].ID})
	}
	return candidates, nil
}
