// Package service serves matching lists to members and companies and records
// how members respond to recommended posts.
package service

import (
	"context"

	"go.uber.org/zap"

	applicationModel "github.com/festy23/workmatch/internal/application/model"
	applicationService "github.com/festy23/workmatch/internal/application/service"
	"github.com/festy23/workmatch/internal/config"
	matchingModel "github.com/festy23/workmatch/internal/matching/model"
	memberModel "github.com/festy23/workmatch/internal/member/model"
	memberService "github.com/festy23/workmatch/internal/member/service"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
	recRepository "github.com/festy23/workmatch/internal/recommendation/repository"
	recService "github.com/festy23/workmatch/internal/recommendation/service"
	teamService "github.com/festy23/workmatch/internal/team/service"
	"github.com/festy23/workmatch/pkg/pagination"
)

// Service defines matching query and response operations.
type Service interface {
	// ListForMember lists the member's recommended posts for a category.
	ListForMember(
		ctx context.Context,
		memberID int64,
		category string,
		page pagination.Params,
	) (*pagination.Page[matchingModel.MemberMatchItem], error)

	// GetMemberMatch returns one of the member's recommended posts.
	GetMemberMatch(ctx context.Context, memberID, matchID int64) (*matchingModel.MemberMatchItem, error)

	// ListForCompany lists applicants recommended to the company dateOffset days ago.
	ListForCompany(
		ctx context.Context,
		companyID int64,
		dateOffset int,
		page pagination.Params,
	) (*pagination.Page[matchingModel.CompanyMatchItem], error)

	// Refuse marks a recommendation as refused. Repeating it is a no-op.
	Refuse(ctx context.Context, memberID, matchID int64) (*matchingModel.RefuseResult, error)

	// MarkInterested toggles the member's interest in the recommended post.
	MarkInterested(ctx context.Context, memberID, matchID int64) (*memberModel.InterestState, error)

	// ApplyIndividual applies the member to the recommended post.
	ApplyIndividual(ctx context.Context, memberID, matchID int64) (*applicationModel.ApplyResult, error)

	// ApplyAsTeam applies a team led by the member to the recommended post.
	ApplyAsTeam(ctx context.Context, memberID, matchID, teamID int64) (*applicationModel.ApplyResult, error)
}

// Deps carries the collaborators of the matching service.
type Deps struct {
	Assigner     recService.Service
	Entries      recRepository.Repository
	Posts        postRepository.Repository
	Members      memberService.Service
	Applications applicationService.Service
	Teams        teamService.Service
	Config       *config.MatchingConfigHolder
}

type service struct {
	assigner     recService.Service
	entries      recRepository.Repository
	posts        postRepository.Repository
	members      memberService.Service
	applications applicationService.Service
	teams        teamService.Service
	cfg          *config.MatchingConfigHolder
	logger       *zap.SugaredLogger
}

// New creates a new matching service instance.
func New(deps Deps, logger *zap.SugaredLogger) Service {
	if deps.Config == nil {
		deps.Config = config.NewStaticMatchingConfigHolder(config.DefaultMatchingConfig())
	}
	return &service{
		assigner:     deps.Assigner,
		entries:      deps.Entries,
		posts:        deps.Posts,
		members:      deps.Members,
		applications: deps.Applications,
		teams:        deps.Teams,
		cfg:          deps.Config,
		logger:       logger,
	}
}

func (s *service) normalize(page pagination.Params) (pagination.Params, error) {
	cfg := s.cfg.Get()
	return page.Normalize(cfg.DefaultPageSize, cfg.MaxPageSize)
}
