// Package service implements interview proposals from companies to applicants.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	applicationRepository "github.com/festy23/workmatch/internal/application/repository"
	"github.com/festy23/workmatch/internal/clock"
	interviewModel "github.com/festy23/workmatch/internal/interview/model"
	"github.com/festy23/workmatch/internal/interview/repository"
	memberModel "github.com/festy23/workmatch/internal/member/model"
	memberService "github.com/festy23/workmatch/internal/member/service"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
	recRepository "github.com/festy23/workmatch/internal/recommendation/repository"
	teamModel "github.com/festy23/workmatch/internal/team/model"
	teamRepository "github.com/festy23/workmatch/internal/team/repository"
	"github.com/festy23/workmatch/pkg/dberr"
)

// Service defines interview proposal operations.
type Service interface {
	// ProposeInterview creates a PROPOSAL_INTERVIEW application and its
	// interview for one of the company's posts.
	ProposeInterview(
		ctx context.Context,
		companyID int64,
		req interviewModel.ProposalRequest,
	) (*interviewModel.ProposalResponse, error)

	// GetApplicantDetail returns the profile of an applicant the company may
	// propose an interview to.
	GetApplicantDetail(
		ctx context.Context,
		companyID int64,
		q interviewModel.ApplicantQuery,
	) (*interviewModel.ApplicantDetail, error)
}

// Deps carries the collaborators of the interview service.
type Deps struct {
	Interviews      repository.Repository
	Applications    applicationRepository.Repository
	Posts           postRepository.Repository
	Recommendations recRepository.Repository
	Members         memberService.Service
	Teams           teamRepository.Repository
	Node            *snowflake.Node
	Clock           clock.Clock
}

type service struct {
	deps   Deps
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new interview service instance.
func New(deps Deps, db *gorm.DB, logger *zap.SugaredLogger) Service {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	return &service{deps: deps, db: db, logger: logger}
}

// ProposeInterview creates the application and interview in one transaction.
func (s *service) ProposeInterview(
	ctx context.Context,
	companyID int64,
	req interviewModel.ProposalRequest,
) (*interviewModel.ProposalResponse, error) {
	s.logger.Debugw("Proposing interview",
		"company_id", companyID,
		"post_id", req.PostID,
		"object", req.Object,
		"applicant_id", req.ApplicantID,
		"support_category", req.SupportCategory,
	)

	a, err := s.check(ctx, companyID, req)
	if err != nil {
		return nil, err
	}

	now := s.deps.Clock.Now()
	app := applicationModel.NewApplication(
		s.deps.Node.Generate().Int64(),
		a,
		req.PostID,
		applicationModel.StatusProposalInterview,
		now,
	)
	iv := &interviewModel.Interview{
		ID:              s.deps.Node.Generate().Int64(),
		ApplicationID:   app.ID,
		InterviewStatus: interviewModel.StatusInterviewing,
		SupportCategory: req.SupportCategory,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apps := applicationRepository.New(tx)

		exists, err := apps.Exists(ctx, a, req.PostID)
		if err != nil {
			return err
		}
		if exists {
			return applicationModel.ErrApplicationExists
		}
		if err := apps.Create(ctx, app); err != nil {
			return err
		}
		return repository.New(tx).Create(ctx, iv)
	})
	if err != nil {
		if errors.Is(err, applicationModel.ErrApplicationExists) || dberr.IsDuplicateKey(err) {
			s.logger.Infow("Interview proposal rejected: application exists",
				"company_id", companyID,
				"applicant", a.String(),
				"post_id", req.PostID,
			)
			return nil, applicationModel.ErrApplicationExists
		}
		s.logger.Errorw("Failed to propose interview",
			"company_id", companyID,
			"applicant", a.String(),
			"post_id", req.PostID,
			"error", err,
		)
		return nil, fmt.Errorf("failed to propose interview: %w", err)
	}

	s.logger.Infow("Interview proposed",
		"company_id", companyID,
		"application_id", app.ID,
		"interview_id", iv.ID,
		"applicant", a.String(),
		"post_id", req.PostID,
	)

	return &interviewModel.ProposalResponse{
		ApplicationID:   app.ID,
		InterviewID:     iv.ID,
		PostID:          app.PostID,
		ApplicantType:   app.ApplicantType,
		ApplicantID:     app.ApplicantID,
		Status:          string(app.Status),
		InterviewStatus: iv.InterviewStatus,
		SupportCategory: iv.SupportCategory,
	}, nil
}

// GetApplicantDetail returns an individual or team profile.
func (s *service) GetApplicantDetail(
	ctx context.Context,
	companyID int64,
	q interviewModel.ApplicantQuery,
) (*interviewModel.ApplicantDetail, error) {
	a, err := s.check(ctx, companyID, q)
	if err != nil {
		return nil, err
	}

	if memberID, ok := a.MemberID(); ok {
		profile, err := s.deps.Members.GetProfile(ctx, memberID)
		if err != nil {
			if errors.Is(err, memberModel.ErrMemberNotFound) {
				return nil, interviewModel.ErrApplicantNotFound
			}
			return nil, err
		}
		return &interviewModel.ApplicantDetail{Object: applicant.KindIndividual, Individual: profile}, nil
	}

	teamID, _ := a.TeamID()
	team, err := s.teamDetail(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return &interviewModel.ApplicantDetail{Object: applicant.KindTeam, Team: team}, nil
}

func (s *service) teamDetail(ctx context.Context, teamID int64) (*interviewModel.TeamDetail, error) {
	team, err := s.deps.Teams.GetActiveTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, teamModel.ErrTeamNotFound) {
			return nil, interviewModel.ErrApplicantNotFound
		}
		return nil, err
	}

	leader, err := s.deps.Members.GetProfile(ctx, team.LeaderID)
	if err != nil {
		return nil, err
	}

	memberIDs, err := s.deps.Teams.ListActiveMemberIDs(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members, err := s.deps.Members.GetProfiles(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	memberModel.SortByExperience(members)

	return &interviewModel.TeamDetail{
		TeamID:       team.ID,
		Name:         team.Name,
		TotalMembers: team.TotalMembers,
		Leader:       *leader,
		Members:      members,
	}, nil
}

// check validates the request against the company's post, the headhunting
// set and the applicant's existence, in that order.
func (s *service) check(
	ctx context.Context,
	companyID int64,
	q interviewModel.ApplicantQuery,
) (applicant.Applicant, error) {
	if !q.SupportCategory.Valid() {
		return applicant.Applicant{}, fmt.Errorf("%w: unknown support category %q",
			interviewModel.ErrInvalidRequest, q.SupportCategory)
	}
	a, err := q.Applicant()
	if err != nil {
		return applicant.Applicant{}, fmt.Errorf("%w: %v", interviewModel.ErrInvalidRequest, err)
	}

	post, err := s.deps.Posts.GetPost(ctx, q.PostID)
	if err != nil {
		return applicant.Applicant{}, err
	}
	if post.CompanyID != companyID {
		return applicant.Applicant{}, interviewModel.ErrPostNotOwned
	}

	if q.SupportCategory == interviewModel.CategoryHeadhunting {
		ok, err := s.deps.Recommendations.HeadhuntingContains(ctx, q.PostID, a)
		if err != nil {
			return applicant.Applicant{}, err
		}
		if !ok {
			return applicant.Applicant{}, interviewModel.ErrNotRecommended
		}
	}

	if err := s.applicantExists(ctx, a); err != nil {
		return applicant.Applicant{}, err
	}
	return a, nil
}

func (s *service) applicantExists(ctx context.Context, a applicant.Applicant) error {
	if memberID, ok := a.MemberID(); ok {
		names, err := s.deps.Members.GetNames(ctx, []int64{memberID})
		if err != nil {
			return err
		}
		if _, ok := names[memberID]; !ok {
			return interviewModel.ErrApplicantNotFound
		}
		return nil
	}

	teamID, _ := a.TeamID()
	if _, err := s.deps.Teams.GetActiveTeam(ctx, teamID); err != nil {
		if errors.Is(err, teamModel.ErrTeamNotFound) {
			return interviewModel.ErrApplicantNotFound
		}
		return err
	}
	return nil
}
