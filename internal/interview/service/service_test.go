package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	applicationRepository "github.com/festy23/workmatch/internal/application/repository"
	"github.com/festy23/workmatch/internal/clock"
	interviewModel "github.com/festy23/workmatch/internal/interview/model"
	"github.com/festy23/workmatch/internal/interview/repository"
	memberRepository "github.com/festy23/workmatch/internal/member/repository"
	memberService "github.com/festy23/workmatch/internal/member/service"
	postModel "github.com/festy23/workmatch/internal/post/model"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	recRepository "github.com/festy23/workmatch/internal/recommendation/repository"
	teamRepository "github.com/festy23/workmatch/internal/team/repository"
	"github.com/festy23/workmatch/internal/testutil/dbtest"
)

type fixture struct {
	db      *gorm.DB
	seed    *dbtest.Seeder
	svc     Service
	company postModel.Company
	post    postModel.Post
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	logger := zap.NewNop().Sugar()
	members := memberRepository.New(db)

	company := seed.Company(900, "acme")
	site := seed.Site(company.ID, "north")
	post := seed.Post(company.ID, site.ID, "framing", dbtest.Date(2025, 2, 1), dbtest.Date(2025, 4, 1))

	svc := New(Deps{
		Interviews:      repository.New(db),
		Applications:    applicationRepository.New(db),
		Posts:           postRepository.New(db),
		Recommendations: recRepository.New(db),
		Members:         memberService.New(members, logger),
		Teams:           teamRepository.New(db),
		Node:            dbtest.Node(t),
		Clock:           clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
	}, db, logger)

	return &fixture{db: db, seed: seed, svc: svc, company: company, post: post}
}

func (f *fixture) countApplications(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&applicationModel.Application{}).Count(&n).Error)
	return n
}

func (f *fixture) recommend(t *testing.T, a applicant.Applicant) {
	t.Helper()
	f.seed.Batch(recModel.CompanyActor(f.company.ID), "2025-03-01",
		recModel.Candidate{Applicant: a, PostID: f.post.ID})
}

func proposal(a applicant.Applicant, postID int64, category interviewModel.SupportCategory) interviewModel.ProposalRequest {
	return interviewModel.ProposalRequest{
		ApplicantID:     a.ID(),
		Object:          a.Kind(),
		PostID:          postID,
		SupportCategory: category,
	}
}

func TestProposeInterview_Headhunting(t *testing.T) {
	ctx := context.Background()

	t.Run("not recommended creates nothing", func(t *testing.T) {
		f := newFixture(t)
		m := f.seed.Member(1, "kim")

		_, err := f.svc.ProposeInterview(ctx, f.company.ID,
			proposal(applicant.Individual(m.ID), f.post.ID, interviewModel.CategoryHeadhunting))
		assert.ErrorIs(t, err, interviewModel.ErrNotRecommended)
		assert.Zero(t, f.countApplications(t))
	})

	t.Run("recommended member", func(t *testing.T) {
		f := newFixture(t)
		m := f.seed.Member(1, "kim")
		f.recommend(t, applicant.Individual(m.ID))

		resp, err := f.svc.ProposeInterview(ctx, f.company.ID,
			proposal(applicant.Individual(m.ID), f.post.ID, interviewModel.CategoryHeadhunting))
		require.NoError(t, err)
		assert.Equal(t, string(applicationModel.StatusProposalInterview), resp.Status)
		assert.Equal(t, interviewModel.StatusInterviewing, resp.InterviewStatus)

		var iv interviewModel.Interview
		require.NoError(t, f.db.Where("application_id = ?", resp.ApplicationID).First(&iv).Error)
		assert.Equal(t, resp.InterviewID, iv.ID)
		assert.Equal(t, interviewModel.CategoryHeadhunting, iv.SupportCategory)

		_, err = f.svc.ProposeInterview(ctx, f.company.ID,
			proposal(applicant.Individual(m.ID), f.post.ID, interviewModel.CategoryHeadhunting))
		assert.ErrorIs(t, err, applicationModel.ErrApplicationExists)
		assert.Equal(t, int64(1), f.countApplications(t))
	})

	t.Run("recommended as team only", func(t *testing.T) {
		f := newFixture(t)
		m := f.seed.Member(1, "kim")
		team := f.seed.Team(m.ID, "rebar crew")
		f.recommend(t, applicant.Team(team.ID))

		_, err := f.svc.ProposeInterview(ctx, f.company.ID,
			proposal(applicant.Individual(m.ID), f.post.ID, interviewModel.CategoryHeadhunting))
		assert.ErrorIs(t, err, interviewModel.ErrNotRecommended)

		resp, err := f.svc.ProposeInterview(ctx, f.company.ID,
			proposal(applicant.Team(team.ID), f.post.ID, interviewModel.CategoryHeadhunting))
		require.NoError(t, err)
		assert.Equal(t, applicant.KindTeam, resp.ApplicantType)
	})
}

func TestProposeInterview_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.seed.Member(1, "kim")
	other := f.seed.Company(901, "globex")
	otherSite := f.seed.Site(other.ID, "south")
	foreign := f.seed.Post(other.ID, otherSite.ID, "paving", dbtest.Date(2025, 2, 1), dbtest.Date(2025, 4, 1))

	tests := []struct {
		name    string
		req     interviewModel.ProposalRequest
		wantErr error
	}{
		{
			name:    "foreign post",
			req:     proposal(applicant.Individual(m.ID), foreign.ID, interviewModel.CategoryMatching),
			wantErr: interviewModel.ErrPostNotOwned,
		},
		{
			name:    "missing post",
			req:     proposal(applicant.Individual(m.ID), 9999, interviewModel.CategoryMatching),
			wantErr: postModel.ErrPostNotFound,
		},
		{
			name:    "missing member",
			req:     proposal(applicant.Individual(9999), f.post.ID, interviewModel.CategoryMatching),
			wantErr: interviewModel.ErrApplicantNotFound,
		},
		{
			name:    "missing team",
			req:     proposal(applicant.Team(9999), f.post.ID, interviewModel.CategoryMatching),
			wantErr: interviewModel.ErrApplicantNotFound,
		},
		{
			name: "unknown category",
			req: interviewModel.ProposalRequest{
				ApplicantID: m.ID, Object: applicant.KindIndividual, PostID: f.post.ID, SupportCategory: "REFERRAL",
			},
			wantErr: interviewModel.ErrInvalidRequest,
		},
		{
			name: "unknown object",
			req: interviewModel.ProposalRequest{
				ApplicantID: m.ID, Object: "GROUP", PostID: f.post.ID, SupportCategory: interviewModel.CategoryMatching,
			},
			wantErr: interviewModel.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ProposeInterview(ctx, f.company.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Zero(t, f.countApplications(t))

	t.Run("matching skips the recommendation check", func(t *testing.T) {
		_, err := f.svc.ProposeInterview(ctx, f.company.ID,
			proposal(applicant.Individual(m.ID), f.post.ID, interviewModel.CategoryMatching))
		require.NoError(t, err)
	})

	t.Run("existing application conflicts", func(t *testing.T) {
		lee := f.seed.Member(2, "lee")
		f.seed.Application(applicant.Individual(lee.ID), f.post.ID, applicationModel.StatusApplying)

		_, err := f.svc.ProposeInterview(ctx, f.company.ID,
			proposal(applicant.Individual(lee.ID), f.post.ID, interviewModel.CategoryMatching))
		assert.ErrorIs(t, err, applicationModel.ErrApplicationExists)
	})
}

func TestGetApplicantDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	leader := f.seed.Member(1, "kim")
	f.seed.Career(leader.ID, "foreman", 10, 0)
	junior := f.seed.Member(2, "lee")
	f.seed.Career(junior.ID, "carpenter", 1, 6)
	senior := f.seed.Member(3, "park")
	f.seed.Career(senior.ID, "carpenter", 4, 0)
	f.seed.Career(senior.ID, "mason", 0, 11)
	f.seed.Certificate(senior.ID, "scaffolding")
	f.seed.License(senior.ID, "forklift")
	mid := f.seed.Member(4, "choi")
	f.seed.Career(mid.ID, "carpenter", 4, 3)
	team := f.seed.Team(leader.ID, "rebar crew", junior.ID, senior.ID, mid.ID)

	t.Run("individual", func(t *testing.T) {
		detail, err := f.svc.GetApplicantDetail(ctx, f.company.ID,
			proposal(applicant.Individual(senior.ID), f.post.ID, interviewModel.CategoryMatching))
		require.NoError(t, err)
		require.NotNil(t, detail.Individual)
		assert.Nil(t, detail.Team)
		assert.Equal(t, []string{"scaffolding"}, detail.Individual.Certificates)
		assert.Equal(t, []string{"forklift"}, detail.Individual.Licenses)
		assert.Equal(t, 4, detail.Individual.TotalExperience.Years)
		assert.Equal(t, 11, detail.Individual.TotalExperience.Months)
	})

	t.Run("team sorted by experience", func(t *testing.T) {
		detail, err := f.svc.GetApplicantDetail(ctx, f.company.ID,
			proposal(applicant.Team(team.ID), f.post.ID, interviewModel.CategoryMatching))
		require.NoError(t, err)
		require.NotNil(t, detail.Team)
		assert.Equal(t, leader.ID, detail.Team.Leader.MemberID)
		assert.Equal(t, 4, detail.Team.TotalMembers)

		order := make([]int64, 0, len(detail.Team.Members))
		for _, p := range detail.Team.Members {
			order = append(order, p.MemberID)
		}
		assert.Equal(t, []int64{senior.ID, mid.ID, junior.ID}, order)
	})

	t.Run("headhunting check applies", func(t *testing.T) {
		_, err := f.svc.GetApplicantDetail(ctx, f.company.ID,
			proposal(applicant.Team(team.ID), f.post.ID, interviewModel.CategoryHeadhunting))
		assert.ErrorIs(t, err, interviewModel.ErrNotRecommended)
	})
}
