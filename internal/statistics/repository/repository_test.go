package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	interviewModel "github.com/festy23/workmatch/internal/interview/model"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	"github.com/festy23/workmatch/internal/statistics/model"
	teamModel "github.com/festy23/workmatch/internal/team/model"
	"github.com/festy23/workmatch/internal/testutil/dbtest"
)

func TestGetRecommendationStatistics(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := New(db, zap.NewNop().Sugar())

	t.Run("empty database", func(t *testing.T) {
		stats, err := repo.GetRecommendationStatistics(ctx, "2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, &model.RecommendationStatistics{Day: "2025-03-01"}, stats)
	})

	company := seed.Company(900, "acme")
	site := seed.Site(company.ID, "north")
	post := seed.Post(company.ID, site.ID, "framing", dbtest.Date(2025, 2, 1), dbtest.Date(2025, 4, 1))
	kim := seed.Member(1, "kim")
	lee := seed.Member(2, "lee")

	seed.Batch(recModel.CompanyActor(company.ID), "2025-03-01",
		recModel.Candidate{Applicant: applicant.Individual(kim.ID), PostID: post.ID},
		recModel.Candidate{Applicant: applicant.Individual(lee.ID), PostID: post.ID},
	)
	_, entries := seed.Batch(recModel.MemberActor(kim.ID), "2025-03-01",
		recModel.Candidate{Applicant: applicant.Individual(kim.ID), PostID: post.ID},
	)
	seed.Batch(recModel.MemberActor(lee.ID), "2025-03-01")
	seed.Batch(recModel.MemberActor(lee.ID), "2025-02-28",
		recModel.Candidate{Applicant: applicant.Individual(lee.ID), PostID: post.ID},
	)
	require.NoError(t, db.Model(&entries[0]).Update("is_refuse", true).Error)

	t.Run("counts one day", func(t *testing.T) {
		stats, err := repo.GetRecommendationStatistics(ctx, "2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.CompanyBatches)
		assert.Equal(t, int64(2), stats.MemberBatches)
		assert.Equal(t, int64(2), stats.CompanyEntries)
		assert.Equal(t, int64(1), stats.MemberEntries)
		assert.Equal(t, int64(1), stats.RefusedEntries)
	})

	t.Run("previous day", func(t *testing.T) {
		stats, err := repo.GetRecommendationStatistics(ctx, "2025-02-28")
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.MemberBatches)
		assert.Equal(t, int64(1), stats.MemberEntries)
		assert.Zero(t, stats.RefusedEntries)
	})
}

func TestGetPipelineStatistics(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	repo := New(db, zap.NewNop().Sugar())

	t.Run("zero filled", func(t *testing.T) {
		stats, err := repo.GetPipelineStatistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Applications["APPLYING"])
		assert.Equal(t, int64(0), stats.Invitations["WAITING"])
		assert.Equal(t, int64(0), stats.Interviews["HEADHUNTING"])
	})

	company := seed.Company(900, "acme")
	site := seed.Site(company.ID, "north")
	post := seed.Post(company.ID, site.ID, "framing", dbtest.Date(2025, 2, 1), dbtest.Date(2025, 4, 1))
	kim := seed.Member(1, "kim")
	lee := seed.Member(2, "lee")
	team := seed.Team(kim.ID, "rebar crew")

	seed.Application(applicant.Individual(kim.ID), post.ID, applicationModel.StatusApplying)
	seed.Application(applicant.Team(team.ID), post.ID, applicationModel.StatusApplying)
	proposed := seed.Application(applicant.Individual(lee.ID), post.ID, applicationModel.StatusProposalInterview)
	require.NoError(t, db.Create(&interviewModel.Interview{
		ID:              proposed.ID,
		ApplicationID:   proposed.ID,
		InterviewStatus: interviewModel.StatusInterviewing,
		SupportCategory: interviewModel.CategoryMatching,
	}).Error)
	seed.Invitation(team.ID, lee.ID, teamModel.InvitationWaiting)

	stats, err := repo.GetPipelineStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Applications["APPLYING"])
	assert.Equal(t, int64(1), stats.Applications["PROPOSAL_INTERVIEW"])
	assert.Equal(t, int64(1), stats.Invitations["WAITING"])
	assert.Equal(t, int64(0), stats.Invitations["ACCEPTED"])
	assert.Equal(t, int64(1), stats.Interviews["MATCHING"])
}
