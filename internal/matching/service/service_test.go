package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	applicationRepository "github.com/festy23/workmatch/internal/application/repository"
	applicationService "github.com/festy23/workmatch/internal/application/service"
	"github.com/festy23/workmatch/internal/clock"
	"github.com/festy23/workmatch/internal/config"
	matchingModel "github.com/festy23/workmatch/internal/matching/model"
	memberModel "github.com/festy23/workmatch/internal/member/model"
	memberRepository "github.com/festy23/workmatch/internal/member/repository"
	memberService "github.com/festy23/workmatch/internal/member/service"
	postModel "github.com/festy23/workmatch/internal/post/model"
	postRepository "github.com/festy23/workmatch/internal/post/repository"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	recRepository "github.com/festy23/workmatch/internal/recommendation/repository"
	recService "github.com/festy23/workmatch/internal/recommendation/service"
	teamModel "github.com/festy23/workmatch/internal/team/model"
	teamRepository "github.com/festy23/workmatch/internal/team/repository"
	teamService "github.com/festy23/workmatch/internal/team/service"
	"github.com/festy23/workmatch/internal/testutil/dbtest"
	"github.com/festy23/workmatch/pkg/pagination"
)

type failingSelector struct{}

func (failingSelector) SelectCandidates(context.Context, recModel.Actor, string, int) ([]recModel.Candidate, error) {
	return nil, errors.New("ranking backend down")
}

type fixture struct {
	db    *gorm.DB
	seed  *dbtest.Seeder
	clock *clock.Fake
	svc   Service

	company postModel.Company
	posts   []postModel.Post
}

// newFixture wires the real services over SQLite. The clock sits on
// 2025-03-01; three posts are open that day and one has closed.
func newFixture(t *testing.T, selector recService.CandidateSelector) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	seed := dbtest.NewSeeder(t, db)
	clk := clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	cfg := config.NewStaticMatchingConfigHolder(config.DefaultMatchingConfig())
	logger := zap.NewNop().Sugar()
	node := dbtest.Node(t)

	company := seed.Company(900, "acme")
	site := seed.Site(company.ID, "north")
	posts := []postModel.Post{
		seed.Post(company.ID, site.ID, "framing", dbtest.Date(2025, 2, 1), dbtest.Date(2025, 4, 1)),
		seed.Post(company.ID, site.ID, "rebar", dbtest.Date(2025, 2, 1), dbtest.Date(2025, 3, 1)),
		seed.Post(company.ID, site.ID, "drywall", dbtest.Date(2025, 3, 1), dbtest.Date(2025, 5, 1)),
	}

	postRepo := postRepository.New(db)
	memberRepo := memberRepository.New(db)
	teamRepo := teamRepository.New(db)
	recRepo := recRepository.New(db)

	if selector == nil {
		selector = recService.NewFirstNSelector(postRepo, memberRepo, teamRepo)
	}
	assigner := recService.New(recRepo, postRepo, memberRepo, db, logger, recService.Options{
		Selector: selector,
		Config:   cfg,
		Clock:    clk,
		Node:     node,
	})
	apps := applicationService.New(applicationRepository.New(db), postRepo, db, logger, node, clk, cfg)
	teamSvc := teamService.New(teamRepo, memberRepo, apps, db, logger, cfg, nil)

	svc := New(Deps{
		Assigner:     assigner,
		Entries:      recRepo,
		Posts:        postRepo,
		Members:      memberService.New(memberRepo, logger),
		Applications: apps,
		Teams:        teamSvc,
		Config:       cfg,
	}, logger)

	return &fixture{db: db, seed: seed, clock: clk, svc: svc, company: company, posts: posts}
}

func (f *fixture) countBatches(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&recModel.Batch{}).Count(&n).Error)
	return n
}

func (f *fixture) careerMember(t *testing.T, accountID int64, name string) memberModel.Member {
	t.Helper()
	m := f.seed.Member(accountID, name)
	f.seed.Career(m.ID, "carpenter", 3, 2)
	return m
}

func TestListForMember_NoCareer(t *testing.T) {
	f := newFixture(t, nil)
	m := f.seed.Member(1, "kim")

	_, err := f.svc.ListForMember(context.Background(), m.ID, "", pagination.Params{})
	assert.ErrorIs(t, err, matchingModel.ErrNoCareer)
	assert.Zero(t, f.countBatches(t), "no batch for a member without careers")
}

func TestListForMember_FirstCallOfDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	m := f.careerMember(t, 1, "kim")

	page, err := f.svc.ListForMember(ctx, m.ID, "", pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Meta.Total)
	require.Len(t, page.Data, 3)
	for i, item := range page.Data {
		assert.Equal(t, f.posts[i].ID, item.PostID)
		assert.Equal(t, "2025-03-01", item.AssignedOn)
		assert.Equal(t, "acme", item.CompanyName)
		assert.Equal(t, "north", item.SiteName)
		assert.False(t, item.IsApplication)
		assert.False(t, item.IsInterested)
		assert.False(t, item.IsRefuse)
	}
	assert.Equal(t, int64(1), f.countBatches(t))

	again, err := f.svc.ListForMember(ctx, m.ID, "", pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, page.Data, again.Data, "same batch on repeat calls")
	assert.Equal(t, int64(1), f.countBatches(t))
}

func TestListForMember_Categories(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	m := f.careerMember(t, 1, "kim")

	today, err := f.svc.ListForMember(ctx, m.ID, "", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, today.Data, 3)
	framing, rebar, drywall := today.Data[0], today.Data[1], today.Data[2]

	_, err = f.svc.ApplyIndividual(ctx, m.ID, framing.MatchID)
	require.NoError(t, err)
	_, err = f.svc.Refuse(ctx, m.ID, drywall.MatchID)
	require.NoError(t, err)
	state, err := f.svc.MarkInterested(ctx, m.ID, rebar.MatchID)
	require.NoError(t, err)
	assert.True(t, state.IsInterested)

	t.Run("application", func(t *testing.T) {
		page, err := f.svc.ListForMember(ctx, m.ID, "APPLICATION", pagination.Params{})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, framing.MatchID, page.Data[0].MatchID)
		assert.True(t, page.Data[0].IsApplication)
	})

	t.Run("rejection", func(t *testing.T) {
		page, err := f.svc.ListForMember(ctx, m.ID, "REJECTION", pagination.Params{})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, drywall.MatchID, page.Data[0].MatchID)
		assert.True(t, page.Data[0].IsRefuse)
	})

	t.Run("today keeps refused entries and flags", func(t *testing.T) {
		page, err := f.svc.ListForMember(ctx, m.ID, "", pagination.Params{})
		require.NoError(t, err)
		require.Len(t, page.Data, 3)
		assert.True(t, page.Data[0].IsApplication)
		assert.True(t, page.Data[1].IsInterested)
		assert.True(t, page.Data[2].IsRefuse)
	})

	t.Run("deadline next day", func(t *testing.T) {
		f.clock.Set(time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
		defer f.clock.Set(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

		page, err := f.svc.ListForMember(ctx, m.ID, "DEADLINE", pagination.Params{})
		require.NoError(t, err)
		require.Len(t, page.Data, 1)
		assert.Equal(t, rebar.MatchID, page.Data[0].MatchID)
		assert.True(t, page.Data[0].IsClosed)
		assert.Equal(t, int64(2), f.countBatches(t), "the new day got its own batch")
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.svc.ListForMember(ctx, m.ID, "FAVOURITE", pagination.Params{})
		assert.ErrorIs(t, err, matchingModel.ErrInvalidCategory)
	})

	t.Run("paging", func(t *testing.T) {
		page, err := f.svc.ListForMember(ctx, m.ID, "", pagination.Params{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Meta.Total)
		require.Len(t, page.Data, 1)
		assert.Equal(t, drywall.MatchID, page.Data[0].MatchID)
	})

	t.Run("page beyond addressable offset", func(t *testing.T) {
		page, err := f.svc.ListForMember(ctx, m.ID, "", pagination.Params{Page: math.MaxInt / 5, PageSize: 10})
		assert.ErrorIs(t, err, pagination.ErrInvalidPage)
		assert.Nil(t, page)
	})
}

func TestListForMember_TeamApplicationCounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	leader := f.careerMember(t, 1, "kim")
	team := f.seed.Team(leader.ID, "rebar crew")
	f.seed.Application(applicant.Team(team.ID), f.posts[2].ID, applicationModel.StatusApplying)

	page, err := f.svc.ListForMember(ctx, leader.ID, "APPLICATION", pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, f.posts[2].ID, page.Data[0].PostID)
}

func TestListForMember_SelectionFailure(t *testing.T) {
	f := newFixture(t, failingSelector{})
	m := f.careerMember(t, 1, "kim")

	_, err := f.svc.ListForMember(context.Background(), m.ID, "", pagination.Params{})
	assert.ErrorIs(t, err, recModel.ErrSelectionFailed)
}

func TestGetMemberMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	m := f.careerMember(t, 1, "kim")
	other := f.careerMember(t, 2, "lee")

	page, err := f.svc.ListForMember(ctx, m.ID, "", pagination.Params{})
	require.NoError(t, err)
	matchID := page.Data[0].MatchID

	item, err := f.svc.GetMemberMatch(ctx, m.ID, matchID)
	require.NoError(t, err)
	assert.Equal(t, "framing", item.PostName)

	_, err = f.svc.GetMemberMatch(ctx, other.ID, matchID)
	assert.ErrorIs(t, err, recModel.ErrRecommendationNotFound)
}

func TestRespond(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	m := f.careerMember(t, 1, "kim")
	worker := f.careerMember(t, 2, "lee")
	team := f.seed.Team(m.ID, "rebar crew", worker.ID)

	page, err := f.svc.ListForMember(ctx, m.ID, "", pagination.Params{})
	require.NoError(t, err)
	framing, rebar := page.Data[0], page.Data[1]

	t.Run("refuse is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			res, err := f.svc.Refuse(ctx, m.ID, rebar.MatchID)
			require.NoError(t, err)
			assert.True(t, res.IsRefuse)
		}

		var entry recModel.Recommendation
		require.NoError(t, f.db.First(&entry, rebar.MatchID).Error)
		assert.True(t, entry.IsRefuse)
	})

	t.Run("interest toggles without touching the entry", func(t *testing.T) {
		on, err := f.svc.MarkInterested(ctx, m.ID, framing.MatchID)
		require.NoError(t, err)
		assert.True(t, on.IsInterested)

		off, err := f.svc.MarkInterested(ctx, m.ID, framing.MatchID)
		require.NoError(t, err)
		assert.False(t, off.IsInterested)

		var entry recModel.Recommendation
		require.NoError(t, f.db.First(&entry, framing.MatchID).Error)
		assert.False(t, entry.IsRefuse)
	})

	t.Run("apply individually then duplicate", func(t *testing.T) {
		res, err := f.svc.ApplyIndividual(ctx, m.ID, framing.MatchID)
		require.NoError(t, err)
		assert.Equal(t, applicant.KindIndividual, res.ApplicantType)

		_, err = f.svc.ApplyIndividual(ctx, m.ID, framing.MatchID)
		assert.ErrorIs(t, err, applicationModel.ErrApplicationExists)
	})

	t.Run("apply as team", func(t *testing.T) {
		res, err := f.svc.ApplyAsTeam(ctx, m.ID, framing.MatchID, team.ID)
		require.NoError(t, err)
		assert.Equal(t, applicant.KindTeam, res.ApplicantType)
		assert.Equal(t, team.ID, res.ApplicantID)
	})

	t.Run("foreign match", func(t *testing.T) {
		_, err := f.svc.Refuse(ctx, worker.ID, framing.MatchID)
		assert.ErrorIs(t, err, recModel.ErrRecommendationNotFound)
	})

	t.Run("non leader team apply", func(t *testing.T) {
		workerPage, err := f.svc.ListForMember(ctx, worker.ID, "", pagination.Params{})
		require.NoError(t, err)

		_, err = f.svc.ApplyAsTeam(ctx, worker.ID, workerPage.Data[0].MatchID, team.ID)
		assert.ErrorIs(t, err, teamModel.ErrNotTeamLeader)
	})

	t.Run("closed post", func(t *testing.T) {
		f.clock.Set(time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
		defer f.clock.Set(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

		_, err := f.svc.ApplyIndividual(ctx, m.ID, rebar.MatchID)
		assert.ErrorIs(t, err, applicationModel.ErrPostClosed)
	})
}

func TestListForCompany(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	kim := f.careerMember(t, 1, "kim")
	lee := f.careerMember(t, 2, "lee")
	team := f.seed.Team(kim.ID, "rebar crew")

	t.Run("today generates", func(t *testing.T) {
		page, err := f.svc.ListForCompany(ctx, f.company.ID, 0, pagination.Params{})
		require.NoError(t, err)
		require.Len(t, page.Data, 3)

		assert.Equal(t, applicant.KindIndividual, page.Data[0].ApplicantType)
		assert.Equal(t, "kim", page.Data[0].ApplicantName)
		assert.Equal(t, "framing", page.Data[0].PostName)
		assert.Equal(t, lee.ID, page.Data[1].ApplicantID)
		assert.Equal(t, "rebar", page.Data[1].PostName)
		assert.Equal(t, applicant.KindTeam, page.Data[2].ApplicantType)
		assert.Equal(t, team.ID, page.Data[2].ApplicantID)
		assert.Equal(t, "rebar crew", page.Data[2].ApplicantName)
	})

	t.Run("history is never backfilled", func(t *testing.T) {
		before := f.countBatches(t)
		page, err := f.svc.ListForCompany(ctx, f.company.ID, 3, pagination.Params{})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.Equal(t, before, f.countBatches(t))
	})

	t.Run("yesterday after a day passes", func(t *testing.T) {
		f.clock.Set(time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))
		defer f.clock.Set(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

		page, err := f.svc.ListForCompany(ctx, f.company.ID, 1, pagination.Params{})
		require.NoError(t, err)
		assert.Len(t, page.Data, 3)
		assert.Equal(t, "2025-03-01", page.Data[0].AssignedOn)
	})

	t.Run("offset out of range", func(t *testing.T) {
		_, err := f.svc.ListForCompany(ctx, f.company.ID, 31, pagination.Params{})
		assert.ErrorIs(t, err, matchingModel.ErrInvalidDateOffset)

		_, err = f.svc.ListForCompany(ctx, f.company.ID, -1, pagination.Params{})
		assert.ErrorIs(t, err, matchingModel.ErrInvalidDateOffset)
	})
}

func TestListings_DeletedPost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	kim := f.careerMember(t, 1, "kim")
	f.careerMember(t, 2, "lee")

	_, err := f.svc.ListForMember(ctx, kim.ID, "", pagination.Params{})
	require.NoError(t, err)
	_, err = f.svc.ListForCompany(ctx, f.company.ID, 0, pagination.Params{})
	require.NoError(t, err)

	rebar := f.posts[1]
	require.NoError(t, f.db.Delete(&postModel.Post{}, rebar.ID).Error)

	t.Run("member", func(t *testing.T) {
		page, err := f.svc.ListForMember(ctx, kim.ID, "", pagination.Params{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Meta.Total)
		require.Len(t, page.Data, 2)
		for _, item := range page.Data {
			assert.NotEqual(t, rebar.ID, item.PostID)
		}
	})

	t.Run("company", func(t *testing.T) {
		page, err := f.svc.ListForCompany(ctx, f.company.ID, 0, pagination.Params{})
		require.NoError(t, err)
		assert.Equal(t, page.Meta.Total, int64(len(page.Data)))
		for _, item := range page.Data {
			assert.NotEqual(t, rebar.ID, item.PostID)
			assert.NotEmpty(t, item.PostName)
		}
	})
}
