package service

import (
	"context"
	"fmt"
	"time"

	"github.com/festy23/workmatch/internal/applicant"
	"github.com/festy23/workmatch/internal/clock"
	matchingModel "github.com/festy23/workmatch/internal/matching/model"
	recModel "github.com/festy23/workmatch/internal/recommendation/model"
	"github.com/festy23/workmatch/pkg/pagination"
)

// ListForMember lists the member's recommended posts for a category.
//
// Today's batch is generated on first access, so every category sees it.
func (s *service) ListForMember(
	ctx context.Context,
	memberID int64,
	category string,
	page pagination.Params,
) (*pagination.Page[matchingModel.MemberMatchItem], error) {
	cat, ok := recModel.ParseCategory(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", matchingModel.ErrInvalidCategory, category)
	}
	page, err := s.normalize(page)
	if err != nil {
		return nil, err
	}

	s.logger.Debugw("Listing member matches", "member_id", memberID, "category", cat, "page", page.Page)

	hasCareer, err := s.members.HasCareer(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !hasCareer {
		return nil, matchingModel.ErrNoCareer
	}

	batch, err := s.assigner.EnsureDaily(ctx, recModel.MemberActor(memberID))
	if err != nil {
		return nil, err
	}

	applicants, err := s.memberApplicants(ctx, memberID)
	if err != nil {
		return nil, err
	}

	filter := recModel.MemberFilter{MemberID: memberID, Category: cat, Day: batch.Day}
	if cat == recModel.CategoryApplication {
		filter.AppliedPostIDs, err = s.applications.AppliedPostIDs(ctx, applicants, nil)
		if err != nil {
			return nil, err
		}
	}

	entries, total, err := s.entries.ListMemberEntries(ctx, filter, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}

	items, err := s.memberItems(ctx, memberID, applicants, batch.Day, entries)
	if err != nil {
		return nil, err
	}

	result := pagination.New(items, page, total)
	return &result, nil
}

// GetMemberMatch returns one of the member's recommended posts.
func (s *service) GetMemberMatch(ctx context.Context, memberID, matchID int64) (*matchingModel.MemberMatchItem, error) {
	entry, err := s.entries.GetMemberEntry(ctx, memberID, matchID)
	if err != nil {
		return nil, err
	}
	applicants, err := s.memberApplicants(ctx, memberID)
	if err != nil {
		return nil, err
	}

	items, err := s.memberItems(ctx, memberID, applicants, s.assigner.Today(), []recModel.Recommendation{*entry})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, recModel.ErrRecommendationNotFound
	}
	return &items[0], nil
}

// memberApplicants returns the member together with every team it leads.
func (s *service) memberApplicants(ctx context.Context, memberID int64) ([]applicant.Applicant, error) {
	teamIDs, err := s.teams.LedTeamIDs(ctx, memberID)
	if err != nil {
		return nil, err
	}
	applicants := make([]applicant.Applicant, 0, len(teamIDs)+1)
	applicants = append(applicants, applicant.Individual(memberID))
	for _, id := range teamIDs {
		applicants = append(applicants, applicant.Team(id))
	}
	return applicants, nil
}

// memberItems joins entries with post details and read-time flags. Entries
// whose post is gone are dropped.
func (s *service) memberItems(
	ctx context.Context,
	memberID int64,
	applicants []applicant.Applicant,
	today string,
	entries []recModel.Recommendation,
) ([]matchingModel.MemberMatchItem, error) {
	if len(entries) == 0 {
		return []matchingModel.MemberMatchItem{}, nil
	}

	postIDs := make([]int64, 0, len(entries))
	for _, e := range entries {
		postIDs = append(postIDs, e.PostID)
	}

	details, err := s.posts.GetPostDetails(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	interested, err := s.members.InterestedPostIDs(ctx, memberID, postIDs)
	if err != nil {
		return nil, err
	}
	appliedIDs, err := s.applications.AppliedPostIDs(ctx, applicants, postIDs)
	if err != nil {
		return nil, err
	}
	applied := make(map[int64]bool, len(appliedIDs))
	for _, id := range appliedIDs {
		applied[id] = true
	}

	items := make([]matchingModel.MemberMatchItem, 0, len(entries))
	for _, e := range entries {
		d, ok := details[e.PostID]
		if !ok {
			continue
		}
		items = append(items, matchingModel.MemberMatchItem{
			MatchID:       e.ID,
			PostID:        e.PostID,
			PostName:      d.Post.Name,
			Occupation:    d.Post.Occupation,
			SiteName:      d.Site.Name,
			SiteAddress:   d.Site.Address,
			CompanyName:   d.Company.Name,
			CompanyLogo:   d.Company.LogoURL,
			StartDate:     d.Post.StartDate,
			EndDate:       d.Post.EndDate,
			AssignedOn:    e.AssignedOn,
			IsRefuse:      e.IsRefuse,
			IsClosed:      d.Post.ClosedOn(today),
			IsApplication: applied[e.PostID],
			IsInterested:  interested[e.PostID],
		})
	}
	return items, nil
}

// ListForCompany lists applicants recommended to the company.
//
// Offset 0 is today and triggers generation. Past days only show what was
// generated then; missing history is never backfilled.
func (s *service) ListForCompany(
	ctx context.Context,
	companyID int64,
	dateOffset int,
	page pagination.Params,
) (*pagination.Page[matchingModel.CompanyMatchItem], error) {
	if maxOffset := s.cfg.Get().MaxDateOffset; dateOffset < 0 || dateOffset > maxOffset {
		return nil, fmt.Errorf("%w: %d not in [0, %d]", matchingModel.ErrInvalidDateOffset, dateOffset, maxOffset)
	}
	page, err := s.normalize(page)
	if err != nil {
		return nil, err
	}

	s.logger.Debugw("Listing company matches", "company_id", companyID, "date_offset", dateOffset, "page", page.Page)

	var day string
	if dateOffset == 0 {
		batch, err := s.assigner.EnsureDaily(ctx, recModel.CompanyActor(companyID))
		if err != nil {
			return nil, err
		}
		day = batch.Day
	} else {
		today, err := clock.ParseDay(s.assigner.Today(), time.UTC)
		if err != nil {
			return nil, err
		}
		day = today.AddDate(0, 0, -dateOffset).Format(clock.DayLayout)
	}

	entries, total, err := s.entries.ListCompanyEntries(ctx, companyID, day, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}

	items, err := s.companyItems(ctx, entries)
	if err != nil {
		return nil, err
	}

	result := pagination.New(items, page, total)
	return &result, nil
}

func (s *service) companyItems(
	ctx context.Context,
	entries []recModel.Recommendation,
) ([]matchingModel.CompanyMatchItem, error) {
	if len(entries) == 0 {
		return []matchingModel.CompanyMatchItem{}, nil
	}

	var postIDs, memberIDs, teamIDs []int64
	for _, e := range entries {
		postIDs = append(postIDs, e.PostID)
		switch e.ApplicantType {
		case applicant.KindIndividual:
			memberIDs = append(memberIDs, e.ApplicantID)
		case applicant.KindTeam:
			teamIDs = append(teamIDs, e.ApplicantID)
		}
	}

	details, err := s.posts.GetPostDetails(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	memberNames, err := s.members.GetNames(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	teamNames, err := s.teams.TeamNames(ctx, teamIDs)
	if err != nil {
		return nil, err
	}

	items := make([]matchingModel.CompanyMatchItem, 0, len(entries))
	for _, e := range entries {
		d, ok := details[e.PostID]
		if !ok {
			continue
		}
		name := memberNames[e.ApplicantID]
		if e.ApplicantType == applicant.KindTeam {
			name = teamNames[e.ApplicantID]
		}
		items = append(items, matchingModel.CompanyMatchItem{
			MatchID:       e.ID,
			PostID:        e.PostID,
			PostName:      d.Post.Name,
			ApplicantType: e.ApplicantType,
			ApplicantID:   e.ApplicantID,
			ApplicantName: name,
			AssignedOn:    e.AssignedOn,
		})
	}
	return items, nil
}
