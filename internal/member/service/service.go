// Package service provides business logic for the member read model.
package service

import (
	"context"

	"go.uber.org/zap"

	memberModel "github.com/festy23/workmatch/internal/member/model"
	"github.com/festy23/workmatch/internal/member/repository"
)

// Service defines member operations.
type Service interface {
	// GetProfile builds the full profile of a member.
	GetProfile(ctx context.Context, memberID int64) (*memberModel.Profile, error)

	// GetProfiles builds profiles for memberIDs in the given order, skipping
	// unknown members.
	GetProfiles(ctx context.Context, memberIDs []int64) ([]memberModel.Profile, error)

	// GetNames returns display names keyed by member id.
	GetNames(ctx context.Context, memberIDs []int64) (map[int64]string, error)

	// HasCareer reports whether the member declared any work history.
	HasCareer(ctx context.Context, memberID int64) (bool, error)

	// ToggleInterest flips the member's interest in a post.
	ToggleInterest(ctx context.Context, memberID, postID int64) (*memberModel.InterestState, error)

	// InterestedPostIDs returns which of postIDs the member is interested in.
	InterestedPostIDs(ctx context.Context, memberID int64, postIDs []int64) (map[int64]bool, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new member service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, logger: logger}
}

// GetProfile builds the full profile of a member.
func (s *service) GetProfile(ctx context.Context, memberID int64) (*memberModel.Profile, error) {
	if _, err := s.repo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}
	profiles, err := s.GetProfiles(ctx, []int64{memberID})
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, memberModel.ErrMemberNotFound
	}
	return &profiles[0], nil
}

// GetProfiles builds profiles for memberIDs in the given order.
func (s *service) GetProfiles(ctx context.Context, memberIDs []int64) ([]memberModel.Profile, error) {
	members, err := s.repo.GetByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	careers, err := s.repo.ListCareers(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	certs, err := s.repo.ListCertificates(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	licenses, err := s.repo.ListLicenses(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	careersByMember := make(map[int64][]memberModel.Career)
	for _, c := range careers {
		careersByMember[c.MemberID] = append(careersByMember[c.MemberID], c)
	}
	certsByMember := make(map[int64][]string)
	for _, c := range certs {
		certsByMember[c.MemberID] = append(certsByMember[c.MemberID], c.Name)
	}
	licensesByMember := make(map[int64][]string)
	for _, l := range licenses {
		licensesByMember[l.MemberID] = append(licensesByMember[l.MemberID], l.Name)
	}

	profiles := make([]memberModel.Profile, 0, len(memberIDs))
	for _, id := range memberIDs {
		m, ok := members[id]
		if !ok {
			continue
		}

		items := make([]memberModel.CareerItem, 0, len(careersByMember[id]))
		for _, c := range careersByMember[id] {
			items = append(items, memberModel.CareerItem{Occupation: c.Occupation, Years: c.Years, Months: c.Months})
		}

		profiles = append(profiles, memberModel.Profile{
			MemberID:              m.ID,
			Name:                  m.Name,
			Contact:               m.Contact,
			BirthYear:             m.BirthYear,
			HealthSafetyCertified: m.HealthSafetyCertified,
			Careers:               items,
			Certificates:          nonNil(certsByMember[id]),
			Licenses:              nonNil(licensesByMember[id]),
			TotalExperience:       memberModel.TotalExperience(careersByMember[id]),
		})
	}
	return profiles, nil
}

// GetNames returns display names keyed by member id.
func (s *service) GetNames(ctx context.Context, memberIDs []int64) (map[int64]string, error) {
	members, err := s.repo.GetByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(members))
	for id, m := range members {
		names[id] = m.Name
	}
	return names, nil
}

// HasCareer reports whether the member declared any work history.
func (s *service) HasCareer(ctx context.Context, memberID int64) (bool, error) {
	count, err := s.repo.CountCareers(ctx, memberID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ToggleInterest flips the member's interest in a post.
func (s *service) ToggleInterest(ctx context.Context, memberID, postID int64) (*memberModel.InterestState, error) {
	interested, err := s.repo.ToggleInterest(ctx, memberID, postID)
	if err != nil {
		s.logger.Errorw("Failed to toggle interest", "member_id", memberID, "post_id", postID, "error", err)
		return nil, err
	}

	s.logger.Infow("Interest toggled", "member_id", memberID, "post_id", postID, "is_interested", interested)
	return &memberModel.InterestState{PostID: postID, IsInterested: interested}, nil
}

// InterestedPostIDs returns which of postIDs the member is interested in.
func (s *service) InterestedPostIDs(ctx context.Context, memberID int64, postIDs []int64) (map[int64]bool, error) {
	return s.repo.InterestedPostIDs(ctx, memberID, postIDs)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
