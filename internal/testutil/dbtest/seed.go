package dbtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/festy23/workmatch/internal/applicant"
	applicationModel "github.com/festy23/workmatch/internal/application/model"
	memberModel "github.com/festy23/workmatch/internal/member/model"
	postModel "github.com/festy23/workmatch/internal/post/model"
	recommendationModel "github.com/festy23/workmatch/internal/recommendation/model"
	teamModel "github.com/festy23/workmatch/internal/team/model"
)

// Seeder inserts fixtures and fails the test on error.
type Seeder struct {
	t  testing.TB
	db *gorm.DB
}

// NewSeeder returns a Seeder for db.
func NewSeeder(t testing.TB, db *gorm.DB) *Seeder {
	return &Seeder{t: t, db: db}
}

func (s *Seeder) create(v interface{}) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(v).Error)
}

// Company inserts a company owned by accountID.
func (s *Seeder) Company(accountID int64, name string) postModel.Company {
	s.t.Helper()
	c := postModel.Company{AccountID: accountID, Name: name, LogoURL: "https://cdn.example/" + name + ".png"}
	s.create(&c)
	return c
}

// Site inserts a site of a company.
func (s *Seeder) Site(companyID int64, name string) postModel.Site {
	s.t.Helper()
	site := postModel.Site{CompanyID: companyID, Name: name, Address: name + " street 1"}
	s.create(&site)
	return site
}

// Post inserts a post running from start to end.
func (s *Seeder) Post(companyID, siteID int64, name string, start, end time.Time) postModel.Post {
	s.t.Helper()
	p := postModel.Post{
		CompanyID:  companyID,
		SiteID:     siteID,
		Name:       name,
		Occupation: "carpenter",
		StartDate:  start,
		EndDate:    end,
	}
	s.create(&p)
	return p
}

// Member inserts a member owned by accountID.
func (s *Seeder) Member(accountID int64, name string) memberModel.Member {
	s.t.Helper()
	m := memberModel.Member{AccountID: accountID, Name: name, Contact: "010-0000-0000", BirthYear: 1990}
	s.create(&m)
	return m
}

// Career inserts a career row.
func (s *Seeder) Career(memberID int64, occupation string, years, months int) memberModel.Career {
	s.t.Helper()
	c := memberModel.Career{MemberID: memberID, Occupation: occupation, Years: years, Months: months}
	s.create(&c)
	return c
}

// Certificate inserts a certificate row.
func (s *Seeder) Certificate(memberID int64, name string) {
	s.t.Helper()
	s.create(&memberModel.Certificate{MemberID: memberID, Name: name})
}

// License inserts a license row.
func (s *Seeder) License(memberID int64, name string) {
	s.t.Helper()
	s.create(&memberModel.License{MemberID: memberID, Name: name})
}

// Team inserts an active team led by leaderID with active members, keeping
// total_members consistent.
func (s *Seeder) Team(leaderID int64, name string, memberIDs ...int64) teamModel.Team {
	s.t.Helper()
	team := teamModel.Team{
		Name:         name,
		LeaderID:     leaderID,
		TotalMembers: len(memberIDs) + 1,
		Status:       teamModel.StatusActive,
	}
	s.create(&team)
	for _, id := range memberIDs {
		s.create(&teamModel.MembersOnTeams{MemberID: id, TeamID: team.ID, IsActive: true})
	}
	return team
}

// Membership inserts a membership row without touching total_members.
func (s *Seeder) Membership(teamID, memberID int64, active bool) {
	s.t.Helper()
	s.create(&teamModel.MembersOnTeams{MemberID: memberID, TeamID: teamID, IsActive: active})
}

// Invitation inserts an invitation in the given status.
func (s *Seeder) Invitation(teamID, memberID int64, status teamModel.InvitationStatus) teamModel.TeamMemberInvitation {
	s.t.Helper()
	inv := teamModel.TeamMemberInvitation{
		TeamID:           teamID,
		MemberID:         memberID,
		InvitationStatus: status,
		IsActive:         true,
	}
	s.create(&inv)
	return inv
}

// Batch inserts a batch for actor on day with one entry per candidate.
func (s *Seeder) Batch(
	actor recommendationModel.Actor,
	day string,
	candidates ...recommendationModel.Candidate,
) (recommendationModel.Batch, []recommendationModel.Recommendation) {
	s.t.Helper()
	batch := recommendationModel.Batch{
		ID:         seq.Add(1),
		ActorType:  actor.Type,
		ActorID:    actor.ID,
		AssignedOn: day,
	}
	s.create(&batch)

	entries := make([]recommendationModel.Recommendation, 0, len(candidates))
	for i, c := range candidates {
		entry := recommendationModel.Recommendation{
			ID:            seq.Add(1),
			BatchID:       batch.ID,
			ActorType:     actor.Type,
			ActorID:       actor.ID,
			AssignedOn:    day,
			ApplicantType: c.Applicant.Kind(),
			ApplicantID:   c.Applicant.ID(),
			PostID:        c.PostID,
			SortOrder:     i,
		}
		s.create(&entry)
		entries = append(entries, entry)
	}
	return batch, entries
}

// Application inserts an application row.
func (s *Seeder) Application(a applicant.Applicant, postID int64, status applicationModel.Status) applicationModel.Application {
	s.t.Helper()
	app := applicationModel.NewApplication(seq.Add(1), a, postID, status, time.Now())
	s.create(app)
	return *app
}
