// Package applicant defines who can apply to a post: a single member or a team.
package applicant

import (
	"errors"
	"fmt"
)

// Kind is the persisted discriminator of an Applicant.
type Kind string

const (
	// KindIndividual is a single member.
	KindIndividual Kind = "INDIVIDUAL"
	// KindTeam is a team, represented by its leader when acting.
	KindTeam Kind = "TEAM"
)

// ErrInvalid is returned when a kind/id pair does not form an applicant.
var ErrInvalid = errors.New("invalid applicant")

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIndividual || k == KindTeam
}

// ParseKind parses the wire form of a kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalid, s)
	}
	return k, nil
}

// Applicant is either Individual(memberID) or Team(teamID). The zero value
// is not a valid applicant; use the constructors.
type Applicant struct {
	kind Kind
	id   int64
}

// Individual returns the applicant for a member.
func Individual(memberID int64) Applicant {
	return Applicant{kind: KindIndividual, id: memberID}
}

// Team returns the applicant for a team.
func Team(teamID int64) Applicant {
	return Applicant{kind: KindTeam, id: teamID}
}

// FromColumns rebuilds an Applicant from its persisted columns.
func FromColumns(kind Kind, id int64) (Applicant, error) {
	if !kind.Valid() || id <= 0 {
		return Applicant{}, fmt.Errorf("%w: %s/%d", ErrInvalid, kind, id)
	}
	return Applicant{kind: kind, id: id}, nil
}

// Kind returns the discriminator.
func (a Applicant) Kind() Kind { return a.kind }

// ID returns the member or team id.
func (a Applicant) ID() int64 { return a.id }

// IsZero reports whether a was never constructed.
func (a Applicant) IsZero() bool { return a.kind == "" }

// MemberID returns the member id for an individual applicant.
func (a Applicant) MemberID() (int64, bool) {
	return a.id, a.kind == KindIndividual
}

// TeamID returns the team id for a team applicant.
func (a Applicant) TeamID() (int64, bool) {
	return a.id, a.kind == KindTeam
}

// String implements fmt.Stringer.
func (a Applicant) String() string {
	if a.IsZero() {
		return "applicant(none)"
	}
	return fmt.Sprintf("%s:%d", a.kind, a.id)
}
