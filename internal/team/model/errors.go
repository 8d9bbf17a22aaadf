package model

import "errors"

var (
	// ErrTeamNotFound indicates that the requested team does not exist or is not active.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInvitationNotFound indicates a missing, inactive or foreign invitation.
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationAccepted indicates the invitation was already accepted.
	ErrInvitationAccepted = errors.New("invitation already accepted")
	// ErrInvitationDeclined indicates the invitation was already declined.
	ErrInvitationDeclined = errors.New("invitation already declined")
	// ErrAlreadyMember indicates the member already holds an active membership.
	ErrAlreadyMember = errors.New("member already belongs to a team")
	// ErrNotTeamLeader indicates the caller does not lead the team.
	ErrNotTeamLeader = errors.New("caller is not the team leader")
	// ErrInvalidStatus indicates an unknown invitation status filter.
	ErrInvalidStatus = errors.New("invalid invitation status")
)

// ErrMembershipNotFound is returned when no membership row exists for a member and team.
var ErrMembershipNotFound = errors.New("membership not found")
