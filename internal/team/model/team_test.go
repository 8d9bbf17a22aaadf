package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "teams", Team{}.TableName())
	assert.Equal(t, "members_on_teams", MembersOnTeams{}.TableName())
	assert.Equal(t, "team_member_invitations", TeamMemberInvitation{}.TableName())
}

func TestInvitationStatus(t *testing.T) {
	tests := []struct {
		status   InvitationStatus
		valid    bool
		terminal bool
	}{
		{InvitationWaiting, true, false},
		{InvitationAccepted, true, true},
		{InvitationDeclined, true, true},
		{"EXPIRED", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.Terminal())
		})
	}
}
