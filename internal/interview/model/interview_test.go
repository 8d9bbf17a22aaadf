package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/workmatch/internal/applicant"
)

func TestInterview_TableName(t *testing.T) {
	assert.Equal(t, "interviews", Interview{}.TableName())
}

func TestSupportCategory_Valid(t *testing.T) {
	assert.True(t, CategoryMatching.Valid())
	assert.True(t, CategoryHeadhunting.Valid())
	assert.False(t, SupportCategory("REFERRAL").Valid())
}

func TestApplicantQuery_Applicant(t *testing.T) {
	q := ApplicantQuery{ApplicantID: 3, Object: applicant.KindIndividual}
	a, err := q.Applicant()
	require.NoError(t, err)
	assert.Equal(t, applicant.Individual(3), a)

	_, err = ApplicantQuery{ApplicantID: 3, Object: "GROUP"}.Applicant()
	assert.ErrorIs(t, err, applicant.ErrInvalid)
}
