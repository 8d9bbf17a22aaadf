package model

import "errors"

var (
	// ErrPostNotOwned is returned when the post does not belong to the calling company.
	ErrPostNotOwned = errors.New("post does not belong to company")
	// ErrNotRecommended is returned when a headhunting target was never recommended for the post.
	ErrNotRecommended = errors.New("applicant was not recommended for post")
	// ErrApplicantNotFound is returned when the member or team does not exist.
	ErrApplicantNotFound = errors.New("applicant not found")
	// ErrInvalidRequest is returned for malformed proposal parameters.
	ErrInvalidRequest = errors.New("invalid interview request")
)
