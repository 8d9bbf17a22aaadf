package model

import "errors"

var (
	// ErrApplicationExists is returned when the applicant already has an application for the post.
	ErrApplicationExists = errors.New("application already exists")
	// ErrPostClosed is returned when the post's end date has passed.
	ErrPostClosed = errors.New("post is closed")
)
