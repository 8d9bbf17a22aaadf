package model

import "errors"

var (
	// ErrPostNotFound is returned when a post does not exist or was deleted.
	ErrPostNotFound = errors.New("post not found")
	// ErrCompanyNotFound is returned when a company does not exist.
	ErrCompanyNotFound = errors.New("company not found")
)
