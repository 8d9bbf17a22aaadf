package model

import "errors"

var (
	// ErrNoCareer is returned when a member without work history asks for matches.
	ErrNoCareer = errors.New("member has no career")
	// ErrInvalidCategory is returned for an unknown member list category.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidDateOffset is returned when a company browses outside the history window.
	ErrInvalidDateOffset = errors.New("invalid date offset")
)
