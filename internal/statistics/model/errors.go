package model

import "errors"

// ErrInvalidDay is returned when the day parameter is not YYYY-MM-DD.
var ErrInvalidDay = errors.New("invalid day")
