package common

import "errors"

var (
	ErrorInvalidValue    = errors.New("invalid value")
	ErrorInvalidEpsilon  = errors.New("epsilon must be positive and finite")
	ErrorUnknownAction   = errors.New("unknown action")
	ErrorUnknownView     = errors.New("unknown view")
	ErrorSessionNotFound = errors.New("session not found")
)
