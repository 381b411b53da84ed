package core

import "errors"

var (
	ErrNoRows          = errors.New("payload has no rows")
	ErrMissingColumn   = errors.New("required column missing")
	ErrUnknownPayload  = errors.New("unknown payload shape")
	ErrInvalidTheme    = errors.New("unknown theme name")
	ErrEmptyDimensions = errors.New("container has no drawable area")
)
