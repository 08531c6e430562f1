package domain

import "errors"

var (
	ErrInvalidStatus  = errors.New("invalid job status")
	ErrInvalidJobType = errors.New("invalid preferred job type")
)
