package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoEntitlement   = errors.New("no entitlement available")
	ErrOutputTooLarge  = errors.New("output file exceeds size ceiling")
	ErrPipelineFailed  = errors.New("look transfer pipeline failed")
	ErrNoSession       = errors.New("no effects session in progress")
)
