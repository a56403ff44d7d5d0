package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrGateway            = errors.New("payment gateway request failed")
	ErrSignatureMismatch  = errors.New("payment signature mismatch")
	ErrCompletionReplayed = errors.New("payment completion already consumed")
	ErrSettlement         = errors.New("settlement call failed after verified payment")
	ErrCheckoutDismissed  = errors.New("checkout dismissed by user")
	ErrUnauthorized       = errors.New("missing or invalid credentials")
)
