package services

import "errors"

// Domain errors shared across services. Handlers translate these to HTTP
// status codes; everything else surfaces as a 500.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrAlreadyProcessed  = errors.New("transaction already processed")
	ErrUpstream          = errors.New("upstream provider unavailable")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
)
