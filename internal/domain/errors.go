package domain

import "errors"

// Sentinel errors shared between repositories and services. Handlers map them
// onto user-facing result messages; they never leak to the HTTP layer raw.
var (
	ErrBidNotFound      = errors.New("bid not found")
	ErrBidClosed        = errors.New("bid already closed")
	ErrAlreadyResponded = errors.New("courier already responded to this bid")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmptyMessage     = errors.New("empty message")
)
