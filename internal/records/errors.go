package records

import "errors"

// Every operation fails with exactly one of these; callers branch with
// errors.Is. Failures are terminal, there is no retry or partial success.
var (
	ErrNotAuthorized     = errors.New("not authorized")
	ErrAlreadyActive     = errors.New("already active")
	ErrNotActive         = errors.New("not active")
	ErrAlreadyRedeemed   = errors.New("already redeemed")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrNotFound          = errors.New("not found")
	ErrInvalidSemester   = errors.New("invalid semester")
)
