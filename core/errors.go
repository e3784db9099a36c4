package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFields is returned when a required request field is empty or malformed.
	ErrMissingFields = errors.New("missing required fields")
	// ErrNameTaken is returned when a registration collides with an existing user name.
	ErrNameTaken = errors.New("name already registered")
	// ErrUnknownCredentials is returned when no user matches a sign-in attempt.
	ErrUnknownCredentials = errors.New("unknown credentials")
	// ErrNoSession is returned when a token has no registry entry.
	ErrNoSession = errors.New("no such session")
	// ErrNoUser is returned when an account operation targets a missing user.
	ErrNoUser = errors.New("no such user")
	// ErrTaskNotFound is returned when a task does not exist or is owned by someone else.
	// The two cases are deliberately indistinguishable.
	ErrTaskNotFound = errors.New("task not found")
	// ErrStoreIntegrity is returned when the store produces a result that violates
	// a declared invariant, e.g. more than one row for a unique credential match.
	ErrStoreIntegrity = errors.New("store integrity violation")
	// ErrStoreUnavailable wraps any store communication or query fault.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeFault maps an arbitrary store error onto ErrStoreUnavailable while
// keeping the cause in the message for logs.
func storeFault(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
