// Package service implements the EduCert core: the account factory, the
// per-institution accounts, the course manager, and the certificate registry.
// Each service owns its aggregate's state exclusively and serializes mutations
// behind a mutex, so every command either commits fully or not at all.
package service

import "errors"

// Kind classifies a command failure.
type Kind int

const (
	// KindAuthorization means the caller is not the required
	// owner/proprietor/creator.
	KindAuthorization Kind = iota
	// KindValidation means an argument failed a static check (empty name,
	// non-positive duration, missing address, no-op transfer).
	KindValidation
	// KindStateConflict means the operation is illegal in the entity's current
	// state (double creation, double enrollment, inactive entity, paused
	// factory).
	KindStateConflict
	// KindNotFound means the referenced account/course/creator/enrollment does
	// not exist.
	KindNotFound
)

// Error is the failure type returned by every command operation. Reason is the
// caller-facing explanation of which invariant was violated; it is the core's
// entire error reporting channel.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func authorization(reason string) *Error {
	return &Error{Kind: KindAuthorization, Reason: reason}
}

func validation(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func conflict(reason string) *Error {
	return &Error{Kind: KindStateConflict, Reason: reason}
}

func notFound(reason string) *Error {
	return &Error{Kind: KindNotFound, Reason: reason}
}

// KindOf extracts the failure kind from err. The second return value is false
// for errors that did not originate from a core invariant check.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
