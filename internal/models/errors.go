package models

import "errors"

// Domain errors surfaced to handlers. Repositories and services return these
// (possibly wrapped) so callers can branch with errors.Is.
var (
	// ErrDuplicateReference means a submitted RRR or PayDirect reference
	// already exists on another entry. The storage unique constraint is the
	// authoritative guard; the service pre-check only gives a friendlier
	// message ahead of the insert.
	ErrDuplicateReference = errors.New("payment reference already used")

	// ErrEntryVerified rejects deletion of an entry with a verified channel.
	ErrEntryVerified = errors.New("cannot delete a verified entry")

	// ErrVerificationUnavailable means the external payment verifier could
	// not be reached or timed out. Submissions fail with this error rather
	// than being silently recorded as unverified.
	ErrVerificationUnavailable = errors.New("payment verification unavailable")

	// ErrSelfDelete rejects an admin deleting their own account.
	ErrSelfDelete = errors.New("cannot delete your own account")

	// ErrUsernameTaken rejects creating a user with an existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrUserHasEntries rejects deleting a user who still owns tax entries.
	// Entries are the audit trail; reassign or delete them first.
	ErrUserHasEntries = errors.New("user still has tax entries")

	ErrNotFound = errors.New("not found")
)
