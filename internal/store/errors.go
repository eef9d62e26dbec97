package store

import "errors"

var (
	// ErrNotFound means no record with the requested id exists. It is a
	// normal outcome, never a medium failure.
	ErrNotFound = errors.New("record not found")

	// ErrStorageUnavailable wraps every failure of the underlying medium.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCorruptTable means the stored value is not a JSON list of records.
	ErrCorruptTable = errors.New("corrupt table data")

	ErrSchemaTooNew = errors.New("stored schema version is newer than supported")
)
