package repository

import "errors"

var (
	// ErrNotFound is returned when the record referenced by id does not exist
	ErrNotFound = errors.New("repository: record not found")

	// ErrWrite is returned when the store rejected an insert, update or delete
	ErrWrite = errors.New("repository: write failed")

	// ErrUnavailable is returned when the store could not be read
	ErrUnavailable = errors.New("repository: data unavailable")

	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("repository: duplicate key")
)
