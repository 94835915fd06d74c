package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidVersion        = errors.New("invalid version")
	ErrInvalidRequest        = errors.New("invalid version or release type")
	ErrNotGreaterThanCurrent = errors.New("version number must be greater than the current version")
	ErrNoBaseVersion         = errors.New("no version can be found and therefore it cannot be bumped")
	ErrNotSynchronized       = errors.New("local repository is not in sync with its remote")
	ErrRepositoryQueryFailed = errors.New("repository query failed")
	ErrTagConflict           = errors.New("tag already exists on the remote")
	ErrSessionNotFound       = errors.New("publish session not found")
)

// SyncError reports a refused tag together with the branch that was checked.
type SyncError struct {
	Branch  string
	Details string
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("cannot tag as your local repository is not in sync with its remote '%s' branch", e.Branch)
}

func (e *SyncError) Unwrap() error {
	return ErrNotSynchronized
}

// QueryError wraps a failed repository operation.
func QueryError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRepositoryQueryFailed, op, err)
}
