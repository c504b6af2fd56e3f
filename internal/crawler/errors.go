package crawler

import (
	"errors"
	"fmt"

	githubapi "github.com/boushrabettir/ginder-backend/internal/github_api"
)

var (
	ErrRemoteFetchFailed      = errors.New("remote fetch failed")
	ErrNullResponse           = errors.New("remote call returned no usable body")
	ErrInsufficientVocabulary = errors.New("not enough languages left to complete the query")
	ErrInsertionFailed        = errors.New("insertion failed")
	ErrUpdateFailed           = errors.New("update failed")
	ErrDeletionFailed         = errors.New("deletion failed")
)

// FetchError is a failed call to the source, tagged with what was being fetched.
type FetchError struct {
	Op      string
	Subject string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Op, e.Subject, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrRemoteFetchFailed:
		return true
	case ErrNullResponse:
		return errors.Is(e.Err, githubapi.ErrEmptyBody)
	}
	return false
}

const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// StoreError is a failed catalog write for one project.
type StoreError struct {
	Op        string
	ProjectID int64
	Field     string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s project %d field %s: %v", e.Op, e.ProjectID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s project %d: %v", e.Op, e.ProjectID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	switch e.Op {
	case OpInsert:
		return target == ErrInsertionFailed
	case OpUpdate:
		return target == ErrUpdateFailed
	case OpDelete:
		return target == ErrDeletionFailed
	}
	return false
}
