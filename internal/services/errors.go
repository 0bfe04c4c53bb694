package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a requested coffee does not exist
	ErrNotFound = errors.New("not found")

	// ErrTransactionFailed indicates a recommend workflow was rolled back
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrGraphUnavailable indicates no graph database is configured
	ErrGraphUnavailable = errors.New("graph database unavailable")
)

// NotFoundError reports a missing coffee by id
type NotFoundError struct {
	ID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Coffee #%d not found", e.ID)
}

// Is makes NotFoundError match ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
