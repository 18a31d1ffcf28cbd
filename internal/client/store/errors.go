package store

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/admindash/internal/client/models"
)

var (
	ErrFetchFailed  = errors.New("fetch failed")
	ErrCreateFailed = errors.New("create failed")
	ErrDeleteFailed = errors.New("delete failed")
	ErrUpdateFailed = errors.New("update failed")

	// ErrPending is returned when a mutation is already in flight for the record.
	ErrPending = errors.New("mutation already pending")
	// ErrNotReady is returned for mutations before a successful load.
	ErrNotReady = errors.New("collection not loaded")
	ErrClosed   = errors.New("store closed")
	ErrNoRecord = errors.New("record not in collection")
)

// Op names a store operation.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpDelete Op = "delete"
	OpUpdate Op = "update"
)

func (op Op) sentinel() error {
	switch op {
	case OpLoad:
		return ErrFetchFailed
	case OpCreate:
		return ErrCreateFailed
	case OpDelete:
		return ErrDeleteFailed
	case OpUpdate:
		return ErrUpdateFailed
	}
	return nil
}

// OpError reports a failed store operation. It matches both the sentinel of
// its Op and the underlying cause with errors.Is.
type OpError struct {
	Op         Op
	Collection string
	ID         models.ID
	Err        error
}

func (e *OpError) Error() string {
	if e.ID.IsZero() {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *OpError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Op.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
