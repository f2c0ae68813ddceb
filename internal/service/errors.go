package service

import (
	"errors"
	"fmt"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uint, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %d not found", resourceType, id)}
}

func NewErrAssetNotFound(id uint) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "asset")
}

type ErrForbidden struct {
	error
}

func NewErrForbidden(reason string) *ErrForbidden {
	return &ErrForbidden{fmt.Errorf("forbidden: %s", reason)}
}

type ErrInvalidDecision struct {
	error
}

func NewErrInvalidDecision(decision string) *ErrInvalidDecision {
	return &ErrInvalidDecision{fmt.Errorf("invalid qc decision %q: must be one of approved, rejected, rework", decision)}
}

type ErrInvalidScore struct {
	error
}

func NewErrInvalidScore(score int) *ErrInvalidScore {
	return &ErrInvalidScore{fmt.Errorf("invalid qc score %d: must be between 0 and 100", score)}
}

type ErrInvalidChecklist struct {
	error
}

func NewErrInvalidChecklist(message string) *ErrInvalidChecklist {
	return &ErrInvalidChecklist{fmt.Errorf("invalid checklist: %s", message)}
}

type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(assetID uint, reason string) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("asset %d: %s", assetID, reason)}
}

// ErrPersistenceFailure wraps the store error that aborted a workflow transaction.
type ErrPersistenceFailure struct {
	error
}

func NewErrPersistenceFailure(op string, assetID uint, cause error) *ErrPersistenceFailure {
	return &ErrPersistenceFailure{fmt.Errorf("failed to %s asset %d: %w", op, assetID, cause)}
}

func (e *ErrPersistenceFailure) Unwrap() error {
	return errors.Unwrap(e.error)
}

type ErrUnsupportedFormat struct {
	error
}

func NewErrUnsupportedFormat(format string) *ErrUnsupportedFormat {
	return &ErrUnsupportedFormat{fmt.Errorf("unsupported report format: %s", format)}
}
