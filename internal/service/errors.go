package service

import (
	"errors"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/validation"
)

// lookupFault classifies a failed read. Missing documents are the caller's fault.
func lookupFault(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fault.Wrap(fault.BadRequest, err, what+" not found")
	}
	return fault.Wrap(fault.BadRequest, err, "failed to load "+what)
}

// writeFault classifies a failed write. Unique violations are conflicts,
// missing documents are bad requests, everything else gets kind k.
func writeFault(err error, k fault.Kind, message, conflict string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return fault.Wrap(fault.Conflict, err, conflict)
	case errors.Is(err, repository.ErrNotFound):
		return fault.Wrap(fault.BadRequest, err, "not found")
	}
	return fault.Wrap(k, err, message)
}

// invalid turns validation errors into a BadRequest fault
func invalid(errs validation.Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return fault.Wrap(fault.BadRequest, errs, errs.Error())
}
