package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller lacks the role required for the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrAlreadyPaid indicates a mark-paid shortcut was refused because the record is settled.
var ErrAlreadyPaid = errors.New("fee record is already fully paid")

// ErrNothingDue indicates a mark-paid shortcut was refused because nothing is owed.
var ErrNothingDue = errors.New("fee record has no amount due")

// ErrNoMatchingRecords indicates a filtered export matched zero ledger rows.
var ErrNoMatchingRecords = errors.New("no matching records")

// ErrRender indicates a single receipt document failed to render.
// During bulk export it is recovered per-record (skip and log), never fatal.
var ErrRender = errors.New("document rendering failed")

// ErrPackaging indicates archive creation or writing failed; fatal to the export job.
var ErrPackaging = errors.New("archive packaging failed")
