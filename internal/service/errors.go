package service

import "errors"

// Validation failures, handled entirely client-side before any network call.
var (
	ErrNoSubjectsSelected   = errors.New("no subjects selected")
	ErrSubjectNotSelected   = errors.New("subject is not selected")
	ErrInvalidPriority      = errors.New("priority must be between 1 and 5")
	ErrUnknownColor         = errors.New("color is not in the palette")
	ErrRoutineFieldsMissing = errors.New("routine name, start and end are required")
)

// Workflow guards.
var (
	ErrOperationInFlight = errors.New("another operation is already running")
	ErrScheduleNotReady  = errors.New("no generated schedule to save")
)

// External call failures. Generation and parse failures are surfaced to the
// user identically: generation failed, try again.
var (
	ErrGenerationFailed  = errors.New("schedule generation failed")
	ErrParseFailed       = errors.New("schedule response is not valid JSON")
	ErrPersistenceFailed = errors.New("saving schedule failed")
)
