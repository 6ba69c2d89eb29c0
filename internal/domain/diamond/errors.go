package diamond

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("double diamond project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid double diamond input")
	// ErrUnknownPhase indicates a phase name outside the known stages.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrPrerequisiteNotMet indicates an earlier phase is not completed.
	ErrPrerequisiteNotMet = errors.New("prerequisite phase not completed")
	// ErrGenerationFailed indicates the generator errored or returned unusable output.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrGenerationInProgress indicates the same phase is already being generated.
	ErrGenerationInProgress = errors.New("generation already in progress")
	// ErrInvalidPayload indicates generated content failed validation.
	ErrInvalidPayload = errors.New("invalid generated payload")
	// ErrNotSelectable indicates a selection that doesn't match generated content.
	ErrNotSelectable = errors.New("selection not present in generated content")
)

// PrerequisiteError names the phase that was requested and the phase that
// must be completed first.
type PrerequisiteError struct {
	Phase   Phase
	Missing Phase
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("cannot generate %s: %s is not completed", e.Phase, e.Missing)
}

func (e *PrerequisiteError) Is(target error) bool {
	return target == ErrPrerequisiteNotMet
}

// GenerationError wraps the cause of a failed generation call.
type GenerationError struct {
	Phase Phase
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s: %v", e.Phase, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}
