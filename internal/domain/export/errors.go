package export

import (
	"errors"
	"fmt"
)

var (
	// ErrExportNotFound indicates the export record doesn't exist.
	ErrExportNotFound = errors.New("export not found")
	// ErrNotReady indicates the project has no DFV scores yet.
	ErrNotReady = errors.New("project is not ready for export: dfv scores are missing")
	// ErrExportFailed indicates transformation or target creation failed.
	ErrExportFailed = errors.New("export failed")
)

// ExportError is returned when an attempt was recorded as failed.
type ExportError struct {
	ExportID string
	Cause    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s failed: %v", e.ExportID, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

func (e *ExportError) Is(target error) bool {
	return target == ErrExportFailed
}
