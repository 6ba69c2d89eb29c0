package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors return nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var prereq *diamond.PrerequisiteError
	if errors.As(err, &prereq) {
		return &APIError{
			Code:         "PREREQUISITE_NOT_MET",
			Message:      err.Error(),
			Details:      map[string]diamond.Phase{"phase": prereq.Phase, "missing": prereq.Missing},
			RecoveryHint: fmt.Sprintf("Call generate_phase with phase=%s first", prereq.Missing),
		}
	}
	var genErr *diamond.GenerationError
	if errors.As(err, &genErr) {
		return &APIError{
			Code:         "GENERATION_FAILED",
			Message:      err.Error(),
			Details:      map[string]diamond.Phase{"phase": genErr.Phase},
			RecoveryHint: "Nothing was saved; call generate_phase again to retry",
		}
	}
	var exportErr *export.ExportError
	if errors.As(err, &exportErr) {
		return &APIError{
			Code:         "EXPORT_FAILED",
			Message:      err.Error(),
			Details:      map[string]string{"export_id": exportErr.ExportID},
			RecoveryHint: "The failed attempt is recorded; see list_exports",
		}
	}

	switch {
	case errors.Is(err, diamond.ErrGenerationInProgress):
		return &APIError{Code: "GENERATION_IN_PROGRESS", Message: "phase is already being generated", RecoveryHint: "Wait for the running generation, then get_project"}
	case errors.Is(err, diamond.ErrUnknownPhase):
		return &APIError{Code: "UNKNOWN_PHASE", Message: err.Error(), RecoveryHint: "Use discover, define, develop, deliver or dfv"}
	case errors.Is(err, diamond.ErrNotSelectable):
		return &APIError{Code: "NOT_SELECTABLE", Message: err.Error(), RecoveryHint: "Select values exactly as generated"}
	case errors.Is(err, diamond.ErrInvalidInput), errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, diamond.ErrProjectNotFound), errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check ID spelling or call list_projects"}
	case errors.Is(err, export.ErrExportNotFound):
		return &APIError{Code: "EXPORT_NOT_FOUND", Message: "export not found"}
	case errors.Is(err, export.ErrNotReady):
		return &APIError{Code: "NOT_READY", Message: err.Error(), RecoveryHint: "Call generate_phase with phase=dfv first"}
	default:
		return nil
	}
}

// toolError converts a service error into the error returned from a tool.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
