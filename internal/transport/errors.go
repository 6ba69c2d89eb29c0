package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

type apiError struct {
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Phase    diamond.Phase `json:"phase,omitempty"`
	Missing  diamond.Phase `json:"missing,omitempty"`
	ExportID string        `json:"exportId,omitempty"`
}

type errorBody struct {
	Error apiError `json:"error"`
}

// MapError translates a domain error into an HTTP status and error body.
func MapError(err error) (int, apiError) {
	var prereq *diamond.PrerequisiteError
	if errors.As(err, &prereq) {
		return http.StatusConflict, apiError{
			Code:    "PREREQUISITE_NOT_MET",
			Message: err.Error(),
			Phase:   prereq.Phase,
			Missing: prereq.Missing,
		}
	}

	var genErr *diamond.GenerationError
	if errors.As(err, &genErr) {
		return http.StatusBadGateway, apiError{
			Code:    "GENERATION_FAILED",
			Message: err.Error(),
			Phase:   genErr.Phase,
		}
	}

	var exportErr *export.ExportError
	if errors.As(err, &exportErr) {
		return http.StatusInternalServerError, apiError{
			Code:     "EXPORT_FAILED",
			Message:  err.Error(),
			ExportID: exportErr.ExportID,
		}
	}

	switch {
	case errors.Is(err, diamond.ErrGenerationInProgress):
		return http.StatusConflict, apiError{Code: "GENERATION_IN_PROGRESS", Message: err.Error()}
	case errors.Is(err, export.ErrNotReady):
		return http.StatusConflict, apiError{Code: "NOT_READY", Message: err.Error()}
	case errors.Is(err, diamond.ErrUnknownPhase):
		return http.StatusBadRequest, apiError{Code: "UNKNOWN_PHASE", Message: err.Error()}
	case errors.Is(err, diamond.ErrNotSelectable):
		return http.StatusBadRequest, apiError{Code: "NOT_SELECTABLE", Message: err.Error()}
	case errors.Is(err, diamond.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, apiError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, diamond.ErrProjectNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, export.ErrExportNotFound):
		return http.StatusNotFound, apiError{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, apiError{Code: "UNAUTHORIZED", Message: err.Error()}
	default:
		return http.StatusInternalServerError, apiError{Code: "INTERNAL", Message: "internal error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, body apiError) {
	writeJSON(w, status, errorBody{Error: body})
}
