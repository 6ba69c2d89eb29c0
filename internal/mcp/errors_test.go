package mcp_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
	"github.com/rpggio/doublediamond/internal/mcp"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"prerequisite", &diamond.PrerequisiteError{Phase: diamond.PhaseDevelop, Missing: diamond.PhaseDefine}, "PREREQUISITE_NOT_MET"},
		{"generation", &diamond.GenerationError{Phase: diamond.PhaseDiscover, Cause: errors.New("boom")}, "GENERATION_FAILED"},
		{"export", &export.ExportError{ExportID: "e1", Cause: errors.New("boom")}, "EXPORT_FAILED"},
		{"in progress", diamond.ErrGenerationInProgress, "GENERATION_IN_PROGRESS"},
		{"unknown phase", fmt.Errorf("parse: %w", diamond.ErrUnknownPhase), "UNKNOWN_PHASE"},
		{"not selectable", diamond.ErrNotSelectable, "NOT_SELECTABLE"},
		{"invalid", project.ErrInvalidInput, "INVALID_INPUT"},
		{"project not found", diamond.ErrProjectNotFound, "PROJECT_NOT_FOUND"},
		{"export not found", export.ErrExportNotFound, "EXPORT_NOT_FOUND"},
		{"not ready", export.ErrNotReady, "NOT_READY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := mcp.MapError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Contains(t, apiErr.Error(), tt.code)
		})
	}
}

func TestMapError_Unknown(t *testing.T) {
	assert.Nil(t, mcp.MapError(nil))
	assert.Nil(t, mcp.MapError(errors.New("disk on fire")))
}

func TestMapError_PrerequisiteHint(t *testing.T) {
	apiErr := mcp.MapError(&diamond.PrerequisiteError{Phase: diamond.PhaseDFV, Missing: diamond.PhaseDeliver})
	require.NotNil(t, apiErr)
	assert.Contains(t, apiErr.RecoveryHint, "phase=deliver")
}
