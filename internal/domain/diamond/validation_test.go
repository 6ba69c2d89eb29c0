package diamond_test

import (
	"errors"
	"testing"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/stretchr/testify/require"
)

func TestCanGenerate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		phase     diamond.Phase
		missing   diamond.Phase
	}{
		{name: "discover always allowed", completed: 0, phase: diamond.PhaseDiscover},
		{name: "define needs discover", completed: 0, phase: diamond.PhaseDefine, missing: diamond.PhaseDiscover},
		{name: "define after discover", completed: 1, phase: diamond.PhaseDefine},
		{name: "develop needs define", completed: 1, phase: diamond.PhaseDevelop, missing: diamond.PhaseDefine},
		{name: "deliver needs develop", completed: 2, phase: diamond.PhaseDeliver, missing: diamond.PhaseDevelop},
		{name: "dfv needs deliver", completed: 3, phase: diamond.PhaseDFV, missing: diamond.PhaseDeliver},
		{name: "dfv after deliver", completed: 4, phase: diamond.PhaseDFV},
		{name: "regenerate discover when all done", completed: 5, phase: diamond.PhaseDiscover},
		{name: "regenerate define when all done", completed: 5, phase: diamond.PhaseDefine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statuses := newProject(tt.completed).Statuses()
			err := diamond.CanGenerate(tt.phase, statuses)
			if tt.missing == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, diamond.ErrPrerequisiteNotMet)
			var pe *diamond.PrerequisiteError
			require.True(t, errors.As(err, &pe))
			require.Equal(t, tt.phase, pe.Phase)
			require.Equal(t, tt.missing, pe.Missing)
		})
	}
}

func TestCanGenerate_InProgressIsNotCompleted(t *testing.T) {
	statuses := newProject(0).Statuses()
	statuses[diamond.PhaseDiscover] = diamond.StatusInProgress
	require.ErrorIs(t, diamond.CanGenerate(diamond.PhaseDefine, statuses), diamond.ErrPrerequisiteNotMet)
}

func TestCanGenerate_UnknownPhase(t *testing.T) {
	require.ErrorIs(t, diamond.CanGenerate("ship", nil), diamond.ErrUnknownPhase)
}

func TestParsePhase(t *testing.T) {
	phase, err := diamond.ParsePhase("dfv")
	require.NoError(t, err)
	require.Equal(t, diamond.PhaseDFV, phase)

	_, err = diamond.ParsePhase("Discover")
	require.ErrorIs(t, err, diamond.ErrUnknownPhase)
}

func TestValidateCreateInput(t *testing.T) {
	require.ErrorIs(t, diamond.ValidateCreateInput(diamond.CreateRequest{}), diamond.ErrInvalidInput)
	require.ErrorIs(t, diamond.ValidateCreateInput(diamond.CreateRequest{
		Briefing: diamond.Briefing{Name: "x", CustomCaseURLs: []string{"ftp://example.com"}},
	}), diamond.ErrInvalidInput)
	require.NoError(t, diamond.ValidateCreateInput(diamond.CreateRequest{
		Briefing: diamond.Briefing{Name: "x", CustomCaseURLs: []string{"https://example.com"}},
	}))
}

func TestValidateBriefingPatch(t *testing.T) {
	blank := "  "
	require.ErrorIs(t, diamond.ValidateBriefingPatch(diamond.BriefingPatch{Name: &blank}), diamond.ErrInvalidInput)
	require.NoError(t, diamond.ValidateBriefingPatch(diamond.BriefingPatch{}))
}

func TestValidateSelection(t *testing.T) {
	p := newProject(3)

	require.NoError(t, diamond.ValidateSelection(p, diamond.SelectionRequest{
		Phase: diamond.PhaseDefine,
		POV:   []string{"Commuters need coffee fast"},
	}))
	require.ErrorIs(t, diamond.ValidateSelection(p, diamond.SelectionRequest{
		Phase: diamond.PhaseDefine,
		HMW:   []string{"How might we fly?"},
	}), diamond.ErrNotSelectable)
	require.NoError(t, diamond.ValidateSelection(p, diamond.SelectionRequest{
		Phase: diamond.PhaseDevelop,
		Ideas: []string{"Airline-style boarding groups"},
	}))
	require.ErrorIs(t, diamond.ValidateSelection(p, diamond.SelectionRequest{
		Phase: diamond.PhaseDevelop,
		POV:   []string{"Commuters need coffee fast"},
	}), diamond.ErrInvalidInput)
	require.ErrorIs(t, diamond.ValidateSelection(p, diamond.SelectionRequest{Phase: diamond.PhaseDeliver}), diamond.ErrInvalidInput)

	require.ErrorIs(t, diamond.ValidateSelection(newProject(1), diamond.SelectionRequest{
		Phase: diamond.PhaseDefine,
	}), diamond.ErrNotSelectable)
}

func TestPayloadValidate(t *testing.T) {
	require.NoError(t, discoverPayload().Validate())
	require.ErrorIs(t, (&diamond.DiscoverPayload{}).Validate(), diamond.ErrInvalidPayload)
	require.ErrorIs(t, (&diamond.DefinePayload{POVStatements: definePayload().POVStatements}).Validate(), diamond.ErrInvalidPayload)
	require.ErrorIs(t, (&diamond.DevelopPayload{Ideas: []diamond.Idea{{Title: ""}}}).Validate(), diamond.ErrInvalidPayload)
	require.ErrorIs(t, (&diamond.DeliverPayload{MVPConcept: diamond.MVPConcept{Name: "x"}}).Validate(), diamond.ErrInvalidPayload)

	scores := dfvPayload()
	require.NoError(t, scores.Validate())
	require.Equal(t, 70, scores.Overall())
	scores.Viability = 101
	require.ErrorIs(t, scores.Validate(), diamond.ErrInvalidPayload)
}
