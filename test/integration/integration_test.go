package integration_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
	"github.com/rpggio/doublediamond/internal/generator"
	"github.com/rpggio/doublediamond/internal/sqlite"
)

const stubCost = 0.5

// controlledGenerator wraps the stub with per-phase failures and gates.
type controlledGenerator struct {
	stub *generator.Stub

	mu      sync.Mutex
	fail    map[diamond.Phase]error
	gates   map[diamond.Phase]chan struct{}
	started chan diamond.Phase
}

func newControlledGenerator() *controlledGenerator {
	return &controlledGenerator{
		stub:    generator.NewStub(stubCost),
		fail:    make(map[diamond.Phase]error),
		gates:   make(map[diamond.Phase]chan struct{}),
		started: make(chan diamond.Phase, 8),
	}
}

func (g *controlledGenerator) failOn(phase diamond.Phase, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fail[phase] = err
}

func (g *controlledGenerator) gate(phase diamond.Phase) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.gates[phase] = ch
	return ch
}

func (g *controlledGenerator) Generate(ctx context.Context, gc diamond.GenerationContext) (*diamond.Result, error) {
	g.mu.Lock()
	err := g.fail[gc.Phase]
	gate := g.gates[gc.Phase]
	g.mu.Unlock()

	if gate != nil {
		g.started <- gc.Phase
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return g.stub.Generate(ctx, gc)
}

type testEnv struct {
	db  *sqlite.DB
	gen *controlledGenerator

	diamondSvc  *diamond.Service
	exportSvc   *export.Service
	projectSvc  *project.Service
	activitySvc *activity.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	gen := newControlledGenerator()
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), nil)
	diamondSvc := diamond.NewService(sqlite.NewDiamondRepository(db), gen, activitySvc, nil, nil)
	exportSvc := export.NewService(sqlite.NewExportRepository(db), diamondSvc, projectSvc, activitySvc, nil, nil)

	return &testEnv{
		db:          db,
		gen:         gen,
		diamondSvc:  diamondSvc,
		exportSvc:   exportSvc,
		projectSvc:  projectSvc,
		activitySvc: activitySvc,
	}
}

func (e *testEnv) create(t *testing.T, userID string) *diamond.Project {
	t.Helper()
	proj, err := e.diamondSvc.Create(context.Background(), userID, diamond.CreateRequest{
		Briefing: diamond.Briefing{Name: "Solar kiosks", TargetAudience: "market vendors"},
	})
	require.NoError(t, err)
	return proj
}

func (e *testEnv) generate(t *testing.T, userID, id string, phases ...diamond.Phase) *diamond.Project {
	t.Helper()
	var proj *diamond.Project
	for _, phase := range phases {
		var err error
		proj, err = e.diamondSvc.Generate(context.Background(), userID, id, phase, "en-US")
		require.NoError(t, err, "generate %s", phase)
	}
	return proj
}

func TestIntegration_ColdStartWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	userID := "user1"

	proj := env.create(t, userID)
	for _, phase := range diamond.Stages {
		assert.Equal(t, diamond.StatusPending, proj.State(phase).Status)
	}

	scored := env.generate(t, userID, proj.ID, diamond.Stages...)
	assert.Equal(t, 100, scored.CompletionPercentage)
	assert.True(t, scored.IsCompleted)
	assert.EqualValues(t, 5, scored.GenerationCount)
	assert.InDelta(t, 5*stubCost, scored.TotalCost, 1e-9)

	res, err := env.exportSvc.Export(ctx, userID, proj.ID, "")
	require.NoError(t, err)
	assert.Equal(t, diamond.Stages, res.Phases)

	bundle, err := env.projectSvc.GetBundle(ctx, userID, res.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, "Solar kiosks", bundle.Project.Name)
	require.NotNil(t, bundle.Project.SourceDiamondID)
	assert.Equal(t, proj.ID, *bundle.Project.SourceDiamondID)
	assert.Len(t, bundle.POVs, len(scored.Define.Payload.POVStatements))
	assert.Len(t, bundle.Ideas, len(scored.Develop.Payload.Ideas)+len(scored.Develop.Payload.CrossPollinatedIdeas))

	reloaded, err := env.diamondSvc.Get(ctx, userID, proj.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ExportedProjectID)
	assert.Equal(t, res.ProjectID, *reloaded.ExportedProjectID)

	completed := activity.TypeExportCompleted
	entries, err := env.activitySvc.GetRecentActivity(ctx, userID, activity.ListActivityOptions{
		ProjectID:    proj.ID,
		ActivityType: &completed,
	})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestIntegration_PrerequisitesEnforced(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.create(t, "user1")

	_, err := env.diamondSvc.Generate(ctx, "user1", proj.ID, diamond.PhaseDFV, "")
	var prereq *diamond.PrerequisiteError
	require.ErrorAs(t, err, &prereq)
	assert.Equal(t, diamond.PhaseDFV, prereq.Phase)
	assert.Equal(t, diamond.PhaseDeliver, prereq.Missing)

	env.generate(t, "user1", proj.ID, diamond.PhaseDiscover)
	_, err = env.diamondSvc.Generate(ctx, "user1", proj.ID, diamond.PhaseDevelop, "")
	require.ErrorAs(t, err, &prereq)
	assert.Equal(t, diamond.PhaseDefine, prereq.Missing)

	got, err := env.diamondSvc.Get(ctx, "user1", proj.ID)
	require.NoError(t, err)
	assert.Equal(t, diamond.StatusPending, got.Develop.Status)
	assert.EqualValues(t, 1, got.GenerationCount)
}

func TestIntegration_RegenerationKeepsLaterPhases(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.create(t, "user1")

	before := env.generate(t, "user1", proj.ID, diamond.PhaseDiscover, diamond.PhaseDefine, diamond.PhaseDevelop)
	require.NotNil(t, before.Develop.Payload)

	first := before.Define.Payload.POVStatements[0].Statement
	_, err := env.diamondSvc.Select(ctx, "user1", proj.ID, diamond.SelectionRequest{
		Phase: diamond.PhaseDefine,
		POV:   []string{first},
	})
	require.NoError(t, err)

	after := env.generate(t, "user1", proj.ID, diamond.PhaseDefine)
	assert.True(t, after.Develop.Completed())
	require.NotNil(t, after.Develop.Payload)
	assert.Equal(t, before.Develop.Payload.Ideas[0].Title, after.Develop.Payload.Ideas[0].Title)
	require.NotNil(t, after.Develop.GeneratedAt)
	assert.WithinDuration(t, *before.Develop.GeneratedAt, *after.Develop.GeneratedAt, time.Second)
	assert.Empty(t, after.Define.SelectedPOV)
	assert.Equal(t, before.CompletionPercentage, after.CompletionPercentage)
	assert.EqualValues(t, 4, after.GenerationCount)
	assert.InDelta(t, 4*stubCost, after.TotalCost, 1e-9)
}

func TestIntegration_FailedGenerationPersistsNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.create(t, "user1")
	env.generate(t, "user1", proj.ID, diamond.PhaseDiscover)

	cause := errors.New("upstream timeout")
	env.gen.failOn(diamond.PhaseDefine, cause)

	_, err := env.diamondSvc.Generate(ctx, "user1", proj.ID, diamond.PhaseDefine, "")
	var genErr *diamond.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, cause)

	got, err := env.diamondSvc.Get(ctx, "user1", proj.ID)
	require.NoError(t, err)
	assert.Equal(t, diamond.StatusPending, got.Define.Status)
	assert.Nil(t, got.Define.Payload)
	assert.EqualValues(t, 1, got.GenerationCount)
	assert.InDelta(t, stubCost, got.TotalCost, 1e-9)
	assert.Empty(t, got.Generating)

	failed := activity.TypeGenerationFailed
	entries, err := env.activitySvc.GetRecentActivity(ctx, "user1", activity.ListActivityOptions{ActivityType: &failed})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "define", entries[0].Phase)
}

func TestIntegration_StatusesFollowAnyGenerateSequence(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("provider unavailable")

	for _, seed := range []uint64{1, 7, 42, 1234} {
		rng := rand.New(rand.NewPCG(seed, seed*31+1))
		env := newTestEnv(t)
		proj := env.create(t, "user1")

		want := make(map[diamond.Phase]diamond.Status, len(diamond.Stages))
		for _, phase := range diamond.Stages {
			want[phase] = diamond.StatusPending
		}
		var generations int64

		for step := 0; step < 40; step++ {
			phase := diamond.Stages[rng.IntN(len(diamond.Stages))]
			failing := rng.IntN(5) == 0
			if failing {
				env.gen.failOn(phase, cause)
			}

			_, err := env.diamondSvc.Generate(ctx, "user1", proj.ID, phase, "")
			env.gen.failOn(phase, nil)

			allowed := diamond.CanGenerate(phase, want)
			switch {
			case allowed != nil:
				require.ErrorIs(t, err, diamond.ErrPrerequisiteNotMet, "seed %d step %d %s", seed, step, phase)
			case failing:
				var genErr *diamond.GenerationError
				require.ErrorAs(t, err, &genErr, "seed %d step %d %s", seed, step, phase)
			default:
				require.NoError(t, err, "seed %d step %d %s", seed, step, phase)
				want[phase] = diamond.StatusCompleted
				generations++
			}

			got, err := env.diamondSvc.Get(ctx, "user1", proj.ID)
			require.NoError(t, err)
			assert.Equal(t, want, got.Statuses(), "seed %d step %d", seed, step)
			assert.EqualValues(t, generations, got.GenerationCount)

			completed := 0
			for _, phase := range diamond.Stages {
				if want[phase] == diamond.StatusCompleted {
					completed++
				}
			}
			assert.Equal(t, completed*20, got.CompletionPercentage)
		}
	}
}

func TestIntegration_DuplicateGenerationRejected(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.create(t, "user1")

	gate := env.gen.gate(diamond.PhaseDiscover)
	done := make(chan error, 1)
	go func() {
		_, err := env.diamondSvc.Generate(ctx, "user1", proj.ID, diamond.PhaseDiscover, "")
		done <- err
	}()

	select {
	case <-env.gen.started:
	case <-time.After(5 * time.Second):
		t.Fatal("generation did not start")
	}

	inFlight, err := env.diamondSvc.Get(ctx, "user1", proj.ID)
	require.NoError(t, err)
	assert.Equal(t, diamond.StatusInProgress, inFlight.Discover.Status)
	assert.Equal(t, []diamond.Phase{diamond.PhaseDiscover}, inFlight.Generating)
	assert.Equal(t, 0, inFlight.CompletionPercentage)

	_, err = env.diamondSvc.Generate(ctx, "user1", proj.ID, diamond.PhaseDiscover, "")
	assert.ErrorIs(t, err, diamond.ErrGenerationInProgress)

	close(gate)
	require.NoError(t, <-done)

	got, err := env.diamondSvc.Get(ctx, "user1", proj.ID)
	require.NoError(t, err)
	assert.True(t, got.Discover.Completed())
	assert.Empty(t, got.Generating)
	assert.EqualValues(t, 1, got.GenerationCount)
}

func TestIntegration_ConcurrentStagesDoNotClobber(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.create(t, "user1")
	env.generate(t, "user1", proj.ID, diamond.PhaseDiscover)

	// Regenerate discover while define is being generated from the old discover.
	gate := env.gen.gate(diamond.PhaseDefine)
	done := make(chan error, 1)
	go func() {
		_, err := env.diamondSvc.Generate(ctx, "user1", proj.ID, diamond.PhaseDefine, "")
		done <- err
	}()
	<-env.gen.started

	env.generate(t, "user1", proj.ID, diamond.PhaseDiscover)
	close(gate)
	require.NoError(t, <-done)

	got, err := env.diamondSvc.Get(ctx, "user1", proj.ID)
	require.NoError(t, err)
	assert.True(t, got.Discover.Completed())
	assert.True(t, got.Define.Completed())
	assert.EqualValues(t, 3, got.GenerationCount)
	assert.InDelta(t, 3*stubCost, got.TotalCost, 1e-9)
	assert.Equal(t, 40, got.CompletionPercentage)
}

func TestIntegration_ExportsAreIndependent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.create(t, "user1")
	env.generate(t, "user1", proj.ID, diamond.Stages...)

	first, err := env.exportSvc.Export(ctx, "user1", proj.ID, "First")
	require.NoError(t, err)
	second, err := env.exportSvc.Export(ctx, "user1", proj.ID, "Second")
	require.NoError(t, err)
	assert.NotEqual(t, first.ProjectID, second.ProjectID)
	assert.NotEqual(t, first.ExportID, second.ExportID)

	retried, err := env.exportSvc.Retry(ctx, "user1", first.ExportID)
	require.NoError(t, err)
	assert.Equal(t, first.ProjectID, retried.ProjectID)

	records, err := env.exportSvc.List(ctx, "user1", proj.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	projects, err := env.projectSvc.List(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	reloaded, err := env.diamondSvc.Get(ctx, "user1", proj.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.ExportedProjectID)
	assert.Equal(t, second.ProjectID, *reloaded.ExportedProjectID)
}

func TestIntegration_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	proj := env.create(t, "owner")

	_, err := env.diamondSvc.Get(ctx, "intruder", proj.ID)
	assert.ErrorIs(t, err, diamond.ErrProjectNotFound)

	_, err = env.diamondSvc.Generate(ctx, "intruder", proj.ID, diamond.PhaseDiscover, "")
	assert.ErrorIs(t, err, diamond.ErrProjectNotFound)

	list, err := env.diamondSvc.List(ctx, "intruder")
	require.NoError(t, err)
	assert.Empty(t, list)
}
