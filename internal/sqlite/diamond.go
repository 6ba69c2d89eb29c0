package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/repository"
)

// phaseColumns maps a stage to its column prefix. Only these values are
// ever interpolated into SQL.
var phaseColumns = map[diamond.Phase]string{
	diamond.PhaseDiscover: "discover",
	diamond.PhaseDefine:   "define",
	diamond.PhaseDevelop:  "develop",
	diamond.PhaseDeliver:  "deliver",
	diamond.PhaseDFV:      "dfv",
}

const diamondColumns = `
	id, user_id, exported_project_id,
	name, description, sector, success_case, custom_case, custom_case_urls,
	target_audience, problem_statement,
	discover_status, discover_payload, discover_generated_at,
	define_status, define_payload, define_generated_at, define_selected_pov, define_selected_hmw,
	develop_status, develop_payload, develop_generated_at, develop_selected_ideas,
	deliver_status, deliver_payload, deliver_generated_at,
	dfv_status, dfv_payload, dfv_generated_at,
	generation_count, total_cost, created_at, updated_at
`

// DiamondRepository implements diamond.Repository for SQLite
type DiamondRepository struct {
	db *DB
}

// NewDiamondRepository creates a new DiamondRepository
func NewDiamondRepository(db *DB) *DiamondRepository {
	return &DiamondRepository{db: db}
}

// Create inserts a new double diamond project with every stage pending
func (r *DiamondRepository) Create(ctx context.Context, userID string, proj *diamond.Project) error {
	urls, err := encodeJSON(proj.Briefing.CustomCaseURLs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO double_diamond_projects (
			id, user_id, name, description, sector, success_case, custom_case,
			custom_case_urls, target_audience, problem_statement,
			current_phase, completion_percentage, is_completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	b := proj.Briefing
	_, err = r.db.ExecContext(ctx, query,
		proj.ID,
		userID,
		b.Name,
		b.Description,
		b.Sector,
		b.SuccessCase,
		b.CustomCase,
		urls,
		b.TargetAudience,
		b.ProblemStatement,
		proj.CurrentPhase,
		proj.CompletionPercentage,
		proj.IsCompleted,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create double diamond project: %w", err)
	}

	return nil
}

// Get retrieves a double diamond project by ID
func (r *DiamondRepository) Get(ctx context.Context, userID, id string) (*diamond.Project, error) {
	query := `SELECT ` + diamondColumns + ` FROM double_diamond_projects WHERE id = ? AND user_id = ?`

	proj, err := scanDiamond(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get double diamond project: %w", err)
	}

	return proj, nil
}

// List returns all double diamond projects for a user. Progress is derived
// from the stored statuses, not from the cached columns.
func (r *DiamondRepository) List(ctx context.Context, userID string) ([]diamond.ProjectSummary, error) {
	query := `
		SELECT
			id, name, sector, exported_project_id,
			discover_status, define_status, develop_status, deliver_status, dfv_status,
			dfv_payload IS NOT NULL AS has_scores,
			updated_at
		FROM double_diamond_projects
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list double diamond projects: %w", err)
	}
	defer rows.Close()

	var summaries []diamond.ProjectSummary
	for rows.Next() {
		var (
			p         diamond.Project
			exported  sql.NullString
			hasScores bool
		)
		err := rows.Scan(
			&p.ID,
			&p.Briefing.Name,
			&p.Briefing.Sector,
			&exported,
			&p.Discover.Status,
			&p.Define.Status,
			&p.Develop.Status,
			&p.Deliver.Status,
			&p.DFV.Status,
			&hasScores,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan double diamond summary: %w", err)
		}
		if hasScores {
			p.DFV.Payload = &diamond.DFVPayload{}
		}
		p.Refresh()

		summaries = append(summaries, diamond.ProjectSummary{
			ID:                   p.ID,
			Name:                 p.Briefing.Name,
			Sector:               p.Briefing.Sector,
			CurrentPhase:         p.CurrentPhase,
			CompletionPercentage: p.CompletionPercentage,
			IsCompleted:          p.IsCompleted,
			Exported:             exported.Valid,
			UpdatedAt:            p.UpdatedAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating double diamond rows: %w", err)
	}

	return summaries, nil
}

// Delete removes a double diamond project and its export records
func (r *DiamondRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM double_diamond_projects WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete double diamond project: %w", err)
	}
	return requireRow(result)
}

// UpdateBriefing rewrites the briefing columns only
func (r *DiamondRepository) UpdateBriefing(ctx context.Context, userID, id string, b diamond.Briefing, at time.Time) error {
	urls, err := encodeJSON(b.CustomCaseURLs)
	if err != nil {
		return err
	}

	query := `
		UPDATE double_diamond_projects
		SET name = ?, description = ?, sector = ?, success_case = ?, custom_case = ?,
			custom_case_urls = ?, target_audience = ?, problem_statement = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		b.Name,
		b.Description,
		b.Sector,
		b.SuccessCase,
		b.CustomCase,
		urls,
		b.TargetAudience,
		b.ProblemStatement,
		at,
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update briefing: %w", err)
	}
	return requireRow(result)
}

// SavePhase writes a successful generation: the stage's own columns, the
// counters incremented in place, and the progress cache. Selections made
// from the replaced content are cleared.
func (r *DiamondRepository) SavePhase(ctx context.Context, userID string, u diamond.PhaseUpdate) error {
	col, ok := phaseColumns[u.Phase]
	if !ok {
		return diamond.ErrUnknownPhase
	}
	payload, err := encodeJSON(u.Payload)
	if err != nil {
		return err
	}

	reset := ""
	switch u.Phase {
	case diamond.PhaseDefine:
		reset = "define_selected_pov = NULL, define_selected_hmw = NULL,"
	case diamond.PhaseDevelop:
		reset = "develop_selected_ideas = NULL,"
	}

	query := fmt.Sprintf(`
		UPDATE double_diamond_projects
		SET %[1]s_status = 'completed', %[1]s_payload = ?, %[1]s_generated_at = ?, %[2]s
			generation_count = generation_count + 1,
			total_cost = total_cost + ?,
			current_phase = ?, completion_percentage = ?, is_completed = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`, col, reset)

	result, err := r.db.ExecContext(ctx, query,
		payload,
		u.GeneratedAt,
		u.Cost,
		u.Progress.CurrentPhase,
		u.Progress.CompletionPercentage,
		u.Progress.CompletionPercentage == 100,
		u.GeneratedAt,
		u.ProjectID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", u.Phase, err)
	}
	return requireRow(result)
}

// SaveSelections replaces the user selections of the define or develop stage
func (r *DiamondRepository) SaveSelections(ctx context.Context, userID, id string, req diamond.SelectionRequest, at time.Time) error {
	var (
		query string
		args  []any
	)
	switch req.Phase {
	case diamond.PhaseDefine:
		pov, err := encodeJSON(req.POV)
		if err != nil {
			return err
		}
		hmw, err := encodeJSON(req.HMW)
		if err != nil {
			return err
		}
		query = `UPDATE double_diamond_projects SET define_selected_pov = ?, define_selected_hmw = ?, updated_at = ? WHERE id = ? AND user_id = ?`
		args = []any{pov, hmw, at, id, userID}
	case diamond.PhaseDevelop:
		ideas, err := encodeJSON(req.Ideas)
		if err != nil {
			return err
		}
		query = `UPDATE double_diamond_projects SET develop_selected_ideas = ?, updated_at = ? WHERE id = ? AND user_id = ?`
		args = []any{ideas, at, id, userID}
	default:
		return repository.ErrInvalidInput
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save selections: %w", err)
	}
	return requireRow(result)
}

// LinkExport records the primary-model project of the latest export
func (r *DiamondRepository) LinkExport(ctx context.Context, userID, id, projectID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE double_diamond_projects SET exported_project_id = ? WHERE id = ? AND user_id = ?`,
		projectID, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to link export: %w", err)
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiamond(row rowScanner) (*diamond.Project, error) {
	var (
		p        diamond.Project
		exported sql.NullString
		urls     sql.NullString

		discoverPayload, definePayload, developPayload, deliverPayload, dfvPayload sql.NullString
		discoverAt, defineAt, developAt, deliverAt, dfvAt                          sql.NullTime
		selectedPOV, selectedHMW, selectedIdeas                                    sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&exported,
		&p.Briefing.Name,
		&p.Briefing.Description,
		&p.Briefing.Sector,
		&p.Briefing.SuccessCase,
		&p.Briefing.CustomCase,
		&urls,
		&p.Briefing.TargetAudience,
		&p.Briefing.ProblemStatement,
		&p.Discover.Status, &discoverPayload, &discoverAt,
		&p.Define.Status, &definePayload, &defineAt, &selectedPOV, &selectedHMW,
		&p.Develop.Status, &developPayload, &developAt, &selectedIdeas,
		&p.Deliver.Status, &deliverPayload, &deliverAt,
		&p.DFV.Status, &dfvPayload, &dfvAt,
		&p.GenerationCount,
		&p.TotalCost,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ExportedProjectID = nullString(exported)
	p.Discover.GeneratedAt = nullTime(discoverAt)
	p.Define.GeneratedAt = nullTime(defineAt)
	p.Develop.GeneratedAt = nullTime(developAt)
	p.Deliver.GeneratedAt = nullTime(deliverAt)
	p.DFV.GeneratedAt = nullTime(dfvAt)

	if err := decodeJSON(urls, &p.Briefing.CustomCaseURLs); err != nil {
		return nil, err
	}
	if err := decodeJSON(selectedPOV, &p.Define.SelectedPOV); err != nil {
		return nil, err
	}
	if err := decodeJSON(selectedHMW, &p.Define.SelectedHMW); err != nil {
		return nil, err
	}
	if err := decodeJSON(selectedIdeas, &p.Develop.SelectedIdeas); err != nil {
		return nil, err
	}

	if discoverPayload.Valid {
		p.Discover.Payload = &diamond.DiscoverPayload{}
		if err := decodeJSON(discoverPayload, p.Discover.Payload); err != nil {
			return nil, err
		}
	}
	if definePayload.Valid {
		p.Define.Payload = &diamond.DefinePayload{}
		if err := decodeJSON(definePayload, p.Define.Payload); err != nil {
			return nil, err
		}
	}
	if developPayload.Valid {
		p.Develop.Payload = &diamond.DevelopPayload{}
		if err := decodeJSON(developPayload, p.Develop.Payload); err != nil {
			return nil, err
		}
	}
	if deliverPayload.Valid {
		p.Deliver.Payload = &diamond.DeliverPayload{}
		if err := decodeJSON(deliverPayload, p.Deliver.Payload); err != nil {
			return nil, err
		}
	}
	if dfvPayload.Valid {
		p.DFV.Payload = &diamond.DFVPayload{}
		if err := decodeJSON(dfvPayload, p.DFV.Payload); err != nil {
			return nil, err
		}
	}

	p.Refresh()
	return &p, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
