package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/doublediamond/internal/domain/project"
	"github.com/rpggio/doublediamond/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateBundle inserts a project and all of its entities in one
// transaction. A second bundle for the same source export resolves to the
// project that already exists.
func (r *ProjectRepository) CreateBundle(ctx context.Context, userID string, b *project.Bundle) (string, error) {
	if b.Project.SourceExportID != nil {
		existing, err := r.findByExport(ctx, userID, *b.Project.SourceExportID)
		if err == nil {
			return existing, nil
		}
		if err != repository.ErrNotFound {
			return "", err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p := b.Project
	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, description, source_diamond_id, source_export_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, userID, p.Name, p.Description, p.SourceDiamondID, p.SourceExportID, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) && p.SourceExportID != nil {
			tx.Rollback()
			return r.findByExport(ctx, userID, *p.SourceExportID)
		}
		return "", fmt.Errorf("failed to create project: %w", err)
	}

	for _, e := range b.Empathy {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO empathy_entries (id, project_id, quadrant, content, source, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.ID, p.ID, e.Quadrant, e.Content, e.Source, e.Position); err != nil {
			return "", fmt.Errorf("failed to create empathy entry: %w", err)
		}
	}
	for _, pov := range b.POVs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pov_statements (id, project_id, user_label, need, insight, statement, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, pov.ID, p.ID, pov.User, pov.Need, pov.Insight, pov.Statement, pov.Position); err != nil {
			return "", fmt.Errorf("failed to create POV statement: %w", err)
		}
	}
	for _, hmw := range b.HMWs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hmw_questions (id, project_id, question, focus, position)
			VALUES (?, ?, ?, ?, ?)
		`, hmw.ID, p.ID, hmw.Question, hmw.Focus, hmw.Position); err != nil {
			return "", fmt.Errorf("failed to create HMW question: %w", err)
		}
	}
	for _, idea := range b.Ideas {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ideas (id, project_id, title, description, category, cross_pollinated, score, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, idea.ID, p.ID, idea.Title, idea.Description, idea.Category, idea.CrossPollinated, idea.Score, idea.Position); err != nil {
			return "", fmt.Errorf("failed to create idea: %w", err)
		}
	}
	for _, a := range b.Assets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assets (id, project_id, kind, title, content, position)
			VALUES (?, ?, ?, ?, ?, ?)
		`, a.ID, p.ID, a.Kind, a.Title, a.Content, a.Position); err != nil {
			return "", fmt.Errorf("failed to create asset: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return p.ID, nil
}

func (r *ProjectRepository) findByExport(ctx context.Context, userID, exportID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM projects WHERE source_export_id = ? AND user_id = ?`,
		exportID, userID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find project by export: %w", err)
	}
	return id, nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, userID, id string) (*project.Project, error) {
	query := `
		SELECT id, user_id, name, description, source_diamond_id, source_export_id, created_at
		FROM projects
		WHERE id = ? AND user_id = ?
	`

	var (
		proj            project.Project
		sourceDiamondID sql.NullString
		sourceExportID  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&proj.ID,
		&proj.UserID,
		&proj.Name,
		&proj.Description,
		&sourceDiamondID,
		&sourceExportID,
		&proj.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	proj.SourceDiamondID = nullString(sourceDiamondID)
	proj.SourceExportID = nullString(sourceExportID)
	return &proj, nil
}

// GetBundle retrieves a project with all of its entities
func (r *ProjectRepository) GetBundle(ctx context.Context, userID, id string) (*project.Bundle, error) {
	proj, err := r.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	b := &project.Bundle{Project: *proj}

	if err := r.each(ctx, `SELECT id, project_id, quadrant, content, source, position FROM empathy_entries WHERE project_id = ? ORDER BY position`, id,
		func(rows *sql.Rows) error {
			var e project.EmpathyEntry
			if err := rows.Scan(&e.ID, &e.ProjectID, &e.Quadrant, &e.Content, &e.Source, &e.Position); err != nil {
				return err
			}
			b.Empathy = append(b.Empathy, e)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to load empathy entries: %w", err)
	}

	if err := r.each(ctx, `SELECT id, project_id, user_label, need, insight, statement, position FROM pov_statements WHERE project_id = ? ORDER BY position`, id,
		func(rows *sql.Rows) error {
			var pov project.POVStatement
			if err := rows.Scan(&pov.ID, &pov.ProjectID, &pov.User, &pov.Need, &pov.Insight, &pov.Statement, &pov.Position); err != nil {
				return err
			}
			b.POVs = append(b.POVs, pov)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to load POV statements: %w", err)
	}

	if err := r.each(ctx, `SELECT id, project_id, question, focus, position FROM hmw_questions WHERE project_id = ? ORDER BY position`, id,
		func(rows *sql.Rows) error {
			var hmw project.HMWQuestion
			if err := rows.Scan(&hmw.ID, &hmw.ProjectID, &hmw.Question, &hmw.Focus, &hmw.Position); err != nil {
				return err
			}
			b.HMWs = append(b.HMWs, hmw)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to load HMW questions: %w", err)
	}

	if err := r.each(ctx, `SELECT id, project_id, title, description, category, cross_pollinated, score, position FROM ideas WHERE project_id = ? ORDER BY position`, id,
		func(rows *sql.Rows) error {
			var idea project.Idea
			if err := rows.Scan(&idea.ID, &idea.ProjectID, &idea.Title, &idea.Description, &idea.Category, &idea.CrossPollinated, &idea.Score, &idea.Position); err != nil {
				return err
			}
			b.Ideas = append(b.Ideas, idea)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to load ideas: %w", err)
	}

	if err := r.each(ctx, `SELECT id, project_id, kind, title, content, position FROM assets WHERE project_id = ? ORDER BY position`, id,
		func(rows *sql.Rows) error {
			var a project.Asset
			if err := rows.Scan(&a.ID, &a.ProjectID, &a.Kind, &a.Title, &a.Content, &a.Position); err != nil {
				return err
			}
			b.Assets = append(b.Assets, a)
			return nil
		}); err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	return b, nil
}

// List returns all projects for a user with summary information
func (r *ProjectRepository) List(ctx context.Context, userID string) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.description,
			p.source_diamond_id,
			p.created_at,
			(SELECT COUNT(*) FROM ideas i WHERE i.project_id = p.id) AS idea_count,
			(SELECT COUNT(*) FROM assets a WHERE a.project_id = p.id) AS asset_count
		FROM projects p
		WHERE p.user_id = ?
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var (
			summary         project.ProjectSummary
			sourceDiamondID sql.NullString
		)
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Description,
			&sourceDiamondID,
			&summary.CreatedAt,
			&summary.IdeaCount,
			&summary.AssetCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summary.SourceDiamondID = nullString(sourceDiamondID)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

func (r *ProjectRepository) each(ctx context.Context, query, id string, scan func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
