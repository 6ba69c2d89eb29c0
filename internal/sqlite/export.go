package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/repository"
)

const exportColumns = `
	id, user_id, diamond_id, project_id, target_name, phases, cost,
	status, error, attempts, created_at, completed_at
`

// ExportRepository implements export.Repository for SQLite
type ExportRepository struct {
	db *DB
}

// NewExportRepository creates a new ExportRepository
func NewExportRepository(db *DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts a new export record
func (r *ExportRepository) Create(ctx context.Context, userID string, rec *export.Export) error {
	phases, err := encodeJSON(rec.Phases)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO double_diamond_exports (
			id, user_id, diamond_id, project_id, target_name, phases, cost,
			status, error, attempts, created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		userID,
		rec.DiamondID,
		rec.ProjectID,
		rec.TargetName,
		phases,
		rec.Cost,
		rec.Status,
		rec.Error,
		rec.Attempts,
		rec.CreatedAt,
		rec.CompletedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create export: %w", err)
	}

	return nil
}

// Get retrieves an export record by ID
func (r *ExportRepository) Get(ctx context.Context, userID, id string) (*export.Export, error) {
	query := `SELECT ` + exportColumns + ` FROM double_diamond_exports WHERE id = ? AND user_id = ?`

	rec, err := scanExport(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	return rec, nil
}

// Update rewrites the mutable fields of an export record
func (r *ExportRepository) Update(ctx context.Context, userID string, rec *export.Export) error {
	phases, err := encodeJSON(rec.Phases)
	if err != nil {
		return err
	}

	query := `
		UPDATE double_diamond_exports
		SET project_id = ?, phases = ?, cost = ?, status = ?, error = ?, attempts = ?, completed_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.ProjectID,
		phases,
		rec.Cost,
		rec.Status,
		rec.Error,
		rec.Attempts,
		rec.CompletedAt,
		rec.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update export: %w", err)
	}
	return requireRow(result)
}

// ListByDiamond returns the export records of a double diamond project, newest first
func (r *ExportRepository) ListByDiamond(ctx context.Context, userID, diamondID string) ([]export.Export, error) {
	query := `SELECT ` + exportColumns + `
		FROM double_diamond_exports
		WHERE diamond_id = ? AND user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, diamondID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var records []export.Export
	for rows.Next() {
		rec, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export rows: %w", err)
	}

	return records, nil
}

func scanExport(row rowScanner) (*export.Export, error) {
	var (
		rec         export.Export
		projectID   sql.NullString
		phases      sql.NullString
		completedAt sql.NullTime
	)
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.DiamondID,
		&projectID,
		&rec.TargetName,
		&phases,
		&rec.Cost,
		&rec.Status,
		&rec.Error,
		&rec.Attempts,
		&rec.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.ProjectID = nullString(projectID)
	rec.CompletedAt = nullTime(completedAt)
	if err := decodeJSON(phases, &rec.Phases); err != nil {
		return nil, err
	}
	return &rec, nil
}
