package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/doublediamond/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, userID string, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO activity_log (
			user_id, project_id, phase, export_id,
			activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		userID,
		entry.ProjectID,
		entry.Phase,
		entry.ExportID,
		entry.ActivityType,
		entry.Summary,
		entry.Details,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	entry.UserID = userID
	entry.CreatedAt = createdAt

	return nil
}

// List returns activity entries matching the given filters
func (r *ActivityRepository) List(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT
			id, user_id, project_id, phase, export_id,
			activity_type, summary, details, created_at
		FROM activity_log
		WHERE user_id = ?
	`

	args := []any{userID}
	conditions := []string{}

	if opts.ProjectID != "" {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.Phase != "" {
		conditions = append(conditions, "phase = ?")
		args = append(args, opts.Phase)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.ActivityEntry
	for rows.Next() {
		var entry activity.ActivityEntry
		var exportID sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.ProjectID,
			&entry.Phase,
			&exportID,
			&entry.ActivityType,
			&entry.Summary,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entry.ExportID = nullString(exportID)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
