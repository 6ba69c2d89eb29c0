package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer, and an in-memory database exists only on
	// the connection that created it.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema if it does not exist yet.
func (db *DB) RunMigrations() error {
	migration := `
-- Double diamond projects. Each stage owns its own column group so a
-- generation only ever rewrites its own columns.
CREATE TABLE IF NOT EXISTS double_diamond_projects (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    exported_project_id TEXT,

    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    sector TEXT NOT NULL DEFAULT '',
    success_case TEXT NOT NULL DEFAULT '',
    custom_case TEXT NOT NULL DEFAULT '',
    custom_case_urls TEXT,
    target_audience TEXT NOT NULL DEFAULT '',
    problem_statement TEXT NOT NULL DEFAULT '',

    discover_status TEXT NOT NULL DEFAULT 'pending' CHECK(discover_status IN ('pending', 'in_progress', 'completed')),
    discover_payload TEXT,
    discover_generated_at TIMESTAMP,

    define_status TEXT NOT NULL DEFAULT 'pending' CHECK(define_status IN ('pending', 'in_progress', 'completed')),
    define_payload TEXT,
    define_generated_at TIMESTAMP,
    define_selected_pov TEXT,
    define_selected_hmw TEXT,

    develop_status TEXT NOT NULL DEFAULT 'pending' CHECK(develop_status IN ('pending', 'in_progress', 'completed')),
    develop_payload TEXT,
    develop_generated_at TIMESTAMP,
    develop_selected_ideas TEXT,

    deliver_status TEXT NOT NULL DEFAULT 'pending' CHECK(deliver_status IN ('pending', 'in_progress', 'completed')),
    deliver_payload TEXT,
    deliver_generated_at TIMESTAMP,

    dfv_status TEXT NOT NULL DEFAULT 'pending' CHECK(dfv_status IN ('pending', 'in_progress', 'completed')),
    dfv_payload TEXT,
    dfv_generated_at TIMESTAMP,

    -- cache only, recomputed from statuses on read
    current_phase TEXT NOT NULL DEFAULT 'discover',
    completion_percentage INTEGER NOT NULL DEFAULT 0,
    is_completed INTEGER NOT NULL DEFAULT 0,

    generation_count INTEGER NOT NULL DEFAULT 0,
    total_cost REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_user_diamonds ON double_diamond_projects(user_id);

-- Primary-model projects
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    source_diamond_id TEXT,
    source_export_id TEXT UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_user_projects ON projects(user_id);

CREATE TABLE IF NOT EXISTS empathy_entries (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    quadrant TEXT NOT NULL CHECK(quadrant IN ('says', 'thinks', 'does', 'feels', 'pains', 'gains')),
    content TEXT NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_project_empathy ON empathy_entries(project_id);

CREATE TABLE IF NOT EXISTS pov_statements (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    user_label TEXT NOT NULL DEFAULT '',
    need TEXT NOT NULL DEFAULT '',
    insight TEXT NOT NULL DEFAULT '',
    statement TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_project_povs ON pov_statements(project_id);

CREATE TABLE IF NOT EXISTS hmw_questions (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    question TEXT NOT NULL,
    focus TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_project_hmws ON hmw_questions(project_id);

CREATE TABLE IF NOT EXISTS ideas (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    cross_pollinated INTEGER NOT NULL DEFAULT 0,
    score INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_project_ideas ON ideas(project_id);

CREATE TABLE IF NOT EXISTS assets (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('mvp_concept', 'landing_page', 'test_plan', 'logo', 'social_copy', 'dfv_assessment')),
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_project_assets ON assets(project_id);

-- One row per export attempt
CREATE TABLE IF NOT EXISTS double_diamond_exports (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    diamond_id TEXT NOT NULL,
    project_id TEXT,
    target_name TEXT NOT NULL DEFAULT '',
    phases TEXT,
    cost REAL NOT NULL DEFAULT 0,
    status TEXT NOT NULL CHECK(status IN ('processing', 'completed', 'failed')),
    error TEXT NOT NULL DEFAULT '',
    attempts INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    completed_at TIMESTAMP,
    FOREIGN KEY (diamond_id) REFERENCES double_diamond_projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_diamond_exports ON double_diamond_exports(diamond_id);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    phase TEXT NOT NULL DEFAULT '',
    export_id TEXT,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_user_activity ON activity_log(user_id);
CREATE INDEX IF NOT EXISTS idx_project_activity ON activity_log(project_id);
CREATE INDEX IF NOT EXISTS idx_created_at ON activity_log(created_at);

-- API keys for authentication
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX IF NOT EXISTS idx_user_keys ON api_keys(user_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
