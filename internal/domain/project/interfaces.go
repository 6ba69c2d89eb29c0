package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	// CreateBundle stores a project and its entities in one transaction. When
	// a project with the same SourceExportID already exists its id is
	// returned and nothing is written.
	CreateBundle(ctx context.Context, userID string, bundle *Bundle) (string, error)
	Get(ctx context.Context, userID, id string) (*Project, error)
	GetBundle(ctx context.Context, userID, id string) (*Bundle, error)
	List(ctx context.Context, userID string) ([]ProjectSummary, error)
}
