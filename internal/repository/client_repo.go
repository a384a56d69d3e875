package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/geobase-api/internal/database"
	"github.com/geobase-api/internal/models"
)

// clientRepo is the concrete implementation of ClientRepository
type clientRepo struct {
	db *database.DB
}

// NewClientRepo creates a new client repository
func NewClientRepo(db *database.DB) ClientRepository {
	return &clientRepo{db: db}
}

// Create inserts a new client
func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	now := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query,
		client.ID, client.Name, client.Slug, client.CreatedAt, client.UpdatedAt,
	)
	return err
}

// GetByID retrieves a client by ID
func (r *clientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	query := `SELECT id, name, slug, created_at, updated_at FROM clients WHERE id = $1`

	var client models.Client
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID, &client.Name, &client.Slug, &client.CreatedAt, &client.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &client, nil
}

// SlugExists checks if a client with the given slug exists
func (r *clientRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM clients WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}
