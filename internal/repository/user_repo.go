package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/geobase-api/internal/database"
	"github.com/geobase-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, external_id, email, name, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.ExternalID, user.Email, user.Name, user.ClientID,
		user.CreatedAt, user.UpdatedAt,
	)
	return err
}

// GetByExternalID retrieves a user by the identity provider's subject
func (r *userRepo) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	query := `
		SELECT id, external_id, email, name, client_id, created_at, updated_at
		FROM users WHERE external_id = $1
	`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, externalID).Scan(
		&user.ID, &user.ExternalID, &user.Email, &user.Name, &user.ClientID,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateProfile refreshes email and display name from the identity provider
func (r *userRepo) UpdateProfile(ctx context.Context, id, email, name string) error {
	query := `UPDATE users SET email = $2, name = $3, updated_at = $4 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, email, name, time.Now())
	return err
}
