package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/geobase-api/internal/database"
	"github.com/geobase-api/internal/models"
	"github.com/lib/pq"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// ListByClient retrieves all categories for a client, ordered by name
func (r *categoryRepo) ListByClient(ctx context.Context, clientID string) ([]models.Category, error) {
	query := `
		SELECT id, name, client_id, created_at
		FROM categories WHERE client_id = $1 ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ClientID, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetByID retrieves a category by ID within a client. A malformed ID
// cannot match the uuid-typed column and reports no match.
func (r *categoryRepo) GetByID(ctx context.Context, clientID, id string) (*models.Category, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, name, client_id, created_at
		FROM categories WHERE client_id = $1 AND id = $2
	`

	var c models.Category
	err := r.db.QueryRowContext(ctx, query, clientID, id).Scan(
		&c.ID, &c.Name, &c.ClientID, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetByName retrieves a category by name within a client
func (r *categoryRepo) GetByName(ctx context.Context, clientID, name string) (*models.Category, error) {
	query := `
		SELECT id, name, client_id, created_at
		FROM categories WHERE client_id = $1 AND name = $2
	`

	var c models.Category
	err := r.db.QueryRowContext(ctx, query, clientID, name).Scan(
		&c.ID, &c.Name, &c.ClientID, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Create inserts a new category. A duplicate (client_id, name) surfaces as
// a unique violation; see IsUniqueViolation.
func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name, client_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.ClientID, category.CreatedAt,
	)
	return err
}

// CreateMany inserts multiple categories in one transaction using
// PostgreSQL COPY. Used by the default-category seeding path.
func (r *categoryRepo) CreateMany(ctx context.Context, categories []*models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("categories",
		"id", "name", "client_id", "created_at",
	))
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, c := range categories {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.ClientID, createdAt); err != nil {
			return err
		}
	}

	// Execute the COPY
	if _, err := stmt.ExecContext(ctx); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteByID removes a category scoped to a client. Returns whether a row
// was actually deleted; a malformed ID deletes nothing.
func (r *categoryRepo) DeleteByID(ctx context.Context, clientID, id string) (bool, error) {
	if !isUUID(id) {
		return false, nil
	}
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id = $1 AND client_id = $2", id, clientID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountByClient returns the number of categories a client has
func (r *categoryRepo) CountByClient(ctx context.Context, clientID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM categories WHERE client_id = $1", clientID).Scan(&count)
	return count, err
}
