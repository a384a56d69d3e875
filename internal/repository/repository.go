package repository

import (
	"context"
	"errors"

	"github.com/geobase-api/internal/database"
	"github.com/geobase-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ClientRepository defines the interface for client (tenant) data operations
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, email, name string) error
}

// CategoryRepository defines the interface for category data operations.
// Every method is scoped to a single client.
type CategoryRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]models.Category, error)
	GetByID(ctx context.Context, clientID, id string) (*models.Category, error)
	GetByName(ctx context.Context, clientID, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	CreateMany(ctx context.Context, categories []*models.Category) error
	DeleteByID(ctx context.Context, clientID, id string) (bool, error)
	CountByClient(ctx context.Context, clientID string) (int, error)
}

// SubmissionRepository defines the interface for submission data operations.
// Every method is scoped to a single client.
type SubmissionRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	BatchInsert(ctx context.Context, submissions []*models.Submission) (int, error)
	UpdateStatus(ctx context.Context, clientID, id string, status models.SubmissionStatus) (bool, error)
	Delete(ctx context.Context, clientID, id string) (bool, error)
	DeleteMany(ctx context.Context, clientID string, ids []string) (int, error)
	CountByStatus(ctx context.Context, clientID string, status models.SubmissionStatus) (int, error)
	StreamByClient(ctx context.Context, clientID string, callback func(*models.Submission) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Client     ClientRepository
	User       UserRepository
	Category   CategoryRepository
	Submission SubmissionRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Client:     NewClientRepo(db),
		User:       NewUserRepo(db),
		Category:   NewCategoryRepo(db),
		Submission: NewSubmissionRepo(db),
	}
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Callers use this to turn races on (name, client) inserts into
// domain conflicts instead of surfacing driver errors.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// isUUID reports whether s parses as a UUID. ID columns are typed uuid, so
// a malformed caller-supplied ID cannot match any row; lookups and deletes
// check this up front and report no-match instead of a driver cast error.
func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}

// filterUUIDs returns the well-formed IDs from ids, preserving order
func filterUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			out = append(out, id)
		}
	}
	return out
}
