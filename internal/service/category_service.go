package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/geobase-api/internal/apperror"
	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// categoryService is the concrete implementation of CategoryService
type categoryService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newCategoryService creates a new CategoryService
func newCategoryService(repos *repository.Repositories, log zerolog.Logger) *categoryService {
	return &categoryService{
		repos: repos,
		log:   log.With().Str("service", "category").Logger(),
	}
}

// List returns the client's categories ordered by name
func (s *categoryService) List(ctx context.Context, clientID string) ([]models.Category, error) {
	return s.repos.Category.ListByClient(ctx, clientID)
}

// ListNames returns the client's category names only, for form pickers
func (s *categoryService) ListNames(ctx context.Context, clientID string) ([]string, error) {
	categories, err := s.repos.Category.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names, nil
}

// Create inserts a new category. An explicit create of an existing name is
// a domain conflict, not a driver error.
func (s *categoryService) Create(ctx context.Context, clientID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	category := &models.Category{
		ID:       uuid.New().String(),
		Name:     name,
		ClientID: clientID,
	}
	if err := s.repos.Category.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperror.Conflict("category already exists")
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return category, nil
}

// DeleteByID removes a category by ID. A missing ID is a not-found error.
func (s *categoryService) DeleteByID(ctx context.Context, clientID, id string) error {
	found, err := s.repos.Category.DeleteByID(ctx, clientID, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if !found {
		return apperror.NotFound("category", id)
	}
	return nil
}

// DeleteByName resolves a name to an ID and deletes it. A missing name is
// not an error; the return value reports whether a match was found.
func (s *categoryService) DeleteByName(ctx context.Context, clientID, name string) (bool, error) {
	category, err := s.repos.Category.GetByName(ctx, clientID, name)
	if err != nil {
		return false, fmt.Errorf("resolving category name: %w", err)
	}
	if category == nil {
		return false, nil
	}

	found, err := s.repos.Category.DeleteByID(ctx, clientID, category.ID)
	if err != nil {
		return false, fmt.Errorf("deleting category: %w", err)
	}
	return found, nil
}

// SeedDefaults inserts the default category set if the client has zero
// categories, then returns the full list. Safe to call on every page
// load: once the client has any category this is a no-op.
func (s *categoryService) SeedDefaults(ctx context.Context, clientID string) ([]models.Category, error) {
	count, err := s.repos.Category.CountByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}

	if count == 0 {
		defaults := make([]*models.Category, 0, len(models.DefaultCategories))
		for _, name := range models.DefaultCategories {
			defaults = append(defaults, &models.Category{
				ID:       uuid.New().String(),
				Name:     name,
				ClientID: clientID,
			})
		}
		if err := s.repos.Category.CreateMany(ctx, defaults); err != nil {
			// A concurrent request seeded first; fall through to the list
			if !repository.IsUniqueViolation(err) {
				return nil, fmt.Errorf("seeding categories: %w", err)
			}
			s.log.Debug().Str("client_id", clientID).Msg("Seed raced with concurrent request")
		} else {
			s.log.Info().Str("client_id", clientID).Int("count", len(defaults)).Msg("Seeded default categories")
		}
	}

	return s.repos.Category.ListByClient(ctx, clientID)
}

// ensureCategory resolves a category name to its row, creating it when
// absent. A create racing a concurrent create for the same name loses the
// unique constraint and resolves to the now-existing row.
func (s *categoryService) ensureCategory(ctx context.Context, clientID, name string) (*models.Category, error) {
	category, err := s.repos.Category.GetByName(ctx, clientID, name)
	if err != nil {
		return nil, fmt.Errorf("resolving category name: %w", err)
	}
	if category != nil {
		return category, nil
	}

	category = &models.Category{
		ID:       uuid.New().String(),
		Name:     name,
		ClientID: clientID,
	}
	if err := s.repos.Category.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			existing, lookupErr := s.repos.Category.GetByName(ctx, clientID, name)
			if lookupErr != nil || existing == nil {
				return nil, fmt.Errorf("creating category: %w", err)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return category, nil
}
