package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/repository"
	"github.com/lib/pq"
)

// UniqueViolation returns the driver error a duplicate insert produces,
// so mocks can simulate constraint races the way Postgres reports them.
func UniqueViolation() error {
	return &pq.Error{Code: "23505"}
}

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	Clients     map[string]*models.Client
	Slugs       map[string]bool
	CreateError error
}

var _ repository.ClientRepository = (*MockClientRepository)(nil)

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		Clients: make(map[string]*models.Client),
		Slugs:   make(map[string]bool),
	}
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if m.Slugs[client.Slug] {
		return UniqueViolation()
	}
	m.Clients[client.ID] = client
	m.Slugs[client.Slug] = true
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	return m.Clients[id], nil
}

func (m *MockClientRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return m.Slugs[slug], nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User // keyed by external ID
	CreateError error
	UpdateError error
	UpdateCalls int
	CreateCalls int
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Users[user.ExternalID]; exists {
		return UniqueViolation()
	}
	m.Users[user.ExternalID] = user
	return nil
}

func (m *MockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return m.Users[externalID], nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id, email, name string) error {
	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	for _, u := range m.Users {
		if u.ID == id {
			u.Email = email
			u.Name = name
			return nil
		}
	}
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories  map[string]*models.Category // keyed by ID
	CreateError error
	CreateCalls int
}

var _ repository.CategoryRepository = (*MockCategoryRepository)(nil)

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[string]*models.Category),
	}
}

func (m *MockCategoryRepository) ListByClient(ctx context.Context, clientID string) ([]models.Category, error) {
	categories := []models.Category{}
	for _, c := range m.Categories {
		if c.ClientID == clientID {
			categories = append(categories, *c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, clientID, id string) (*models.Category, error) {
	c, ok := m.Categories[id]
	if !ok || c.ClientID != clientID {
		return nil, nil
	}
	return c, nil
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, clientID, name string) (*models.Category, error) {
	for _, c := range m.Categories {
		if c.ClientID == clientID && c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	for _, c := range m.Categories {
		if c.ClientID == category.ClientID && c.Name == category.Name {
			return UniqueViolation()
		}
	}
	m.Categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) CreateMany(ctx context.Context, categories []*models.Category) error {
	for _, c := range categories {
		if err := m.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockCategoryRepository) DeleteByID(ctx context.Context, clientID, id string) (bool, error) {
	c, ok := m.Categories[id]
	if !ok || c.ClientID != clientID {
		return false, nil
	}
	delete(m.Categories, id)
	return true, nil
}

func (m *MockCategoryRepository) CountByClient(ctx context.Context, clientID string) (int, error) {
	count := 0
	for _, c := range m.Categories {
		if c.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	Submissions map[string]*models.Submission // keyed by ID
	InsertError error
	BatchCalls  int
}

var _ repository.SubmissionRepository = (*MockSubmissionRepository)(nil)

func NewMockSubmissionRepository() *MockSubmissionRepository {
	return &MockSubmissionRepository{
		Submissions: make(map[string]*models.Submission),
	}
}

func (m *MockSubmissionRepository) ListByClient(ctx context.Context, clientID string) ([]models.Submission, error) {
	submissions := []models.Submission{}
	for _, s := range m.Submissions {
		if s.ClientID == clientID {
			submissions = append(submissions, *s)
		}
	}
	sort.Slice(submissions, func(i, j int) bool {
		if submissions[i].CreatedAt.Equal(submissions[j].CreatedAt) {
			return strings.Compare(submissions[i].ID, submissions[j].ID) < 0
		}
		return submissions[i].CreatedAt.After(submissions[j].CreatedAt)
	})
	return submissions, nil
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Submissions[submission.ID] = submission
	return nil
}

func (m *MockSubmissionRepository) BatchInsert(ctx context.Context, submissions []*models.Submission) (int, error) {
	m.BatchCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, s := range submissions {
		m.Submissions[s.ID] = s
	}
	return len(submissions), nil
}

func (m *MockSubmissionRepository) UpdateStatus(ctx context.Context, clientID, id string, status models.SubmissionStatus) (bool, error) {
	s, ok := m.Submissions[id]
	if !ok || s.ClientID != clientID {
		return false, nil
	}
	s.Status = status
	return true, nil
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, clientID, id string) (bool, error) {
	s, ok := m.Submissions[id]
	if !ok || s.ClientID != clientID {
		return false, nil
	}
	delete(m.Submissions, id)
	return true, nil
}

func (m *MockSubmissionRepository) DeleteMany(ctx context.Context, clientID string, ids []string) (int, error) {
	count := 0
	for _, id := range ids {
		found, _ := m.Delete(ctx, clientID, id)
		if found {
			count++
		}
	}
	return count, nil
}

func (m *MockSubmissionRepository) CountByStatus(ctx context.Context, clientID string, status models.SubmissionStatus) (int, error) {
	count := 0
	for _, s := range m.Submissions {
		if s.ClientID == clientID && s.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockSubmissionRepository) StreamByClient(ctx context.Context, clientID string, callback func(*models.Submission) error) error {
	submissions, _ := m.ListByClient(ctx, clientID)
	for i := range submissions {
		if err := callback(&submissions[i]); err != nil {
			return err
		}
	}
	return nil
}

// NewMockRepositories bundles fresh mocks into the shape services expect
func NewMockRepositories() (*repository.Repositories, *MockClientRepository, *MockUserRepository, *MockCategoryRepository, *MockSubmissionRepository) {
	clients := NewMockClientRepository()
	users := NewMockUserRepository()
	categories := NewMockCategoryRepository()
	submissions := NewMockSubmissionRepository()
	repos := &repository.Repositories{
		Client:     clients,
		User:       users,
		Category:   categories,
		Submission: submissions,
	}
	return repos, clients, users, categories, submissions
}
