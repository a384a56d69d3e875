package mocks

import (
	"context"
	"net/http"

	"github.com/geobase-api/internal/auth"
	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/service"
)

// MockTenantService is a mock implementation of TenantService
type MockTenantService struct {
	User        *models.User
	ResolveErr  error
	ResolveFunc func(ctx context.Context, identity *auth.Identity) (*models.User, error)
}

var _ service.TenantService = (*MockTenantService)(nil)

func (m *MockTenantService) Resolve(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, identity)
	}
	if m.ResolveErr != nil {
		return nil, m.ResolveErr
	}
	return m.User, nil
}

// MockCategoryService is a mock implementation of CategoryService
type MockCategoryService struct {
	Categories []models.Category
	CreateFunc func(ctx context.Context, clientID, name string) (*models.Category, error)
	DeleteErr  error
	Deleted    []string
}

var _ service.CategoryService = (*MockCategoryService)(nil)

func (m *MockCategoryService) List(ctx context.Context, clientID string) ([]models.Category, error) {
	return m.Categories, nil
}

func (m *MockCategoryService) ListNames(ctx context.Context, clientID string) ([]string, error) {
	names := make([]string, 0, len(m.Categories))
	for _, c := range m.Categories {
		names = append(names, c.Name)
	}
	return names, nil
}

func (m *MockCategoryService) Create(ctx context.Context, clientID, name string) (*models.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, clientID, name)
	}
	category := &models.Category{ID: "cat-mock", Name: name, ClientID: clientID}
	m.Categories = append(m.Categories, *category)
	return category, nil
}

func (m *MockCategoryService) DeleteByID(ctx context.Context, clientID, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockCategoryService) DeleteByName(ctx context.Context, clientID, name string) (bool, error) {
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	for _, c := range m.Categories {
		if c.Name == name {
			m.Deleted = append(m.Deleted, c.ID)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCategoryService) SeedDefaults(ctx context.Context, clientID string) ([]models.Category, error) {
	return m.Categories, nil
}

// MockSubmissionService is a mock implementation of SubmissionService
type MockSubmissionService struct {
	Submissions      []models.Submission
	CreateFunc       func(ctx context.Context, clientID string, input *models.SubmissionInput) (*models.Submission, error)
	CreateBulkFunc   func(ctx context.Context, clientID string, inputs []models.BulkSubmissionInput) ([]models.Submission, error)
	UpdateStatusFunc func(ctx context.Context, clientID, id string, status models.SubmissionStatus) error
	StatusUpdates    []string
	DeleteErr        error
	DeletedCount     int
	StatsResult      *models.Stats
	ExportCount      int
	ExportErr        error
}

var _ service.SubmissionService = (*MockSubmissionService)(nil)

func (m *MockSubmissionService) List(ctx context.Context, clientID string) ([]models.Submission, error) {
	return m.Submissions, nil
}

func (m *MockSubmissionService) Create(ctx context.Context, clientID string, input *models.SubmissionInput) (*models.Submission, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, clientID, input)
	}
	submission := &models.Submission{
		ID:       "sub-mock",
		Question: input.Question,
		Answer:   input.Answer,
		ClientID: clientID,
		Status:   models.StatusNew,
	}
	m.Submissions = append(m.Submissions, *submission)
	return submission, nil
}

func (m *MockSubmissionService) CreateBulk(ctx context.Context, clientID string, inputs []models.BulkSubmissionInput) ([]models.Submission, error) {
	if m.CreateBulkFunc != nil {
		return m.CreateBulkFunc(ctx, clientID, inputs)
	}
	created := make([]models.Submission, 0, len(inputs))
	for _, input := range inputs {
		created = append(created, models.Submission{
			Question: input.Question,
			Answer:   input.Answer,
			Category: input.CategoryName,
			ClientID: clientID,
			Status:   models.StatusNew,
		})
	}
	m.Submissions = append(m.Submissions, created...)
	return created, nil
}

func (m *MockSubmissionService) UpdateStatus(ctx context.Context, clientID, id string, status models.SubmissionStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, clientID, id, status)
	}
	m.StatusUpdates = append(m.StatusUpdates, id)
	return nil
}

func (m *MockSubmissionService) Delete(ctx context.Context, clientID, id string) error {
	return m.DeleteErr
}

func (m *MockSubmissionService) DeleteMany(ctx context.Context, clientID string, ids []string) (int, error) {
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	return m.DeletedCount, nil
}

func (m *MockSubmissionService) Stats(ctx context.Context, clientID string) (*models.Stats, error) {
	if m.StatsResult != nil {
		return m.StatsResult, nil
	}
	return &models.Stats{}, nil
}

func (m *MockSubmissionService) Export(ctx context.Context, clientID, format string, w http.ResponseWriter) (int, error) {
	if m.ExportErr != nil {
		return 0, m.ExportErr
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Write([]byte("question,answer\n"))
	return m.ExportCount, nil
}

// MockSuggestService is a mock implementation of SuggestService
type MockSuggestService struct {
	Suggestions []string
	Answer      string
	Err         error
}

var _ service.SuggestService = (*MockSuggestService)(nil)

func (m *MockSuggestService) SuggestQuestions(ctx context.Context, question, category string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Suggestions, nil
}

func (m *MockSuggestService) SuggestAnswer(ctx context.Context, question, category string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Answer, nil
}

// MockNotifier records notification calls without any network activity
type MockNotifier struct {
	NewUsers       []string
	NewSubmissions []string
	ImportCounts   []int
	ExportCounts   []int
}

var _ service.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) NewUser(email, name string) {
	m.NewUsers = append(m.NewUsers, email)
}

func (m *MockNotifier) NewSubmission(question, category, userEmail string) {
	m.NewSubmissions = append(m.NewSubmissions, question)
}

func (m *MockNotifier) Imported(count int, userEmail string) {
	m.ImportCounts = append(m.ImportCounts, count)
}

func (m *MockNotifier) Exported(count int, userEmail string) {
	m.ExportCounts = append(m.ExportCounts, count)
}
