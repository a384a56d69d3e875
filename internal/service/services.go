package service

import (
	"context"
	"net/http"

	"github.com/geobase-api/internal/auth"
	"github.com/geobase-api/internal/config"
	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/repository"
	"github.com/rs/zerolog"
)

// TenantService resolves authenticated identities to tenant-scoped users
type TenantService interface {
	Resolve(ctx context.Context, identity *auth.Identity) (*models.User, error)
}

// CategoryService defines category operations, all scoped by client ID
type CategoryService interface {
	List(ctx context.Context, clientID string) ([]models.Category, error)
	ListNames(ctx context.Context, clientID string) ([]string, error)
	Create(ctx context.Context, clientID, name string) (*models.Category, error)
	DeleteByID(ctx context.Context, clientID, id string) error
	DeleteByName(ctx context.Context, clientID, name string) (bool, error)
	SeedDefaults(ctx context.Context, clientID string) ([]models.Category, error)
}

// SubmissionService defines submission operations, all scoped by client ID
type SubmissionService interface {
	List(ctx context.Context, clientID string) ([]models.Submission, error)
	Create(ctx context.Context, clientID string, input *models.SubmissionInput) (*models.Submission, error)
	CreateBulk(ctx context.Context, clientID string, inputs []models.BulkSubmissionInput) ([]models.Submission, error)
	UpdateStatus(ctx context.Context, clientID, id string, status models.SubmissionStatus) error
	Delete(ctx context.Context, clientID, id string) error
	DeleteMany(ctx context.Context, clientID string, ids []string) (int, error)
	Stats(ctx context.Context, clientID string) (*models.Stats, error)
	Export(ctx context.Context, clientID, format string, w http.ResponseWriter) (int, error)
}

// SuggestService wraps the hosted generative-text model
type SuggestService interface {
	SuggestQuestions(ctx context.Context, question, category string) ([]string, error)
	SuggestAnswer(ctx context.Context, question, category string) (string, error)
}

// Notifier dispatches fire-and-forget webhook notifications. Calls return
// immediately; delivery failures are logged and swallowed, never
// propagated into the primary request.
type Notifier interface {
	NewUser(email, name string)
	NewSubmission(question, category, userEmail string)
	Imported(count int, userEmail string)
	Exported(count int, userEmail string)
}

// Services holds all service interfaces
type Services struct {
	Tenant     TenantService
	Category   CategoryService
	Submission SubmissionService
	Suggest    SuggestService
	Notify     Notifier
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	notifier := newWebhookNotifier(&cfg.Notify, log)

	var generator TextGenerator
	if cfg.AI.APIKey != "" {
		g, err := NewGeminiGenerator(context.Background(), &cfg.AI)
		if err != nil {
			log.Error().Err(err).Msg("Generative-text client unavailable, suggestions disabled")
		} else {
			generator = g
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, suggestions disabled")
	}

	categorySvc := newCategoryService(repos, log)

	return &Services{
		Tenant:     newTenantService(repos, notifier, log),
		Category:   categorySvc,
		Submission: newSubmissionService(repos, categorySvc, log),
		Suggest:    newSuggestService(generator, cfg.AI.Timeout, log),
		Notify:     notifier,
	}
}
