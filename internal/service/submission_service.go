package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/geobase-api/internal/apperror"
	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// submissionService is the concrete implementation of SubmissionService
type submissionService struct {
	repos      *repository.Repositories
	categories *categoryService
	log        zerolog.Logger
}

// newSubmissionService creates a new SubmissionService
func newSubmissionService(repos *repository.Repositories, categories *categoryService, log zerolog.Logger) *submissionService {
	return &submissionService{
		repos:      repos,
		categories: categories,
		log:        log.With().Str("service", "submission").Logger(),
	}
}

// List returns the client's submissions, newest first, with category
// names denormalized.
func (s *submissionService) List(ctx context.Context, clientID string) ([]models.Submission, error) {
	return s.repos.Submission.ListByClient(ctx, clientID)
}

// Create inserts a single submission with status "new". The category may
// be referenced by ID or by name; a name that does not exist yet is
// created for this client first.
func (s *submissionService) Create(ctx context.Context, clientID string, input *models.SubmissionInput) (*models.Submission, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, apperror.Validation("question is required")
	}
	if strings.TrimSpace(input.Answer) == "" {
		return nil, apperror.Validation("answer is required")
	}

	var category *models.Category
	switch {
	case input.CategoryID != "":
		c, err := s.repos.Category.GetByID(ctx, clientID, input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("resolving category: %w", err)
		}
		if c == nil {
			return nil, apperror.NotFound("category", input.CategoryID)
		}
		category = c
	case strings.TrimSpace(input.CategoryName) != "":
		c, err := s.categories.ensureCategory(ctx, clientID, strings.TrimSpace(input.CategoryName))
		if err != nil {
			return nil, err
		}
		category = c
	default:
		return nil, apperror.Validation("categoryId or categoryName is required")
	}

	submission := &models.Submission{
		ID:         uuid.New().String(),
		Question:   input.Question,
		Answer:     input.Answer,
		CategoryID: category.ID,
		Category:   category.Name,
		ClientID:   clientID,
		Source:     input.Source,
		ImageURL:   input.ImageURL,
		WordCount:  input.WordCount,
		Status:     models.StatusNew,
	}
	if err := s.repos.Submission.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("creating submission: %w", err)
	}

	return submission, nil
}

// CreateBulk inserts a batch of submissions. Category names are resolved
// through a single prefetched name-to-ID map; missing categories are
// created once and reused by later rows in the same batch. The submission
// inserts themselves run in one transaction, so the batch is
// all-or-nothing (categories created on the way persist regardless).
func (s *submissionService) CreateBulk(ctx context.Context, clientID string, inputs []models.BulkSubmissionInput) ([]models.Submission, error) {
	existing, err := s.repos.Category.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	categoryIDs := make(map[string]string, len(existing))
	for _, c := range existing {
		categoryIDs[c.Name] = c.ID
	}

	submissions := make([]*models.Submission, 0, len(inputs))
	for i, input := range inputs {
		name := strings.TrimSpace(input.CategoryName)
		if strings.TrimSpace(input.Question) == "" || strings.TrimSpace(input.Answer) == "" || name == "" {
			return nil, apperror.Validation(fmt.Sprintf("row %d: question, answer and categoryName are required", i+1))
		}

		categoryID, ok := categoryIDs[name]
		if !ok {
			category, err := s.categories.ensureCategory(ctx, clientID, name)
			if err != nil {
				return nil, err
			}
			categoryID = category.ID
			categoryIDs[name] = categoryID
		}

		submissions = append(submissions, &models.Submission{
			ID:         uuid.New().String(),
			Question:   input.Question,
			Answer:     input.Answer,
			CategoryID: categoryID,
			Category:   name,
			ClientID:   clientID,
			Source:     input.Source,
			WordCount:  input.WordCount,
			Status:     models.StatusNew,
		})
	}

	inserted, err := s.repos.Submission.BatchInsert(ctx, submissions)
	if err != nil {
		return nil, fmt.Errorf("inserting submissions: %w", err)
	}

	s.log.Info().
		Str("client_id", clientID).
		Int("inserted", inserted).
		Msg("Bulk submissions created")

	result := make([]models.Submission, 0, len(submissions))
	for _, sub := range submissions {
		result = append(result, *sub)
	}
	return result, nil
}

// UpdateStatus moves a submission through its lifecycle (new, in_article,
// published) as the owner works it into an article.
func (s *submissionService) UpdateStatus(ctx context.Context, clientID, id string, status models.SubmissionStatus) error {
	if !models.ValidSubmissionStatuses[status] {
		return apperror.Validation(fmt.Sprintf("invalid status %q", status))
	}
	found, err := s.repos.Submission.UpdateStatus(ctx, clientID, id, status)
	if err != nil {
		return fmt.Errorf("updating submission status: %w", err)
	}
	if !found {
		return apperror.NotFound("submission", id)
	}
	return nil
}

// Delete removes one submission by ID. A submission owned by another
// client behaves exactly like a missing one.
func (s *submissionService) Delete(ctx context.Context, clientID, id string) error {
	found, err := s.repos.Submission.Delete(ctx, clientID, id)
	if err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}
	if !found {
		return apperror.NotFound("submission", id)
	}
	return nil
}

// DeleteMany removes submissions by ID and returns the count actually
// deleted, which may be less than requested when some IDs belong to
// another client.
func (s *submissionService) DeleteMany(ctx context.Context, clientID string, ids []string) (int, error) {
	count, err := s.repos.Submission.DeleteMany(ctx, clientID, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting submissions: %w", err)
	}
	return count, nil
}

// Stats returns the dashboard counters, all computed as submission-status
// counts.
func (s *submissionService) Stats(ctx context.Context, clientID string) (*models.Stats, error) {
	newCount, err := s.repos.Submission.CountByStatus(ctx, clientID, models.StatusNew)
	if err != nil {
		return nil, fmt.Errorf("counting submissions: %w", err)
	}
	inArticle, err := s.repos.Submission.CountByStatus(ctx, clientID, models.StatusInArticle)
	if err != nil {
		return nil, fmt.Errorf("counting submissions: %w", err)
	}
	published, err := s.repos.Submission.CountByStatus(ctx, clientID, models.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("counting submissions: %w", err)
	}

	return &models.Stats{
		NewSubmissions:     newCount,
		ArticlesInProgress: inArticle,
		PublishedArticles:  published,
	}, nil
}

// Export streams the client's submissions in the requested format and
// returns the exported row count.
func (s *submissionService) Export(ctx context.Context, clientID, format string, w http.ResponseWriter) (int, error) {
	switch format {
	case "csv":
		return s.exportCSV(ctx, clientID, w)
	case "json":
		return s.exportJSON(ctx, clientID, w)
	default:
		return 0, apperror.Validation(fmt.Sprintf("unsupported format: %s", format))
	}
}

func (s *submissionService) exportCSV(ctx context.Context, clientID string, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=submissions.csv")

	writer := csv.NewWriter(w)
	writer.Write([]string{"question", "answer", "category", "source", "status", "word_count", "created_at"})

	count := 0
	err := s.repos.Submission.StreamByClient(ctx, clientID, func(sub *models.Submission) error {
		count++
		return writer.Write([]string{
			sub.Question, sub.Answer, sub.Category, sub.Source,
			string(sub.Status), strconv.Itoa(sub.WordCount),
			sub.CreatedAt.Format(time.RFC3339),
		})
	})
	writer.Flush()

	if err == nil {
		err = writer.Error()
	}
	s.log.Info().Str("client_id", clientID).Int("count", count).Msg("CSV export completed")
	return count, err
}

func (s *submissionService) exportJSON(ctx context.Context, clientID string, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=submissions.json")

	w.Write([]byte("["))
	count := 0

	err := s.repos.Submission.StreamByClient(ctx, clientID, func(sub *models.Submission) error {
		if count > 0 {
			w.Write([]byte(","))
		}
		count++

		data, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})

	w.Write([]byte("]"))
	s.log.Info().Str("client_id", clientID).Int("count", count).Msg("JSON export completed")
	return count, err
}
