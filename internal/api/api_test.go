package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geobase-api/internal/api"
	"github.com/geobase-api/internal/apperror"
	"github.com/geobase-api/internal/auth"
	"github.com/geobase-api/internal/config"
	"github.com/geobase-api/internal/mocks"
	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const testSecret = "test-secret-at-least-16-chars"

type routerHarness struct {
	router      *gin.Engine
	tokens      *auth.TokenService
	tenant      *mocks.MockTenantService
	categories  *mocks.MockCategoryService
	submissions *mocks.MockSubmissionService
	suggest     *mocks.MockSuggestService
	notifier    *mocks.MockNotifier
}

func setupTestRouter(t *testing.T) *routerHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService(testSecret, "geobase-identity")
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	tenant := &mocks.MockTenantService{
		User: &models.User{ID: "user-1", Email: "dana@example.com", ClientID: "client-1"},
	}
	categories := &mocks.MockCategoryService{}
	submissions := &mocks.MockSubmissionService{}
	suggest := &mocks.MockSuggestService{}
	notifier := &mocks.MockNotifier{}

	services := &service.Services{
		Tenant:     tenant,
		Category:   categories,
		Submission: submissions,
		Suggest:    suggest,
		Notify:     notifier,
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Import: config.ImportConfig{
			MaxUploadSize: 10 * 1024 * 1024,
			PreviewRows:   50,
			FetchTimeout:  time.Second,
		},
	}

	router := api.NewRouter(services, cfg, tokens, zerolog.Nop())

	return &routerHarness{
		router:      router,
		tokens:      tokens,
		tenant:      tenant,
		categories:  categories,
		submissions: submissions,
		suggest:     suggest,
		notifier:    notifier,
	}
}

func (h *routerHarness) request(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	token, err := h.tokens.Sign(auth.Identity{Subject: "ext-1", Email: "dana@example.com"}, time.Minute)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	h := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	h := setupTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/categories"},
		{"GET", "/submissions"},
		{"GET", "/stats"},
		{"POST", "/suggest-questions"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	h := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/categories", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for malformed token, got %d", w.Code)
	}
}

func TestListCategories(t *testing.T) {
	h := setupTestRouter(t)
	h.categories.Categories = []models.Category{
		{ID: "cat-1", Name: "מחירים"},
		{ID: "cat-2", Name: "כללי"},
	}

	w := h.request(t, "GET", "/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var categories []models.Category
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("Expected 2 categories, got %d", len(categories))
	}
}

func TestListCategories_NamesOnly(t *testing.T) {
	h := setupTestRouter(t)
	h.categories.Categories = []models.Category{{ID: "cat-1", Name: "מחירים"}}

	w := h.request(t, "GET", "/categories?namesOnly=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var names []string
	if err := json.Unmarshal(w.Body.Bytes(), &names); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(names) != 1 || names[0] != "מחירים" {
		t.Errorf("Expected plain name array, got %v", names)
	}
}

func TestCreateCategory(t *testing.T) {
	h := setupTestRouter(t)

	body, _ := json.Marshal(map[string]string{"name": "השמה"})
	w := h.request(t, "POST", "/categories", body)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateCategory_Conflict(t *testing.T) {
	h := setupTestRouter(t)
	h.categories.CreateFunc = func(ctx context.Context, clientID, name string) (*models.Category, error) {
		return nil, apperror.Conflict("category already exists")
	}

	body, _ := json.Marshal(map[string]string{"name": "קיימת"})
	w := h.request(t, "POST", "/categories", body)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", w.Code)
	}
}

func TestDeleteCategory_MissingParams(t *testing.T) {
	h := setupTestRouter(t)

	w := h.request(t, "DELETE", "/categories", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without id or name, got %d", w.Code)
	}
}

func TestDeleteSubmissions_ByIDs(t *testing.T) {
	h := setupTestRouter(t)
	h.submissions.DeletedCount = 2

	w := h.request(t, "DELETE", "/submissions?ids=sub-1,sub-2,missing", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("Expected count 2, got %d", resp.Count)
	}
}

func TestDeleteSubmissions_MissingParams(t *testing.T) {
	h := setupTestRouter(t)

	w := h.request(t, "DELETE", "/submissions", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without id or ids, got %d", w.Code)
	}
}

func TestUpdateSubmissionStatus(t *testing.T) {
	h := setupTestRouter(t)

	body, _ := json.Marshal(map[string]string{"status": "in_article"})
	w := h.request(t, "PATCH", "/submissions?id=sub-1", body)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(h.submissions.StatusUpdates) != 1 || h.submissions.StatusUpdates[0] != "sub-1" {
		t.Errorf("Expected status update for sub-1, got %v", h.submissions.StatusUpdates)
	}
}

func TestUpdateSubmissionStatus_MissingParams(t *testing.T) {
	h := setupTestRouter(t)

	body, _ := json.Marshal(map[string]string{"status": "published"})
	w := h.request(t, "PATCH", "/submissions", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without id, got %d", w.Code)
	}

	w = h.request(t, "PATCH", "/submissions?id=sub-1", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without status, got %d", w.Code)
	}
}

func TestUpdateSubmissionStatus_InvalidStatus(t *testing.T) {
	h := setupTestRouter(t)
	h.submissions.UpdateStatusFunc = func(ctx context.Context, clientID, id string, status models.SubmissionStatus) error {
		return apperror.Validation("invalid status")
	}

	body, _ := json.Marshal(map[string]string{"status": "archived"})
	w := h.request(t, "PATCH", "/submissions?id=sub-1", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid status, got %d", w.Code)
	}
}

func TestCreateSubmission_FiresNotification(t *testing.T) {
	h := setupTestRouter(t)

	body, _ := json.Marshal(models.SubmissionInput{
		Question:   "כמה עולה הקורס?",
		Answer:     "תלוי במסלול",
		CategoryID: "cat-1",
	})
	w := h.request(t, "POST", "/submissions", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(h.notifier.NewSubmissions) != 1 {
		t.Errorf("Expected one notification, got %d", len(h.notifier.NewSubmissions))
	}
}

func TestCreateBulkSubmissions_NotArray(t *testing.T) {
	h := setupTestRouter(t)

	body, _ := json.Marshal(map[string]string{"question": "שאלה"})
	w := h.request(t, "POST", "/submissions/bulk", body)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-array body, got %d", w.Code)
	}
}

func TestCreateBulkSubmissions(t *testing.T) {
	h := setupTestRouter(t)

	body, _ := json.Marshal([]models.BulkSubmissionInput{
		{Question: "שאלה 1", Answer: "תשובה 1", CategoryName: "כללי"},
		{Question: "שאלה 2", Answer: "תשובה 2", CategoryName: "כללי"},
	})
	w := h.request(t, "POST", "/submissions/bulk", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(h.notifier.ImportCounts) != 1 || h.notifier.ImportCounts[0] != 2 {
		t.Errorf("Expected import notification with count 2, got %v", h.notifier.ImportCounts)
	}
}

func TestStats(t *testing.T) {
	h := setupTestRouter(t)
	h.submissions.StatsResult = &models.Stats{NewSubmissions: 5, ArticlesInProgress: 2, PublishedArticles: 1}

	w := h.request(t, "GET", "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var stats models.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats.NewSubmissions != 5 {
		t.Errorf("Expected 5 new submissions, got %d", stats.NewSubmissions)
	}
}

func TestExport_FiresNotification(t *testing.T) {
	h := setupTestRouter(t)
	h.submissions.ExportCount = 7

	w := h.request(t, "GET", "/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if len(h.notifier.ExportCounts) != 1 || h.notifier.ExportCounts[0] != 7 {
		t.Errorf("Expected export notification with count 7, got %v", h.notifier.ExportCounts)
	}
}

func TestImportPreview_CSVUpload(t *testing.T) {
	h := setupTestRouter(t)
	h.categories.Categories = []models.Category{{ID: "cat-1", Name: "מחירים"}}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "questions.csv")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write([]byte("שאלה,תשובה,קטגוריה\nכמה עולה?,אלף שקל,מחירים\nמה כולל?,הכל,לא קיימת\n"))
	mw.Close()

	req := httptest.NewRequest("POST", "/import/preview", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	token, _ := h.tokens.Sign(auth.Identity{Subject: "ext-1"}, time.Minute)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var preview models.ImportPreview
	if err := json.Unmarshal(w.Body.Bytes(), &preview); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if preview.TotalRows != 2 {
		t.Errorf("Expected 2 rows, got %d", preview.TotalRows)
	}
	if preview.ValidCount != 1 || preview.InvalidCount != 1 {
		t.Errorf("Expected 1 valid and 1 invalid, got %d / %d", preview.ValidCount, preview.InvalidCount)
	}
}

func TestImportPreview_MissingInput(t *testing.T) {
	h := setupTestRouter(t)

	w := h.request(t, "POST", "/import/preview", []byte("{}"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without file or sheet_url, got %d", w.Code)
	}
}

func TestSuggestQuestions(t *testing.T) {
	h := setupTestRouter(t)
	h.suggest.Suggestions = []string{"שאלה א", "שאלה ב", "שאלה ג"}

	body, _ := json.Marshal(map[string]string{"question": "כמה עולה?", "category": "מחירים"})
	w := h.request(t, "POST", "/suggest-questions", body)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "suggestions") {
		t.Errorf("Expected suggestions field, got %s", w.Body.String())
	}
}

func TestSuggestQuestions_MissingQuestion(t *testing.T) {
	h := setupTestRouter(t)

	body, _ := json.Marshal(map[string]string{"category": "מחירים"})
	w := h.request(t, "POST", "/suggest-questions", body)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing question, got %d", w.Code)
	}
}

func TestSuggestAnswer(t *testing.T) {
	h := setupTestRouter(t)
	h.suggest.Answer = "אנחנו מציעים [מסלול] במחיר [מחיר]."

	body, _ := json.Marshal(map[string]string{"question": "כמה עולה?"})
	w := h.request(t, "POST", "/suggest-answer", body)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "answer") {
		t.Errorf("Expected answer field, got %s", w.Body.String())
	}
}
