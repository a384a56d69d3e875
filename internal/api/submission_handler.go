package api

import (
	"net/http"
	"strings"

	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SubmissionHandler handles submission, stats and export endpoints
type SubmissionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(services *service.Services, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		services: services,
		log:      log.With().Str("handler", "submission").Logger(),
	}
}

// List handles GET /submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	submissions, err := h.services.Submission.List(c.Request.Context(), currentUser(c).ClientID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, submissions)
}

// Create handles POST /submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	var input models.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user := currentUser(c)
	submission, err := h.services.Submission.Create(c.Request.Context(), user.ClientID, &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.services.Notify.NewSubmission(submission.Question, submission.Category, user.Email)
	c.JSON(http.StatusCreated, submission)
}

// CreateBulk handles POST /submissions/bulk. The whole batch is inserted
// in one transaction; one bad row fails the lot.
func (h *SubmissionHandler) CreateBulk(c *gin.Context) {
	var inputs []models.BulkSubmissionInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be an array of submissions"})
		return
	}
	if len(inputs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one submission is required"})
		return
	}

	user := currentUser(c)
	submissions, err := h.services.Submission.CreateBulk(c.Request.Context(), user.ClientID, inputs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.services.Notify.Imported(len(submissions), user.Email)
	c.JSON(http.StatusCreated, submissions)
}

// UpdateStatus handles PATCH /submissions?id=
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id query parameter is required"})
		return
	}

	var req struct {
		Status models.SubmissionStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	if err := h.services.Submission.UpdateStatus(c.Request.Context(), currentUser(c).ClientID, id, req.Status); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete handles DELETE /submissions?id= or ?ids=a,b,c
func (h *SubmissionHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	if ids := c.Query("ids"); ids != "" {
		idList := []string{}
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				idList = append(idList, id)
			}
		}
		if len(idList) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ids query parameter is empty"})
			return
		}

		count, err := h.services.Submission.DeleteMany(ctx, user.ClientID, idList)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
		return
	}

	if id := c.Query("id"); id != "" {
		if err := h.services.Submission.Delete(ctx, user.ClientID, id); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "id or ids query parameter is required"})
}

// Stats handles GET /stats
func (h *SubmissionHandler) Stats(c *gin.Context) {
	stats, err := h.services.Submission.Stats(c.Request.Context(), currentUser(c).ClientID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Export handles GET /export?format=csv|json, streaming the client's
// submissions straight to the response.
func (h *SubmissionHandler) Export(c *gin.Context) {
	format := c.Query("format")
	if format == "" {
		format = "csv"
	}

	user := currentUser(c)
	count, err := h.services.Submission.Export(c.Request.Context(), user.ClientID, format, c.Writer)
	if err != nil {
		// Headers may already be gone; only respond if nothing was written
		if !c.Writer.Written() {
			respondError(c, h.log, err)
		} else {
			h.log.Error().Err(err).Str("format", format).Msg("Export failed mid-stream")
		}
		return
	}

	h.services.Notify.Exported(count, user.Email)
}
