package api

import (
	"net/http"

	"github.com/geobase-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(services *service.Services, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		services: services,
		log:      log.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /categories. With namesOnly=true it returns a plain
// string array for form pickers.
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	if c.Query("namesOnly") == "true" {
		names, err := h.services.Category.ListNames(ctx, user.ClientID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, names)
		return
	}

	categories, err := h.services.Category.List(ctx, user.ClientID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	category, err := h.services.Category.Create(c.Request.Context(), currentUser(c).ClientID, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Delete handles DELETE /categories?id= or ?name=
func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	if id := c.Query("id"); id != "" {
		if err := h.services.Category.DeleteByID(ctx, user.ClientID, id); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if name := c.Query("name"); name != "" {
		found, err := h.services.Category.DeleteByName(ctx, user.ClientID, name)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": found})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "id or name query parameter is required"})
}

// SeedDefaults handles PUT /categories. Inserts the default category set
// for clients that have none yet and returns the full list either way.
func (h *CategoryHandler) SeedDefaults(c *gin.Context) {
	categories, err := h.services.Category.SeedDefaults(c.Request.Context(), currentUser(c).ClientID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
