package api

import (
	"fmt"
	"net/http"

	"github.com/geobase-api/internal/config"
	"github.com/geobase-api/internal/importer"
	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ImportHandler handles bulk import preview
type ImportHandler struct {
	services *service.Services
	cfg      *config.Config
	sheets   *importer.SheetFetcher
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		cfg:      cfg,
		sheets:   importer.NewSheetFetcher(cfg.Import.FetchTimeout),
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// Preview handles POST /import/preview.
// Accepts either a multipart file upload (CSV or XLSX) or a JSON body
// with a Google Sheets URL. Rows are parsed, mapped through the bilingual
// column aliases and validated against the client's categories; nothing
// is persisted. The client submits the valid rows to /submissions/bulk.
func (h *ImportHandler) Preview(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	rows, err := h.readRows(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, err := h.services.Category.ListNames(ctx, user.ClientID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	validated := importer.ValidateRows(rows, categories)

	preview := &models.ImportPreview{
		Rows:      validated,
		TotalRows: len(validated),
	}
	for _, row := range validated {
		if row.Valid {
			preview.ValidCount++
		} else {
			preview.InvalidCount++
		}
	}

	if max := h.cfg.Import.PreviewRows; len(preview.Rows) > max {
		preview.Rows = preview.Rows[:max]
		preview.Truncated = true
	}

	h.log.Info().
		Str("client_id", user.ClientID).
		Int("total", preview.TotalRows).
		Int("valid", preview.ValidCount).
		Int("invalid", preview.InvalidCount).
		Msg("Import preview generated")

	c.JSON(http.StatusOK, preview)
}

// readRows extracts raw rows from either upload form: a multipart file
// or a JSON body carrying a spreadsheet URL.
func (h *ImportHandler) readRows(c *gin.Context) ([]models.RawRow, error) {
	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()

		if header.Size > h.cfg.Import.MaxUploadSize {
			return nil, fmt.Errorf("file too large, max size is %d MB", h.cfg.Import.MaxUploadSize/(1024*1024))
		}
		return importer.Parse(header.Filename, file)
	}

	var req struct {
		SheetURL string `json:"sheet_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SheetURL == "" {
		return nil, fmt.Errorf("file upload or sheet_url is required")
	}
	return h.sheets.FetchCSV(c.Request.Context(), req.SheetURL)
}
