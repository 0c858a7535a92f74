package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/peerconnect/backend/internal/domain"
)

// ListMaterials GET /api/materials
func (h *Handler) ListMaterials(c echo.Context) error {
	f := domain.MaterialFilter{
		Module: c.QueryParam("module"),
		Type:   c.QueryParam("type"),
		Search: c.QueryParam("search"),
		Page:   parseIntQuery(c, "page", 1),
		Limit:  parseIntQuery(c, "limit", domain.DefaultFeedLimit),
	}
	if y, err := strconv.Atoi(c.QueryParam("year")); err == nil {
		f.Year = &y
	}

	materials, err := h.materials.List(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "materials": materials})
}

// UploadMaterial POST /api/materials — the file itself lives in external
// object storage; the body carries the already-resolved URL or link.
func (h *Handler) UploadMaterial(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Module      string `json:"module"`
		Year        *int   `json:"year"`
		Type        string `json:"type"`
		Description string `json:"description"`
		FileURL     string `json:"file_url"`
		Link        string `json:"link"`
	}
	if err := c.Bind(&body); err != nil {
		return h.fail(c, domain.ErrValidation)
	}

	m, err := h.materials.Upload(c.Request().Context(), domain.CreateMaterialInput{
		Title:       body.Title,
		Module:      body.Module,
		Year:        body.Year,
		Type:        body.Type,
		Description: body.Description,
		FileURL:     body.FileURL,
		Link:        body.Link,
		UploaderID:  mustStudent(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "material": m})
}

// DownloadMaterial GET /api/materials/:id/download — gated on having
// uploaded at least once. External URLs redirect; storage paths are
// returned for the client to resolve against the file host.
func (h *Handler) DownloadMaterial(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return h.fail(c, err)
	}

	m, err := h.materials.Download(c.Request().Context(), id, mustStudent(c))
	if err != nil {
		return h.fail(c, err)
	}

	if strings.HasPrefix(m.FileURL, "http://") || strings.HasPrefix(m.FileURL, "https://") {
		return c.Redirect(http.StatusFound, m.FileURL)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "file_url": m.FileURL})
}
