package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safespace/support-portal/internal/core/ports"
)

// ResourcesHandler serves the resources and tools tabs.
type ResourcesHandler struct {
	catalog ports.CatalogService
}

func NewResourcesHandler(catalog ports.CatalogService) *ResourcesHandler {
	return &ResourcesHandler{catalog: catalog}
}

type promptResponse struct {
	Text string `json:"text"`
}

// Resources lists doctors and curated videos.
//
// @Summary   Resources
// @Tags      resources
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  ports.Resources
// @Router    /v1/resources [get]
func (h *ResourcesHandler) Resources(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Resources())
}

// Affirmation picks a random affirmation.
//
// @Summary   Random affirmation
// @Tags      wellness
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  promptResponse
// @Router    /v1/wellness/affirmation [get]
func (h *ResourcesHandler) Affirmation(c echo.Context) error {
	return c.JSON(http.StatusOK, promptResponse{Text: h.catalog.Affirmation()})
}

// Meditation picks a random meditation prompt.
//
// @Summary   Random meditation
// @Tags      wellness
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  promptResponse
// @Router    /v1/wellness/meditation [get]
func (h *ResourcesHandler) Meditation(c echo.Context) error {
	return c.JSON(http.StatusOK, promptResponse{Text: h.catalog.Meditation()})
}
