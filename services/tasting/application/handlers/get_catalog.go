package handlers

import (
	"net/http"

	"github.com/ghuser/blindtasting/pkg/httpx"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
)

// GetCatalogHandler handles GET /catalog requests.
type GetCatalogHandler struct {
	svc *appsvcs.Services
}

// NewGetCatalogHandler returns a GetCatalogHandler backed by the given services.
func NewGetCatalogHandler(svc *appsvcs.Services) *GetCatalogHandler {
	return &GetCatalogHandler{svc: svc}
}

// Execute returns the wines in tasting order.
//
//	@Summary		Wine catalog
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}	catalog.Wine
//	@Router			/catalog [get]
func (h *GetCatalogHandler) Execute(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, h.svc.Sync.Catalog().All())
}
