package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/httpx"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
)

// RevealTastingHandler handles POST /tastings/{id}/reveal requests.
type RevealTastingHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewRevealTastingHandler returns a RevealTastingHandler backed by the given services.
func NewRevealTastingHandler(a *app.Application, svc *appsvcs.Services) *RevealTastingHandler {
	return &RevealTastingHandler{app: a, svc: svc}
}

// Execute discloses the wine behind a tasting note. Revealing twice is harmless.
//
//	@Summary		Reveal wine
//	@Description	Moves the note to revealed. A revealed note never becomes hidden again.
//	@Tags			tastings
//	@Produce		json
//	@Param			id	path		string	true	"Tasting note id"	format(uuid)
//	@Success		200	{object}	models.TastingRecord
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/tastings/{id}/reveal [post]
func (h *RevealTastingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "id must be a UUID")
		return
	}

	rec, err := h.svc.Sync.Reveal(r.Context(), sessionFromRequest(r), id)
	if err != nil {
		writeError(w, h.app, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}
