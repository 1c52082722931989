package handlers

import (
	"net/http"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/httpx"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
)

// ClearTastingsHandler handles DELETE /tastings requests.
type ClearTastingsHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewClearTastingsHandler returns a ClearTastingsHandler backed by the given services.
func NewClearTastingsHandler(a *app.Application, svc *appsvcs.Services) *ClearTastingsHandler {
	return &ClearTastingsHandler{app: a, svc: svc}
}

// Execute deletes the caller's notes.
//
//	@Summary		Clear tasting notes
//	@Description	Deletes every device note for anonymous callers, or the caller's own notes when signed in
//	@Tags			tastings
//	@Success		204
//	@Failure		503	{object}	ErrorResponse
//	@Router			/tastings [delete]
func (h *ClearTastingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Sync.Clear(r.Context(), sessionFromRequest(r)); err != nil {
		writeError(w, h.app, err)
		return
	}
	httpx.NoContent(w)
}
