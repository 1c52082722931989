package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/httpx"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
)

// ListTastingsHandler handles GET /tastings requests.
type ListTastingsHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewListTastingsHandler returns a ListTastingsHandler backed by the given services.
func NewListTastingsHandler(a *app.Application, svc *appsvcs.Services) *ListTastingsHandler {
	return &ListTastingsHandler{app: a, svc: svc}
}

// Execute lists the caller's tasting notes.
//
//	@Summary		List tasting notes
//	@Description	Device notes in insertion order for anonymous callers; the caller's notes newest first when signed in. all=true lists every taster's notes and requires an admin session.
//	@Tags			tastings
//	@Produce		json
//	@Param			all	query		bool	false	"List every taster's notes"
//	@Success		200	{array}		models.TastingRecord
//	@Failure		400	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/tastings [get]
func (h *ListTastingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var all bool
	if raw := r.URL.Query().Get("all"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "all must be a boolean")
			return
		}
		all = v
	}

	sess := sessionFromRequest(r)
	if all && sess.Authenticated() && !sess.CanListAll {
		httpx.JSONError(w, http.StatusForbidden, "listing every taster's notes requires an admin session")
		return
	}

	recs, err := h.svc.Sync.List(r.Context(), sess, appsvcs.ListOptions{All: all})
	if err != nil {
		writeError(w, h.app, err)
		return
	}
	httpx.JSON(w, http.StatusOK, recs)
}
