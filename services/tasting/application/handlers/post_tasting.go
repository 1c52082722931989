package handlers

import (
	"net/http"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/httpx"
	pkgvalidator "github.com/ghuser/blindtasting/pkg/validator"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
)

// CreateTastingRequest is the request body for POST /tastings.
type CreateTastingRequest struct {
	WineID         string   `json:"wineId"         validate:"required,max=64"                 example:"2"`
	Rating         int      `json:"rating"         validate:"gte=1,lte=10"                    example:"8"`
	PerceivedPrice float64  `json:"perceivedPrice" validate:"gte=0"                           example:"12.5"`
	Flavors        []string `json:"flavors"        validate:"omitempty,unique,dive,required,max=64" example:"citrus,green apple"`
	Comments       string   `json:"comments"       validate:"max=2000"                        example:"Crisp, long finish"`
} // @name CreateTastingRequest

// PostTastingHandler handles POST /tastings requests.
type PostTastingHandler struct {
	app *app.Application
	svc *appsvcs.Services
}

// NewPostTastingHandler returns a PostTastingHandler backed by the given services.
func NewPostTastingHandler(a *app.Application, svc *appsvcs.Services) *PostTastingHandler {
	return &PostTastingHandler{app: a, svc: svc}
}

// Execute records a new blind tasting note. The wine stays hidden until revealed.
//
//	@Summary		Record tasting note
//	@Description	Saves a hidden tasting note to the device store, or to the shared store when signed in
//	@Tags			tastings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTastingRequest	true	"Tasting note"
//	@Success		201		{object}	models.TastingRecord
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/tastings [post]
func (h *PostTastingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateTastingRequest](w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Sync.Record(req.WineID, req.Rating, req.PerceivedPrice, req.Flavors, req.Comments)
	if err != nil {
		writeError(w, h.app, err)
		return
	}

	sess := sessionFromRequest(r)
	if err := h.svc.Sync.Save(r.Context(), sess, rec); err != nil {
		writeError(w, h.app, err)
		return
	}
	rec.OwnerID = sess.UserID

	httpx.JSON(w, http.StatusCreated, rec)
}
