package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/auth"
	"github.com/ghuser/blindtasting/pkg/httpx"
	pkgvalidator "github.com/ghuser/blindtasting/pkg/validator"
)

// SignInRequest is the request body for POST /auth/sign-in.
type SignInRequest struct {
	Email string `json:"email" validate:"required,email,max=254" example:"taster@example.com"`
} // @name SignInRequest

// SessionResponse describes the caller's session.
type SessionResponse struct {
	Authenticated bool      `json:"authenticated" example:"true"`
	UserID        uuid.UUID `json:"userId,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Email         string    `json:"email,omitempty" example:"taster@example.com"`
	Admin         bool      `json:"admin" example:"false"`
	Backend       string    `json:"backend" example:"remote"`
} // @name SessionResponse

func sessionResponse(id auth.Identity, ok bool) SessionResponse {
	if !ok {
		return SessionResponse{Backend: "local"}
	}
	return SessionResponse{
		Authenticated: true,
		UserID:        id.UserID,
		Email:         id.Email,
		Admin:         id.Admin,
		Backend:       "remote",
	}
}

// SignInHandler handles POST /auth/sign-in requests.
type SignInHandler struct {
	app *app.Application
}

// NewSignInHandler returns a SignInHandler using the application's session store.
func NewSignInHandler(a *app.Application) *SignInHandler {
	return &SignInHandler{app: a}
}

// Execute signs the caller in. Subsequent requests are served by the shared store.
//
//	@Summary		Sign in
//	@Description	Starts a session for the given email. The same email always maps to the same taster.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SignInRequest	true	"Sign-in request"
//	@Success		200		{object}	SessionResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/auth/sign-in [post]
func (h *SignInHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SignInRequest](w, r)
	if !ok {
		return
	}

	var admins []string
	if h.app.Config != nil {
		admins = h.app.Config.Admins()
	}
	id, err := auth.IdentityForEmail(req.Email, admins)
	if err != nil {
		writeError(w, h.app, err)
		return
	}
	if err := auth.SignIn(w, r, h.app.SessionStore, id); err != nil {
		writeError(w, h.app, err)
		return
	}
	h.app.Logger.InfoContext(r.Context(), "taster signed in", "user_id", id.UserID, "admin", id.Admin)
	httpx.JSON(w, http.StatusOK, sessionResponse(id, true))
}

// SignOutHandler handles POST /auth/sign-out requests.
type SignOutHandler struct {
	app *app.Application
}

// NewSignOutHandler returns a SignOutHandler using the application's session store.
func NewSignOutHandler(a *app.Application) *SignOutHandler {
	return &SignOutHandler{app: a}
}

// Execute ends the caller's session. Later requests use the device store again.
//
//	@Summary		Sign out
//	@Tags			auth
//	@Success		204
//	@Router			/auth/sign-out [post]
func (h *SignOutHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r, h.app.SessionStore); err != nil {
		writeError(w, h.app, err)
		return
	}
	httpx.NoContent(w)
}

// GetSessionHandler handles GET /auth/session requests.
type GetSessionHandler struct{}

// NewGetSessionHandler returns a GetSessionHandler.
func NewGetSessionHandler() *GetSessionHandler {
	return &GetSessionHandler{}
}

// Execute reports who the caller is and which store serves them.
//
//	@Summary		Current session
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Router			/auth/session [get]
func (h *GetSessionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromCtx(r.Context())
	httpx.JSON(w, http.StatusOK, sessionResponse(id, err == nil))
}
