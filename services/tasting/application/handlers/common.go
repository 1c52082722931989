package handlers

import (
	"net/http"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/auth"
	"github.com/ghuser/blindtasting/pkg/config"
	"github.com/ghuser/blindtasting/pkg/errhttp"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"tasting note not found"`
} // @name ErrorResponse

// sessionFromRequest derives the sync session from the identity attached by
// auth.LoadIdentity. Requests without one are anonymous.
func sessionFromRequest(r *http.Request) appsvcs.Session {
	id, err := auth.IdentityFromCtx(r.Context())
	if err != nil {
		return appsvcs.Session{}
	}
	return appsvcs.Session{UserID: id.UserID, Email: id.Email, CanListAll: id.Admin}
}

// visibleTo narrows an unscoped remote snapshot to what sess may see.
func visibleTo(sess appsvcs.Session, recs []models.TastingRecord) []models.TastingRecord {
	if !sess.Authenticated() || sess.CanListAll {
		return recs
	}
	out := make([]models.TastingRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.OwnerID == sess.UserID {
			out = append(out, rec)
		}
	}
	return out
}

func isProduction(a *app.Application) bool {
	return a != nil && a.Config != nil && a.Config.Environment == config.EnvProduction
}

func writeError(w http.ResponseWriter, a *app.Application, err error) {
	errhttp.WriteSafeError(w, err, isProduction(a))
}
