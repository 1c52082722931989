package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/services/tasting/application/handlers"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
)

// FeedPath is the websocket route, relative to the /api mount. The server must
// exempt it from the request timeout.
const FeedPath = "/tastings/feed"

// TastingRoutes registers tasting, catalog and session endpoints on the
// provided chi router. Requests are expected to have passed auth.LoadIdentity.
func TastingRoutes(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	r.Group(func(r chi.Router) {
		r.Route("/tastings", func(r chi.Router) {
			r.Get("/", handlers.NewListTastingsHandler(a, svcs).Execute)
			r.Post("/", handlers.NewPostTastingHandler(a, svcs).Execute)
			r.Delete("/", handlers.NewClearTastingsHandler(a, svcs).Execute)
			r.Post("/{id}/reveal", handlers.NewRevealTastingHandler(a, svcs).Execute)
			r.Get("/feed", handlers.NewTastingFeedHandler(a, svcs).Execute)
		})
		r.Get("/catalog", handlers.NewGetCatalogHandler(svcs).Execute)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Get("/session", handlers.NewGetSessionHandler().Execute)
		if a.SessionStore != nil {
			r.Post("/sign-in", handlers.NewSignInHandler(a).Execute)
			r.Post("/sign-out", handlers.NewSignOutHandler(a).Execute)
		}
	})
}
