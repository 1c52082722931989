package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/errhttp"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
)

const feedWriteTimeout = 5 * time.Second

// FeedMessage is one frame of the tasting feed: the full collection visible
// to the connected session.
type FeedMessage struct {
	Type     string                 `json:"type"     example:"snapshot"`
	Tastings []models.TastingRecord `json:"tastings"`
} // @name FeedMessage

// TastingFeedHandler handles GET /tastings/feed websocket connections.
type TastingFeedHandler struct {
	app     *app.Application
	svc     *appsvcs.Services
	origins []string
}

// NewTastingFeedHandler returns a TastingFeedHandler backed by the given services.
func NewTastingFeedHandler(a *app.Application, svc *appsvcs.Services) *TastingFeedHandler {
	var allowed string
	if a != nil && a.Config != nil {
		allowed = a.Config.CORSAllowedOrigins
	}
	return &TastingFeedHandler{app: a, svc: svc, origins: originPatterns(allowed)}
}

// Execute streams a snapshot of the caller's notes on connect and after every change.
//
//	@Summary		Tasting feed
//	@Description	Websocket. Sends a FeedMessage on connect and after every change to the store serving the caller.
//	@Tags			tastings
//	@Success		101	{object}	FeedMessage
//	@Failure		503	{object}	ErrorResponse
//	@Router			/tastings/feed [get]
func (h *TastingFeedHandler) Execute(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromRequest(r)
	log := h.app.Logger

	// The connection outlives the server's per-request deadlines.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		log.WarnContext(r.Context(), "tasting feed upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow() //nolint:errcheck

	ctx := conn.CloseRead(r.Context())

	// Only the newest snapshot matters; a slow client skips intermediate ones.
	updates := make(chan []models.TastingRecord, 1)
	push := func(recs []models.TastingRecord) {
		recs = visibleTo(sess, recs)
		for {
			select {
			case updates <- recs:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}

	sub, err := h.svc.Sync.Subscribe(ctx, sess, push)
	if err != nil {
		log.WarnContext(ctx, "tasting feed subscribe failed", "error", err)
		_ = conn.Close(websocket.StatusTryAgainLater, closeReason(err, errhttp.Status(err), isProduction(h.app)))
		return
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case recs := <-updates:
			if err := writeSnapshot(ctx, conn, recs); err != nil {
				log.DebugContext(ctx, "tasting feed closed", "error", err)
				return
			}
		}
	}
}

func writeSnapshot(ctx context.Context, conn *websocket.Conn, recs []models.TastingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, feedWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, FeedMessage{Type: "snapshot", Tastings: recs})
}

// closeReason fits the error into a close frame, which carries at most 123 bytes.
func closeReason(err error, status int, production bool) string {
	msg := err.Error()
	if production && status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	if len(msg) > 123 {
		msg = msg[:123]
	}
	return msg
}

// originPatterns turns the CORS origin list into websocket host patterns.
func originPatterns(allowed string) []string {
	var out []string
	for _, o := range strings.Split(allowed, ",") {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
		case o == "*":
			return []string{"*"}
		default:
			if u, err := url.Parse(o); err == nil && u.Host != "" {
				out = append(out, u.Host)
			} else {
				out = append(out, o)
			}
		}
	}
	return out
}
