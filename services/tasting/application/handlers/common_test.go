package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ghuser/blindtasting/pkg/auth"
	appsvcs "github.com/ghuser/blindtasting/services/tasting/application/services"
	"github.com/ghuser/blindtasting/services/tasting/domain/models"
)

func TestSessionFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/tastings", nil)
	assert.False(t, sessionFromRequest(r).Authenticated())

	id := auth.Identity{UserID: uuid.New(), Email: "host@example.com", Admin: true}
	r = r.WithContext(auth.WithIdentity(r.Context(), id))
	sess := sessionFromRequest(r)
	assert.Equal(t, id.UserID, sess.UserID)
	assert.Equal(t, id.Email, sess.Email)
	assert.True(t, sess.CanListAll)
}

func TestVisibleTo(t *testing.T) {
	alice, bob := uuid.New(), uuid.New()
	recs := []models.TastingRecord{{ID: uuid.New(), OwnerID: alice}, {ID: uuid.New(), OwnerID: bob}}

	assert.Len(t, visibleTo(appsvcs.Session{}, recs), 2)
	assert.Len(t, visibleTo(appsvcs.Session{UserID: bob, CanListAll: true}, recs), 2)

	mine := visibleTo(appsvcs.Session{UserID: alice}, recs)
	if assert.Len(t, mine, 1) {
		assert.Equal(t, alice, mine[0].OwnerID)
	}
}

func TestOriginPatterns(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"*", []string{"*"}},
		{"https://cata.example.com, http://localhost:3000", []string{"cata.example.com", "localhost:3000"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, originPatterns(tt.in), tt.in)
	}
}

func TestCloseReason(t *testing.T) {
	long := errors.New(strings.Repeat("x", 200))
	assert.Len(t, closeReason(long, http.StatusNotFound, false), 123)
	assert.Equal(t, "Service Unavailable", closeReason(long, http.StatusServiceUnavailable, true))
}
