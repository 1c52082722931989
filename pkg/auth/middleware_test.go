package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/blindtasting/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

// carryCookies copies Set-Cookie headers from a recorder onto a fresh request.
func carryCookies(w *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/tastings", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// requestWithValues builds a request whose session cookie holds values.
func requestWithValues(t *testing.T, store sessions.Store, values map[string]any) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", nil)
	session, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	for k, v := range values {
		session.Values[k] = v
	}
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return carryCookies(w)
}

// signedInRequest signs id in through SignIn and returns a follow-up request.
func signedInRequest(t *testing.T, store sessions.Store, id Identity) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/sign-in", nil)
	if err := SignIn(w, r, store, id); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return carryCookies(w)
}

func TestRequireAuth_ValidSession(t *testing.T) {
	store := newTestStore()
	want := Identity{UserID: uuid.New(), Email: "ana@example.com", Admin: true}

	var got Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	RequireAuth(store, logger.Nop())(next).ServeHTTP(w, signedInRequest(t, store, want))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got != want {
		t.Fatalf("expected identity %+v in context, got %+v", want, got)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/tastings", nil)
	w := httptest.NewRecorder()
	RequireAuth(newTestStore(), logger.Nop())(next).ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_InvalidSessionData(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"missing user id", map[string]any{sessionEmailKey: "ana@example.com"}},
		{"malformed user id", map[string]any{sessionUserIDKey: "not-a-valid-uuid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be called")
			})

			w := httptest.NewRecorder()
			RequireAuth(store, logger.Nop())(next).ServeHTTP(w, requestWithValues(t, store, tt.values))

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestLoadIdentity(t *testing.T) {
	store := newTestStore()
	id := Identity{UserID: uuid.New(), Email: "bo@example.com"}

	tests := []struct {
		name    string
		req     *http.Request
		wantErr bool
	}{
		{"signed in", signedInRequest(t, store, id), false},
		{"anonymous", httptest.NewRequest(http.MethodGet, "/api/tastings", nil), true},
		{"malformed", requestWithValues(t, store, map[string]any{sessionUserIDKey: "nope"}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, err := IdentityFromCtx(r.Context())
				if (err != nil) != tt.wantErr {
					t.Fatalf("IdentityFromCtx() error = %v, wantErr = %v", err, tt.wantErr)
				}
				if err == nil && got != id {
					t.Fatalf("expected %+v, got %+v", id, got)
				}
			})

			w := httptest.NewRecorder()
			LoadIdentity(store, logger.Nop())(next).ServeHTTP(w, tt.req)
			if !called {
				t.Fatal("LoadIdentity must always call next")
			}
		})
	}
}

func TestSignOut_ClearsIdentity(t *testing.T) {
	store := newTestStore()
	req := signedInRequest(t, store, Identity{UserID: uuid.New(), Email: "cy@example.com"})

	w := httptest.NewRecorder()
	if err := SignOut(w, req, store); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := IdentityFromCtx(r.Context()); err == nil {
			t.Fatal("expected no identity after sign out")
		}
	})
	LoadIdentity(store, logger.Nop())(next).ServeHTTP(httptest.NewRecorder(), carryCookies(w))
}
