package auth

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName      = "blindtasting_session"
	sessionUserIDKey = "user_id"
	sessionEmailKey  = "email"
	sessionAdminKey  = "admin"
)

// userNamespace seeds the name-based UUIDs derived from sign-in emails.
var userNamespace = uuid.MustParse("6f0c2b1e-6a57-4c1b-9a55-3b8f3f7d2c10")

// ErrInvalidEmail is returned by IdentityForEmail for unparsable addresses.
var ErrInvalidEmail = errors.New("invalid email address")

// IdentityForEmail derives the stable identity for a sign-in email. The same
// address always maps to the same user id. Addresses listed in admins may list
// every taster's notes.
func IdentityForEmail(email string, admins []string) (Identity, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidEmail, err)
	}
	normalized := strings.ToLower(addr.Address)

	admin := false
	for _, a := range admins {
		if a == normalized {
			admin = true
			break
		}
	}
	return Identity{
		UserID: uuid.NewSHA1(userNamespace, []byte(normalized)),
		Email:  normalized,
		Admin:  admin,
	}, nil
}

// SignIn stores id in the request's session and writes the session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, store sessions.Store, id Identity) error {
	session, err := store.Get(r, sessionName)
	if err != nil && session == nil {
		return fmt.Errorf("load session: %w", err)
	}
	session.Values[sessionUserIDKey] = id.UserID.String()
	session.Values[sessionEmailKey] = id.Email
	session.Values[sessionAdminKey] = id.Admin
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SignOut expires the request's session.
func SignOut(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, err := store.Get(r, sessionName)
	if err != nil && session == nil {
		return fmt.Errorf("load session: %w", err)
	}
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// identityFromSession reads the identity stored by SignIn.
func identityFromSession(session *sessions.Session) (Identity, error) {
	userIDStr, ok := session.Values[sessionUserIDKey].(string)
	if !ok || userIDStr == "" {
		return Identity{}, ErrNoIdentity
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid user_id in session: %w", err)
	}
	email, _ := session.Values[sessionEmailKey].(string)
	admin, _ := session.Values[sessionAdminKey].(bool)
	return Identity{UserID: userID, Email: email, Admin: admin}, nil
}
