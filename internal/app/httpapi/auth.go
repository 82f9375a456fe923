package httpapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Actor kinds carried by a session token.
const (
	actorUser   = "user"
	actorAdmin  = "admin"
	actorMaster = "master"
)

type actor struct {
	ID       string
	Kind     string
	IssuedAt time.Time
}

// sessionStore maps opaque bearer tokens to authenticated actors. Tokens are
// minted at login and survive until logout or process restart.
type sessionStore struct {
	mu     sync.RWMutex
	tokens map[string]actor
}

func newSessionStore() *sessionStore {
	return &sessionStore{tokens: make(map[string]actor)}
}

func (s *sessionStore) issue(id, kind string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = actor{ID: id, Kind: kind, IssuedAt: time.Now().UTC()}
	s.mu.Unlock()
	return token
}

func (s *sessionStore) lookup(token string) (actor, bool) {
	s.mu.RLock()
	a, ok := s.tokens[token]
	s.mu.RUnlock()
	return a, ok
}

func (s *sessionStore) revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticate resolves the request's actor, or writes a 401 and returns
// ok=false.
func (h *handler) authenticate(w http.ResponseWriter, r *http.Request) (actor, bool) {
	token := bearerToken(r)
	if token == "" {
		writeErrorMessage(w, http.StatusUnauthorized, "missing bearer token")
		return actor{}, false
	}
	a, ok := h.sessions.lookup(token)
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, "invalid or expired token")
		return actor{}, false
	}
	return a, true
}

// requireUser resolves a user actor or writes the appropriate error.
func (h *handler) requireUser(w http.ResponseWriter, r *http.Request) (actor, bool) {
	a, ok := h.authenticate(w, r)
	if !ok {
		return actor{}, false
	}
	if a.Kind != actorUser {
		writeErrorMessage(w, http.StatusForbidden, "user session required")
		return actor{}, false
	}
	return a, true
}

// requireAdmin resolves an admin or master actor. Capability checks happen in
// the services; this only gates the route class.
func (h *handler) requireAdmin(w http.ResponseWriter, r *http.Request) (actor, bool) {
	a, ok := h.authenticate(w, r)
	if !ok {
		return actor{}, false
	}
	if a.Kind != actorAdmin && a.Kind != actorMaster {
		writeErrorMessage(w, http.StatusForbidden, "admin session required")
		return actor{}, false
	}
	return a, true
}
