package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	app "github.com/yourempire/platform/internal/app"
	"github.com/yourempire/platform/internal/app/domain/user"
	"github.com/yourempire/platform/internal/app/metrics"
	"github.com/yourempire/platform/internal/app/services/admins"
	adrewardsvc "github.com/yourempire/platform/internal/app/services/adrewards"
	approvalsvc "github.com/yourempire/platform/internal/app/services/approvals"
	"github.com/yourempire/platform/internal/app/services/uploads"
	"github.com/yourempire/platform/internal/app/services/users"
	"github.com/yourempire/platform/internal/app/storage"
)

// Options tune handler construction.
type Options struct {
	// AuditFile, when set, appends admin audit entries as JSONL to this path.
	AuditFile string
	// AuditSize bounds the in-memory audit ring. Zero means the default.
	AuditSize int
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app      *app.Application
	sessions *sessionStore
	audit    *auditLog
}

// NewHandler returns a mux exposing the REST API.
func NewHandler(application *app.Application, opts Options) (http.Handler, error) {
	sink, err := newFileAuditSink(opts.AuditFile)
	if err != nil {
		return nil, fmt.Errorf("open audit file: %w", err)
	}

	h := &handler{
		app:      application,
		sessions: newSessionStore(),
		audit:    newAuditLog(opts.AuditSize, sink),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/", h.auth)
	mux.HandleFunc("/me", h.me)
	mux.HandleFunc("/me/", h.meResources)
	mux.HandleFunc("/catalog/", h.catalog)
	mux.HandleFunc("/payments", h.payments)
	mux.HandleFunc("/withdrawals", h.withdrawals)
	mux.HandleFunc("/profile-updates", h.profileUpdates)
	mux.HandleFunc("/ads", h.ads)
	mux.HandleFunc("/ads/", h.adResources)
	mux.HandleFunc("/uploads", h.uploadCreate)
	mux.HandleFunc("/uploads/", h.uploadFetch)
	mux.HandleFunc("/admin/", h.admin)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", h.health)

	return metrics.InstrumentHandler(mux), nil
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps service and storage sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicate),
		errors.Is(err, storage.ErrAlreadyResolved),
		errors.Is(err, adrewardsvc.ErrAlreadyViewed):
		return http.StatusConflict
	case errors.Is(err, storage.ErrInsufficientFunds),
		errors.Is(err, approvalsvc.ErrBelowMinimum):
		return http.StatusUnprocessableEntity
	case errors.Is(err, users.ErrInvalidCredentials),
		errors.Is(err, admins.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, admins.ErrUnauthorized),
		errors.Is(err, adrewardsvc.ErrAdsDisabled):
		return http.StatusForbidden
	case errors.Is(err, users.ErrMaintenance):
		return http.StatusServiceUnavailable
	case errors.Is(err, uploads.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, uploads.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, storage.ErrInvalid),
		errors.Is(err, users.ErrInvalidReferralCode),
		errors.Is(err, approvalsvc.ErrUnknownUpdateType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps err to an HTTP status. Internal failures are reported
// with a generic body so storage and driver details never reach clients.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	writeErrorMessage(w, status, msg)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// sanitizeUser strips credential material before a user record leaves the API.
func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}

func sanitizeUsers(list []user.User) []user.User {
	out := make([]user.User, len(list))
	for i, u := range list {
		out[i] = sanitizeUser(u)
	}
	return out
}

// splitPath trims prefix from the URL path and returns the remaining
// non-empty segments.
func splitPath(r *http.Request, prefix string) []string {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndexByte(host, ':'); idx > 0 {
		host = host[:idx]
	}
	return host
}
