package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/yourempire/platform/internal/app/domain/admin"
	"github.com/yourempire/platform/internal/app/domain/ads"
	"github.com/yourempire/platform/internal/app/domain/catalog"
	"github.com/yourempire/platform/internal/app/domain/content"
)

// statusRecorder captures the response code for audit entries.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *handler) admin(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	parts := splitPath(r, "/admin")
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.adminRoutes(rec, r, a, parts)

	entity, entityID, action := classifyAdminAction(r.Method, parts)
	h.audit.add(auditEntry{
		Time:       time.Now().UTC(),
		Actor:      a.ID,
		Kind:       a.Kind,
		Entity:     entity,
		EntityID:   entityID,
		Action:     action,
		Method:     r.Method,
		Path:       r.URL.Path,
		Status:     rec.status,
		RemoteAddr: clientIP(r),
	})
}

func (h *handler) adminRoutes(w http.ResponseWriter, r *http.Request, a actor, parts []string) {
	if len(parts) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch parts[0] {
	case "users":
		h.adminUsers(w, r, a, parts[1:])
	case "payments":
		h.adminPayments(w, r, a, parts[1:])
	case "withdrawals":
		h.adminWithdrawals(w, r, a, parts[1:])
	case "profile-updates":
		h.adminProfileUpdates(w, r, a, parts[1:])
	case "password-resets":
		h.adminPasswordResets(w, r, a, parts[1:])
	case "admins":
		h.adminAdmins(w, r, a, parts[1:])
	case "password":
		h.adminOwnPassword(w, r, a, parts[1:])
	case "settings":
		h.adminSettings(w, r, a, parts[1:])
	case "maintenance":
		h.adminMaintenance(w, r, a, parts[1:])
	case "wallet":
		h.adminWallet(w, r, a, parts[1:])
	case "referrals":
		h.adminReferrals(w, r, a, parts[1:])
	case "ads":
		h.adminAds(w, r, a, parts[1:])
	case "catalog":
		h.adminCatalog(w, r, a, parts[1:])
	case "audit":
		h.adminAudit(w, r, parts[1:])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) adminUsers(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		list, err := h.app.Users.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sanitizeUsers(list))

	case len(rest) == 1 && r.Method == http.MethodGet:
		u, err := h.app.Users.Get(r.Context(), rest[0])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sanitizeUser(u))

	case len(rest) == 1 && r.Method == http.MethodPatch:
		var payload struct {
			IsActive *bool   `json:"is_active"`
			Password *string `json:"password"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if payload.IsActive != nil {
			if err := h.app.Admins.SetUserActive(r.Context(), a.ID, rest[0], *payload.IsActive); err != nil {
				writeError(w, err)
				return
			}
		}
		if payload.Password != nil {
			if err := h.app.Admins.SetUserPassword(r.Context(), a.ID, rest[0], *payload.Password); err != nil {
				writeError(w, err)
				return
			}
		}
		u, err := h.app.Users.Get(r.Context(), rest[0])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sanitizeUser(u))

	case len(rest) == 2 && rest[1] == "dashboard" && r.Method == http.MethodGet:
		dash, err := h.app.Users.BuildDashboard(r.Context(), rest[0])
		if err != nil {
			writeError(w, err)
			return
		}
		dash.User = sanitizeUser(dash.User)
		writeJSON(w, http.StatusOK, dash)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) adminPayments(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 1 && rest[0] == "pending" && r.Method == http.MethodGet:
		list, err := h.app.Approvals.PendingPayments(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 2 && rest[1] == "approve" && r.Method == http.MethodPost:
		p, err := h.app.Approvals.ApprovePayment(r.Context(), rest[0], a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case len(rest) == 2 && rest[1] == "reject" && r.Method == http.MethodPost:
		p, err := h.app.Approvals.RejectPayment(r.Context(), rest[0], a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) adminWithdrawals(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 1 && rest[0] == "pending" && r.Method == http.MethodGet:
		list, err := h.app.Approvals.PendingWithdrawals(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 2 && rest[1] == "approve" && r.Method == http.MethodPost:
		wd, err := h.app.Approvals.ApproveWithdrawal(r.Context(), rest[0], a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, wd)

	case len(rest) == 2 && rest[1] == "reject" && r.Method == http.MethodPost:
		wd, err := h.app.Approvals.RejectWithdrawal(r.Context(), rest[0], a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, wd)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) adminProfileUpdates(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 1 && rest[0] == "pending" && r.Method == http.MethodGet:
		list, err := h.app.Approvals.PendingProfileUpdates(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 2 && rest[1] == "approve" && r.Method == http.MethodPost:
		req, err := h.app.Approvals.ApproveProfileUpdate(r.Context(), rest[0], a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, req)

	case len(rest) == 2 && rest[1] == "reject" && r.Method == http.MethodPost:
		req, err := h.app.Approvals.RejectProfileUpdate(r.Context(), rest[0], a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, req)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) adminPasswordResets(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 1 && rest[0] == "pending" && r.Method == http.MethodGet:
		list, err := h.app.Approvals.PendingPasswordResets(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 2 && rest[1] == "resolve" && r.Method == http.MethodPost:
		var payload struct {
			NewPassword string `json:"new_password"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		req, err := h.app.Approvals.ResolvePasswordReset(r.Context(), rest[0], a.ID, payload.NewPassword)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, req)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) adminAdmins(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		if _, err := h.app.Admins.Require(r.Context(), a.ID, admin.CapManageAdmins); err != nil {
			writeError(w, err)
			return
		}
		list, err := h.app.Admins.List(r.Context(), "")
		if err != nil {
			writeError(w, err)
			return
		}
		for i := range list {
			list[i].PasswordHash = ""
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 0 && r.Method == http.MethodPost:
		var payload struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := h.app.Admins.CreateAdmin(r.Context(), a.ID, payload.Email, payload.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		created.PasswordHash = ""
		writeJSON(w, http.StatusCreated, created)

	case len(rest) == 1 && r.Method == http.MethodPatch:
		var payload struct {
			IsActive *bool   `json:"is_active"`
			Password *string `json:"password"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if payload.IsActive != nil {
			if _, err := h.app.Admins.SetActive(r.Context(), a.ID, rest[0], *payload.IsActive); err != nil {
				writeError(w, err)
				return
			}
		}
		if payload.Password != nil {
			if err := h.app.Admins.SetAdminPassword(r.Context(), a.ID, rest[0], *payload.Password); err != nil {
				writeError(w, err)
				return
			}
		}
		updated, err := h.app.Admins.Get(r.Context(), rest[0])
		if err != nil {
			writeError(w, err)
			return
		}
		updated.PasswordHash = ""
		writeJSON(w, http.StatusOK, updated)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) adminOwnPassword(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		Current string `json:"current"`
		Next    string `json:"next"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.app.Admins.ChangeOwnPassword(r.Context(), a.ID, payload.Current, payload.Next); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) adminSettings(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	if len(rest) != 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		all, err := h.app.Settings.All(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, all)

	case http.MethodPut:
		if _, err := h.app.Admins.Require(r.Context(), a.ID, admin.CapManageAdmins); err != nil {
			writeError(w, err)
			return
		}
		var payload struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.app.Settings.Set(r.Context(), payload.Key, payload.Value); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) adminMaintenance(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload struct {
		On bool `json:"on"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.app.Admins.SetMaintenance(r.Context(), a.ID, payload.On); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) adminWallet(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	if len(rest) != 2 || rest[1] != "adjust" || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if _, err := h.app.Admins.Require(r.Context(), a.ID, admin.CapManageUsers); err != nil {
		writeError(w, err)
		return
	}
	var payload struct {
		Delta float64 `json:"delta"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.app.Wallet.Adjust(r.Context(), rest[0], payload.Delta, a.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sanitizeUser(u))
}

func (h *handler) adminReferrals(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 1 && rest[0] == "summary" && r.Method == http.MethodGet:
		report, err := h.app.Referrals.Summary(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)

	case len(rest) == 2 && rest[0] == "tree" && r.Method == http.MethodGet:
		tree, err := h.app.Referrals.BuildTree(r.Context(), rest[1], 0)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tree)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) adminAds(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		list, err := h.app.Catalog.Ads(r.Context(), false)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 0 && r.Method == http.MethodPost:
		var payload struct {
			Title    string  `json:"title"`
			Type     string  `json:"type"`
			MediaKey string  `json:"media_key"`
			Link     string  `json:"link"`
			Reward   float64 `json:"reward"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := h.app.Catalog.CreateAd(r.Context(), a.ID, ads.Ad{
			Title:    payload.Title,
			Type:     payload.Type,
			MediaKey: payload.MediaKey,
			Link:     payload.Link,
			Reward:   payload.Reward,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case len(rest) == 1 && rest[0] == "stats" && r.Method == http.MethodGet:
		stats, err := h.app.AdRewards.AdStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)

	case len(rest) == 1 && r.Method == http.MethodPatch:
		var payload struct {
			IsActive bool `json:"is_active"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := h.app.Catalog.SetAdActive(r.Context(), a.ID, rest[0], payload.IsActive)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case len(rest) == 1 && r.Method == http.MethodDelete:
		if err := h.app.Catalog.DeleteAd(r.Context(), a.ID, rest[0]); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) adminCatalog(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	if len(rest) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	switch rest[0] {
	case "packages":
		h.adminPackages(w, r, a, rest[1:])
	case "methods":
		h.adminMethods(w, r, a, rest[1:])
	case "announcements":
		h.adminAnnouncements(w, r, a, rest[1:])
	case "guides":
		h.adminGuides(w, r, a, rest[1:])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) adminPackages(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		list, err := h.app.Catalog.Packages(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 0 && r.Method == http.MethodPost:
		var payload struct {
			Name        string  `json:"name"`
			Price       float64 `json:"price"`
			Description string  `json:"description"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := h.app.Catalog.CreatePackage(r.Context(), a.ID, catalog.Package{
			Name:        payload.Name,
			Price:       payload.Price,
			Description: payload.Description,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case len(rest) == 1 && r.Method == http.MethodPut:
		var payload struct {
			Name        string  `json:"name"`
			Price       float64 `json:"price"`
			Description string  `json:"description"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := h.app.Catalog.UpdatePackage(r.Context(), a.ID, catalog.Package{
			ID:          rest[0],
			Name:        payload.Name,
			Price:       payload.Price,
			Description: payload.Description,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case len(rest) == 1 && r.Method == http.MethodDelete:
		if err := h.app.Catalog.DeletePackage(r.Context(), a.ID, rest[0]); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) adminMethods(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		list, err := h.app.Catalog.PaymentMethods(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 0 && r.Method == http.MethodPost:
		var payload struct {
			Type          string `json:"type"`
			AccountNumber string `json:"account_number"`
			AccountName   string `json:"account_name"`
			BankName      string `json:"bank_name"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := h.app.Catalog.CreatePaymentMethod(r.Context(), a.ID, catalog.PaymentMethod{
			Type:          payload.Type,
			AccountNumber: payload.AccountNumber,
			AccountName:   payload.AccountName,
			BankName:      payload.BankName,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case len(rest) == 1 && r.Method == http.MethodPut:
		var payload struct {
			Type          string `json:"type"`
			AccountNumber string `json:"account_number"`
			AccountName   string `json:"account_name"`
			BankName      string `json:"bank_name"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := h.app.Catalog.UpdatePaymentMethod(r.Context(), a.ID, catalog.PaymentMethod{
			ID:            rest[0],
			Type:          payload.Type,
			AccountNumber: payload.AccountNumber,
			AccountName:   payload.AccountName,
			BankName:      payload.BankName,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) adminAnnouncements(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		list, err := h.app.Catalog.Announcements(r.Context(), false)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 0 && r.Method == http.MethodPost:
		var payload struct {
			Type     string `json:"type"`
			Content  string `json:"content"`
			MediaKey string `json:"media_key"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := h.app.Catalog.CreateAnnouncement(r.Context(), a.ID, content.Announcement{
			Type:     payload.Type,
			Content:  payload.Content,
			MediaKey: payload.MediaKey,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case len(rest) == 1 && r.Method == http.MethodPatch:
		var payload struct {
			IsActive bool `json:"is_active"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := h.app.Catalog.SetAnnouncementActive(r.Context(), a.ID, rest[0], payload.IsActive)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case len(rest) == 1 && r.Method == http.MethodDelete:
		if err := h.app.Catalog.DeleteAnnouncement(r.Context(), a.ID, rest[0]); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) adminGuides(w http.ResponseWriter, r *http.Request, a actor, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		list, err := h.app.Catalog.GuideVideos(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case len(rest) == 0 && r.Method == http.MethodPost:
		var payload struct {
			Title    string `json:"title"`
			VideoURL string `json:"video_url"`
		}
		if err := decodeJSON(r.Body, &payload); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := h.app.Catalog.CreateGuideVideo(r.Context(), a.ID, content.GuideVideo{
			Title:    payload.Title,
			VideoURL: payload.VideoURL,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case len(rest) == 1 && r.Method == http.MethodDelete:
		if err := h.app.Catalog.DeleteGuideVideo(r.Context(), a.ID, rest[0]); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) adminAudit(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	writeJSON(w, http.StatusOK, h.audit.listLimit(limit))
}
