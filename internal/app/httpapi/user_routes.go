package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/yourempire/platform/internal/app/domain/admin"
	approvalsvc "github.com/yourempire/platform/internal/app/services/approvals"
	referralsvc "github.com/yourempire/platform/internal/app/services/referrals"
	"github.com/yourempire/platform/internal/app/services/users"
)

func (h *handler) auth(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r, "/auth")
	if len(parts) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch parts[0] {
	case "register":
		h.register(w, r)
	case "login":
		h.login(w, r)
	case "logout":
		h.logout(w, r)
	case "admin":
		if len(parts) == 2 && parts[1] == "login" {
			h.adminLogin(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case "password-reset":
		h.passwordReset(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		FullName     string `json:"full_name"`
		Phone        string `json:"phone"`
		City         string `json:"city"`
		Address      string `json:"address"`
		ReferralCode string `json:"referral_code"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.app.Users.Register(r.Context(), users.RegisterInput{
		Email:        payload.Email,
		Password:     payload.Password,
		FullName:     payload.FullName,
		Phone:        payload.Phone,
		City:         payload.City,
		Address:      payload.Address,
		ReferralCode: payload.ReferralCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sanitizeUser(created))
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.app.Users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.app.Users.RecordLogin(r.Context(), u.ID, actorUser, clientIP(r))
	token := h.sessions.issue(u.ID, actorUser)
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": sanitizeUser(u)})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.sessions.revoke(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	adm, err := h.app.Admins.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	kind := actorAdmin
	if adm.Role == admin.RoleMaster {
		kind = actorMaster
	}
	h.app.Users.RecordLogin(r.Context(), adm.ID, kind, clientIP(r))
	token := h.sessions.issue(adm.ID, kind)
	adm.PasswordHash = ""
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "admin": adm})
}

func (h *handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := h.app.Approvals.RequestPasswordReset(r.Context(), payload.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, req)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	u, err := h.app.Users.Get(r.Context(), a.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sanitizeUser(u))
}

func (h *handler) meResources(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	parts := splitPath(r, "/me")
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch parts[0] {
	case "dashboard":
		dash, err := h.app.Users.BuildDashboard(r.Context(), a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		dash.User = sanitizeUser(dash.User)
		writeJSON(w, http.StatusOK, dash)
	case "logins":
		records, err := h.app.Users.LoginHistory(r.Context(), a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	case "referrals":
		depth := referralsvc.MaxTreeDepth
		if raw := r.URL.Query().Get("depth"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeErrorMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid depth %q", raw))
				return
			}
			depth = parsed
		}
		tree, err := h.app.Referrals.BuildTree(r.Context(), a.ID, depth)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tree)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) catalog(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	parts := splitPath(r, "/catalog")
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch parts[0] {
	case "packages":
		list, err := h.app.Catalog.Packages(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	case "methods":
		list, err := h.app.Catalog.PaymentMethods(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	case "announcements":
		list, err := h.app.Catalog.Announcements(r.Context(), true)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	case "guides":
		list, err := h.app.Catalog.GuideVideos(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) payments(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		PackageID       string `json:"package_id"`
		PaymentMethodID string `json:"payment_method_id"`
		TransactionID   string `json:"transaction_id"`
		ScreenshotKey   string `json:"screenshot_key"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.app.Approvals.SubmitPayment(r.Context(), approvalsvc.SubmitPaymentInput{
		UserID:          a.ID,
		PackageID:       payload.PackageID,
		PaymentMethodID: payload.PaymentMethodID,
		TransactionID:   payload.TransactionID,
		ScreenshotKey:   payload.ScreenshotKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handler) withdrawals(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Amount        float64 `json:"amount"`
		PaymentMethod string  `json:"payment_method"`
		AccountNumber string  `json:"account_number"`
		AccountName   string  `json:"account_name"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	wd, err := h.app.Approvals.SubmitWithdrawal(r.Context(), approvalsvc.SubmitWithdrawalInput{
		UserID:        a.ID,
		Amount:        payload.Amount,
		PaymentMethod: payload.PaymentMethod,
		AccountNumber: payload.AccountNumber,
		AccountName:   payload.AccountName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wd)
}

func (h *handler) profileUpdates(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Type     string `json:"type"`
		NewValue string `json:"new_value"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.app.Approvals.SubmitProfileUpdate(r.Context(), a.ID, payload.Type, payload.NewValue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *handler) ads(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	list, err := h.app.AdRewards.AvailableAds(r.Context(), a.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) adResources(w http.ResponseWriter, r *http.Request) {
	a, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	parts := splitPath(r, "/ads")
	switch {
	case len(parts) == 1 && parts[0] == "history":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		views, err := h.app.AdRewards.History(r.Context(), a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)

	case len(parts) == 1 && parts[0] == "earnings":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		total, err := h.app.AdRewards.Earnings(r.Context(), a.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{"total": total})

	case len(parts) == 2 && parts[1] == "claim":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		view, u, err := h.app.AdRewards.Claim(r.Context(), a.ID, parts[0])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"view": view, "balance": u.WalletBalance})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *handler) uploadCreate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	key, err := h.app.Uploads.Save(header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (h *handler) uploadFetch(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	parts := splitPath(r, "/uploads")
	if len(parts) != 1 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	rc, err := h.app.Uploads.Open(parts[0])
	if err != nil {
		writeErrorMessage(w, http.StatusNotFound, "upload not found")
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, rc)
}
