package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/awu/foodlog/auth"
	"github.com/awu/foodlog/httpx"
	"github.com/awu/foodlog/internal/services"
	"github.com/awu/foodlog/validation"
)

type SettingsHandler struct {
	Accounts *services.Accounts
}

func NewSettingsHandler(accounts *services.Accounts) *SettingsHandler {
	return &SettingsHandler{Accounts: accounts}
}

func (h *SettingsHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, h.Accounts)
	if p, err := h.Accounts.PrivacyFor(auth.UserID(r.Context())); err == nil {
		data["ShowLogs"] = p.ShowLogs
	}
	render(w, r, "settings.html", data)
}

func (h *SettingsHandler) PasswordForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "settings_password.html", baseData(r, h.Accounts))
}

// ChangePassword updates the password and forces a fresh login.
func (h *SettingsHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	err := h.Accounts.ChangePassword(auth.UserID(r.Context()), password, confirm)
	if errors.Is(err, services.ErrPasswordMismatch) || errors.Is(err, services.ErrPasswordTooShort) {
		data := baseData(r, h.Accounts)
		data["Errors"] = validation.Violations{"password": err.Error()}
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "settings_password.html", data)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	auth.Logout(w)
	http.Redirect(w, r, "/login", statusSeeOther)
}

func (h *SettingsHandler) EmailForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "settings_email.html", baseData(r, h.Accounts))
}

// ChangeEmail updates the account email and forces a fresh login.
func (h *SettingsHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))

	errs := validation.Violations{}
	validation.Email("email", email, errs)
	if errs.Empty() {
		err := h.Accounts.ChangeEmail(auth.UserID(r.Context()), email)
		if errors.Is(err, services.ErrEmailInUse) {
			errs["email"] = err.Error()
		} else if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
	}
	if !errs.Empty() {
		data := baseData(r, h.Accounts)
		data["Errors"] = errs
		data["Email"] = email
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "settings_email.html", data)
		return
	}
	auth.Logout(w)
	http.Redirect(w, r, "/login", statusSeeOther)
}

// SetPrivacy toggles whether the user's logs are public.
func (h *SettingsHandler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	show := r.FormValue("show_logs") == "on"
	if err := h.Accounts.SetShowLogs(auth.UserID(r.Context()), show); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Redirect(w, r, "/settings/", statusSeeOther)
}

func (h *SettingsHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "settings_delete.html", baseData(r, h.Accounts))
}

// DeleteAccount removes the account after a password confirmation.
func (h *SettingsHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	err := h.Accounts.Delete(auth.UserID(r.Context()), r.FormValue("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		data := baseData(r, h.Accounts)
		data["Errors"] = validation.Violations{"password": err.Error()}
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "settings_delete.html", data)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	auth.Logout(w)
	http.Redirect(w, r, "/signup", statusSeeOther)
}
