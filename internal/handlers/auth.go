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

type AuthHandler struct {
	Accounts *services.Accounts
}

func NewAuthHandler(accounts *services.Accounts) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if auth.UserID(r.Context()) != 0 {
		http.Redirect(w, r, "/logs/", statusSeeOther)
		return
	}
	render(w, r, "signup.html", baseData(r, h.Accounts))
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	errs := validation.Violations{}
	validation.Username("username", username, errs)
	validation.Email("email", email, errs)
	validation.Password("password", password, errs)
	if !errs.Empty() {
		h.rerenderSignup(w, r, username, email, errs)
		return
	}

	user, err := h.Accounts.Create(username, email, password)
	switch {
	case errors.Is(err, services.ErrDuplicateUsername):
		errs["username"] = err.Error()
	case errors.Is(err, services.ErrDuplicateEmail):
		errs["email"] = err.Error()
	case err != nil:
		errs["username"] = "Could not create account"
	}
	if !errs.Empty() {
		h.rerenderSignup(w, r, username, email, errs)
		return
	}

	auth.Login(w, user.ID)
	http.Redirect(w, r, "/logs/", statusSeeOther)
}

func (h *AuthHandler) rerenderSignup(w http.ResponseWriter, r *http.Request, username, email string, errs validation.Violations) {
	data := baseData(r, h.Accounts)
	data["Errors"] = errs
	data["Username"] = username
	data["Email"] = email
	w.WriteHeader(http.StatusBadRequest)
	render(w, r, "signup.html", data)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if auth.UserID(r.Context()) != 0 {
		http.Redirect(w, r, "/logs/", statusSeeOther)
		return
	}
	render(w, r, "login.html", baseData(r, h.Accounts))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	fail := func(msg string) {
		data := baseData(r, h.Accounts)
		data["Error"] = msg
		data["Email"] = email
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "login.html", data)
	}
	if email == "" || password == "" {
		fail("Email and password are required")
		return
	}
	user, err := h.Accounts.Authenticate(email, password)
	if err != nil {
		// Same message whether the email is unknown or the password wrong.
		fail(services.ErrInvalidCredentials.Error())
		return
	}
	auth.Login(w, user.ID)
	http.Redirect(w, r, "/logs/", statusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.Logout(w)
	http.Redirect(w, r, "/login", statusSeeOther)
}
