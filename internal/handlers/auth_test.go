package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/awu/foodlog/internal/models"
)

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestSignupCreatesAccountAndLogsIn(t *testing.T) {
	app := newTestApp(t)

	w := app.do(postForm("/signup", url.Values{
		"username": {"alice77"},
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/logs/" {
		t.Fatalf("expected redirect to /logs/ got %s", loc)
	}
	var hasSession bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			hasSession = true
		}
	}
	if !hasSession {
		t.Fatalf("expected session cookie after signup")
	}

	var user models.User
	if err := app.db.Where("email = ?", "alice@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	var privacy models.Privacy
	if err := app.db.Where("user_id = ?", user.ID).First(&privacy).Error; err != nil {
		t.Fatalf("privacy row not persisted: %v", err)
	}
	if !privacy.ShowLogs {
		t.Fatalf("expected new accounts to default to public logs")
	}
}

func TestSignupValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name string
		form url.Values
	}{
		{"short username", url.Values{"username": {"abcd"}, "email": {"a@example.com"}, "password": {"password123"}}},
		{"short password", url.Values{"username": {"alice77"}, "email": {"a@example.com"}, "password": {"short"}}},
		{"bad email", url.Values{"username": {"alice77"}, "email": {"not-an-email"}, "password": {"password123"}}},
		{"missing everything", url.Values{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := app.do(postForm("/signup", tc.form))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), "class=\"error\"") {
				t.Fatalf("expected inline error in re-rendered form")
			}
		})
	}

	var count int64
	app.db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no users created, got %d", count)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.mustCreateUser(t, "alice77", "alice@example.com", "password123")

	w := app.do(postForm("/signup", url.Values{
		"username": {"someoneelse"},
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email already exists") {
		t.Fatalf("expected duplicate email error, body=%s", w.Body.String())
	}
}

func TestLoginSuccess(t *testing.T) {
	app := newTestApp(t)
	app.mustCreateUser(t, "alice77", "alice@example.com", "password123")

	w := app.do(postForm("/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"password123"},
	}))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/logs/" {
		t.Fatalf("expected redirect to /logs/ got %s", loc)
	}
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	app := newTestApp(t)
	app.mustCreateUser(t, "alice77", "alice@example.com", "password123")

	wrongPassword := app.do(postForm("/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"wrongpassword"},
	}))
	unknownEmail := app.do(postForm("/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"password123"},
	}))

	for name, w := range map[string]*httptest.ResponseRecorder{"wrong password": wrongPassword, "unknown email": unknownEmail} {
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", name, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Incorrect email/password combination") {
			t.Fatalf("%s: expected generic credentials message", name)
		}
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	user := app.mustCreateUser(t, "alice77", "alice@example.com", "password123")

	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	r.AddCookie(sessionCookie(user.ID))
	w := app.do(r)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login got %s", loc)
	}
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be expired")
	}
}

func TestSignupFormRedirectsWhenAuthenticated(t *testing.T) {
	app := newTestApp(t)
	user := app.mustCreateUser(t, "alice77", "alice@example.com", "password123")

	r := httptest.NewRequest(http.MethodGet, "/signup", nil)
	r.AddCookie(sessionCookie(user.ID))
	w := app.do(r)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/logs/" {
		t.Fatalf("expected authenticated signup to redirect to /logs/, got %d %s", w.Code, w.Header().Get("Location"))
	}
}
