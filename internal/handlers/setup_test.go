package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/awu/foodlog/auth"
	"github.com/awu/foodlog/internal/db"
	"github.com/awu/foodlog/internal/models"
	"github.com/awu/foodlog/internal/services"
	"github.com/awu/foodlog/internal/storage"
)

func setupHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	conn, err := gorm.Open(sqlite.Open("file:h_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// fakeStore satisfies storage.Store without touching the filesystem.
type fakeStore struct {
	deleted []string
}

func (f *fakeStore) Save(name string, _ io.Reader) (string, error) { return "stored-" + name, nil }

func (f *fakeStore) Delete(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

// testApp wires the handlers onto a mux the same way the server package does,
// kept local so handler tests stay self-contained.
type testApp struct {
	db       *gorm.DB
	files    *fakeStore
	accounts *services.Accounts
	logs     *services.Logs
	handler  http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	conn := setupHandlerDB(t)
	files := &fakeStore{}
	accounts := services.NewAccounts(conn, files)
	logs := services.NewLogs(conn, files, nil)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/logs/", http.StatusSeeOther)
	})

	ah := NewAuthHandler(accounts)
	mux.HandleFunc("GET /signup", ah.SignupForm)
	mux.HandleFunc("POST /signup", ah.Signup)
	mux.HandleFunc("GET /login", ah.LoginForm)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("POST /logout", ah.Logout)

	lh := NewLogHandler(accounts, logs, files)
	mux.HandleFunc("GET /logs/{$}", lh.Index)
	mux.HandleFunc("GET /logs/{id}/{$}", lh.Detail)
	mux.Handle("GET /logs/new", auth.RequireAuth(http.HandlerFunc(lh.NewForm)))
	mux.Handle("POST /logs/new", auth.RequireAuth(http.HandlerFunc(lh.Create)))
	mux.Handle("POST /logs/{id}/comment", auth.RequireAuth(http.HandlerFunc(lh.Comment)))
	mux.Handle("POST /logs/{id}/delete", auth.RequireAuth(http.HandlerFunc(lh.Delete)))

	ph := NewProfileHandler(conn, accounts, logs, files)
	mux.HandleFunc("GET /profiles/{$}", ph.Index)
	mux.HandleFunc("GET /profiles/{id}/{$}", ph.Show)
	mux.Handle("POST /profiles/picture", auth.RequireAuth(http.HandlerFunc(ph.ChangePicture)))

	sh := NewSettingsHandler(accounts)
	mux.Handle("GET /settings/{$}", auth.RequireAuth(http.HandlerFunc(sh.Index)))
	mux.Handle("GET /settings/password", auth.RequireAuth(http.HandlerFunc(sh.PasswordForm)))
	mux.Handle("POST /settings/password", auth.RequireAuth(http.HandlerFunc(sh.ChangePassword)))
	mux.Handle("GET /settings/email", auth.RequireAuth(http.HandlerFunc(sh.EmailForm)))
	mux.Handle("POST /settings/email", auth.RequireAuth(http.HandlerFunc(sh.ChangeEmail)))
	mux.Handle("POST /settings/privacy", auth.RequireAuth(http.HandlerFunc(sh.SetPrivacy)))
	mux.Handle("GET /settings/delete", auth.RequireAuth(http.HandlerFunc(sh.DeleteForm)))
	mux.Handle("POST /settings/delete", auth.RequireAuth(http.HandlerFunc(sh.DeleteAccount)))

	return &testApp{
		db:       conn,
		files:    files,
		accounts: accounts,
		logs:     logs,
		handler:  auth.Middleware(mux),
	}
}

func (a *testApp) mustCreateUser(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	u, err := a.accounts.Create(username, email, password)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (a *testApp) mustCreateLog(t *testing.T, creatorID uint, name string, calories int) *models.Log {
	t.Helper()
	entry, err := a.logs.Create(t.Context(), creatorID, name, "", "", calories, "", time.Now())
	if err != nil {
		t.Fatalf("create log %s: %v", name, err)
	}
	return entry
}

func sessionCookie(userID uint) *http.Cookie {
	rec := httptest.NewRecorder()
	auth.Login(rec, userID)
	return rec.Result().Cookies()[0]
}

// do runs a request through the full middleware chain.
func (a *testApp) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)
	return w
}

var _ storage.Store = (*fakeStore)(nil)
