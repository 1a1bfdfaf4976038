package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/awu/foodlog/auth"
	"github.com/awu/foodlog/httpx"
	"github.com/awu/foodlog/internal/handlers"
	"github.com/awu/foodlog/internal/models"
	"github.com/awu/foodlog/internal/services"
	"github.com/awu/foodlog/internal/storage"
)

// New constructs the root http.Handler with all routes and middleware.
// nutrition may be nil, which disables calorie lookups.
func New(db *gorm.DB, files storage.Store, nutrition services.NutritionClient) http.Handler {
	accounts := services.NewAccounts(db, files)
	logs := services.NewLogs(db, files, nutrition)

	// RequireAuth drops sessions whose user no longer exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/logs/", http.StatusSeeOther)
	})

	ah := handlers.NewAuthHandler(accounts)
	mux.HandleFunc("GET /signup", ah.SignupForm)
	mux.HandleFunc("POST /signup", ah.Signup)
	mux.HandleFunc("GET /login", ah.LoginForm)
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("POST /logout", ah.Logout)

	lh := handlers.NewLogHandler(accounts, logs, files)
	mux.HandleFunc("GET /logs/{$}", lh.Index)
	mux.HandleFunc("GET /logs/{id}/{$}", lh.Detail)
	mux.Handle("GET /logs/new", auth.RequireAuth(http.HandlerFunc(lh.NewForm)))
	mux.Handle("POST /logs/new", auth.RequireAuth(http.HandlerFunc(lh.Create)))
	mux.Handle("POST /logs/{id}/comment", auth.RequireAuth(http.HandlerFunc(lh.Comment)))
	mux.Handle("POST /logs/{id}/delete", auth.RequireAuth(http.HandlerFunc(lh.Delete)))

	ph := handlers.NewProfileHandler(db, accounts, logs, files)
	mux.HandleFunc("GET /profiles/{$}", ph.Index)
	mux.HandleFunc("GET /profiles/{id}/{$}", ph.Show)
	mux.Handle("POST /profiles/picture", auth.RequireAuth(http.HandlerFunc(ph.ChangePicture)))

	sh := handlers.NewSettingsHandler(accounts)
	mux.Handle("GET /settings/{$}", auth.RequireAuth(http.HandlerFunc(sh.Index)))
	mux.Handle("GET /settings/password", auth.RequireAuth(http.HandlerFunc(sh.PasswordForm)))
	mux.Handle("POST /settings/password", auth.RequireAuth(http.HandlerFunc(sh.ChangePassword)))
	mux.Handle("GET /settings/email", auth.RequireAuth(http.HandlerFunc(sh.EmailForm)))
	mux.Handle("POST /settings/email", auth.RequireAuth(http.HandlerFunc(sh.ChangeEmail)))
	mux.Handle("POST /settings/privacy", auth.RequireAuth(http.HandlerFunc(sh.SetPrivacy)))
	mux.Handle("GET /settings/delete", auth.RequireAuth(http.HandlerFunc(sh.DeleteForm)))
	mux.Handle("POST /settings/delete", auth.RequireAuth(http.HandlerFunc(sh.DeleteAccount)))

	return auth.Middleware(withRecover(withLogging(mux)))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Any("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
