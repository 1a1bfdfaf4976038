package main

import (
	"net/http"
	"os"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/awu/foodlog/internal/config"
	"github.com/awu/foodlog/internal/server"
	"github.com/awu/foodlog/internal/services"
	"github.com/awu/foodlog/internal/storage"
)

// NewApp assembles storage, services, routes and asset serving. The
// end-to-end tests build the same handler the binary serves.
func NewApp(dbConn *gorm.DB, cfg config.Config) (http.Handler, error) {
	files, err := storage.NewDisk(cfg.MediaDir)
	if err != nil {
		return nil, err
	}
	var nutrition services.NutritionClient
	if c := services.NewEdamamClient(); c != nil {
		nutrition = c
	}
	root := server.New(dbConn, files, nutrition)

	mux := http.NewServeMux()
	mux.Handle("GET /static/", assetCache(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir())))))
	mux.Handle("GET /media/", assetCache(http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir)))))
	mux.Handle("/", root)
	return mux, nil
}

// staticDir finds the static assets whether the binary runs from the repo
// root or a subdir.
func staticDir() string {
	for _, c := range []string{"static", "../static", "../../static"} {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			return filepath.Clean(c)
		}
	}
	return "static"
}

func assetCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if os.Getenv("DEV") == "1" {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		}
		next.ServeHTTP(w, r)
	})
}
