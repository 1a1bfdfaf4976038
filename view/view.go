// Package view renders page templates against the shared layout with a
// process-wide parse cache. Set DEV=1 to re-parse on every request.
package view

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	baseDir string
	once    sync.Once

	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

func detectBase() {
	// Works whether tests run from the repo root or a package dir.
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// SetBaseDir overrides template auto-detection (used by tests).
func SetBaseDir(dir string) {
	once.Do(func() {})
	baseDir = dir
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"formatTime": func(t time.Time) string { return t.Format("Jan 2, 2006 15:04") },
		"year":       func() int { return time.Now().Year() },
	}
}

func load(name string) (*template.Template, error) {
	dev := os.Getenv("DEV") == "1"
	if !dev {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}
	t, err := template.New("layout.html").Funcs(funcs()).ParseFiles(
		filepath.Join(baseDir, "layout.html"),
		filepath.Join(baseDir, name),
	)
	if err != nil {
		return nil, err
	}
	if !dev {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render executes the named page inside the layout. The page body is built in
// a buffer first so a template error never emits a half-written response.
// Callers that need a non-200 status set it before calling Render.
func Render(w http.ResponseWriter, _ *http.Request, name string, data map[string]any) error {
	once.Do(detectBase)
	if data == nil {
		data = map[string]any{}
	}
	t, err := load(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(buf.Bytes())
	return err
}
