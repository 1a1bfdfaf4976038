package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/awu/foodlog/auth"
	"github.com/awu/foodlog/httpx"
	"github.com/awu/foodlog/internal/policy"
	"github.com/awu/foodlog/internal/services"
	"github.com/awu/foodlog/internal/storage"
	"github.com/awu/foodlog/validation"
)

const maxUploadBytes = 10 << 20

type LogHandler struct {
	Accounts *services.Accounts
	Logs     *services.Logs
	Files    storage.Store
}

func NewLogHandler(accounts *services.Accounts, logs *services.Logs, files storage.Store) *LogHandler {
	return &LogHandler{Accounts: accounts, Logs: logs, Files: files}
}

// Index lists visible logs, optionally filtered by ?query=.
func (h *LogHandler) Index(w http.ResponseWriter, r *http.Request) {
	viewer := auth.UserID(r.Context())
	query := r.URL.Query().Get("query")
	entries, err := h.Logs.ListVisible(viewer, query, time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	data := baseData(r, h.Accounts)
	data["Logs"] = entries
	data["Query"] = query
	render(w, r, "logs.html", data)
}

// Detail shows one log with its comments. Private owners get a placeholder
// page with no log content for anyone but themselves.
func (h *LogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	h.renderDetail(w, r, pathID(r), validation.Violations{}, http.StatusOK)
}

// renderDetail builds the detail page; comment-form errors re-render it.
func (h *LogHandler) renderDetail(w http.ResponseWriter, r *http.Request, logID uint, errs validation.Violations, status int) {
	entry, comments, err := h.Logs.Detail(logID, time.Now())
	if errors.Is(err, services.ErrNotFound) {
		httpx.NotFound(w, "Log does not exist!")
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	viewer := auth.UserID(r.Context())
	privacy, err := h.Accounts.PrivacyFor(entry.CreatorID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	data := baseData(r, h.Accounts)
	data["Errors"] = errs
	if !policy.CanViewLogs(viewer, entry.CreatorID, privacy.ShowLogs) {
		data["Private"] = true
		render(w, r, "log_detail.html", data)
		return
	}
	data["Log"] = entry
	data["Comments"] = comments
	data["CanComment"] = policy.CanComment(viewer, *entry, privacy.ShowLogs)
	data["CanDelete"] = policy.CanDeleteLog(viewer, *entry)
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	render(w, r, "log_detail.html", data)
}

func (h *LogHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "log_form.html", baseData(r, h.Accounts))
}

// Create handles the new-log form: multipart for the optional image.
func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		if err := r.ParseForm(); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
			return
		}
	}
	name := strings.TrimSpace(r.FormValue("name"))
	desc := strings.TrimSpace(r.FormValue("desc"))
	ingredients := strings.TrimSpace(r.FormValue("ingredients"))
	caloriesRaw := strings.TrimSpace(r.FormValue("calories"))

	errs := validation.Violations{}
	validation.Required("name", name, errs)
	calories := 0
	if caloriesRaw != "" {
		var err error
		calories, err = strconv.Atoi(caloriesRaw)
		if err != nil {
			errs["calories"] = "Calories must be a whole number"
		} else {
			validation.NonNegativeInt("calories", calories, errs)
		}
	}

	image := ""
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		path, saveErr := h.Files.Save(header.Filename, file)
		if saveErr != nil {
			log.Warn().Err(saveErr).Msg("food image upload failed")
			errs["image"] = "Could not save image"
		} else {
			image = path
		}
	}

	if !errs.Empty() {
		h.rerenderForm(w, r, errs, name, desc, ingredients, caloriesRaw)
		return
	}

	entry, err := h.Logs.Create(r.Context(), auth.UserID(r.Context()), name, desc, ingredients, calories, image, time.Now())
	if errors.Is(err, services.ErrInvalidInput) {
		errs["calories"] = "Must be zero or a positive number"
		h.rerenderForm(w, r, errs, name, desc, ingredients, caloriesRaw)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/logs/%d/", entry.ID), statusSeeOther)
}

func (h *LogHandler) rerenderForm(w http.ResponseWriter, r *http.Request, errs validation.Violations, name, desc, ingredients, calories string) {
	data := baseData(r, h.Accounts)
	data["Errors"] = errs
	data["Name"] = name
	data["Desc"] = desc
	data["Ingredients"] = ingredients
	data["Calories"] = calories
	w.WriteHeader(http.StatusBadRequest)
	render(w, r, "log_form.html", data)
}

// Comment adds a comment to a log.
func (h *LogHandler) Comment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	logID := pathID(r)
	_, err := h.Logs.AddComment(auth.UserID(r.Context()), logID, r.FormValue("comment"), time.Now())
	switch {
	case errors.Is(err, services.ErrEmptyComment):
		errs := validation.Violations{"comment": "Comment must not be empty"}
		h.renderDetail(w, r, logID, errs, http.StatusBadRequest)
		return
	case errors.Is(err, services.ErrNotFound):
		httpx.NotFound(w, "Log does not exist!")
		return
	case errors.Is(err, services.ErrForbidden):
		// Do not reveal whether the private log exists.
		http.Redirect(w, r, "/logs/", statusSeeOther)
		return
	case err != nil:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/logs/%d/", logID), statusSeeOther)
}

// Delete removes one of the requester's own logs.
func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Logs.Delete(auth.UserID(r.Context()), pathID(r))
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.NotFound(w, "Log does not exist!")
		return
	case errors.Is(err, services.ErrForbidden):
		http.Redirect(w, r, "/logs/", statusSeeOther)
		return
	case err != nil:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Redirect(w, r, "/logs/", statusSeeOther)
}
