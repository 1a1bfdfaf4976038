package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/awu/foodlog/auth"
	"github.com/awu/foodlog/httpx"
	"github.com/awu/foodlog/internal/models"
	"github.com/awu/foodlog/internal/policy"
	"github.com/awu/foodlog/internal/search"
	"github.com/awu/foodlog/internal/services"
	"github.com/awu/foodlog/internal/storage"
)

type ProfileHandler struct {
	DB       *gorm.DB
	Accounts *services.Accounts
	Logs     *services.Logs
	Files    storage.Store
}

func NewProfileHandler(db *gorm.DB, accounts *services.Accounts, logs *services.Logs, files storage.Store) *ProfileHandler {
	return &ProfileHandler{DB: db, Accounts: accounts, Logs: logs, Files: files}
}

// Index is the user directory. Authenticated viewers are excluded from their
// own listing; ?query= filters by username substring.
func (h *ProfileHandler) Index(w http.ResponseWriter, r *http.Request) {
	viewer := auth.UserID(r.Context())
	q := h.DB.Model(&models.User{}).Order("username ASC")
	if viewer != 0 {
		q = q.Where("id <> ?", viewer)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	query := r.URL.Query().Get("query")
	matched := users[:0]
	for _, u := range users {
		if search.MatchesAny(query, u.Username) {
			matched = append(matched, u)
		}
	}

	data := baseData(r, h.Accounts)
	data["Users"] = matched
	data["Query"] = query
	render(w, r, "profiles.html", data)
}

// Show renders a user's profile. Log entries appear only when the visibility
// policy allows the viewer to see them.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	target, err := h.Accounts.Get(pathID(r))
	if errors.Is(err, services.ErrNotFound) {
		httpx.NotFound(w, "User does not exist!")
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	privacy, err := h.Accounts.PrivacyFor(target.ID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	viewer := auth.UserID(r.Context())
	canView := policy.CanViewLogs(viewer, target.ID, privacy.ShowLogs)

	data := baseData(r, h.Accounts)
	data["Target"] = target
	data["AvatarURL"] = avatarURL(target)
	data["CanView"] = canView
	data["IsSelf"] = viewer == target.ID
	if canView {
		entries, err := h.Logs.ListForOwner(target.ID, time.Now())
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
		data["Logs"] = entries
	}
	render(w, r, "profile.html", data)
}

// ChangePicture stores a new avatar for the authenticated user.
func (h *ProfileHandler) ChangePicture(w http.ResponseWriter, r *http.Request) {
	uid := auth.UserID(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_form", nil)
		return
	}
	file, header, err := r.FormFile("profile_picture")
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/profiles/%d/", uid), statusSeeOther)
		return
	}
	defer file.Close()

	path, err := h.Files.Save(header.Filename, file)
	if err != nil {
		log.Warn().Err(err).Msg("avatar upload failed")
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if err := h.Accounts.ChangeAvatar(uid, path); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/profiles/%d/", uid), statusSeeOther)
}
