package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/awu/foodlog/auth"
	"github.com/awu/foodlog/internal/models"
	"github.com/awu/foodlog/internal/services"
	"github.com/awu/foodlog/validation"
	"github.com/awu/foodlog/view"
)

// Explicit constant for Post/Redirect/Get responses.
const statusSeeOther = http.StatusSeeOther

func render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template render failed")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("template error"))
	}
}

// baseData seeds the keys every template expects: the authenticated user (nil
// for anonymous) and an empty violations map.
func baseData(r *http.Request, accounts *services.Accounts) map[string]any {
	data := map[string]any{
		"CurrentUser": (*models.User)(nil),
		"Errors":      validation.Violations{},
	}
	if uid := auth.UserID(r.Context()); uid != 0 {
		if u, err := accounts.Get(uid); err == nil {
			data["CurrentUser"] = u
		}
	}
	return data
}

// pathID parses the {id} path segment, 0 when malformed.
func pathID(r *http.Request) uint {
	id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id64)
}

// avatarURL maps a stored profile picture to its serving URL. The default
// avatar lives under /static/, uploads under /media/.
func avatarURL(u *models.User) string {
	if u == nil || u.ProfilePicture == models.DefaultAvatar {
		return "/" + models.DefaultAvatar
	}
	return "/media/" + u.ProfilePicture
}
