package main

import (
	"errors"
	"fmt"
	"net/http"

	"archereats/internal/feed"
	"archereats/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type updateDescriptionPayload struct {
	Description string `json:"description" validate:"max=500"`
}

// getUserProfileHandler assembles the profile page: the user's reviews
// and comments merged into one activity stream, newest first, with the
// latest three shown and the rest truncated.
//
//	@Summary	User profile with recent activity
//	@Tags		users
//	@Produce	json
//	@Param		username	path	string	true	"Username"
//	@Success	200	{object}	map[string]any
//	@Router		/users/{username} [get]
func (app *application) getUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewer := getUserFromContext(r)
	ctx := r.Context()

	user, err := app.store.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	reviews, err := app.store.Reviews.GetByUser(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	comments, err := app.store.Comments.GetByUser(ctx, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	activity := feed.MergeActivity(reviews, comments)
	recent, truncated := feed.Split(activity, 3)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"user":               user,
		"recent_activity":    recent,
		"truncated_activity": truncated,
		"is_owner":           viewer != nil && viewer.ID == user.ID,
	})
}

func (app *application) updateDescriptionHandler(w http.ResponseWriter, r *http.Request) {
	var payload updateDescriptionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)

	if err := app.store.Users.UpdateDescription(r.Context(), user.ID, payload.Description); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"description": payload.Description})
}

// updateProfilePictureHandler replaces the avatar: the new file goes up
// first, the old asset is destroyed only after the swap sticks.
func (app *application) updateProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	const maxBytes = 10 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	file, _, err := r.FormFile("profile_picture")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("profile_picture file is required"))
		return
	}
	defer file.Close()

	user := getUserFromContext(r)

	publicID := fmt.Sprintf("user_%d_%s", user.ID, uuid.New().String())
	assetURL, err := app.uploadToCloudinary(file, "user_pfp", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Users.SetProfilePicture(r.Context(), user.ID, assetURL); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if user.ProfilePicture != "" {
		if err := app.deleteFromCloudinary(user.ProfilePicture); err != nil {
			app.logger.Errorw("error deleting old profile picture", "url", user.ProfilePicture, "error", err)
		}
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"profile_picture": assetURL})
}
