package main

import (
	"errors"
	"net/http"

	"archereats/internal/reactions"
	"archereats/internal/store"
)

type reactionPayload struct {
	TargetType string `json:"target_type" validate:"required,oneof=review comment"`
	TargetID   int64  `json:"target_id" validate:"required"`
	Action     string `json:"action" validate:"required,oneof=like unlike dislike undislike"`
}

// reactionHandler godoc
//
//	@Summary	Applies a like/dislike transition to a review or comment
//	@Tags		reactions
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		reactionPayload	true	"Reaction payload"
//	@Success	200		{object}	map[string]any
//	@Failure	404		{object}	error	"target does not exist"
//	@Security	ApiKeyAuth
//	@Router		/reactions [patch]
func (app *application) reactionHandler(w http.ResponseWriter, r *http.Request) {
	var payload reactionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	kind := reactions.Kind(payload.TargetType)
	op := reactions.Op(payload.Action)

	user := getUserFromContext(r)
	ctx := r.Context()

	likes, dislikes, err := app.store.Reactions.Get(ctx, kind, payload.TargetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	newLikes, newDislikes, changed := reactions.Apply(likes, dislikes, user.ID, op)
	if changed {
		if err := app.store.Reactions.Apply(ctx, kind, payload.TargetID, user.ID, op); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				app.notFoundResponse(w, r, err)
				return
			}
			app.internalServerError(w, r, err)
			return
		}
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"likes":     len(newLikes),
		"dislikes":  len(newDislikes),
		"net_score": reactions.NetScore(newLikes, newDislikes),
		"changed":   changed,
	})
}
