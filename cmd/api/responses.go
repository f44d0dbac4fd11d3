package main

import (
	"errors"
	"net/http"
	"strconv"

	"archereats/internal/store"

	"github.com/go-chi/chi/v5"
)

type responsePayload struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// reviewForResponse loads the review and checks the caller runs the
// establishment the review is about. Only that establishment's account
// may touch the response.
func (app *application) reviewForResponse(w http.ResponseWriter, r *http.Request) (*store.Review, bool) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return nil, false
	}

	review, err := app.store.Reviews.GetByID(r.Context(), reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return nil, false
		}
		app.internalServerError(w, r, err)
		return nil, false
	}

	user := getUserFromContext(r)
	if user.EstablishmentID == nil || *user.EstablishmentID != review.EstablishmentID {
		app.forbiddenResponse(w, r)
		return nil, false
	}

	return review, true
}

// createResponseHandler godoc
//
//	@Summary	Posts the establishment's response to a review
//	@Tags		responses
//	@Accept		json
//	@Produce	json
//	@Param		reviewID	path		int				true	"Review ID"
//	@Param		payload		body		responsePayload	true	"Response payload"
//	@Success	201			{object}	map[string]any
//	@Security	ApiKeyAuth
//	@Router		/reviews/{reviewID}/response [post]
func (app *application) createResponseHandler(w http.ResponseWriter, r *http.Request) {
	review, ok := app.reviewForResponse(w, r)
	if !ok {
		return
	}

	var payload responsePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if review.Response != nil {
		app.conflictResponse(w, r, errors.New("review already has a response"))
		return
	}

	if err := app.store.Reviews.SetResponse(r.Context(), review.ID, payload.Content); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, map[string]any{"content": payload.Content})
}

func (app *application) updateResponseHandler(w http.ResponseWriter, r *http.Request) {
	review, ok := app.reviewForResponse(w, r)
	if !ok {
		return
	}

	var payload responsePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Reviews.UpdateResponse(r.Context(), review.ID, payload.Content); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("review has no response to update"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{"content": payload.Content, "edited": true})
}

func (app *application) deleteResponseHandler(w http.ResponseWriter, r *http.Request) {
	review, ok := app.reviewForResponse(w, r)
	if !ok {
		return
	}

	if review.Response == nil {
		app.notFoundResponse(w, r, errors.New("review has no response"))
		return
	}

	if err := app.store.Reviews.ClearResponse(r.Context(), review.ID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "response deleted"})
}
