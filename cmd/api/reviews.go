package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"archereats/internal/store"

	"github.com/go-chi/chi/v5"
)

type reviewPayload struct {
	Title   string `json:"title" validate:"required,max=120"`
	Rating  string `json:"rating" validate:"required"`
	Content string `json:"content" validate:"required,max=2000"`
}

// parseRating validates the string-typed rating from the form into the
// 1..5 range; anything else is rejected, never silently accepted.
func parseRating(raw string) (int, error) {
	rating, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("rating must be a number, got %q", raw)
	}
	if rating < 1 || rating > 5 {
		return 0, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	return rating, nil
}

// parseReviewForm reads the multipart review form: a JSON payload under
// "review" plus any number of media files under "media".
func (app *application) parseReviewForm(w http.ResponseWriter, r *http.Request) (*reviewPayload, int, []*multipart.FileHeader, error) {
	const maxBytes = 50 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, 0, nil, fmt.Errorf("parse form: %w", err)
	}

	var payload reviewPayload
	if err := json.Unmarshal([]byte(r.FormValue("review")), &payload); err != nil {
		return nil, 0, nil, fmt.Errorf("json unmarshal: %w", err)
	}

	if err := Validate.Struct(payload); err != nil {
		return nil, 0, nil, err
	}

	rating, err := parseRating(payload.Rating)
	if err != nil {
		return nil, 0, nil, err
	}

	return &payload, rating, r.MultipartForm.File["media"], nil
}

// createReviewHandler godoc
//
//	@Summary	Posts a review for an establishment
//	@Tags		reviews
//	@Accept		mpfd
//	@Produce	json
//	@Param		establishmentID	path		int	true	"Establishment ID"
//	@Success	201				{object}	store.Review
//	@Security	ApiKeyAuth
//	@Router		/establishments/{establishmentID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := strconv.ParseInt(chi.URLParam(r, "establishmentID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid establishment ID"))
		return
	}

	user := getUserFromContext(r)
	ctx := r.Context()

	if _, err := app.store.Establishments.GetByID(ctx, establishmentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	payload, rating, files, err := app.parseReviewForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	images, videos, err := app.uploadReviewMedia(files, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	review := &store.Review{
		EstablishmentID: establishmentID,
		UserID:          user.ID,
		Title:           payload.Title,
		Content:         payload.Content,
		Rating:          rating,
		Images:          images,
		Videos:          videos,
	}

	if err := app.store.Reviews.Create(ctx, review); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, map[string]any{
		"review": review,
		"user":   user,
	})
}

// updateReviewHandler replaces the review's text, rating and media.
// Replaced media is destroyed in the media store.
func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	user := getUserFromContext(r)
	ctx := r.Context()

	review, err := app.store.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if review.UserID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	payload, rating, files, err := app.parseReviewForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	images, videos, err := app.uploadReviewMedia(files, user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Reviews.Update(ctx, reviewID, payload.Title, payload.Content, rating, images, videos); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	// The replaced assets go only after the row points at the new ones; a
	// failed update must not leave the review referencing destroyed media.
	app.deleteReviewMedia(review.Images, review.Videos)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"title":   payload.Title,
		"content": payload.Content,
		"rating":  rating,
		"images":  images,
		"videos":  videos,
		"user":    user,
	})
}

// deleteReviewHandler removes the review, its media assets and, in the
// same transaction at the store, every comment under it.
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	user := getUserFromContext(r)
	ctx := r.Context()

	review, err := app.store.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if review.UserID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	app.deleteReviewMedia(review.Images, review.Videos)

	if err := app.store.Reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "review deleted"})
}
