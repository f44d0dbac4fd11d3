package main

import (
	"errors"
	"net/http"

	"archereats/internal/feed"
	"archereats/internal/store"

	"github.com/go-chi/chi/v5"
)

// listEstablishmentsHandler godoc
//
//	@Summary	Lists every establishment
//	@Tags		establishments
//	@Produce	json
//	@Success	200	{array}	store.Establishment
//	@Router		/establishments [get]
func (app *application) listEstablishmentsHandler(w http.ResponseWriter, r *http.Request) {
	establishments, err := app.store.Establishments.GetAll(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{"establishments": establishments})
}

// getEstablishmentHandler assembles the establishment page: the feed of
// reviews with their comment threads, the rating summary over everyone
// else's reviews, and the viewer's own review pulled out on top.
//
//	@Summary	Establishment page with review feed and rating summary
//	@Tags		establishments
//	@Produce	json
//	@Param		username	path	string	true	"Establishment username"
//	@Success	200	{object}	map[string]any
//	@Router		/establishments/{username} [get]
func (app *application) getEstablishmentHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewer := getUserFromContext(r)
	ctx := r.Context()

	establishment, err := app.store.Establishments.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	rows, err := app.store.Reviews.FeedByEstablishment(ctx, establishment.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	reviews := feed.Compose(rows)

	// The viewer's own review is presented separately and never counts
	// toward the aggregates they see.
	var userReview *feed.Review
	others := reviews
	if viewer != nil {
		others = make([]feed.Review, 0, len(reviews))
		for i := range reviews {
			if reviews[i].UserID == viewer.ID {
				rv := reviews[i]
				userReview = &rv
				continue
			}
			others = append(others, reviews[i])
		}
	}

	summary := feed.Summarize(others)

	// Cached rating is advisory: refresh it from what we just computed,
	// but never fail the page over it.
	if err := app.store.Establishments.UpdateRating(ctx, establishment.ID, summary.Average); err != nil {
		app.logger.Errorw("failed to refresh cached rating", "establishment", establishment.ID, "error", err)
	}
	establishment.Rating = summary.Average

	top, truncated := feed.Split(others, 2)

	isOwner := viewer != nil && viewer.EstablishmentID != nil && *viewer.EstablishmentID == establishment.ID

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"establishment":     establishment,
		"rating_summary":    summary,
		"user_review":       userReview,
		"top_reviews":       top,
		"truncated_reviews": truncated,
		"is_owner":          isOwner,
	})
}
