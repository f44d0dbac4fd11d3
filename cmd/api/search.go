package main

import (
	"errors"
	"net/http"
	"strconv"
)

// searchHandler godoc
//
//	@Summary	Searches establishments and reviews
//	@Tags		search
//	@Produce	json
//	@Param		q		query		string	true	"Search text"
//	@Param		stars	query		int		false	"Restrict establishments to a star band (1-5)"
//	@Success	200		{object}	map[string]any
//	@Router		/search [get]
func (app *application) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		app.badRequestResponse(w, r, errors.New("q query parameter is required"))
		return
	}

	var stars *int
	if raw := r.URL.Query().Get("stars"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 5 {
			app.badRequestResponse(w, r, errors.New("stars must be a number between 1 and 5"))
			return
		}
		stars = &n
	}

	ctx := r.Context()

	establishments, err := app.store.Establishments.Search(ctx, query, stars)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	reviews, err := app.store.Reviews.Search(ctx, query)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"establishments": establishments,
		"reviews":        reviews,
	})
}
