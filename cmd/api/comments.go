package main

import (
	"errors"
	"net/http"
	"strconv"

	"archereats/internal/store"

	"github.com/go-chi/chi/v5"
)

type createCommentPayload struct {
	ReviewID int64  `json:"review_id"`
	ParentID *int64 `json:"parent_id"`
	Content  string `json:"content" validate:"required,max=1000"`
}

type updateCommentPayload struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// createCommentHandler godoc
//
//	@Summary	Posts a comment or a reply under a review
//	@Tags		comments
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		createCommentPayload	true	"Comment payload"
//	@Success	201		{object}	store.Comment
//	@Security	ApiKeyAuth
//	@Router		/comments [post]
func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	var payload createCommentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	ctx := r.Context()

	// Replies inherit the top-level review from their parent. A payload
	// that names both must agree; a mismatch is a broken thread, not a
	// choice to resolve quietly.
	if payload.ParentID != nil {
		parent, err := app.store.Comments.GetByID(ctx, *payload.ParentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				app.notFoundResponse(w, r, errors.New("parent comment not found"))
				return
			}
			app.internalServerError(w, r, err)
			return
		}
		if payload.ReviewID != 0 && payload.ReviewID != parent.ReviewID {
			app.badRequestResponse(w, r, store.ErrWrongReview)
			return
		}
		payload.ReviewID = parent.ReviewID
	} else if payload.ReviewID == 0 {
		app.badRequestResponse(w, r, errors.New("review_id is required for a top-level comment"))
		return
	}

	if _, err := app.store.Reviews.GetByID(ctx, payload.ReviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("review not found"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	comment := &store.Comment{
		ReviewID: payload.ReviewID,
		UserID:   user.ID,
		ParentID: payload.ParentID,
		Content:  payload.Content,
		Likes:    []int64{},
		Dislikes: []int64{},
	}

	if err := app.store.Comments.Create(ctx, comment); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, map[string]any{
		"comment": comment,
		"user":    user,
	})
}

// listReviewCommentsHandler returns the review's complete flat comment
// set with authors resolved. Nesting the replies under their parents is
// the client's job.
func (app *application) listReviewCommentsHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid review ID"))
		return
	}

	ctx := r.Context()

	if _, err := app.store.Reviews.GetByID(ctx, reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	comments, err := app.store.Comments.GetByReview(ctx, reviewID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{"comments": comments})
}

func (app *application) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid comment ID"))
		return
	}

	var payload updateCommentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	ctx := r.Context()

	comment, err := app.store.Comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if comment.UserID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Comments.Update(ctx, commentID, payload.Content); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"content": payload.Content,
		"edited":  true,
	})
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid comment ID"))
		return
	}

	user := getUserFromContext(r)
	ctx := r.Context()

	comment, err := app.store.Comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if comment.UserID != user.ID {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
