package main

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"archereats/internal/feed"
	"archereats/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fakeReviewsStore struct {
	byID      map[int64]*store.Review
	updateErr error
	events    *[]string
}

func (s *fakeReviewsStore) Create(ctx context.Context, review *store.Review) error {
	review.ID = int64(len(s.byID) + 1)
	return nil
}

func (s *fakeReviewsStore) GetByID(ctx context.Context, reviewID int64) (*store.Review, error) {
	review, ok := s.byID[reviewID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return review, nil
}

func (s *fakeReviewsStore) Update(ctx context.Context, reviewID int64, title, content string, rating int, images, videos []string) error {
	if s.events != nil {
		*s.events = append(*s.events, "update")
	}
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.byID[reviewID]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (s *fakeReviewsStore) Delete(ctx context.Context, reviewID int64) error { return nil }

func (s *fakeReviewsStore) FeedByEstablishment(ctx context.Context, establishmentID int64) ([]feed.Row, error) {
	return nil, nil
}

func (s *fakeReviewsStore) GetByUser(ctx context.Context, userID int64) ([]feed.ProfileReview, error) {
	return nil, nil
}

func (s *fakeReviewsStore) SetResponse(ctx context.Context, reviewID int64, content string) error {
	return nil
}

func (s *fakeReviewsStore) UpdateResponse(ctx context.Context, reviewID int64, content string) error {
	return nil
}

func (s *fakeReviewsStore) ClearResponse(ctx context.Context, reviewID int64) error { return nil }

func (s *fakeReviewsStore) Search(ctx context.Context, query string) ([]store.ReviewSearchHit, error) {
	return nil, nil
}

type fakeCommentsStore struct {
	byID    map[int64]*store.Comment
	created []*store.Comment
}

func (s *fakeCommentsStore) Create(ctx context.Context, comment *store.Comment) error {
	comment.ID = int64(100 + len(s.created))
	comment.DatePosted = time.Now()
	s.created = append(s.created, comment)
	return nil
}

func (s *fakeCommentsStore) GetByID(ctx context.Context, commentID int64) (*store.Comment, error) {
	comment, ok := s.byID[commentID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return comment, nil
}

func (s *fakeCommentsStore) Update(ctx context.Context, commentID int64, content string) error {
	return nil
}

func (s *fakeCommentsStore) Delete(ctx context.Context, commentID int64) error { return nil }

func (s *fakeCommentsStore) GetByReview(ctx context.Context, reviewID int64) ([]feed.Comment, error) {
	return nil, nil
}

func (s *fakeCommentsStore) GetByUser(ctx context.Context, userID int64) ([]feed.Comment, error) {
	return nil, nil
}

type fakeMedia struct {
	destroyed []string
	events    *[]string
}

func (m *fakeMedia) upload(file multipart.File, folder, publicID string) (string, error) {
	return "https://cdn.test/upload/" + publicID, nil
}

func (m *fakeMedia) destroy(assetURL string) error {
	if m.events != nil {
		*m.events = append(*m.events, "destroy")
	}
	m.destroyed = append(m.destroyed, assetURL)
	return nil
}

func newTestApp(reviews *fakeReviewsStore, comments *fakeCommentsStore, media *fakeMedia) *application {
	return &application{
		store:  store.Storage{Reviews: reviews, Comments: comments},
		logger: zap.NewNop().Sugar(),
		media:  media,
	}
}

func authedRequest(method, target string, body io.Reader, user *store.User) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(context.WithValue(req.Context(), userCtx, user))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func postComment(t *testing.T, app *application, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := authedRequest(http.MethodPost, "/v1/comments", strings.NewReader(body), &store.User{ID: 5})
	rr := httptest.NewRecorder()
	app.createCommentHandler(rr, req)
	return rr
}

func commentFixtures() (*fakeReviewsStore, *fakeCommentsStore) {
	reviews := &fakeReviewsStore{byID: map[int64]*store.Review{
		7: {ID: 7, EstablishmentID: 1, UserID: 2},
		9: {ID: 9, EstablishmentID: 1, UserID: 2},
	}}
	comments := &fakeCommentsStore{byID: map[int64]*store.Comment{
		10: {ID: 10, ReviewID: 7, UserID: 2, Content: "parent"},
	}}
	return reviews, comments
}

func TestCreateCommentRejectsMismatchedReview(t *testing.T) {
	reviews, comments := commentFixtures()
	app := newTestApp(reviews, comments, &fakeMedia{})

	// parent 10 belongs to review 7; declaring review 9 breaks the thread
	rr := postComment(t, app, `{"review_id":9,"parent_id":10,"content":"hi"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if len(comments.created) != 0 {
		t.Fatalf("comment was created despite the mismatch: %+v", comments.created)
	}
}

func TestCreateCommentDerivesReviewFromParent(t *testing.T) {
	reviews, comments := commentFixtures()
	app := newTestApp(reviews, comments, &fakeMedia{})

	rr := postComment(t, app, `{"parent_id":10,"content":"hi"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if len(comments.created) != 1 {
		t.Fatalf("created %d comments, want 1", len(comments.created))
	}
	if comments.created[0].ReviewID != 7 {
		t.Fatalf("review id = %d, want parent's review 7", comments.created[0].ReviewID)
	}
}

func TestCreateCommentAcceptsAgreeingDeclaredReview(t *testing.T) {
	reviews, comments := commentFixtures()
	app := newTestApp(reviews, comments, &fakeMedia{})

	rr := postComment(t, app, `{"review_id":7,"parent_id":10,"content":"hi"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if len(comments.created) != 1 || comments.created[0].ReviewID != 7 {
		t.Fatalf("created = %+v", comments.created)
	}
}

func TestCreateCommentRequiresReviewForTopLevel(t *testing.T) {
	reviews, comments := commentFixtures()
	app := newTestApp(reviews, comments, &fakeMedia{})

	rr := postComment(t, app, `{"content":"hi"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if len(comments.created) != 0 {
		t.Fatalf("top-level comment created without a review: %+v", comments.created)
	}
}

func TestCreateCommentMissingParentIsNotFound(t *testing.T) {
	reviews, comments := commentFixtures()
	app := newTestApp(reviews, comments, &fakeMedia{})

	rr := postComment(t, app, `{"parent_id":99,"content":"hi"}`)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
