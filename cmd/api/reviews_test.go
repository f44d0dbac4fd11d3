package main

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"archereats/internal/store"
)

func reviewFormBody(t *testing.T, payload string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("review", payload); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func patchReview(t *testing.T, app *application, reviewID string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := reviewFormBody(t, `{"title":"updated","rating":"4","content":"new text"}`)
	req := authedRequest(http.MethodPatch, "/v1/reviews/"+reviewID, body, &store.User{ID: 5})
	req.Header.Set("Content-Type", contentType)
	req = withURLParam(req, "reviewID", reviewID)

	rr := httptest.NewRecorder()
	app.updateReviewHandler(rr, req)
	return rr
}

func TestUpdateReviewDestroysOldMediaOnlyAfterWrite(t *testing.T) {
	var events []string
	oldURL := "https://cdn.test/upload/old.jpg"
	reviews := &fakeReviewsStore{
		byID: map[int64]*store.Review{
			3: {ID: 3, UserID: 5, EstablishmentID: 1, Images: []string{oldURL}},
		},
		events: &events,
	}
	media := &fakeMedia{events: &events}
	app := newTestApp(reviews, &fakeCommentsStore{}, media)

	rr := patchReview(t, app, "3")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if len(events) != 2 || events[0] != "update" || events[1] != "destroy" {
		t.Fatalf("events = %v, want the write before the destroy", events)
	}
	if len(media.destroyed) != 1 || media.destroyed[0] != oldURL {
		t.Fatalf("destroyed = %v, want [%s]", media.destroyed, oldURL)
	}
}

func TestUpdateReviewFailureKeepsOldMedia(t *testing.T) {
	oldURL := "https://cdn.test/upload/old.jpg"
	reviews := &fakeReviewsStore{
		byID: map[int64]*store.Review{
			3: {ID: 3, UserID: 5, EstablishmentID: 1, Images: []string{oldURL}},
		},
		updateErr: errors.New("write failed"),
	}
	media := &fakeMedia{}
	app := newTestApp(reviews, &fakeCommentsStore{}, media)

	rr := patchReview(t, app, "3")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if len(media.destroyed) != 0 {
		t.Fatalf("old media destroyed despite failed update: %v", media.destroyed)
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"5", 5, false},
		{"3", 3, false},
		{"0", 0, true},
		{"6", 0, true},
		{"-2", 0, true},
		{"4.5", 0, true},
		{"five", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseRating(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseRating(%q) accepted, want error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseRating(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRating(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestExtractPublicIDFromURL(t *testing.T) {
	got, err := extractPublicIDFromURL("https://res.cloudinary.com/demo/image/upload/reviews/review_7_abc.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "reviews/review_7_abc.jpg" {
		t.Fatalf("got %q", got)
	}

	if _, err := extractPublicIDFromURL("https://example.com/no/upload/marker"); err != nil {
		t.Fatalf("upload marker mid-path should still resolve: %v", err)
	}

	if _, err := extractPublicIDFromURL("https://example.com/plain/path"); err == nil {
		t.Fatal("expected error for URL without upload segment")
	}
}
