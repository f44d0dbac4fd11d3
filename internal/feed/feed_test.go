package feed

import (
	"testing"
	"time"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func reviewRow(id int64, posted time.Time, author *Author) Row {
	return Row{
		Review: Review{
			ID:         id,
			Title:      "t",
			Rating:     4,
			DatePosted: posted,
		},
		Author: author,
	}
}

func TestComposeKeepsCommentlessReview(t *testing.T) {
	rows := []Row{reviewRow(1, base, &Author{ID: 9, Username: "ana"})}

	items := Compose(rows)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Comments == nil || len(items[0].Comments) != 0 {
		t.Fatalf("comments = %#v, want empty non-nil slice", items[0].Comments)
	}
	if items[0].Author == nil || items[0].Author.Username != "ana" {
		t.Fatalf("author = %+v", items[0].Author)
	}
}

func TestComposeGroupsBackCommentFanOut(t *testing.T) {
	author := &Author{ID: 9, Username: "ana"}
	rows := []Row{}
	for i := int64(1); i <= 3; i++ {
		row := reviewRow(1, base, author)
		row.Comment = &Comment{ID: i, ReviewID: 1, Content: "c", DatePosted: base.Add(time.Duration(i) * time.Minute)}
		if i != 2 {
			// comment 2's author was deleted; the comment still appears
			row.CommentAuthor = &Author{ID: 100 + i, Username: "u"}
		}
		rows = append(rows, row)
	}

	items := Compose(rows)
	if len(items) != 1 {
		t.Fatalf("got %d items, want exactly one row per review", len(items))
	}
	if len(items[0].Comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(items[0].Comments))
	}
	if items[0].Comments[0].Author == nil {
		t.Fatal("comment author dropped")
	}
	if items[0].Comments[1].Author != nil {
		t.Fatal("deleted comment author should resolve to nil")
	}
}

func TestComposeKeepsReviewWithDeletedAuthor(t *testing.T) {
	rows := []Row{reviewRow(1, base, nil)}
	items := Compose(rows)
	if len(items) != 1 {
		t.Fatal("review with deleted author must not be dropped")
	}
	if items[0].Author != nil {
		t.Fatal("expected nil author")
	}
}

func TestComposeSortsNewestFirstWithStableTie(t *testing.T) {
	rows := []Row{
		reviewRow(3, base, nil),
		reviewRow(1, base.Add(time.Hour), nil),
		reviewRow(2, base, nil),
	}

	items := Compose(rows)
	ids := []int64{items[0].ID, items[1].ID, items[2].ID}
	if ids[0] != 1 {
		t.Fatalf("newest review not first: %v", ids)
	}
	// equal timestamps fall back to id order
	if ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("tie-break not by id: %v", ids)
	}
}

func TestComposeComputesMediaAndNetScore(t *testing.T) {
	row := reviewRow(1, base, nil)
	row.Review.Videos = []string{"v1"}
	row.Review.Images = []string{"i1", "i2", "i3"}
	row.Review.Likes = []int64{1, 2, 3}
	row.Review.Dislikes = []int64{4}

	items := Compose([]Row{row})
	if items[0].NetScore != 2 {
		t.Fatalf("net score = %d, want 2", items[0].NetScore)
	}
	m := items[0].Media
	if len(m.TopVideos) != 1 || len(m.TopImages) != 2 || len(m.TruncatedImages) != 1 {
		t.Fatalf("media split = %+v", m)
	}
}
