package feed

import (
	"testing"
	"time"
)

func TestMergeActivitySortsAndSplits(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	var reviews []ProfileReview
	for i := 0; i < 5; i++ {
		reviews = append(reviews, ProfileReview{
			Review: Review{ID: int64(i + 1), DatePosted: start.Add(time.Duration(i*2) * time.Hour)},
		})
	}
	var comments []Comment
	for i := 0; i < 2; i++ {
		comments = append(comments, Comment{ID: int64(i + 1), DatePosted: start.Add(time.Duration(i*2+1) * time.Hour)})
	}

	merged := MergeActivity(reviews, comments)
	if len(merged) != 7 {
		t.Fatalf("merged %d items, want 7", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].postedAt().After(merged[i-1].postedAt()) {
			t.Fatalf("item %d newer than item %d", i, i-1)
		}
	}

	head, tail := Split(merged, 3)
	if len(head) != 3 || len(tail) != 4 {
		t.Fatalf("split = %d/%d, want 3/4", len(head), len(tail))
	}
	// head then tail reconstructs the full sorted sequence
	rejoined := append(append([]Activity{}, head...), tail...)
	for i := range merged {
		if rejoined[i].postedAt() != merged[i].postedAt() {
			t.Fatalf("head+tail diverges from merged at %d", i)
		}
	}
}

func TestMergeActivityFewerThanHead(t *testing.T) {
	merged := MergeActivity([]ProfileReview{{Review: Review{ID: 1}}}, nil)
	head, tail := Split(merged, 3)
	if len(head) != 1 || len(tail) != 0 {
		t.Fatalf("split = %d/%d, want 1/0", len(head), len(tail))
	}
}

func TestMergeActivityStableOnEqualTimestamps(t *testing.T) {
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	reviews := []ProfileReview{{Review: Review{ID: 1, DatePosted: at}}}
	comments := []Comment{{ID: 2, DatePosted: at}}

	merged := MergeActivity(reviews, comments)
	if merged[0].Kind != ActivityReview || merged[1].Kind != ActivityComment {
		t.Fatalf("equal timestamps reordered: %s, %s", merged[0].Kind, merged[1].Kind)
	}
}

func TestSplitClampsHead(t *testing.T) {
	head, tail := Split([]int{1, 2}, 5)
	if len(head) != 2 || len(tail) != 0 {
		t.Fatalf("split = %d/%d", len(head), len(tail))
	}
	head, tail = Split([]int{1, 2, 3}, 2)
	if len(head) != 2 || len(tail) != 1 {
		t.Fatalf("split = %d/%d", len(head), len(tail))
	}
}
