package reactions

import (
	"testing"
)

func TestLikeThenDislikeStaysDisjoint(t *testing.T) {
	var likes, dislikes []int64
	user := int64(7)

	likes, dislikes, changed := Apply(likes, dislikes, user, OpLike)
	if !changed {
		t.Fatal("expected like to change state")
	}
	if !Contains(likes, user) || Contains(dislikes, user) {
		t.Fatalf("after like: likes=%v dislikes=%v", likes, dislikes)
	}

	likes, dislikes, changed = Apply(likes, dislikes, user, OpDislike)
	if !changed {
		t.Fatal("expected dislike to change state")
	}
	if Contains(likes, user) || !Contains(dislikes, user) {
		t.Fatalf("after dislike: likes=%v dislikes=%v", likes, dislikes)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	likes := []int64{1, 2}
	dislikes := []int64{3}

	l, d, changed := Apply(likes, dislikes, 2, OpLike)
	if changed {
		t.Fatal("liking an existing liker should be a no-op")
	}
	if len(l) != 2 || len(d) != 1 {
		t.Fatalf("state changed on no-op: likes=%v dislikes=%v", l, d)
	}
}

func TestUnlikeWhenNeverLikedIsNoOp(t *testing.T) {
	likes := []int64{1}
	dislikes := []int64{2}

	l, d, changed := Apply(likes, dislikes, 99, OpUnlike)
	if changed {
		t.Fatal("unlike by a non-liker should be a no-op")
	}
	if len(l) != 1 || len(d) != 1 {
		t.Fatalf("state changed: likes=%v dislikes=%v", l, d)
	}
}

func TestUnlikeLeavesDislikesAlone(t *testing.T) {
	likes := []int64{5}
	dislikes := []int64{6}

	l, d, _ := Apply(likes, dislikes, 5, OpUnlike)
	if Contains(l, 5) {
		t.Fatalf("user still in likes: %v", l)
	}
	if !Contains(d, 6) {
		t.Fatalf("unlike must not touch dislikes: %v", d)
	}

	l, d, _ = Apply(likes, dislikes, 6, OpUndislike)
	if Contains(d, 6) {
		t.Fatalf("user still in dislikes: %v", d)
	}
	if !Contains(l, 5) {
		t.Fatalf("undislike must not touch likes: %v", l)
	}
}

func TestApplyTable(t *testing.T) {
	tests := []struct {
		name        string
		likes       []int64
		dislikes    []int64
		op          Op
		user        int64
		wantLikes   int
		wantDislike int
		wantChanged bool
	}{
		{"like fresh", nil, nil, OpLike, 1, 1, 0, true},
		{"like flips dislike", nil, []int64{1}, OpLike, 1, 1, 0, true},
		{"dislike flips like", []int64{1}, nil, OpDislike, 1, 0, 1, true},
		{"undislike no-op", []int64{1}, nil, OpUndislike, 1, 1, 0, false},
		{"dislike fresh", nil, nil, OpDislike, 4, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, d, changed := Apply(tt.likes, tt.dislikes, tt.user, tt.op)
			if len(l) != tt.wantLikes || len(d) != tt.wantDislike || changed != tt.wantChanged {
				t.Fatalf("got likes=%v dislikes=%v changed=%v", l, d, changed)
			}
			if Contains(l, tt.user) && Contains(d, tt.user) {
				t.Fatal("likes and dislikes must stay disjoint")
			}
		})
	}
}

func TestNetScore(t *testing.T) {
	if got := NetScore([]int64{1, 2, 3}, []int64{4}); got != 2 {
		t.Fatalf("net score = %d, want 2", got)
	}
	if got := NetScore(nil, nil); got != 0 {
		t.Fatalf("net score = %d, want 0", got)
	}
}
