package reactions

// Kind tells the store which collection a reaction targets. The client
// already knows what it reacted to, so the kind is passed explicitly
// instead of probing lookups.
type Kind string

const (
	KindReview  Kind = "review"
	KindComment Kind = "comment"
)

func (k Kind) Valid() bool {
	return k == KindReview || k == KindComment
}

// Op is one of the four reaction transitions.
type Op string

const (
	OpLike      Op = "like"
	OpUnlike    Op = "unlike"
	OpDislike   Op = "dislike"
	OpUndislike Op = "undislike"
)

func (o Op) Valid() bool {
	switch o {
	case OpLike, OpUnlike, OpDislike, OpUndislike:
		return true
	}
	return false
}

// Contains reports whether userID is in the set.
func Contains(set []int64, userID int64) bool {
	for _, id := range set {
		if id == userID {
			return true
		}
	}
	return false
}

func remove(set []int64, userID int64) []int64 {
	out := make([]int64, 0, len(set))
	for _, id := range set {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// Apply computes the like/dislike sets after op. A like removes the user
// from dislikes and vice versa; the two sets stay disjoint. Apply is
// idempotent: re-applying an op the user already holds changes nothing.
// changed is false when the transition is a no-op, letting callers skip
// the write entirely.
func Apply(likes, dislikes []int64, userID int64, op Op) (newLikes, newDislikes []int64, changed bool) {
	switch op {
	case OpLike:
		if Contains(likes, userID) {
			return likes, dislikes, false
		}
		return append(remove(likes, userID), userID), remove(dislikes, userID), true
	case OpUnlike:
		if !Contains(likes, userID) {
			return likes, dislikes, false
		}
		return remove(likes, userID), dislikes, true
	case OpDislike:
		if Contains(dislikes, userID) {
			return likes, dislikes, false
		}
		return remove(likes, userID), append(remove(dislikes, userID), userID), true
	case OpUndislike:
		if !Contains(dislikes, userID) {
			return likes, dislikes, false
		}
		return likes, remove(dislikes, userID), true
	}
	return likes, dislikes, false
}

// NetScore is likes minus dislikes.
func NetScore(likes, dislikes []int64) int {
	return len(likes) - len(dislikes)
}
