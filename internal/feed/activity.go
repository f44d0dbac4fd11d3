package feed

import (
	"sort"
	"time"
)

// Place identifies where a profile activity happened. The profile feed is
// about the user, so their reviews are attributed to the establishment
// instead of the author.
type Place struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	DisplayedName  string `json:"displayed_name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Link           string `json:"link"`
}

// ProfileReview is a user's review with establishment attribution; the
// establishment is left-resolved and may be nil if it was deleted.
type ProfileReview struct {
	Review
	Establishment *Place `json:"establishment,omitempty"`
}

const (
	ActivityReview  = "review"
	ActivityComment = "comment"
)

// Activity is one entry of a user's merged history, either a review or a
// comment.
type Activity struct {
	Kind    string         `json:"kind"`
	Review  *ProfileReview `json:"review,omitempty"`
	Comment *Comment       `json:"comment,omitempty"`
}

func (a Activity) postedAt() time.Time {
	if a.Review != nil {
		return a.Review.DatePosted
	}
	return a.Comment.DatePosted
}

// MergeActivity collates a user's reviews and comments into one sequence
// sorted by date posted, newest first. The sort is stable: items posted at
// the same instant keep review-before-comment order, and each kind arrives
// in id order from the store, so head/tail boundaries are deterministic.
func MergeActivity(reviews []ProfileReview, comments []Comment) []Activity {
	items := make([]Activity, 0, len(reviews)+len(comments))
	for i := range reviews {
		reviews[i].NetScore = len(reviews[i].Likes) - len(reviews[i].Dislikes)
		reviews[i].Media = SplitMedia(reviews[i].Images, reviews[i].Videos)
		items = append(items, Activity{Kind: ActivityReview, Review: &reviews[i]})
	}
	for i := range comments {
		comments[i].NetScore = len(comments[i].Likes) - len(comments[i].Dislikes)
		items = append(items, Activity{Kind: ActivityComment, Comment: &comments[i]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].postedAt().After(items[j].postedAt())
	})
	return items
}
