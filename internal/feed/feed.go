// Package feed turns the flat rows produced by the store's fan-out join
// into the denormalized view models the rendering layer consumes: composed
// review feeds, rating summaries, media previews and profile activity.
// Everything in here is a pure transform over already-fetched data.
package feed

import (
	"sort"
	"time"

	"archereats/internal/reactions"
)

// Author is the resolved identity attached to a review or comment. It is
// nil on items whose author account was deleted; the item itself still
// appears in the feed.
type Author struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Response is the establishment's reply embedded in a review, at most one.
type Response struct {
	Content    string    `json:"content"`
	Likes      []int64   `json:"likes"`
	Dislikes   []int64   `json:"dislikes"`
	Edited     bool      `json:"edited"`
	DatePosted time.Time `json:"date_posted"`
}

type Comment struct {
	ID         int64     `json:"id"`
	ReviewID   int64     `json:"review_id"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	UserID     int64     `json:"user_id"`
	Content    string    `json:"content"`
	Likes      []int64   `json:"likes"`
	Dislikes   []int64   `json:"dislikes"`
	Edited     bool      `json:"edited"`
	DatePosted time.Time `json:"date_posted"`
	Author     *Author   `json:"user,omitempty"`
	NetScore   int       `json:"net_score"`
}

type Review struct {
	ID              int64     `json:"id"`
	EstablishmentID int64     `json:"establishment_id"`
	UserID          int64     `json:"user_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Rating          int       `json:"rating"`
	Images          []string  `json:"images"`
	Videos          []string  `json:"videos"`
	Likes           []int64   `json:"likes"`
	Dislikes        []int64   `json:"dislikes"`
	Edited          bool      `json:"edited"`
	DatePosted      time.Time `json:"date_posted"`
	Response        *Response `json:"response,omitempty"`
	Author          *Author   `json:"user,omitempty"`
	Comments        []Comment `json:"comments"`
	Media           Media     `json:"media"`
	NetScore        int       `json:"net_score"`
}

// Row is one flat row of the fan-out join: the review's scalar fields
// repeated once per comment, plus left-resolved authors. A review with no
// comments contributes exactly one row whose Comment is nil.
type Row struct {
	Review        Review
	Author        *Author
	Comment       *Comment
	CommentAuthor *Author
}

// Compose is the group-back phase: it collapses the exploded rows to one
// item per review, collecting comments into the review's array and
// filtering the nil placeholder a comment-less review carries. The output
// is sorted by date posted, newest first, ties broken by id so truncation
// boundaries stay reproducible across reads.
func Compose(rows []Row) []Review {
	byID := make(map[int64]*Review, len(rows))
	order := make([]int64, 0, len(rows))

	for _, row := range rows {
		item, ok := byID[row.Review.ID]
		if !ok {
			r := row.Review
			r.Author = row.Author
			r.Comments = []Comment{}
			r.Media = SplitMedia(r.Images, r.Videos)
			r.NetScore = reactions.NetScore(r.Likes, r.Dislikes)
			byID[r.ID] = &r
			order = append(order, r.ID)
			item = &r
		}
		if row.Comment != nil {
			c := *row.Comment
			c.Author = row.CommentAuthor
			c.NetScore = reactions.NetScore(c.Likes, c.Dislikes)
			item.Comments = append(item.Comments, c)
		}
	}

	out := make([]Review, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DatePosted.Equal(out[j].DatePosted) {
			return out[i].DatePosted.After(out[j].DatePosted)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
