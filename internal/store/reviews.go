package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"archereats/internal/feed"
)

type Review struct {
	ID              int64          `json:"id"`
	EstablishmentID int64          `json:"establishment_id"`
	UserID          int64          `json:"user_id"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	Rating          int            `json:"rating"` // 1-5
	Images          []string       `json:"images"`
	Videos          []string       `json:"videos"`
	Likes           []int64        `json:"likes"`
	Dislikes        []int64        `json:"dislikes"`
	Edited          bool           `json:"edited"`
	DatePosted      time.Time      `json:"date_posted"`
	Response        *feed.Response `json:"response,omitempty"`
}

// ReviewSearchHit is a review matched by text search, with enough
// attribution to link it.
type ReviewSearchHit struct {
	Review
	Author                *feed.Author `json:"user,omitempty"`
	EstablishmentUsername string       `json:"establishment_username"`
}

type ReviewsStore struct {
	db *pgxpool.Pool
}

func (s *ReviewsStore) Create(ctx context.Context, review *Review) error {
	query := `
		INSERT INTO reviews (establishment_id, user_id, title, content, rating, images, videos)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_posted
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		review.EstablishmentID,
		review.UserID,
		review.Title,
		review.Content,
		review.Rating,
		review.Images,
		review.Videos,
	).Scan(&review.ID, &review.DatePosted)
}

func (s *ReviewsStore) GetByID(ctx context.Context, reviewID int64) (*Review, error) {
	query := `
		SELECT id, establishment_id, user_id, title, content, rating, images, videos,
		       likes, dislikes, edited, date_posted,
		       response_content, response_likes, response_dislikes, response_edited, response_posted
		FROM reviews
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	review := &Review{}
	var (
		respContent  *string
		respLikes    []int64
		respDislikes []int64
		respEdited   *bool
		respPosted   *time.Time
	)
	err := s.db.QueryRow(ctx, query, reviewID).Scan(
		&review.ID,
		&review.EstablishmentID,
		&review.UserID,
		&review.Title,
		&review.Content,
		&review.Rating,
		&review.Images,
		&review.Videos,
		&review.Likes,
		&review.Dislikes,
		&review.Edited,
		&review.DatePosted,
		&respContent,
		&respLikes,
		&respDislikes,
		&respEdited,
		&respPosted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	review.Response = buildResponse(respContent, respLikes, respDislikes, respEdited, respPosted)
	return review, nil
}

func (s *ReviewsStore) Update(ctx context.Context, reviewID int64, title, content string, rating int, images, videos []string) error {
	query := `
		UPDATE reviews
		SET title = $1, content = $2, rating = $3, images = $4, videos = $5, edited = true
		WHERE id = $6
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, title, content, rating, images, videos, reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the review and every comment under it in one
// transaction. Media cleanup against the storage provider happens in the
// handler, before this is called.
func (s *ReviewsStore) Delete(ctx context.Context, reviewID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return withTx(s.db, ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE review_id = $1`, reviewID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// FeedByEstablishment runs the fan-out phase of the feed pipeline: one
// flat row per (review, comment) pair with both authors left-joined, and a
// single NULL-comment row for reviews nobody commented on. The group-back
// phase is feed.Compose.
func (s *ReviewsStore) FeedByEstablishment(ctx context.Context, establishmentID int64) ([]feed.Row, error) {
	query := `
		SELECT r.id, r.establishment_id, r.user_id, r.title, r.content, r.rating,
		       r.images, r.videos, r.likes, r.dislikes, r.edited, r.date_posted,
		       r.response_content, r.response_likes, r.response_dislikes, r.response_edited, r.response_posted,
		       au.id, au.username, au.profile_picture,
		       c.id, c.review_id, c.parent_id, c.user_id, c.content, c.likes, c.dislikes, c.edited, c.date_posted,
		       cu.id, cu.username, cu.profile_picture
		FROM reviews r
		LEFT JOIN users au ON au.id = r.user_id
		LEFT JOIN comments c ON c.review_id = r.id
		LEFT JOIN users cu ON cu.id = c.user_id
		WHERE r.establishment_id = $1
		ORDER BY r.date_posted DESC, r.id ASC, c.date_posted ASC, c.id ASC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, establishmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []feed.Row
	for rows.Next() {
		var (
			row feed.Row

			respContent  *string
			respLikes    []int64
			respDislikes []int64
			respEdited   *bool
			respPosted   *time.Time

			authorID      *int64
			authorName    *string
			authorPicture *string

			commentID       *int64
			commentReviewID *int64
			commentParentID *int64
			commentUserID   *int64
			commentContent  *string
			commentLikes    []int64
			commentDislikes []int64
			commentEdited   *bool
			commentPosted   *time.Time

			cAuthorID      *int64
			cAuthorName    *string
			cAuthorPicture *string
		)

		err := rows.Scan(
			&row.Review.ID,
			&row.Review.EstablishmentID,
			&row.Review.UserID,
			&row.Review.Title,
			&row.Review.Content,
			&row.Review.Rating,
			&row.Review.Images,
			&row.Review.Videos,
			&row.Review.Likes,
			&row.Review.Dislikes,
			&row.Review.Edited,
			&row.Review.DatePosted,
			&respContent,
			&respLikes,
			&respDislikes,
			&respEdited,
			&respPosted,
			&authorID,
			&authorName,
			&authorPicture,
			&commentID,
			&commentReviewID,
			&commentParentID,
			&commentUserID,
			&commentContent,
			&commentLikes,
			&commentDislikes,
			&commentEdited,
			&commentPosted,
			&cAuthorID,
			&cAuthorName,
			&cAuthorPicture,
		)
		if err != nil {
			return nil, err
		}

		row.Review.Response = buildResponse(respContent, respLikes, respDislikes, respEdited, respPosted)
		row.Author = buildAuthor(authorID, authorName, authorPicture)
		if commentID != nil {
			row.Comment = &feed.Comment{
				ID:         *commentID,
				ReviewID:   *commentReviewID,
				ParentID:   commentParentID,
				UserID:     *commentUserID,
				Content:    *commentContent,
				Likes:      commentLikes,
				Dislikes:   commentDislikes,
				Edited:     *commentEdited,
				DatePosted: *commentPosted,
			}
			row.CommentAuthor = buildAuthor(cAuthorID, cAuthorName, cAuthorPicture)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetByUser returns the user's reviews with establishment attribution for
// the profile feed, newest first.
func (s *ReviewsStore) GetByUser(ctx context.Context, userID int64) ([]feed.ProfileReview, error) {
	query := `
		SELECT r.id, r.establishment_id, r.user_id, r.title, r.content, r.rating,
		       r.images, r.videos, r.likes, r.dislikes, r.edited, r.date_posted,
		       e.id, e.username, e.displayed_name, e.profile_picture
		FROM reviews r
		LEFT JOIN establishments e ON e.id = r.establishment_id
		WHERE r.user_id = $1
		ORDER BY r.date_posted DESC, r.id ASC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []feed.ProfileReview
	for rows.Next() {
		var (
			pr feed.ProfileReview

			estabID       *int64
			estabUsername *string
			estabName     *string
			estabPicture  *string
		)
		err := rows.Scan(
			&pr.ID,
			&pr.EstablishmentID,
			&pr.UserID,
			&pr.Title,
			&pr.Content,
			&pr.Rating,
			&pr.Images,
			&pr.Videos,
			&pr.Likes,
			&pr.Dislikes,
			&pr.Edited,
			&pr.DatePosted,
			&estabID,
			&estabUsername,
			&estabName,
			&estabPicture,
		)
		if err != nil {
			return nil, err
		}
		if estabID != nil {
			pr.Establishment = &feed.Place{
				ID:             *estabID,
				Username:       *estabUsername,
				DisplayedName:  *estabName,
				ProfilePicture: deref(estabPicture),
				Link:           "/" + *estabUsername,
			}
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// SetResponse attaches the establishment's reply. A review holds at most
// one; posting again replaces it wholesale, which matches edit-by-repost
// behavior on the client.
func (s *ReviewsStore) SetResponse(ctx context.Context, reviewID int64, content string) error {
	query := `
		UPDATE reviews
		SET response_content = $1, response_likes = '{}', response_dislikes = '{}',
		    response_edited = false, response_posted = now()
		WHERE id = $2
	`
	return s.execResponse(ctx, query, content, reviewID)
}

func (s *ReviewsStore) UpdateResponse(ctx context.Context, reviewID int64, content string) error {
	query := `
		UPDATE reviews
		SET response_content = $1, response_edited = true
		WHERE id = $2 AND response_content IS NOT NULL
	`
	return s.execResponse(ctx, query, content, reviewID)
}

func (s *ReviewsStore) ClearResponse(ctx context.Context, reviewID int64) error {
	query := `
		UPDATE reviews
		SET response_content = NULL, response_likes = '{}', response_dislikes = '{}',
		    response_edited = false, response_posted = NULL
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ReviewsStore) execResponse(ctx context.Context, query, content string, reviewID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, content, reviewID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches review title or content, resolving the author and the
// establishment's username for linking.
func (s *ReviewsStore) Search(ctx context.Context, query string) ([]ReviewSearchHit, error) {
	sql := `
		SELECT r.id, r.establishment_id, r.user_id, r.title, r.content, r.rating,
		       r.likes, r.dislikes, r.edited, r.date_posted,
		       u.id, u.username, u.profile_picture,
		       COALESCE(e.username, '')
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		LEFT JOIN establishments e ON e.id = r.establishment_id
		WHERE r.title ILIKE $1 OR r.content ILIKE $1
		ORDER BY r.date_posted DESC, r.id ASC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, sql, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewSearchHit
	for rows.Next() {
		var (
			hit ReviewSearchHit

			authorID      *int64
			authorName    *string
			authorPicture *string
		)
		err := rows.Scan(
			&hit.ID,
			&hit.EstablishmentID,
			&hit.UserID,
			&hit.Title,
			&hit.Content,
			&hit.Rating,
			&hit.Likes,
			&hit.Dislikes,
			&hit.Edited,
			&hit.DatePosted,
			&authorID,
			&authorName,
			&authorPicture,
			&hit.EstablishmentUsername,
		)
		if err != nil {
			return nil, err
		}
		hit.Author = buildAuthor(authorID, authorName, authorPicture)
		out = append(out, hit)
	}
	return out, rows.Err()
}

func buildResponse(content *string, likes, dislikes []int64, edited *bool, posted *time.Time) *feed.Response {
	if content == nil {
		return nil
	}
	resp := &feed.Response{
		Content:  *content,
		Likes:    likes,
		Dislikes: dislikes,
	}
	if edited != nil {
		resp.Edited = *edited
	}
	if posted != nil {
		resp.DatePosted = *posted
	}
	return resp
}

func buildAuthor(id *int64, username, picture *string) *feed.Author {
	if id == nil {
		return nil
	}
	return &feed.Author{
		ID:             *id,
		Username:       deref(username),
		ProfilePicture: deref(picture),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
