package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"archereats/internal/feed"
)

// Comment always carries its top-level review's id, whatever its nesting
// depth; threads never need a recursive fetch.
type Comment struct {
	ID         int64     `json:"id"`
	ReviewID   int64     `json:"review_id"`
	UserID     int64     `json:"user_id"`
	ParentID   *int64    `json:"parent_id,omitempty"`
	Content    string    `json:"content"`
	Likes      []int64   `json:"likes"`
	Dislikes   []int64   `json:"dislikes"`
	Edited     bool      `json:"edited"`
	DatePosted time.Time `json:"date_posted"`
}

type CommentsStore struct {
	db *pgxpool.Pool
}

func (s *CommentsStore) Create(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (review_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_posted
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		comment.ReviewID,
		comment.UserID,
		comment.ParentID,
		comment.Content,
	).Scan(&comment.ID, &comment.DatePosted)
}

func (s *CommentsStore) GetByID(ctx context.Context, commentID int64) (*Comment, error) {
	query := `
		SELECT id, review_id, user_id, parent_id, content, likes, dislikes, edited, date_posted
		FROM comments
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	comment := &Comment{}
	err := s.db.QueryRow(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.UserID,
		&comment.ParentID,
		&comment.Content,
		&comment.Likes,
		&comment.Dislikes,
		&comment.Edited,
		&comment.DatePosted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentsStore) Update(ctx context.Context, commentID int64, content string) error {
	query := `UPDATE comments SET content = $1, edited = true WHERE id = $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, content, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes only the one comment. Replies survive with their parent
// pointer nulled; they still belong to the review through review_id.
func (s *CommentsStore) Delete(ctx context.Context, commentID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByReview returns the review's complete flat comment set; building a
// visual tree from parent pointers is the renderer's job.
func (s *CommentsStore) GetByReview(ctx context.Context, reviewID int64) ([]feed.Comment, error) {
	query := `
		SELECT c.id, c.review_id, c.parent_id, c.user_id, c.content, c.likes, c.dislikes, c.edited, c.date_posted,
		       u.id, u.username, u.profile_picture
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.review_id = $1
		ORDER BY c.date_posted ASC, c.id ASC
	`
	return s.list(ctx, query, reviewID)
}

func (s *CommentsStore) GetByUser(ctx context.Context, userID int64) ([]feed.Comment, error) {
	query := `
		SELECT c.id, c.review_id, c.parent_id, c.user_id, c.content, c.likes, c.dislikes, c.edited, c.date_posted,
		       u.id, u.username, u.profile_picture
		FROM comments c
		LEFT JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1
		ORDER BY c.date_posted DESC, c.id ASC
	`
	return s.list(ctx, query, userID)
}

func (s *CommentsStore) list(ctx context.Context, query string, arg any) ([]feed.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []feed.Comment
	for rows.Next() {
		var (
			c feed.Comment

			authorID      *int64
			authorName    *string
			authorPicture *string
		)
		err := rows.Scan(
			&c.ID,
			&c.ReviewID,
			&c.ParentID,
			&c.UserID,
			&c.Content,
			&c.Likes,
			&c.Dislikes,
			&c.Edited,
			&c.DatePosted,
			&authorID,
			&authorName,
			&authorPicture,
		)
		if err != nil {
			return nil, err
		}
		c.Author = buildAuthor(authorID, authorName, authorPicture)
		out = append(out, c)
	}
	return out, rows.Err()
}
