package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"archereats/internal/feed"
	"archereats/internal/reactions"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	ErrWrongReview       = errors.New("parent comment belongs to a different review")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		Create(context.Context, *User) error
		GetByID(context.Context, int64) (*User, error)
		GetByUsername(context.Context, string) (*User, error)
		UpdateDescription(ctx context.Context, userID int64, description string) error
		SetProfilePicture(ctx context.Context, userID int64, url string) error
		SaveRefreshToken(ctx context.Context, userID int64, token string) error
		GetRefreshToken(ctx context.Context, userID int64) (string, error)
		DeleteRefreshToken(ctx context.Context, userID int64) error
	}
	Establishments interface {
		GetByID(context.Context, int64) (*Establishment, error)
		GetByUsername(context.Context, string) (*Establishment, error)
		GetAll(context.Context) ([]Establishment, error)
		UpdateRating(ctx context.Context, establishmentID int64, rating float64) error
		Search(ctx context.Context, query string, stars *int) ([]Establishment, error)
	}
	Reviews interface {
		Create(context.Context, *Review) error
		GetByID(context.Context, int64) (*Review, error)
		Update(ctx context.Context, reviewID int64, title, content string, rating int, images, videos []string) error
		Delete(ctx context.Context, reviewID int64) error
		FeedByEstablishment(ctx context.Context, establishmentID int64) ([]feed.Row, error)
		GetByUser(ctx context.Context, userID int64) ([]feed.ProfileReview, error)
		SetResponse(ctx context.Context, reviewID int64, content string) error
		UpdateResponse(ctx context.Context, reviewID int64, content string) error
		ClearResponse(ctx context.Context, reviewID int64) error
		Search(ctx context.Context, query string) ([]ReviewSearchHit, error)
	}
	Comments interface {
		Create(context.Context, *Comment) error
		GetByID(context.Context, int64) (*Comment, error)
		Update(ctx context.Context, commentID int64, content string) error
		Delete(ctx context.Context, commentID int64) error
		GetByReview(ctx context.Context, reviewID int64) ([]feed.Comment, error)
		GetByUser(ctx context.Context, userID int64) ([]feed.Comment, error)
	}
	Reactions interface {
		Get(ctx context.Context, kind reactions.Kind, id int64) (likes, dislikes []int64, err error)
		Apply(ctx context.Context, kind reactions.Kind, id, userID int64, op reactions.Op) error
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:          &UsersStore{db},
		Establishments: &EstablishmentsStore{db},
		Reviews:        &ReviewsStore{db},
		Comments:       &CommentsStore{db},
		Reactions:      &ReactionsStore{db},
	}
}

func withTx(db *pgxpool.Pool, ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
