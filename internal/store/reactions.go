package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"archereats/internal/reactions"
)

// ReactionsStore mutates the like/dislike sets of a reactable. Every
// write is a single statement built from array_remove/array_append, so it
// is atomic under concurrent reactors, can never duplicate a user id, and
// keeps the two sets disjoint regardless of caller discipline.
type ReactionsStore struct {
	db *pgxpool.Pool
}

func reactableTable(kind reactions.Kind) (string, error) {
	switch kind {
	case reactions.KindReview:
		return "reviews", nil
	case reactions.KindComment:
		return "comments", nil
	}
	return "", fmt.Errorf("unknown reactable kind %q", kind)
}

func (s *ReactionsStore) Get(ctx context.Context, kind reactions.Kind, id int64) ([]int64, []int64, error) {
	table, err := reactableTable(kind)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var likes, dislikes []int64
	err = s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT likes, dislikes FROM %s WHERE id = $1`, table), id,
	).Scan(&likes, &dislikes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return likes, dislikes, nil
}

func (s *ReactionsStore) Apply(ctx context.Context, kind reactions.Kind, id, userID int64, op reactions.Op) error {
	table, err := reactableTable(kind)
	if err != nil {
		return err
	}

	var set string
	switch op {
	case reactions.OpLike:
		set = `likes = array_append(array_remove(likes, $2), $2), dislikes = array_remove(dislikes, $2)`
	case reactions.OpUnlike:
		set = `likes = array_remove(likes, $2)`
	case reactions.OpDislike:
		set = `dislikes = array_append(array_remove(dislikes, $2), $2), likes = array_remove(likes, $2)`
	case reactions.OpUndislike:
		set = `dislikes = array_remove(dislikes, $2)`
	default:
		return fmt.Errorf("unknown reaction op %q", op)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1`, table, set), id, userID)
	if err != nil {
		return err
	}
	// Reacting to something that does not exist fails loudly, it is not a
	// silent no-op.
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
