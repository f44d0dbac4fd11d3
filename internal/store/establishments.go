package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Establishment's rating is a cached aggregate, refreshed whenever the
// detail page recomputes it. It can be stale between views; it is display
// data, nothing depends on it for correctness.
type Establishment struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	DisplayedName  string    `json:"displayed_name"`
	Description    string    `json:"description"`
	ProfilePicture string    `json:"profile_picture"`
	Rating         float64   `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}

type EstablishmentsStore struct {
	db *pgxpool.Pool
}

const establishmentColumns = `id, username, displayed_name, description, profile_picture, rating, created_at`

func (s *EstablishmentsStore) scanOne(row pgx.Row) (*Establishment, error) {
	e := &Establishment{}
	err := row.Scan(
		&e.ID,
		&e.Username,
		&e.DisplayedName,
		&e.Description,
		&e.ProfilePicture,
		&e.Rating,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EstablishmentsStore) GetByID(ctx context.Context, establishmentID int64) (*Establishment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+establishmentColumns+` FROM establishments WHERE id = $1`, establishmentID))
}

func (s *EstablishmentsStore) GetByUsername(ctx context.Context, username string) (*Establishment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.scanOne(s.db.QueryRow(ctx,
		`SELECT `+establishmentColumns+` FROM establishments WHERE username = $1`, username))
}

func (s *EstablishmentsStore) GetAll(ctx context.Context) ([]Establishment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx,
		`SELECT `+establishmentColumns+` FROM establishments ORDER BY displayed_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEstablishments(rows)
}

// UpdateRating writes the recomputed average. Concurrent page views race
// here; last write wins and that is fine for an advisory value.
func (s *EstablishmentsStore) UpdateRating(ctx context.Context, establishmentID int64, rating float64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx,
		`UPDATE establishments SET rating = $1 WHERE id = $2`, rating, establishmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches name or description case-insensitively; stars narrows to
// establishments whose cached rating sits in [stars, stars+1).
func (s *EstablishmentsStore) Search(ctx context.Context, query string, stars *int) ([]Establishment, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	pattern := "%" + query + "%"
	sql := `
		SELECT ` + establishmentColumns + `
		FROM establishments
		WHERE (displayed_name ILIKE $1 OR description ILIKE $1)
	`
	args := []any{pattern}
	if stars != nil {
		sql += ` AND rating >= $2 AND rating < $2 + 1`
		args = append(args, *stars)
	}
	sql += ` ORDER BY rating DESC, displayed_name ASC`

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEstablishments(rows)
}

func scanEstablishments(rows pgx.Rows) ([]Establishment, error) {
	var out []Establishment
	for rows.Next() {
		var e Establishment
		if err := rows.Scan(
			&e.ID,
			&e.Username,
			&e.DisplayedName,
			&e.Description,
			&e.ProfilePicture,
			&e.Rating,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
