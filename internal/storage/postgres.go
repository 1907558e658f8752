package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/alisaviation/exporter/internal/models"
)

var ErrSchemaMissing = errors.New("movies schema is missing")

// RatingsStore reads aggregate statistics from the movies database. It never writes.
// Each RatingStats call, connecting included, is bounded by Timeout.
type RatingsStore struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewRatingsStore(dsn string, timeout time.Duration) (*RatingsStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open movies database: %w", err)
	}
	return NewRatingsStoreFromDB(db, timeout)
}

func NewRatingsStoreFromDB(db *sql.DB, timeout time.Duration) (*RatingsStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("query timeout must be positive, got %s", timeout)
	}
	return &RatingsStore{DB: db, Timeout: timeout}, nil
}

func (p *RatingsStore) RatingStats(ctx context.Context) (models.RatingStats, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	var stats models.RatingStats

	err := p.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&stats.Movies)
	if err != nil {
		return models.RatingStats{}, p.wrap(ctx, "count movies", err)
	}

	err = p.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(rating), 0)
		FROM ratings
	`).Scan(&stats.Ratings, &stats.AverageRating)
	if err != nil {
		return models.RatingStats{}, p.wrap(ctx, "aggregate ratings", err)
	}

	return stats, nil
}

func (p *RatingsStore) Close() error {
	return p.DB.Close()
}

// wrap keeps the context error visible; drivers report a cancelled query with their own error.
func (p *RatingsStore) wrap(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w: %v", op, ctxErr, err)
	}
	if IsUndefinedTableError(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrSchemaMissing, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func IsUndefinedTableError(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgerrcode.UndefinedTable
}
