package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportspace-admin/internal/model"
)

type SportRepository struct {
	pool *pgxpool.Pool
}

func NewSportRepository(pool *pgxpool.Pool) *SportRepository {
	return &SportRepository{pool: pool}
}

func (r *SportRepository) Create(ctx context.Context, sport model.Sport) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sports (id, name) VALUES ($1, $2)`, sport.ID, sport.Name)
	if err != nil {
		return fmt.Errorf("create sport: %w", err)
	}
	return nil
}

func (r *SportRepository) FindByID(ctx context.Context, id string) (model.Sport, error) {
	var s model.Sport
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM sports WHERE id = $1`, id).
		Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Sport{}, model.ErrSportNotFound
	}
	if err != nil {
		return model.Sport{}, fmt.Errorf("find sport: %w", err)
	}
	return s, nil
}

func (r *SportRepository) List(ctx context.Context) ([]model.Sport, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM sports ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	defer rows.Close()

	sports := make([]model.Sport, 0)
	for rows.Next() {
		var s model.Sport
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan sport: %w", err)
		}
		sports = append(sports, s)
	}
	return sports, rows.Err()
}
