package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportspace-admin/internal/model"
)

type SpaceRepository struct {
	pool *pgxpool.Pool
}

func NewSpaceRepository(pool *pgxpool.Pool) *SpaceRepository {
	return &SpaceRepository{pool: pool}
}

func (r *SpaceRepository) Create(ctx context.Context, space model.SportSpace) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create space: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO sport_spaces
		 (id, name, description, location, capacity, image_path, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		space.ID, space.Name, space.Description, space.Location, space.Capacity,
		space.ImagePath, space.IsActive, space.CreatedAt, space.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create space: %w", err)
	}

	for _, sport := range space.Sports {
		if _, err := tx.Exec(ctx,
			`INSERT INTO space_sports (space_id, sport_id) VALUES ($1, $2)`,
			space.ID, sport.ID); err != nil {
			return fmt.Errorf("link sport %s: %w", sport.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *SpaceRepository) FindByID(ctx context.Context, id string) (model.SportSpace, error) {
	var s model.SportSpace
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, location, capacity, image_path, is_active, created_at, updated_at
		 FROM sport_spaces WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.Location, &s.Capacity,
			&s.ImagePath, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.SportSpace{}, model.ErrSpaceNotFound
	}
	if err != nil {
		return model.SportSpace{}, fmt.Errorf("find space: %w", err)
	}

	if s.Sports, err = r.sportsForSpace(ctx, id); err != nil {
		return model.SportSpace{}, err
	}
	if s.Schedules, err = r.SchedulesForSpace(ctx, id); err != nil {
		return model.SportSpace{}, err
	}
	return s, nil
}

func (r *SpaceRepository) List(ctx context.Context) ([]model.SportSpace, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, location, capacity, image_path, is_active, created_at, updated_at
		 FROM sport_spaces ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	defer rows.Close()

	spaces := make([]model.SportSpace, 0)
	for rows.Next() {
		var s model.SportSpace
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Location, &s.Capacity,
			&s.ImagePath, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan space: %w", err)
		}
		spaces = append(spaces, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range spaces {
		if spaces[i].Sports, err = r.sportsForSpace(ctx, spaces[i].ID); err != nil {
			return nil, err
		}
		if spaces[i].Schedules, err = r.SchedulesForSpace(ctx, spaces[i].ID); err != nil {
			return nil, err
		}
	}
	return spaces, nil
}

func (r *SpaceRepository) Update(ctx context.Context, space model.SportSpace) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sport_spaces
		 SET name = $2, description = $3, location = $4, capacity = $5,
		     image_path = $6, is_active = $7, updated_at = $8
		 WHERE id = $1`,
		space.ID, space.Name, space.Description, space.Location, space.Capacity,
		space.ImagePath, space.IsActive, space.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSpaceNotFound
	}
	return nil
}

func (r *SpaceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sport_spaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete space: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSpaceNotFound
	}
	return nil
}

// ReplaceSchedules swaps the weekly availability of a space wholesale.
func (r *SpaceRepository) ReplaceSchedules(ctx context.Context, spaceID string, schedules []model.Schedule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace schedules: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM space_schedules WHERE space_id = $1`, spaceID); err != nil {
		return fmt.Errorf("clear schedules: %w", err)
	}

	for _, schedule := range schedules {
		if _, err := tx.Exec(ctx,
			`INSERT INTO space_schedules (id, space_id, day, time_start, time_end)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), spaceID, schedule.Day, schedule.TimeStart, schedule.TimeEnd); err != nil {
			return fmt.Errorf("insert schedule: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *SpaceRepository) SchedulesForSpace(ctx context.Context, spaceID string) ([]model.Schedule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT day, time_start, time_end FROM space_schedules
		 WHERE space_id = $1 ORDER BY day, time_start`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]model.Schedule, 0)
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.Day, &s.TimeStart, &s.TimeEnd); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *SpaceRepository) sportsForSpace(ctx context.Context, spaceID string) ([]model.Sport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.name FROM sports s
		 JOIN space_sports ss ON ss.sport_id = s.id
		 WHERE ss.space_id = $1 ORDER BY s.name`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("list space sports: %w", err)
	}
	defer rows.Close()

	sports := make([]model.Sport, 0)
	for rows.Next() {
		var s model.Sport
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan space sport: %w", err)
		}
		sports = append(sports, s)
	}
	return sports, rows.Err()
}
