package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportspace-admin/internal/model"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, creator_id, space_id,
	to_char(booking_date, 'YYYY-MM-DD'), time_start, time_end,
	people_number, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, b model.Booking) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bookings
		 (id, creator_id, space_id, booking_date, time_start, time_end, people_number, created_at, updated_at)
		 VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9)`,
		b.ID, b.CreatorID, b.SpaceID, b.Date, b.TimeStart, b.TimeEnd,
		b.PeopleNumber, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (model.Booking, error) {
	var b model.Booking
	err := r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id).
		Scan(&b.ID, &b.CreatorID, &b.SpaceID, &b.Date, &b.TimeStart, &b.TimeEnd,
			&b.PeopleNumber, &b.CreatedAt, &b.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Booking{}, model.ErrBookingNotFound
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]model.Booking, error) {
	return r.query(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY booking_date DESC, time_start`)
}

func (r *BookingRepository) ListByCreator(ctx context.Context, creatorID string) ([]model.Booking, error) {
	return r.query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE creator_id = $1 ORDER BY booking_date DESC, time_start`, creatorID)
}

// ListBySpaceAndDate feeds the overlap check in the booking service.
func (r *BookingRepository) ListBySpaceAndDate(ctx context.Context, spaceID string, date string) ([]model.Booking, error) {
	return r.query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE space_id = $1 AND booking_date = $2::date
		 ORDER BY time_start`, spaceID, date)
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) query(ctx context.Context, sql string, args ...any) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.CreatorID, &b.SpaceID, &b.Date, &b.TimeStart,
			&b.TimeEnd, &b.PeopleNumber, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
