package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"sportspace-admin/internal/event"
	"sportspace-admin/internal/model"
)

type bookingRepository interface {
	Create(ctx context.Context, b model.Booking) error
	FindByID(ctx context.Context, id string) (model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Booking, error)
	ListBySpaceAndDate(ctx context.Context, spaceID string, date string) ([]model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type spaceFinder interface {
	FindByID(ctx context.Context, id string) (model.SportSpace, error)
}

type BookingService struct {
	bookings bookingRepository
	spaces   spaceFinder
	bus      event.Bus
}

func NewBookingService(bookings bookingRepository, spaces spaceFinder, bus event.Bus) *BookingService {
	return &BookingService{bookings: bookings, spaces: spaces, bus: bus}
}

func (s *BookingService) Create(ctx context.Context, req model.CreateBookingRequest, actor *model.AuthClaims) (model.Booking, error) {
	if actor == nil {
		return model.Booking{}, model.ErrUnauthorized
	}

	date := strings.TrimSpace(req.Date)
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return model.Booking{}, model.ErrInvalidInput
	}

	start, err := parseClock(req.TimeStart)
	if err != nil {
		return model.Booking{}, model.ErrInvalidTimeWindow
	}
	end, err := parseClock(req.TimeEnd)
	if err != nil {
		return model.Booking{}, model.ErrInvalidTimeWindow
	}
	if !start.Before(end) {
		return model.Booking{}, model.ErrInvalidTimeWindow
	}

	if req.PeopleNumber < 1 {
		return model.Booking{}, model.ErrInvalidInput
	}

	space, err := s.spaces.FindByID(ctx, req.SpaceID)
	if err != nil {
		return model.Booking{}, err
	}
	if !space.IsActive {
		return model.Booking{}, model.ErrSpaceInactive
	}

	if err := s.checkSchedule(space, day, start, end); err != nil {
		return model.Booking{}, err
	}

	existing, err := s.bookings.ListBySpaceAndDate(ctx, space.ID, date)
	if err != nil {
		return model.Booking{}, err
	}
	for _, other := range existing {
		otherStart, startErr := parseClock(other.TimeStart)
		otherEnd, endErr := parseClock(other.TimeEnd)
		if startErr != nil || endErr != nil {
			continue
		}
		if windowsOverlap(start, end, otherStart, otherEnd) {
			return model.Booking{}, model.ErrBookingOverlap
		}
	}

	now := time.Now().UTC()
	booking := model.Booking{
		ID:           uuid.NewString(),
		CreatorID:    actor.UserID,
		SpaceID:      space.ID,
		Date:         date,
		TimeStart:    req.TimeStart,
		TimeEnd:      req.TimeEnd,
		PeopleNumber: req.PeopleNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return model.Booking{}, err
	}

	s.publish(event.TypeBookingCreated, booking.ID, actor)
	return booking, nil
}

func (s *BookingService) List(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) ListByCreator(ctx context.Context, creatorID string) ([]model.Booking, error) {
	return s.bookings.ListByCreator(ctx, creatorID)
}

// Delete removes a booking; only the creator or an admin may do so.
func (s *BookingService) Delete(ctx context.Context, id string, actor *model.AuthClaims) error {
	if actor == nil {
		return model.ErrUnauthorized
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.CreatorID != actor.UserID && actor.Role != model.RoleAdmin {
		return model.ErrForbidden
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(event.TypeBookingDeleted, id, actor)
	return nil
}

// checkSchedule requires the requested window to sit inside one of the
// space's availability windows for that weekday. A space with no schedules
// accepts any window.
func (s *BookingService) checkSchedule(space model.SportSpace, day time.Time, start, end time.Time) error {
	if len(space.Schedules) == 0 {
		return nil
	}

	weekday := int(day.Weekday())
	for _, schedule := range space.Schedules {
		if schedule.Day != weekday {
			continue
		}

		windowStart, startErr := parseClock(schedule.TimeStart)
		windowEnd, endErr := parseClock(schedule.TimeEnd)
		if startErr != nil || endErr != nil {
			continue
		}

		if !start.Before(windowStart) && !end.After(windowEnd) {
			return nil
		}
	}

	return model.ErrOutsideSchedule
}

func (s *BookingService) publish(typ event.Type, entityID string, actor *model.AuthClaims) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(event.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		EntityID:   entityID,
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}
