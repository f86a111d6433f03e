package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sportspace-admin/internal/event"
	"sportspace-admin/internal/model"
	"sportspace-admin/internal/storage"
	"sportspace-admin/internal/util"
	"sportspace-admin/pkg/apierror"
)

type spaceRepository interface {
	Create(ctx context.Context, space model.SportSpace) error
	FindByID(ctx context.Context, id string) (model.SportSpace, error)
	List(ctx context.Context) ([]model.SportSpace, error)
	Update(ctx context.Context, space model.SportSpace) error
	Delete(ctx context.Context, id string) error
	ReplaceSchedules(ctx context.Context, spaceID string, schedules []model.Schedule) error
}

type sportRepository interface {
	FindByID(ctx context.Context, id string) (model.Sport, error)
	Create(ctx context.Context, sport model.Sport) error
	List(ctx context.Context) ([]model.Sport, error)
}

type SpaceService struct {
	spaces        spaceRepository
	sports        sportRepository
	store         *storage.Storage
	thumbnailRoot string
	bus           event.Bus
}

func NewSpaceService(spaces spaceRepository, sports sportRepository, store *storage.Storage, thumbnailRoot string, bus event.Bus) *SpaceService {
	if strings.TrimSpace(thumbnailRoot) == "" {
		thumbnailRoot = "./state/thumbnails"
	}
	return &SpaceService{spaces: spaces, sports: sports, store: store, thumbnailRoot: thumbnailRoot, bus: bus}
}

func (s *SpaceService) Create(ctx context.Context, req model.CreateSpaceRequest, image io.Reader, actor *model.AuthClaims) (model.SportSpace, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.SportSpace{}, model.ErrInvalidInput
	}
	if req.Capacity < 0 {
		return model.SportSpace{}, model.ErrInvalidInput
	}

	sports := make([]model.Sport, 0, len(req.SportIDs))
	for _, sportID := range req.SportIDs {
		sport, err := s.sports.FindByID(ctx, sportID)
		if err != nil {
			return model.SportSpace{}, err
		}
		sports = append(sports, sport)
	}

	now := time.Now().UTC()
	space := model.SportSpace{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		Capacity:    req.Capacity,
		IsActive:    req.IsActive,
		Sports:      sports,
		Schedules:   []model.Schedule{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if image != nil {
		imagePath, err := s.saveImage(space.ID, image)
		if err != nil {
			return model.SportSpace{}, err
		}
		space.ImagePath = imagePath
	}

	if err := s.spaces.Create(ctx, space); err != nil {
		return model.SportSpace{}, err
	}

	s.publish(event.TypeSpaceCreated, space.ID, actor)
	return space, nil
}

func (s *SpaceService) Get(ctx context.Context, id string) (model.SportSpace, error) {
	return s.spaces.FindByID(ctx, id)
}

func (s *SpaceService) List(ctx context.Context) ([]model.SportSpace, error) {
	return s.spaces.List(ctx)
}

func (s *SpaceService) Update(ctx context.Context, id string, req model.UpdateSpaceRequest, actor *model.AuthClaims) (model.SportSpace, error) {
	space, err := s.spaces.FindByID(ctx, id)
	if err != nil {
		return model.SportSpace{}, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return model.SportSpace{}, model.ErrInvalidInput
		}
		space.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		space.Location = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		space.Description = strings.TrimSpace(*req.Description)
	}
	if req.Capacity != nil {
		if *req.Capacity < 0 {
			return model.SportSpace{}, model.ErrInvalidInput
		}
		space.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		space.IsActive = *req.IsActive
	}

	space.UpdatedAt = time.Now().UTC()
	if err := s.spaces.Update(ctx, space); err != nil {
		return model.SportSpace{}, err
	}

	s.publish(event.TypeSpaceUpdated, space.ID, actor)
	return space, nil
}

func (s *SpaceService) Delete(ctx context.Context, id string, actor *model.AuthClaims) error {
	space, err := s.spaces.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.spaces.Delete(ctx, id); err != nil {
		return err
	}

	if space.ImagePath != "" {
		_ = s.store.Remove(space.ImagePath)
	}
	s.removeThumbnails(id)

	s.publish(event.TypeSpaceDeleted, id, actor)
	return nil
}

func (s *SpaceService) ReplaceSchedules(ctx context.Context, spaceID string, schedules []model.Schedule, actor *model.AuthClaims) error {
	if _, err := s.spaces.FindByID(ctx, spaceID); err != nil {
		return err
	}

	for _, schedule := range schedules {
		if schedule.Day < 0 || schedule.Day > 6 {
			return model.ErrInvalidInput
		}
		start, err := parseClock(schedule.TimeStart)
		if err != nil {
			return model.ErrInvalidTimeWindow
		}
		end, err := parseClock(schedule.TimeEnd)
		if err != nil {
			return model.ErrInvalidTimeWindow
		}
		if !start.Before(end) {
			return model.ErrInvalidTimeWindow
		}
	}

	if err := s.spaces.ReplaceSchedules(ctx, spaceID, schedules); err != nil {
		return err
	}

	s.publish(event.TypeScheduleReplaced, spaceID, actor)
	return nil
}

func (s *SpaceService) OpenImage(ctx context.Context, spaceID string) (*os.File, os.FileInfo, error) {
	space, err := s.spaces.FindByID(ctx, spaceID)
	if err != nil {
		return nil, nil, err
	}
	if space.ImagePath == "" {
		return nil, nil, apierror.NotFound("space has no image", spaceID)
	}

	file, info, err := s.store.Open(space.ImagePath)
	if os.IsNotExist(err) {
		return nil, nil, apierror.NotFound("space image missing from storage", spaceID)
	}
	return file, info, err
}

// OpenThumbnail returns a cached thumbnail, regenerating it when the source
// image is newer.
func (s *SpaceService) OpenThumbnail(ctx context.Context, spaceID string, size int) (*os.File, os.FileInfo, error) {
	if size <= 0 {
		size = 256
	}

	source, sourceInfo, err := s.OpenImage(ctx, spaceID)
	if err != nil {
		return nil, nil, err
	}
	defer source.Close()

	if err := os.MkdirAll(s.thumbnailRoot, 0o755); err != nil {
		return nil, nil, err
	}

	thumbPath := filepath.Join(s.thumbnailRoot, fmt.Sprintf("%s-%d.jpg", spaceID, size))
	if thumbInfo, statErr := os.Stat(thumbPath); statErr == nil && !thumbInfo.ModTime().Before(sourceInfo.ModTime()) {
		file, openErr := os.Open(thumbPath)
		if openErr != nil {
			return nil, nil, openErr
		}
		return file, thumbInfo, nil
	}

	if err := util.GenerateThumbnail(source, thumbPath, size); err != nil {
		return nil, nil, err
	}
	_ = os.Chtimes(thumbPath, time.Now().UTC(), sourceInfo.ModTime())

	file, err := os.Open(thumbPath)
	if err != nil {
		return nil, nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return file, info, nil
}

func (s *SpaceService) CreateSport(ctx context.Context, name string) (model.Sport, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Sport{}, model.ErrInvalidInput
	}

	sport := model.Sport{ID: uuid.NewString(), Name: name}
	if err := s.sports.Create(ctx, sport); err != nil {
		return model.Sport{}, err
	}
	return sport, nil
}

func (s *SpaceService) ListSports(ctx context.Context) ([]model.Sport, error) {
	return s.sports.List(ctx)
}

func (s *SpaceService) saveImage(spaceID string, image io.Reader) (string, error) {
	mimeType, reader, err := util.SniffMIME(image)
	if err != nil {
		return "", err
	}
	if !util.IsImageMIME(mimeType) {
		return "", apierror.New("UNSUPPORTED_TYPE", "space image must be an image file", mimeType, http.StatusUnsupportedMediaType)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}

	imagePath := spaceID + extensionForMIME(mimeType)
	if _, err := s.store.Save(imagePath, &buf); err != nil {
		return "", err
	}
	return imagePath, nil
}

func (s *SpaceService) removeThumbnails(spaceID string) {
	matches, err := filepath.Glob(filepath.Join(s.thumbnailRoot, spaceID+"-*.jpg"))
	if err != nil {
		return
	}
	for _, match := range matches {
		_ = os.Remove(match)
	}
}

func (s *SpaceService) publish(typ event.Type, entityID string, actor *model.AuthClaims) {
	if s.bus == nil {
		return
	}

	e := event.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		EntityID:  entityID,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if actor != nil {
		e.ActorID = actor.UserID
		e.ActorEmail = actor.Email
	}
	s.bus.Publish(e)
}

func extensionForMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	default:
		return ".jpg"
	}
}
