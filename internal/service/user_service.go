package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sportspace-admin/internal/event"
	"sportspace-admin/internal/model"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.User, error)
}

type UserService struct {
	repo userRepository
	bus  event.Bus
}

func NewUserService(repo userRepository, bus event.Bus) *UserService {
	return &UserService{repo: repo, bus: bus}
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest, actor *model.AuthClaims) (model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	password := strings.TrimSpace(req.Password)

	if name == "" || email == "" || password == "" {
		return model.User{}, model.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, model.ErrInvalidInput
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.ParseRole(req.RoleValue()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return model.User{}, err
	}

	s.publish(event.TypeUserCreated, user.ID, actor)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest, actor *model.AuthClaims) (model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return model.User{}, model.ErrInvalidInput
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return model.User{}, model.ErrInvalidInput
		}
		if !strings.EqualFold(email, user.Email) {
			exists, err := s.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return model.User{}, err
			}
			if exists {
				return model.User{}, model.ErrEmailTaken
			}
		}
		user.Email = email
	}
	if role := req.RoleValue(); role != nil {
		if !model.IsValidRole(*role) {
			return model.User{}, model.ErrInvalidInput
		}
		user.Role = model.ParseRole(*role)
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return model.User{}, err
	}

	s.publish(event.TypeUserUpdated, user.ID, actor)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string, actor *model.AuthClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(event.TypeUserDeleted, id, actor)
	return nil
}

func (s *UserService) publish(typ event.Type, entityID string, actor *model.AuthClaims) {
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
