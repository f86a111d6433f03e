package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sportspace-admin/internal/event"
	"sportspace-admin/internal/model"
)

type userFinder interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

type refreshTokenStore interface {
	Store(ctx context.Context, token string, userID string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type AuthService struct {
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      userFinder
	tokens     refreshTokenStore
	bus        event.Bus
}

func NewAuthService(jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration, users userFinder, tokens refreshTokenStore, bus event.Bus) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		tokens:     tokens,
		bus:        bus,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.AuthPayload, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.AuthPayload{}, model.ErrInvalidCredentials
		}
		return model.AuthPayload{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.AuthPayload{}, model.ErrInvalidCredentials
	}

	payload, err := s.issueTokens(ctx, user)
	if err != nil {
		return model.AuthPayload{}, err
	}

	s.publish(event.TypeUserLoggedIn, user)
	return payload, nil
}

// Refresh rotates the pair: the presented refresh token is revoked and a new
// pair is issued, so a replayed token fails at the repository lookup.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.AuthPayload, error) {
	claims, err := s.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return model.AuthPayload{}, err
	}

	ownerID, err := s.tokens.Validate(ctx, refreshToken)
	if err != nil || ownerID != claims.UserID {
		return model.AuthPayload{}, model.ErrTokenNotFound
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return model.AuthPayload{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.AuthPayload{}, model.ErrUnauthorized
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *AuthService) RevokeAll(ctx context.Context, userID string) error {
	return s.tokens.RevokeAllForUser(ctx, userID)
}

func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrUnauthorized
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrUnauthorized
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, model.ErrUnauthorized
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Name, _ = claimsMap["name"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)
	if role, ok := claimsMap["role"].(string); ok {
		claims.Role = model.ParseRole(role)
	}

	if claims.UserID == "" {
		return nil, model.ErrUnauthorized
	}

	return claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (model.SessionUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.SessionUser{}, err
	}
	return sessionUser(user), nil
}

func (s *AuthService) issueTokens(ctx context.Context, user model.User) (model.AuthPayload, error) {
	now := time.Now().UTC()
	refreshExpiry := now.Add(s.refreshTTL)

	accessToken, err := s.signToken(user, "access", now, now.Add(s.accessTTL))
	if err != nil {
		return model.AuthPayload{}, err
	}

	refreshToken, err := s.signToken(user, "refresh", now, refreshExpiry)
	if err != nil {
		return model.AuthPayload{}, err
	}

	if err := s.tokens.Store(ctx, refreshToken, user.ID, refreshExpiry); err != nil {
		return model.AuthPayload{}, err
	}

	return model.AuthPayload{
		User: sessionUser(user),
		Session: model.Session{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int64(s.accessTTL.Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}

func (s *AuthService) signToken(user model.User, typ string, issuedAt time.Time, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role.String(),
		"typ":   typ,
		"jti":   uuid.NewString(),
		"iat":   issuedAt.Unix(),
		"exp":   expiresAt.Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) publish(typ event.Type, user model.User) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		EntityID:   user.ID,
		ActorID:    user.ID,
		ActorEmail: user.Email,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func sessionUser(user model.User) model.SessionUser {
	return model.SessionUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}
