package service

import (
	"context"
	"ctchen222/Workout-Log/internal/api/models"
	"ctchen222/Workout-Log/internal/api/repository"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrInvalidCredentials is returned for an unknown username and for a
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken covers malformed, expired and orphaned API tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the JWT payload handed out by the JSON API.
type Claims struct {
	Username string `json:"un"`
	jwt.RegisteredClaims
}

// AuthService defines the interface for authentication logic.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	CurrentUser(ctx context.Context, id int64) (*models.User, error)
	IssueToken(user *models.User) (string, error)
	ParseToken(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
	logins    metric.Int64Counter
}

// NewAuthService creates a new AuthService signing API tokens with jwtSecret.
func NewAuthService(userRepo repository.UserRepository, jwtSecret []byte, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logins:    newCounter("workoutlog.logins", "Login attempts by outcome"),
	}
}

// Login checks the credentials against the users table. The password is
// compared as stored, without hashing.
func (s *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.countLogin(ctx, "error")
		return nil, err
	}
	if user == nil || user.Password != password {
		s.countLogin(ctx, "rejected")
		return nil, ErrInvalidCredentials
	}
	s.countLogin(ctx, "accepted")
	return user, nil
}

// CurrentUser resolves the user behind a session. A user that no longer
// exists yields (nil, nil).
func (s *authService) CurrentUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

// IssueToken signs an HS256 token for user valid for the configured TTL.
func (s *authService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates tokenString and loads the user it was issued for.
func (s *authService) ParseToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d no longer exists", ErrInvalidToken, id)
	}
	return user, nil
}

func (s *authService) countLogin(ctx context.Context, outcome string) {
	s.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
