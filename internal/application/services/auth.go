package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"minidrive-api/internal/application/ports"
	"minidrive-api/internal/domain/user"
	"minidrive-api/internal/infrastructure/jwt"
	"minidrive-api/internal/infrastructure/metrics"
)

type AuthService struct {
	userRepository user.Repository
	jwtService     *jwt.Service
	mCounter       *prometheus.CounterVec
	tokenTTL       time.Duration
	hashCost       int
	dummyHash      []byte
}

func NewAuthService(
	userRepository user.Repository,
	jwtService *jwt.Service,
	mCounter *prometheus.CounterVec,
	tokenTTL time.Duration,
	hashCost int,
) *AuthService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	// compared against on unknown emails so both login failures cost the same
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), hashCost)

	return &AuthService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mCounter:       mCounter,
		tokenTTL:       tokenTTL,
		hashCost:       hashCost,
		dummyHash:      dummy,
	}
}

var (
	_ ports.Auth          = (*AuthService)(nil)
	_ ports.Authenticator = (*AuthService)(nil)
)

func (as *AuthService) Register(ctx context.Context, email, name, password string) (*user.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u, err := as.userRepository.CreateUser(ctx, user.User{
		Email:        user.NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", err
	}

	as.mCounter.WithLabelValues(metrics.UserRegistered).Inc()

	token, err := as.generateToken(u)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (as *AuthService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := as.userRepository.FetchUserByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(as.dummyHash, []byte(password))
		as.mCounter.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		as.mCounter.WithLabelValues(metrics.LoginFailed).Inc()
		return nil, "", ErrInvalidCredentials
	}

	token, err := as.generateToken(u)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Authenticate never returns a partial identity.
func (as *AuthService) Authenticate(token string) (user.Identity, error) {
	if token == "" {
		return user.Identity{}, ErrUnauthenticated
	}

	claims, err := as.jwtService.ValidateToken(token)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: bad subject", ErrUnauthenticated)
	}

	return user.Identity{UserID: id, Email: claims.Email}, nil
}

func (as *AuthService) generateToken(u *user.User) (string, error) {
	token, err := as.jwtService.GenerateJWT(u.UUID.String(), u.Email, as.tokenTTL)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateToken, err)
	}

	return token, nil
}
