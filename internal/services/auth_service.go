package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartrail/train-reservation-backend/internal/config"
	"github.com/smartrail/train-reservation-backend/internal/database"
	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/pkg/jwt"
)

// TokenPair carries an access/refresh token pair issued at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users    *database.UserRepository
	jwt      *jwt.Service
	security config.SecurityConfig
	logger   *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users *database.UserRepository, jwtService *jwt.Service, security config.SecurityConfig, logger *logrus.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwtService, security: security, logger: logger}
}

// Register creates a user account. Admin accounts are seeded out of band and
// cannot be registered here.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	taken, err := s.users.UsernameExists(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username %s", models.ErrAlreadyExists, req.Username)
	}
	taken, err = s.users.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email %s", models.ErrAlreadyExists, req.Email)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.security.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"username": user.Username, "role": user.Role}).Info("User registered")
	return user, nil
}

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(req *models.LoginRequest) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid credentials", models.ErrInvalidInput)
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid credentials", models.ErrInvalidInput)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.WithField("username", user.Username).Info("User logged in")
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
