package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/pkg/jwt"
	"bizdesk-api/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrSessionExpired     = errors.New("session expired, please sign in again")
)

type AuthService interface {
	Login(req *LoginRequest) (*LoginResponse, error)
	Authenticate(token string) (*model.Staff, error)
	Me(userID uuid.UUID) (*model.Staff, error)
	ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

type LoginResponse struct {
	Token       string       `json:"token"`
	User        *model.Staff `json:"user"`
	Permissions []string     `json:"permissions"` // Flat permissions array for easy checking
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if errs := validator.ValidateStruct(req); !errs.Empty() {
		return nil, NewValidationError(errs)
	}

	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Verify password before revealing anything about the account
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	// 3. Issue token bound to the current token version
	token, err := s.tokens.GenerateToken(jwt.Subject{
		ID:           user.ID,
		CompanyID:    user.CompanyID,
		Kind:         jwt.KindStaff,
		Email:        user.Email,
		Name:         user.Name,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, &PersistenceError{Op: "generate token", Err: err}
	}

	if err := s.userRepo.UpdateLogin(user.ID, time.Now()); err != nil {
		s.logger.Warn("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return &LoginResponse{
		Token:       token,
		User:        user,
		Permissions: user.Perms,
	}, nil
}

// Authenticate resolves a staff bearer token to a live, active account.
func (s *authService) Authenticate(token string) (*model.Staff, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != jwt.KindStaff {
		return nil, jwt.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion || user.CompanyID != claims.CompanyID {
		return nil, ErrSessionExpired
	}
	return user, nil
}

func (s *authService) Me(userID uuid.UUID) (*model.Staff, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error {
	if errs := validator.ValidateStruct(req); !errs.Empty() {
		return NewValidationError(errs)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return Invalid("current_password", "The current password is incorrect.")
	}

	hashed, err := model.HashPassword(req.NewPassword)
	if err != nil {
		return &PersistenceError{Op: "hash password", Err: err}
	}
	// A new token version signs out every other session
	if err := s.userRepo.UpdatePassword(user.ID, hashed, uuid.NewString()); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return &PersistenceError{Op: "update password", Err: err}
	}
	return nil
}
