package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursemart/internal/auth"
	"coursemart/internal/model"
	"coursemart/internal/repository"
	"coursemart/internal/validate"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// authService implements AuthService.
type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register only grants the user role; admin accounts come from CreateAdmin.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, string, error) {
	if req == nil {
		return nil, "", model.NewValidationError("request body is required")
	}

	switch req.Role {
	case "", model.RoleUser:
	case model.RoleAdmin:
		s.logger.Warn().Str("email", req.Email).Msg("rejected registration requesting admin role")
		return nil, "", model.ErrRoleNotAllowed
	default:
		return nil, "", model.NewValidationError("role must be user")
	}

	user, err := s.createUser(ctx, req, model.RoleUser)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

func (s *authService) CreateAdmin(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if req == nil {
		return nil, model.NewValidationError("request body is required")
	}
	return s.createUser(ctx, req, model.RoleAdmin)
}

func (s *authService) createUser(ctx context.Context, req *model.RegisterRequest, role model.Role) (*model.User, error) {
	req.Email = normaliseEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := validate.Check(req); err != nil {
		return nil, model.NewValidationError(err.Error())
	}
	if len(req.Password) > model.MaxPasswordBytes {
		return nil, model.NewValidationError(fmt.Sprintf("password must be at most %d bytes", model.MaxPasswordBytes))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(role)).
		Msg("user registered")

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error) {
	if req == nil {
		return nil, "", model.NewValidationError("request body is required")
	}

	req.Email = normaliseEmail(req.Email)
	if err := validate.Check(req); err != nil {
		return nil, "", model.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if user == nil {
		s.logger.Debug().Str("email", req.Email).Msg("login for unknown email")
		return nil, "", model.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Debug().Str("user_id", user.ID.String()).Msg("login with wrong password")
			return nil, "", model.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to check password: %w", err)
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user == nil {
		return nil, model.ErrUserNotFound
	}

	return user, nil
}
