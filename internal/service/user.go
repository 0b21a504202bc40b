package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/pkg/logger"
)

// UserService handles registration and driver approval.
type UserService struct {
	store repository.Store
	log   *logger.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store, log *logger.Logger) *UserService {
	return &UserService{store: store, log: log}
}

// RegisterRequest contains the parameters for registering a user.
type RegisterRequest struct {
	Name  string
	Email string
	Phone string
	Role  domain.UserRole
}

// Register creates a new passenger or driver account. Drivers start
// unapproved and cannot publish rides until an operator flips the flag.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || email == "" {
		return nil, ErrInvalidUserID
	}
	if req.Role != domain.RolePassenger && req.Role != domain.RoleDriver {
		return nil, ErrInvalidRole
	}

	existing, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		Role:      req.Role,
		Approved:  req.Role == domain.RolePassenger,
		CreatedAt: time.Now(),
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		logger.String("user_id", user.ID),
		logger.String("role", string(user.Role)),
	)

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.store.Users().GetByID(ctx, userID)
}

// ListUsers retrieves all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.store.Users().GetAll(ctx)
}

// SetDriverApproval flips a driver's approval flag.
func (s *UserService) SetDriverApproval(ctx context.Context, driverID string, approved bool) (*domain.User, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.store.Users().GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !user.IsDriver() {
		return nil, ErrInvalidRole
	}

	if err := s.store.Users().SetApproval(ctx, driverID, approved); err != nil {
		return nil, err
	}
	user.Approved = approved

	return user, nil
}
