package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/certapply/certapply/internal/client/api"
	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/common"
	"github.com/certapply/certapply/internal/logging"
)

// UserService covers the admin's account management plus profile edits.
type UserService interface {
	AddReviewer(ctx context.Context, profile api.Profile) error
	List(ctx context.Context, page, size int) (*models.UserPage, error)
	ByRole(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int64, profile api.Profile) (*models.User, error)
}

type userService struct {
	client api.Client
	log    logging.Logger
}

func NewUserService(client api.Client, log logging.Logger) UserService {
	return &userService{client: client, log: log.With("service", "users")}
}

func (s *userService) AddReviewer(ctx context.Context, profile api.Profile) error {
	if strings.TrimSpace(profile.Username) == "" || strings.TrimSpace(profile.Email) == "" || profile.Password == "" {
		return fmt.Errorf("%w: username, email and password are required", common.ErrValidation)
	}
	if err := s.client.AddReviewer(ctx, profile); err != nil {
		return err
	}
	s.log.Info(ctx, "reviewer account created", "username", profile.Username)
	return nil
}

func (s *userService) List(ctx context.Context, page, size int) (*models.UserPage, error) {
	if page < 0 || size <= 0 {
		return nil, fmt.Errorf("%w: page must be >= 0 and size > 0", common.ErrValidation)
	}
	return s.client.ListUsers(ctx, page, size)
}

func (s *userService) ByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}
	return s.client.UsersByRole(ctx, role)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, profile api.Profile) (*models.User, error) {
	return s.client.UpdateProfile(ctx, userID, profile)
}
