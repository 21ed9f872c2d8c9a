package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/repository"
)

// AdminService handles admin authentication and account creation.
type AdminService struct {
	admins *repository.AdminRepository
	auth   *AuthService
}

// NewAdminService creates a new AdminService.
func NewAdminService(admins *repository.AdminRepository, auth *AuthService) *AdminService {
	return &AdminService{admins: admins, auth: auth}
}

// Login verifies admin credentials and issues an admin token.
func (s *AdminService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if err := s.auth.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateToken(ctx, TokenTypeAdmin, admin.ID, admin.Name)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: token, Admin: admin}, nil
}

// Create adds an admin account. Used by the create-admin CLI.
func (s *AdminService) Create(ctx context.Context, name, email, password string) (*model.Admin, error) {
	existing, err := s.admins.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{Name: name, Email: email, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}
