package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/repository"
)

// ErrEmailTaken is returned when registering with an email that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")

// StudentService handles student registration and account management.
type StudentService struct {
	students *repository.StudentRepository
	auth     *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(students *repository.StudentRepository, auth *AuthService) *StudentService {
	return &StudentService{students: students, auth: auth}
}

// Register creates a student account. The email must be unused.
func (s *StudentService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Student, error) {
	existing, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// Login verifies credentials and issues a student token.
func (s *StudentService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	student, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}

	if err := s.auth.CheckPassword(student.PasswordHash, req.Password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateToken(ctx, TokenTypeStudent, student.ID, student.Name)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: token, Student: student}, nil
}

// GetByID retrieves a student profile.
func (s *StudentService) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return s.students.GetByID(ctx, id)
}

// ListPaginated retrieves students page by page for the admin panel.
func (s *StudentService) ListPaginated(ctx context.Context, page, limit int) ([]model.Student, int, error) {
	return s.students.ListPaginated(ctx, limit, (page-1)*limit)
}

// Delete removes a student account.
func (s *StudentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.students.Delete(ctx, id)
}
