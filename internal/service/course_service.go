package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/repository"
	"github.com/syllabuser/baire-backend/internal/watch"
)

// ErrCourseNotFound is returned when an enrollment or exam references a
// course that does not exist.
var ErrCourseNotFound = errors.New("course not found")

// CourseService handles the course catalog and student enrollment.
type CourseService struct {
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	notifier    *watch.Notifier
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courses *repository.CourseRepository,
	enrollments *repository.EnrollmentRepository,
	notifier *watch.Notifier,
) *CourseService {
	return &CourseService{courses: courses, enrollments: enrollments, notifier: notifier}
}

// ListCategories retrieves all catalog categories.
func (s *CourseService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.courses.ListCategories(ctx)
}

// CreateCategory adds a catalog category.
func (s *CourseService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name}
	if err := s.courses.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a catalog category.
func (s *CourseService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.courses.DeleteCategory(ctx, id)
}

// List retrieves courses, optionally filtered by category.
func (s *CourseService) List(ctx context.Context, categoryID *uuid.UUID) ([]model.Course, error) {
	return s.courses.List(ctx, categoryID)
}

// GetByID retrieves a course.
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.notifier.Notify(ctx, watch.CollectionCourses, watch.ActionCreated, course.ID)
	return course, nil
}

// Update rewrites a course's mutable fields.
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	if req.CategoryID != nil {
		course.CategoryID = req.CategoryID
	}
	if req.Description != "" {
		course.Description = req.Description
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	s.notifier.Notify(ctx, watch.CollectionCourses, watch.ActionUpdated, course.ID)
	return course, nil
}

// Delete removes a course. Enrollments, exams, and routines cascade.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, watch.CollectionCourses, watch.ActionDeleted, id)
	return nil
}

// Enroll registers a student in a course. Enrolling twice is a no-op. The
// course name is denormalized into the enrollment row because exam access
// checks accept a name match as well as an ID match.
func (s *CourseService) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*model.Enrollment, error) {
	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID:  studentID,
		CourseID:   course.ID,
		CourseName: course.Name,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	s.notifier.Notify(ctx, watch.CollectionEnrollments, watch.ActionCreated, courseID)
	return enrollment, nil
}

// ListEnrollments retrieves a student's enrollments.
func (s *CourseService) ListEnrollments(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	return s.enrollments.ListByStudent(ctx, studentID)
}
