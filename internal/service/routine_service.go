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

// ErrRoutineNotFound is returned when a routine does not exist.
var ErrRoutineNotFound = errors.New("routine not found")

// RoutineService handles study routine scheduling.
type RoutineService struct {
	routines    *repository.RoutineRepository
	courses     *repository.CourseRepository
	enrollments *repository.EnrollmentRepository
	notifier    *watch.Notifier
}

// NewRoutineService creates a new RoutineService.
func NewRoutineService(
	routines *repository.RoutineRepository,
	courses *repository.CourseRepository,
	enrollments *repository.EnrollmentRepository,
	notifier *watch.Notifier,
) *RoutineService {
	return &RoutineService{
		routines:    routines,
		courses:     courses,
		enrollments: enrollments,
		notifier:    notifier,
	}
}

// ListForStudent retrieves upcoming routines across all of a student's
// enrolled courses.
func (s *RoutineService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]model.Routine, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return nil, nil
	}

	courseIDs := make([]uuid.UUID, len(enrollments))
	for i, e := range enrollments {
		courseIDs[i] = e.CourseID
	}
	return s.routines.ListByCourses(ctx, courseIDs)
}

// ListByCourse retrieves one course's routines.
func (s *RoutineService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Routine, error) {
	return s.routines.ListByCourses(ctx, []uuid.UUID{courseID})
}

// Create adds a routine entry to a course.
func (s *RoutineService) Create(ctx context.Context, req *model.CreateRoutineRequest) (*model.Routine, error) {
	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("lookup course: %w", err)
	}

	routine := &model.Routine{
		CourseID:    req.CourseID,
		Title:       req.Title,
		ScheduledAt: req.ScheduledAt,
		Note:        req.Note,
	}
	if err := s.routines.Create(ctx, routine); err != nil {
		return nil, fmt.Errorf("create routine: %w", err)
	}
	s.notifier.Notify(ctx, watch.CollectionRoutines, watch.ActionCreated, routine.ID)
	return routine, nil
}

// Update rewrites a routine's mutable fields.
func (s *RoutineService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateRoutineRequest) (*model.Routine, error) {
	routine, err := s.routines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		routine.Title = req.Title
	}
	if req.ScheduledAt != nil {
		routine.ScheduledAt = *req.ScheduledAt
	}
	if req.Note != "" {
		routine.Note = req.Note
	}

	if err := s.routines.Update(ctx, routine); err != nil {
		return nil, fmt.Errorf("update routine: %w", err)
	}
	s.notifier.Notify(ctx, watch.CollectionRoutines, watch.ActionUpdated, routine.ID)
	return routine, nil
}

// Delete removes a routine entry.
func (s *RoutineService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.routines.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, watch.CollectionRoutines, watch.ActionDeleted, id)
	return nil
}
