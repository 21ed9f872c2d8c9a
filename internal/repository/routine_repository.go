package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syllabuser/baire-backend/internal/model"
)

// RoutineRepository handles study routine persistence.
type RoutineRepository struct {
	pool *pgxpool.Pool
}

// NewRoutineRepository creates a new RoutineRepository.
func NewRoutineRepository(pool *pgxpool.Pool) *RoutineRepository {
	return &RoutineRepository{pool: pool}
}

// GetByID retrieves a routine by its ID.
func (r *RoutineRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Routine, error) {
	var rt model.Routine
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, title, note, scheduled_at, created_at
		 FROM routines WHERE id = $1`, id).
		Scan(&rt.ID, &rt.CourseID, &rt.Title, &rt.Note, &rt.ScheduledAt, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// ListByCourses retrieves upcoming routines across a set of courses.
func (r *RoutineRepository) ListByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]model.Routine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, note, scheduled_at, created_at
		 FROM routines
		 WHERE course_id = ANY($1)
		 ORDER BY scheduled_at ASC`, courseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routines []model.Routine
	for rows.Next() {
		var rt model.Routine
		if err := rows.Scan(&rt.ID, &rt.CourseID, &rt.Title, &rt.Note, &rt.ScheduledAt, &rt.CreatedAt); err != nil {
			return nil, err
		}
		routines = append(routines, rt)
	}
	return routines, rows.Err()
}

// Create persists a routine.
func (r *RoutineRepository) Create(ctx context.Context, rt *model.Routine) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO routines (course_id, title, note, scheduled_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		rt.CourseID, rt.Title, rt.Note, rt.ScheduledAt,
	).Scan(&rt.ID, &rt.CreatedAt)
}

// Update rewrites a routine's mutable fields.
func (r *RoutineRepository) Update(ctx context.Context, rt *model.Routine) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE routines SET title = $2, note = $3, scheduled_at = $4 WHERE id = $1`,
		rt.ID, rt.Title, rt.Note, rt.ScheduledAt)
	return err
}

// Delete removes a routine.
func (r *RoutineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM routines WHERE id = $1`, id)
	return err
}
