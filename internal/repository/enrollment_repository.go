package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syllabuser/baire-backend/internal/model"
)

// EnrollmentRepository handles a student's course enrollment set.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// ListByStudent retrieves all enrollments for a student.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id, course_id, course_name, enrolled_at
		 FROM enrollments
		 WHERE student_id = $1
		 ORDER BY enrolled_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.StudentID, &e.CourseID, &e.CourseName, &e.EnrolledAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// Create records an enrollment. Enrolling twice is a no-op.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO enrollments (student_id, course_id, course_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (student_id, course_id) DO NOTHING`,
		e.StudentID, e.CourseID, e.CourseName)
	return err
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, courseID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID)
	return err
}
