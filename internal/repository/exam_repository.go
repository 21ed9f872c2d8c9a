package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syllabuser/baire-backend/internal/model"
)

// ExamRepository handles exam persistence.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, course_id, course_name, duration_minutes,
	start_time, end_time, negative_mark, total_questions, created_at`

func scanExam(row pgx.Row, e *model.Exam) error {
	return row.Scan(
		&e.ID, &e.Title, &e.CourseID, &e.CourseName, &e.DurationMinutes,
		&e.StartTime, &e.EndTime, &e.NegativeMark, &e.TotalQuestions, &e.CreatedAt,
	)
}

// GetByID retrieves an exam by its ID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	var e model.Exam
	row := r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id)
	if err := scanExam(row, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByCourse retrieves all exams belonging to a course, newest window first.
func (r *ExamRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams WHERE course_id = $1 ORDER BY start_time DESC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExams(rows)
}

// ListPaginated retrieves exams page by page for the admin panel.
func (r *ExamRepository) ListPaginated(ctx context.Context, limit, offset int) ([]model.Exam, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM exams`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	exams, err := collectExams(rows)
	if err != nil {
		return nil, 0, err
	}
	return exams, total, nil
}

func collectExams(rows pgx.Rows) ([]model.Exam, error) {
	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := scanExam(rows, &e); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// CreateWithQuestions inserts an exam and its full question set in one
// transaction so a half-written exam never becomes visible.
func (r *ExamRepository) CreateWithQuestions(ctx context.Context, e *model.Exam, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO exams (title, course_id, course_name, duration_minutes,
			start_time, end_time, negative_mark, total_questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		e.Title, e.CourseID, e.CourseName, e.DurationMinutes,
		e.StartTime, e.EndTime, e.NegativeMark, len(questions),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return err
	}
	e.TotalQuestions = len(questions)

	for i := range questions {
		q := &questions[i]
		q.ExamID = e.ID
		q.OrderNum = i + 1
		err = tx.QueryRow(ctx,
			`INSERT INTO questions (exam_id, text, option_1, option_2, option_3, option_4,
				correct_option, explanation, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id`,
			q.ExamID, q.Text, q.Options[0], q.Options[1], q.Options[2], q.Options[3],
			q.CorrectOption, q.Explanation, q.OrderNum,
		).Scan(&q.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes an exam. Questions cascade at the database level.
func (r *ExamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}
