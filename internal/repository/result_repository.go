package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/syllabuser/baire-backend/internal/model"
)

// ResultRepository handles graded result persistence.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `id, student_id, student_name, exam_id, exam_title, course_id,
	total_questions, correct_answers, wrong_answers, net_mark, answer_snapshot, submitted_at`

func scanResult(row pgx.Row, res *model.Result) error {
	return row.Scan(
		&res.ID, &res.StudentID, &res.StudentName, &res.ExamID, &res.ExamTitle, &res.CourseID,
		&res.TotalQuestions, &res.CorrectAnswers, &res.WrongAnswers, &res.NetMark,
		&res.AnswerSnapshot, &res.SubmittedAt,
	)
}

// Create persists a graded result.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO results (student_id, student_name, exam_id, exam_title, course_id,
			total_questions, correct_answers, wrong_answers, net_mark, answer_snapshot)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, submitted_at`,
		res.StudentID, res.StudentName, res.ExamID, res.ExamTitle, res.CourseID,
		res.TotalQuestions, res.CorrectAnswers, res.WrongAnswers, res.NetMark, res.AnswerSnapshot,
	).Scan(&res.ID, &res.SubmittedAt)
}

// GetByID retrieves a result by its ID.
func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	var res model.Result
	row := r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results WHERE id = $1`, id)
	if err := scanResult(row, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetByStudentAndExam retrieves a student's result for one exam, if any.
func (r *ResultRepository) GetByStudentAndExam(ctx context.Context, studentID, examID uuid.UUID) (*model.Result, error) {
	var res model.Result
	row := r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE student_id = $1 AND exam_id = $2
		 ORDER BY submitted_at ASC
		 LIMIT 1`, studentID, examID)
	if err := scanResult(row, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByStudent retrieves a student's results, most recent first.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE student_id = $1
		 ORDER BY submitted_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResults(rows)
}

// ListByExam retrieves an exam's results page by page, highest mark first.
func (r *ResultRepository) ListByExam(ctx context.Context, examID uuid.UUID, limit, offset int) ([]model.Result, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM results WHERE exam_id = $1`, examID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE exam_id = $1
		 ORDER BY net_mark DESC, submitted_at ASC
		 LIMIT $2 OFFSET $3`, examID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := collectResults(rows)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func collectResults(rows pgx.Rows) ([]model.Result, error) {
	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := scanResult(rows, &res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
