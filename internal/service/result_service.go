package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/repository"
)

// ErrResultNotFound is returned when no graded result exists.
var ErrResultNotFound = errors.New("result not found")

// ResultReview is a graded result expanded with the full question set,
// including correct options and explanations, for post-exam review.
type ResultReview struct {
	Result    *model.Result          `json:"result"`
	Questions []ReviewQuestion       `json:"questions"`
}

// ReviewQuestion pairs one question with the student's selection.
type ReviewQuestion struct {
	model.Question
	Selected int `json:"selected,omitempty"`
}

// ResultService handles reading graded results.
type ResultService struct {
	results   *repository.ResultRepository
	questions *repository.QuestionRepository
}

// NewResultService creates a new ResultService.
func NewResultService(results *repository.ResultRepository, questions *repository.QuestionRepository) *ResultService {
	return &ResultService{results: results, questions: questions}
}

// ListByStudent retrieves a student's results, most recent first.
func (s *ResultService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Result, error) {
	return s.results.ListByStudent(ctx, studentID)
}

// ListByExam retrieves an exam's results for the admin panel.
func (s *ResultService) ListByExam(ctx context.Context, examID uuid.UUID, page, limit int) ([]model.Result, int, error) {
	return s.results.ListByExam(ctx, examID, limit, (page-1)*limit)
}

// GetForStudent retrieves a student's result for one exam.
func (s *ResultService) GetForStudent(ctx context.Context, studentID, examID uuid.UUID) (*model.Result, error) {
	result, err := s.results.GetByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

// Review expands a student's result with questions, correct options, and
// explanations. Correct answers are only ever exposed through this path,
// strictly after submission.
func (s *ResultService) Review(ctx context.Context, studentID, examID uuid.UUID) (*ResultReview, error) {
	result, err := s.GetForStudent(ctx, studentID, examID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	var snapshot map[string]int
	if len(result.AnswerSnapshot) > 0 {
		if err := json.Unmarshal(result.AnswerSnapshot, &snapshot); err != nil {
			return nil, fmt.Errorf("unmarshal answer snapshot: %w", err)
		}
	}

	review := make([]ReviewQuestion, len(questions))
	for i, q := range questions {
		review[i] = ReviewQuestion{
			Question: q,
			Selected: snapshot[q.ID.String()],
		}
	}

	return &ResultReview{Result: result, Questions: review}, nil
}
