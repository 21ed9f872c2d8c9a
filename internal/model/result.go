package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Result is the immutable scored outcome of one exam attempt. It is created
// exactly once per attempt by the submission guard and never mutated.
type Result struct {
	ID             uuid.UUID `json:"id"`
	StudentID      uuid.UUID `json:"student_id"`
	StudentName    string    `json:"student_name"`
	ExamID         uuid.UUID `json:"exam_id"`
	ExamTitle      string    `json:"exam_title"`
	CourseID       uuid.UUID `json:"course_id"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	WrongAnswers   int       `json:"wrong_answers"`
	// NetMark may be fractional and may be negative.
	NetMark float64 `json:"net_mark"`
	// AnswerSnapshot is the serialized question-id -> option-index map
	// captured at submission time.
	AnswerSnapshot json.RawMessage `json:"answer_snapshot"`
	SubmittedAt    time.Time       `json:"submitted_at"`
}

// Unanswered derives the unanswered count from the stored tallies.
func (r *Result) Unanswered() int {
	return r.TotalQuestions - r.CorrectAnswers - r.WrongAnswers
}
