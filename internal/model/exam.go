package model

import (
	"time"

	"github.com/google/uuid"
)

// Exam represents a timed MCQ exam bound to a course. Exam content is
// immutable once created; the only update path is deletion (which cascades
// to questions).
type Exam struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	CourseID        uuid.UUID `json:"course_id"`
	CourseName      string    `json:"course_name"`
	DurationMinutes int       `json:"duration_minutes"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	// NegativeMark is the marks deducted per wrong answer. Zero disables
	// negative marking.
	NegativeMark   float64   `json:"negative_mark"`
	TotalQuestions int       `json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateExamRequest is the payload for authoring an exam together with its
// full question set. The batch is atomic: either the exam and every question
// are created, or nothing is.
type CreateExamRequest struct {
	Title           string              `json:"title" binding:"required,min=3,max=255"`
	CourseID        uuid.UUID           `json:"course_id" binding:"required"`
	DurationMinutes int                 `json:"duration_minutes" binding:"required,min=1,max=480"`
	StartTime       time.Time           `json:"start_time" binding:"required"`
	EndTime         time.Time           `json:"end_time" binding:"required,gtefield=StartTime"`
	NegativeMark    float64             `json:"negative_mark" binding:"gte=0"`
	Questions       []QuestionUpload    `json:"questions" binding:"required,min=1,dive"`
}

// ExamPayload is the Redis-cached, student-facing exam descriptor. It never
// contains correct answers or explanations.
type ExamPayload struct {
	ExamID          uuid.UUID            `json:"exam_id"`
	Title           string               `json:"title"`
	CourseID        uuid.UUID            `json:"course_id"`
	CourseName      string               `json:"course_name"`
	DurationMinutes int                  `json:"duration_minutes"`
	EndTime         time.Time            `json:"end_time"`
	NegativeMark    float64              `json:"negative_mark"`
	Questions       []QuestionForStudent `json:"questions"`
}
