package model

import (
	"time"

	"github.com/google/uuid"
)

// Routine is a scheduled class/exam entry shown on a course's routine page.
type Routine struct {
	ID          uuid.UUID `json:"id"`
	CourseID    uuid.UUID `json:"course_id"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRoutineRequest is the payload for creating a routine entry.
type CreateRoutineRequest struct {
	CourseID    uuid.UUID `json:"course_id" binding:"required"`
	Title       string    `json:"title" binding:"required,min=2,max=255"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Note        string    `json:"note" binding:"omitempty,max=1000"`
}

// UpdateRoutineRequest is the payload for updating a routine entry.
type UpdateRoutineRequest struct {
	Title       string     `json:"title" binding:"omitempty,min=2,max=255"`
	ScheduledAt *time.Time `json:"scheduled_at" binding:"omitempty"`
	Note        string     `json:"note" binding:"omitempty,max=1000"`
}
