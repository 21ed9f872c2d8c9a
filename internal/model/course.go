package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups courses in the catalog (e.g. "University Admission").
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Course is a purchasable/enrollable unit that owns exams and routines.
type Course struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Enrollment records a student's registration for a course. The denormalized
// course name is kept because older exam documents reference courses by name.
type Enrollment struct {
	StudentID  uuid.UUID `json:"student_id"`
	CourseID   uuid.UUID `json:"course_id"`
	CourseName string    `json:"course_name"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name        string     `json:"name" binding:"required,min=2,max=255"`
	CategoryID  *uuid.UUID `json:"category_id" binding:"omitempty"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
}

// UpdateCourseRequest is the payload for updating a course.
type UpdateCourseRequest struct {
	Name        string     `json:"name" binding:"omitempty,min=2,max=255"`
	CategoryID  *uuid.UUID `json:"category_id" binding:"omitempty"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
}
