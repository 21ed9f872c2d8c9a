package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/syllabuser/baire-backend/internal/middleware"
	"github.com/syllabuser/baire-backend/internal/response"
	"github.com/syllabuser/baire-backend/internal/service"
)

// CourseHandler handles the student-facing course catalog and enrollment.
type CourseHandler struct {
	courseService  *service.CourseService
	examService    *service.ExamService
	routineService *service.RoutineService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(
	courseService *service.CourseService,
	examService *service.ExamService,
	routineService *service.RoutineService,
) *CourseHandler {
	return &CourseHandler{
		courseService:  courseService,
		examService:    examService,
		routineService: routineService,
	}
}

// ListCategories godoc
// GET /api/v1/categories
func (h *CourseHandler) ListCategories(c *gin.Context) {
	categories, err := h.courseService.ListCategories(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": categories})
}

// ListCourses godoc
// GET /api/v1/courses?category_id=...
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		categoryID = &id
	}

	courses, err := h.courseService.List(c.Request.Context(), categoryID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /api/v1/courses/:id
// Returns the course together with its exams and routines.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ctx := c.Request.Context()
	course, err := h.courseService.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	exams, err := h.examService.ListByCourse(ctx, courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	routines, err := h.routineService.ListByCourse(ctx, courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"course":   course,
		"exams":    exams,
		"routines": routines,
	})
}

// ExamPreview godoc
// GET /api/v1/exams/:id
// Returns the cached student-facing exam payload (no correct answers), so a
// student can see the question count and window before starting an attempt.
func (h *CourseHandler) ExamPreview(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payload, err := h.examService.GetPayload(c.Request.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": payload})
}

// Enroll godoc
// POST /api/v1/courses/:id/enroll
// Registers the current student in the course. Idempotent.
func (h *CourseHandler) Enroll(c *gin.Context) {
	claims := middleware.GetClaims(c)
	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.courseService.Enroll(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// MyEnrollments godoc
// GET /api/v1/enrollments
func (h *CourseHandler) MyEnrollments(c *gin.Context) {
	claims := middleware.GetClaims(c)

	enrollments, err := h.courseService.ListEnrollments(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// MyRoutines godoc
// GET /api/v1/routines
// Returns upcoming routines across all of the student's enrolled courses.
func (h *CourseHandler) MyRoutines(c *gin.Context) {
	claims := middleware.GetClaims(c)

	routines, err := h.routineService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"routines": routines})
}
