package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/response"
	"github.com/syllabuser/baire-backend/internal/service"
	"github.com/syllabuser/baire-backend/internal/validator"
)

// ExamHandler handles admin-panel exam authoring and results.
type ExamHandler struct {
	examService   *service.ExamService
	resultService *service.ResultService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, resultService *service.ResultService) *ExamHandler {
	return &ExamHandler{examService: examService, resultService: resultService}
}

// CreateExam godoc
// POST /api/v1/admin/exams
// Authors an exam with its full question set atomically. A single
// unmappable answer rejects the whole batch with a field error naming the
// question.
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req)
	if err != nil {
		var mapErr *service.AnswerMappingError
		if errors.As(err, &mapErr) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				fmt.Sprintf("questions[%d].answer", mapErr.QuestionIndex): mapErr.Error(),
			})
			return
		}
		if errors.Is(err, service.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam": exam})
}

// ListExams godoc
// GET /api/v1/admin/exams?page=&limit=
func (h *ExamHandler) ListExams(c *gin.Context) {
	page, limit := pageParams(c)

	exams, total, err := h.examService.ListPaginated(c.Request.Context(), page, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"exams": exams}, paginationFor(page, limit, total))
}

// GetExam godoc
// GET /api/v1/admin/exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// DeleteExam godoc
// DELETE /api/v1/admin/exams/:id
// Removes the exam, its questions, and its cached payload.
func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ExamResults godoc
// GET /api/v1/admin/exams/:id/results?page=&limit=
// Lists an exam's graded results, highest net mark first.
func (h *ExamHandler) ExamResults(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	page, limit := pageParams(c)

	results, total, err := h.resultService.ListByExam(c.Request.Context(), id, page, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, paginationFor(page, limit, total))
}
