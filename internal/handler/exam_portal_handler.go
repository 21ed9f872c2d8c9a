package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/syllabuser/baire-backend/internal/attempt"
	"github.com/syllabuser/baire-backend/internal/integrity"
	"github.com/syllabuser/baire-backend/internal/middleware"
	"github.com/syllabuser/baire-backend/internal/response"
	"github.com/syllabuser/baire-backend/internal/service"
	"github.com/syllabuser/baire-backend/internal/validator"
)

// ExamPortalHandler handles the student exam-taking flow over HTTP: start,
// live state, answering, navigation, submission, and integrity reports.
type ExamPortalHandler struct {
	attemptService *service.AttemptService
	resultService  *service.ResultService
}

// NewExamPortalHandler creates a new ExamPortalHandler.
func NewExamPortalHandler(attemptService *service.AttemptService, resultService *service.ResultService) *ExamPortalHandler {
	return &ExamPortalHandler{attemptService: attemptService, resultService: resultService}
}

type answerRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Option     int       `json:"option" binding:"required,min=1,max=4"`
}

type navigateRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type integrityRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// Start godoc
// POST /api/v1/exams/:id/start
// Begins or rejoins an attempt. If the exam window is already closed, the
// auto-submitted result is returned instead of a live state.
func (h *ExamPortalHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, result, err := h.attemptService.Start(c.Request.Context(), claims.UserID, claims.Name, examID)
	if err != nil {
		failAttemptError(c, err)
		return
	}
	if result != nil {
		response.Success(c, http.StatusOK, gin.H{"result": result})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": state})
}

// State godoc
// GET /api/v1/exams/:id/attempt
// Returns the live attempt snapshot including the server-anchored deadline.
func (h *ExamPortalHandler) State(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.State(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		failAttemptError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": state})
}

// Answer godoc
// POST /api/v1/exams/:id/answer
// Records one selection. Later selections for the same question overwrite
// earlier ones.
func (h *ExamPortalHandler) Answer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req answerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attemptService.Answer(c.Request.Context(), claims.UserID, examID, req.QuestionID, req.Option); err != nil {
		failAttemptError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// Navigate godoc
// POST /api/v1/exams/:id/navigate
// Moves the attempt cursor by a relative delta and returns the new position.
func (h *ExamPortalHandler) Navigate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req navigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cursor, err := h.attemptService.Navigate(c.Request.Context(), claims.UserID, examID, req.Delta)
	if err != nil {
		failAttemptError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cursor": cursor})
}

// Submit godoc
// POST /api/v1/exams/:id/submit
// Finalizes the attempt. At most one result is ever produced per attempt.
func (h *ExamPortalHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		if isAttemptSentinel(err) {
			failAttemptError(c, err)
		} else {
			// Persistence failed; the attempt stays live and can be retried.
			response.Fail(c, http.StatusInternalServerError, response.ErrSubmitFailed)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// ReportIntegrity godoc
// POST /api/v1/exams/:id/integrity
// Queues a blocked-interaction report for async persistence.
func (h *ExamPortalHandler) ReportIntegrity(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req integrityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err = h.attemptService.RecordIntegrity(c.Request.Context(), claims.UserID, examID, integrity.EventKind(req.Kind))
	if err != nil {
		if errors.Is(err, integrity.ErrUnknownKind) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"status": "recorded"})
}

// MyResults godoc
// GET /api/v1/results
func (h *ExamPortalHandler) MyResults(c *gin.Context) {
	claims := middleware.GetClaims(c)

	results, err := h.resultService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// MyResult godoc
// GET /api/v1/exams/:id/result
func (h *ExamPortalHandler) MyResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.resultService.GetForStudent(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Review godoc
// GET /api/v1/exams/:id/review
// Returns the graded result with questions, correct options, and
// explanations. Only reachable after submission.
func (h *ExamPortalHandler) Review(c *gin.Context) {
	claims := middleware.GetClaims(c)
	examID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	review, err := h.resultService.Review(c.Request.Context(), claims.UserID, examID)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, review)
}

// failAttemptError maps attempt engine errors onto HTTP responses.
func failAttemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attempt.ErrExamUnavailable):
		response.Fail(c, http.StatusNotFound, response.ErrExamUnavailable)
	case errors.Is(err, attempt.ErrNotEnrolled):
		response.Fail(c, http.StatusForbidden, response.ErrNotEnrolled)
	case errors.Is(err, attempt.ErrNoActiveAttempt):
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveAttempt)
	case errors.Is(err, attempt.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, attempt.ErrSubmitInFlight):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, attempt.ErrInvalidOption):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOption)
	case errors.Is(err, attempt.ErrUnknownQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownQuestion)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func isAttemptSentinel(err error) bool {
	for _, sentinel := range []error{
		attempt.ErrExamUnavailable,
		attempt.ErrNotEnrolled,
		attempt.ErrNoActiveAttempt,
		attempt.ErrAlreadySubmitted,
		attempt.ErrSubmitInFlight,
		attempt.ErrInvalidOption,
		attempt.ErrUnknownQuestion,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
