package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/syllabuser/baire-backend/internal/config"
	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/repository"
	"github.com/syllabuser/baire-backend/internal/watch"
)

// ErrExamNotFound is returned when an exam does not exist.
var ErrExamNotFound = errors.New("exam not found")

// AnswerMappingError reports a question whose answer text could not be
// resolved to one of its four options. It rejects the whole upload batch.
type AnswerMappingError struct {
	QuestionIndex int
	Answer        string
}

func (e *AnswerMappingError) Error() string {
	return fmt.Sprintf("question %d: answer %q does not match any option", e.QuestionIndex+1, e.Answer)
}

// ExamService handles exam authoring, the Redis payload cache, and listing.
type ExamService struct {
	exams     *repository.ExamRepository
	questions *repository.QuestionRepository
	courses   *repository.CourseRepository
	rdb       *redis.Client
	notifier  *watch.Notifier
	log       zerolog.Logger
}

// NewExamService creates a new ExamService.
func NewExamService(
	exams *repository.ExamRepository,
	questions *repository.QuestionRepository,
	courses *repository.CourseRepository,
	rdb *redis.Client,
	notifier *watch.Notifier,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		exams:     exams,
		questions: questions,
		courses:   courses,
		rdb:       rdb,
		notifier:  notifier,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// MapAnswer resolves an uploaded answer to a 1-based option index. Accepted
// forms: "Option A".."Option D", a bare letter, a bare digit 1..4, or the
// exact option text. Matching is case-insensitive on the letter forms and
// whitespace-trimmed everywhere. Anything else is an error; nothing is ever
// silently defaulted.
func MapAnswer(answer string, options []string) (int, error) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return 0, errors.New("empty answer")
	}

	letterForm := strings.ToUpper(trimmed)
	letterForm = strings.TrimSpace(strings.TrimPrefix(letterForm, "OPTION"))
	if len(letterForm) == 1 {
		switch letterForm[0] {
		case 'A', '1':
			return 1, nil
		case 'B', '2':
			return 2, nil
		case 'C', '3':
			return 3, nil
		case 'D', '4':
			return 4, nil
		}
	}

	for i, opt := range options {
		if strings.TrimSpace(opt) == trimmed {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("answer %q does not match any option", answer)
}

// Create authors an exam with its full question set. Either everything is
// created or nothing is: a single unmappable answer rejects the batch before
// any row is written.
func (s *ExamService) Create(ctx context.Context, req *model.CreateExamRequest) (*model.Exam, error) {
	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("lookup course: %w", err)
	}

	questions := make([]model.Question, len(req.Questions))
	for i, upload := range req.Questions {
		correct, err := MapAnswer(upload.Answer, upload.Options)
		if err != nil {
			return nil, &AnswerMappingError{QuestionIndex: i, Answer: upload.Answer}
		}
		q := model.Question{
			Text:          upload.Question,
			CorrectOption: correct,
			Explanation:   upload.Explanation,
		}
		copy(q.Options[:], upload.Options)
		questions[i] = q
	}

	exam := &model.Exam{
		Title:           req.Title,
		CourseID:        course.ID,
		CourseName:      course.Name,
		DurationMinutes: req.DurationMinutes,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		NegativeMark:    req.NegativeMark,
	}
	if err := s.exams.CreateWithQuestions(ctx, exam, questions); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	if err := s.warmCache(ctx, exam, questions); err != nil {
		s.log.Warn().Err(err).Str("exam_id", exam.ID.String()).Msg("Failed to warm exam cache")
	}
	s.notifier.Notify(ctx, watch.CollectionExams, watch.ActionCreated, exam.ID)
	return exam, nil
}

// GetByID retrieves an exam.
func (s *ExamService) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return exam, nil
}

// ListByCourse retrieves a course's exams.
func (s *ExamService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Exam, error) {
	return s.exams.ListByCourse(ctx, courseID)
}

// ListPaginated retrieves exams page by page for the admin panel.
func (s *ExamService) ListPaginated(ctx context.Context, page, limit int) ([]model.Exam, int, error) {
	return s.exams.ListPaginated(ctx, limit, (page-1)*limit)
}

// GetPayload retrieves the student-facing exam payload, reading through the
// Redis cache and rebuilding it on a miss.
func (s *ExamService) GetPayload(ctx context.Context, examID uuid.UUID) (*model.ExamPayload, error) {
	key := config.CacheKey.ExamPayloadKey(examID.String())
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload model.ExamPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		return &payload, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get payload: %w", err)
	}

	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	payload := buildPayload(exam, questions)
	if err := s.warmCache(ctx, exam, questions); err != nil {
		s.log.Warn().Err(err).Str("exam_id", examID.String()).Msg("Failed to warm exam cache")
	}
	return payload, nil
}

// Delete removes an exam and drops its cached payload.
func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.exams.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, config.CacheKey.ExamPayloadKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("exam_id", id.String()).Msg("Failed to drop exam cache")
	}
	s.notifier.Notify(ctx, watch.CollectionExams, watch.ActionDeleted, id)
	return nil
}

// PrewarmAllCaches loads every exam payload into Redis on startup so the
// first student to open an exam never pays the build cost.
func (s *ExamService) PrewarmAllCaches(ctx context.Context) error {
	exams, _, err := s.exams.ListPaginated(ctx, 10000, 0)
	if err != nil {
		return fmt.Errorf("list exams: %w", err)
	}
	if len(exams) == 0 {
		s.log.Info().Msg("No exams to prewarm")
		return nil
	}

	warmed := 0
	for i := range exams {
		questions, err := s.questions.ListByExam(ctx, exams[i].ID)
		if err != nil {
			s.log.Warn().Err(err).Str("exam_id", exams[i].ID.String()).Msg("Failed to load questions, skipping")
			continue
		}
		if err := s.warmCache(ctx, &exams[i], questions); err != nil {
			s.log.Warn().Err(err).Str("exam_id", exams[i].ID.String()).Msg("Failed to warm exam, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().Int("warmed", warmed).Int("total", len(exams)).Msg("Prewarming complete")
	return nil
}

func buildPayload(exam *model.Exam, questions []model.Question) *model.ExamPayload {
	forStudents := make([]model.QuestionForStudent, len(questions))
	for i, q := range questions {
		forStudents[i] = q.ForStudent()
	}
	return &model.ExamPayload{
		ExamID:          exam.ID,
		Title:           exam.Title,
		CourseID:        exam.CourseID,
		CourseName:      exam.CourseName,
		DurationMinutes: exam.DurationMinutes,
		EndTime:         exam.EndTime,
		NegativeMark:    exam.NegativeMark,
		Questions:       forStudents,
	}
}

func (s *ExamService) warmCache(ctx context.Context, exam *model.Exam, questions []model.Question) error {
	payloadJSON, err := json.Marshal(buildPayload(exam, questions))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	key := config.CacheKey.ExamPayloadKey(exam.ID.String())
	if err := s.rdb.Set(ctx, key, payloadJSON, 0).Err(); err != nil {
		return fmt.Errorf("cache payload: %w", err)
	}
	s.log.Debug().Str("exam_id", exam.ID.String()).Int("questions", len(questions)).Msg("Cache warmed")
	return nil
}
