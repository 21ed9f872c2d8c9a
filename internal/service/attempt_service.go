package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/syllabuser/baire-backend/internal/attempt"
	"github.com/syllabuser/baire-backend/internal/config"
	"github.com/syllabuser/baire-backend/internal/integrity"
	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/watch"
)

// checkpointTTL bounds how long an orphaned answer checkpoint can linger in
// Redis after its exam window closed.
const checkpointTTL = 24 * time.Hour

// AttemptState is the client-facing snapshot of a live attempt. It carries
// the server-anchored deadline so clients re-derive the countdown from it
// instead of trusting their own clock.
type AttemptState struct {
	ExamID           uuid.UUID                  `json:"exam_id"`
	Title            string                     `json:"title"`
	Questions        []model.QuestionForStudent `json:"questions"`
	Answers          map[string]int             `json:"answers"`
	Cursor           int                        `json:"cursor"`
	Deadline         time.Time                  `json:"deadline"`
	RemainingSeconds int                        `json:"remaining_seconds"`
	Clock            string                     `json:"clock"`
	Urgent           bool                       `json:"urgent"`
	NegativeMark     float64                    `json:"negative_mark"`
	Policy           integrity.Policy           `json:"policy"`
}

// AttemptService wires the in-memory attempt engine to Redis checkpoints,
// the integrity event queue, and change notifications.
type AttemptService struct {
	manager  *attempt.Manager
	rdb      *redis.Client
	recorder *integrity.Recorder
	policy   integrity.Policy
	log      zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	manager *attempt.Manager,
	rdb *redis.Client,
	recorder *integrity.Recorder,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		manager:  manager,
		rdb:      rdb,
		recorder: recorder,
		policy:   integrity.DefaultPolicy(),
		log:      log.With().Str("component", "attempt_service").Logger(),
	}
}

// SubmitHook returns the callback the attempt manager runs after a result is
// persisted: it drops the Redis checkpoint and announces the new result.
func SubmitHook(rdb *redis.Client, notifier *watch.Notifier, log zerolog.Logger) func(a *attempt.Attempt, r *model.Result) {
	return func(a *attempt.Attempt, r *model.Result) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		key := config.CacheKey.AttemptAnswersKey(a.StudentID.String(), a.Exam.ID.String())
		if err := rdb.Del(ctx, key).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to drop answer checkpoint")
		}
		notifier.Notify(ctx, watch.CollectionResults, watch.ActionCreated, r.ID)
	}
}

// Start begins or rejoins an attempt. On rejoin (or process restart) any
// checkpointed answers are merged back before the state is returned. If the
// exam window was already closed, the immediate auto-submitted result is
// returned instead of a live state.
func (s *AttemptService) Start(ctx context.Context, studentID uuid.UUID, studentName string, examID uuid.UUID) (*AttemptState, *model.Result, error) {
	a, result, err := s.manager.Start(ctx, studentID, studentName, examID)
	if err != nil {
		return nil, nil, err
	}
	if result != nil {
		return nil, result, nil
	}

	s.restoreCheckpoint(ctx, a)
	return s.snapshot(a), nil, nil
}

// State returns the current snapshot of a live attempt.
func (s *AttemptService) State(ctx context.Context, studentID, examID uuid.UUID) (*AttemptState, error) {
	a, err := s.manager.Get(studentID, examID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(a), nil
}

// Answer records a selection and checkpoints it to Redis. The checkpoint is
// best-effort: a Redis failure is logged, never surfaced, because the
// in-memory attempt already holds the answer.
func (s *AttemptService) Answer(ctx context.Context, studentID, examID, questionID uuid.UUID, option int) error {
	a, err := s.manager.Get(studentID, examID)
	if err != nil {
		return err
	}
	if err := a.SelectAnswer(questionID, option); err != nil {
		return err
	}

	key := config.CacheKey.AttemptAnswersKey(studentID.String(), examID.String())
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, questionID.String(), option)
	pipe.Expire(ctx, key, checkpointTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to checkpoint answer")
	}
	return nil
}

// Navigate moves the attempt cursor by delta and returns the new position.
func (s *AttemptService) Navigate(ctx context.Context, studentID, examID uuid.UUID, delta int) (int, error) {
	a, err := s.manager.Get(studentID, examID)
	if err != nil {
		return 0, err
	}
	return a.Advance(delta), nil
}

// Submit finalizes an attempt through the manual trigger.
func (s *AttemptService) Submit(ctx context.Context, studentID, examID uuid.UUID) (*model.Result, error) {
	return s.manager.Submit(ctx, studentID, examID, attempt.TriggerManual)
}

// Policy returns the integrity policy served to exam clients.
func (s *AttemptService) Policy() integrity.Policy {
	return s.policy
}

// RecordIntegrity queues one integrity event for async persistence. Unknown
// kinds are rejected.
func (s *AttemptService) RecordIntegrity(ctx context.Context, studentID, examID uuid.UUID, kind integrity.EventKind) error {
	if !kind.Valid() {
		return integrity.ErrUnknownKind
	}
	return s.recorder.Record(ctx, studentID, examID, kind)
}

func (s *AttemptService) restoreCheckpoint(ctx context.Context, a *attempt.Attempt) {
	key := config.CacheKey.AttemptAnswersKey(a.StudentID.String(), a.Exam.ID.String())
	stored, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to read answer checkpoint")
		return
	}
	if len(stored) == 0 {
		return
	}

	selections := make(map[uuid.UUID]int, len(stored))
	for qid, opt := range stored {
		id, err := uuid.Parse(qid)
		if err != nil {
			continue
		}
		option, err := strconv.Atoi(opt)
		if err != nil {
			continue
		}
		selections[id] = option
	}
	a.RestoreAnswers(selections)
}

func (s *AttemptService) snapshot(a *attempt.Attempt) *AttemptState {
	questions := a.Questions()
	forStudents := make([]model.QuestionForStudent, len(questions))
	for i, q := range questions {
		forStudents[i] = q.ForStudent()
	}

	answers := make(map[string]int)
	for qid, opt := range a.Answers() {
		answers[qid.String()] = opt
	}

	remaining := a.RemainingAt(time.Now())
	return &AttemptState{
		ExamID:           a.Exam.ID,
		Title:            a.Exam.Title,
		Questions:        forStudents,
		Answers:          answers,
		Cursor:           a.Cursor(),
		Deadline:         a.Deadline(),
		RemainingSeconds: int(remaining / time.Second),
		Clock:            attempt.FormatClock(remaining),
		Urgent:           attempt.Urgent(remaining),
		NegativeMark:     a.Exam.NegativeMark,
		Policy:           s.policy,
	}
}
