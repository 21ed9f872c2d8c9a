package attempt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/syllabuser/baire-backend/internal/model"
	"github.com/syllabuser/baire-backend/internal/scoring"
)

// ResultStore persists scored results.
type ResultStore interface {
	Create(ctx context.Context, result *model.Result) error
}

// Trigger identifies which path invoked the submission guard. All triggers
// route through the same guarded entry point.
type Trigger string

const (
	TriggerDeadline Trigger = "deadline"
	TriggerManual   Trigger = "manual"
	TriggerFinal    Trigger = "final"
)

type attemptKey struct {
	studentID uuid.UUID
	examID    uuid.UUID
}

// Manager owns the registry of live attempts and the single one-second
// reaper tick that auto-submits expired ones. There is exactly one timer for
// the whole process; starting an attempt twice never duplicates countdowns.
type Manager struct {
	mu       sync.Mutex
	attempts map[attemptKey]*Attempt

	loader  *Loader
	results ResultStore
	now     func() time.Time
	log     zerolog.Logger

	// onSubmitted runs after a successful persistence (checkpoint cleanup,
	// change notification). Never invoked on failure.
	onSubmitted func(a *Attempt, r *model.Result)
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSubmitHook registers a callback invoked after each successful
// submission.
func WithSubmitHook(hook func(a *Attempt, r *model.Result)) Option {
	return func(m *Manager) { m.onSubmitted = hook }
}

// NewManager creates a Manager.
func NewManager(loader *Loader, results ResultStore, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		attempts: make(map[attemptKey]*Attempt),
		loader:   loader,
		results:  results,
		now:      time.Now,
		log:      log.With().Str("component", "attempt_manager").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins (or rejoins) an attempt. Rejoining an existing live attempt
// returns it unchanged: same deadline, same answers, no second countdown.
// If the exam's absolute window has already closed, the attempt is submitted
// immediately and the scored result is returned alongside it.
func (m *Manager) Start(ctx context.Context, studentID uuid.UUID, studentName string, examID uuid.UUID) (*Attempt, *model.Result, error) {
	key := attemptKey{studentID: studentID, examID: examID}

	m.mu.Lock()
	if existing, ok := m.attempts[key]; ok {
		m.mu.Unlock()
		return existing, nil, nil
	}
	m.mu.Unlock()

	exam, questions, err := m.loader.Load(ctx, examID, studentID)
	if err != nil {
		return nil, nil, err
	}

	now := m.now()
	a := newAttempt(studentID, studentName, *exam, questions, now)

	m.mu.Lock()
	if existing, ok := m.attempts[key]; ok {
		// Lost a concurrent start race; keep the first attempt.
		m.mu.Unlock()
		return existing, nil, nil
	}
	m.attempts[key] = a
	m.mu.Unlock()

	if a.RemainingAt(now) == 0 {
		// Window already closed at load time: submit without waiting for a
		// tick. The empty answer map scores as all-unanswered.
		result, err := m.Submit(ctx, studentID, examID, TriggerDeadline)
		if err != nil {
			return a, nil, err
		}
		return a, result, nil
	}

	m.log.Info().
		Str("student_id", studentID.String()).
		Str("exam_id", examID.String()).
		Time("deadline", a.Deadline()).
		Msg("Attempt started")

	return a, nil, nil
}

// Get returns the live attempt for a student/exam pair.
func (m *Manager) Get(studentID, examID uuid.UUID) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptKey{studentID: studentID, examID: examID}]
	if !ok {
		return nil, ErrNoActiveAttempt
	}
	return a, nil
}

// Discard tears an attempt down without submitting (student navigated away).
// A reaper tick racing with Discard may still submit first; Discard after
// submission is a no-op either way.
func (m *Manager) Discard(studentID, examID uuid.UUID) {
	m.mu.Lock()
	delete(m.attempts, attemptKey{studentID: studentID, examID: examID})
	m.mu.Unlock()
}

// Submit is the single guarded entry point for all three triggers. The latch
// is checked-and-set before any scoring or persistence work; on persistence
// failure the latch is released, the answers stay intact, and the error is
// retryable.
func (m *Manager) Submit(ctx context.Context, studentID, examID uuid.UUID, trigger Trigger) (*model.Result, error) {
	a, err := m.Get(studentID, examID)
	if err != nil {
		return nil, err
	}

	if err := a.beginSubmit(); err != nil {
		return nil, err
	}

	// Latch held: the selection map can no longer change concurrently with
	// scoring (SelectAnswer on a submitted attempt is rejected, and the
	// scoring input below is a private copy).
	answers := a.Answers()
	tally := scoring.Score(a.questions, answers, a.Exam.NegativeMark)

	snapshot, err := json.Marshal(encodeAnswers(answers))
	if err != nil {
		a.failSubmit()
		return nil, fmt.Errorf("marshal answer snapshot: %w", err)
	}

	result := &model.Result{
		StudentID:      a.StudentID,
		StudentName:    a.StudentName,
		ExamID:         a.Exam.ID,
		ExamTitle:      a.Exam.Title,
		CourseID:       a.Exam.CourseID,
		TotalQuestions: len(a.questions),
		CorrectAnswers: tally.Correct,
		WrongAnswers:   tally.Wrong,
		NetMark:        tally.NetMark,
		AnswerSnapshot: snapshot,
		SubmittedAt:    m.now(),
	}

	if err := m.results.Create(ctx, result); err != nil {
		a.failSubmit()
		m.log.Error().Err(err).
			Str("student_id", studentID.String()).
			Str("exam_id", examID.String()).
			Str("trigger", string(trigger)).
			Msg("Result persistence failed, latch released")
		return nil, fmt.Errorf("persist result: %w", err)
	}

	a.finishSubmit()
	m.Discard(studentID, examID)

	m.log.Info().
		Str("student_id", studentID.String()).
		Str("exam_id", examID.String()).
		Str("trigger", string(trigger)).
		Int("correct", tally.Correct).
		Int("wrong", tally.Wrong).
		Float64("net_mark", tally.NetMark).
		Msg("Attempt submitted")

	if m.onSubmitted != nil {
		m.onSubmitted(a, result)
	}

	return result, nil
}

// Run drives the reaper: one ticker for every live attempt. Cancelling ctx
// stops the tick; attempts already removed from the registry can never be
// auto-submitted by a stale tick.
func (m *Manager) Run(ctx context.Context) {
	m.log.Info().Msg("Attempt reaper started")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info().Msg("Attempt reaper stopped")
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// sweep auto-submits every attempt whose deadline has passed.
func (m *Manager) sweep(ctx context.Context) {
	now := m.now()

	m.mu.Lock()
	var expired []attemptKey
	for key, a := range m.attempts {
		if a.RemainingAt(now) == 0 {
			expired = append(expired, key)
		}
	}
	m.mu.Unlock()

	for _, key := range expired {
		_, err := m.Submit(ctx, key.studentID, key.examID, TriggerDeadline)
		if err != nil && err != ErrAlreadySubmitted && err != ErrSubmitInFlight && err != ErrNoActiveAttempt {
			// Transient failure: the attempt stays registered and the next
			// tick retries.
			m.log.Warn().Err(err).
				Str("exam_id", key.examID.String()).
				Msg("Deadline auto-submit failed, will retry")
		}
	}
}

// encodeAnswers converts the selection map to string keys for JSON.
func encodeAnswers(answers map[uuid.UUID]int) map[string]int {
	out := make(map[string]int, len(answers))
	for qid, opt := range answers {
		out[qid.String()] = opt
	}
	return out
}
