// Package attempt implements the server-side exam-taking engine: per-student
// live attempts with a server-anchored deadline, in-memory answer tracking,
// and an at-most-once submission latch shared by the deadline reaper, the
// explicit submit endpoint, and the WebSocket submit action.
package attempt

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/syllabuser/baire-backend/internal/model"
)

// Errors surfaced by the attempt engine.
var (
	ErrExamUnavailable  = errors.New("exam unavailable or has no questions")
	ErrNotEnrolled      = errors.New("student is not enrolled in the exam's course")
	ErrNoActiveAttempt  = errors.New("no active attempt")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrSubmitInFlight   = errors.New("submission already in progress")
	ErrInvalidOption    = errors.New("option index out of range")
	ErrUnknownQuestion  = errors.New("question does not belong to this attempt")
)

// Attempt is one student's live session for one exam. The question set is
// snapshotted at start, so a concurrent re-read of the exam can never
// reorder or drop questions mid-attempt. All state is guarded by mu.
type Attempt struct {
	mu sync.Mutex

	StudentID   uuid.UUID
	StudentName string
	Exam        model.Exam

	questions   []model.Question
	questionSet map[uuid.UUID]struct{}

	answers  map[uuid.UUID]int
	cursor   int
	deadline time.Time
	started  time.Time

	// Submission latch: submitting is set before any async work begins and
	// released on persistence failure; submitted is terminal.
	submitting bool
	submitted  bool
}

func newAttempt(studentID uuid.UUID, studentName string, exam model.Exam, questions []model.Question, now time.Time) *Attempt {
	set := make(map[uuid.UUID]struct{}, len(questions))
	for _, q := range questions {
		set[q.ID] = struct{}{}
	}
	return &Attempt{
		StudentID:   studentID,
		StudentName: studentName,
		Exam:        exam,
		questions:   questions,
		questionSet: set,
		answers:     make(map[uuid.UUID]int),
		started:     now,
		deadline:    now.Add(InitialRemaining(exam.DurationMinutes, exam.EndTime, now)),
	}
}

// SelectAnswer records (or overwrites) the selection for a question.
func (a *Attempt) SelectAnswer(questionID uuid.UUID, option int) error {
	if option < 1 || option > model.OptionCount {
		return ErrInvalidOption
	}
	if _, ok := a.questionSet[questionID]; !ok {
		return ErrUnknownQuestion
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return ErrAlreadySubmitted
	}
	a.answers[questionID] = option
	return nil
}

// Selection returns the recorded option for a question, if any.
func (a *Attempt) Selection(questionID uuid.UUID) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	opt, ok := a.answers[questionID]
	return opt, ok
}

// Answers returns a copy of the selection map.
func (a *Attempt) Answers() map[uuid.UUID]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[uuid.UUID]int, len(a.answers))
	for k, v := range a.answers {
		out[k] = v
	}
	return out
}

// RestoreAnswers merges a previously checkpointed selection map, skipping
// entries that do not belong to the attempt. Used when a student reconnects
// to a live attempt.
func (a *Attempt) RestoreAnswers(selections map[uuid.UUID]int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for qid, opt := range selections {
		if _, ok := a.questionSet[qid]; !ok {
			continue
		}
		if opt < 1 || opt > model.OptionCount {
			continue
		}
		if _, taken := a.answers[qid]; !taken {
			a.answers[qid] = opt
		}
	}
}

// Advance moves the navigation cursor by delta, clamped to the question
// list. It never touches recorded selections.
func (a *Attempt) Advance(delta int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if max := len(a.questions) - 1; a.cursor > max {
		a.cursor = max
	}
	return a.cursor
}

// Cursor returns the current navigation position.
func (a *Attempt) Cursor() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor
}

// Questions returns the stable, ordered question snapshot.
func (a *Attempt) Questions() []model.Question {
	return a.questions
}

// Deadline returns the attempt's absolute submission deadline.
func (a *Attempt) Deadline() time.Time {
	return a.deadline
}

// StartedAt returns when the attempt began.
func (a *Attempt) StartedAt() time.Time {
	return a.started
}

// RemainingAt derives the remaining time from the single shared deadline.
func (a *Attempt) RemainingAt(now time.Time) time.Duration {
	remaining := a.deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Submitted reports whether the attempt has been persisted.
func (a *Attempt) Submitted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitted
}

// beginSubmit acquires the submission latch. It must succeed before any
// scoring or persistence work starts.
func (a *Attempt) beginSubmit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return ErrAlreadySubmitted
	}
	if a.submitting {
		return ErrSubmitInFlight
	}
	a.submitting = true
	return nil
}

// failSubmit releases the latch after a persistence failure so the attempt
// can be retried with its answers intact.
func (a *Attempt) failSubmit() {
	a.mu.Lock()
	a.submitting = false
	a.mu.Unlock()
}

// finishSubmit marks the attempt terminally submitted.
func (a *Attempt) finishSubmit() {
	a.mu.Lock()
	a.submitting = false
	a.submitted = true
	a.mu.Unlock()
}
