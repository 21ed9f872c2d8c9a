package attempt

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllabuser/baire-backend/internal/model"
)

type fakeResultStore struct {
	mu      sync.Mutex
	results []*model.Result
	failN   int32 // fail the first N creates
}

func (f *fakeResultStore) Create(_ context.Context, r *model.Result) error {
	if atomic.AddInt32(&f.failN, -1) >= 0 {
		return errors.New("backend write failed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return nil
}

func (f *fakeResultStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

type managerFixture struct {
	manager  *Manager
	results  *fakeResultStore
	exam     *model.Exam
	question []model.Question
	student  uuid.UUID
	now      time.Time
	clock    *time.Time
}

func newManagerFixture(t *testing.T, durationMinutes int, windowLeft time.Duration) *managerFixture {
	t.Helper()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := now

	exam := &model.Exam{
		ID:              uuid.New(),
		Title:           "Final Model Test",
		CourseID:        uuid.New(),
		CourseName:      "Engineering Admission",
		DurationMinutes: durationMinutes,
		EndTime:         now.Add(windowLeft),
		NegativeMark:    0.25,
	}
	questions := []model.Question{
		{ID: uuid.New(), ExamID: exam.ID, CorrectOption: 2, OrderNum: 1},
		{ID: uuid.New(), ExamID: exam.ID, CorrectOption: 3, OrderNum: 2},
	}

	results := &fakeResultStore{}
	fix := &managerFixture{
		results:  results,
		exam:     exam,
		question: questions,
		student:  uuid.New(),
		now:      now,
		clock:    &clock,
	}

	loader := NewLoader(
		&fakeExamStore{exam: exam},
		&fakeQuestionStore{questions: questions},
		&fakeEnrollmentStore{enrollments: []model.Enrollment{{CourseID: exam.CourseID}}},
	)
	fix.manager = NewManager(loader, results, zerolog.Nop(), WithClock(func() time.Time { return *fix.clock }))
	return fix
}

func TestSubmitHappyPath(t *testing.T) {
	fix := newManagerFixture(t, 30, time.Hour)

	a, immediate, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)
	require.Nil(t, immediate)

	require.NoError(t, a.SelectAnswer(fix.question[0].ID, 2)) // correct
	require.NoError(t, a.SelectAnswer(fix.question[1].ID, 1)) // wrong

	result, err := fix.manager.Submit(context.Background(), fix.student, fix.exam.ID, TriggerFinal)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 1, result.WrongAnswers)
	assert.InDelta(t, 0.75, result.NetMark, 1e-9)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, "Final Model Test", result.ExamTitle)
	assert.Equal(t, "Nadia", result.StudentName)
	assert.Equal(t, 1, fix.results.count())

	// The attempt is gone from the registry afterwards.
	_, err = fix.manager.Get(fix.student, fix.exam.ID)
	assert.ErrorIs(t, err, ErrNoActiveAttempt)
}

func TestSubmitAtMostOnceUnderRace(t *testing.T) {
	fix := newManagerFixture(t, 30, time.Hour)

	_, _, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)

	// Simulate timer expiry racing manual submits and a reaper sweep.
	*fix.clock = fix.now.Add(31 * time.Minute)

	var wg sync.WaitGroup
	var succeeded int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		trigger := TriggerManual
		if i%2 == 0 {
			trigger = TriggerDeadline
		}
		go func(tr Trigger) {
			defer wg.Done()
			if _, err := fix.manager.Submit(context.Background(), fix.student, fix.exam.ID, tr); err == nil {
				atomic.AddInt32(&succeeded, 1)
			}
		}(trigger)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		fix.manager.sweep(context.Background())
	}()
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
	assert.Equal(t, 1, fix.results.count())
}

func TestSubmitRetryAfterPersistenceFailure(t *testing.T) {
	fix := newManagerFixture(t, 30, time.Hour)
	fix.results.failN = 1

	a, _, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)
	require.NoError(t, a.SelectAnswer(fix.question[0].ID, 2))

	_, err = fix.manager.Submit(context.Background(), fix.student, fix.exam.ID, TriggerManual)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadySubmitted)

	// Latch released, answers intact.
	got, ok := a.Selection(fix.question[0].ID)
	require.True(t, ok)
	assert.Equal(t, 2, got)

	result, err := fix.manager.Submit(context.Background(), fix.student, fix.exam.ID, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 1, fix.results.count())
}

func TestStartExpiredWindowSubmitsImmediately(t *testing.T) {
	fix := newManagerFixture(t, 60, -time.Minute)

	a, result, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, a.Submitted())
	assert.Zero(t, result.CorrectAnswers)
	assert.Zero(t, result.WrongAnswers)
	assert.Equal(t, 2, result.Unanswered())
	assert.Zero(t, result.NetMark)
	assert.Equal(t, 1, fix.results.count())
}

func TestStartIsIdempotentForLiveAttempt(t *testing.T) {
	fix := newManagerFixture(t, 30, time.Hour)

	a1, _, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)
	require.NoError(t, a1.SelectAnswer(fix.question[0].ID, 4))

	a2, _, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)

	// Same attempt instance: same deadline, answers preserved, no second timer.
	assert.Same(t, a1, a2)
	got, ok := a2.Selection(fix.question[0].ID)
	require.True(t, ok)
	assert.Equal(t, 4, got)
}

func TestSweepAutoSubmitsExpiredAttempts(t *testing.T) {
	fix := newManagerFixture(t, 30, time.Hour)

	_, _, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)

	fix.manager.sweep(context.Background())
	assert.Zero(t, fix.results.count(), "sweep must not submit before the deadline")

	*fix.clock = fix.now.Add(30*time.Minute + time.Second)
	fix.manager.sweep(context.Background())
	assert.Equal(t, 1, fix.results.count())

	// A later stale tick cannot double-submit.
	fix.manager.sweep(context.Background())
	assert.Equal(t, 1, fix.results.count())
}

func TestDiscardStopsReaperSubmission(t *testing.T) {
	fix := newManagerFixture(t, 30, time.Hour)

	_, _, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)

	fix.manager.Discard(fix.student, fix.exam.ID)

	*fix.clock = fix.now.Add(time.Hour)
	fix.manager.sweep(context.Background())
	assert.Zero(t, fix.results.count())
}

func TestSubmitHookRunsOnSuccessOnly(t *testing.T) {
	fix := newManagerFixture(t, 30, time.Hour)
	fix.results.failN = 1

	var hookCalls int32
	loader := NewLoader(
		&fakeExamStore{exam: fix.exam},
		&fakeQuestionStore{questions: fix.question},
		&fakeEnrollmentStore{enrollments: []model.Enrollment{{CourseID: fix.exam.CourseID}}},
	)
	fix.manager = NewManager(loader, fix.results, zerolog.Nop(),
		WithClock(func() time.Time { return *fix.clock }),
		WithSubmitHook(func(_ *Attempt, _ *model.Result) { atomic.AddInt32(&hookCalls, 1) }),
	)

	_, _, err := fix.manager.Start(context.Background(), fix.student, "Nadia", fix.exam.ID)
	require.NoError(t, err)

	_, err = fix.manager.Submit(context.Background(), fix.student, fix.exam.ID, TriggerManual)
	require.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&hookCalls))

	_, err = fix.manager.Submit(context.Background(), fix.student, fix.exam.ID, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hookCalls))
}
