package attempt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllabuser/baire-backend/internal/model"
)

func testExam(duration int, end time.Time) model.Exam {
	return model.Exam{
		ID:              uuid.New(),
		Title:           "Model Test 1",
		CourseID:        uuid.New(),
		CourseName:      "HSC Physics",
		DurationMinutes: duration,
		EndTime:         end,
		NegativeMark:    0.25,
	}
}

func testQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:            uuid.New(),
			Text:          "q",
			Options:       [4]string{"w", "x", "y", "z"},
			CorrectOption: 1,
			OrderNum:      i + 1,
		}
	}
	return qs
}

func TestSelectAnswerOverwrites(t *testing.T) {
	now := time.Now()
	qs := testQuestions(3)
	a := newAttempt(uuid.New(), "Student", testExam(30, now.Add(time.Hour)), qs, now)

	require.NoError(t, a.SelectAnswer(qs[0].ID, 2))
	require.NoError(t, a.SelectAnswer(qs[0].ID, 4))

	got, ok := a.Selection(qs[0].ID)
	require.True(t, ok)
	assert.Equal(t, 4, got)
	assert.Len(t, a.Answers(), 1)
}

func TestNavigationNeverClearsSelections(t *testing.T) {
	now := time.Now()
	qs := testQuestions(5)
	a := newAttempt(uuid.New(), "Student", testExam(30, now.Add(time.Hour)), qs, now)

	require.NoError(t, a.SelectAnswer(qs[0].ID, 3))
	require.NoError(t, a.SelectAnswer(qs[2].ID, 1))

	a.Advance(1)
	a.Advance(1)
	a.Advance(-1)
	assert.Equal(t, 1, a.Cursor())

	got, ok := a.Selection(qs[0].ID)
	require.True(t, ok)
	assert.Equal(t, 3, got)
	got, ok = a.Selection(qs[2].ID)
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestAdvanceClampsToQuestionList(t *testing.T) {
	now := time.Now()
	qs := testQuestions(3)
	a := newAttempt(uuid.New(), "Student", testExam(30, now.Add(time.Hour)), qs, now)

	assert.Equal(t, 0, a.Advance(-5))
	assert.Equal(t, 2, a.Advance(10))
}

func TestSelectAnswerValidation(t *testing.T) {
	now := time.Now()
	qs := testQuestions(2)
	a := newAttempt(uuid.New(), "Student", testExam(30, now.Add(time.Hour)), qs, now)

	assert.ErrorIs(t, a.SelectAnswer(qs[0].ID, 0), ErrInvalidOption)
	assert.ErrorIs(t, a.SelectAnswer(qs[0].ID, 5), ErrInvalidOption)
	assert.ErrorIs(t, a.SelectAnswer(uuid.New(), 1), ErrUnknownQuestion)
}

func TestDeadlineAnchoredToExamWindow(t *testing.T) {
	now := time.Now()
	// Nominal 60 minutes but window closes in 10.
	a := newAttempt(uuid.New(), "Student", testExam(60, now.Add(10*time.Minute)), testQuestions(1), now)

	assert.Equal(t, 10*time.Minute, a.RemainingAt(now))
	assert.Zero(t, a.RemainingAt(now.Add(11*time.Minute)))
}

func TestRestoreAnswersSkipsForeignAndTakenEntries(t *testing.T) {
	now := time.Now()
	qs := testQuestions(3)
	a := newAttempt(uuid.New(), "Student", testExam(30, now.Add(time.Hour)), qs, now)
	require.NoError(t, a.SelectAnswer(qs[0].ID, 2))

	a.RestoreAnswers(map[uuid.UUID]int{
		qs[0].ID:   4, // already selected live; checkpoint must not clobber
		qs[1].ID:   3,
		uuid.New(): 1, // foreign question
		qs[2].ID:   9, // out of range
	})

	got, _ := a.Selection(qs[0].ID)
	assert.Equal(t, 2, got)
	got, ok := a.Selection(qs[1].ID)
	require.True(t, ok)
	assert.Equal(t, 3, got)
	_, ok = a.Selection(qs[2].ID)
	assert.False(t, ok)
	assert.Len(t, a.Answers(), 2)
}

func TestSelectAnswerRejectedAfterSubmission(t *testing.T) {
	now := time.Now()
	qs := testQuestions(1)
	a := newAttempt(uuid.New(), "Student", testExam(30, now.Add(time.Hour)), qs, now)

	require.NoError(t, a.beginSubmit())
	a.finishSubmit()

	assert.ErrorIs(t, a.SelectAnswer(qs[0].ID, 1), ErrAlreadySubmitted)
}
