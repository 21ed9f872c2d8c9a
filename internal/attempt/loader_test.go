package attempt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllabuser/baire-backend/internal/model"
)

type fakeExamStore struct {
	exam *model.Exam
	err  error
}

func (f *fakeExamStore) GetByID(_ context.Context, _ uuid.UUID) (*model.Exam, error) {
	return f.exam, f.err
}

type fakeQuestionStore struct {
	questions []model.Question
	err       error
}

func (f *fakeQuestionStore) ListByExam(_ context.Context, _ uuid.UUID) ([]model.Question, error) {
	return f.questions, f.err
}

type fakeEnrollmentStore struct {
	enrollments []model.Enrollment
	err         error
}

func (f *fakeEnrollmentStore) ListByStudent(_ context.Context, _ uuid.UUID) ([]model.Enrollment, error) {
	return f.enrollments, f.err
}

func loaderFixture() (*model.Exam, []model.Question) {
	exam := &model.Exam{
		ID:              uuid.New(),
		Title:           "Weekly Model Test",
		CourseID:        uuid.New(),
		CourseName:      "Medical Admission",
		DurationMinutes: 30,
		EndTime:         time.Now().Add(time.Hour),
	}
	return exam, []model.Question{{ID: uuid.New(), ExamID: exam.ID, CorrectOption: 1, OrderNum: 1}}
}

func TestLoadHappyPath(t *testing.T) {
	exam, qs := loaderFixture()
	l := NewLoader(
		&fakeExamStore{exam: exam},
		&fakeQuestionStore{questions: qs},
		&fakeEnrollmentStore{enrollments: []model.Enrollment{{CourseID: exam.CourseID}}},
	)

	gotExam, gotQs, err := l.Load(context.Background(), exam.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, exam.ID, gotExam.ID)
	assert.Len(t, gotQs, 1)
}

func TestLoadExamNotFound(t *testing.T) {
	_, qs := loaderFixture()
	l := NewLoader(
		&fakeExamStore{err: pgx.ErrNoRows},
		&fakeQuestionStore{questions: qs},
		&fakeEnrollmentStore{},
	)

	_, _, err := l.Load(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrExamUnavailable)
}

func TestLoadZeroQuestionsIsUnavailable(t *testing.T) {
	exam, _ := loaderFixture()
	l := NewLoader(
		&fakeExamStore{exam: exam},
		&fakeQuestionStore{questions: nil},
		&fakeEnrollmentStore{enrollments: []model.Enrollment{{CourseID: exam.CourseID}}},
	)

	_, _, err := l.Load(context.Background(), exam.ID, uuid.New())
	assert.ErrorIs(t, err, ErrExamUnavailable)
}

func TestLoadDeniesOnceEnrollmentResolved(t *testing.T) {
	exam, qs := loaderFixture()
	l := NewLoader(
		&fakeExamStore{exam: exam},
		&fakeQuestionStore{questions: qs},
		&fakeEnrollmentStore{enrollments: []model.Enrollment{{CourseID: uuid.New(), CourseName: "Other Course"}}},
	)

	_, _, err := l.Load(context.Background(), exam.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestLoadUnresolvedEnrollmentIsNotADenial(t *testing.T) {
	exam, qs := loaderFixture()
	l := NewLoader(
		&fakeExamStore{exam: exam},
		&fakeQuestionStore{questions: qs},
		&fakeEnrollmentStore{err: errors.New("connection reset")},
	)

	_, _, err := l.Load(context.Background(), exam.ID, uuid.New())
	require.Error(t, err)
	// Indeterminate enrollment must surface as a transient failure, never as
	// an enrollment denial.
	assert.NotErrorIs(t, err, ErrNotEnrolled)
}

func TestLoadMatchesByDenormalizedCourseName(t *testing.T) {
	exam, qs := loaderFixture()
	l := NewLoader(
		&fakeExamStore{exam: exam},
		&fakeQuestionStore{questions: qs},
		&fakeEnrollmentStore{enrollments: []model.Enrollment{
			{CourseID: uuid.New(), CourseName: exam.CourseName},
		}},
	)

	_, _, err := l.Load(context.Background(), exam.ID, uuid.New())
	assert.NoError(t, err)
}
