package attempt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/syllabuser/baire-backend/internal/model"
)

// ExamStore fetches exam descriptors.
type ExamStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error)
}

// QuestionStore fetches the ordered question set of an exam.
type QuestionStore interface {
	ListByExam(ctx context.Context, examID uuid.UUID) ([]model.Question, error)
}

// EnrollmentStore fetches a student's enrollment set.
type EnrollmentStore interface {
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error)
}

// Loader assembles everything a new attempt needs: the exam descriptor, the
// ordered question set, and the requesting student's enrollments. The three
// fetches run concurrently and may resolve in any order; the eligibility
// check runs strictly after all of them have completed, so an in-flight
// enrollment fetch can never be misread as "not enrolled".
type Loader struct {
	exams       ExamStore
	questions   QuestionStore
	enrollments EnrollmentStore
}

// NewLoader creates a Loader.
func NewLoader(exams ExamStore, questions QuestionStore, enrollments EnrollmentStore) *Loader {
	return &Loader{exams: exams, questions: questions, enrollments: enrollments}
}

// Load returns the exam and its questions for an eligible student.
// Errors: ErrExamUnavailable (exam missing or zero questions, terminal),
// ErrNotEnrolled (enrollment resolved and the exam's course absent,
// terminal), or a wrapped transient error when any fetch itself failed —
// in which case no enrollment judgment is made.
func (l *Loader) Load(ctx context.Context, examID, studentID uuid.UUID) (*model.Exam, []model.Question, error) {
	var (
		exam      *model.Exam
		questions []model.Question
		enrolled  []model.Enrollment
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		e, err := l.exams.GetByID(gctx, examID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrExamUnavailable
			}
			return fmt.Errorf("get exam: %w", err)
		}
		exam = e
		return nil
	})

	g.Go(func() error {
		qs, err := l.questions.ListByExam(gctx, examID)
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}
		questions = qs
		return nil
	})

	g.Go(func() error {
		es, err := l.enrollments.ListByStudent(gctx, studentID)
		if err != nil {
			return fmt.Errorf("list enrollments: %w", err)
		}
		enrolled = es
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if len(questions) == 0 {
		// An exam with no questions cannot be taken.
		return nil, nil, ErrExamUnavailable
	}

	// Enrollment data has definitively loaded; the gate may now fail closed.
	if !eligible(exam, enrolled) {
		return nil, nil, ErrNotEnrolled
	}

	return exam, questions, nil
}

// eligible checks the exam's owning course against the enrollment set by ID
// or by denormalized name (older exam documents reference courses by name).
func eligible(exam *model.Exam, enrollments []model.Enrollment) bool {
	for _, e := range enrollments {
		if e.CourseID == exam.CourseID {
			return true
		}
		if exam.CourseName != "" && e.CourseName == exam.CourseName {
			return true
		}
	}
	return false
}
