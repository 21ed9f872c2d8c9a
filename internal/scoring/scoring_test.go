package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllabuser/baire-backend/internal/model"
)

func makeQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			ID:            uuid.New(),
			Text:          "q",
			Options:       [4]string{"a", "b", "c", "d"},
			CorrectOption: (i % 4) + 1,
			OrderNum:      i + 1,
		}
	}
	return qs
}

func TestScoreNegativeMarkArithmetic(t *testing.T) {
	qs := makeQuestions(10)

	selections := make(map[uuid.UUID]int)
	// 6 correct
	for i := 0; i < 6; i++ {
		selections[qs[i].ID] = qs[i].CorrectOption
	}
	// 3 wrong
	for i := 6; i < 9; i++ {
		wrong := qs[i].CorrectOption%4 + 1
		selections[qs[i].ID] = wrong
	}
	// 1 unanswered

	tally := Score(qs, selections, 0.25)

	assert.Equal(t, 6, tally.Correct)
	assert.Equal(t, 3, tally.Wrong)
	assert.Equal(t, 1, tally.Unanswered)
	assert.InDelta(t, 5.25, tally.NetMark, 1e-9)
}

func TestScoreAllCorrect(t *testing.T) {
	qs := makeQuestions(7)
	selections := make(map[uuid.UUID]int, len(qs))
	for _, q := range qs {
		selections[q.ID] = q.CorrectOption
	}

	tally := Score(qs, selections, 0.5)

	assert.Equal(t, 7, tally.Correct)
	assert.Zero(t, tally.Wrong)
	assert.Zero(t, tally.Unanswered)
	assert.InDelta(t, 7.0, tally.NetMark, 1e-9)
}

func TestScoreAllUnanswered(t *testing.T) {
	qs := makeQuestions(5)

	tally := Score(qs, nil, 0.25)

	assert.Zero(t, tally.Correct)
	assert.Zero(t, tally.Wrong)
	assert.Equal(t, 5, tally.Unanswered)
	assert.Zero(t, tally.NetMark)
}

func TestScoreNetMarkMayGoNegative(t *testing.T) {
	qs := makeQuestions(4)
	selections := make(map[uuid.UUID]int, len(qs))
	for _, q := range qs {
		selections[q.ID] = q.CorrectOption%4 + 1 // always wrong
	}

	tally := Score(qs, selections, 0.5)

	assert.Equal(t, 4, tally.Wrong)
	assert.InDelta(t, -2.0, tally.NetMark, 1e-9)
}

func TestScoreCountsPartitionQuestionSet(t *testing.T) {
	qs := makeQuestions(12)
	selections := map[uuid.UUID]int{
		qs[0].ID: qs[0].CorrectOption,
		qs[1].ID: qs[1].CorrectOption%4 + 1,
		qs[5].ID: qs[5].CorrectOption,
	}

	tally := Score(qs, selections, 0.25)

	assert.Equal(t, len(qs), tally.Correct+tally.Wrong+tally.Unanswered)
}

func TestScoreIsDeterministicAndPure(t *testing.T) {
	qs := makeQuestions(6)
	selections := map[uuid.UUID]int{
		qs[0].ID: qs[0].CorrectOption,
		qs[1].ID: 2,
		qs[2].ID: 3,
	}

	first := Score(qs, selections, 0.25)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Score(qs, selections, 0.25))
	}
	// Inputs untouched.
	assert.Len(t, selections, 3)
	assert.Equal(t, qs[0].CorrectOption, selections[qs[0].ID])
}

func TestScoreSelectionForForeignQuestionIgnored(t *testing.T) {
	qs := makeQuestions(3)
	selections := map[uuid.UUID]int{
		uuid.New(): 1, // not part of the exam
	}

	tally := Score(qs, selections, 0.25)

	assert.Zero(t, tally.Correct)
	assert.Zero(t, tally.Wrong)
	assert.Equal(t, 3, tally.Unanswered)
}
