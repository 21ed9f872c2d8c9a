package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAnswer(t *testing.T) {
	options := []string{"Dhaka", "Chittagong", "Khulna", "Sylhet"}

	t.Run("option letter forms", func(t *testing.T) {
		cases := map[string]int{
			"Option A": 1,
			"Option B": 2,
			"option c": 3,
			"OPTION D": 4,
			"A":        1,
			"d":        4,
			" B ":      2,
		}
		for answer, want := range cases {
			got, err := MapAnswer(answer, options)
			require.NoError(t, err, "answer %q", answer)
			assert.Equal(t, want, got, "answer %q", answer)
		}
	})

	t.Run("bare digits", func(t *testing.T) {
		got, err := MapAnswer("3", options)
		require.NoError(t, err)
		assert.Equal(t, 3, got)
	})

	t.Run("exact option text", func(t *testing.T) {
		got, err := MapAnswer("Khulna", options)
		require.NoError(t, err)
		assert.Equal(t, 3, got)

		got, err = MapAnswer("  Sylhet  ", options)
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})

	t.Run("unmappable answers are rejected", func(t *testing.T) {
		for _, answer := range []string{"", "   ", "Option E", "5", "Rajshahi", "AB"} {
			_, err := MapAnswer(answer, options)
			assert.Error(t, err, "answer %q", answer)
		}
	})

	t.Run("option text match is case sensitive", func(t *testing.T) {
		// "dhaka" is neither a letter form nor an exact text match.
		_, err := MapAnswer("dhaka", options)
		assert.Error(t, err)
	})
}

func TestAnswerMappingError(t *testing.T) {
	err := &AnswerMappingError{QuestionIndex: 4, Answer: "Option F"}
	assert.Contains(t, err.Error(), "question 5")
	assert.Contains(t, err.Error(), "Option F")
}
