// Package scoring grades a completed answer set against an exam's question
// set. Score is a pure function: it never mutates its inputs and has no
// side effects, so the submission guard can call it safely once the latch
// is held.
package scoring

import (
	"github.com/google/uuid"

	"github.com/syllabuser/baire-backend/internal/model"
)

// Tally is the scored outcome of one attempt.
type Tally struct {
	Correct    int     `json:"correct"`
	Wrong      int     `json:"wrong"`
	Unanswered int     `json:"unanswered"`
	NetMark    float64 `json:"net_mark"`
}

// Score walks the question set once. A question with no entry in selections
// is unanswered: no credit, no penalty. A selection equal to the question's
// correct option counts as correct, anything else as wrong.
//
//	NetMark = correct - wrong*negativeMark
func Score(questions []model.Question, selections map[uuid.UUID]int, negativeMark float64) Tally {
	var t Tally
	for _, q := range questions {
		selected, ok := selections[q.ID]
		if !ok {
			t.Unanswered++
			continue
		}
		if selected == q.CorrectOption {
			t.Correct++
		} else {
			t.Wrong++
		}
	}
	t.NetMark = float64(t.Correct) - float64(t.Wrong)*negativeMark
	return t
}
