package model

import "github.com/google/uuid"

// OptionCount is the fixed number of options per question.
const OptionCount = 4

// Question represents a single MCQ question. CorrectOption is 1-based and
// always within {1..4}. Questions are created in bulk when an exam is
// authored and deleted in bulk when the exam is deleted.
type Question struct {
	ID            uuid.UUID         `json:"id"`
	ExamID        uuid.UUID         `json:"exam_id"`
	Text          string            `json:"text"`
	Options       [OptionCount]string `json:"options"`
	CorrectOption int               `json:"correct_option"`
	Explanation   string            `json:"explanation,omitempty"`
	OrderNum      int               `json:"order_num"`
}

// QuestionForStudent is a question stripped of the correct answer and
// explanation, as served inside the exam payload.
type QuestionForStudent struct {
	ID       uuid.UUID           `json:"id"`
	Text     string              `json:"text"`
	Options  [OptionCount]string `json:"options"`
	OrderNum int                 `json:"order_num"`
}

// ForStudent strips grading fields from a question.
func (q Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:       q.ID,
		Text:     q.Text,
		Options:  q.Options,
		OrderNum: q.OrderNum,
	}
}

// QuestionUpload is one entry of the admin question-upload format. Answer is
// free text ("Option A", a bare letter, or the exact option string) and is
// mapped to a 1-based index at authoring time; an unmappable answer rejects
// the whole batch.
type QuestionUpload struct {
	Question    string   `json:"question" binding:"required,min=1,max=2000"`
	Options     []string `json:"options" binding:"required,len=4,dive,required,max=1000"`
	Answer      string   `json:"answer" binding:"required,max=1000"`
	Explanation string   `json:"explanation" binding:"omitempty,max=2000"`
}
