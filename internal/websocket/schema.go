package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer    Action = "answer"
	ActionNavigate  Action = "navigate"
	ActionSubmit    Action = "submit"
	ActionIntegrity Action = "integrity"
	ActionPing      Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest is sent by the client to record a single selection.
type AnswerRequest struct {
	Action     Action `json:"action"`
	QuestionID string `json:"question_id"`
	Option     int    `json:"option"`
}

// NavigateRequest moves the attempt cursor by a relative delta.
type NavigateRequest struct {
	Action Action `json:"action"`
	Delta  int    `json:"delta"`
}

// IntegrityRequest is sent by the client to report a blocked interaction.
type IntegrityRequest struct {
	Action Action `json:"action"`
	Kind   string `json:"kind"`
}

// SubmitRequest is sent by the client to finish and grade the attempt.
type SubmitRequest struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError  Event = "error"
	EventSaved  Event = "saved"
	EventCursor Event = "cursor"
	EventGraded Event = "graded"
	EventPong   Event = "pong"
)

type SavedResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

type CursorResponse struct {
	Event  Event `json:"event"`
	Cursor int   `json:"cursor"`
}

type GradedResponse struct {
	Event   Event   `json:"event"`
	Status  string  `json:"status"`
	NetMark float64 `json:"net_mark"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
