// Package integrity implements the exam-session integrity guard. It defines
// the suppression policy clients must enforce during a live attempt (context
// menu plus the copy/paste/view-source/save/print shortcuts) and records
// reported violations for later review.
//
// This is best-effort deterrence, not a security boundary: everything here
// is trivially bypassable at the platform level, and no grading decision may
// ever depend on it.
package integrity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/syllabuser/baire-backend/internal/config"
)

// ErrUnknownKind is returned when a reported event kind is not in the
// closed set.
var ErrUnknownKind = errors.New("unknown integrity event kind")

// EventKind identifies a reported violation.
type EventKind string

const (
	EventContextMenu EventKind = "context_menu"
	EventCopy        EventKind = "copy"
	EventPaste       EventKind = "paste"
	EventViewSource  EventKind = "view_source"
	EventSave        EventKind = "save"
	EventPrint       EventKind = "print"
)

// knownKinds is the closed set of reportable events.
var knownKinds = map[EventKind]struct{}{
	EventContextMenu: {},
	EventCopy:        {},
	EventPaste:       {},
	EventViewSource:  {},
	EventSave:        {},
	EventPrint:       {},
}

// Valid reports whether k is a reportable event kind.
func (k EventKind) Valid() bool {
	_, ok := knownKinds[k]
	return ok
}

// Policy is served to clients inside the attempt payload and tells them
// what to suppress while the attempt is live.
type Policy struct {
	BlockContextMenu bool `json:"block_context_menu"`
	// BlockedKeys are keys to suppress when pressed with ctrl or meta.
	BlockedKeys []string `json:"blocked_keys"`
}

// DefaultPolicy mirrors the conventional list: copy, paste, view-source,
// save, print.
func DefaultPolicy() Policy {
	return Policy{
		BlockContextMenu: true,
		BlockedKeys:      []string{"c", "v", "u", "s", "p"},
	}
}

// Event is one reported violation.
type Event struct {
	StudentID  uuid.UUID `json:"student_id"`
	ExamID     uuid.UUID `json:"exam_id"`
	Kind       EventKind `json:"kind"`
	ReportedAt int64     `json:"reported_at"`
}

// Recorder queues violation events to Redis; a batching worker persists
// them. Recording is fire-and-forget from the attempt's point of view.
type Recorder struct {
	rdb *redis.Client
}

// NewRecorder creates a Recorder.
func NewRecorder(rdb *redis.Client) *Recorder {
	return &Recorder{rdb: rdb}
}

// Record validates and enqueues one event.
func (r *Recorder) Record(ctx context.Context, studentID, examID uuid.UUID, kind EventKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	payload, err := json.Marshal(Event{
		StudentID:  studentID,
		ExamID:     examID,
		Kind:       kind,
		ReportedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal integrity event: %w", err)
	}
	if err := r.rdb.RPush(ctx, config.WorkerKey.PersistIntegrityQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue integrity event: %w", err)
	}
	return nil
}
