// Package watch broadcasts collection-change notifications over Redis
// Pub/Sub. Clients subscribed to a collection's channel are told that
// something changed and are expected to reload, not to patch state from
// the event itself.
package watch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/syllabuser/baire-backend/internal/config"
)

// Collections clients can watch.
const (
	CollectionExams       = "exams"
	CollectionResults     = "results"
	CollectionCourses     = "courses"
	CollectionRoutines    = "routines"
	CollectionEnrollments = "enrollments"
)

// Actions carried in a change event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is a single collection-change notification.
type Event struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	DocumentID string    `json:"document_id,omitempty"`
	At         time.Time `json:"at"`
}

// Notifier publishes change events. Publishing is best-effort: a failed
// publish is logged and dropped, never surfaced to the request that caused
// the change.
type Notifier struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewNotifier creates a new Notifier.
func NewNotifier(rdb *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{
		rdb: rdb,
		log: log.With().Str("component", "watch").Logger(),
	}
}

// Notify publishes a change event for one document in a collection.
func (n *Notifier) Notify(ctx context.Context, collection, action string, documentID uuid.UUID) {
	event := Event{
		Collection: collection,
		Action:     action,
		DocumentID: documentID.String(),
		At:         time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.log.Error().Err(err).Str("collection", collection).Msg("Failed to marshal watch event")
		return
	}

	channel := config.CacheKey.WatchChannel(collection)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		n.log.Warn().Err(err).Str("channel", channel).Msg("Failed to publish watch event")
	}
}

// Subscribe attaches to a collection's change channel. The caller owns the
// returned PubSub and must Close it.
func (n *Notifier) Subscribe(ctx context.Context, collection string) *redis.PubSub {
	return n.rdb.Subscribe(ctx, config.CacheKey.WatchChannel(collection))
}
