package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/syllabuser/baire-backend/internal/response"
	"github.com/syllabuser/baire-backend/internal/watch"
)

const keepAliveInterval = 25 * time.Second

// watchableCollections limits what clients may subscribe to.
var watchableCollections = map[string]struct{}{
	watch.CollectionExams:       {},
	watch.CollectionResults:     {},
	watch.CollectionCourses:     {},
	watch.CollectionRoutines:    {},
	watch.CollectionEnrollments: {},
}

// WatchHandler streams collection-change notifications over SSE. Events are
// invalidation signals only; clients reload the affected data themselves.
type WatchHandler struct {
	notifier *watch.Notifier
	log      zerolog.Logger
}

// NewWatchHandler creates a new WatchHandler.
func NewWatchHandler(notifier *watch.Notifier, log zerolog.Logger) *WatchHandler {
	return &WatchHandler{
		notifier: notifier,
		log:      log.With().Str("component", "watch_handler").Logger(),
	}
}

// Stream godoc
// GET /api/v1/watch/:collection
// Attaches an SSE stream of change events for one collection.
func (h *WatchHandler) Stream(c *gin.Context) {
	collection := c.Param("collection")
	if _, ok := watchableCollections[collection]; !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	pubsub := h.notifier.Subscribe(reqCtx, collection)
	defer pubsub.Close()

	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	h.log.Info().Str("collection", collection).Msg("Client attached to watch SSE")

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	for {
		select {
		case <-reqCtx.Done():
			h.log.Debug().Str("collection", collection).Msg("Client disconnected from watch SSE")
			return

		case msg := <-ch:
			c.Writer.Write([]byte("data: "))
			c.Writer.Write([]byte(msg.Payload))
			c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()

		case <-keepAliveTicker.C:
			c.Writer.Write([]byte("data: "))
			c.Writer.Write(pingPayload)
			c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}
