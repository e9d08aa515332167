package handlers

import (
	"strings"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/events"
)

const subscriberBuffer = 32

// WSHandler registers websocket connections as event subscribers.
type WSHandler struct {
	hub    *events.Hub
	logger *zap.Logger
}

// NewWSHandler constructs handler.
func NewWSHandler(hub *events.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Serve handles GET /ws?topics=projects/1/tasks,tasks. The connection is
// subscribed to each requested topic for its lifetime and receives
// change events as JSON frames. Missed events are not replayed.
func (h *WSHandler) Serve(conn *websocket.Conn) {
	topics := parseTopics(conn.Query("topics"))
	sub := events.NewChannelSubscriber(uuid.NewString(), subscriberBuffer)

	for _, topic := range topics {
		h.hub.Subscribe(topic, sub)
	}
	defer func() {
		for _, topic := range topics {
			h.hub.Unsubscribe(topic, sub)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// drain until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-sub.Events():
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("websocket write failed",
					zap.String("subscriber", sub.ID()),
					zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}

func parseTopics(raw string) []string {
	if raw == "" {
		return []string{events.TopicTasks}
	}
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			topics = append(topics, p)
		}
	}
	if len(topics) == 0 {
		return []string{events.TopicTasks}
	}
	return topics
}
