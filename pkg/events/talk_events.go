package events

import "time"

const (
	EventSessionStarted = "SESSION_STARTED"
	EventTurnCompleted  = "TURN_COMPLETED"
)

// NewSessionStarted is emitted once per created session, never on same-day
// reuse.
func NewSessionStarted(userId, sessionId, sessionType, language string) Event {
	return BaseEvent{
		Type: EventSessionStarted,
		Data: map[string]interface{}{
			"user_id":    userId,
			"session_id": sessionId,
			"type":       sessionType,
			"language":   language,
		},
		OccurredAt: time.Now(),
	}
}

// NewTurnCompleted fires after both messages of a turn are persisted.
// Downstream progress counters key off this event.
func NewTurnCompleted(userId, sessionId string, seq int64) Event {
	return BaseEvent{
		Type: EventTurnCompleted,
		Data: map[string]interface{}{
			"user_id":    userId,
			"session_id": sessionId,
			"seq":        seq,
		},
		OccurredAt: time.Now(),
	}
}
