package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventUserRegistered    EventType = "user.registered"
	EventCoursePublished   EventType = "course.published"
	EventEnrollmentCreated EventType = "enrollment.created"
	EventEnrollmentRemoved EventType = "enrollment.removed"
	EventReviewCreated     EventType = "review.created"
)

// DomainEvent is the envelope published to the notifications topic.
type DomainEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func NewDomainEvent(eventType EventType, data map[string]interface{}) *DomainEvent {
	return &DomainEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "marketplace-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
