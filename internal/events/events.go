package events

import (
	"context"
	"time"
)

// Event is the envelope for every message published to the notification bus
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Source    string         `json:"source"`
	Version   string         `json:"version"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Event types published by this service
const (
	EventLeaveRequested     = "leave.requested"
	EventLeaveStatusChanged = "leave.status_changed"
	EventAnnouncementPosted = "announcement.posted"
)

// EventPublisher publishes events to the notification bus
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
