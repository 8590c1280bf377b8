package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventChecklistGenerated = "checklist_generated"
	EventExportCompleted    = "export_completed"
	EventExportFailed       = "export_failed"
)

// ChecklistEventPayload describes one checklist generation for consumers.
type ChecklistEventPayload struct {
	BookingID      string        `json:"booking_id"`
	BookingName    string        `json:"booking_name"`
	OrganizationID string        `json:"organization_id"`
	RequestedBy    string        `json:"requested_by"`
	AssetCount     int           `json:"asset_count"`
	PDFBytes       int           `json:"pdf_bytes"`
	Duration       time.Duration `json:"duration_ns"`
}

// ExportEventPayload describes a finished or failed export task.
type ExportEventPayload struct {
	TaskType string `json:"task_type"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: data})
	return nil
}
