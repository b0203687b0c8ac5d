package events

import "time"

const (
	// PrinterTicketsTopic carries kitchen and receipt ticket payloads to the
	// print relay. Delivery is best effort.
	PrinterTicketsTopic = "printer.tickets"
	// TableStatusTopic delivers table status changes for observers.
	TableStatusTopic = "tables.status"

	// EventTableStatusChanged identifies a table status change payload.
	EventTableStatusChanged = "table.status.changed"
)

// TableStatusEvent captures the minimal information another device needs to
// reason about a mesa's availability. Polling remains the source of truth;
// these events are informational.
type TableStatusEvent struct {
	EventType  string    `json:"event_type"`
	TableID    string    `json:"table_id"`
	Number     int       `json:"number"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
