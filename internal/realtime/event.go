// Package realtime consumes the record store's change feed and invalidates
// cached relationship status when an edge changes elsewhere.
package realtime

// Change event types emitted by the store
const (
	EventInsert = "INSERT"
	EventDelete = "DELETE"
)

// ChangeEvent is one row-level change notification from the store.
// Record carries the new row on INSERT; OldRecord carries the removed row on
// DELETE.
type ChangeEvent struct {
	Record    map[string]interface{} `json:"record,omitempty"`
	OldRecord map[string]interface{} `json:"old_record,omitempty"`
	ID        string                 `json:"id"`
	Table     string                 `json:"table"`
	Type      string                 `json:"type"`
}

// row returns the record that identifies the changed edge
func (e *ChangeEvent) row() map[string]interface{} {
	if e.Type == EventDelete {
		return e.OldRecord
	}
	return e.Record
}
