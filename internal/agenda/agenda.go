package agenda

import (
	"context"
	"time"

	"ouvidoria-agenda-backend/internal/remote"
)

// RemoteService is the slice of the webhook client the coordinator needs.
type RemoteService interface {
	ListSlots(ctx context.Context) ([]remote.Slot, error)
	ListEvents(ctx context.Context, windowStart, windowEnd time.Time) ([]remote.Event, error)
	CreateEvent(ctx context.Context, req remote.CreateEventRequest) (remote.Event, error)
	UpdateSlot(ctx context.Context, slot remote.Slot) error
	CreateSlot(ctx context.Context, date, timeOfDay, attendant string) error
	DeleteSlot(ctx context.Context, id remote.ID) error
	DeleteEvent(ctx context.Context, id remote.ID) error
}

// Notifier fans a short human-readable notice out to subscribed staff.
type Notifier interface {
	Dispatch(message string)
}

// ValidationError is a local precondition failure, raised before any remote
// call and therefore with no remote side effect.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ClientInfo is the booking form data for one appointment.
type ClientInfo struct {
	Name    string `json:"nome"`
	Email   string `json:"email"`
	Phone   string `json:"telefone"`
	Subject string `json:"assunto"`
}

// Reschedule is the pending-reschedule context extracted from an existing
// event. While active, the next booking retires the old event/slot pair.
type Reschedule struct {
	Active  bool      `json:"active"`
	EventID remote.ID `json:"event_id,omitempty"`
	Name    string    `json:"nome,omitempty"`
	Email   string    `json:"email,omitempty"`
	Phone   string    `json:"telefone,omitempty"`
	Subject string    `json:"assunto,omitempty"`
}

// BatchRequest describes a mass slot generation run.
type BatchRequest struct {
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Weekdays   []int    `json:"weekdays"`
	Times      []string `json:"times"`
	Attendants []string `json:"atendentes"`
}

// BatchResult reports how much of a batch actually landed. Partial failure
// is normal: the webhook offers no multi-op transaction, so whatever subset
// succeeded stays.
type BatchResult struct {
	Created int `json:"created"`
	Total   int `json:"total"`
}

// ProgressFunc receives incremental batch progress (done out of total).
type ProgressFunc func(done, total int)
