package remote

import (
	"encoding/json"
	"strings"
)

// ID is an opaque identifier assigned by the remote system. The spreadsheet
// side returns row ids as JSON numbers, the calendar side as strings; both
// normalize to a string.
type ID string

// UnmarshalJSON accepts either a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// SlotStatus is the lifecycle state of a bookable slot. A soft-deleted slot
// is still fetched by list_slots, which is why this is not a boolean.
type SlotStatus string

const (
	SlotFree     SlotStatus = "Livre"
	SlotOccupied SlotStatus = "Ocupado"
	SlotDeleted  SlotStatus = "Excluído"
)

// Slot is one bookable appointment opportunity, carried in the spreadsheet's
// own wire format: the date stays a locale-formatted string end to end.
type Slot struct {
	ID            ID         `json:"id"`
	Date          string     `json:"data"`
	Time          string     `json:"horario"`
	Attendant     string     `json:"atendente"`
	Status        SlotStatus `json:"status"`
	ClientName    string     `json:"nome_cliente"`
	ClientContact string     `json:"contato_cliente"`
	Subject       string     `json:"assunto"`
}

// EventTime is either a precise timestamp or an all-day date.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// ISODate returns the YYYY-MM-DD day of the instant, or "" when unset.
func (t EventTime) ISODate() string {
	if t.DateTime != "" {
		if idx := strings.Index(t.DateTime, "T"); idx > 0 {
			return t.DateTime[:idx]
		}
		return t.DateTime
	}
	return t.Date
}

// Attendee is a calendar event participant.
type Attendee struct {
	Email string `json:"email"`
}

// Event is a confirmed calendar booking owned by the external calendar.
type Event struct {
	ID          ID         `json:"id"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Start       EventTime  `json:"start"`
	End         EventTime  `json:"end"`
	Attendees   []Attendee `json:"attendees"`
}

// Cancelled reports whether the calendar marked the event cancelled; such
// events are dropped from every view.
func (e Event) Cancelled() bool {
	return e.Status == "cancelled"
}

// ContactEmail returns the first attendee's email. Treating position zero as
// the client is a convention of the booking flow, not a schema guarantee.
func (e Event) ContactEmail() string {
	if len(e.Attendees) == 0 {
		return ""
	}
	return e.Attendees[0].Email
}

// CreateEventRequest carries the fields of the "create" action.
type CreateEventRequest struct {
	Start   string
	End     string
	Name    string
	Email   string
	Phone   string
	Subject string
}
