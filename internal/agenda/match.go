package agenda

import (
	"strings"

	"ouvidoria-agenda-backend/internal/remote"
)

// The slot↔event pairing below is heuristic: no foreign key links the two
// entities, so an occupied slot and its calendar event are correlated by the
// event contact email appearing inside the slot's contact tuple. First match
// in iteration order wins. This is a migration bridge inherited from the
// remote contract, not a design to extend.

func findSlot(slots []remote.Slot, id remote.ID) int {
	for i := range slots {
		if slots[i].ID == id {
			return i
		}
	}
	return -1
}

func findEvent(events []remote.Event, id remote.ID) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

// matchOccupiedSlot returns the first occupied slot whose contact contains
// email, skipping exclude. An empty email never matches; substring matching
// against "" would pair with any occupied slot.
func matchOccupiedSlot(slots []remote.Slot, email string, exclude remote.ID) int {
	if email == "" {
		return -1
	}
	for i := range slots {
		s := &slots[i]
		if s.ID == exclude || s.Status != remote.SlotOccupied || s.ClientContact == "" {
			continue
		}
		if strings.Contains(s.ClientContact, email) {
			return i
		}
	}
	return -1
}

// matchEventByContact returns the first event whose attendee email appears
// inside the slot contact tuple.
func matchEventByContact(events []remote.Event, slotContact string) int {
	if slotContact == "" {
		return -1
	}
	for i := range events {
		email := events[i].ContactEmail()
		if email != "" && strings.Contains(slotContact, email) {
			return i
		}
	}
	return -1
}

// freeSlot returns a copy of s back in the Livre state with the client
// fields cleared, upholding the status/field consistency invariant.
func freeSlot(s remote.Slot) remote.Slot {
	s.Status = remote.SlotFree
	s.ClientName = ""
	s.ClientContact = ""
	s.Subject = ""
	return s
}

func cloneSlots(slots []remote.Slot) []remote.Slot {
	out := make([]remote.Slot, len(slots))
	copy(out, slots)
	return out
}

func cloneEvents(events []remote.Event) []remote.Event {
	out := make([]remote.Event, len(events))
	copy(out, events)
	return out
}

func removeEvent(events []remote.Event, id remote.ID) []remote.Event {
	out := make([]remote.Event, 0, len(events))
	for _, e := range events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}
