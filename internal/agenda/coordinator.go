package agenda

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ouvidoria-agenda-backend/config"
	"ouvidoria-agenda-backend/internal/contact"
	"ouvidoria-agenda-backend/internal/dates"
	"ouvidoria-agenda-backend/internal/remote"
)

// Coordinator owns the two local collections (slots, events) and serializes
// every state-changing intent into the webhook's action vocabulary. Each
// mutating flow applies its local change optimistically, then runs the
// remote calls in sequence and restores the pre-flow snapshot on failure.
//
// Flows themselves are not mutually exclusive: two bookings can be in
// flight at once, and the remote 409 is the only backstop if they target
// the same slot.
type Coordinator struct {
	remote           RemoteService
	notifier         Notifier // may be nil
	loc              *time.Location
	duration         time.Duration
	defaultAttendant string
	past             time.Duration
	future           time.Duration
	now              func() time.Time

	mu      sync.Mutex
	slots   []remote.Slot
	events  []remote.Event
	resched Reschedule
}

// New creates a coordinator wired to the given remote service.
func New(svc RemoteService, cfg *config.Config, notifier Notifier) *Coordinator {
	return &Coordinator{
		remote:           svc,
		notifier:         notifier,
		loc:              cfg.Webhook.Location,
		duration:         cfg.Booking.Duration,
		defaultAttendant: cfg.Booking.DefaultAttendant,
		past:             time.Duration(cfg.Webhook.ListPastDays) * 24 * time.Hour,
		future:           time.Duration(cfg.Webhook.ListFutureDays) * 24 * time.Hour,
		now:              time.Now,
	}
}

// Refresh refetches both collections from the remote system. This is the
// authoritative reconciliation step: any drift left by heuristic mismatches
// or partial failures is corrected here. A failed fetch fails open to an
// empty collection instead of keeping stale data.
func (c *Coordinator) Refresh(ctx context.Context) error {
	slots, errSlots := c.remote.ListSlots(ctx)
	if errSlots != nil {
		log.Printf("Refresh: list_slots failed: %v", errSlots)
		slots = nil
	}

	now := c.now()
	events, errEvents := c.remote.ListEvents(ctx, now.Add(-c.past), now.Add(c.future))
	if errEvents != nil {
		log.Printf("Refresh: list failed: %v", errEvents)
		events = nil
	}

	// Cancelled events never reach a view.
	kept := make([]remote.Event, 0, len(events))
	for _, e := range events {
		if !e.Cancelled() {
			kept = append(kept, e)
		}
	}

	c.mu.Lock()
	c.slots = slots
	c.events = kept
	c.mu.Unlock()

	return errors.Join(errSlots, errEvents)
}

// refreshQuiet reconciles after a mutating flow without surfacing the error;
// the flow's own outcome has already been decided.
func (c *Coordinator) refreshQuiet(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		log.Printf("post-flow refresh failed: %v", err)
	}
}

// Snapshot returns copies of both collections as the presentation layer
// should see them: soft-deleted slots filtered out.
func (c *Coordinator) Snapshot() ([]remote.Slot, []remote.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slots := make([]remote.Slot, 0, len(c.slots))
	for _, s := range c.slots {
		if s.Status != remote.SlotDeleted {
			slots = append(slots, s)
		}
	}
	return slots, cloneEvents(c.events)
}

// Attendants returns the distinct non-empty attendant labels, in slot order.
func (c *Coordinator) Attendants() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, s := range c.slots {
		if s.Attendant == "" || seen[s.Attendant] {
			continue
		}
		seen[s.Attendant] = true
		out = append(out, s.Attendant)
	}
	return out
}

// BookSlot books a free slot for the given client. The calendar event is
// created first, then the slot row commits; a slot-row failure compensates
// by deleting the event just created so the calendar never keeps an
// orphaned booking. With a reschedule pending, success additionally retires
// the old event/slot pair.
func (c *Coordinator) BookSlot(ctx context.Context, slotID remote.ID, client ClientInfo) error {
	if !contact.ValidEmail(client.Email) {
		return &ValidationError{Message: "E-mail inválido."}
	}
	if len(contact.Digits(client.Phone)) < 10 {
		return &ValidationError{Message: "Telefone incompleto."}
	}

	c.mu.Lock()
	idx := findSlot(c.slots, slotID)
	if idx < 0 {
		c.mu.Unlock()
		return &ValidationError{Message: "Vaga não encontrada."}
	}
	if c.slots[idx].Status != remote.SlotFree {
		c.mu.Unlock()
		return &ValidationError{Message: "Vaga indisponível ou em conflito."}
	}
	resched := c.resched
	prev := cloneSlots(c.slots)
	c.slots[idx].Status = remote.SlotOccupied
	c.slots[idx].ClientName = client.Name
	c.slots[idx].ClientContact = contact.JoinContact(client.Email, client.Phone)
	c.slots[idx].Subject = client.Subject
	booked := c.slots[idx]
	c.mu.Unlock()

	start := dates.CombineSlotDateTime(booked.Date, booked.Time, c.loc, c.now().In(c.loc))
	end := start.Add(c.duration)

	created, err := c.remote.CreateEvent(ctx, remote.CreateEventRequest{
		Start:   dates.RFC3339LocalOffset(start),
		End:     dates.RFC3339LocalOffset(end),
		Name:    client.Name,
		Email:   client.Email,
		Phone:   client.Phone,
		Subject: client.Subject,
	})
	if err != nil {
		c.restoreSlots(prev)
		return fmt.Errorf("criar evento no calendário: %w", err)
	}

	if err := c.remote.UpdateSlot(ctx, booked); err != nil {
		c.restoreSlots(prev)
		// Compensate the half-committed booking; without this the calendar
		// keeps an event no slot points at.
		if created.ID != "" {
			if derr := c.remote.DeleteEvent(ctx, created.ID); derr != nil {
				log.Printf("compensating delete of event %s failed: %v", created.ID, derr)
			}
		}
		return fmt.Errorf("gravar vaga na planilha: %w", err)
	}

	if resched.Active && resched.EventID != "" {
		c.finishReschedule(ctx, resched, booked.ID)
		c.dispatch(fmt.Sprintf("Remarcação confirmada: %s em %s às %s", client.Name, booked.Date, booked.Time))
	} else {
		c.dispatch(fmt.Sprintf("Agendamento confirmado: %s em %s às %s", client.Name, booked.Date, booked.Time))
	}

	c.refreshQuiet(ctx)
	return nil
}

// finishReschedule retires the old event/slot pair after the replacement
// booking committed. Failures here are logged, never rolled back: the new
// booking stands and the next refresh reconciles leftovers.
func (c *Coordinator) finishReschedule(ctx context.Context, r Reschedule, justBooked remote.ID) {
	c.mu.Lock()
	c.events = removeEvent(c.events, r.EventID)
	var oldSlot remote.Slot
	oldIdx := matchOccupiedSlot(c.slots, r.Email, justBooked)
	if oldIdx >= 0 {
		c.slots[oldIdx] = freeSlot(c.slots[oldIdx])
		oldSlot = c.slots[oldIdx]
	}
	c.resched = Reschedule{}
	c.mu.Unlock()

	if oldIdx >= 0 {
		if err := c.remote.UpdateSlot(ctx, oldSlot); err != nil {
			log.Printf("freeing old slot %s after reschedule failed: %v", oldSlot.ID, err)
		}
	}
	if err := c.remote.DeleteEvent(ctx, r.EventID); err != nil {
		log.Printf("deleting old event %s after reschedule failed: %v", r.EventID, err)
	}
}

// CancelEvent removes a calendar event and frees the occupied slot it pairs
// with. The slot side-call is deliberately not rolled back against the
// event deletion: once the calendar dropped the event, it stays dropped.
func (c *Coordinator) CancelEvent(ctx context.Context, eventID remote.ID) error {
	c.mu.Lock()
	idx := findEvent(c.events, eventID)
	if idx < 0 {
		c.mu.Unlock()
		return &ValidationError{Message: "Agendamento não encontrado."}
	}
	email := c.events[idx].ContactEmail()
	prev := cloneEvents(c.events)
	c.events = removeEvent(c.events, eventID)
	c.mu.Unlock()

	if err := c.remote.DeleteEvent(ctx, eventID); err != nil {
		c.restoreEvents(prev)
		return fmt.Errorf("cancelar agendamento: %w", err)
	}

	if email != "" {
		c.mu.Lock()
		var slot remote.Slot
		slotIdx := matchOccupiedSlot(c.slots, email, "")
		if slotIdx >= 0 {
			c.slots[slotIdx] = freeSlot(c.slots[slotIdx])
			slot = c.slots[slotIdx]
		}
		c.mu.Unlock()

		if slotIdx >= 0 {
			if err := c.remote.UpdateSlot(ctx, slot); err != nil {
				log.Printf("freeing slot %s after event cancel failed: %v", slot.ID, err)
			}
		}
	}

	c.dispatch("Atendimento cancelado.")
	return nil
}

// DeleteSlot branches on the slot's state: an occupied slot is freed (and
// its paired event deleted), anything else is soft-deleted so the row stays
// in the collection but out of every view.
func (c *Coordinator) DeleteSlot(ctx context.Context, slotID remote.ID) error {
	c.mu.Lock()
	idx := findSlot(c.slots, slotID)
	if idx < 0 {
		c.mu.Unlock()
		return &ValidationError{Message: "Vaga não encontrada."}
	}
	slot := c.slots[idx]

	if slot.Status == remote.SlotOccupied {
		prev := cloneSlots(c.slots)
		c.slots[idx] = freeSlot(slot)
		freed := c.slots[idx]
		c.mu.Unlock()

		if err := c.remote.UpdateSlot(ctx, freed); err != nil {
			c.restoreSlots(prev)
			return fmt.Errorf("libertar vaga: %w", err)
		}

		c.mu.Lock()
		var paired remote.Event
		evIdx := matchEventByContact(c.events, slot.ClientContact)
		if evIdx >= 0 {
			paired = c.events[evIdx]
			c.events = removeEvent(c.events, paired.ID)
		}
		c.mu.Unlock()

		if evIdx >= 0 {
			if err := c.remote.DeleteEvent(ctx, paired.ID); err != nil {
				log.Printf("deleting paired event %s failed: %v", paired.ID, err)
			}
		}
		c.dispatch("Vaga libertada.")
		return nil
	}

	prev := cloneSlots(c.slots)
	c.slots[idx].Status = remote.SlotDeleted
	c.mu.Unlock()

	if err := c.remote.DeleteSlot(ctx, slot.ID); err != nil {
		c.restoreSlots(prev)
		return fmt.Errorf("excluir vaga: %w", err)
	}
	return nil
}

// BeginReschedule extracts the client data from an existing event and arms
// the reschedule context. No remote state changes until the next booking.
func (c *Coordinator) BeginReschedule(eventID remote.ID) (Reschedule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := findEvent(c.events, eventID)
	if idx < 0 {
		return Reschedule{}, &ValidationError{Message: "Agendamento não encontrado."}
	}
	ev := c.events[idx]
	details := contact.ExtractDetails(ev.Description, ev.Summary)
	c.resched = Reschedule{
		Active:  true,
		EventID: ev.ID,
		Name:    details.Name,
		Email:   ev.ContactEmail(),
		Phone:   details.Phone,
		Subject: "Remarcação",
	}
	return c.resched, nil
}

// CancelReschedule disarms a pending reschedule.
func (c *Coordinator) CancelReschedule() {
	c.mu.Lock()
	c.resched = Reschedule{}
	c.mu.Unlock()
}

// RescheduleState returns the current reschedule context.
func (c *Coordinator) RescheduleState() Reschedule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resched
}

// UpdateAttendant renames the attendant on a slot, echoing every other
// field unchanged.
func (c *Coordinator) UpdateAttendant(ctx context.Context, slotID remote.ID, name string) error {
	c.mu.Lock()
	idx := findSlot(c.slots, slotID)
	if idx < 0 {
		c.mu.Unlock()
		return &ValidationError{Message: "Vaga não encontrada."}
	}
	prev := cloneSlots(c.slots)
	c.slots[idx].Attendant = name
	if c.slots[idx].Status == "" {
		c.slots[idx].Status = remote.SlotFree
	}
	updated := c.slots[idx]
	c.mu.Unlock()

	if err := c.remote.UpdateSlot(ctx, updated); err != nil {
		c.restoreSlots(prev)
		return fmt.Errorf("atualizar atendente: %w", err)
	}

	c.refreshQuiet(ctx)
	return nil
}

// CreateSlotsBatch expands the request into (date × time × attendant)
// combinations and issues one create_slot per combination, sequentially.
// There is no transactionality: a failure mid-run keeps whatever already
// landed, and the result reports the success count out of the total.
func (c *Coordinator) CreateSlotsBatch(ctx context.Context, req BatchRequest, progress ProgressFunc) (BatchResult, error) {
	if req.StartDate == "" {
		return BatchResult{}, &ValidationError{Message: "Selecione a Data Inicial."}
	}
	if len(req.Attendants) == 0 {
		return BatchResult{}, &ValidationError{Message: "Adicione pelo menos um atendente!"}
	}
	if len(req.Times) == 0 {
		return BatchResult{}, &ValidationError{Message: "Selecione pelo menos um horário!"}
	}

	dateList, err := dates.Range(req.StartDate, req.EndDate, req.Weekdays)
	if err != nil {
		return BatchResult{}, &ValidationError{Message: err.Error()}
	}
	if len(dateList) == 0 {
		return BatchResult{}, &ValidationError{Message: "Nenhum dia válido encontrado. Verifique os dias da semana."}
	}

	result := BatchResult{Total: len(dateList) * len(req.Times) * len(req.Attendants)}
	done := 0
	for _, dateISO := range dateList {
		wireDate := dates.FormatSlotDate(dateISO)
		for _, t := range req.Times {
			for _, attendant := range req.Attendants {
				if attendant == "" {
					attendant = c.defaultAttendant
				}
				err := c.remote.CreateSlot(ctx, wireDate, t, attendant)
				done++
				if err != nil {
					log.Printf("create_slot %s %s (%s) failed: %v", wireDate, t, attendant, err)
				} else {
					result.Created++
				}
				if progress != nil {
					progress(done, result.Total)
				}
			}
		}
	}

	c.dispatch(fmt.Sprintf("%d vagas geradas.", result.Created))
	c.refreshQuiet(ctx)
	return result, nil
}

func (c *Coordinator) restoreSlots(prev []remote.Slot) {
	c.mu.Lock()
	c.slots = prev
	c.mu.Unlock()
}

func (c *Coordinator) restoreEvents(prev []remote.Event) {
	c.mu.Lock()
	c.events = prev
	c.mu.Unlock()
}

func (c *Coordinator) dispatch(message string) {
	if c.notifier != nil {
		c.notifier.Dispatch(message)
	}
}
