package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"ouvidoria-agenda-backend/config"
	"ouvidoria-agenda-backend/internal/dates"
	"ouvidoria-agenda-backend/internal/model"
)

// Journal receives a record of every remote call. May be nil.
type Journal func(model.CallLog)

// Client talks to the single n8n webhook endpoint. Every state change in the
// system is one POST with an action-tagged JSON body.
type Client struct {
	url     string
	headers map[string]string
	timeout time.Duration
	loc     *time.Location
	client  *http.Client
	journal Journal
}

// NewClient creates a webhook client from the configuration.
func NewClient(cfg *config.WebhookConfig, journal Journal) *Client {
	return &Client{
		url:     cfg.URL,
		headers: cfg.Headers,
		timeout: cfg.Timeout,
		loc:     cfg.Location,
		client: &http.Client{
			// Slightly above the per-call deadline so the context always
			// fires first and timeouts classify consistently.
			Timeout: cfg.Timeout + 5*time.Second,
		},
		journal: journal,
	}
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type conflictBody struct {
	Error     string  `json:"error"`
	Conflicts []Event `json:"conflicts"`
}

type errorBody struct {
	Error string `json:"error"`
}

// call performs one action round-trip and classifies the failure modes.
func (c *Client) call(ctx context.Context, action string, payload any) (json.RawMessage, error) {
	started := time.Now()
	raw, err := c.doCall(ctx, action, payload)
	c.record(action, started, err)
	return raw, err
}

func (c *Client) doCall(ctx context.Context, action string, payload any) (json.RawMessage, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", action, err)
	}

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodPost, c.url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || cctx.Err() == context.DeadlineExceeded {
			return nil, &TimeoutError{Action: action}
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusConflict {
		var cb conflictBody
		_ = json.Unmarshal(body, &cb)
		return nil, &ConflictError{Message: cb.Error, Conflicts: cb.Conflicts}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return nil, &ServerError{Status: resp.StatusCode, Message: eb.Error}
	}

	return body, nil
}

func (c *Client) record(action string, started time.Time, err error) {
	if c.journal == nil {
		return
	}
	entry := model.CallLog{
		ID:         uuid.NewString(),
		Action:     action,
		Outcome:    "ok",
		DurationMs: time.Since(started).Milliseconds(),
	}
	if err != nil {
		entry.Outcome = classify(err)
		entry.Detail = err.Error()
	}
	c.journal(entry)
}

func classify(err error) string {
	var conflict *ConflictError
	var server *ServerError
	var timeout *TimeoutError
	var network *NetworkError
	switch {
	case errors.As(err, &conflict):
		return "conflict"
	case errors.As(err, &server):
		return "server"
	case errors.As(err, &timeout):
		return "timeout"
	case errors.As(err, &network):
		return "network"
	}
	return "error"
}

type listSlotsRequest struct {
	Action string `json:"action"`
}

// ListSlots fetches every slot row the spreadsheet still returns, including
// soft-deleted ones.
func (c *Client) ListSlots(ctx context.Context) ([]Slot, error) {
	body, err := c.call(ctx, "list_slots", listSlotsRequest{Action: "list_slots"})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list_slots response: %w", err)
	}

	// The webhook answers with data as an array or, for a single row, a bare
	// object.
	var slots []Slot
	if err := json.Unmarshal(env.Data, &slots); err == nil {
		return slots, nil
	}
	var one Slot
	if err := json.Unmarshal(env.Data, &one); err == nil && one.ID != "" {
		return []Slot{one}, nil
	}
	return nil, nil
}

type listEventsRequest struct {
	Action    string `json:"action"`
	ListStart string `json:"listStart"`
	ListEnd   string `json:"listEnd"`
}

type itemsEnvelope struct {
	Items []Event `json:"items"`
}

// ListEvents fetches calendar events whose start falls inside the window.
func (c *Client) ListEvents(ctx context.Context, windowStart, windowEnd time.Time) ([]Event, error) {
	req := listEventsRequest{
		Action:    "list",
		ListStart: dates.RFC3339LocalOffset(windowStart.In(c.loc)),
		ListEnd:   dates.RFC3339LocalOffset(windowEnd.In(c.loc)),
	}
	body, err := c.call(ctx, "list", req)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list response: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(env.Data, &events); err == nil {
		return events, nil
	}
	var wrapped itemsEnvelope
	if err := json.Unmarshal(env.Data, &wrapped); err == nil && wrapped.Items != nil {
		return wrapped.Items, nil
	}
	var one Event
	if err := json.Unmarshal(env.Data, &one); err == nil && one.ID != "" {
		return []Event{one}, nil
	}
	return nil, nil
}

type createEventRequest struct {
	Action   string `json:"action"`
	Inicio   string `json:"inicio"`
	Fim      string `json:"fim"`
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Assunto  string `json:"assunto"`
}

// CreateEvent creates a calendar event for a confirmed booking and returns
// whatever event payload the webhook echoes back. The returned id, when
// present, enables compensation if the follow-up slot update fails.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (Event, error) {
	body, err := c.call(ctx, "create", createEventRequest{
		Action:   "create",
		Inicio:   req.Start,
		Fim:      req.End,
		Nome:     req.Name,
		Email:    req.Email,
		Telefone: req.Phone,
		Assunto:  req.Subject,
	})
	if err != nil {
		return Event{}, err
	}

	var created Event
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		_ = json.Unmarshal(env.Data, &created)
	}
	if created.ID == "" {
		_ = json.Unmarshal(body, &created)
	}
	return created, nil
}

type updateSlotRequest struct {
	Action         string     `json:"action"`
	ID             ID         `json:"id"`
	Data           string     `json:"data"`
	Horario        string     `json:"horario"`
	Atendente      string     `json:"atendente"`
	Status         SlotStatus `json:"status"`
	NomeCliente    string     `json:"nome_cliente"`
	ContatoCliente string     `json:"contato_cliente"`
	Assunto        string     `json:"assunto"`
}

// UpdateSlot writes a slot row back, always sending every field. The webhook
// overwrites unspecified columns with blanks, so partial updates are not an
// option.
func (c *Client) UpdateSlot(ctx context.Context, slot Slot) error {
	_, err := c.call(ctx, "update_slot", updateSlotRequest{
		Action:         "update_slot",
		ID:             slot.ID,
		Data:           slot.Date,
		Horario:        slot.Time,
		Atendente:      slot.Attendant,
		Status:         slot.Status,
		NomeCliente:    slot.ClientName,
		ContatoCliente: slot.ClientContact,
		Assunto:        slot.Subject,
	})
	return err
}

type createSlotRequest struct {
	Action         string     `json:"action"`
	Data           string     `json:"data"`
	Horario        string     `json:"horario"`
	Atendente      string     `json:"atendente"`
	Status         SlotStatus `json:"status"`
	NomeCliente    string     `json:"nome_cliente"`
	ContatoCliente string     `json:"contato_cliente"`
	Assunto        string     `json:"assunto"`
}

// CreateSlot appends a free slot row. The empty client columns are sent
// explicitly for the same blank-overwrite reason as UpdateSlot.
func (c *Client) CreateSlot(ctx context.Context, date, timeOfDay, attendant string) error {
	_, err := c.call(ctx, "create_slot", createSlotRequest{
		Action:    "create_slot",
		Data:      date,
		Horario:   timeOfDay,
		Atendente: attendant,
		Status:    SlotFree,
	})
	return err
}

type deleteSlotRequest struct {
	Action string `json:"action"`
	ID     ID     `json:"id"`
}

// DeleteSlot removes a slot row.
func (c *Client) DeleteSlot(ctx context.Context, id ID) error {
	_, err := c.call(ctx, "delete_slot", deleteSlotRequest{Action: "delete_slot", ID: id})
	return err
}

type deleteEventRequest struct {
	Action  string `json:"action"`
	EventID ID     `json:"eventId"`
}

// DeleteEvent cancels a calendar event.
func (c *Client) DeleteEvent(ctx context.Context, id ID) error {
	_, err := c.call(ctx, "delete", deleteEventRequest{Action: "delete", EventID: id})
	return err
}
