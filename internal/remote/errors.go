package remote

import "fmt"

// ConflictError is the distinguished 409 response: the targeted slot or time
// is no longer available. Never retried.
type ConflictError struct {
	Message   string
	Conflicts []Event
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Vaga indisponível ou em conflito."
}

// ServerError is any other non-2xx response from the webhook.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Erro do Servidor (HTTP %d).", e.Status)
}

// TimeoutError means the webhook did not answer within the configured
// deadline.
type TimeoutError struct {
	Action string
}

func (e *TimeoutError) Error() string {
	return "O servidor demorou a responder."
}

// NetworkError is a transport-level failure before any HTTP status was
// received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "Falha de Conexão com o n8n."
}

func (e *NetworkError) Unwrap() error { return e.Err }
