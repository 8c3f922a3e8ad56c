package transport

import "time"

// Envelope wraps every JSON response body.
type Envelope struct {
	Status    string      `json:"status"`
	Code      string      `json:"code,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// LoginResponse carries the bearer token for protected routes together with the session snapshot.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Result    interface{} `json:"result"`
}

func NewSuccess(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

func NewError(code, message string) Envelope {
	return Envelope{Status: "error", Code: code, Error: message}
}

// WithRequestID tags the envelope so clients can correlate it with server logs.
func (e Envelope) WithRequestID(id string) Envelope {
	e.RequestID = id
	return e
}
