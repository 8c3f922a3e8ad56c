package monitor

import "time"

// Status is the last probe result of the storage backend and the write buffer.
type Status struct {
	Backend    string    `json:"backend"`
	Online     bool      `json:"online"`
	LastError  string    `json:"last_error,omitempty"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
	// OfflineSince is the first failed probe of the current outage; zero while online.
	OfflineSince time.Time `json:"offline_since,omitzero"`
}
