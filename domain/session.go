package domain

import "time"

// Session holds the single authenticated username of the process.
type Session struct {
	Username  string    `json:"username"`
	StartedAt time.Time `json:"started_at"`
}

func (s *Session) IsActive() bool {
	return s != nil && s.Username != ""
}
