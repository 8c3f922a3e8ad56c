package buffer

import (
	"time"

	"github.com/google/uuid"
)

const (
	EntityDirectory = "directory"
	EntitySession   = "session"
	EntityOther     = "other"

	OperationPut    = "put"
	OperationDelete = "delete"
)

// Item is a whole-value write that could not reach the primary store yet.
type Item struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Entity    string    `json:"entity"`
	Operation string    `json:"operation"`
	Data      []byte    `json:"data,omitempty"`
	Priority  int       `json:"priority"`
	Retries   int       `json:"retries"`
	Timestamp time.Time `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = 3
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}

// Newer reports whether i was written after other.
func (i Item) Newer(other Item) bool {
	return i.Timestamp.After(other.Timestamp)
}
