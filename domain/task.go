package domain

import "strings"

// Task is a single to-do entry. It has no identity beyond its position in the owning list.
type Task struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NewTask trims raw input and reports false when nothing is left to store.
func NewTask(raw string) (Task, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Task{}, false
	}
	return Task{Text: text}, true
}

// CloneTasks returns a copy of tasks that never aliases the input.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
