// Package transcript keeps the in-memory conversation between the user and
// the assistant.
package transcript

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is an append-only, concurrency-safe message log.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// New creates an empty Transcript.
func New() *Transcript {
	return &Transcript{now: time.Now}
}

// Append records a message and returns it. Blank text is ignored and
// reported with ok == false.
func (t *Transcript) Append(role Role, text string) (Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, false
	}
	m := Message{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: t.now().UTC(),
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, m)
	return m, true
}

// User records a user message.
func (t *Transcript) User(text string) (Message, bool) { return t.Append(RoleUser, text) }

// Assistant records an assistant message.
func (t *Transcript) Assistant(text string) (Message, bool) { return t.Append(RoleAssistant, text) }

// Entries returns a copy of all messages in append order.
func (t *Transcript) Entries() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Message(nil), t.messages...)
}

// Since returns the messages appended after the first n.
func (t *Transcript) Since(n int) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(t.messages) {
		return nil
	}
	return append([]Message(nil), t.messages[n:]...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
