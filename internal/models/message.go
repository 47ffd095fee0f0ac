package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Label returns the display label for the role
func (r Role) Label() string {
	if r == RoleUser {
		return "You"
	}
	return "Assistant"
}

// Message is one entry of a chat log. It is never modified after it is appended.
type Message struct {
	ID   string    `json:"id"`
	Role Role      `json:"role"`
	Text string    `json:"text"`
	Seq  int       `json:"seq"` // append position, starting at 0
	At   time.Time `json:"at"`
}

// NewMessage creates a message with a fresh ID. Seq is assigned by the log.
func NewMessage(role Role, text string, at time.Time) Message {
	return Message{
		ID:   uuid.NewString(),
		Role: role,
		Text: text,
		At:   at,
	}
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// ResponseEntry maps a keyword to a canned markdown response
type ResponseEntry struct {
	Keyword  string `yaml:"keyword" json:"keyword"`
	Response string `yaml:"response" json:"response"`
}
