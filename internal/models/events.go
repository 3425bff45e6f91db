package models

import (
	"encoding/json"
	"time"
)

const (
	EventPasswordResetRequested = "password_reset_requested"
	EventContactReceived        = "contact_received"
)

type PasswordResetEvent struct {
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	Token     string    `json:"token"`
	ResetURL  string    `json:"resetUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ContactEvent struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Content   string `json:"content"`
}

// Envelope is the wire form of a notification on the mail topic.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sentAt"`
}
