package models

import "time"

type Contact struct {
	ID        string    `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
}

// ContactRequest accepts the body under either "content" or "message".
type ContactRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Content   string `json:"content"`
	Message   string `json:"message"`
}
