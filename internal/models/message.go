package models

import "time"

// MessageDB represents a message record in the database
type MessageDB struct {
	ID           int64      `json:"id" db:"id"`                       // Surrogate key
	FromUsername string     `json:"from_username" db:"from_username"` // Sender, FK users.username
	ToUsername   string     `json:"to_username" db:"to_username"`     // Recipient, FK users.username
	Body         string     `json:"body" db:"body"`                   // Message text
	SentAt       time.Time  `json:"sent_at" db:"sent_at"`             // Set at creation, immutable
	ReadAt       *time.Time `json:"read_at" db:"read_at"`             // Nil until the recipient marks it read
}

// Message is a single message with both parties expanded to profiles
type Message struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser PublicUser `json:"from_user"`
	ToUser   PublicUser `json:"to_user"`
}

// MessageFromUser is a received message with the sender expanded.
// The raw from_username column is dropped in favor of the profile.
type MessageFromUser struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser PublicUser `json:"from_user"`
}

// MessageToUser is a sent message with the recipient expanded.
type MessageToUser struct {
	ID     int64      `json:"id"`
	Body   string     `json:"body"`
	SentAt time.Time  `json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`
	ToUser PublicUser `json:"to_user"`
}

// MessageRead is the result of marking a message read
type MessageRead struct {
	ID     int64     `json:"id" db:"id"`
	ReadAt time.Time `json:"read_at" db:"read_at"`
}
