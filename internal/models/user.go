package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	Username    string    `json:"username" db:"username"`           // Primary key
	Password    string    `json:"-" db:"password"`                  // Hashed password, never serialized
	FirstName   string    `json:"first_name" db:"first_name"`       // First name
	LastName    string    `json:"last_name" db:"last_name"`         // Last name
	Phone       string    `json:"phone" db:"phone"`                 // Contact phone
	JoinAt      time.Time `json:"join_at" db:"join_at"`             // Registration timestamp, immutable
	LastLoginAt time.Time `json:"last_login_at" db:"last_login_at"` // Updated on every successful login
}

// PublicUser is the profile shape exposed to other users
type PublicUser struct {
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Phone     string `json:"phone" db:"phone"`
}
