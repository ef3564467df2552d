package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RolePlayer UserRole = "player"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Avatar       string    `json:"avatar" db:"avatar"`
	Email        string    `json:"email" db:"email"`
	Role         UserRole  `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Score        int       `json:"score" db:"score"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Predictions is persisted as a single serialized blob in the users
	// table and deserialized on fetch.
	Predictions []GroupPrediction `json:"predictions,omitempty" db:"-"`
}
