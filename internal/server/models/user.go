// Package models defines the server-side records persisted in PostgreSQL.
package models

import "time"

// User is an account. Password holds the bcrypt digest and is never
// serialized.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"-"`
}

// UserSummary is the owner/author projection embedded in cards and comments.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
