package domain

import "time"

// User is the account returned by the current-user endpoint.
type User struct {
	Email     string    `json:"email" yaml:"email"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
