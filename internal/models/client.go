package models

import (
	"time"
)

// Client is the tenancy root. Every category and submission belongs to
// exactly one client, and all queries are scoped by client ID.
type Client struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// User represents one external identity. A user is created on first
// authenticated access and belongs to exactly one client.
type User struct {
	ID         string    `json:"id" db:"id"`
	ExternalID string    `json:"external_id" db:"external_id"` // subject from the identity provider
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name" db:"name"`
	ClientID   string    `json:"client_id" db:"client_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultClientName is the display name given to implicitly created clients.
const DefaultClientName = "My Business"
