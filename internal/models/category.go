package models

import (
	"time"
)

// Category is a per-client named bucket submissions are classified into.
// Name is unique within a client.
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ClientID  string    `json:"-" db:"client_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DefaultCategories is the fixed seed set applied once per client,
// the first time a client with zero categories loads the dashboard.
var DefaultCategories = []string{
	"קורס סייבר",
	"קורס Data",
	"קורס פיתוח",
	"כללי",
	"מחירים ותשלומים",
	"השמה ותעסוקה",
}
