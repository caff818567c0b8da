package models

import "time"

// Group represents a group of users sharing expenses.
type Group struct {
	ID          GroupID    `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
