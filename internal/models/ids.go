package models

// ExpenseID identifies a persisted expense. The zero value marks a draft
// that has not been assigned an id by the server yet.
type ExpenseID int64

// Valid reports whether the id was assigned by the server.
func (id ExpenseID) Valid() bool { return id > 0 }

// UserID identifies a user account. The zero value means "not yet assigned",
// which for an expense reads as "personal default" (owned by the caller).
type UserID int64

// Valid reports whether the id refers to a real user.
func (id UserID) Valid() bool { return id > 0 }

// GroupID identifies a group. The zero value means the expense is personal.
type GroupID int64

// Valid reports whether the id refers to a real group.
func (id GroupID) Valid() bool { return id > 0 }

// CategoryID identifies an expense category.
type CategoryID int64

// Valid reports whether the id refers to a real category.
func (id CategoryID) Valid() bool { return id > 0 }
