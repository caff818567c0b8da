package models

import "time"

// ExpensePayment records that a group member has paid their share of an
// expense. Existence of the record means paid; absence means unpaid.
//
// The expense owner never has a payment record: owners are considered
// settled by definition and are excluded from the payment checklist.
type ExpensePayment struct {
	ExpenseID ExpenseID  `json:"expense_id"`
	UserID    UserID     `json:"user_id"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}
