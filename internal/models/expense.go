package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The API serializes amounts as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Expense represents a single expense record as returned by the API.
//
// GroupID set means this is a group expense shared among the group's
// members; GroupID zero with UserID set means a personal expense.
type Expense struct {
	// ID is the server-assigned identifier; zero for drafts.
	ID ExpenseID `json:"id,omitempty"`

	// UserID is the owning user; zero means not yet assigned.
	UserID UserID `json:"user_id,omitempty"`

	// GroupID is the group this expense belongs to; zero for personal expenses.
	GroupID GroupID `json:"group_id,omitempty"`

	// CategoryID references the expense category.
	CategoryID CategoryID `json:"category_id"`

	// CategoryTitle is the category's display name, when the API joins it in.
	CategoryTitle string `json:"category_title,omitempty"`

	Title string `json:"title"`

	// Amount is the signed currency value of the expense.
	Amount decimal.Decimal `json:"amount"`

	// CreatedAt is server-assigned; nil until the expense is persisted.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// IsGroupExpense reports whether the expense belongs to a group.
func (e Expense) IsGroupExpense() bool { return e.GroupID.Valid() }

// IsPersonal reports whether the expense is a personal one: no group
// reference and a known owner.
func (e Expense) IsPersonal() bool { return !e.GroupID.Valid() && e.UserID.Valid() }
