package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"budgeting/internal/models"
)

// ExpenseCreate is the payload for creating an expense. It deliberately has
// no id or timestamp fields: those are server-assigned, so a caller cannot
// accidentally submit a stale identity when importing a copy into a group.
type ExpenseCreate struct {
	Title       string            `json:"title"`
	Amount      decimal.Decimal   `json:"amount"`
	CategoryID  models.CategoryID `json:"category_id"`
	GroupID     models.GroupID    `json:"group_id,omitempty"`
	Description string            `json:"description,omitempty"`
}

// ListOptions control paging and ordering of expense listings.
type ListOptions struct {
	Offset int
	Limit  int
	SortBy string
	Order  string
}

func (o ListOptions) query() string {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(o.Offset))
	limit := o.Limit
	if limit <= 0 {
		limit = 100
	}
	q.Set("limit", strconv.Itoa(limit))
	if o.SortBy != "" {
		q.Set("sort_by", o.SortBy)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	return q.Encode()
}

// CreateExpense persists a new expense and returns the stored record with
// its server-assigned id and timestamp.
func (c *Client) CreateExpense(ctx context.Context, in ExpenseCreate) (models.Expense, error) {
	var created models.Expense
	if err := c.do(ctx, http.MethodPost, "/expenses/", in, &created); err != nil {
		return models.Expense{}, err
	}
	return created, nil
}

// Expense fetches a single expense by id.
func (c *Client) Expense(ctx context.Context, id models.ExpenseID) (models.Expense, error) {
	var e models.Expense
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/expenses/%d", id), nil, &e); err != nil {
		return models.Expense{}, err
	}
	return e, nil
}

// PersonalExpenses lists the authenticated user's own expenses.
func (c *Client) PersonalExpenses(ctx context.Context, opts ListOptions) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := c.do(ctx, http.MethodGet, "/expenses/?"+opts.query(), nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// GroupExpenses lists a group's expenses. Rows without a server-assigned id
// or with a blank title are dropped; they cannot participate in payment
// tracking or duplicate matching.
func (c *Client) GroupExpenses(ctx context.Context, groupID models.GroupID, opts ListOptions) ([]models.Expense, error) {
	var expenses []models.Expense
	path := fmt.Sprintf("/expenses/group/%d?%s", groupID, opts.query())
	if err := c.do(ctx, http.MethodGet, path, nil, &expenses); err != nil {
		return nil, err
	}
	valid := expenses[:0]
	for _, e := range expenses {
		if e.ID.Valid() && e.Title != "" {
			valid = append(valid, e)
		}
	}
	return valid, nil
}

// GroupMembers lists the users belonging to a group.
func (c *Client) GroupMembers(ctx context.Context, groupID models.GroupID) ([]models.User, error) {
	var users []models.User
	path := fmt.Sprintf("/groups/%d/users", groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
