package api

import (
	"context"
	"fmt"
	"net/http"

	"budgeting/internal/models"
)

// Payments fetches the payment records for an expense. A member appears in
// the result iff they have paid their share.
func (c *Client) Payments(ctx context.Context, expenseID models.ExpenseID) ([]models.ExpensePayment, error) {
	var payments []models.ExpensePayment
	path := fmt.Sprintf("/expenses_payments/%d/payments", expenseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// MarkPaid records that userID has paid their share of the expense.
func (c *Client) MarkPaid(ctx context.Context, expenseID models.ExpenseID, userID models.UserID) error {
	path := fmt.Sprintf("/expenses_payments/%d/pay/%d", expenseID, userID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// UnmarkPaid removes userID's payment record for the expense.
func (c *Client) UnmarkPaid(ctx context.Context, expenseID models.ExpenseID, userID models.UserID) error {
	path := fmt.Sprintf("/expenses_payments/%d/pay/%d", expenseID, userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// SetPaid sets the member's paid status for the expense. It is the single
// toggle entry point used by the payment reconciler.
func (c *Client) SetPaid(ctx context.Context, expenseID models.ExpenseID, userID models.UserID, paid bool) error {
	if paid {
		return c.MarkPaid(ctx, expenseID, userID)
	}
	return c.UnmarkPaid(ctx, expenseID, userID)
}
