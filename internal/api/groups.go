package api

import (
	"context"
	"fmt"
	"net/http"

	"budgeting/internal/models"
)

// Groups lists the groups the authenticated user belongs to.
func (c *Client) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.do(ctx, http.MethodGet, "/groups/", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Group fetches a single group by id.
func (c *Client) Group(ctx context.Context, id models.GroupID) (models.Group, error) {
	var g models.Group
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/groups/%d", id), nil, &g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}
