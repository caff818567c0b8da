package groups

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"budgeting/internal/api"
	"budgeting/internal/metrics"
	"budgeting/internal/models"
)

// Service is the remote surface the session drives.
type Service interface {
	GroupMembers(ctx context.Context, groupID models.GroupID) ([]models.User, error)
	GroupExpenses(ctx context.Context, groupID models.GroupID, opts api.ListOptions) ([]models.Expense, error)
	CreateExpense(ctx context.Context, in api.ExpenseCreate) (models.Expense, error)
	MarkPaid(ctx context.Context, expenseID models.ExpenseID, userID models.UserID) error
}

// GroupExpense is one row of the group's expense list: the expense plus the
// display name of whoever added it and the optional import description.
type GroupExpense struct {
	Expense     models.Expense
	UserName    string
	Description string
}

// Session holds the in-memory state for one open group: its members and
// expense list, rebuilt from the server on each Refresh.
type Session struct {
	svc         Service
	groupID     models.GroupID
	currentUser models.UserID

	mu       sync.Mutex
	members  []models.User
	expenses []GroupExpense
}

// NewSession creates a session for the group as seen by currentUser.
func NewSession(svc Service, groupID models.GroupID, currentUser models.UserID) *Session {
	return &Session{svc: svc, groupID: groupID, currentUser: currentUser}
}

// Refresh reloads the group's members and expenses from the server.
func (s *Session) Refresh(ctx context.Context) error {
	members, err := s.svc.GroupMembers(ctx, s.groupID)
	if err != nil {
		return fmt.Errorf("load members of group %d: %w", s.groupID, err)
	}
	expenses, err := s.svc.GroupExpenses(ctx, s.groupID, api.ListOptions{
		Limit:  100,
		SortBy: "created_at",
		Order:  "asc",
	})
	if err != nil {
		return fmt.Errorf("load expenses of group %d: %w", s.groupID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = members
	s.expenses = toGroupExpenses(expenses, members)
	return nil
}

// toGroupExpenses joins the expense list with the member list to attach
// display names.
func toGroupExpenses(expenses []models.Expense, members []models.User) []GroupExpense {
	names := make(map[models.UserID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.FullName()
	}

	rows := make([]GroupExpense, 0, len(expenses))
	for _, e := range expenses {
		name := "Group Member"
		if e.UserID.Valid() {
			name = "Unknown User"
			if n, ok := names[e.UserID]; ok {
				name = n
			}
		}
		rows = append(rows, GroupExpense{Expense: e, UserName: name})
	}
	return rows
}

// Members returns the group's member list from the last Refresh.
func (s *Session) Members() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.members))
	copy(out, s.members)
	return out
}

// Expenses returns the group's expense list, including rows appended by
// completed imports.
func (s *Session) Expenses() []GroupExpense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GroupExpense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// FilterImportable narrows a personal expense list down to the candidates
// that can be offered for import into this group.
func (s *Session) FilterImportable(personal []models.Expense) []models.Expense {
	s.mu.Lock()
	existing := s.expenses
	s.mu.Unlock()
	return FilterImportable(personal, existing, s.currentUser)
}

// ImportResult reports what an import attempt did. Added rows are already
// appended to the session's expense list, including on partial failure.
type ImportResult struct {
	Added         []GroupExpense
	SkippedTitles []string
}

// SkippedMessage renders the user-facing summary for skipped duplicates, or
// "" when nothing was skipped.
func (r *ImportResult) SkippedMessage() string {
	switch len(r.SkippedTitles) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s is already in this group", r.SkippedTitles[0])
	}
	return fmt.Sprintf("%d expenses are already in this group", len(r.SkippedTitles))
}

// ImportSelected copies the selected personal expenses into the group.
//
// Selection happened against a possibly stale candidate list, so every
// candidate is re-validated against the current expense list first; the ones
// that became duplicates in the meantime are skipped, not failed. Each
// surviving candidate is created as a fresh group expense (server-assigned
// id and timestamp), and the importer is marked as having paid their own
// share, best effort.
//
// A failed create aborts the remaining candidates and is returned as an
// error carrying the call's HTTP status. There is no transactional rollback:
// expenses created before the failure stay committed and are reflected in
// both the returned result and the session's expense list.
func (s *Session) ImportSelected(ctx context.Context, selected []models.Expense, description, displayName string) (*ImportResult, error) {
	opID := uuid.NewString()
	res := &ImportResult{}
	if len(selected) == 0 {
		return res, nil
	}

	s.mu.Lock()
	existing := make([]GroupExpense, len(s.expenses))
	copy(existing, s.expenses)
	s.mu.Unlock()

	// Commit whatever was created, on success and on abort alike.
	defer func() {
		if len(res.Added) == 0 {
			return
		}
		s.mu.Lock()
		s.expenses = append(s.expenses, res.Added...)
		s.mu.Unlock()
	}()

	for _, candidate := range selected {
		if len(FilterImportable([]models.Expense{candidate}, existing, s.currentUser)) == 0 {
			res.SkippedTitles = append(res.SkippedTitles, candidate.Title)
			metrics.SkippedImports.Inc()
			slog.Info("import skipped duplicate",
				"op_id", opID,
				"group_id", s.groupID,
				"title", candidate.Title,
			)
			continue
		}

		created, err := s.svc.CreateExpense(ctx, api.ExpenseCreate{
			Title:       candidate.Title,
			Amount:      candidate.Amount,
			CategoryID:  candidate.CategoryID,
			GroupID:     s.groupID,
			Description: description,
		})
		if err != nil {
			metrics.FailedImports.Inc()
			slog.Error("import aborted",
				"op_id", opID,
				"group_id", s.groupID,
				"title", candidate.Title,
				"status", api.StatusOf(err),
				"error", err,
			)
			return res, fmt.Errorf("add expense %q to group %d: %w", candidate.Title, s.groupID, err)
		}
		metrics.ImportedExpenses.Inc()

		// The importer has the money already; mark their own share paid.
		// Best effort: the expense exists either way.
		if err := s.svc.MarkPaid(ctx, created.ID, s.currentUser); err != nil {
			slog.Warn("could not mark importer as paid",
				"op_id", opID,
				"expense_id", created.ID,
				"error", err,
			)
		}

		row := GroupExpense{Expense: created, UserName: displayName, Description: description}
		res.Added = append(res.Added, row)
	}

	slog.Info("import finished",
		"op_id", opID,
		"group_id", s.groupID,
		"added", len(res.Added),
		"skipped", len(res.SkippedTitles),
	)
	return res, nil
}
