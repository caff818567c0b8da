// Package groups implements the group-side expense list: loading a group's
// members and expenses, and importing personal expenses into the group.
//
// A personal expense and its group copy share no foreign key, so "already
// imported" can only be inferred structurally: same title, amount, category
// and owner. The matcher here is deliberately a pure function; it runs once
// to build the candidate list offered to the user and again at commit time,
// because the group may have grown in between.
package groups

import "budgeting/internal/models"

// IsStructuralDuplicate reports whether a candidate personal expense already
// exists in the group as a copy owned by the current user: identical title,
// amount and category. Identity is ignored because the group copy always has
// a different id than the personal original.
func IsStructuralDuplicate(candidate models.Expense, existing []GroupExpense, currentUser models.UserID) bool {
	for _, ge := range existing {
		e := ge.Expense
		if e.Title == candidate.Title &&
			e.Amount.Equal(candidate.Amount) &&
			e.CategoryID == candidate.CategoryID &&
			e.UserID == currentUser {
			return true
		}
	}
	return false
}

// FilterImportable returns the candidates that are safe to offer for import
// into the group, preserving input order. A candidate survives iff it is a
// personal expense, it is owned by the current user (an unassigned owner
// counts as the current user's personal default), its id is not already
// present in the group, and no existing group expense matches it
// structurally. Deterministic, no I/O.
func FilterImportable(candidates []models.Expense, existing []GroupExpense, currentUser models.UserID) []models.Expense {
	existingIDs := make(map[models.ExpenseID]bool, len(existing))
	for _, ge := range existing {
		if ge.Expense.ID.Valid() {
			existingIDs[ge.Expense.ID] = true
		}
	}

	importable := make([]models.Expense, 0, len(candidates))
	for _, c := range candidates {
		if c.GroupID.Valid() {
			continue
		}
		if c.UserID.Valid() && c.UserID != currentUser {
			continue
		}
		if c.ID.Valid() && existingIDs[c.ID] {
			continue
		}
		if IsStructuralDuplicate(c, existing, currentUser) {
			continue
		}
		importable = append(importable, c)
	}
	return importable
}
