// Package payments tracks who has paid their share of a group expense.
//
// The Reconciler keeps an always-consistent view of one expense's paid
// members by merging the last confirmed server state with optimistic local
// edits. A toggle is applied locally first, then confirmed remotely; on
// failure the local edit is rolled back, so the view never shows a state the
// user did not either observe from the server or just request.
package payments

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"budgeting/internal/metrics"
	"budgeting/internal/models"
)

// Service is the remote surface the reconciler drives.
type Service interface {
	Payments(ctx context.Context, expenseID models.ExpenseID) ([]models.ExpensePayment, error)
	SetPaid(ctx context.Context, expenseID models.ExpenseID, userID models.UserID, paid bool) error
}

// pendingKind is the direction of an in-flight optimistic edit. A member has
// at most one pending mark at a time; additions and removals cannot coexist.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingAdd
	pendingRemove
)

// memberState is the per-member payment state: the last confirmed server
// truth plus an optional pending edit that takes visual precedence over it.
type memberState struct {
	confirmed bool
	pending   pendingKind
}

// paid is the effective view: pending edits win over confirmed state.
func (s memberState) paid() bool {
	switch s.pending {
	case pendingAdd:
		return true
	case pendingRemove:
		return false
	}
	return s.confirmed
}

// Reconciler owns the paid/unpaid view for a single open expense.
//
// Methods are safe for concurrent use: toggles for different members may be
// in flight at the same time. Two toggles for the same member are not
// deduplicated; the later one overwrites the pending intent of the earlier.
type Reconciler struct {
	svc     Service
	expense models.Expense

	mu      sync.Mutex
	members map[models.UserID]memberState
}

// New creates a reconciler for one expense. Call Load before reading state.
func New(svc Service, expense models.Expense) *Reconciler {
	return &Reconciler{
		svc:     svc,
		expense: expense,
		members: make(map[models.UserID]memberState),
	}
}

// Load fetches the expense's payment records, replaces the confirmed state
// wholesale and discards every pending edit in favor of fresh truth.
//
// On failure the previous state is left untouched and only the error is
// surfaced; clearing it would spuriously un-mark members that already paid.
func (r *Reconciler) Load(ctx context.Context) error {
	payments, err := r.svc.Payments(ctx, r.expense.ID)
	if err != nil {
		metrics.PaymentReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("load payments for expense %d: %w", r.expense.ID, err)
	}
	metrics.PaymentReloads.WithLabelValues("ok").Inc()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = make(map[models.UserID]memberState, len(payments))
	for _, p := range payments {
		r.members[p.UserID] = memberState{confirmed: true}
	}
	return nil
}

// refresh re-fetches confirmed state while preserving pending edits, so
// other members' in-flight toggles keep their optimistic view.
func (r *Reconciler) refresh(ctx context.Context) error {
	payments, err := r.svc.Payments(ctx, r.expense.ID)
	if err != nil {
		metrics.PaymentReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("reload payments for expense %d: %w", r.expense.ID, err)
	}
	metrics.PaymentReloads.WithLabelValues("ok").Inc()

	r.mu.Lock()
	defer r.mu.Unlock()
	next := make(map[models.UserID]memberState, len(payments))
	for _, p := range payments {
		next[p.UserID] = memberState{confirmed: true}
	}
	for id, st := range r.members {
		if st.pending == pendingNone {
			continue
		}
		ns := next[id]
		ns.pending = st.pending
		next[id] = ns
	}
	r.members = next
	return nil
}

// Toggle sets the member's paid status. The change is visible through
// EffectivePaid immediately; the remote call then confirms it (followed by a
// reconciling re-fetch) or fails, in which case the member's pre-toggle
// state is restored and the error returned.
func (r *Reconciler) Toggle(ctx context.Context, userID models.UserID, paid bool) error {
	opID := uuid.NewString()

	r.mu.Lock()
	prev := r.members[userID]
	st := prev
	if paid {
		st.pending = pendingAdd
	} else {
		st.pending = pendingRemove
	}
	r.members[userID] = st
	r.mu.Unlock()

	slog.Debug("payment toggle",
		"op_id", opID,
		"expense_id", r.expense.ID,
		"user_id", userID,
		"paid", paid,
	)

	if err := r.svc.SetPaid(ctx, r.expense.ID, userID, paid); err != nil {
		r.mu.Lock()
		cur := r.members[userID]
		cur.pending = prev.pending
		r.setLocked(userID, cur)
		r.mu.Unlock()

		metrics.PaymentToggles.WithLabelValues("rolled_back").Inc()
		slog.Warn("payment toggle failed, rolled back",
			"op_id", opID,
			"expense_id", r.expense.ID,
			"user_id", userID,
			"error", err,
		)
		return fmt.Errorf("toggle payment for user %d on expense %d: %w", userID, r.expense.ID, err)
	}
	metrics.PaymentToggles.WithLabelValues("ok").Inc()

	if err := r.refresh(ctx); err != nil {
		// The toggle itself succeeded; keep the optimistic mark so the view
		// stays correct until the next successful fetch.
		slog.Warn("payments reload after toggle failed, keeping optimistic state",
			"op_id", opID,
			"expense_id", r.expense.ID,
			"user_id", userID,
			"error", err,
		)
		return nil
	}

	r.mu.Lock()
	cur := r.members[userID]
	cur.pending = pendingNone
	r.setLocked(userID, cur)
	r.mu.Unlock()
	return nil
}

// setLocked stores a member's state, dropping entries that carry no
// information. Callers must hold r.mu.
func (r *Reconciler) setLocked(userID models.UserID, st memberState) {
	if !st.confirmed && st.pending == pendingNone {
		delete(r.members, userID)
		return
	}
	r.members[userID] = st
}

// EffectivePaid returns the set of members currently shown as paid:
// confirmed state merged with pending additions minus pending removals.
func (r *Reconciler) EffectivePaid() map[models.UserID]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	paid := make(map[models.UserID]bool)
	for id, st := range r.members {
		if st.paid() {
			paid[id] = true
		}
	}
	return paid
}

// IsPaid reports the effective paid status of one member.
func (r *Reconciler) IsPaid(userID models.UserID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[userID].paid()
}

// Members filters a group's member list down to the users who get a payment
// checkbox: everyone except the expense owner, who is settled by definition.
func (r *Reconciler) Members(all []models.User) []models.User {
	shown := make([]models.User, 0, len(all))
	for _, u := range all {
		if u.ID != r.expense.UserID {
			shown = append(shown, u)
		}
	}
	return shown
}
