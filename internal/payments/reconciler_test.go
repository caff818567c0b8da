package payments

import (
	"context"
	"errors"
	"sync"
	"testing"

	"budgeting/internal/models"
)

// fakeService is an in-memory payment backend with switchable failures.
type fakeService struct {
	mu   sync.Mutex
	paid map[models.UserID]bool

	paymentsErr error
	setPaidErr  error

	// entered, when set, receives once per SetPaid call before it returns,
	// and release gates the return. Used to observe in-flight toggles.
	entered chan struct{}
	release chan struct{}

	paymentsCalls int
	setPaidCalls  int
}

func newFakeService(paidUsers ...models.UserID) *fakeService {
	paid := make(map[models.UserID]bool)
	for _, u := range paidUsers {
		paid[u] = true
	}
	return &fakeService{paid: paid}
}

func (f *fakeService) Payments(ctx context.Context, id models.ExpenseID) ([]models.ExpensePayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentsCalls++
	if f.paymentsErr != nil {
		return nil, f.paymentsErr
	}
	var out []models.ExpensePayment
	for u := range f.paid {
		out = append(out, models.ExpensePayment{ExpenseID: id, UserID: u})
	}
	return out, nil
}

func (f *fakeService) SetPaid(ctx context.Context, id models.ExpenseID, user models.UserID, paid bool) error {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setPaidCalls++
	if f.setPaidErr != nil {
		return f.setPaidErr
	}
	if paid {
		f.paid[user] = true
	} else {
		delete(f.paid, user)
	}
	return nil
}

func testExpense() models.Expense {
	return models.Expense{ID: 10, UserID: 1, GroupID: 7, Title: "Groceries"}
}

func paidSet(r *Reconciler) map[models.UserID]bool {
	return r.EffectivePaid()
}

func TestLoadReplacesState(t *testing.T) {
	svc := newFakeService(2, 3)
	r := New(svc, testExpense())

	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := paidSet(r)
	if len(got) != 2 || !got[2] || !got[3] {
		t.Errorf("EffectivePaid = %v, want {2,3}", got)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	svc := newFakeService(2, 3)
	r := New(svc, testExpense())

	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	first := paidSet(r)
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	second := paidSet(r)

	if len(first) != len(second) {
		t.Fatalf("Load not idempotent: %v vs %v", first, second)
	}
	for u := range first {
		if !second[u] {
			t.Errorf("user %d paid after first Load but not second", u)
		}
	}
}

func TestLoadFailurePreservesState(t *testing.T) {
	svc := newFakeService(2, 3)
	r := New(svc, testExpense())
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	svc.paymentsErr = errors.New("server down")
	if err := r.Load(context.Background()); err == nil {
		t.Fatal("Load should fail when the fetch fails")
	}

	got := paidSet(r)
	if len(got) != 2 || !got[2] || !got[3] {
		t.Errorf("EffectivePaid after failed Load = %v, want {2,3} untouched", got)
	}
}

func TestToggleOptimisticVisibility(t *testing.T) {
	svc := newFakeService()
	r := New(svc, testExpense())
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	svc.entered = make(chan struct{}, 1)
	svc.release = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- r.Toggle(context.Background(), 5, true) }()

	<-svc.entered
	if !r.IsPaid(5) {
		t.Error("user 5 not shown paid while the toggle is in flight")
	}
	close(svc.release)
	svc.entered = nil

	if err := <-done; err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !r.IsPaid(5) {
		t.Error("user 5 not paid after successful toggle")
	}
}

func TestToggleRollbackOnFailure(t *testing.T) {
	// Scenario: confirmed paid {2,3}; toggling user 5 to paid shows {2,3,5}
	// optimistically, and the failed remote call restores {2,3}.
	svc := newFakeService(2, 3)
	r := New(svc, testExpense())
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	svc.setPaidErr = errors.New("boom")
	if err := r.Toggle(context.Background(), 5, true); err == nil {
		t.Fatal("Toggle should return the remote failure")
	}

	got := paidSet(r)
	if len(got) != 2 || !got[2] || !got[3] {
		t.Errorf("EffectivePaid after rollback = %v, want {2,3}", got)
	}
}

func TestToggleUnpaidRollbackRestoresPaid(t *testing.T) {
	svc := newFakeService(2)
	r := New(svc, testExpense())
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	svc.setPaidErr = errors.New("boom")
	if err := r.Toggle(context.Background(), 2, false); err == nil {
		t.Fatal("Toggle should return the remote failure")
	}
	if !r.IsPaid(2) {
		t.Error("user 2 should be back to paid after rollback")
	}
}

func TestToggleSuccessReconciles(t *testing.T) {
	svc := newFakeService(2)
	r := New(svc, testExpense())
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := r.Toggle(context.Background(), 5, true); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	got := paidSet(r)
	if len(got) != 2 || !got[2] || !got[5] {
		t.Errorf("EffectivePaid = %v, want {2,5}", got)
	}

	// A fresh Load (clearing any pending state) must agree: the paid mark
	// is confirmed server state now, not a leftover optimistic edit.
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !r.IsPaid(5) {
		t.Error("user 5 should be confirmed paid after reconciliation")
	}
}

func TestToggleKeepsOptimisticWhenReloadFails(t *testing.T) {
	svc := newFakeService()
	r := New(svc, testExpense())
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// The toggle call itself succeeds; only the follow-up fetch fails.
	svc.mu.Lock()
	svc.paymentsErr = errors.New("flaky")
	svc.mu.Unlock()

	if err := r.Toggle(context.Background(), 5, true); err != nil {
		t.Fatalf("Toggle should not fail when only the reload fails: %v", err)
	}
	if !r.IsPaid(5) {
		t.Error("optimistic paid mark should survive a failed reload")
	}
}

func TestConcurrentTogglesOnDifferentMembers(t *testing.T) {
	svc := newFakeService()
	r := New(svc, testExpense())
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	svc.entered = make(chan struct{}, 2)
	svc.release = make(chan struct{})

	done := make(chan error, 2)
	go func() { done <- r.Toggle(context.Background(), 4, true) }()
	go func() { done <- r.Toggle(context.Background(), 5, true) }()

	// Both toggles in flight at once; both already visible.
	<-svc.entered
	<-svc.entered
	if !r.IsPaid(4) || !r.IsPaid(5) {
		t.Error("both in-flight toggles should be visible")
	}
	close(svc.release)
	svc.entered = nil

	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("Toggle failed: %v", err)
		}
	}
	got := paidSet(r)
	if !got[4] || !got[5] {
		t.Errorf("EffectivePaid = %v, want 4 and 5 paid", got)
	}
}

func TestMembersExcludesOwner(t *testing.T) {
	r := New(newFakeService(), testExpense()) // owner is user 1
	all := []models.User{
		{ID: 1, FirstName: "Olive", LastName: "Owner"},
		{ID: 2, FirstName: "Max", LastName: "Member"},
		{ID: 3, FirstName: "Mia", LastName: "Member"},
	}

	shown := r.Members(all)
	if len(shown) != 2 {
		t.Fatalf("Members returned %d users, want 2", len(shown))
	}
	for _, u := range shown {
		if u.ID == 1 {
			t.Error("expense owner must not get a payment checkbox")
		}
	}
}
