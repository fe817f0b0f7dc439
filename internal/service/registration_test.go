package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eventmate/eventmate-go/internal/apperror"
	"github.com/eventmate/eventmate-go/internal/model"
	"github.com/eventmate/eventmate-go/internal/service/servicetest"
)

func setupRegistrations(t *testing.T) (*servicetest.DB, *RegistrationService, int64) {
	t.Helper()
	db := servicetest.New()
	e := &model.Event{Title: "Concert", Date: "2025-11-02"}
	if err := db.Events().Create(context.Background(), e); err != nil {
		t.Fatalf("creating event: %v", err)
	}
	return db, NewRegistrationService(db.Events(), db.Registrations()), e.ID
}

func TestRegisterTwiceThenCancel(t *testing.T) {
	_, svc, eventID := setupRegistrations(t)
	ctx := context.Background()

	if err := svc.Register(ctx, 1, eventID); err != nil {
		t.Fatalf("first Register() unexpected error: %v", err)
	}
	if err := svc.Register(ctx, 1, eventID); err != ErrAlreadyRegistered {
		t.Fatalf("second Register() error = %v, want ErrAlreadyRegistered", err)
	}
	if err := svc.Cancel(ctx, 1, eventID); err != nil {
		t.Fatalf("Cancel() unexpected error: %v", err)
	}
	if err := svc.Register(ctx, 1, eventID); err != nil {
		t.Fatalf("Register() after cancel unexpected error: %v", err)
	}
}

func TestRegisterMissingEvent(t *testing.T) {
	db, svc, _ := setupRegistrations(t)

	for _, id := range []int64{0, 999, -1} {
		if err := svc.Register(context.Background(), 1, id); err != ErrEventNotFound {
			t.Errorf("Register(event %d) error = %v, want ErrEventNotFound", id, err)
		}
	}
	if n := db.RegistrationCount(); n != 0 {
		t.Errorf("registrations = %d, want 0", n)
	}
}

func TestCancelNotRegistered(t *testing.T) {
	_, svc, eventID := setupRegistrations(t)
	ctx := context.Background()

	if err := svc.Cancel(ctx, 1, eventID); err != ErrNotRegistered {
		t.Errorf("Cancel() error = %v, want ErrNotRegistered", err)
	}

	if err := svc.Register(ctx, 1, eventID); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	if err := svc.Cancel(ctx, 1, eventID); err != nil {
		t.Fatalf("Cancel() unexpected error: %v", err)
	}
	if err := svc.Cancel(ctx, 1, eventID); err != ErrNotRegistered {
		t.Errorf("repeated Cancel() error = %v, want ErrNotRegistered", err)
	}
}

func TestRegisterConcurrentDuplicates(t *testing.T) {
	db, svc, eventID := setupRegistrations(t)

	const n = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		rejected int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.Register(context.Background(), 7, eventID)
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				success++
			case ErrAlreadyRegistered:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 1 || rejected != n-1 {
		t.Errorf("success = %d, rejected = %d; want 1 and %d", success, rejected, n-1)
	}
	if got := db.RegistrationCount(); got != 1 {
		t.Errorf("registrations = %d, want 1", got)
	}
}

func TestListForEventNewestFirst(t *testing.T) {
	db, svc, eventID := setupRegistrations(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		if err := db.Users().Create(ctx, &model.User{Name: name, Username: name, Role: model.RoleUser}); err != nil {
			t.Fatalf("creating user: %v", err)
		}
	}

	base := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	for i, userID := range []int64{1, 2, 3} {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if err := svc.Register(ctx, userID, eventID); err != nil {
			t.Fatalf("Register(%d) unexpected error: %v", userID, err)
		}
	}

	regs, err := svc.ListForEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("ListForEvent() unexpected error: %v", err)
	}
	if len(regs) != 3 {
		t.Fatalf("ListForEvent() returned %d rows, want 3", len(regs))
	}
	if regs[0].Username != "carol" || regs[2].Username != "alice" {
		t.Errorf("unexpected order: %+v", regs)
	}

	events, err := svc.ListForUser(ctx, 2)
	if err != nil {
		t.Fatalf("ListForUser() unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].ID != eventID {
		t.Errorf("ListForUser() = %+v", events)
	}
}

func TestRegisterStorageFailure(t *testing.T) {
	db, svc, eventID := setupRegistrations(t)
	db.Err = errors.New("deadlock")

	err := svc.Register(context.Background(), 1, eventID)
	if !apperror.Is(err, apperror.InternalError) {
		t.Errorf("expected InternalError, got %v", err)
	}
}
