package service

import (
	"context"
	"errors"
	bookingserrors "quickshow/internal/bookings/errors"
	showserrors "quickshow/internal/shows/errors"
	"quickshow/pkg/durable"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/logger"
	"quickshow/pkg/model"
	"testing"
	"time"
)

func newTestInvocation(id string) *durable.Invocation {
	return durable.NewInvocation(id, durable.NewMemoryLedger(), logger.Discard())
}

func pastDeadline() time.Time {
	return time.Now().Add(-time.Minute)
}

func TestRelease_UnpaidBookingIsReleased(t *testing.T) {
	booking := &model.Booking{
		ID:          "64b0f3f1a2b3c4d5e6f70809",
		User:        "user_1",
		Show:        "64b0f3f1a2b3c4d5e6f7080a",
		BookedSeats: []string{"A1", "A2"},
		IsPaid:      false,
	}

	var releasedShow string
	var releasedSeats []string
	deleted := false

	bookings := &mockBookingRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
		DeleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	shows := &mockShowRepository{
		ReleaseSeatsFn: func(ctx context.Context, showID string, seats []string) error {
			releasedShow = showID
			releasedSeats = seats
			return nil
		},
	}

	svc := NewReleaseService(bookings, shows, logger.Discard())
	err := svc.Release(context.Background(), newTestInvocation("evt-1"), booking.ID, pastDeadline())
	if err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if releasedShow != booking.Show {
		t.Errorf("released seats on show %q, want %q", releasedShow, booking.Show)
	}
	if len(releasedSeats) != 2 {
		t.Errorf("released %d seats, want 2", len(releasedSeats))
	}
	if !deleted {
		t.Error("expected booking to be deleted")
	}
}

func TestRelease_PaidBookingIsLeftAlone(t *testing.T) {
	bookings := &mockBookingRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Show: "s1", IsPaid: true}, nil
		},
		DeleteFn: func(ctx context.Context, id string) error {
			t.Fatal("Delete should not be called for a paid booking")
			return nil
		},
	}
	shows := &mockShowRepository{
		ReleaseSeatsFn: func(ctx context.Context, showID string, seats []string) error {
			t.Fatal("ReleaseSeats should not be called for a paid booking")
			return nil
		},
	}

	svc := NewReleaseService(bookings, shows, logger.Discard())
	err := svc.Release(context.Background(), newTestInvocation("evt-2"), "64b0f3f1a2b3c4d5e6f70809", pastDeadline())
	if err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestRelease_MissingBookingIsNoOp(t *testing.T) {
	bookings := &mockBookingRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
	}
	shows := &mockShowRepository{}

	svc := NewReleaseService(bookings, shows, logger.Discard())
	err := svc.Release(context.Background(), newTestInvocation("evt-3"), "64b0f3f1a2b3c4d5e6f70809", pastDeadline())
	if err != nil {
		t.Fatalf("Release() error = %v, want nil for already-gone booking", err)
	}
}

func TestRelease_MissingShowStillDeletesBooking(t *testing.T) {
	deleted := false
	bookings := &mockBookingRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Show: "s1", BookedSeats: []string{"B1"}}, nil
		},
		DeleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	shows := &mockShowRepository{
		ReleaseSeatsFn: func(ctx context.Context, showID string, seats []string) error {
			return showserrors.ErrNotFound
		},
	}

	svc := NewReleaseService(bookings, shows, logger.Discard())
	err := svc.Release(context.Background(), newTestInvocation("evt-4"), "64b0f3f1a2b3c4d5e6f70809", pastDeadline())
	if err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if !deleted {
		t.Error("expected booking to be deleted even though show is gone")
	}
}

func TestRelease_InvalidBookingIDIsPermanent(t *testing.T) {
	bookings := &mockBookingRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrInvalidID
		},
	}

	svc := NewReleaseService(bookings, &mockShowRepository{}, logger.Discard())
	err := svc.Release(context.Background(), newTestInvocation("evt-5"), "not-an-object-id", pastDeadline())
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("Release() error = %v, want %s", err, apperrors.CodeInvalidInput)
	}
	if !apperrors.IsPermanent(err) {
		t.Error("invalid booking ID should be permanent")
	}
}

func TestRelease_EmptyBookingID(t *testing.T) {
	svc := NewReleaseService(&mockBookingRepository{}, &mockShowRepository{}, logger.Discard())
	err := svc.Release(context.Background(), newTestInvocation("evt-6"), "", pastDeadline())
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("Release() error = %v, want %s", err, apperrors.CodeInvalidInput)
	}
}

func TestRelease_RedeliveryAfterCompletionSkipsStep(t *testing.T) {
	calls := 0
	bookings := &mockBookingRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			calls++
			return nil, bookingserrors.ErrNotFound
		},
	}

	svc := NewReleaseService(bookings, &mockShowRepository{}, logger.Discard())
	inv := newTestInvocation("evt-7")

	for i := 0; i < 2; i++ {
		if err := svc.Release(context.Background(), inv, "64b0f3f1a2b3c4d5e6f70809", pastDeadline()); err != nil {
			t.Fatalf("Release() attempt %d error = %v", i+1, err)
		}
	}
	if calls != 1 {
		t.Errorf("FindByID called %d times across redeliveries, want 1", calls)
	}
}

func TestRelease_TransactionFailureIsRetryable(t *testing.T) {
	bookings := &mockBookingRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Show: "s1", BookedSeats: []string{"C3"}}, nil
		},
		DeleteFn: func(ctx context.Context, id string) error {
			return errors.New("connection reset")
		},
	}
	shows := &mockShowRepository{
		ReleaseSeatsFn: func(ctx context.Context, showID string, seats []string) error {
			return nil
		},
	}

	svc := NewReleaseService(bookings, shows, logger.Discard())
	err := svc.Release(context.Background(), newTestInvocation("evt-8"), "64b0f3f1a2b3c4d5e6f70809", pastDeadline())
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Fatalf("Release() error = %v, want %s", err, apperrors.CodeInternal)
	}
	if apperrors.IsPermanent(err) {
		t.Error("transaction failure should be retryable")
	}
}
