package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "quickshow/internal/bookings/errors"
	"quickshow/internal/bookings/repository"
	showserrors "quickshow/internal/shows/errors"
	showsrepo "quickshow/internal/shows/repository"
	"quickshow/pkg/durable"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/logger"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReleaseService cancels bookings that were never paid for. The seats a
// booking holds stay reserved for a fixed hold window after creation;
// once that window passes an unpaid booking is torn down and its seats
// returned to the pool.
type ReleaseService struct {
	bookings repository.BookingRepository
	shows    showsrepo.ShowRepository
	log      *logger.Logger
}

func NewReleaseService(bookings repository.BookingRepository, shows showsrepo.ShowRepository, log *logger.Logger) *ReleaseService {
	return &ReleaseService{
		bookings: bookings,
		shows:    shows,
		log:      log.WithComponent("booking-release"),
	}
}

// Release waits out the hold window, then deletes the booking and frees
// its seats if payment never arrived. The deadline is anchored to the
// first delivery of the triggering event, so a redelivery after a crash
// does not restart the clock.
//
// A booking that is already paid, or already gone, is left alone and the
// invocation still succeeds.
func (s *ReleaseService) Release(ctx context.Context, inv *durable.Invocation, bookingID string, deadline time.Time) error {
	if bookingID == "" {
		return apperrors.InvalidInput("booking ID cannot be empty")
	}

	if err := inv.SleepUntil(ctx, "wait-for-hold-window", deadline); err != nil {
		return err
	}

	return inv.Run(ctx, "release-unpaid-booking", func(ctx context.Context) error {
		return s.releaseIfUnpaid(ctx, bookingID)
	})
}

func (s *ReleaseService) releaseIfUnpaid(ctx context.Context, bookingID string) error {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			// Already released, or never existed. Nothing to undo.
			s.log.Info("Booking gone before hold expiry, nothing to release", "booking_id", bookingID)
			return nil
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput(fmt.Sprintf("invalid booking ID: %s", bookingID))
		}
		return apperrors.Internal("failed to load booking", err)
	}

	if booking.IsPaid {
		s.log.Info("Booking paid within hold window", "booking_id", bookingID)
		return nil
	}

	// Seat release and booking deletion must land together; a crash
	// between the two would otherwise leak held seats or resurrect a
	// deleted booking's seats on redelivery.
	err = s.bookings.ExecuteTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.shows.ReleaseSeats(sc, booking.Show, booking.BookedSeats); err != nil {
			if errors.Is(err, showserrors.ErrNotFound) || errors.Is(err, showserrors.ErrInvalidID) {
				s.log.Warn("Show missing while releasing seats", "booking_id", bookingID, "show_id", booking.Show)
			} else {
				return err
			}
		}
		if err := s.bookings.Delete(sc, booking.ID); err != nil && !errors.Is(err, bookingserrors.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return apperrors.Internal("failed to release unpaid booking", err)
	}

	s.log.Info("Released unpaid booking",
		"booking_id", bookingID,
		"show_id", booking.Show,
		"seats", len(booking.BookedSeats),
	)
	return nil
}
