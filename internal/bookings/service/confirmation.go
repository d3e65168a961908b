package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "quickshow/internal/bookings/errors"
	"quickshow/internal/bookings/repository"
	movieserrors "quickshow/internal/movies/errors"
	moviesrepo "quickshow/internal/movies/repository"
	showserrors "quickshow/internal/shows/errors"
	showsrepo "quickshow/internal/shows/repository"
	usersrepo "quickshow/internal/users/repository"
	"quickshow/pkg/durable"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/logger"
	"quickshow/pkg/mailer"
	"quickshow/pkg/model"
	"time"
)

// ConfirmationService emails a user once their booking is confirmed.
type ConfirmationService struct {
	bookings repository.BookingRepository
	shows    showsrepo.ShowRepository
	movies   moviesrepo.MovieRepository
	users    usersrepo.UserRepository
	sender   mailer.Sender
	location *time.Location
	log      *logger.Logger
}

func NewConfirmationService(
	bookings repository.BookingRepository,
	shows showsrepo.ShowRepository,
	movies moviesrepo.MovieRepository,
	users usersrepo.UserRepository,
	sender mailer.Sender,
	location *time.Location,
	log *logger.Logger,
) *ConfirmationService {
	return &ConfirmationService{
		bookings: bookings,
		shows:    shows,
		movies:   movies,
		users:    users,
		sender:   sender,
		location: location,
		log:      log.WithComponent("booking-confirmation"),
	}
}

// SendConfirmation resolves the booking's show, movie and user, then
// sends the confirmation email as a single durable step. A redelivered
// event after a successful send does not email the user twice.
func (s *ConfirmationService) SendConfirmation(ctx context.Context, inv *durable.Invocation, bookingID string) error {
	if bookingID == "" {
		return apperrors.InvalidInput("booking ID cannot be empty")
	}

	return inv.Run(ctx, "send-confirmation-email", func(ctx context.Context) error {
		return s.sendConfirmation(ctx, bookingID)
	})
}

func (s *ConfirmationService) sendConfirmation(ctx context.Context, bookingID string) error {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput(fmt.Sprintf("invalid booking ID: %s", bookingID))
		}
		return apperrors.Internal("failed to load booking", err)
	}

	show, err := s.shows.FindByID(ctx, booking.Show)
	if err != nil {
		if errors.Is(err, showserrors.ErrNotFound) || errors.Is(err, showserrors.ErrInvalidID) {
			return apperrors.NotFoundWithID("show", booking.Show)
		}
		return apperrors.Internal("failed to load show", err)
	}

	movie, err := s.movies.FindByID(ctx, show.Movie)
	if err != nil {
		if errors.Is(err, movieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("movie", show.Movie)
		}
		return apperrors.Internal("failed to load movie", err)
	}

	users, err := s.users.FindByIDs(ctx, []string{booking.User})
	if err != nil {
		return apperrors.Internal("failed to load user", err)
	}
	if len(users) == 0 {
		return apperrors.NotFoundWithID("user", booking.User)
	}
	user := users[0]

	email := mailer.Email{
		To:      user.Email,
		Subject: fmt.Sprintf("🎉 Booking Confirmed: %q - See You Soon!", movie.Title),
		Body:    s.confirmationBody(user, movie, show),
	}
	if err := s.sender.Send(ctx, email); err != nil {
		return apperrors.Wrap(err, apperrors.CodeUnavailable, "failed to send confirmation email")
	}

	s.log.Info("Sent booking confirmation",
		"booking_id", bookingID,
		"user_id", user.ID,
		"movie", movie.Title,
	)
	return nil
}

func (s *ConfirmationService) confirmationBody(user *model.User, movie *model.Movie, show *model.Show) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 24px; background-color: #fefefe; border-radius: 10px; color: #333;">
    <h2 style="color: #28a745;">Hi %s,</h2>
    <p style="font-size: 16px;">
        Your booking for <strong style="color: #F84565;">%q</strong> has been successfully confirmed! 🎟️
    </p>
    <div style="margin: 20px 0; padding: 16px; background-color: #f8f9fa; border-left: 5px solid #28a745; border-radius: 6px;">
        <p><strong>Date:</strong> %s</p>
        <p><strong>Time:</strong> %s</p>
    </div>
    <p style="font-size: 15px;">We're thrilled to have you! Get ready for an amazing movie experience. 🍿</p>
    <br/>
    <p style="font-size: 14px; color: #555;">Thanks for booking with us!<br/><strong>- QuickShow Team</strong></p>
</div>`,
		user.Name,
		movie.Title,
		mailer.FormatDate(show.ShowDateTime, s.location),
		mailer.FormatTime(show.ShowDateTime, s.location),
	)
}
