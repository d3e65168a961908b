package service

import (
	"context"
	"errors"
	bookingserrors "quickshow/internal/bookings/errors"
	showserrors "quickshow/internal/shows/errors"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/logger"
	"quickshow/pkg/mailer"
	"quickshow/pkg/model"
	"strings"
	"testing"
	"time"
)

func confirmationFixtures() (*mockBookingRepository, *mockShowRepository, *mockMovieRepository, *mockUserRepository) {
	showTime := time.Date(2026, time.July, 4, 13, 0, 0, 0, time.UTC)

	bookings := &mockBookingRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, User: "user_1", Show: "show-1", BookedSeats: []string{"A1"}}, nil
		},
	}
	shows := &mockShowRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Show, error) {
			return &model.Show{ID: id, Movie: "550", ShowDateTime: showTime}, nil
		},
	}
	movies := &mockMovieRepository{
		FindByIDFn: func(ctx context.Context, id string) (*model.Movie, error) {
			return &model.Movie{ID: id, Title: "Fight Club"}, nil
		},
	}
	users := &mockUserRepository{
		FindByIDsFn: func(ctx context.Context, ids []string) ([]*model.User, error) {
			return []*model.User{{ID: "user_1", Name: "Jane Doe", Email: "jane@example.com"}}, nil
		},
	}
	return bookings, shows, movies, users
}

func TestSendConfirmation_EmailContent(t *testing.T) {
	bookings, shows, movies, users := confirmationFixtures()
	sender := &mockSender{}
	kolkata, _ := time.LoadLocation("Asia/Kolkata")

	svc := NewConfirmationService(bookings, shows, movies, users, sender, kolkata, logger.Discard())
	err := svc.SendConfirmation(context.Background(), newTestInvocation("evt-c1"), "64b0f3f1a2b3c4d5e6f70809")
	if err != nil {
		t.Fatalf("SendConfirmation() error = %v", err)
	}

	sent := sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sent))
	}
	email := sent[0]
	if email.To != "jane@example.com" {
		t.Errorf("To = %q, want jane@example.com", email.To)
	}
	if !strings.Contains(email.Subject, "Fight Club") {
		t.Errorf("Subject = %q, want movie title", email.Subject)
	}
	if !strings.Contains(email.Body, "Jane Doe") {
		t.Error("body should greet the user by name")
	}
	// 13:00 UTC is 18:30 in Kolkata.
	if !strings.Contains(email.Body, "7/4/2026") || !strings.Contains(email.Body, "6:30:00 PM") {
		t.Errorf("body missing localized show time: %s", email.Body)
	}
}

func TestSendConfirmation_RedeliveryDoesNotResend(t *testing.T) {
	bookings, shows, movies, users := confirmationFixtures()
	sender := &mockSender{}

	svc := NewConfirmationService(bookings, shows, movies, users, sender, time.UTC, logger.Discard())
	inv := newTestInvocation("evt-c2")

	for i := 0; i < 3; i++ {
		if err := svc.SendConfirmation(context.Background(), inv, "64b0f3f1a2b3c4d5e6f70809"); err != nil {
			t.Fatalf("SendConfirmation() attempt %d error = %v", i+1, err)
		}
	}
	if got := len(sender.Sent()); got != 1 {
		t.Errorf("sent %d emails across redeliveries, want 1", got)
	}
}

func TestSendConfirmation_MissingRecords(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mockBookingRepository, *mockShowRepository, *mockMovieRepository, *mockUserRepository)
	}{
		{
			name: "booking gone",
			setup: func(b *mockBookingRepository, _ *mockShowRepository, _ *mockMovieRepository, _ *mockUserRepository) {
				b.FindByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
					return nil, bookingserrors.ErrNotFound
				}
			},
		},
		{
			name: "show gone",
			setup: func(_ *mockBookingRepository, s *mockShowRepository, _ *mockMovieRepository, _ *mockUserRepository) {
				s.FindByIDFn = func(ctx context.Context, id string) (*model.Show, error) {
					return nil, showserrors.ErrNotFound
				}
			},
		},
		{
			name: "user gone",
			setup: func(_ *mockBookingRepository, _ *mockShowRepository, _ *mockMovieRepository, u *mockUserRepository) {
				u.FindByIDsFn = func(ctx context.Context, ids []string) ([]*model.User, error) {
					return nil, nil
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, shows, movies, users := confirmationFixtures()
			tt.setup(bookings, shows, movies, users)
			sender := &mockSender{}

			svc := NewConfirmationService(bookings, shows, movies, users, sender, time.UTC, logger.Discard())
			err := svc.SendConfirmation(context.Background(), newTestInvocation("evt-"+tt.name), "64b0f3f1a2b3c4d5e6f70809")
			if !apperrors.HasCode(err, apperrors.CodeNotFound) {
				t.Fatalf("SendConfirmation() error = %v, want %s", err, apperrors.CodeNotFound)
			}
			if len(sender.Sent()) != 0 {
				t.Error("no email should be sent when a record is missing")
			}
		})
	}
}

func TestSendConfirmation_TransientLookupFailureIsRetryable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mockBookingRepository, *mockShowRepository, *mockMovieRepository, *mockUserRepository)
	}{
		{
			name: "show lookup fails",
			setup: func(_ *mockBookingRepository, s *mockShowRepository, _ *mockMovieRepository, _ *mockUserRepository) {
				s.FindByIDFn = func(ctx context.Context, id string) (*model.Show, error) {
					return nil, errors.New("connection reset by peer")
				}
			},
		},
		{
			name: "movie lookup fails",
			setup: func(_ *mockBookingRepository, _ *mockShowRepository, m *mockMovieRepository, _ *mockUserRepository) {
				m.FindByIDFn = func(ctx context.Context, id string) (*model.Movie, error) {
					return nil, errors.New("connection reset by peer")
				}
			},
		},
		{
			name: "user lookup fails",
			setup: func(_ *mockBookingRepository, _ *mockShowRepository, _ *mockMovieRepository, u *mockUserRepository) {
				u.FindByIDsFn = func(ctx context.Context, ids []string) ([]*model.User, error) {
					return nil, errors.New("connection reset by peer")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings, shows, movies, users := confirmationFixtures()
			tt.setup(bookings, shows, movies, users)
			sender := &mockSender{}

			svc := NewConfirmationService(bookings, shows, movies, users, sender, time.UTC, logger.Discard())
			err := svc.SendConfirmation(context.Background(), newTestInvocation("evt-"+tt.name), "64b0f3f1a2b3c4d5e6f70809")
			if !apperrors.HasCode(err, apperrors.CodeInternal) {
				t.Fatalf("SendConfirmation() error = %v, want %s", err, apperrors.CodeInternal)
			}
			if apperrors.IsPermanent(err) {
				t.Error("infrastructure failure during lookup should be retryable")
			}
			if len(sender.Sent()) != 0 {
				t.Error("no email should be sent when a lookup fails")
			}
		})
	}
}

func TestSendConfirmation_SendFailureIsRetryable(t *testing.T) {
	bookings, shows, movies, users := confirmationFixtures()
	sender := &mockSender{
		SendFn: func(ctx context.Context, email mailer.Email) error {
			return context.DeadlineExceeded
		},
	}

	svc := NewConfirmationService(bookings, shows, movies, users, sender, time.UTC, logger.Discard())
	err := svc.SendConfirmation(context.Background(), newTestInvocation("evt-c3"), "64b0f3f1a2b3c4d5e6f70809")
	if !apperrors.HasCode(err, apperrors.CodeUnavailable) {
		t.Fatalf("SendConfirmation() error = %v, want %s", err, apperrors.CodeUnavailable)
	}
	if apperrors.IsPermanent(err) {
		t.Error("send failure should be retryable")
	}
}
