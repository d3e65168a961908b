package service

import (
	"context"
	"fmt"
	usersrepo "quickshow/internal/users/repository"
	"quickshow/pkg/durable"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/logger"
	"quickshow/pkg/mailer"
)

// BroadcastService announces a newly added show to every registered
// user. Users are scanned in pages so an arbitrarily large audience
// never has to fit in memory, and sends stay serial to keep the mail
// relay happy.
type BroadcastService struct {
	users    usersrepo.UserRepository
	sender   mailer.Sender
	pageSize int
	log      *logger.Logger
}

func NewBroadcastService(users usersrepo.UserRepository, sender mailer.Sender, pageSize int, log *logger.Logger) *BroadcastService {
	if pageSize < 1 {
		pageSize = 1
	}
	return &BroadcastService{
		users:    users,
		sender:   sender,
		pageSize: pageSize,
		log:      log.WithComponent("show-broadcast"),
	}
}

// Announce emails every user about the new show as one durable step.
// Individual send failures are logged and skipped; the announcement is
// best effort per user.
func (s *BroadcastService) Announce(ctx context.Context, inv *durable.Invocation, movieTitle string) error {
	if movieTitle == "" {
		return apperrors.InvalidInput("movie title cannot be empty")
	}

	return inv.Run(ctx, "send-new-show-notifications", func(ctx context.Context) error {
		return s.announce(ctx, movieTitle)
	})
}

func (s *BroadcastService) announce(ctx context.Context, movieTitle string) error {
	total, err := s.users.Count(ctx)
	if err != nil {
		return apperrors.Internal("failed to count users", err)
	}
	s.log.Info("Announcing new show", "movie", movieTitle, "audience", total)

	var (
		offset int64
		sent   int
		failed int
	)

	for {
		users, err := s.users.FindPage(ctx, s.pageSize, offset)
		if err != nil {
			return apperrors.Internal("failed to page users", err)
		}
		if len(users) == 0 {
			break
		}

		for _, user := range users {
			email := mailer.Email{
				To:      user.Email,
				Subject: fmt.Sprintf("🎬 New Show Added: %s", movieTitle),
				Body:    s.announcementBody(user.Name, movieTitle),
			}
			if err := s.sender.Send(ctx, email); err != nil {
				failed++
				s.log.Error("Failed to send announcement", "to", user.Email, "error", err)
				continue
			}
			sent++
		}

		offset += int64(len(users))
		if len(users) < s.pageSize {
			break
		}
	}

	s.log.Info("Notifications sent.", "movie", movieTitle, "sent", sent, "failed", failed)
	return nil
}

func (s *BroadcastService) announcementBody(userName, movieTitle string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 24px; background-color: #f9f9f9; border-radius: 10px; color: #333;">
    <h2 style="color: #F84565;">🍿 Hello %s,</h2>
    <p style="font-size: 16px;">
        We're excited to announce a brand-new movie show just added to our platform!
    </p>
    <div style="padding: 16px; background-color: #fff; border-left: 5px solid #F84565; margin: 20px 0; border-radius: 6px;">
        <h3 style="margin: 0; color: #000;">🎬 <span style="color: #F84565;">%s</span></h3>
        <p style="margin: 8px 0 0; font-size: 15px;">Now available for booking on <strong>QuickShow</strong>.</p>
    </div>
    <p style="margin-top: 30px; font-size: 14px; color: #555;">Thank you for being part of QuickShow!<br/>— The QuickShow Team</p>
</div>`, userName, movieTitle)
}
