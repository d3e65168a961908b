package service

import (
	"context"
	"errors"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/logger"
	"quickshow/pkg/mailer"
	"quickshow/pkg/model"
	"strings"
	"testing"
)

func pagedUsers(total int) *mockUserRepository {
	all := make([]*model.User, total)
	for i := range all {
		all[i] = &model.User{
			ID:    "user_" + string(rune('a'+i)),
			Name:  "User " + string(rune('A'+i)),
			Email: string(rune('a'+i)) + "@example.com",
		}
	}
	page := func(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
		if offset >= int64(total) {
			return nil, nil
		}
		end := offset + int64(limit)
		if end > int64(total) {
			end = int64(total)
		}
		return all[offset:end], nil
	}
	return &mockUserRepository{
		FindPageFn: page,
		CountFn: func(ctx context.Context) (int64, error) {
			return int64(total), nil
		},
	}
}

func TestAnnounce_EmailsEveryUserAcrossPages(t *testing.T) {
	users := pagedUsers(7)
	sender := &mockSender{}

	svc := NewBroadcastService(users, sender, 3, logger.Discard())
	err := svc.Announce(context.Background(), newTestInvocation("evt-b1"), "Dune: Part Three")
	if err != nil {
		t.Fatalf("Announce() error = %v", err)
	}

	sent := sender.Sent()
	if len(sent) != 7 {
		t.Fatalf("sent %d emails, want 7", len(sent))
	}
	for _, email := range sent {
		if !strings.Contains(email.Subject, "Dune: Part Three") {
			t.Errorf("Subject = %q, want movie title", email.Subject)
		}
		if !strings.Contains(email.Body, "Now available for booking") {
			t.Error("body missing announcement copy")
		}
	}
}

func TestAnnounce_SendFailureSkipsUser(t *testing.T) {
	users := pagedUsers(3)
	sender := &mockSender{
		SendFn: func(ctx context.Context, email mailer.Email) error {
			if email.To == "b@example.com" {
				return errors.New("mailbox unavailable")
			}
			return nil
		},
	}

	svc := NewBroadcastService(users, sender, 10, logger.Discard())
	err := svc.Announce(context.Background(), newTestInvocation("evt-b2"), "Heat 2")
	if err != nil {
		t.Fatalf("Announce() error = %v, individual failures should not fail the run", err)
	}
	if got := len(sender.Sent()); got != 2 {
		t.Errorf("sent %d emails, want 2", got)
	}
}

func TestAnnounce_EmptyTitleIsPermanent(t *testing.T) {
	svc := NewBroadcastService(&mockUserRepository{}, &mockSender{}, 10, logger.Discard())
	err := svc.Announce(context.Background(), newTestInvocation("evt-b3"), "")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("Announce() error = %v, want %s", err, apperrors.CodeInvalidInput)
	}
}

func TestAnnounce_RedeliveryDoesNotResend(t *testing.T) {
	users := pagedUsers(2)
	sender := &mockSender{}

	svc := NewBroadcastService(users, sender, 10, logger.Discard())
	inv := newTestInvocation("evt-b4")
	for i := 0; i < 2; i++ {
		if err := svc.Announce(context.Background(), inv, "Heat 2"); err != nil {
			t.Fatalf("Announce() attempt %d error = %v", i+1, err)
		}
	}
	if got := len(sender.Sent()); got != 2 {
		t.Errorf("sent %d emails across redeliveries, want 2", got)
	}
}

func TestAnnounce_PagingFailureIsRetryable(t *testing.T) {
	users := &mockUserRepository{
		CountFn: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
		FindPageFn: func(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
			return nil, errors.New("connection reset")
		},
	}

	svc := NewBroadcastService(users, &mockSender{}, 10, logger.Discard())
	err := svc.Announce(context.Background(), newTestInvocation("evt-b5"), "Heat 2")
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Fatalf("Announce() error = %v, want %s", err, apperrors.CodeInternal)
	}
	if apperrors.IsPermanent(err) {
		t.Error("paging failure should be retryable")
	}
}
