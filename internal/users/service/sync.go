package service

import (
	"context"
	"errors"
	"quickshow/internal/events"
	userserrors "quickshow/internal/users/errors"
	"quickshow/internal/users/repository"
	"quickshow/pkg/config"
	apperrors "quickshow/pkg/errors"
	"quickshow/pkg/model"
	"quickshow/pkg/sanitizer"
)

// SyncService mirrors identity-provider accounts into the user store.
// It owns no identity of its own: every mutation is a reaction to a
// provider event.
type SyncService interface {
	CreateFromIdentity(ctx context.Context, payload *events.IdentityPayload) error
	UpdateFromIdentity(ctx context.Context, payload *events.IdentityPayload) error
	DeleteByIdentity(ctx context.Context, id string) error
}

type syncService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewSyncService(repo repository.UserRepository, cfg *config.Config) SyncService {
	return &syncService{
		repo: repo,
		cfg:  cfg,
	}
}

// userFromIdentity maps the provider payload onto a user record. The
// display name is first_name + " " + last_name with a single joining
// space, preserved even when a part is empty, matching what the rest of
// the product renders.
func userFromIdentity(payload *events.IdentityPayload) *model.User {
	return &model.User{
		ID:    payload.ID,
		Name:  sanitizer.NormalizeName(payload.FirstName) + " " + sanitizer.NormalizeName(payload.LastName),
		Email: sanitizer.NormalizeEmail(payload.PrimaryEmail()),
		Image: payload.ImageURL,
	}
}

func (s *syncService) CreateFromIdentity(ctx context.Context, payload *events.IdentityPayload) error {
	user := userFromIdentity(payload)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrAlreadyExists) {
			s.cfg.Log.Warn("User already exists, create skipped", "user_id", user.ID)
			return apperrors.Conflict("user already exists").WithDetails(map[string]any{"id": user.ID})
		}
		s.cfg.Log.Error("Failed to create user", "user_id", user.ID, "error", err)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created from identity event", "user_id", user.ID)
	return nil
}

func (s *syncService) UpdateFromIdentity(ctx context.Context, payload *events.IdentityPayload) error {
	user := userFromIdentity(payload)

	if err := s.repo.Upsert(ctx, user); err != nil {
		s.cfg.Log.Error("Failed to upsert user", "user_id", user.ID, "error", err)
		return apperrors.Internal("Failed to update user", err)
	}

	s.cfg.Log.Info("User updated from identity event", "user_id", user.ID)
	return nil
}

// DeleteByIdentity removes the user record. Deleting an absent user is
// not an error: the provider may deliver the deletion more than once.
func (s *syncService) DeleteByIdentity(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("identity id cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			s.cfg.Log.Info("User already deleted", "user_id", id)
			return nil
		}
		s.cfg.Log.Error("Failed to delete user", "user_id", id, "error", err)
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted from identity event", "user_id", id)
	return nil
}
