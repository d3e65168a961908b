package service

import (
	"context"
	mongotx "quickshow/pkg/db/mongo"
	"quickshow/pkg/mailer"
	"quickshow/pkg/model"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockBookingRepository struct {
	FindByIDFn           func(ctx context.Context, id string) (*model.Booking, error)
	DeleteFn             func(ctx context.Context, id string) error
	ExecuteTransactionFn func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.ExecuteTransactionFn != nil {
		return m.ExecuteTransactionFn(ctx, fn)
	}
	// Outside a real session the callback only needs the Context half of
	// SessionContext, which a nil session satisfies for these tests.
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockShowRepository struct {
	FindByIDFn     func(ctx context.Context, id string) (*model.Show, error)
	FindInWindowFn func(ctx context.Context, start, end time.Time) ([]*model.Show, error)
	ReleaseSeatsFn func(ctx context.Context, showID string, seats []string) error
}

func (m *mockShowRepository) FindByID(ctx context.Context, id string) (*model.Show, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockShowRepository) FindInWindow(ctx context.Context, start, end time.Time) ([]*model.Show, error) {
	return m.FindInWindowFn(ctx, start, end)
}

func (m *mockShowRepository) ReleaseSeats(ctx context.Context, showID string, seats []string) error {
	return m.ReleaseSeatsFn(ctx, showID, seats)
}

type mockMovieRepository struct {
	FindByIDFn func(ctx context.Context, id string) (*model.Movie, error)
}

func (m *mockMovieRepository) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	return m.FindByIDFn(ctx, id)
}

type mockUserRepository struct {
	CreateFn    func(ctx context.Context, user *model.User) error
	UpsertFn    func(ctx context.Context, user *model.User) error
	DeleteFn    func(ctx context.Context, id string) error
	FindByIDsFn func(ctx context.Context, ids []string) ([]*model.User, error)
	FindPageFn  func(ctx context.Context, limit int, offset int64) ([]*model.User, error)
	CountFn     func(ctx context.Context) (int64, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.CreateFn(ctx, user)
}

func (m *mockUserRepository) Upsert(ctx context.Context, user *model.User) error {
	return m.UpsertFn(ctx, user)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	return m.FindByIDsFn(ctx, ids)
}

func (m *mockUserRepository) FindPage(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return m.FindPageFn(ctx, limit, offset)
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return m.CountFn(ctx)
}

type mockSender struct {
	mu     sync.Mutex
	sent   []mailer.Email
	SendFn func(ctx context.Context, email mailer.Email) error
}

func (m *mockSender) Send(ctx context.Context, email mailer.Email) error {
	if m.SendFn != nil {
		if err := m.SendFn(ctx, email); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

func (m *mockSender) Sent() []mailer.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mailer.Email, len(m.sent))
	copy(out, m.sent)
	return out
}
