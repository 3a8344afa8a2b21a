package repo

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/FarhanHaider999/NextStay/internal/domain"
)

// Memory is an in-process UserStore with the same uniqueness semantics as
// the Mongo store. Used by the HTTP tests and for local runs without a
// database.
type Memory struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]domain.User
}

func NewMemory() *Memory {
	return &Memory{users: make(map[primitive.ObjectID]domain.User)}
}

func (m *Memory) CreateUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) SaveUser(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.users {
		if id != u.ID && e.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *Memory) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (m *Memory) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (m *Memory) FindUserByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.VerificationToken != "" && u.VerificationToken == token })
}

func (m *Memory) FindUserByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ResetPasswordToken != "" && u.ResetPasswordToken == token })
}

func (m *Memory) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}
