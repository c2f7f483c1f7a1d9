package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/flowbit/backend/internal/models"
)

// MemoryStore keeps users and subscriptions in process memory. It backs
// DATA_BACKEND=memory for local development and the handler tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*models.User
	subs  map[string]*memorySub
	seq   int64
	now   func() time.Time
}

type memorySub struct {
	sub models.Subscription
	seq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*models.User),
		subs:  make(map[string]*memorySub),
		now:   mongoNow,
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, name, email, hashedPw string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, models.ErrDuplicateEmail
		}
	}
	now := s.now()
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  hashedPw,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UpdateName(_ context.Context, id, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.Name = name
	u.UpdatedAt = s.now()
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) UpdatePassword(_ context.Context, id, hashedPw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Password = hashedPw
	u.UpdatedAt = s.now()
	return nil
}

func (s *MemoryStore) Insert(_ context.Context, sub *models.Subscription) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cp := *sub
	cp.ID = primitive.NewObjectID().Hex()
	cp.CreatedAt, cp.UpdatedAt = now, now
	s.seq++
	s.subs[cp.ID] = &memorySub{sub: cp, seq: s.seq}
	return &cp, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []*memorySub
	for _, m := range s.subs {
		if m.sub.UserID == userID {
			owned = append(owned, m)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		a, b := owned[i], owned[j]
		if !a.sub.NextDueDate.Equal(b.sub.NextDueDate.Time) {
			return a.sub.NextDueDate.Before(b.sub.NextDueDate.Time)
		}
		return a.seq < b.seq
	})

	out := make([]models.Subscription, 0, len(owned))
	for _, m := range owned {
		out = append(out, m.sub)
	}
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.subs[strings.ToLower(id)]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := m.sub
	return &cp, nil
}

func (s *MemoryStore) Update(_ context.Context, id, userID string, fields models.SubscriptionFields) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.subs[strings.ToLower(id)]
	if !ok || m.sub.UserID != userID {
		return nil, models.ErrNotFound
	}
	m.sub.Apply(fields)
	m.sub.UpdatedAt = s.now()
	cp := m.sub
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(id)
	m, ok := s.subs[key]
	if !ok || m.sub.UserID != userID {
		return models.ErrNotFound
	}
	delete(s.subs, key)
	return nil
}
