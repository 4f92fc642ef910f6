// Package memory provides process-local implementations of the repository
// ports. Each value is independent, so tests can use a fresh store per case.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
)

// UserRepository implements ports.UserRepository with maps guarded by a mutex.
// The email index is checked and written under the same lock, which makes
// Create atomic per email.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindByRole returns matching users ordered by creation time.
func (r *UserRepository) FindByRole(_ context.Context, role string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0)
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, u.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}

	u := user.Clone()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, taken := r.byID[u.ID]; taken {
		return nil, domain.ErrUserExists
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u.Clone(), nil
}

func (r *UserRepository) Update(_ context.Context, id string, upd ports.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	u := existing.Clone()
	applyUserUpdate(u, upd)
	u.UpdatedAt = r.now()

	r.byID[id] = u
	return u.Clone(), nil
}

func applyUserUpdate(u *domain.User, upd ports.UserUpdate) {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Avatar != nil {
		u.Avatar = *upd.Avatar
	}
	if u.VendorProfile == nil {
		return
	}
	if upd.StoreDescription != nil {
		u.StoreDescription = *upd.StoreDescription
	}
	if upd.IsApproved != nil {
		u.IsApproved = *upd.IsApproved
	}
	if upd.CommissionRate != nil {
		u.CommissionRate = *upd.CommissionRate
	}
}
