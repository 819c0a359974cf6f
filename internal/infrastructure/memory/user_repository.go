// Package memory almacén de usuarios en memoria para desarrollo local y tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/red2blue-api/internal/domain"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
	"github.com/jhoicas/red2blue-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre un mapa. Devuelve copias.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string

	// Err, si no es nil, lo devuelven todas las operaciones (simula DB caída).
	Err error
}

// NewUserRepository crea el almacén vacío.
func NewUserRepository() *UserRepo {
	return &UserRepo{byID: map[string]entity.User{}, byEmail: map[string]string{}}
}

// Create inserta; email duplicado => domain.ErrEmailAlreadyExists.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.byID[user.ID] = *user
	r.byEmail[key] = user.ID
	return nil
}

// GetByID busca por id.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetByEmail busca por email sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	u := r.byID[id]
	return &u, nil
}

// UpdateTier cambia el tier.
func (r *UserRepo) UpdateTier(_ context.Context, id string, tier entity.SubscriptionTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SubscriptionTier = tier
	r.byID[id] = u
	return nil
}
