package repository

import (
	"context"

	"github.com/jhoicas/red2blue-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos de lectura devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateTier devuelve domain.ErrUserNotFound si el id no existe.
	UpdateTier(ctx context.Context, id string, tier entity.SubscriptionTier) error
}
