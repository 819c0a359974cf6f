package entity

import "time"

// SubscriptionTier nivel de suscripción. Un valor fuera de las constantes se trata como free.
type SubscriptionTier string

// Tiers válidos.
const (
	TierFree     SubscriptionTier = "free"
	TierPremium  SubscriptionTier = "premium"
	TierUltimate SubscriptionTier = "ultimate"
)

// Known informa si el tier es uno de los tres conocidos.
func (t SubscriptionTier) Known() bool {
	switch t {
	case TierFree, TierPremium, TierUltimate:
		return true
	}
	return false
}

// Role rol del usuario; eje independiente del tier.
type Role string

// Roles válidos para User.
const (
	RoleMember Role = "member"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// User representa un golfista, coach o administrador.
type User struct {
	ID               string
	Email            string
	Username         string
	PasswordHash     string // bcrypt hash
	SubscriptionTier SubscriptionTier
	Role             Role
	Status           string // active, inactive, suspended
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
