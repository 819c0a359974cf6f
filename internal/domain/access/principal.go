package access

import "github.com/jhoicas/red2blue-api/internal/domain/entity"

// Principal quién está mirando: Anonymous o Member. Unión cerrada (método no exportado).
type Principal interface {
	isPrincipal()
}

// AnonymousPrincipal visitante sin cuenta.
type AnonymousPrincipal struct{}

func (AnonymousPrincipal) isPrincipal() {}

// Member usuario autenticado. Tier y Role son ejes independientes.
type Member struct {
	UserID string
	Tier   entity.SubscriptionTier
	Role   entity.Role
}

func (Member) isPrincipal() {}

// Anonymous devuelve el principal anónimo.
func Anonymous() Principal { return AnonymousPrincipal{} }

// MemberOf construye el principal de un usuario; nil => Anonymous.
func MemberOf(u *entity.User) Principal {
	if u == nil {
		return AnonymousPrincipal{}
	}
	return Member{UserID: u.ID, Tier: u.SubscriptionTier, Role: u.Role}
}

// UserIDOf devuelve el id del miembro o "" si es anónimo.
func UserIDOf(p Principal) string {
	if m, ok := p.(Member); ok {
		return m.UserID
	}
	return ""
}

// IsAnonymous informa si el principal no tiene cuenta (nil cuenta como anónimo).
func IsAnonymous(p Principal) bool {
	_, ok := p.(Member)
	return !ok
}
