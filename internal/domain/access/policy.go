package access

import (
	"fmt"

	"github.com/jhoicas/red2blue-api/internal/domain/entity"
)

// RequiredTierNone se reporta cuando el anónimo ya tiene la feature.
const RequiredTierNone = "none"

const signupMessage = "Please create a free account to access this feature."

// PermissionCheck resultado de una verificación. Denegar no es error: es un valor.
type PermissionCheck struct {
	HasAccess      bool
	RequiredTier   string
	UpgradeMessage string
}

// Policy contexto explícito de evaluación: los tres conjuntos por tier, el anónimo
// y los textos de upsell. Inmutable después de NewPolicy; seguro para uso concurrente.
type Policy struct {
	tiers          map[entity.SubscriptionTier]flagSet
	anonymous      flagSet
	premiumUpsell  string
	ultimateUpsell string
}

// NewPolicy construye la política. Los precios del catálogo solo alimentan los mensajes.
func NewPolicy(plans entity.PlanCatalog) *Policy {
	defaults := entity.DefaultPlans()
	price := func(t entity.SubscriptionTier) string {
		if p, ok := plans[t]; ok {
			return p.DisplayPrice()
		}
		return defaults[t].DisplayPrice()
	}
	return &Policy{
		tiers: map[entity.SubscriptionTier]flagSet{
			entity.TierFree:     freeFlags(),
			entity.TierPremium:  premiumFlags(),
			entity.TierUltimate: ultimateFlags(),
		},
		anonymous: anonymousFlags(),
		premiumUpsell: fmt.Sprintf(
			"Upgrade to Premium (%s) for full access to all Red2Blue tools and techniques.", price(entity.TierPremium)),
		ultimateUpsell: fmt.Sprintf(
			"Upgrade to Ultimate (%s) for human coaching access.", price(entity.TierUltimate)),
	}
}

// DefaultPolicy política con el catálogo vigente.
func DefaultPolicy() *Policy {
	return NewPolicy(entity.DefaultPlans())
}

// flagsFor conjunto del tier; cualquier valor desconocido cae en free (falla cerrado).
func (p *Policy) flagsFor(t entity.SubscriptionTier) flagSet {
	if s, ok := p.tiers[t]; ok {
		return s
	}
	return p.tiers[entity.TierFree]
}

// CheckFeatureAccess responde si el principal puede usar la feature. Nunca entra en pánico.
func (p *Policy) CheckFeatureAccess(pr Principal, f Feature) PermissionCheck {
	m, ok := pr.(Member)
	if !ok {
		if p.anonymous.has(f) {
			return PermissionCheck{HasAccess: true, RequiredTier: RequiredTierNone}
		}
		return PermissionCheck{
			HasAccess:      false,
			RequiredTier:   string(entity.TierFree),
			UpgradeMessage: signupMessage,
		}
	}

	if p.flagsFor(m.Tier).has(f) {
		tier := m.Tier
		if !tier.Known() {
			tier = entity.TierFree
		}
		return PermissionCheck{HasAccess: true, RequiredTier: string(tier)}
	}

	if f == HumanCoaching {
		return PermissionCheck{
			HasAccess:      false,
			RequiredTier:   string(entity.TierUltimate),
			UpgradeMessage: p.ultimateUpsell,
		}
	}
	return PermissionCheck{
		HasAccess:      false,
		RequiredTier:   string(entity.TierPremium),
		UpgradeMessage: p.premiumUpsell,
	}
}

// CanAccessDashboard decide si se muestra el dashboard completo o el free dashboard.
func (p *Policy) CanAccessDashboard(pr Principal) bool {
	return p.CheckFeatureAccess(pr, Dashboard).HasAccess
}

// CanAccessUnlimitedChat los widgets de este principal no tienen cuota.
func (p *Policy) CanAccessUnlimitedChat(pr Principal) bool {
	return p.CheckFeatureAccess(pr, UnlimitedChat).HasAccess
}

// CanAccessCoachDashboard depende solo del rol, nunca del tier.
func (p *Policy) CanAccessCoachDashboard(pr Principal) bool {
	m, ok := pr.(Member)
	if !ok {
		return false
	}
	return m.Role == entity.RoleAdmin || m.Role == entity.RoleCoach
}

// GetAllowedFeatures features habilitadas en orden canónico.
func (p *Policy) GetAllowedFeatures(pr Principal) []Feature {
	set := p.anonymous
	if m, ok := pr.(Member); ok {
		set = p.flagsFor(m.Tier)
	}
	out := make([]Feature, 0, len(set))
	for _, f := range allFeatures {
		if set.has(f) {
			out = append(out, f)
		}
	}
	return out
}
