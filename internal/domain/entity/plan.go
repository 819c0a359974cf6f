package entity

import "github.com/shopspring/decimal"

// Plan precio de exhibición de un tier (pago único, USD).
// Los montos son constantes de presentación; el núcleo solo los usa en los mensajes de upgrade.
type Plan struct {
	Tier     SubscriptionTier
	Name     string
	Price    decimal.Decimal
	Currency string
}

// DisplayPrice devuelve el precio como "$490".
func (p Plan) DisplayPrice() string {
	return "$" + p.Price.StringFixed(0)
}

// PlanCatalog planes indexados por tier.
type PlanCatalog map[SubscriptionTier]Plan

// DefaultPlans catálogo vigente de Red2Blue.
func DefaultPlans() PlanCatalog {
	return PlanCatalog{
		TierFree:     {Tier: TierFree, Name: "Free", Price: decimal.Zero, Currency: "USD"},
		TierPremium:  {Tier: TierPremium, Name: "Premium", Price: decimal.NewFromInt(490), Currency: "USD"},
		TierUltimate: {Tier: TierUltimate, Name: "Ultimate", Price: decimal.NewFromInt(2190), Currency: "USD"},
	}
}

// Ordered devuelve los planes de menor a mayor precio.
func (c PlanCatalog) Ordered() []Plan {
	out := make([]Plan, 0, len(c))
	for _, t := range []SubscriptionTier{TierFree, TierPremium, TierUltimate} {
		if p, ok := c[t]; ok {
			out = append(out, p)
		}
	}
	return out
}
