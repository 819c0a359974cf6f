package access_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/red2blue-api/internal/domain/access"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
)

func member(tier entity.SubscriptionTier, role entity.Role) access.Principal {
	return access.MemberOf(&entity.User{ID: "u-1", SubscriptionTier: tier, Role: role})
}

// expectedFree/expectedPremium features que cada tier debe tener; el resto => false.
var (
	expectedFree = map[access.Feature]bool{
		access.BasicAssessment: true,
		access.LimitedChat:     true,
		access.BasicPDFs:       true,
	}
	expectedPremiumExtra = []access.Feature{
		access.AdvancedAssessments, access.AssessmentHistory, access.UnlimitedChat, access.AICoaching,
		access.PersonalizedRecommendations, access.AllContent, access.Dashboard, access.Techniques,
		access.Scenarios, access.Goals, access.Progress, access.Community, access.BasicInsights,
		access.AdvancedAnalytics,
	}
)

func expectedFor(tier entity.SubscriptionTier) map[access.Feature]bool {
	out := map[access.Feature]bool{}
	for f := range expectedFree {
		out[f] = true
	}
	if tier == entity.TierPremium || tier == entity.TierUltimate {
		for _, f := range expectedPremiumExtra {
			out[f] = true
		}
	}
	if tier == entity.TierUltimate {
		out[access.HumanCoaching] = true
	}
	return out
}

func TestCheckFeatureAccess_TablaAditivaPorTier(t *testing.T) {
	p := access.DefaultPolicy()
	for _, tier := range []entity.SubscriptionTier{entity.TierFree, entity.TierPremium, entity.TierUltimate} {
		want := expectedFor(tier)
		for _, f := range access.AllFeatures() {
			got := p.CheckFeatureAccess(member(tier, entity.RoleMember), f)
			assert.Equal(t, want[f], got.HasAccess, "tier=%s feature=%s", tier, f)
		}
	}
}

func TestCheckFeatureAccess_UltimateContienePremiumContieneFree(t *testing.T) {
	p := access.DefaultPolicy()
	for _, f := range access.AllFeatures() {
		free := p.CheckFeatureAccess(member(entity.TierFree, entity.RoleMember), f).HasAccess
		premium := p.CheckFeatureAccess(member(entity.TierPremium, entity.RoleMember), f).HasAccess
		ultimate := p.CheckFeatureAccess(member(entity.TierUltimate, entity.RoleMember), f).HasAccess
		if free {
			assert.True(t, premium, "premium debe incluir %s", f)
		}
		if premium {
			assert.True(t, ultimate, "ultimate debe incluir %s", f)
		}
	}
	assert.False(t, p.CheckFeatureAccess(member(entity.TierPremium, entity.RoleMember), access.HumanCoaching).HasAccess)
}

func TestCheckFeatureAccess_Anonimo(t *testing.T) {
	p := access.DefaultPolicy()

	dash := p.CheckFeatureAccess(access.Anonymous(), access.Dashboard)
	assert.False(t, dash.HasAccess)
	assert.Equal(t, "free", dash.RequiredTier)
	assert.Equal(t, "Please create a free account to access this feature.", dash.UpgradeMessage)

	chat := p.CheckFeatureAccess(access.Anonymous(), access.LimitedChat)
	assert.True(t, chat.HasAccess)
	assert.Equal(t, access.RequiredTierNone, chat.RequiredTier)
	assert.Empty(t, chat.UpgradeMessage)

	assert.True(t, p.CheckFeatureAccess(access.Anonymous(), access.BasicPDFs).HasAccess)
	assert.False(t, p.CheckFeatureAccess(access.Anonymous(), access.BasicAssessment).HasAccess)
}

func TestCheckFeatureAccess_MensajesDeUpgrade(t *testing.T) {
	p := access.DefaultPolicy()
	free := member(entity.TierFree, entity.RoleMember)

	human := p.CheckFeatureAccess(free, access.HumanCoaching)
	assert.False(t, human.HasAccess)
	assert.Equal(t, "ultimate", human.RequiredTier)
	assert.Equal(t, "Upgrade to Ultimate ($2190) for human coaching access.", human.UpgradeMessage)

	dash := p.CheckFeatureAccess(free, access.Dashboard)
	assert.Equal(t, "premium", dash.RequiredTier)
	assert.Equal(t, "Upgrade to Premium ($490) for full access to all Red2Blue tools and techniques.", dash.UpgradeMessage)

	granted := p.CheckFeatureAccess(member(entity.TierPremium, entity.RoleMember), access.Dashboard)
	assert.Equal(t, "premium", granted.RequiredTier)
	assert.Empty(t, granted.UpgradeMessage)
}

func TestNewPolicy_PreciosDelCatalogo(t *testing.T) {
	plans := entity.DefaultPlans()
	premium := plans[entity.TierPremium]
	premium.Price = decimal.NewFromInt(590)
	plans[entity.TierPremium] = premium

	p := access.NewPolicy(plans)
	got := p.CheckFeatureAccess(access.Anonymous(), access.Dashboard)
	assert.Equal(t, "free", got.RequiredTier, "el anónimo sigue invitando a crear cuenta")

	got = p.CheckFeatureAccess(member(entity.TierFree, entity.RoleMember), access.Goals)
	assert.Contains(t, got.UpgradeMessage, "($590)")
}

func TestCanAccessDashboard_IndependienteDelRol(t *testing.T) {
	p := access.DefaultPolicy()
	for _, role := range []entity.Role{entity.RoleMember, entity.RoleCoach, entity.RoleAdmin} {
		assert.False(t, p.CanAccessDashboard(member(entity.TierFree, role)), "free/%s", role)
		assert.True(t, p.CanAccessDashboard(member(entity.TierPremium, role)), "premium/%s", role)
		assert.True(t, p.CanAccessDashboard(member(entity.TierUltimate, role)), "ultimate/%s", role)
	}
	assert.False(t, p.CanAccessDashboard(access.Anonymous()))
}

func TestTierDesconocido_SeComportaComoFree(t *testing.T) {
	p := access.DefaultPolicy()
	for _, garbage := range []entity.SubscriptionTier{"", "PREMIUM", "platinum", "ultimate ", "null"} {
		g := member(garbage, entity.RoleMember)
		f := member(entity.TierFree, entity.RoleMember)
		require.NotPanics(t, func() { p.CheckFeatureAccess(g, access.Dashboard) })
		for _, feat := range access.AllFeatures() {
			assert.Equal(t, p.CheckFeatureAccess(f, feat), p.CheckFeatureAccess(g, feat), "tier=%q feature=%s", garbage, feat)
		}
		assert.Equal(t, p.GetAllowedFeatures(f), p.GetAllowedFeatures(g))
	}
}

func TestCheckFeatureAccess_FeatureFueraDeEnumeracion(t *testing.T) {
	p := access.DefaultPolicy()
	got := p.CheckFeatureAccess(member(entity.TierUltimate, entity.RoleAdmin), access.Feature("teleport"))
	assert.False(t, got.HasAccess)
	assert.Equal(t, "premium", got.RequiredTier)
}

func TestCheckFeatureAccess_Determinista(t *testing.T) {
	p := access.DefaultPolicy()
	pr := member(entity.TierPremium, entity.RoleCoach)
	first := p.GetAllowedFeatures(pr)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, p.GetAllowedFeatures(pr))
	}
}

func TestGetAllowedFeatures(t *testing.T) {
	p := access.DefaultPolicy()

	tests := []struct {
		name string
		pr   access.Principal
		want []access.Feature
	}{
		{"anonimo", access.Anonymous(), []access.Feature{access.LimitedChat, access.BasicPDFs}},
		{"nil user", access.MemberOf(nil), []access.Feature{access.LimitedChat, access.BasicPDFs}},
		{"free", member(entity.TierFree, entity.RoleMember), []access.Feature{access.BasicAssessment, access.LimitedChat, access.BasicPDFs}},
		{"ultimate", member(entity.TierUltimate, entity.RoleMember), access.AllFeatures()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, p.GetAllowedFeatures(tt.pr)); diff != "" {
				t.Errorf("GetAllowedFeatures (-want +got):\n%s", diff)
			}
		})
	}

	premium := p.GetAllowedFeatures(member(entity.TierPremium, entity.RoleMember))
	assert.Len(t, premium, len(access.AllFeatures())-1)
	assert.NotContains(t, premium, access.HumanCoaching)
}

func TestCanAccessUnlimitedChat(t *testing.T) {
	p := access.DefaultPolicy()
	assert.False(t, p.CanAccessUnlimitedChat(access.Anonymous()))
	assert.False(t, p.CanAccessUnlimitedChat(member(entity.TierFree, entity.RoleAdmin)))
	assert.True(t, p.CanAccessUnlimitedChat(member(entity.TierPremium, entity.RoleMember)))
}

func TestCanAccessCoachDashboard_SoloPorRol(t *testing.T) {
	p := access.DefaultPolicy()
	assert.True(t, p.CanAccessCoachDashboard(member(entity.TierFree, entity.RoleCoach)))
	assert.True(t, p.CanAccessCoachDashboard(member(entity.TierFree, entity.RoleAdmin)))
	assert.False(t, p.CanAccessCoachDashboard(member(entity.TierUltimate, entity.RoleMember)))
	assert.False(t, p.CanAccessCoachDashboard(access.Anonymous()))
}

func TestParseFeature(t *testing.T) {
	f, ok := access.ParseFeature("humanCoaching")
	assert.True(t, ok)
	assert.Equal(t, access.HumanCoaching, f)

	_, ok = access.ParseFeature("HumanCoaching")
	assert.False(t, ok, "la enumeración distingue mayúsculas")
	assert.Len(t, access.AllFeatures(), 18)
}
