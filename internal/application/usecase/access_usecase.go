package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/domain/access"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
	"github.com/jhoicas/red2blue-api/internal/domain/repository"
)

// AccessUseCase resuelve el principal contra el almacén de usuarios y consulta la política.
// Es el único punto que sabe que el tier se lee fresco en cada verificación.
type AccessUseCase struct {
	users  repository.UserRepository
	policy *access.Policy
	plans  entity.PlanCatalog
}

// NewAccessUseCase construye el caso de uso.
func NewAccessUseCase(users repository.UserRepository, policy *access.Policy, plans entity.PlanCatalog) *AccessUseCase {
	return &AccessUseCase{users: users, policy: policy, plans: plans}
}

// Policy política compartida.
func (uc *AccessUseCase) Policy() *access.Policy { return uc.policy }

// Resolve devuelve el principal del userID. "" o usuario inexistente => Anonymous.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (uc *AccessUseCase) Resolve(ctx context.Context, userID string) (access.Principal, error) {
	if userID == "" {
		return access.Anonymous(), nil
	}
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("access: resolver usuario: %w", err)
	}
	if u == nil || u.Status != "active" {
		return access.Anonymous(), nil
	}
	return access.MemberOf(u), nil
}

// Check evalúa una feature del principal.
func (uc *AccessUseCase) Check(pr access.Principal, f access.Feature) dto.PermissionResponse {
	res := uc.policy.CheckFeatureAccess(pr, f)
	return dto.PermissionResponse{
		Feature:        string(f),
		HasAccess:      res.HasAccess,
		RequiredTier:   res.RequiredTier,
		UpgradeMessage: res.UpgradeMessage,
	}
}

// Summary vista agregada de permisos.
func (uc *AccessUseCase) Summary(pr access.Principal) dto.AccessSummaryResponse {
	feats := uc.policy.GetAllowedFeatures(pr)
	names := make([]string, 0, len(feats))
	for _, f := range feats {
		names = append(names, string(f))
	}
	out := dto.AccessSummaryResponse{
		Features:           names,
		CanAccessDashboard: uc.policy.CanAccessDashboard(pr),
		CanAccessUnlimited: uc.policy.CanAccessUnlimitedChat(pr),
		CanAccessCoach:     uc.policy.CanAccessCoachDashboard(pr),
		DashboardView:      string(uc.policy.DashboardView(pr)),
	}
	if m, ok := pr.(access.Member); ok {
		out.Authenticated = true
		out.Tier = string(m.Tier)
		out.Role = string(m.Role)
	}
	return out
}

// Navigation menú principal.
func (uc *AccessUseCase) Navigation(pr access.Principal) []dto.NavItemResponse {
	items := uc.policy.Navigation(pr)
	out := make([]dto.NavItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NavItemResponse{Href: it.Href, Label: it.Label})
	}
	return out
}

// Route decisión de acceso para una ruta del SPA.
func (uc *AccessUseCase) Route(pr access.Principal, path string) dto.RouteResponse {
	d := uc.policy.RouteGate(pr, path)
	return dto.RouteResponse{Path: d.Path, Allowed: d.Allowed, View: string(d.View)}
}

// Plans catálogo en orden de precio.
func (uc *AccessUseCase) Plans() []dto.PlanResponse {
	ordered := uc.plans.Ordered()
	out := make([]dto.PlanResponse, 0, len(ordered))
	for _, p := range ordered {
		out = append(out, dto.PlanResponse{
			Tier:         string(p.Tier),
			Name:         p.Name,
			Price:        p.Price.StringFixed(2),
			Currency:     p.Currency,
			DisplayPrice: p.DisplayPrice(),
		})
	}
	return out
}
