package dto

// PermissionResponse resultado de CheckFeatureAccess.
type PermissionResponse struct {
	Feature        string `json:"feature"`
	HasAccess      bool   `json:"hasAccess"`
	RequiredTier   string `json:"requiredTier"`
	UpgradeMessage string `json:"upgradeMessage,omitempty"`
}

// AccessSummaryResponse vista completa de permisos del principal.
type AccessSummaryResponse struct {
	Authenticated      bool     `json:"authenticated"`
	Tier               string   `json:"tier,omitempty"`
	Role               string   `json:"role,omitempty"`
	Features           []string `json:"features"`
	CanAccessDashboard bool     `json:"canAccessDashboard"`
	CanAccessUnlimited bool     `json:"canAccessUnlimitedChat"`
	CanAccessCoach     bool     `json:"canAccessCoachDashboard"`
	DashboardView      string   `json:"dashboardView"`
}

// NavItemResponse entrada de menú.
type NavItemResponse struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

// RouteResponse decisión de acceso para una ruta del SPA.
type RouteResponse struct {
	Path    string `json:"path"`
	Allowed bool   `json:"allowed"`
	View    string `json:"view"`
}

// PlanResponse precio de exhibición de un tier.
type PlanResponse struct {
	Tier         string `json:"tier"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	DisplayPrice string `json:"displayPrice"`
}
