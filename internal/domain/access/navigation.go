package access

import "strings"

// View vista que la capa de presentación debe pintar para una ruta.
type View string

const (
	ViewDashboard     View = "dashboard"
	ViewFreeDashboard View = "free-dashboard"
	ViewHome          View = "home"
	ViewLanding       View = "landing"
	ViewPage          View = "page"
	ViewNotAllowed    View = "not-allowed"
)

// NavItem entrada del menú principal.
type NavItem struct {
	Href  string
	Label string
}

// RouteDecision resultado de evaluar una ruta para un principal.
type RouteDecision struct {
	Path    string
	Allowed bool
	View    View
}

// dashboardGated rutas disponibles solo con acceso al dashboard completo.
var dashboardGated = map[string]bool{
	"/techniques":      true,
	"/tools":           true,
	"/recommendations": true,
	"/goals":           true,
	"/scenarios":       true,
	"/coaching-tools":  true,
	"/community":       true,
}

// publicPaths rutas que un anónimo puede abrir (checkout, alta, legales).
var publicPaths = map[string]bool{
	"/signup-after-payment": true,
	"/signup-success":       true,
	"/checkout-simple":      true,
	"/checkout":             true,
	"/checkout-hosted":      true,
	"/payment-redirect":     true,
	"/privacy-policy":       true,
	"/terms-of-service":     true,
	"/refund-policy":        true,
	"/cookie-policy":        true,
	"/data-processing":      true,
	"/acceptable-use":       true,
}

// DashboardView misma URL, vista distinta: lo decide la política, no el router.
func (p *Policy) DashboardView(pr Principal) View {
	if p.CanAccessDashboard(pr) {
		return ViewDashboard
	}
	return ViewFreeDashboard
}

// Navigation menú según tier y rol.
func (p *Policy) Navigation(pr Principal) []NavItem {
	items := []NavItem{{Href: "/help", Label: "Help"}}
	if p.CanAccessDashboard(pr) {
		items = append([]NavItem{{Href: "/dashboard", Label: "Dashboard"}}, items...)
	}
	if p.CheckFeatureAccess(pr, HumanCoaching).HasAccess {
		items = append(items, NavItem{Href: "/human-coaching", Label: "Human Coaching"})
	}
	if p.CanAccessCoachDashboard(pr) {
		items = append(items, NavItem{Href: "/coach", Label: "Coach Dashboard"})
	}
	return items
}

// RouteGate aplica las compuertas por ruta. No resuelve qué componente se pinta en
// rutas sin compuerta: eso sigue siendo de la capa de presentación (ViewPage).
func (p *Policy) RouteGate(pr Principal, path string) RouteDecision {
	path = normalizePath(path)
	d := RouteDecision{Path: path, Allowed: true, View: ViewPage}

	if IsAnonymous(pr) {
		if !publicPaths[path] {
			d.View = ViewLanding
		}
		return d
	}

	switch {
	case path == "/":
		if p.CanAccessDashboard(pr) {
			d.View = ViewHome
		} else {
			d.View = ViewFreeDashboard
		}
	case path == "/dashboard":
		d.View = p.DashboardView(pr)
	case dashboardGated[path]:
		d.Allowed = p.CanAccessDashboard(pr)
	case path == "/human-coaching":
		d.Allowed = p.CheckFeatureAccess(pr, HumanCoaching).HasAccess
	case path == "/coach":
		d.Allowed = p.CanAccessCoachDashboard(pr)
	}
	if !d.Allowed {
		d.View = ViewNotAllowed
	}
	return d
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
