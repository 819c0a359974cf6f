package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FeatureLockedResponse 403 cuando el tier no alcanza.
type FeatureLockedResponse struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Feature      string `json:"feature"`
	RequiredTier string `json:"required_tier"`
}

// HealthResponse salida de /health.
type HealthResponse struct {
	Status string `json:"status"`
	App    string `json:"app"`
}
