package ai

import (
	"fmt"
	"strings"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
)

// coachSystemPrompt define la persona de Flo y el formato de salida. Compartido por ambos proveedores.
const coachSystemPrompt = `You are Flo, the Red2Blue mental performance coach for golfers.
Red2Blue teaches players to move from a "red head" state (tense, anxious, outcome-focused) to a
"blue head" state (calm, present, process-focused). Be warm, concise and practical.

Return ONLY a valid JSON object (no markdown, no code fences) with this exact structure:
{
  "message": "<your coaching reply, at most 120 words>",
  "suggestions": ["<short actionable technique>", "..."],
  "urgencyLevel": "<low | medium | high>"
}

Rules:
- message: speak directly to the golfer; reference a concrete Red2Blue technique when useful.
- suggestions: 0 to 3 items, each under 60 characters.
- urgencyLevel: high only for signs of severe distress; medium for recurring performance anxiety; low otherwise.
- Never include text outside the JSON object.`

// coachPayload es el JSON que esperamos recibir del modelo.
type coachPayload struct {
	Message      string   `json:"message"`
	Suggestions  []string `json:"suggestions"`
	UrgencyLevel string   `json:"urgencyLevel"`
}

const maxSuggestions = 3

// userContent mensaje del golfista con el contexto que cambia el tono.
func userContent(in dto.CoachPrompt) string {
	audience := "visitor without an account"
	if in.Authenticated {
		audience = "registered member"
	}
	return fmt.Sprintf("Golfer (%s): %s", audience, in.Message)
}

// toChatResponse normaliza la salida del modelo. Un message vacío se deja pasar:
// el controlador de sesión lo sustituye por la respuesta de respaldo.
func toChatResponse(p coachPayload) *dto.ChatResponse {
	var sugg []string
	for _, s := range p.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			sugg = append(sugg, s)
		}
		if len(sugg) == maxSuggestions {
			break
		}
	}
	return &dto.ChatResponse{
		Message:      strings.TrimSpace(p.Message),
		Suggestions:  sugg,
		UrgencyLevel: normalizeUrgency(p.UrgencyLevel),
	}
}

// normalizeUrgency fuerza el valor al conjunto {low, medium, high}; cualquier otro => low.
func normalizeUrgency(raw string) string {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "low", "medium", "high":
		return v
	}
	return "low"
}
