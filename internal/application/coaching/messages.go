package coaching

import "fmt"

// Mode variante de presentación del widget. El contrato de comportamiento es el mismo.
type Mode string

const (
	ModeFloating Mode = "floating"
	ModeInline   Mode = "inline"
	ModeLanding  Mode = "landing"
)

// ParseMode valida el modo recibido del cliente.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeFloating, ModeInline, ModeLanding:
		return Mode(s), true
	}
	return "", false
}

// FallbackReply respuesta en persona para cualquier fallo o respuesta vacía.
const FallbackReply = "I'm here to help with your mental game. What specific challenge are you facing on the course?"

const (
	landingGreeting  = "Hi! I'm Flo, your Red2Blue mental performance coach. Ask me about handling pressure, improving focus, or any mental game challenge you're facing on the course."
	floatingGreeting = "Ready to transform pressure into peak performance? Ask me about mental techniques, pressure situations, or any golf psychology challenges!"

	placeholderOpen      = "Ask about mental game challenges..."
	placeholderExhausted = "Sign up to continue..."
)

// Greeting saludo sembrado al abrir el widget.
func Greeting(m Mode) string {
	if m == ModeFloating {
		return floatingGreeting
	}
	return landingGreeting
}

// QuotaMessage aviso único al cruzar la cuota.
func QuotaMessage(quota int) string {
	return fmt.Sprintf("You've used your %d free credits! Sign up to keep using Flo and unlock personalized coaching, assessments, and unlimited conversations.", quota)
}

// Suggestion atajo que llena el borrador antes del primer turno.
type Suggestion struct {
	Label  string
	Prompt string
}

var suggestions = []Suggestion{
	{Label: "First tee nerves", Prompt: "I get nervous on the first tee. My heart races and I overthink every aspect of my swing. How can I stay calm?"},
	{Label: "Missed putts", Prompt: "I keep missing putts under pressure. My hands get shaky and I second-guess my read. What can I do?"},
	{Label: "Pressure situations", Prompt: "When I'm in contention, I start thinking about the outcome instead of the shot. How do I stay present?"},
}
