// Package access decide qué puede ver y usar cada principal según su tier y su rol.
//
// Todo es puro y determinista: la misma entrada siempre produce la misma salida,
// sin estado compartido mutable. Un tier desconocido se degrada al conjunto free.
package access

// Feature capacidad con compuerta por tier. Enumeración cerrada.
type Feature string

const (
	BasicAssessment             Feature = "basicAssessment"
	AdvancedAssessments         Feature = "advancedAssessments"
	AssessmentHistory           Feature = "assessmentHistory"
	LimitedChat                 Feature = "limitedChat"
	UnlimitedChat               Feature = "unlimitedChat"
	AICoaching                  Feature = "aiCoaching"
	PersonalizedRecommendations Feature = "personalizedRecommendations"
	BasicPDFs                   Feature = "basicPDFs"
	AllContent                  Feature = "allContent"
	Dashboard                   Feature = "dashboard"
	Techniques                  Feature = "techniques"
	Scenarios                   Feature = "scenarios"
	Goals                       Feature = "goals"
	Progress                    Feature = "progress"
	Community                   Feature = "community"
	HumanCoaching               Feature = "humanCoaching"
	BasicInsights               Feature = "basicInsights"
	AdvancedAnalytics           Feature = "advancedAnalytics"
)

// allFeatures orden canónico de la enumeración.
var allFeatures = [...]Feature{
	BasicAssessment,
	AdvancedAssessments,
	AssessmentHistory,
	LimitedChat,
	UnlimitedChat,
	AICoaching,
	PersonalizedRecommendations,
	BasicPDFs,
	AllContent,
	Dashboard,
	Techniques,
	Scenarios,
	Goals,
	Progress,
	Community,
	HumanCoaching,
	BasicInsights,
	AdvancedAnalytics,
}

// AllFeatures devuelve una copia de la enumeración en orden canónico.
func AllFeatures() []Feature {
	out := make([]Feature, len(allFeatures))
	copy(out, allFeatures[:])
	return out
}

// ParseFeature valida un nombre recibido del exterior (ruta HTTP, query).
func ParseFeature(s string) (Feature, bool) {
	for _, f := range allFeatures {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// flagSet conjunto de features habilitadas. Nunca se expone para escritura.
type flagSet map[Feature]bool

func (s flagSet) has(f Feature) bool { return s[f] }

func (s flagSet) with(fs ...Feature) flagSet {
	out := make(flagSet, len(s)+len(fs))
	for f, on := range s {
		out[f] = on
	}
	for _, f := range fs {
		out[f] = true
	}
	return out
}

func (s flagSet) without(fs ...Feature) flagSet {
	out := s.with()
	for _, f := range fs {
		delete(out, f)
	}
	return out
}

// Conjuntos estáticos. premium ⊇ free, ultimate ⊇ premium; humanCoaching solo en ultimate.
func freeFlags() flagSet {
	return flagSet{}.with(BasicAssessment, LimitedChat, BasicPDFs)
}

func premiumFlags() flagSet {
	return freeFlags().with(
		Dashboard,
		AdvancedAssessments,
		AssessmentHistory,
		UnlimitedChat,
		AICoaching,
		PersonalizedRecommendations,
		AllContent,
		Techniques,
		Scenarios,
		Goals,
		Progress,
		Community,
		BasicInsights,
		AdvancedAnalytics,
	).without(HumanCoaching)
}

func ultimateFlags() flagSet {
	return premiumFlags().with(HumanCoaching)
}

func anonymousFlags() flagSet {
	return flagSet{}.with(LimitedChat, BasicPDFs)
}
