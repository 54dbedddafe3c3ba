// Package catalog holds the static option tables that drive the prompt form:
// use-cases with their sub-types and goals, goal sub-types, conversation modes,
// structure blocks and the display labels for every enum value.
//
// All lookups are total. Unknown keys never produce an error; they return an
// empty list, or for goals the single generic Freeform entry.
package catalog

// Option is a selectable enum value with its display label.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Freeform is the goal offered when a use-case has no catalog entry.
const Freeform = "Freiform"

// Notice is shown to users wherever they enter form content.
const Notice = "⚠️ Grundsatz: Keine personenbezogenen oder internen Unternehmensdaten eingeben. " +
	"Beachte Urheberrecht & Vertraulichkeit. Dieses Tool erzeugt nur Prompts."

// Use-case keys.
const (
	UseCaseWriting   = "writing"
	UseCaseAnalyzing = "analyzing"
	UseCaseLearning  = "learning"
	UseCaseCoding    = "coding"
	UseCaseCreative  = "creative"
	UseCaseOther     = "other"
)

// Mode keys.
const (
	ModePractical = "practical"
	ModeEmotional = "emotional"
	ModeSocial    = "social"
)

var useCases = []Option{
	{UseCaseWriting, "🖋️ Schreiben"},
	{UseCaseAnalyzing, "📊 Analysieren"},
	{UseCaseLearning, "🧠 Lernen/Erklären"},
	{UseCaseCoding, "💻 Coden"},
	{UseCaseCreative, "🎨 Kreativideen"},
	{UseCaseOther, "🧪 Sonstiges"},
}

var subUseCases = map[string][]string{
	UseCaseWriting:   {"E-Mail", "Bericht", "Blogartikel", "Protokoll", "Pressemitteilung"},
	UseCaseAnalyzing: {"Marktanalyse", "Prozessanalyse", "Datenauswertung", "Wettbewerbsanalyse", "Risikobewertung"},
	UseCaseLearning:  {"Begriff erklären", "Lernplan", "Prüfungsvorbereitung", "Zusammenhänge verstehen"},
	UseCaseCoding:    {"Neues Feature", "Bugfix", "Refactoring", "Code-Review", "Tests schreiben"},
	UseCaseCreative:  {"Kampagnenidee", "Storytelling", "Namensfindung", "Workshop-Format"},
	UseCaseOther:     {},
}

var goals = map[string][]string{
	UseCaseWriting:   {"Zusammenfassung", "Entwurf", "Überarbeitung", "Checkliste", Freeform},
	UseCaseAnalyzing: {"Strukturierte Analyse", "SWOT-Analyse", "Risiko-Check", "Zusammenfassung", "Entscheidungsvorlage", "Interviewleitfaden", Freeform},
	UseCaseLearning:  {"Erklärung", "Lernkarten", "Quiz", "Zusammenfassung", Freeform},
	UseCaseCoding:    {"Code-Snippet", "Code-Review", "Architekturskizze", "Testfälle", Freeform},
	UseCaseCreative:  {"Brainstorming-Liste", "Konzeptskizze", "Interviewleitfaden", Freeform},
	UseCaseOther:     {Freeform},
}

var goalSubtypes = map[string][]string{
	"Zusammenfassung":       {"Executive Summary", "Stichpunkte", "Kernaussagen"},
	"Entwurf":               {"Erstfassung", "Gliederung", "Varianten"},
	"Überarbeitung":         {"Kürzen", "Stil glätten", "Verständlichkeit"},
	"Checkliste":            {"Vorbereitung", "Durchführung", "Nachbereitung"},
	"Strukturierte Analyse": {"Ursache-Wirkung", "Vergleich", "Gliederung nach Themen"},
	"SWOT-Analyse":          {"Stärken", "Schwächen", "Chancen", "Risiken"},
	"Risiko-Check":          {"Eintrittswahrscheinlichkeit", "Schadensausmaß", "Gegenmaßnahmen"},
	"Entscheidungsvorlage":  {"Optionen", "Empfehlung", "Kernaussagen"},
	"Interviewleitfaden":    {"Einstiegsfragen", "Vertiefungsfragen", "Abschlussfragen"},
	"Erklärung":             {"Für Einsteiger", "Mit Beispielen", "Schritt für Schritt"},
	"Lernkarten":            {"Frage/Antwort", "Begriff/Definition"},
	"Quiz":                  {"Multiple Choice", "Offene Fragen"},
	"Code-Snippet":          {"Funktion", "Klasse", "Skript"},
	"Code-Review":           {"Lesbarkeit", "Fehlerquellen", "Performance"},
	"Architekturskizze":     {"Komponenten", "Datenfluss", "Schnittstellen"},
	"Testfälle":             {"Unit-Tests", "Randfälle", "Integrationstests"},
	"Brainstorming-Liste":   {"Quantität vor Qualität", "Clustern", "Bewerten"},
	"Konzeptskizze":         {"Zielbild", "Zielgruppe", "Umsetzungsschritte"},
}

var modes = []Option{
	{ModePractical, "🛠️ Praktisch"},
	{ModeEmotional, "💬 Emotional"},
	{ModeSocial, "🤝 Sozial"},
}

var modePreambles = map[string]string{
	ModePractical: "Fokus: praktische Umsetzung. Konkrete, direkt umsetzbare Ergebnisse stehen im Vordergrund.",
	ModeEmotional: "Fokus: emotionale Klärung. Geh achtsam und wertschätzend auf Gefühle und Bedürfnisse ein.",
	ModeSocial:    "Fokus: soziale Dynamik. Berücksichtige Beziehungen, Rollen und die Kommunikation zwischen den Beteiligten.",
}

var conversationGoals = map[string][]string{
	ModePractical: {"Lösung finden", "Plan erstellen", "Entscheidung vorbereiten", "Wissen strukturieren"},
	ModeEmotional: {"Gefühle sortieren", "Entlastung finden", "Motivation stärken", "Selbstreflexion"},
	ModeSocial:    {"Konflikt klären", "Gespräch vorbereiten", "Feedback formulieren", "Team abstimmen"},
}

var structureBlocks = []string{
	"Einleitung mit Zielbild",
	"Vorgehensschritte",
	"Analyse (z. B. SWOT / Ursachen-Wirkung)",
	"Beispiele / Templates",
	"Qualitäts-/Risiko-Check",
	"Nächste Schritte / To-dos",
	"Quellen/Annahmen",
}

var defaultStructureBlocks = []string{"Einleitung mit Zielbild", "Nächste Schritte / To-dos"}

// UseCases returns all use-cases in display order.
func UseCases() []Option { return clone(useCases) }

// UseCaseLabel returns the display label for a use-case key, or the key itself
// when it is unknown.
func UseCaseLabel(useCase string) string { return label(useCases, useCase) }

// ValidUseCase reports whether useCase is a catalog key.
func ValidUseCase(useCase string) bool { return has(useCases, useCase) }

// SubUseCases returns the sub-types allowed for useCase.
func SubUseCases(useCase string) []string { return cloneStrings(subUseCases[useCase]) }

// Goals returns the goals allowed for useCase. Unknown use-cases only offer
// Freeform.
func Goals(useCase string) []string {
	g, ok := goals[useCase]
	if !ok {
		return []string{Freeform}
	}
	return cloneStrings(g)
}

// GoalSubtypes returns the sub-goal types for a single goal.
func GoalSubtypes(goal string) []string { return cloneStrings(goalSubtypes[goal]) }

// Modes returns all conversation modes.
func Modes() []Option { return clone(modes) }

// ModeLabel returns the display label for a mode key.
func ModeLabel(mode string) string { return label(modes, mode) }

// ValidMode reports whether mode is a catalog key.
func ValidMode(mode string) bool { return has(modes, mode) }

// ModePreamble returns the fixed opening sentence for mode. Unknown modes use
// the practical preamble.
func ModePreamble(mode string) string {
	if s, ok := modePreambles[mode]; ok {
		return s
	}
	return modePreambles[ModePractical]
}

// ConversationGoals returns example conversation goals for mode.
func ConversationGoals(mode string) []string { return cloneStrings(conversationGoals[mode]) }

// StructureBlocks returns every selectable section name.
func StructureBlocks() []string { return cloneStrings(structureBlocks) }

// DefaultStructureBlocks returns the sections preselected for a new form.
func DefaultStructureBlocks() []string { return cloneStrings(defaultStructureBlocks) }

// ValidStructureBlock reports whether name is a catalog section.
func ValidStructureBlock(name string) bool {
	for _, b := range structureBlocks {
		if b == name {
			return true
		}
	}
	return false
}

func label(opts []Option, key string) string {
	for _, o := range opts {
		if o.Key == key {
			return o.Label
		}
	}
	return key
}

func has(opts []Option, key string) bool {
	for _, o := range opts {
		if o.Key == key {
			return true
		}
	}
	return false
}

func clone(opts []Option) []Option {
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}

// cloneStrings always returns a non-nil slice so callers can encode it as [].
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
