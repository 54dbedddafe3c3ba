// Package composer renders a resolved profile into the natural-language prompt
// that users paste into an external assistant.
package composer

import (
	"fmt"
	"strings"
	"time"

	"github.com/kalambet/cockpit/internal/catalog"
	"github.com/kalambet/cockpit/internal/profile"
)

// Section headers and placeholders. Headers are exported so callers can check
// for the presence of optional sections.
const (
	HeaderCoreConcern   = "Anliegen:"
	HeaderContext       = "Kontext (Stichpunkte):"
	HeaderStructure     = "Strukturbausteine (wenn sinnvoll):"
	HeaderDeepQuestions = "Vertiefungsfragen (bitte berücksichtigen):"
	HeaderConstraints   = "Rahmen/Muss-Kriterien:"
	HeaderQuality       = "Qualität & Compliance:"

	PlaceholderCoreConcern = "(kein Anliegen angegeben)"
	PlaceholderContext     = "(kein zusätzlicher Kontext)"
	PlaceholderStructure   = "- (freie Struktur)"
	PlaceholderQuality     = "• (keine zusätzlichen Prüfhinweise)"
)

// Quality bullets, one per flag.
const (
	BulletFactsCheck    = "• Prüfe Aussagen auf Plausibilität und kennzeichne unsichere Stellen."
	BulletBiasCheck     = "• Weise auf mögliche Verzerrungen/Bias hin."
	BulletPrivacyNotice = "• Keine personenbezogenen oder internen Daten verarbeiten."
)

const closing = "Liefere ein Ergebnis, das direkt nutzbar ist. Erkläre nur, wo es dem Verständnis dient."

var formatHints = map[string]string{
	"markdown":   "Antworte in sauberem Markdown.",
	"plain_text": "Antworte als Klartext ohne Markdown.",
	"json":       "Antworte als valides JSON-Objekt mit klaren Schlüsseln.",
	"table":      "Antworte als Markdown-Tabelle mit sprechenden Spalten.",
}

// RenderPrompt expands p into the prompt text. The output depends only on p and
// the date of now; sections without content are left out entirely and the
// result carries no leading or trailing whitespace.
func RenderPrompt(p profile.Profile, now time.Time) string {
	sections := []string{
		catalog.ModePreamble(p.Mode),
		fmt.Sprintf("Du bist ein Assistenzsystem für **%s**.", catalog.UseCaseLabel(p.UseCase)),
		block(HeaderCoreConcern, orPlaceholder(p.CoreConcern, PlaceholderCoreConcern)),
		metadata(p),
		settings(p),
		block(HeaderContext, orPlaceholder(p.Context, PlaceholderContext)),
		block(HeaderStructure, structure(p.StructureBlocks)),
		deepQuestions(p),
		constraints(p.Constraints),
		block(HeaderQuality, quality(p.Quality)),
		closing + "\nDatum: " + now.Format("2006-01-02"),
	}

	var sb strings.Builder
	for _, s := range sections {
		if s == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(s)
	}
	return strings.TrimSpace(sb.String())
}

func block(header, body string) string {
	return header + "\n" + body
}

func orPlaceholder(s, placeholder string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return placeholder
}

// metadata emits one "Label: values" line per non-empty field.
func metadata(p profile.Profile) string {
	var lines []string
	addList := func(label string, values []string) {
		if len(values) > 0 {
			lines = append(lines, label+": "+strings.Join(values, ", "))
		}
	}
	addText := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	addList("Unterbereiche", p.SubUseCases)
	addText("Rolle", p.Persona)
	addText("Zielgruppe", p.Audience)
	addList("Ziel/Output", p.Goals)
	addList("Ausprägungen", p.GoalSubtypes)
	addList("Gesprächsziele", p.ConversationGoals)

	return strings.Join(lines, "\n")
}

func settings(p profile.Profile) string {
	summary := fmt.Sprintf("Sprache: %s. Tonfall: %s. Struktur: %s. Länge: %s.",
		catalog.LanguageHint(p.Language),
		catalog.ToneLabel(p.Tone),
		catalog.RigorLabel(p.Rigor),
		catalog.LengthLabel(p.Length),
	)
	hint, ok := formatHints[p.OutputFormat]
	if !ok {
		hint = formatHints[profile.DefaultOutputFormat]
	}
	return summary + "\n" + hint
}

func structure(blocks []string) string {
	if len(blocks) == 0 {
		return PlaceholderStructure
	}
	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = "- " + b
	}
	return strings.Join(lines, "\n")
}

func deepQuestions(p profile.Profile) string {
	if !p.DeepQuestionsEnabled || len(p.PrioritizedDeepQuestions) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(HeaderDeepQuestions)
	for i, q := range p.PrioritizedDeepQuestions {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, q)
	}
	return sb.String()
}

func constraints(c string) string {
	if c = strings.TrimSpace(c); c == "" {
		return ""
	}
	return block(HeaderConstraints, c)
}

func quality(q profile.QualityFlags) string {
	var lines []string
	if q.FactsCheck {
		lines = append(lines, BulletFactsCheck)
	}
	if q.BiasCheck {
		lines = append(lines, BulletBiasCheck)
	}
	if q.PrivacyNotice {
		lines = append(lines, BulletPrivacyNotice)
	}
	if len(lines) == 0 {
		return PlaceholderQuality
	}
	return strings.Join(lines, "\n")
}
