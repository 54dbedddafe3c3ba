package composer

import (
	"strings"
	"testing"
	"time"

	"github.com/kalambet/cockpit/internal/catalog"
	"github.com/kalambet/cockpit/internal/profile"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func analyzingDefaults() profile.Profile {
	p := profile.Defaults()
	p.UseCase = catalog.UseCaseAnalyzing
	p.Goals = []string{"SWOT-Analyse"}
	p.Mode = catalog.ModePractical
	p.Language = "de"
	p.OutputFormat = "markdown"
	p.Length = "medium"
	p.Tone = "factual"
	p.Rigor = "clear"
	return p
}

func TestRenderPrompt_AnalyzingSWOTDefaults(t *testing.T) {
	out := RenderPrompt(analyzingDefaults(), testNow)

	checks := []string{
		"Du bist ein Assistenzsystem für **📊 Analysieren**.",
		"Ziel/Output: SWOT-Analyse",
		HeaderContext + "\n" + PlaceholderContext,
		"Sprache: deutsch. Tonfall: sachlich. Struktur: klar. Länge: mittel.",
		"Antworte in sauberem Markdown.",
		PlaceholderQuality,
		"Datum: 2026-03-14",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPrompt_SectionOrder(t *testing.T) {
	p := analyzingDefaults()
	p.CoreConcern = "Standortentscheidung"
	p.Constraints = "max. 1 Seite"
	p.DeepQuestionsEnabled = true
	p.PrioritizedDeepQuestions = []string{"Frage eins?"}
	out := RenderPrompt(p, testNow)

	order := []string{
		catalog.ModePreamble(catalog.ModePractical),
		"Du bist ein Assistenzsystem",
		HeaderCoreConcern,
		"Ziel/Output:",
		"Sprache:",
		"Antworte in sauberem Markdown.",
		HeaderContext,
		HeaderStructure,
		HeaderDeepQuestions,
		HeaderConstraints,
		HeaderQuality,
		"Datum:",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx < 0 {
			t.Fatalf("missing %q in:\n%s", marker, out)
		}
		if idx <= last {
			t.Errorf("%q out of order", marker)
		}
		last = idx
	}
}

func TestRenderPrompt_OmitsEmptyConstraints(t *testing.T) {
	p := analyzingDefaults()
	p.Constraints = "   "
	out := RenderPrompt(p, testNow)
	if strings.Contains(out, HeaderConstraints) {
		t.Errorf("constraints header rendered for empty constraints:\n%s", out)
	}

	p.Constraints = "- DSGVO beachten"
	out = RenderPrompt(p, testNow)
	if !strings.Contains(out, HeaderConstraints+"\n- DSGVO beachten") {
		t.Errorf("constraints block missing:\n%s", out)
	}
}

func TestRenderPrompt_PrivacyAddsExactlyOneLine(t *testing.T) {
	p := analyzingDefaults()
	p.Quality.FactsCheck = true
	before := RenderPrompt(p, testNow)

	p.Quality.PrivacyNotice = true
	after := RenderPrompt(p, testNow)

	beforeLines := strings.Split(before, "\n")
	afterLines := strings.Split(after, "\n")
	if len(afterLines) != len(beforeLines)+1 {
		t.Fatalf("expected one extra line, got %d -> %d", len(beforeLines), len(afterLines))
	}

	// Removing the privacy bullet must restore the original text.
	var kept []string
	removed := 0
	for _, l := range afterLines {
		if l == BulletPrivacyNotice {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	if removed != 1 {
		t.Fatalf("privacy bullet appears %d times", removed)
	}
	if strings.Join(kept, "\n") != before {
		t.Errorf("unexpected diff besides the privacy bullet:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestRenderPrompt_QualityPlaceholderReplacedByBullets(t *testing.T) {
	p := analyzingDefaults()
	p.Quality = profile.QualityFlags{FactsCheck: true, BiasCheck: true, PrivacyNotice: true}
	out := RenderPrompt(p, testNow)
	if strings.Contains(out, PlaceholderQuality) {
		t.Error("placeholder rendered next to active flags")
	}
	want := HeaderQuality + "\n" + BulletFactsCheck + "\n" + BulletBiasCheck + "\n" + BulletPrivacyNotice
	if !strings.Contains(out, want) {
		t.Errorf("quality block = \n%s", out)
	}
}

func TestRenderPrompt_DeepQuestionsGatedByFlag(t *testing.T) {
	p := analyzingDefaults()
	p.PrioritizedDeepQuestions = []string{"A?", "B?"}

	if out := RenderPrompt(p, testNow); strings.Contains(out, HeaderDeepQuestions) {
		t.Error("deep questions rendered while disabled")
	}

	p.DeepQuestionsEnabled = true
	out := RenderPrompt(p, testNow)
	if !strings.Contains(out, HeaderDeepQuestions+"\n1. A?\n2. B?") {
		t.Errorf("numbered list missing:\n%s", out)
	}

	p.PrioritizedDeepQuestions = nil
	if out := RenderPrompt(p, testNow); strings.Contains(out, HeaderDeepQuestions) {
		t.Error("deep questions header rendered for empty list")
	}
}

func TestRenderPrompt_MetadataLinesOnlyWhenPresent(t *testing.T) {
	p := analyzingDefaults()
	p.Goals = nil
	out := RenderPrompt(p, testNow)
	for _, label := range []string{"Unterbereiche:", "Rolle:", "Zielgruppe:", "Ziel/Output:", "Ausprägungen:", "Gesprächsziele:"} {
		if strings.Contains(out, label) {
			t.Errorf("unexpected %q in prompt without metadata", label)
		}
	}

	p.SubUseCases = []string{"Marktanalyse", "Datenauswertung"}
	p.Persona = "Controller:in"
	p.Audience = "Leitung"
	p.GoalSubtypes = []string{"Stärken"}
	p.ConversationGoals = []string{"Entscheidung vorbereiten"}
	out = RenderPrompt(p, testNow)
	for _, line := range []string{
		"Unterbereiche: Marktanalyse, Datenauswertung",
		"Rolle: Controller:in",
		"Zielgruppe: Leitung",
		"Ausprägungen: Stärken",
		"Gesprächsziele: Entscheidung vorbereiten",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("missing %q", line)
		}
	}
}

func TestRenderPrompt_NoStrayBlankLines(t *testing.T) {
	p := analyzingDefaults()
	p.Goals = nil
	out := RenderPrompt(p, testNow)
	if strings.Contains(out, "\n\n\n") {
		t.Errorf("found consecutive blank lines:\n%q", out)
	}
	if out != strings.TrimSpace(out) {
		t.Error("prompt has leading or trailing whitespace")
	}
}

func TestRenderPrompt_Placeholders(t *testing.T) {
	p := analyzingDefaults()
	p.StructureBlocks = nil
	out := RenderPrompt(p, testNow)
	for _, want := range []string{PlaceholderCoreConcern, PlaceholderContext, PlaceholderStructure, PlaceholderQuality} {
		if !strings.Contains(out, want) {
			t.Errorf("missing placeholder %q", want)
		}
	}
}

func TestRenderPrompt_OutputFormats(t *testing.T) {
	for format, hint := range formatHints {
		p := analyzingDefaults()
		p.OutputFormat = format
		if out := RenderPrompt(p, testNow); !strings.Contains(out, hint) {
			t.Errorf("format %s: missing hint %q", format, hint)
		}
	}
}

func TestRenderPrompt_ModePreambles(t *testing.T) {
	for _, m := range catalog.Modes() {
		p := analyzingDefaults()
		p.Mode = m.Key
		out := RenderPrompt(p, testNow)
		if !strings.HasPrefix(out, catalog.ModePreamble(m.Key)) {
			t.Errorf("mode %s: prompt does not start with its preamble", m.Key)
		}
	}
}

func TestRenderPrompt_Deterministic(t *testing.T) {
	p := analyzingDefaults()
	p.Context = "• Thema\n• Ziel"
	a := RenderPrompt(p, testNow)
	b := RenderPrompt(p, testNow)
	if a != b {
		t.Error("rendering the same profile twice differs")
	}
	c := RenderPrompt(p, testNow.Add(48*time.Hour))
	if strings.Replace(c, "2026-03-16", "2026-03-14", 1) != a {
		t.Error("output differs beyond the date stamp")
	}
}

func TestRenderPrompt_EnglishLanguageHint(t *testing.T) {
	p := analyzingDefaults()
	p.Language = "en"
	if out := RenderPrompt(p, testNow); !strings.Contains(out, "Sprache: englisch.") {
		t.Errorf("missing english hint:\n%s", out)
	}
}
