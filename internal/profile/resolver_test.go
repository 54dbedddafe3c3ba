package profile

import (
	"reflect"
	"testing"

	"github.com/kalambet/cockpit/internal/catalog"
)

func TestParseFreeText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "  \n , ,\n", []string{}},
		{"commas", "a, b ,c", []string{"a", "b", "c"}},
		{"newlines", "eins\nzwei\r\ndrei", []string{"eins", "zwei", "drei"}},
		{"mixed", "x,\n y\n,z ", []string{"x", "y", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFreeText(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFreeText(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMergePresetAndFreeText_OrderAndDedup(t *testing.T) {
	got := MergePresetAndFreeText([]string{"SWOT-Analyse", "Risiko-Check"}, "Eigenes Ziel, SWOT-Analyse\nEigenes Ziel\nNoch eins")
	want := []string{"SWOT-Analyse", "Risiko-Check", "Eigenes Ziel", "Noch eins"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMergePresetAndFreeText_Idempotent(t *testing.T) {
	cases := []struct {
		preset []string
		text   string
	}{
		{nil, ""},
		{[]string{"a", "b"}, "c, a"},
		{[]string{"a", "a"}, "a\na"},
		{nil, "x,y\nz"},
		{[]string{"Zusammenfassung"}, ""},
	}
	for _, c := range cases {
		once := MergePresetAndFreeText(c.preset, c.text)
		twice := MergePresetAndFreeText(once, "")
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("merge not idempotent for %v/%q: %v vs %v", c.preset, c.text, once, twice)
		}
	}
}

func TestMergePresetAndFreeText_NoDuplicates(t *testing.T) {
	got := MergePresetAndFreeText([]string{"a", "b", "a", "c"}, "c,b,d,d,a")
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Fatalf("duplicate %q in %v", s, got)
		}
		seen[s] = true
	}
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMergePresetAndFreeText_PresetsExact(t *testing.T) {
	cases := []struct {
		preset []string
		text   string
		want   []string
	}{
		{[]string{"a ", "a"}, "", []string{"a ", "a"}},
		{[]string{"a ", "a"}, " a ", []string{"a ", "a"}},
		{[]string{"A", "a"}, "b", []string{"A", "a", "b"}},
		{[]string{"x", "x"}, "", []string{"x"}},
	}
	for _, c := range cases {
		got := MergePresetAndFreeText(c.preset, c.text)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("MergePresetAndFreeText(%q, %q) = %q, want %q", c.preset, c.text, got, c.want)
		}
	}
}

func TestResolveGoalSubtypeCandidates(t *testing.T) {
	swot := catalog.GoalSubtypes("SWOT-Analyse")
	risk := catalog.GoalSubtypes("Risiko-Check")

	got := ResolveGoalSubtypeCandidates([]string{"SWOT-Analyse", "Risiko-Check"})
	want := append(append([]string{}, swot...), risk...)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Zusammenfassung and Entscheidungsvorlage share "Kernaussagen".
	overlap := ResolveGoalSubtypeCandidates([]string{"Zusammenfassung", "Entscheidungsvorlage"})
	count := 0
	for _, s := range overlap {
		if s == "Kernaussagen" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected Kernaussagen once, got %d in %v", count, overlap)
	}

	if got := ResolveGoalSubtypeCandidates([]string{"frei erfunden"}); len(got) != 0 {
		t.Errorf("unknown goal should have no sub-types, got %v", got)
	}
}

func TestOnUseCaseChanged(t *testing.T) {
	p := Defaults()
	p.SubUseCases = []string{"Marktanalyse"}
	p.Goals = []string{"SWOT-Analyse"}
	p.GoalSubtypes = []string{"Stärken"}
	p.ConversationGoals = []string{"Plan erstellen"}
	p.Persona = "Analyst:in"
	p.Context = "Kontext"
	p.Quality.BiasCheck = true
	p.PrioritizedDeepQuestions = []string{"q1"}

	got := OnUseCaseChanged(p)

	if len(got.Goals) != 0 || len(got.SubUseCases) != 0 || len(got.GoalSubtypes) != 0 {
		t.Fatalf("dependent fields not reset: %+v", got)
	}

	want := p.Clone()
	want.SubUseCases = []string{}
	want.Goals = []string{}
	want.GoalSubtypes = []string{}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("other fields changed:\n got  %+v\n want %+v", got, want)
	}

	// Input must not be mutated.
	if len(p.Goals) != 1 {
		t.Error("OnUseCaseChanged mutated its input")
	}
}

func TestResolveDeepQuestionCandidates_RiskSpecific(t *testing.T) {
	risk := ResolveDeepQuestionCandidates(catalog.ModePractical, []string{"Risiko-Check"})
	generic := catalog.GenericDeepQuestions()
	if reflect.DeepEqual(risk, generic) {
		t.Fatal("Risiko-Check returned the generic fallback list")
	}
	if len(risk) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(risk))
	}
}

func TestPrioritize(t *testing.T) {
	cands := []string{"q1", "q2", "q3", "q4"}
	tests := []struct {
		name   string
		cands  []string
		ranked []string
		want   []string
	}{
		{"defaults to candidate order", cands, nil, []string{"q1", "q2", "q3"}},
		{"explicit picks", cands, []string{"q4", "q2", "q1"}, []string{"q4", "q2", "q1"}},
		{"collision re-defaults lower rank", cands, []string{"q2", "q2", "q3"}, []string{"q2", "q1", "q3"}},
		{"all same", cands, []string{"q3", "q3", "q3"}, []string{"q3", "q1", "q2"}},
		{"unknown pick", cands, []string{"zzz", "q1"}, []string{"q1", "q2", "q3"}},
		{"partial ranks", cands, []string{"q4"}, []string{"q4", "q1", "q2"}},
		{"fewer candidates", []string{"a", "b"}, []string{"b", "b", "b"}, []string{"b", "a"}},
		{"no candidates", nil, []string{"x"}, []string{}},
		{"duplicate candidates", []string{"a", "a", "b"}, nil, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prioritize(tt.cands, tt.ranked)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Prioritize(%v, %v) = %v, want %v", tt.cands, tt.ranked, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	p := Profile{
		Language:                 "fr",
		OutputFormat:             "pdf",
		Length:                   "endless",
		Mode:                     "angry",
		UseCase:                  "astrology",
		Tone:                     "loud",
		Rigor:                    "strict",
		Goals:                    []string{"a", " a ", "", "b"},
		StructureBlocks:          []string{"Vorgehensschritte", "Unbekannt", "Vorgehensschritte"},
		PrioritizedDeepQuestions: []string{"1", "2", "2", "3", "4"},
	}
	got := Normalize(p)

	if got.Language != DefaultLanguage || got.OutputFormat != DefaultOutputFormat || got.Length != DefaultLength {
		t.Errorf("settings not coerced: %+v", got)
	}
	if got.Mode != DefaultMode || got.UseCase != DefaultUseCase || got.Tone != DefaultTone || got.Rigor != DefaultRigor {
		t.Errorf("enums not coerced: %+v", got)
	}
	if !reflect.DeepEqual(got.Goals, []string{"a", "b"}) {
		t.Errorf("Goals = %v", got.Goals)
	}
	if !reflect.DeepEqual(got.StructureBlocks, []string{"Vorgehensschritte"}) {
		t.Errorf("StructureBlocks = %v", got.StructureBlocks)
	}
	if !reflect.DeepEqual(got.PrioritizedDeepQuestions, []string{"1", "2", "3"}) {
		t.Errorf("PrioritizedDeepQuestions = %v", got.PrioritizedDeepQuestions)
	}
	if got.SubUseCases == nil || got.ConversationGoals == nil {
		t.Error("nil lists should normalize to empty slices")
	}
}

func TestNormalize_KeepsValidValues(t *testing.T) {
	p := Defaults()
	p.Language = "en"
	p.Tone = "creative"
	got := Normalize(p)
	if got.Language != "en" || got.Tone != "creative" {
		t.Errorf("valid values changed: %+v", got)
	}
}
