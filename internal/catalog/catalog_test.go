package catalog

import (
	"reflect"
	"testing"
)

func TestGoals_UnknownUseCaseFallsBackToFreeform(t *testing.T) {
	got := Goals("astrology")
	if !reflect.DeepEqual(got, []string{Freeform}) {
		t.Errorf("Goals(unknown) = %v, want [%s]", got, Freeform)
	}
}

func TestSubUseCases_UnknownIsEmptyNotNil(t *testing.T) {
	got := SubUseCases("astrology")
	if got == nil || len(got) != 0 {
		t.Errorf("SubUseCases(unknown) = %#v, want empty non-nil slice", got)
	}
	if got := GoalSubtypes("nope"); got == nil || len(got) != 0 {
		t.Errorf("GoalSubtypes(unknown) = %#v, want empty non-nil slice", got)
	}
}

func TestLookupsReturnCopies(t *testing.T) {
	g := Goals(UseCaseAnalyzing)
	g[0] = "mutated"
	if Goals(UseCaseAnalyzing)[0] == "mutated" {
		t.Error("Goals returned shared backing array")
	}
}

func TestEveryUseCaseHasGoals(t *testing.T) {
	for _, uc := range UseCases() {
		if len(Goals(uc.Key)) == 0 {
			t.Errorf("use-case %q has no goals", uc.Key)
		}
		if _, ok := subUseCases[uc.Key]; !ok {
			t.Errorf("use-case %q missing from sub-use-case table", uc.Key)
		}
	}
}

func TestUseCaseLabel(t *testing.T) {
	if got := UseCaseLabel(UseCaseAnalyzing); got != "📊 Analysieren" {
		t.Errorf("UseCaseLabel(analyzing) = %q", got)
	}
	if got := UseCaseLabel("custom"); got != "custom" {
		t.Errorf("UseCaseLabel(custom) = %q, want key echoed", got)
	}
}

func TestDeepQuestions(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		goals []string
		want  []string
	}{
		{"risk", ModePractical, []string{"Risiko-Check"}, practicalTriggers[0].questions},
		{"swot", ModePractical, []string{"SWOT-Analyse"}, practicalTriggers[1].questions},
		{"interview", ModePractical, []string{"Interviewleitfaden"}, practicalTriggers[2].questions},
		{"risk beats swot", ModePractical, []string{"SWOT-Analyse", "Risiko-Check"}, practicalTriggers[0].questions},
		{"swot beats interview", ModePractical, []string{"Interviewleitfaden", "SWOT-Analyse"}, practicalTriggers[1].questions},
		{"free text containment", ModePractical, []string{"kleiner risiko-check lieferkette"}, practicalTriggers[0].questions},
		{"fallback", ModePractical, []string{"Zusammenfassung"}, practicalFallback},
		{"no goals", ModePractical, nil, practicalFallback},
		{"unknown mode acts practical", "bogus", []string{"SWOT-Analyse"}, practicalTriggers[1].questions},
		{"emotional ignores goals", ModeEmotional, []string{"Risiko-Check"}, modeQuestions[ModeEmotional]},
		{"social ignores goals", ModeSocial, []string{"SWOT-Analyse"}, modeQuestions[ModeSocial]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepQuestions(tt.mode, tt.goals)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeepQuestions(%q, %v) = %v, want %v", tt.mode, tt.goals, got, tt.want)
			}
			if len(got) != 3 {
				t.Errorf("expected 3 questions, got %d", len(got))
			}
		})
	}
}

func TestModePreambleFallback(t *testing.T) {
	if ModePreamble("bogus") != ModePreamble(ModePractical) {
		t.Error("unknown mode should use the practical preamble")
	}
	if ModePreamble(ModeEmotional) == ModePreamble(ModeSocial) {
		t.Error("modes should have distinct preambles")
	}
}

func TestDefaultStructureBlocksAreValid(t *testing.T) {
	for _, b := range DefaultStructureBlocks() {
		if !ValidStructureBlock(b) {
			t.Errorf("default block %q not in catalog", b)
		}
	}
}

func TestLanguageHint(t *testing.T) {
	if LanguageHint("en") != "englisch" {
		t.Errorf("LanguageHint(en) = %q", LanguageHint("en"))
	}
	if LanguageHint("fr") != "deutsch" {
		t.Errorf("LanguageHint(fr) = %q, want default", LanguageHint("fr"))
	}
}
