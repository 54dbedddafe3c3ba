package catalog

import "strings"

// goalTrigger maps a recognised goal to its specialised practical question set.
type goalTrigger struct {
	keyword   string // matched case-insensitively as a substring of a goal
	questions []string
}

// practicalTriggers is ordered by precedence: when several recognised goals are
// selected at once, the first entry that matches wins.
var practicalTriggers = []goalTrigger{
	{
		keyword: "risiko",
		questions: []string{
			"Welche Risiken wären für dich am kritischsten, wenn sie eintreten?",
			"Welche Frühwarnsignale möchtest du rechtzeitig erkennen?",
			"Welche Gegenmaßnahmen sind für dich realistisch umsetzbar?",
		},
	},
	{
		keyword: "swot",
		questions: []string{
			"Für welche Entscheidung soll die SWOT-Analyse die Grundlage bilden?",
			"Welche internen Stärken und Schwächen sind dir bereits bewusst?",
			"Welche externen Entwicklungen beobachtest du gerade?",
		},
	},
	{
		keyword: "interview",
		questions: []string{
			"Wen möchtest du befragen und was willst du herausfinden?",
			"Welche Themen dürfen im Gespräch auf keinen Fall fehlen?",
			"Wie viel Zeit steht für das Interview zur Verfügung?",
		},
	},
}

var practicalFallback = []string{
	"Was genau soll am Ende als Ergebnis vorliegen?",
	"Woran erkennst du, dass das Ergebnis gut ist?",
	"Welche Rahmenbedingungen musst du unbedingt einhalten?",
}

var modeQuestions = map[string][]string{
	ModeEmotional: {
		"Was beschäftigt dich an diesem Thema gerade am meisten?",
		"Welches Gefühl steht dabei im Vordergrund?",
		"Was würde dir im Moment am meisten helfen?",
	},
	ModeSocial: {
		"Wer ist an der Situation beteiligt?",
		"Welche Beziehung möchtest du stärken oder klären?",
		"Welches Ergebnis wäre für alle Beteiligten fair?",
	},
}

// DeepQuestions returns the three candidate deep questions for mode. Emotional
// and social modes have fixed sets. Practical mode (and any unknown mode) picks
// the set of the highest-precedence recognised goal in goals, or a generic set.
func DeepQuestions(mode string, goals []string) []string {
	if qs, ok := modeQuestions[mode]; ok {
		return cloneStrings(qs)
	}
	for _, t := range practicalTriggers {
		for _, g := range goals {
			if strings.Contains(strings.ToLower(g), t.keyword) {
				return cloneStrings(t.questions)
			}
		}
	}
	return cloneStrings(practicalFallback)
}

// GenericDeepQuestions returns the practical fallback set.
func GenericDeepQuestions() []string { return cloneStrings(practicalFallback) }
