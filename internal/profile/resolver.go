package profile

import (
	"strings"

	"github.com/kalambet/cockpit/internal/catalog"
)

// ParseFreeText splits raw on commas and newlines, trims each token and drops
// empty ones. An empty string yields an empty list.
func ParseFreeText(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// MergePresetAndFreeText unions the preset selections with the tokens parsed
// from raw. Preset entries come first and are compared byte for byte; only the
// free-text tokens are trimmed. The result holds each string once, in
// first-seen order.
func MergePresetAndFreeText(preset []string, raw string) []string {
	merged := make([]string, 0, len(preset))
	merged = append(merged, preset...)
	merged = append(merged, ParseFreeText(raw)...)
	return unique(merged)
}

// ResolveGoalSubtypeCandidates concatenates the catalog sub-types of each goal
// in goal order and removes duplicates.
func ResolveGoalSubtypeCandidates(goals []string) []string {
	var all []string
	for _, g := range goals {
		all = append(all, catalog.GoalSubtypes(g)...)
	}
	return dedupe(all)
}

// OnUseCaseChanged returns a copy of p whose use-case dependent selections are
// cleared. Every other field is left as is.
func OnUseCaseChanged(p Profile) Profile {
	out := p.Clone()
	out.SubUseCases = []string{}
	out.Goals = []string{}
	out.GoalSubtypes = []string{}
	return out
}

// ResolveDeepQuestionCandidates returns the candidate deep questions for mode
// and the selected goals. In practical mode the precedence among recognised
// goals is Risiko-Check, then SWOT-Analyse, then Interviewleitfaden.
func ResolveDeepQuestionCandidates(mode string, goals []string) []string {
	return catalog.DeepQuestions(mode, goals)
}

// Prioritize assigns up to three ranked picks from candidates. ranked[i] is the
// caller's choice for rank i+1. A pick that is not a candidate, or that repeats
// a higher rank, is replaced by the next unused candidate in candidate order.
// The result has min(3, len(candidates)) distinct entries.
func Prioritize(candidates, ranked []string) []string {
	cands := dedupe(candidates)
	n := min(MaxDeepQuestions, len(cands))

	valid := make(map[string]bool, len(cands))
	for _, c := range cands {
		valid[c] = true
	}

	used := make(map[string]bool, n)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pick := ""
		if i < len(ranked) && valid[ranked[i]] && !used[ranked[i]] {
			pick = ranked[i]
		} else {
			for _, c := range cands {
				if !used[c] {
					pick = c
					break
				}
			}
		}
		used[pick] = true
		out = append(out, pick)
	}
	return out
}

// Normalize coerces p into a consistent Profile: unknown enum values fall back
// to their defaults, lists are trimmed and deduplicated, structure blocks are
// restricted to the catalog and at most three distinct deep questions are kept.
func Normalize(p Profile) Profile {
	out := p.Clone()

	out.Language = coerce(out.Language, catalog.ValidLanguage, DefaultLanguage)
	out.OutputFormat = coerce(out.OutputFormat, catalog.ValidOutputFormat, DefaultOutputFormat)
	out.Length = coerce(out.Length, catalog.ValidLength, DefaultLength)
	out.Mode = coerce(out.Mode, catalog.ValidMode, DefaultMode)
	out.UseCase = coerce(out.UseCase, catalog.ValidUseCase, DefaultUseCase)
	out.Tone = coerce(out.Tone, catalog.ValidTone, DefaultTone)
	out.Rigor = coerce(out.Rigor, catalog.ValidRigor, DefaultRigor)

	out.SubUseCases = dedupe(out.SubUseCases)
	out.Goals = dedupe(out.Goals)
	out.GoalSubtypes = dedupe(out.GoalSubtypes)
	out.ConversationGoals = dedupe(out.ConversationGoals)
	out.StructureBlocks = keep(dedupe(out.StructureBlocks), catalog.ValidStructureBlock)

	dq := dedupe(out.PrioritizedDeepQuestions)
	if len(dq) > MaxDeepQuestions {
		dq = dq[:MaxDeepQuestions]
	}
	out.PrioritizedDeepQuestions = dq

	return out
}

func coerce(v string, valid func(string) bool, def string) string {
	if valid(v) {
		return v
	}
	return def
}

// dedupe trims entries, drops empty ones and keeps the first occurrence of
// each string. It never returns nil.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// unique keeps the first occurrence of each string as given. It never returns
// nil.
func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func keep(in []string, ok func(string) bool) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if ok(s) {
			out = append(out, s)
		}
	}
	return out
}
