package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/cockpit/internal/catalog"
	"github.com/kalambet/cockpit/internal/profile"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Options is the full option catalog a form host needs to draw its widgets.
type Options struct {
	Notice                 string              `json:"notice"`
	UseCases               []catalog.Option    `json:"use_cases"`
	Modes                  []catalog.Option    `json:"modes"`
	Languages              []catalog.Option    `json:"languages"`
	OutputFormats          []catalog.Option    `json:"output_formats"`
	Lengths                []catalog.Option    `json:"lengths"`
	Tones                  []catalog.Option    `json:"tones"`
	Rigors                 []catalog.Option    `json:"rigors"`
	StructureBlocks        []string            `json:"structure_blocks"`
	DefaultStructureBlocks []string            `json:"default_structure_blocks"`
	ConversationGoals      map[string][]string `json:"conversation_goals"`
	MaxDeepQuestions       int                 `json:"max_deep_questions"`
}

// UseCaseOptions lists the options that depend on one use-case.
type UseCaseOptions struct {
	UseCase      string              `json:"use_case"`
	Label        string              `json:"label"`
	SubUseCases  []string            `json:"sub_use_cases"`
	Goals        []string            `json:"goals"`
	GoalSubtypes map[string][]string `json:"goal_subtypes"`
}

func catalogOptions() Options {
	goals := make(map[string][]string)
	for _, m := range catalog.Modes() {
		goals[m.Key] = catalog.ConversationGoals(m.Key)
	}
	return Options{
		Notice:                 catalog.Notice,
		UseCases:               catalog.UseCases(),
		Modes:                  catalog.Modes(),
		Languages:              catalog.Languages(),
		OutputFormats:          catalog.OutputFormats(),
		Lengths:                catalog.Lengths(),
		Tones:                  catalog.Tones(),
		Rigors:                 catalog.Rigors(),
		StructureBlocks:        catalog.StructureBlocks(),
		DefaultStructureBlocks: catalog.DefaultStructureBlocks(),
		ConversationGoals:      goals,
		MaxDeepQuestions:       profile.MaxDeepQuestions,
	}
}

func useCaseOptions(useCase string) UseCaseOptions {
	goals := catalog.Goals(useCase)
	subtypes := make(map[string][]string)
	for _, g := range goals {
		if st := catalog.GoalSubtypes(g); len(st) > 0 {
			subtypes[g] = st
		}
	}
	return UseCaseOptions{
		UseCase:      useCase,
		Label:        catalog.UseCaseLabel(useCase),
		SubUseCases:  catalog.SubUseCases(useCase),
		Goals:        goals,
		GoalSubtypes: subtypes,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogOptions())
}

func handleUseCaseOptions(w http.ResponseWriter, r *http.Request) {
	useCase := chi.URLParam(r, "useCase")
	if !catalog.ValidUseCase(useCase) {
		httpError(w, http.StatusNotFound, "not_found_error", "unknown use-case %q", useCase)
		return
	}
	writeJSON(w, http.StatusOK, useCaseOptions(useCase))
}

type mergeRequest struct {
	Preset []string `json:"preset"`
	Text   string   `json:"text"`
}

type goalsRequest struct {
	Mode  string   `json:"mode"`
	Goals []string `json:"goals"`
}

type prioritizeRequest struct {
	Candidates []string `json:"candidates"`
	Ranked     []string `json:"ranked"`
}

func handleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"values": profile.MergePresetAndFreeText(req.Preset, req.Text),
	})
}

func handleGoalSubtypes(w http.ResponseWriter, r *http.Request) {
	var req goalsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"candidates": profile.ResolveGoalSubtypeCandidates(req.Goals),
	})
}

func handleDeepQuestions(w http.ResponseWriter, r *http.Request) {
	var req goalsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"candidates": profile.ResolveDeepQuestionCandidates(req.Mode, req.Goals),
	})
}

func handlePrioritize(w http.ResponseWriter, r *http.Request) {
	var req prioritizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"questions": profile.Prioritize(req.Candidates, req.Ranked),
	})
}

// decodeBody reads a JSON request body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

// writeJSON encodes v without HTML escaping so prompt text stays readable.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
