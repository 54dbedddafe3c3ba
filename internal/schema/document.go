// Package schema builds the machine-readable export of a profile and its
// rendered prompt.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kalambet/cockpit/internal/catalog"
	"github.com/kalambet/cockpit/internal/profile"
)

// ProtocolVersion identifies the document layout.
const ProtocolVersion = "prompt.cockpit/1.0"

// Document is the JSON export. Field order is the key order on the wire.
// Optional text fields are null when empty; lists are always arrays.
type Document struct {
	ProtocolVersion string      `json:"protocol_version"`
	Meta            Meta        `json:"meta"`
	Profile         ProfileData `json:"profile"`
	CoreConcern     *string     `json:"core_concern"`
	Context         *string     `json:"context"`
	Constraints     *string     `json:"constraints"`
	DeepQuestions   []string    `json:"deep_questions"`
	RenderedPrompt  string      `json:"rendered_prompt"`
}

type Meta struct {
	Created              string `json:"created"`
	Language             string `json:"language"`
	Format               string `json:"format"`
	Length               string `json:"length"`
	Mode                 string `json:"mode"`
	DeepQuestionsEnabled bool   `json:"deep_questions_enabled"`
}

type ProfileData struct {
	UseCase           string      `json:"use_case"`
	UseCaseLabel      string      `json:"use_case_label"`
	SubUseCases       []string    `json:"sub_use_cases"`
	Goals             []string    `json:"goals"`
	GoalSubtypes      []string    `json:"goal_subtypes"`
	ConversationGoals []string    `json:"conversation_goals"`
	Tone              string      `json:"tone"`
	Rigor             string      `json:"rigor"`
	Persona           *string     `json:"persona"`
	Audience          *string     `json:"audience"`
	Structure         []string    `json:"structure"`
	Quality           QualityData `json:"qc"`
}

type QualityData struct {
	Facts          bool `json:"facts"`
	Bias           bool `json:"bias"`
	DataProtection bool `json:"data_protection"`
}

// Render mirrors p and the rendered prompt text into a Document. now is
// recorded as the creation time with second precision.
func Render(p profile.Profile, prompt string, now time.Time) Document {
	return Document{
		ProtocolVersion: ProtocolVersion,
		Meta: Meta{
			Created:              now.Format(time.RFC3339),
			Language:             p.Language,
			Format:               p.OutputFormat,
			Length:               p.Length,
			Mode:                 p.Mode,
			DeepQuestionsEnabled: p.DeepQuestionsEnabled,
		},
		Profile: ProfileData{
			UseCase:           p.UseCase,
			UseCaseLabel:      catalog.UseCaseLabel(p.UseCase),
			SubUseCases:       list(p.SubUseCases),
			Goals:             list(p.Goals),
			GoalSubtypes:      list(p.GoalSubtypes),
			ConversationGoals: list(p.ConversationGoals),
			Tone:              p.Tone,
			Rigor:             p.Rigor,
			Persona:           optional(p.Persona),
			Audience:          optional(p.Audience),
			Structure:         list(p.StructureBlocks),
			Quality: QualityData{
				Facts:          p.Quality.FactsCheck,
				Bias:           p.Quality.BiasCheck,
				DataProtection: p.Quality.PrivacyNotice,
			},
		},
		CoreConcern:    optional(p.CoreConcern),
		Context:        optional(p.Context),
		Constraints:    optional(p.Constraints),
		DeepQuestions:  list(p.PrioritizedDeepQuestions),
		RenderedPrompt: prompt,
	}
}

// Marshal encodes doc as indented UTF-8 JSON. Non-ASCII text and markup are
// written as-is rather than escaped.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal decodes a document produced by Marshal.
func Unmarshal(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// list copies s so the document never shares backing arrays with the profile.
func list(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
