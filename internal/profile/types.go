package profile

import "github.com/kalambet/cockpit/internal/catalog"

// Profile is the canonical snapshot of every choice that drives prompt
// generation. A Profile is produced by Form.Resolve or Normalize and is treated
// as immutable by the renderers.
type Profile struct {
	Language     string `json:"language" yaml:"language"`
	OutputFormat string `json:"output_format" yaml:"output_format"`
	Length       string `json:"length" yaml:"length"`
	Mode         string `json:"mode" yaml:"mode"`

	UseCase           string   `json:"use_case" yaml:"use_case"`
	SubUseCases       []string `json:"sub_use_cases" yaml:"sub_use_cases"`
	Goals             []string `json:"goals" yaml:"goals"`
	GoalSubtypes      []string `json:"goal_subtypes" yaml:"goal_subtypes"`
	ConversationGoals []string `json:"conversation_goals" yaml:"conversation_goals"`

	Audience    string `json:"audience" yaml:"audience"`
	Persona     string `json:"persona" yaml:"persona"`
	CoreConcern string `json:"core_concern" yaml:"core_concern"`
	Context     string `json:"context" yaml:"context"`
	Constraints string `json:"constraints" yaml:"constraints"`

	Tone            string       `json:"tone" yaml:"tone"`
	Rigor           string       `json:"rigor" yaml:"rigor"`
	StructureBlocks []string     `json:"structure_blocks" yaml:"structure_blocks"`
	Quality         QualityFlags `json:"quality_flags" yaml:"quality_flags"`

	DeepQuestionsEnabled     bool     `json:"deep_questions_enabled" yaml:"deep_questions_enabled"`
	PrioritizedDeepQuestions []string `json:"prioritized_deep_questions" yaml:"prioritized_deep_questions"`
}

// QualityFlags are the independent compliance switches.
type QualityFlags struct {
	FactsCheck    bool `json:"facts_check" yaml:"facts_check"`
	BiasCheck     bool `json:"bias_check" yaml:"bias_check"`
	PrivacyNotice bool `json:"privacy_notice" yaml:"privacy_notice"`
}

// Default values for every enum field.
const (
	DefaultLanguage     = "de"
	DefaultOutputFormat = "markdown"
	DefaultLength       = "medium"
	DefaultMode         = catalog.ModePractical
	DefaultUseCase      = catalog.UseCaseAnalyzing
	DefaultTone         = "factual"
	DefaultRigor        = "clear"
)

// MaxDeepQuestions caps the number of ranked deep questions.
const MaxDeepQuestions = 3

// Defaults returns a Profile as it looks at session start.
func Defaults() Profile {
	return Profile{
		Language:                 DefaultLanguage,
		OutputFormat:             DefaultOutputFormat,
		Length:                   DefaultLength,
		Mode:                     DefaultMode,
		UseCase:                  DefaultUseCase,
		SubUseCases:              []string{},
		Goals:                    []string{},
		GoalSubtypes:             []string{},
		ConversationGoals:        []string{},
		Tone:                     DefaultTone,
		Rigor:                    DefaultRigor,
		StructureBlocks:          catalog.DefaultStructureBlocks(),
		PrioritizedDeepQuestions: []string{},
	}
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	cp := p
	cp.SubUseCases = copyStrings(p.SubUseCases)
	cp.Goals = copyStrings(p.Goals)
	cp.GoalSubtypes = copyStrings(p.GoalSubtypes)
	cp.ConversationGoals = copyStrings(p.ConversationGoals)
	cp.StructureBlocks = copyStrings(p.StructureBlocks)
	cp.PrioritizedDeepQuestions = copyStrings(p.PrioritizedDeepQuestions)
	return cp
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
