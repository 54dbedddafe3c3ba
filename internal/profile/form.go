package profile

import "github.com/kalambet/cockpit/internal/catalog"

// Form is the raw state a host collects from its widgets: preset selections
// next to one free-text buffer per multi-value field, plus the user's ranked
// deep-question picks. Resolve turns it into a Profile.
type Form struct {
	Language     string `json:"language" yaml:"language"`
	OutputFormat string `json:"output_format" yaml:"output_format"`
	Length       string `json:"length" yaml:"length"`
	Mode         string `json:"mode" yaml:"mode"`
	UseCase      string `json:"use_case" yaml:"use_case"`

	SubUseCases           []string `json:"sub_use_cases" yaml:"sub_use_cases"`
	SubUseCasesText       string   `json:"sub_use_cases_text" yaml:"sub_use_cases_text"`
	Goals                 []string `json:"goals" yaml:"goals"`
	GoalsText             string   `json:"goals_text" yaml:"goals_text"`
	GoalSubtypes          []string `json:"goal_subtypes" yaml:"goal_subtypes"`
	GoalSubtypesText      string   `json:"goal_subtypes_text" yaml:"goal_subtypes_text"`
	ConversationGoals     []string `json:"conversation_goals" yaml:"conversation_goals"`
	ConversationGoalsText string   `json:"conversation_goals_text" yaml:"conversation_goals_text"`

	Audience    string `json:"audience" yaml:"audience"`
	Persona     string `json:"persona" yaml:"persona"`
	CoreConcern string `json:"core_concern" yaml:"core_concern"`
	Context     string `json:"context" yaml:"context"`
	Constraints string `json:"constraints" yaml:"constraints"`

	Tone            string       `json:"tone" yaml:"tone"`
	Rigor           string       `json:"rigor" yaml:"rigor"`
	StructureBlocks []string     `json:"structure_blocks" yaml:"structure_blocks"`
	Quality         QualityFlags `json:"quality_flags" yaml:"quality_flags"`

	DeepQuestionsEnabled bool     `json:"deep_questions_enabled" yaml:"deep_questions_enabled"`
	DeepQuestionRanks    []string `json:"deep_question_ranks" yaml:"deep_question_ranks"`
}

// NewForm returns a Form holding the session-start defaults.
func NewForm() Form {
	d := Defaults()
	return Form{
		Language:          d.Language,
		OutputFormat:      d.OutputFormat,
		Length:            d.Length,
		Mode:              d.Mode,
		UseCase:           d.UseCase,
		SubUseCases:       []string{},
		Goals:             []string{},
		GoalSubtypes:      []string{},
		ConversationGoals: []string{},
		Tone:              d.Tone,
		Rigor:             d.Rigor,
		StructureBlocks:   d.StructureBlocks,
		DeepQuestionRanks: []string{},
	}
}

// WithUseCase returns a copy of f switched to useCase. Because the option
// domains of sub-use-cases, goals and goal sub-types depend on the use-case,
// those selections and their free-text buffers are cleared whenever the value
// actually changes.
func (f Form) WithUseCase(useCase string) Form {
	out := f.Clone()
	if out.UseCase == useCase {
		return out
	}
	out.UseCase = useCase
	out.SubUseCases = []string{}
	out.SubUseCasesText = ""
	out.Goals = []string{}
	out.GoalsText = ""
	out.GoalSubtypes = []string{}
	out.GoalSubtypesText = ""
	return out
}

// Resolve computes the effective Profile. Preset selections that are no longer
// offered by the catalog (for example sub-types of a deselected goal) are
// dropped; free-text entries are always kept.
func (f Form) Resolve() Profile {
	useCase := coerce(f.UseCase, catalog.ValidUseCase, DefaultUseCase)
	mode := coerce(f.Mode, catalog.ValidMode, DefaultMode)

	goals := MergePresetAndFreeText(offered(f.Goals, catalog.Goals(useCase)), f.GoalsText)
	candidates := ResolveDeepQuestionCandidates(mode, goals)

	p := Profile{
		Language:     f.Language,
		OutputFormat: f.OutputFormat,
		Length:       f.Length,
		Mode:         mode,
		UseCase:      useCase,

		SubUseCases:       MergePresetAndFreeText(offered(f.SubUseCases, catalog.SubUseCases(useCase)), f.SubUseCasesText),
		Goals:             goals,
		GoalSubtypes:      MergePresetAndFreeText(offered(f.GoalSubtypes, ResolveGoalSubtypeCandidates(goals)), f.GoalSubtypesText),
		ConversationGoals: MergePresetAndFreeText(offered(f.ConversationGoals, catalog.ConversationGoals(mode)), f.ConversationGoalsText),

		Audience:    f.Audience,
		Persona:     f.Persona,
		CoreConcern: f.CoreConcern,
		Context:     f.Context,
		Constraints: f.Constraints,

		Tone:            f.Tone,
		Rigor:           f.Rigor,
		StructureBlocks: f.StructureBlocks,
		Quality:         f.Quality,

		DeepQuestionsEnabled:     f.DeepQuestionsEnabled,
		PrioritizedDeepQuestions: Prioritize(candidates, f.DeepQuestionRanks),
	}
	return Normalize(p)
}

// Clone returns a deep copy of f.
func (f Form) Clone() Form {
	cp := f
	cp.SubUseCases = copyStrings(f.SubUseCases)
	cp.Goals = copyStrings(f.Goals)
	cp.GoalSubtypes = copyStrings(f.GoalSubtypes)
	cp.ConversationGoals = copyStrings(f.ConversationGoals)
	cp.StructureBlocks = copyStrings(f.StructureBlocks)
	cp.DeepQuestionRanks = copyStrings(f.DeepQuestionRanks)
	return cp
}

// offered keeps the selections that appear in options, preserving selection order.
func offered(selected, options []string) []string {
	allowed := make(map[string]bool, len(options))
	for _, o := range options {
		allowed[o] = true
	}
	return keep(selected, func(s string) bool { return allowed[s] })
}
