package catalog

// Setting enums. Each list is ordered; tone, rigor and length are scales.
var (
	languages = []Option{
		{"de", "Deutsch"},
		{"en", "Englisch"},
	}
	outputFormats = []Option{
		{"markdown", "Markdown"},
		{"plain_text", "Reiner Text"},
		{"json", "JSON-Antwort"},
		{"table", "Tabelle (Markdown)"},
	}
	lengths = []Option{
		{"ultra_short", "ultrakurz"},
		{"short", "kurz"},
		{"medium", "mittel"},
		{"long", "lang"},
		{"very_long", "sehr lang"},
	}
	tones = []Option{
		{"very_factual", "sehr sachlich"},
		{"factual", "sachlich"},
		{"neutral", "neutral"},
		{"lively", "lebendig"},
		{"creative", "kreativ"},
	}
	rigors = []Option{
		{"loose", "locker"},
		{"medium", "mittel"},
		{"clear", "klar"},
		{"very_clear", "sehr klar"},
	}
)

// languageHints name the answer language inside the prompt.
var languageHints = map[string]string{
	"de": "deutsch",
	"en": "englisch",
}

func Languages() []Option     { return clone(languages) }
func OutputFormats() []Option { return clone(outputFormats) }
func Lengths() []Option       { return clone(lengths) }
func Tones() []Option         { return clone(tones) }
func Rigors() []Option        { return clone(rigors) }

func ValidLanguage(k string) bool     { return has(languages, k) }
func ValidOutputFormat(k string) bool { return has(outputFormats, k) }
func ValidLength(k string) bool       { return has(lengths, k) }
func ValidTone(k string) bool         { return has(tones, k) }
func ValidRigor(k string) bool        { return has(rigors, k) }

func OutputFormatLabel(k string) string { return label(outputFormats, k) }
func LengthLabel(k string) string       { return label(lengths, k) }
func ToneLabel(k string) string         { return label(tones, k) }
func RigorLabel(k string) string        { return label(rigors, k) }

// LanguageHint returns the lower-case language name used in the prompt.
func LanguageHint(k string) string {
	if h, ok := languageHints[k]; ok {
		return h
	}
	return languageHints["de"]
}
