package language

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code    string // BCP 47 code accepted by the recognition service
	display string // Human-readable name
}

var languages = []entry{
	{"af", "Afrikaans"},
	{"ar", "Arabic"},
	{"cs", "Czech"},
	{"da", "Danish"},
	{"de", "German"},
	{"el", "Greek"},
	{"en", "English"},
	{"en-AU", "English (Australia)"},
	{"en-GB", "English (United Kingdom)"},
	{"en-US", "English (United States)"},
	{"es", "Spanish"},
	{"es-MX", "Spanish (Mexico)"},
	{"fi", "Finnish"},
	{"fr", "French"},
	{"he", "Hebrew"},
	{"hi", "Hindi"},
	{"hu", "Hungarian"},
	{"id", "Indonesian"},
	{"it", "Italian"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"nl", "Dutch"},
	{"no", "Norwegian"},
	{"pl", "Polish"},
	{"pt", "Portuguese"},
	{"pt-BR", "Portuguese (Brazil)"},
	{"ro", "Romanian"},
	{"ru", "Russian"},
	{"sv", "Swedish"},
	{"th", "Thai"},
	{"tr", "Turkish"},
	{"uk", "Ukrainian"},
	{"vi", "Vietnamese"},
	{"zh-CN", "Chinese (Simplified)"},
	{"zh-TW", "Chinese (Traditional)"},
}

var byCode map[string]*entry

func init() {
	byCode = make(map[string]*entry, len(languages))
	for i := range languages {
		byCode[strings.ToLower(languages[i].code)] = &languages[i]
	}
}

// Language pairs a service code with its display name.
type Language struct {
	Code    string
	Display string
}

// Normalize canonicalizes a user-supplied code against the supported table.
// It accepts case variations and underscore separators ("EN_us" -> "en-US").
// The second return value reports whether the language is supported.
func Normalize(code string) (string, bool) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return "", false
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		// Parse is strict about well-formedness; fall back to the raw value so
		// table lookups still work for entries the matcher cannot represent.
		if e, ok := byCode[strings.ToLower(code)]; ok {
			return e.code, true
		}
		return "", false
	}
	if e, ok := byCode[strings.ToLower(tag.String())]; ok {
		return e.code, true
	}
	// Regional variants without a table entry fall back to their base language.
	base, conf := tag.Base()
	if conf != xlanguage.No {
		if e, ok := byCode[base.String()]; ok {
			return e.code, true
		}
	}
	return "", false
}

// Supported reports whether the code maps to a recognition language.
func Supported(code string) bool {
	_, ok := Normalize(code)
	return ok
}

// SameBase reports whether two codes share a base language
// ("en-US" and "en-GB" do, "en" and "fr" do not).
func SameBase(a, b string) bool {
	baseOf := func(code string) string {
		tag, err := xlanguage.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
		if err != nil {
			if idx := strings.Index(code, "-"); idx > 0 {
				return strings.ToLower(code[:idx])
			}
			return strings.ToLower(code)
		}
		base, _ := tag.Base()
		return base.String()
	}
	return baseOf(a) == baseOf(b)
}

// DisplayName returns a human-readable language name for any supported code.
// Unsupported codes are title-cased as-is.
func DisplayName(code string) string {
	if normalized, ok := Normalize(code); ok {
		return byCode[strings.ToLower(normalized)].display
	}
	return cases.Title(xlanguage.English).String(strings.TrimSpace(code))
}

// List returns the supported languages sorted by code.
func List() []Language {
	out := make([]Language, 0, len(languages))
	for _, e := range languages {
		out = append(out, Language{Code: e.code, Display: e.display})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
