package domain

// Supported language codes.
const (
	LanguageEnglish = "en"
	LanguageSpanish = "es"

	DefaultLanguage = LanguageEnglish
)

// IsLanguageChangeRequest reports whether text selects one of the supported
// languages. Matching is exact: no trimming and no case folding.
func IsLanguageChangeRequest(text string) bool {
	return text == LanguageSpanish || text == LanguageEnglish
}
