package languages

import "strings"

// Options controls both allowed languages and their display order.
var Options = []Language{
	{Code: "en", Name: "English", Label: "🇬🇧 English", Upstream: "EN"},
	{Code: "ru", Name: "Russian", Label: "🇷🇺 Russian", Upstream: "RU"},
	{Code: "nl", Name: "Dutch", Label: "🇳🇱 Dutch", Upstream: "NL"},
	{Code: "es", Name: "Spanish", Label: "🇪🇸 Spanish", Upstream: "ES"},
	{Code: "de", Name: "German", Label: "🇩🇪 German", Upstream: "DE"},
	{Code: "fr", Name: "French", Label: "🇫🇷 French", Upstream: "FR"},
	{Code: "it", Name: "Italian", Label: "🇮🇹 Italian", Upstream: "IT"},
	{Code: "pl", Name: "Polish", Label: "🇵🇱 Polish", Upstream: "PL"},
	{Code: "pt", Name: "Portuguese", Label: "🇵🇹 Portuguese", Upstream: "PT-PT"},
}

type Language struct {
	Code     string
	Name     string // English name used inside model prompts
	Label    string
	Upstream string // code expected by the translation API
}

var byKey = buildIndex()

func buildIndex() map[string]Language {
	out := make(map[string]Language, len(Options)*2)
	for _, option := range Options {
		out[option.Code] = option
		out[strings.ToLower(option.Name)] = option
	}
	return out
}

// Lookup accepts either a code ("es") or an English name ("Spanish").
func Lookup(value string) (Language, bool) {
	lang, ok := byKey[strings.ToLower(strings.TrimSpace(value))]
	return lang, ok
}

// Normalize returns the canonical code for value.
func Normalize(value string) (string, bool) {
	lang, ok := Lookup(value)
	if !ok {
		return "", false
	}
	return lang.Code, true
}

func SupportedCodes() []string {
	codes := make([]string, 0, len(Options))
	for _, option := range Options {
		codes = append(codes, option.Code)
	}
	return codes
}

func IsSupported(value string) bool {
	_, ok := Lookup(value)
	return ok
}

// NameFor returns the English name, or value itself when unknown.
func NameFor(value string) string {
	lang, ok := Lookup(value)
	if !ok {
		return value
	}
	return lang.Name
}

func LabelFor(value string) string {
	lang, ok := Lookup(value)
	if !ok {
		return value
	}
	return lang.Label
}
