package translation

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/djairjr/translate-folder/internal/textutil"
)

// digitPrefix keeps a normalized identifier valid when the translation
// starts with a digit.
const digitPrefix = "var_"

var (
	punctuation    = regexp.MustCompile(`[^\p{L}\p{N}\s_]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// TranslateIdentifier converts a Chinese identifier into a token-safe
// English name: the pointer marker is stripped for the translation
// call and reattached afterwards, and the translated prose is
// normalized into snake_case. On any failure the original name is
// returned unchanged; the result is never empty.
func TranslateIdentifier(ctx context.Context, tr Translator, name string) string {
	bare := strings.TrimSpace(strings.ReplaceAll(name, "*", ""))
	if bare == "" {
		return name
	}

	translated, err := tr.Translate(ctx, bare)
	if err != nil {
		log.Warn().Err(err).Str("identifier", textutil.Truncate(name, 30)).Msg("Identifier translation failed")
		return name
	}

	token := NormalizeIdentifier(translated)
	if token == "" {
		return name
	}
	if strings.Contains(name, "*") {
		token = "*" + token
	}
	return token
}

// NormalizeIdentifier turns translated prose into a snake_case token:
// punctuation is stripped, whitespace runs collapse to a single
// underscore, the result is lowercased, and a leading digit gets the
// var_ prefix.
func NormalizeIdentifier(translated string) string {
	cleaned := punctuation.ReplaceAllString(translated, "")
	token := whitespaceRuns.ReplaceAllString(strings.TrimSpace(cleaned), "_")
	token = strings.ToLower(token)
	if token == "" {
		return ""
	}
	if unicode.IsDigit([]rune(token)[0]) {
		token = digitPrefix + token
	}
	return token
}
