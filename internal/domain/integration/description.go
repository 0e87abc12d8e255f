package integration

import (
	"html"
	"regexp"
	"strings"
)

// MinDescriptionLength is the shortest sanitized description kept; anything shorter is noise
const MinDescriptionLength = 10

var scriptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)document\.`),
	regexp.MustCompile(`(?i)addEventListener`),
	regexp.MustCompile(`(?i)querySelector`),
	regexp.MustCompile(`(?i)function\s*\(`),
	regexp.MustCompile(`(?i)\bconst\s+\w+\s*=`),
	regexp.MustCompile(`(?i)\blet\s+\w+\s*=`),
	regexp.MustCompile(`(?i)\bvar\s+\w+\s*=`),
	regexp.MustCompile(`=>`),
	regexp.MustCompile(`(?i)\.forEach\(`),
	regexp.MustCompile(`(?i)\.trim\(\)`),
	regexp.MustCompile(`(?i)innerText`),
	regexp.MustCompile(`(?i)innerHTML`),
	regexp.MustCompile(`(?i)<script`),
}

// Applied in order: whole tags, a tag cut off at the end, a tag cut off at the start,
// then any stray angle bracket.
var tagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<[^<>]*>`),
	regexp.MustCompile(`<[^>]*$`),
	regexp.MustCompile(`^[^<]*>`),
	regexp.MustCompile(`</?[a-zA-Z][^>]*/?>`),
	regexp.MustCompile(`[<>]`),
}

var (
	scriptBlock    = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)\s*>`)
	leftoverEntity = regexp.MustCompile(`&[a-zA-Z]+;|&#\d+;`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	codeResidue    = []string{"{", "}", ";", "()", "=>"}
)

// SanitizeDescription turns rich-text descriptions into plain text the platform accepts.
// raw is tried first, then each fallback in order; a candidate that looks like script
// or sanitizes to something too short or code-like is skipped. Returns "" when none qualify.
func SanitizeDescription(raw string, fallbacks ...string) string {
	candidates := make([]string, 0, len(fallbacks)+1)
	candidates = append(candidates, raw)
	candidates = append(candidates, fallbacks...)

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		if LooksLikeScript(candidate) {
			continue
		}
		text := StripMarkup(candidate)
		if acceptableDescription(text) {
			return text
		}
	}
	return ""
}

// LooksLikeScript reports whether s contains script-like content
func LooksLikeScript(s string) bool {
	for _, p := range scriptPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// StripMarkup removes tags, decodes entities and collapses whitespace
func StripMarkup(s string) string {
	s = scriptBlock.ReplaceAllString(s, " ")
	// Treat block-level closers as word breaks so "<p>a</p><p>b</p>" does not glue words together.
	s = strings.NewReplacer("<br>", " ", "<br/>", " ", "<br />", " ", "</p>", " ", "</div>", " ", "</li>", " ").Replace(s)
	for _, p := range tagPatterns {
		s = p.ReplaceAllString(s, "")
	}
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = leftoverEntity.ReplaceAllString(s, " ")
	// Decoding can surface new brackets from &lt; and &gt;
	s = strings.NewReplacer("<", " ", ">", " ").Replace(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func acceptableDescription(text string) bool {
	if len([]rune(text)) < MinDescriptionLength {
		return false
	}
	for _, residue := range codeResidue {
		if strings.Contains(text, residue) {
			return false
		}
	}
	return true
}
