// Package normalize provides the string transforms used to turn sidecar
// metadata into local file names. All functions are pure and deterministic.
package normalize

import (
	"regexp"
	"strings"
)

// DefaultSeparator is the separator used for file-name bases.
const DefaultSeparator = "."

var (
	// Any maximal run of characters outside [0-9a-z()] collapses to the
	// separator. Parentheses survive so year/aspect markers like "(1977)"
	// and "(16x9)" keep their shape.
	nonTitleChars = regexp.MustCompile(`[^0-9a-z()]+`)

	// Subtitle files carry their language as a two or three letter code
	// preceding the extension, e.g. "feature_en.srt".
	subtitleLang = regexp.MustCompile(`_([a-z]{2,3})\.srt$`)
)

// Title normalizes a title or column name:
//  1. lowercase and trim
//  2. drop apostrophes (Star's -> stars)
//  3. replace runs of special characters (except parentheses) with sep
//  4. collapse repeated separators
//  5. strip leading/trailing separators
//
// Empty input yields the empty string. The transform is idempotent.
func Title(text, sep string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, "'", "")
	s = nonTitleChars.ReplaceAllString(s, sep)

	// Second pass for inputs that already contain the separator, so mixed
	// input like "a.._b" still collapses to a single separator.
	for strings.Contains(s, sep+sep) {
		s = strings.ReplaceAll(s, sep+sep, sep)
	}

	return strings.Trim(s, sep)
}

// Columns normalizes a slice of sidecar column names with the given
// separator (the sidecar schema uses "_").
func Columns(cols []string, sep string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = Title(c, sep)
	}
	return out
}

// SubtitleLanguage extracts the language code from a subtitle filename,
// defaulting to "und" (undefined) when no code is present.
func SubtitleLanguage(filename string) string {
	if m := subtitleLang.FindStringSubmatch(filename); m != nil {
		return m[1]
	}
	return "und"
}

// DisplayName returns the trailing path segment of a group prefix, used as
// the default local folder name when no sidecar title is available.
// "showA/season1/" -> "season1"; "showA/" -> "showA".
func DisplayName(prefix string) string {
	trimmed := strings.TrimSuffix(prefix, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		if seg := trimmed[i+1:]; seg != "" {
			return seg
		}
	}
	return trimmed
}
