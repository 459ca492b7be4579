package parser

import (
	"regexp"
	"strings"
)

// Field names recognized by the movie text parser. They double as the
// keys of the map returned by ParseMovieText.
const (
	FieldTitle       = "title"
	FieldLink        = "link"
	FieldSynopsis    = "synopsis"
	FieldDirector    = "director"
	FieldProduct     = "product"
	FieldStars       = "stars"
	FieldIMDB        = "imdb"
	FieldReleaseInfo = "release_info"
	FieldGenre       = "genre"
)

// maxFallbackTitleLen bounds the title derived from the first line when
// no explicit title label is present.
const maxFallbackTitleLen = 200

// fieldPattern associates one movie attribute with its ordered label
// variants. Channel posts use English or Persian labels, so each field
// carries both. Patterns are anchored at line start and accept ASCII
// and full-width colons.
type fieldPattern struct {
	field    string
	patterns []*regexp.Regexp
}

var fieldTable = []fieldPattern{
	{FieldTitle, compilePatterns(`^Title[:：]\s*(.+)$`, `^عنوان[:：]\s*(.+)$`)},
	{FieldLink, compilePatterns(`^Link[:：]\s*(\S+)$`, `^لینک[:：]\s*(\S+)$`)},
	{FieldSynopsis, compilePatterns(`^Synopsis[:：]\s*(.+)$`, `^خلاصه[:：]\s*(.+)$`)},
	{FieldDirector, compilePatterns(`^Director[:：]\s*(.+)$`, `^کارگردان[:：]\s*(.+)$`)},
	{FieldProduct, compilePatterns(`^Product(?:ion)?[:：]\s*(.+)$`, `^محصول[:：]\s*(.+)$`)},
	{FieldStars, compilePatterns(`^Stars?[:：]\s*(.+)$`, `^بازیگران[:：]\s*(.+)$`)},
	{FieldIMDB, compilePatterns(`^IMDB[:：]\s*(.+)$`, `^امتیاز\s*IMDB[:：]\s*(.+)$`)},
	{FieldReleaseInfo, compilePatterns(`^Release(?: Info)?[:：]\s*(.+)$`, `^سال(?: انتشار)?[:：]\s*(.+)$`)},
	{FieldGenre, compilePatterns(`^Genre[:：]\s*(.+)$`, `^ژانر[:：]\s*(.+)$`)},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+expr))
	}
	return compiled
}

// ParseMovieText extracts labeled movie attributes from a channel post body.
// Each non-empty line is matched against the field table in order; the
// first pattern that matches claims the line, and the first line to set a
// field wins over later occurrences. When no line carries a title label,
// the first non-empty line (truncated) is used so every non-empty post
// yields a title. All values have internal whitespace runs collapsed.
//
// An empty or whitespace-only body returns an empty map; callers are
// expected to skip such posts entirely.
func ParseMovieText(text string) map[string]string {
	fields := make(map[string]string)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	for _, line := range lines {
		for _, fp := range fieldTable {
			if _, ok := fields[fp.field]; ok {
				continue
			}
			if value, ok := matchField(fp, line); ok {
				fields[fp.field] = value
				break
			}
		}
	}

	if _, ok := fields[FieldTitle]; !ok && len(lines) > 0 {
		fields[FieldTitle] = truncateRunes(lines[0], maxFallbackTitleLen)
	}

	for field, value := range fields {
		fields[field] = strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " "))
	}

	return fields
}

func matchField(fp fieldPattern, line string) (string, bool) {
	for _, pattern := range fp.patterns {
		if m := pattern.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
