package entities

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Bracket glyphs recognized in scripture markup.
const (
	OpenAngle    = "〈"
	CloseAngle   = "〉"
	OpenASCII    = "<"
	CloseASCII   = ">"
	OpenDisplay  = "【"
	CloseDisplay = "】"
	chapterGlyph = "章"
	verseGlyph   = "節"
)

// compactReference matches "<book><chapter>:<verse>", e.g. 創19:17.
var compactReference = regexp.MustCompile(`^([^0-9]+)([0-9]+):([0-9]+)$`)

// ScriptureReference is a citation label paired with its body text.
type ScriptureReference struct {
	Ref  string `json:"ref" yaml:"ref"`
	Body string `json:"body" yaml:"body"`
}

// IsReference reports whether text starts with reference markup. It returns
// the text between the brackets and the trimmed remainder of the line.
func IsReference(text string) (ref, body string, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(text, OpenAngle):
		rest = text[len(OpenAngle):]
	case strings.HasPrefix(text, OpenASCII):
		rest = text[len(OpenASCII):]
	default:
		return "", "", false
	}

	end, closeLen := indexClosing(rest)
	if end < 0 {
		return "", "", false
	}

	ref = rest[:end]
	if strings.TrimSpace(ref) == "" {
		return "", "", false
	}

	return ref, strings.TrimSpace(rest[end+closeLen:]), true
}

// SplitVerseValue splits a numbered verse variable such as
// "〈箴27:12〉通達人見禍藏躲" at its first closing glyph. Leading opening
// glyphs are removed from the reference.
func SplitVerseValue(value string) (ScriptureReference, bool) {
	end, closeLen := indexClosing(value)
	if end < 0 {
		return ScriptureReference{}, false
	}

	ref := strings.TrimLeft(value[:end], OpenAngle+OpenASCII)
	return ScriptureReference{
		Ref:  strings.TrimSpace(ref),
		Body: strings.TrimSpace(value[end+closeLen:]),
	}, true
}

// indexClosing returns the byte offset and width of the first closing glyph.
func indexClosing(s string) (int, int) {
	angle := strings.Index(s, CloseAngle)
	ascii := strings.Index(s, CloseASCII)

	switch {
	case angle < 0 && ascii < 0:
		return -1, 0
	case angle < 0:
		return ascii, len(CloseASCII)
	case ascii < 0 || angle < ascii:
		return angle, len(CloseAngle)
	default:
		return ascii, len(CloseASCII)
	}
}

// Normalize expands a compact citation into its long form:
// 創19:17 becomes 創世記19章17節. References already in long form, or not
// in compact form at all, are returned unchanged.
func Normalize(ref string) string {
	if strings.Contains(ref, chapterGlyph) && strings.Contains(ref, verseGlyph) {
		return ref
	}

	compact := width.Narrow.String(stripSpace(ref))
	m := compactReference.FindStringSubmatch(compact)
	if m == nil {
		return ref
	}

	return BookName(m[1]) + m[2] + chapterGlyph + m[3] + verseGlyph
}

// FormatForSlide renders reference markup for display, e.g. 〈創19:17〉
// becomes 【創19:17】. Book names are not expanded.
func FormatForSlide(ref string) string {
	r := strings.NewReplacer(
		OpenAngle, OpenDisplay,
		OpenASCII, OpenDisplay,
		CloseAngle, CloseDisplay,
		CloseASCII, CloseDisplay,
	)
	return r.Replace(stripSpace(ref))
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
