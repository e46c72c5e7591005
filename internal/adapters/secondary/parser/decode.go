package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/fredcamaral/versedeck/internal/domain/entities"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// decodeText turns raw input into text. UTF-8 with or without a BOM is
// accepted as is; UTF-16 with a BOM is transcoded. Anything else that is not
// valid UTF-8 is a ParseError naming the first bad line.
func decodeText(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, utf16LEBOM) || bytes.HasPrefix(raw, utf16BEBOM) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return "", &entities.ParseError{Reason: "invalid UTF-16 input", Err: err}
		}
		return string(out), nil
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return "", &entities.ParseError{
			Line:   invalidUTF8Line(raw),
			Reason: "input is not valid UTF-8",
		}
	}
	return string(raw), nil
}

func invalidUTF8Line(raw []byte) int {
	line := 1
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return line
		}
		if r == '\n' {
			line++
		}
		i += size
	}
	return line
}

// splitLines splits text into lines, dropping a trailing carriage return
// from each.
func splitLines(text string) []string {
	lines := bytes.Split([]byte(text), []byte("\n"))
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(bytes.TrimSuffix(l, []byte("\r")))
	}
	// a final newline does not start another line
	if len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func lineWarning(kind entities.WarningKind, line int, format string, args ...any) entities.Warning {
	return entities.Warning{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}
