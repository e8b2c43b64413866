package pga

import (
	"fmt"
	"strconv"
	"strings"
)

// SQL builds a Statement from template text, rewriting each bare ? to an
// ordinal placeholder ($1, $2, ...) and binding params in order. Question
// marks inside single-quoted, double-quoted, and dollar-quoted regions are
// left alone, and ?? emits a literal ? for operators such as jsonb's ?|.
//
// SQL panics when the placeholder and parameter counts disagree; a
// mismatch is a programming error at the call site, not a runtime
// condition. It performs no other SQL analysis.
func SQL(text string, params ...any) Statement {
	var out strings.Builder
	out.Grow(len(text) + 8)

	ordinal := 0
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '?':
			if i+1 < len(text) && text[i+1] == '?' {
				out.WriteByte('?')
				i += 2
				continue
			}
			ordinal++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(ordinal))
			i++
		case c == '\'' || c == '"':
			end := skipQuoted(text, i, c)
			out.WriteString(text[i:end])
			i = end
		case c == '$':
			if end, ok := skipDollarQuoted(text, i); ok {
				out.WriteString(text[i:end])
				i = end
				continue
			}
			out.WriteByte(c)
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}

	if ordinal != len(params) {
		panic(fmt.Sprintf("pga.SQL: %d placeholders, %d params", ordinal, len(params)))
	}

	return Statement{Text: out.String(), Params: params}
}

// skipQuoted returns the index just past the quoted region opened at
// start. Doubled quotes stay inside the region; an unterminated region
// runs to the end of the text.
func skipQuoted(s string, start int, quote byte) int {
	i := start + 1
	for i < len(s) {
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(s)
}

// skipDollarQuoted returns the index just past a $tag$...$tag$ region
// opened at start, or ok=false when start does not open one. An
// unterminated region runs to the end of the text.
func skipDollarQuoted(s string, start int) (int, bool) {
	j := start + 1
	for j < len(s) && isDollarTagByte(s[j]) {
		j++
	}
	if j >= len(s) || s[j] != '$' {
		return 0, false
	}

	tag := s[start : j+1]
	rest := s[j+1:]
	closing := strings.Index(rest, tag)
	if closing < 0 {
		return len(s), true
	}
	return j + 1 + closing + len(tag), true
}

func isDollarTagByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
