package extract

import "strings"

// precleaner rewrites characters that defeat the byte-level walk below:
// smart quotes become ASCII quotes and markdown fences disappear.
var precleaner = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"```json", "",
	"```", "",
)

// Repair rewrites near-JSON into parseable JSON. It walks the input once,
// tracking string and bracket state, and corrects the malformations LLMs
// actually produce:
//
//   - single-quoted strings become double-quoted
//   - unquoted object keys and bare-word values get quoted
//   - trailing and duplicate commas are dropped
//   - smart quotes are normalized, fences stripped
//   - raw control characters inside strings are escaped
//   - Python-style True/False/None become JSON literals
//   - truncated output has its open string and brackets closed
//
// Repair is best-effort: the result is not guaranteed to parse, callers must
// re-attempt a strict parse on it.
func Repair(s string) string {
	s = precleaner.Replace(s)

	out := make([]byte, 0, len(s)+8)
	var stack []byte
	inStr := false
	var quote byte
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inStr {
			switch {
			case escaped:
				escaped = false
				out = append(out, c)
			case c == '\\':
				escaped = true
				out = append(out, c)
			case c == quote:
				inStr = false
				out = append(out, '"')
			case c == '"':
				// double quote inside a single-quoted string
				out = append(out, '\\', '"')
			case c == '\n':
				out = append(out, '\\', 'n')
			case c == '\r':
				out = append(out, '\\', 'r')
			case c == '\t':
				out = append(out, '\\', 't')
			default:
				out = append(out, c)
			}
			continue
		}

		switch {
		case c == '"' || c == '\'':
			inStr = true
			quote = c
			out = append(out, '"')
		case c == '{' || c == '[':
			stack = append(stack, c)
			out = append(out, c)
		case c == '}' || c == ']':
			if len(stack) == 0 {
				// stray closer with nothing open
				continue
			}
			stack = stack[:len(stack)-1]
			out = trimTrailingComma(out)
			out = append(out, c)
		case c == ',':
			switch lastNonSpace(out) {
			case ',', '{', '[', 0:
				// duplicate or leading comma
			default:
				out = append(out, c)
			}
		case isIdentStart(c) && !continuesNumber(out):
			j := i
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			out = appendWord(out, s[i:j])
			i = j - 1
		default:
			out = append(out, c)
		}
	}

	if inStr {
		out = append(out, '"')
	}
	out = trimTrailingComma(out)
	if lastNonSpace(out) == ':' {
		out = append(out, "null"...)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			out = append(out, '}')
		} else {
			out = append(out, ']')
		}
	}
	return string(out)
}

// appendWord emits a bare word: JSON literals pass through, Python literals
// are translated, anything else is assumed to be an unquoted key or string
// value and gets quoted.
func appendWord(out []byte, word string) []byte {
	switch word {
	case "true", "false", "null":
		return append(out, word...)
	case "True":
		return append(out, "true"...)
	case "False":
		return append(out, "false"...)
	case "None":
		return append(out, "null"...)
	default:
		out = append(out, '"')
		out = append(out, word...)
		return append(out, '"')
	}
}

// trimTrailingComma drops a comma (and any whitespace after it) from the end
// of out, so a closer can follow directly.
func trimTrailingComma(out []byte) []byte {
	i := len(out) - 1
	for i >= 0 && isSpace(out[i]) {
		i--
	}
	if i >= 0 && out[i] == ',' {
		return out[:i]
	}
	return out
}

// lastNonSpace returns the last emitted non-whitespace byte, or 0 when none.
func lastNonSpace(out []byte) byte {
	for i := len(out) - 1; i >= 0; i-- {
		if !isSpace(out[i]) {
			return out[i]
		}
	}
	return 0
}

// continuesNumber reports whether the previous emitted byte could be part of
// a number, so the exponent marker in 1e5 is not mistaken for a bare word.
func continuesNumber(out []byte) bool {
	if len(out) == 0 {
		return false
	}
	c := out[len(out)-1]
	return isDigit(c) || c == '.' || c == '-' || c == '+'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
