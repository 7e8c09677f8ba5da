package netrc

import (
	"strings"
)

// Keywords recognized in keyword position.
const (
	keyMachine  = "machine"
	keyDefault  = "default"
	keyLogin    = "login"
	keyUser     = "user"
	keyPassword = "password"
	keyAccount  = "account"
	keyMacdef   = "macdef"
)

// token is one whitespace-separated word together with the whitespace that
// precedes it, so a line can be serialized back unchanged.
type token struct {
	sep  string
	text string
}

// field is a keyword found in keyword position. value indexes the token
// holding its value, or is -1 when the keyword takes none or the line ends.
// When the value sits on a following line, next is set and that line
// carries a field with the same key, index -1 and value 0.
type field struct {
	key   string
	index int
	value int
	next  bool
}

// line is the parsed form of one raw line of a netrc file.
type line struct {
	text   string
	tokens []token
	fields []field
	// macro marks lines inside a macdef body; they are never interpreted.
	macro bool
}

// valueOf returns the unquoted value of f, or "" when it has none.
func (l line) valueOf(f field) string {
	if f.value < 0 {
		return ""
	}
	return unquote(l.tokens[f.value].text)
}

// String serializes the tokens back into a line.
func (l line) String() string {
	var sb strings.Builder
	for _, t := range l.tokens {
		sb.WriteString(t.sep)
		sb.WriteString(t.text)
	}
	return sb.String()
}

// Entry is one machine (or default) record of a netrc file.
type Entry struct {
	Machine  string
	Login    string
	Password string
	Account  string
	// Default marks the "default" entry used when no machine matches.
	Default bool
}

// Parse returns the entries of a netrc file in file order. Values may be
// double-quoted and use backslash escapes, and a keyword at the end of a
// line takes the first word of the next non-blank line as its value.
func Parse(content string) []Entry {
	return entries(parseLines(content))
}

// splitLines splits content into raw lines. A trailing newline does not
// produce an extra empty line and empty content has no lines at all.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	raw := strings.Split(content, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	return raw
}

func parseLines(content string) []line {
	raw := splitLines(content)
	lines := make([]line, 0, len(raw))

	inMacro := false
	pending := -1
	for _, r := range raw {
		text := strings.TrimRight(r, " \t\r\n\v\f")
		if inMacro {
			// A blank line ends the macro body.
			if text == "" {
				inMacro = false
				lines = append(lines, line{text: text})
				continue
			}
			lines = append(lines, line{text: text, tokens: tokenize(text), macro: true})
			continue
		}

		l := line{text: text, tokens: tokenize(text)}
		start := 0
		if pending >= 0 && len(l.tokens) > 0 {
			prev := lines[pending].fields
			prev[len(prev)-1].next = true
			l.fields = append(l.fields, field{key: prev[len(prev)-1].key, index: -1, value: 0})
			start = 1
			pending = -1
		}
		l.fields = append(l.fields, fieldsOf(l.tokens, start)...)
		if n := len(l.fields); n > 0 {
			switch last := l.fields[n-1]; {
			case last.key == keyMacdef:
				inMacro = true
			case last.value < 0 && last.key != keyDefault:
				pending = len(lines)
			}
		}
		lines = append(lines, l)
	}
	return lines
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

// tokenize splits s into words. A word starting with a double quote runs to
// the closing quote and a backslash escapes the next byte. Token text is
// kept raw; trailing whitespace is dropped.
func tokenize(s string) []token {
	var tokens []token
	i := 0
	for i < len(s) {
		start := i
		for start < len(s) && isSpace(s[start]) {
			start++
		}
		if start == len(s) {
			break
		}
		end := start
		quoted := s[start] == '"'
		if quoted {
			end++
		}
		for end < len(s) {
			c := s[end]
			if c == '\\' && end+1 < len(s) {
				end += 2
				continue
			}
			if !quoted && isSpace(c) {
				break
			}
			end++
			if quoted && c == '"' {
				break
			}
		}
		tokens = append(tokens, token{sep: s[i:start], text: s[start:end]})
		i = end
	}
	return tokens
}

// unquote strips the surrounding double quotes and backslash escapes of a
// raw token.
func unquote(text string) string {
	if !strings.ContainsAny(text, `"\`) {
		return text
	}
	s := text
	quoted := strings.HasPrefix(s, `"`)
	if quoted {
		s = s[1:]
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			sb.WriteByte(s[i])
		case c == '"' && quoted:
			return sb.String()
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// quote is the inverse of unquote for values written back to the file.
func quote(value string) string {
	if !strings.ContainsAny(value, `"\`) {
		return value
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(value); i++ {
		if c := value[i]; c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(value[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

// fieldsOf walks the tokens in keyword position, starting at start. A word
// starting with '#' comments out the rest of the line and macdef stops
// interpretation. Unknown words pass through without consuming a value.
func fieldsOf(tokens []token, start int) []field {
	var fields []field
	for i := start; i < len(tokens); {
		word := tokens[i].text
		switch word {
		case keyDefault:
			fields = append(fields, field{key: word, index: i, value: -1})
			i++
		case keyMachine, keyLogin, keyUser, keyPassword, keyAccount, keyMacdef:
			f := field{key: word, index: i, value: -1}
			if i+1 < len(tokens) {
				f.value = i + 1
			}
			fields = append(fields, f)
			if word == keyMacdef {
				return fields
			}
			i += 2
		default:
			if strings.HasPrefix(word, "#") {
				return fields
			}
			i++
		}
	}
	return fields
}

// entries folds the keyword fields of all lines into entries. Fields seen
// before the first machine or default are ignored.
func entries(lines []line) []Entry {
	var out []Entry
	current := -1
	for _, l := range lines {
		for _, f := range l.fields {
			if f.next {
				continue
			}
			value := l.valueOf(f)
			switch f.key {
			case keyMachine:
				out = append(out, Entry{Machine: value})
				current = len(out) - 1
			case keyDefault:
				out = append(out, Entry{Default: true})
				current = len(out) - 1
			case keyLogin, keyUser:
				if current >= 0 {
					out[current].Login = value
				}
			case keyPassword:
				if current >= 0 {
					out[current].Password = value
				}
			case keyAccount:
				if current >= 0 {
					out[current].Account = value
				}
			}
		}
	}
	return out
}

// sameMachine compares machine names case-insensitively.
func sameMachine(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}

// find returns the entry for machine. The last matching entry wins; the
// default entry is used when no machine matches.
func find(list []Entry, machine string) (Entry, bool) {
	var (
		match, fallback Entry
		found, hasDef   bool
	)
	for _, e := range list {
		switch {
		case e.Default:
			fallback, hasDef = e, true
		case e.Machine != "" && sameMachine(e.Machine, machine):
			match, found = e, true
		}
	}
	if found {
		return match, true
	}
	return fallback, hasDef
}
