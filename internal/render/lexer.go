package render

import "strings"

type tagKind int

const (
	kindComment tagKind = iota
	kindSetDelimiter
	kindSectionOpen
	kindInvertedOpen
	kindSectionClose
	kindPartial
	kindUnescaped // {{{name}}} or {{&name}}
	kindLiteralName
	kindRawJSON
	kindDefault // plain {{name}}, HTML-escaped
)

// tag describes one lexed {{...}} occurrence.
type tag struct {
	kind tagKind
	key  string // meaningful for every kind except comment and setDelimiter
	body string // raw trimmed content, meaningful for setDelimiter

	start int // offset of the opening delimiter
	end   int // offset just past the closing delimiter (and its extra brace, for triple mustache)

	standalone bool
}

// nextTag scans src for the next occurrence of otag at or after from and
// lexes the tag that follows it. It returns found=false once no further
// otag occurs.
func nextTag(src string, from int, otag, ctag string) (t tag, textBefore int, found bool, err error) {
	idx := strings.Index(src[from:], otag)
	if idx < 0 {
		return tag{}, len(src), false, nil
	}
	start := from + idx
	bodyStart := start + len(otag)

	tripleCandidate := bodyStart < len(src) && src[bodyStart] == '{'

	var content string
	var end int
	unescapedByBrace := false

	if tripleCandidate && strings.HasPrefix(ctag, "}") {
		marker := "}" + ctag
		rel := strings.Index(src[bodyStart+1:], marker)
		if rel < 0 {
			return tag{}, start, true, &Error{Kind: MissingTripleBrace, Line: lineAt(src, start)}
		}
		closeIdx := bodyStart + 1 + rel
		content = src[bodyStart+1 : closeIdx]
		end = closeIdx + len(marker)
		unescapedByBrace = true
	} else {
		rel := strings.Index(src[bodyStart:], ctag)
		if rel < 0 {
			return tag{}, start, true, &Error{Kind: UnterminatedTag, Line: lineAt(src, start)}
		}
		closeIdx := bodyStart + rel
		end = closeIdx + len(ctag)
		raw := src[bodyStart:closeIdx]
		trimmed := strings.TrimSpace(raw)
		if tripleCandidate && strings.HasSuffix(trimmed, "}") && len(trimmed) >= 2 {
			content = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			unescapedByBrace = true
		} else {
			content = trimmed
		}
	}

	t.start, t.end = start, end

	if unescapedByBrace {
		if content == "" {
			return tag{}, start, true, &Error{Kind: EmptyTag, Line: lineAt(src, start)}
		}
		t.kind = kindUnescaped
		t.key = content
		if len(t.key) > MaxKeyLength {
			return tag{}, start, true, &Error{Kind: KeyTooLong, Line: lineAt(src, start)}
		}
		t.standalone = isStandaloneEligible(t.kind) && isStandalone(src, start, end)
		return t, start, true, nil
	}

	if content == "" {
		return tag{}, start, true, &Error{Kind: EmptyTag, Line: lineAt(src, start)}
	}

	switch content[0] {
	case '!':
		t.kind = kindComment
	case '=':
		t.kind = kindSetDelimiter
		t.body = content
	case '#':
		t.kind = kindSectionOpen
		t.key = strings.TrimSpace(content[1:])
	case '^':
		t.kind = kindInvertedOpen
		t.key = strings.TrimSpace(content[1:])
	case '/':
		t.kind = kindSectionClose
		t.key = strings.TrimSpace(content[1:])
	case '&':
		t.kind = kindUnescaped
		t.key = strings.TrimSpace(content[1:])
	case '>':
		t.kind = kindPartial
		t.key = strings.TrimSpace(content[1:])
	case ':':
		t.kind = kindLiteralName
		t.key = strings.TrimSpace(content[1:])
	case '$':
		t.kind = kindRawJSON
		t.key = strings.TrimSpace(content[1:])
	case '{':
		// A lone brace that didn't pair up as a triple-mustache tag (e.g. a
		// custom delimiter whose close doesn't start with "}"). Treat it
		// as unescaped, matching the closing-brace-stripping the true
		// triple form gets.
		if len(content) < 2 || content[len(content)-1] != '}' {
			return tag{}, start, true, &Error{Kind: MissingTripleBrace, Line: lineAt(src, start)}
		}
		t.kind = kindUnescaped
		t.key = strings.TrimSpace(content[1 : len(content)-1])
	default:
		t.kind = kindDefault
		t.key = content
	}

	if t.kind != kindComment && t.kind != kindSetDelimiter {
		if t.key == "" {
			return tag{}, start, true, &Error{Kind: EmptyTag, Line: lineAt(src, start)}
		}
		if len(t.key) > MaxKeyLength {
			return tag{}, start, true, &Error{Kind: KeyTooLong, Line: lineAt(src, start)}
		}
	}

	t.standalone = isStandaloneEligible(t.kind) && isStandalone(src, start, end)
	return t, start, true, nil
}

// isStandaloneEligible reports whether a tag of this kind may trigger
// standalone-line whitespace stripping. Interpolation tags (escaped,
// unescaped, literal-name, raw-JSON) never do: only tags that don't
// themselves produce inline text can vanish along with their line.
func isStandaloneEligible(k tagKind) bool {
	switch k {
	case kindComment, kindSetDelimiter, kindSectionOpen, kindInvertedOpen, kindSectionClose, kindPartial:
		return true
	}
	return false
}

func isStandalone(src string, start, end int) bool {
	i := start
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	if i != 0 && src[i-1] != '\n' && src[i-1] != '\r' {
		return false
	}
	j := end
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j < len(src) && src[j] != '\n' && src[j] != '\r' {
		return false
	}
	return true
}

// leadingIndent returns the run of spaces/tabs immediately before start,
// used to compute the indentation a standalone partial tag should be
// applied to its partial's content.
func leadingIndent(src string, start int) string {
	i := start
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	return src[i:start]
}

// consumeStandaloneTrailer advances past one run of spaces/tabs followed by
// a single line terminator (\r\n, \n, or \r), starting at pos. It is used
// after a standalone tag to swallow the rest of its now-empty line.
func consumeStandaloneTrailer(src string, pos int) int {
	j := pos
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j < len(src) && src[j] == '\r' {
		j++
		if j < len(src) && src[j] == '\n' {
			j++
		}
		return j
	}
	if j < len(src) && src[j] == '\n' {
		j++
		return j
	}
	return j
}

func parseSetDelimiter(content string) (otag, ctag string, err error) {
	if len(content) < 2 || content[len(content)-1] != '=' {
		return "", "", &Error{Kind: InvalidSetDelimiter}
	}
	body := strings.TrimSpace(content[1 : len(content)-1])
	fields := strings.Fields(body)
	if len(fields) != 2 {
		return "", "", &Error{Kind: InvalidSetDelimiter}
	}
	if len(fields[0]) > MaxDelimiterLength || len(fields[1]) > MaxDelimiterLength {
		return "", "", &Error{Kind: InvalidSetDelimiter}
	}
	return fields[0], fields[1], nil
}
