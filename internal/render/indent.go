package render

import "strings"

// applyIndent prepends indent to the first line of text and to every line
// that follows a line terminator, except a line terminator that ends text
// outright (there is no following line to indent there). \r\n pairs are
// protected with a sentinel so they aren't split into two insertion points
// by the separate \r and \n passes.
func applyIndent(text, indent string) string {
	if indent == "" || text == "" {
		return text
	}
	const sentinel = "\x00mustache-crlf\x00"
	t := strings.ReplaceAll(text, "\r\n", sentinel)

	var b strings.Builder
	b.Grow(len(t) + len(indent))
	b.WriteString(indent)
	i := 0
	for i < len(t) {
		switch {
		case strings.HasPrefix(t[i:], sentinel):
			b.WriteString("\r\n")
			i += len(sentinel)
			if i < len(t) {
				b.WriteString(indent)
			}
		case t[i] == '\r' || t[i] == '\n':
			b.WriteByte(t[i])
			i++
			if i < len(t) {
				b.WriteString(indent)
			}
		default:
			b.WriteByte(t[i])
			i++
		}
	}
	return b.String()
}
