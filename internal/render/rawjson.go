package render

import "github.com/tidwall/gjson"

// writeRawJSON implements the non-standard {{$name}} tag: emit the value's
// JSON representation with any outer string quotes stripped and embedded
// quotes escaped. Non-string values (numbers, booleans, null, objects,
// arrays) are copied out as their literal JSON text, which is already free
// of quotes to strip.
//
// This operates on the fully-decoded string rather than re-walking the
// original JSON source's escape sequences: the reference engine's
// equivalent routine re-escapes text gjson has already unescaped for us
// (doubling up embedded quotes, mishandling "\/"), which isn't behavior
// worth reproducing. Since gjson's decode has already resolved every escape
// -- including "\/" -- the only thing left to re-escape here is '"'.
func writeRawJSON(out writer, v gjson.Result, exists bool) {
	if !exists {
		return
	}
	if v.Type != gjson.String {
		out.WriteString(v.Raw)
		return
	}
	s := v.String()
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		out.WriteString(s[last:i])
		out.WriteString(`\"`)
		last = i + 1
	}
	out.WriteString(s[last:])
}

// writer is the subset of outbuf.Buffer that writeRawJSON writes through.
type writer interface {
	WriteString(string)
	WriteByte(byte)
}
