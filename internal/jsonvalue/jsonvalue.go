// Package jsonvalue classifies gjson.Result values the way the renderer's
// section and variable logic needs: truthy/falsy for section gating, and
// plain-text rendering for bare and unescaped variable tags.
package jsonvalue

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// IsFalsy reports whether v should cause a section to be skipped and an
// inverted section to run. Absent keys, JSON null, boolean false, the
// number zero and the empty array are falsy; everything else -- including
// the empty string and the empty object -- is truthy.
func IsFalsy(v gjson.Result, exists bool) bool {
	if !exists {
		return true
	}
	switch v.Type {
	case gjson.Null:
		return true
	case gjson.False:
		return true
	case gjson.Number:
		return v.Num == 0
	}
	if v.IsArray() {
		return len(v.Array()) == 0
	}
	return false
}

// PlainText renders v the way a bare {{name}} or unescaped {{{name}}}/{{&name}}
// tag does before any HTML escaping is applied: strings pass through as-is,
// numbers use Go's shortest round-trip decimal form, and everything else --
// null, absent, boolean, object, array -- prints nothing. Only the raw-JSON
// tag serializes non-scalar and boolean values; plain interpolation doesn't.
func PlainText(v gjson.Result, exists bool) string {
	if !exists {
		return ""
	}
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	}
	return ""
}
