package mustache

import "github.com/cbroglie/mustache/internal/render"

// ParseError reports why a template failed to render: a malformed tag, a
// section whose open and close tags don't line up, or a limit built into
// the engine (key length, delimiter length, nesting depth) being exceeded.
type ParseError = render.Error

// Parse error kinds, re-exported from internal/render so callers can
// switch on err.(*ParseError).Kind without importing an internal package.
const (
	ErrUnterminatedTag     = render.UnterminatedTag
	ErrEmptyTag            = render.EmptyTag
	ErrInvalidSetDelimiter = render.InvalidSetDelimiter
	ErrKeyTooLong          = render.KeyTooLong
	ErrDepthExceeded       = render.DepthExceeded
	ErrSectionMismatch     = render.SectionMismatch
	ErrMissingTripleBrace  = render.MissingTripleBrace
)
