// Package render implements the single-pass Mustache interpreter: it walks
// the raw template bytes once, driving a context stack and a breadcrumb
// stack of open sections, without ever building an intermediate tree. A
// section that iterates an array is handled by rewinding the scan position
// back to just after its opening tag and replaying its body once per
// element, rather than by visiting pre-parsed child nodes repeatedly.
package render

import (
	"github.com/tidwall/gjson"

	"github.com/cbroglie/mustache/internal/jsonvalue"
	"github.com/cbroglie/mustache/internal/outbuf"
	"github.com/cbroglie/mustache/internal/partials"
)

const defaultOtag = "{{"
const defaultCtag = "}}"

// breadcrumb records one currently-open section so its matching {{/name}}
// can be validated and, for array sections, so the scan position can be
// rewound to iterate again.
type breadcrumb struct {
	key        string
	bodyStart  int // position just after the opening tag, where iteration resumes
	entered    bool
	inverted   bool
	wasVisible bool // visibility in effect when this section was opened
}

// Renderer drives one render of a template against a root JSON value,
// recursing into partials as it encounters them.
type Renderer struct {
	out    *outbuf.Buffer
	loader partials.Loader
	active map[string]bool // partial inclusion set, guards against cycles
}

// New constructs a Renderer writing into out, resolving partials with
// loader (which may be nil if the template uses none).
func New(out *outbuf.Buffer, loader partials.Loader) *Renderer {
	return &Renderer{out: out, loader: loader, active: map[string]bool{}}
}

// Run renders src against root, starting from the given search directories
// for any partials it references.
func (r *Renderer) Run(src string, root gjson.Result, dir, rootDir string) error {
	ctx := newContextStack(root)
	return r.run(src, ctx, dir, rootDir)
}

func (r *Renderer) run(src string, ctx *contextStack, dir, rootDir string) error {
	otag, ctag := defaultOtag, defaultCtag
	pos := 0
	visible := true
	var crumbs []breadcrumb

	for {
		t, textBefore, found, err := nextTag(src, pos, otag, ctag)
		if !found {
			if visible {
				r.out.WriteString(src[pos:])
			}
			break
		}
		if err != nil {
			return err
		}
		if visible {
			r.out.WriteString(src[pos:textBefore])
		}

		// afterTag is where scanning resumes once this tag's own handling is
		// done: past its closing delimiter, or past its whole now-empty line
		// if it's a standalone tag. It doubles as a section's iteration
		// rewind point, so it must already reflect standalone trimming --
		// otherwise a replayed array body would pick up an extra line break
		// on its second and later elements that the first element never saw.
		afterTag := t.end
		if t.standalone {
			if visible {
				r.out.TrimRight(notSpaceOrTab)
			}
			afterTag = consumeStandaloneTrailer(src, afterTag)
		}

		switch t.kind {
		case kindComment:
			// no output, no state change

		case kindSetDelimiter:
			newOtag, newCtag, perr := parseSetDelimiter(t.body)
			if perr != nil {
				if e, ok := perr.(*Error); ok {
					e.Line = lineAt(src, t.start)
				}
				return perr
			}
			otag, ctag = newOtag, newCtag

		case kindSectionOpen, kindInvertedOpen:
			if len(crumbs) >= MaxDepth {
				return &Error{Kind: DepthExceeded, Line: lineAt(src, t.start)}
			}
			entered := false
			if visible {
				entered, err = ctx.enter(t.key)
				if err != nil {
					if e, ok := err.(*Error); ok {
						e.Line = lineAt(src, t.start)
					}
					return err
				}
			}
			crumbs = append(crumbs, breadcrumb{key: t.key, bodyStart: afterTag, entered: entered, inverted: t.kind == kindInvertedOpen, wasVisible: visible})
			if t.kind == kindSectionOpen {
				visible = visible && entered
			} else {
				visible = visible && !entered
			}

		case kindSectionClose:
			if len(crumbs) == 0 {
				return &Error{Kind: SectionMismatch, Line: lineAt(src, t.start)}
			}
			top := crumbs[len(crumbs)-1]
			if top.key != t.key {
				return &Error{Kind: SectionMismatch, Line: lineAt(src, t.start)}
			}
			iterateAgain := !top.inverted && top.wasVisible && top.entered && ctx.next()
			if iterateAgain {
				pos = top.bodyStart
				visible = true
				continue
			}
			crumbs = crumbs[:len(crumbs)-1]
			if top.wasVisible && top.entered {
				ctx.leave()
			}
			visible = top.wasVisible

		case kindPartial:
			if visible {
				if err := r.renderPartial(src, t, ctx, dir, rootDir); err != nil {
					return err
				}
			}

		case kindRawJSON:
			if visible {
				v, ok := ctx.find(t.key)
				writeRawJSON(r.out, v, ok)
			}

		case kindLiteralName:
			if visible {
				v, ok := ctx.find(t.key)
				writeEscaped(r.out, v, ok)
			}

		case kindUnescaped:
			if visible {
				v, ok := ctx.find(t.key)
				r.out.WriteString(jsonvalue.PlainText(v, ok))
			}

		case kindDefault:
			if visible {
				v, ok := ctx.find(t.key)
				writeEscaped(r.out, v, ok)
			}
		}

		pos = afterTag
	}

	if len(crumbs) > 0 {
		return &Error{Kind: SectionMismatch, Line: lineAt(src, crumbs[len(crumbs)-1].bodyStart), Detail: "unclosed section " + crumbs[len(crumbs)-1].key}
	}
	return nil
}

func notSpaceOrTab(c byte) bool {
	return c != ' ' && c != '\t'
}

// writeEscaped emits the plain-text rendering of v with exactly the four
// characters the spec calls out replaced by their HTML entities: '&', '<',
// '>' and '"'. Nothing else is touched -- in particular, single quotes pass
// through unescaped, unlike html/template's escaper.
func writeEscaped(out *outbuf.Buffer, v gjson.Result, ok bool) {
	s := jsonvalue.PlainText(v, ok)
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		default:
			continue
		}
		out.WriteString(s[last:i])
		out.WriteString(esc)
		last = i + 1
	}
	out.WriteString(s[last:])
}

func (r *Renderer) renderPartial(src string, t tag, ctx *contextStack, dir, rootDir string) error {
	if r.loader == nil {
		return nil
	}
	partialSrc, resolvedDir, ok := r.loader.Load(t.key, dir, rootDir)
	if !ok {
		return nil
	}

	activeKey := resolvedDir + "\x00" + t.key
	if r.active[activeKey] {
		return nil // silently break the cycle, matching the engine's "missing partial" leniency
	}
	r.active[activeKey] = true
	defer delete(r.active, activeKey)

	if t.standalone {
		indent := leadingIndent(src, t.start)
		partialSrc = applyIndent(partialSrc, indent)
	}

	return r.run(partialSrc, ctx, resolvedDir, rootDir)
}
