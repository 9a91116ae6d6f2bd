package render

import (
	"github.com/tidwall/gjson"

	"github.com/cbroglie/mustache/internal/jsonvalue"
)

// MaxDepth bounds how many sections may be open (and how many context-stack
// frames may be pushed) at once, matching the reference engine's fixed
// kMaxDepth stack.
const MaxDepth = 256

// MaxKeyLength bounds the byte length of a single tag key.
const MaxKeyLength = 1024

// MaxDelimiterLength bounds the byte length of either half of a
// {{=open close=}} pair.
const MaxDelimiterLength = 16

// frame is one level of the context stack: either the single value produced
// by entering a non-array section, or the current element of an array being
// iterated.
type frame struct {
	value gjson.Result

	isArray bool
	arr     []gjson.Result
	index   int
}

func (f *frame) advance() bool {
	if !f.isArray {
		return false
	}
	f.index++
	if f.index >= len(f.arr) {
		return false
	}
	f.value = f.arr[f.index]
	return true
}

// contextStack implements the dotted-name lookup rule: search outward from
// the innermost open frame, and within a frame require every dotted
// component in turn to be an existing object key. A frame in which the
// chain breaks at any step does not match, and the search goes on to the
// next outer frame.
type contextStack struct {
	frames []frame
}

func newContextStack(root gjson.Result) *contextStack {
	return &contextStack{frames: []frame{{value: root}}}
}

func (c *contextStack) top() *frame {
	return &c.frames[len(c.frames)-1]
}

// find resolves name against the stack, walking outward from the innermost
// frame. "." resolves to the current frame's value directly.
func (c *contextStack) find(name string) (gjson.Result, bool) {
	if name == "." {
		return c.top().value, true
	}
	for i := len(c.frames) - 1; i >= 0; i-- {
		if v, ok := dottedLookup(c.frames[i].value, name); ok {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func dottedLookup(root gjson.Result, name string) (gjson.Result, bool) {
	cur := root
	start := 0
	for start <= len(name) {
		end := indexByte(name, '.', start)
		var part string
		if end < 0 {
			part = name[start:]
		} else {
			part = name[start:end]
		}
		v, ok := objectMember(cur, part)
		if !ok {
			return gjson.Result{}, false
		}
		cur = v
		if end < 0 {
			return cur, true
		}
		start = end + 1
	}
	return gjson.Result{}, false
}

func objectMember(v gjson.Result, key string) (gjson.Result, bool) {
	if !v.IsObject() {
		return gjson.Result{}, false
	}
	var found gjson.Result
	var ok bool
	v.ForEach(func(k, val gjson.Result) bool {
		if k.Str == key {
			found = val
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

func indexByte(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// enter pushes a new frame for name, applying the truthy/falsy rule to
// decide whether the section runs at all. It reports false (and leaves the
// stack unchanged) when the key is missing or falsy.
func (c *contextStack) enter(name string) (bool, error) {
	if len(c.frames) >= MaxDepth {
		return false, &Error{Kind: DepthExceeded}
	}
	v, ok := c.find(name)
	if !ok {
		return false, nil
	}
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 0 {
			return false, nil
		}
		c.frames = append(c.frames, frame{value: arr[0], isArray: true, arr: arr})
		return true, nil
	}
	if jsonvalue.IsFalsy(v, true) {
		return false, nil
	}
	c.frames = append(c.frames, frame{value: v})
	return true, nil
}

// next advances the top frame to its next array element, reporting whether
// there was one. It is only meaningful for frames pushed over an array.
func (c *contextStack) next() bool {
	return c.top().advance()
}

// leave pops the top frame.
func (c *contextStack) leave() {
	c.frames = c.frames[:len(c.frames)-1]
}
