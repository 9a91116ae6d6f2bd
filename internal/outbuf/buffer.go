// Package outbuf provides the growable output sink that the renderer writes
// into. It plays the same role as magnum's DString: a single accumulating
// buffer that can have its trailing bytes trimmed in place, which the
// standalone-tag rules need when a line turns out to hold nothing but a
// section, partial or comment tag.
package outbuf

import (
	"io"
	"strconv"
)

// Buffer is a byte-accumulating sink. It is not safe for concurrent use;
// each render call owns exactly one Buffer for its lifetime.
type Buffer struct {
	data []byte
}

// New returns an empty Buffer with cap bytes of pre-allocated storage.
func New(cap int) *Buffer {
	return &Buffer{data: make([]byte, 0, cap)}
}

// WriteString appends s verbatim.
func (b *Buffer) WriteString(s string) {
	b.data = append(b.data, s...)
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) {
	b.data = append(b.data, c)
}

// Write appends p verbatim, satisfying io.Writer so a Buffer can itself be
// passed anywhere a render target is expected (e.g. chaining multiple
// template renders into one output).
func (b *Buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// WriteNumber appends the %g-style rendering of f, matching the formatting
// the reference engine applies to bare numeric values.
func (b *Buffer) WriteNumber(f float64) {
	b.data = strconv.AppendFloat(b.data, f, 'g', -1, 64)
}

// Len reports the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.data)
}

// TrimRight removes trailing bytes for which keep returns false. It is used
// to strip the indentation left behind by a tag that turns out to be the
// only thing on its line.
func (b *Buffer) TrimRight(keep func(byte) bool) {
	n := len(b.data)
	for n > 0 && !keep(b.data[n-1]) {
		n--
	}
	b.data = b.data[:n]
}

// String returns the accumulated bytes as a string.
func (b *Buffer) String() string {
	return string(b.data)
}

// WriteTo copies the accumulated bytes to w, satisfying io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}
