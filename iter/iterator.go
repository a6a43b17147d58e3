/*
Package iter implements the buffered input iterator used by the PEG engine.

An Iterator presents a byte stream with random-access-within-window
semantics and line counting while bounding memory for file inputs: it
keeps at least AHEAD bytes preloaded beyond the current position and grows
the buffer on demand, but — unlike a ring buffer — never discards or moves
bytes behind the current position, which is what makes bounded backtrack
within the window possible.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package iter

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'peg.iter'.
func tracer() tracing.Trace {
	return tracing.Select("peg.iter")
}

// AHEAD is the minimum number of bytes kept preloaded beyond the current
// position for file-backed iterators.
const AHEAD = 64 * 1024

// state bits.
const (
	stateEnded uint8 = 1 << iota
	stateInputEnded
)

// Iterator walks an input buffer, tracking byte offset and line number and
// supporting bounded backtrack.
type Iterator struct {
	buffer   []byte
	current  int // absolute offset of the read cursor within buffer
	lines    int // 1-based line count at current
	sep      byte
	state    uint8
	file     *os.File
	freeBuf  bool // true if this Iterator owns (and may grow/free) buffer
	fileSize int64
}

// Option configures an Iterator at construction time.
type Option func(*Iterator)

// LineSeparator overrides the default '\n' line separator byte.
func LineSeparator(b byte) Option {
	return func(it *Iterator) { it.sep = b }
}

// FromString builds an Iterator over an in-memory string. The Iterator
// holds a copy of the string's bytes and is not file-backed (freeBuffer is
// false): no growth ever happens because the whole input is already resident.
func FromString(text string, opts ...Option) *Iterator {
	it := &Iterator{
		buffer: []byte(text),
		lines:  1,
		sep:    '\n',
	}
	for _, opt := range opts {
		opt(it)
	}
	it.state |= stateInputEnded // nothing more to read, ever
	return it
}

// OpenPath opens a file for reading and returns an Iterator that preloads
// at least AHEAD bytes ahead of the current position, growing the buffer as
// needed. Returns an error (not a nil-valued Iterator that callers might
// mistake for a valid empty one) if the file cannot be opened.
func OpenPath(path string, opts ...Option) (*Iterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iter: open %q: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("iter: stat %q: %w", path, err)
	}
	it := &Iterator{
		buffer:   make([]byte, 0, AHEAD),
		lines:    1,
		sep:      '\n',
		file:     f,
		freeBuf:  true,
		fileSize: fi.Size(),
	}
	for _, opt := range opts {
		opt(it)
	}
	it.preload()
	return it, nil
}

// Close releases the underlying file, if any. Safe to call on a
// string-backed Iterator.
func (it *Iterator) Close() error {
	if it.file != nil {
		return it.file.Close()
	}
	return nil
}

// Offset returns the current absolute byte offset into the input.
func (it *Iterator) Offset() int { return it.current }

// Lines returns the 1-based line count at the current position.
func (it *Iterator) Lines() int { return it.lines }

// Ended reports whether the cursor has passed the available end of input.
func (it *Iterator) Ended() bool { return it.state&stateEnded != 0 }

// InputEnded reports whether the underlying source has no more bytes to
// deliver (sticky once set).
func (it *Iterator) InputEnded() bool { return it.state&stateInputEnded != 0 }

// HasMore reports whether there is at least one more byte available at the
// current position.
func (it *Iterator) HasMore() bool {
	return it.Remaining() > 0
}

// Remaining returns the number of bytes between the current position and
// the end of the currently loaded window (which may grow further for
// file-backed iterators that have not hit InputEnded).
func (it *Iterator) Remaining() int {
	if it.current >= len(it.buffer) {
		return 0
	}
	return len(it.buffer) - it.current
}

// preload ensures at least AHEAD bytes are buffered beyond current,
// growing and reading from file as necessary. No-op for string-backed
// iterators (InputEnded is already set).
func (it *Iterator) preload() {
	if it.InputEnded() || it.file == nil {
		return
	}
	for len(it.buffer)-it.current < AHEAD && !it.InputEnded() {
		grow := AHEAD
		if cap(it.buffer) < len(it.buffer)+grow {
			bigger := make([]byte, len(it.buffer), len(it.buffer)+grow)
			copy(bigger, it.buffer)
			it.buffer = bigger
		}
		chunk := make([]byte, grow)
		n, err := it.file.Read(chunk)
		if n > 0 {
			it.buffer = append(it.buffer, chunk[:n]...)
		}
		if err == io.EOF || n == 0 {
			it.state |= stateInputEnded
			break
		}
		if err != nil {
			tracer().Errorf("iter: read error: %v", err)
			it.state |= stateInputEnded
			break
		}
	}
}

// CharAt peeks at an absolute offset within the loaded window, without
// moving the cursor. ok is false if offset is outside the loaded window.
func (it *Iterator) CharAt(offset int) (b byte, ok bool) {
	if offset < 0 || offset >= len(it.buffer) {
		return 0, false
	}
	return it.buffer[offset], true
}

// Window returns the bytes from the current position up to at most
// maxLen bytes, never past the loaded window. It is the slice regex
// recognizers match against (§4.2: "receive the maximum available byte
// count").
func (it *Iterator) Window(maxLen int) []byte {
	if it.file != nil && len(it.buffer)-it.current < AHEAD {
		it.preload()
	}
	if it.current >= len(it.buffer) {
		return nil
	}
	end := it.current + maxLen
	if end > len(it.buffer) || maxLen < 0 {
		end = len(it.buffer)
	}
	return it.buffer[it.current:end]
}

// HasPrefix reports whether the bytes at the current position start with s,
// without requiring the whole of s to already be preloaded beyond what's
// necessary to decide.
func (it *Iterator) HasPrefix(s string) bool {
	if it.file != nil && len(it.buffer)-it.current < len(s) {
		it.preload()
	}
	return bytes.HasPrefix(it.buffer[it.current:], []byte(s))
}

// Move advances (delta > 0) or rewinds (delta < 0) the cursor by delta
// bytes. Forward moves preload from file as needed and update the line
// count by counting occurrences of the line separator in the bytes passed
// over. Rewinds are bounded by the kept window (bufferStart is always 0,
// so any offset >= 0 is reachable) and do not recompute line count — use
// Backtrack for that. Returns false (and sets Ended) if a forward move
// would run past the available input.
func (it *Iterator) Move(delta int64) bool {
	if delta == 0 {
		return true
	}
	if delta > 0 {
		return it.moveForward(delta)
	}
	return it.moveBackward(-delta)
}

func (it *Iterator) moveForward(delta int64) bool {
	target := it.current + int(delta)
	for !it.InputEnded() && len(it.buffer) < target+1 {
		it.preload()
		if it.InputEnded() {
			break
		}
	}
	if target > len(it.buffer) {
		it.lines += bytes.Count(it.buffer[it.current:], []byte{it.sep})
		it.current = len(it.buffer)
		it.state |= stateEnded
		return false
	}
	it.lines += bytes.Count(it.buffer[it.current:target], []byte{it.sep})
	it.current = target
	if it.current >= len(it.buffer) && it.InputEnded() {
		it.state |= stateEnded
	}
	return true
}

func (it *Iterator) moveBackward(delta int64) bool {
	target := it.current - int(delta)
	if target < 0 {
		target = 0
	}
	it.current = target
	it.state &^= stateEnded
	return true
}

// MoveTo sets the cursor to an absolute offset, forward or reverse. A
// forward move counts line separators like Move; a reverse move leaves the
// line count unchanged (see Backtrack to restore it).
func (it *Iterator) MoveTo(offset int) {
	if offset < it.current {
		it.moveBackward(int64(it.current - offset))
		return
	}
	it.moveForward(int64(offset - it.current))
}

// Backtrack restores the cursor to offset with a caller-supplied line
// count. Composite recognizers capture (offset, lines) before a speculative
// branch and call Backtrack on failure, restoring both atomically so the
// line count never has to be recomputed by re-scanning.
func (it *Iterator) Backtrack(offset, lines int) {
	if offset <= it.current {
		it.current = offset
	} else {
		it.moveForward(int64(offset - it.current))
		it.current = offset
	}
	it.lines = lines
	it.state &^= stateEnded
}

// Mark captures the (offset, lines) pair needed to Backtrack later.
func (it *Iterator) Mark() (offset, lines int) {
	return it.current, it.lines
}
