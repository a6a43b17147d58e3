package iter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromStringBasics(t *testing.T) {
	it := FromString("hello\nworld")
	if it.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", it.Offset())
	}
	if !it.HasMore() {
		t.Fatalf("expected HasMore() true on fresh iterator")
	}
	if !it.InputEnded() {
		t.Errorf("a string-backed iterator has no more to read, InputEnded() must be true from the start")
	}
	if !it.HasPrefix("hello") {
		t.Errorf("expected HasPrefix(\"hello\") true")
	}
}

func TestMoveAdvancesLineCount(t *testing.T) {
	it := FromString("ab\ncd\nef")
	it.Move(4) // consumes "ab\nc", crossing one newline
	if it.Lines() != 2 {
		t.Fatalf("expected line count 2 after crossing one newline, got %d", it.Lines())
	}
	if it.Offset() != 4 {
		t.Fatalf("expected offset 4, got %d", it.Offset())
	}
}

func TestMoveToEndSetsEnded(t *testing.T) {
	it := FromString("abc")
	ok := it.Move(10)
	if ok {
		t.Errorf("Move past the end of input must report false")
	}
	if !it.Ended() {
		t.Errorf("expected Ended() true after moving past available input")
	}
	if it.HasMore() {
		t.Errorf("HasMore() must be false once the cursor passed the end")
	}
}

func TestMarkAndBacktrack(t *testing.T) {
	it := FromString("abcdef")
	it.Move(3)
	offset, line := it.Mark()
	it.Move(2)
	it.Backtrack(offset, line)
	if it.Offset() != offset {
		t.Fatalf("Backtrack must restore the exact marked offset, got %d want %d", it.Offset(), offset)
	}
	if it.Ended() {
		t.Errorf("Backtrack must clear the Ended flag")
	}
}

func TestWindowNeverExceedsLoadedBuffer(t *testing.T) {
	it := FromString("abcdef")
	w := it.Window(3)
	if string(w) != "abc" {
		t.Fatalf("expected window %q, got %q", "abc", w)
	}
	w = it.Window(-1)
	if string(w) != "abcdef" {
		t.Fatalf("expected the whole remaining buffer with maxLen<0, got %q", w)
	}
}

func TestCharAtOutOfRange(t *testing.T) {
	it := FromString("ab")
	if _, ok := it.CharAt(-1); ok {
		t.Errorf("CharAt(-1) must report ok=false")
	}
	if _, ok := it.CharAt(100); ok {
		t.Errorf("CharAt(100) must report ok=false for an offset beyond the loaded window")
	}
	b, ok := it.CharAt(1)
	if !ok || b != 'b' {
		t.Errorf("expected CharAt(1) == ('b', true), got (%q, %v)", b, ok)
	}
}

func TestOpenPathPreloadsAndReadsThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	content := "line one\nline two\nline three\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	it, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer it.Close()
	if !it.HasPrefix("line one") {
		t.Errorf("expected the file's first bytes to be preloaded and visible via HasPrefix")
	}
	it.Move(int64(len(content)))
	if it.HasMore() {
		t.Errorf("expected HasMore() false once the whole file has been consumed")
	}
	if !it.InputEnded() {
		t.Errorf("expected InputEnded() true once the file has been fully read")
	}
}

func TestOpenPathMissingFile(t *testing.T) {
	if _, err := OpenPath("/nonexistent/does-not-exist.txt"); err == nil {
		t.Fatalf("expected an error opening a nonexistent file")
	}
}

func TestLineSeparatorOption(t *testing.T) {
	it := FromString("a;b;c", LineSeparator(';'))
	it.Move(3)
	if it.Lines() != 2 {
		t.Fatalf("expected 2 lines after crossing one ';' separator, got %d", it.Lines())
	}
}
