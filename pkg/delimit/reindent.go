package delimit

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Segment is one output line before formatting.
type Segment struct {
	Indent int // may go negative on unbalanced input
	Text   []byte
}

// Delimit splits input into segments in a single pass.
//
// A start delimiter ends the current segment, which keeps the delimiter,
// and raises the level. An end delimiter ends the current segment, lowers
// the level and begins the next segment with itself. Newlines are dropped.
// Leading spaces are trimmed from every segment.
func Delimit(delims []Delimiter, input []byte) []Segment {
	var starts, ends [256]bool
	for _, d := range delims {
		starts[d.Start] = true
		ends[d.End] = true
	}

	var segs []Segment
	var cur []byte
	indent := 0
	for _, c := range input {
		switch {
		case starts[c]:
			cur = append(cur, c)
			segs = append(segs, Segment{Indent: indent, Text: cur})
			indent++
			cur = nil
		case ends[c]:
			segs = append(segs, Segment{Indent: indent, Text: cur})
			indent--
			cur = []byte{c}
		case c == '\n':
		default:
			cur = append(cur, c)
		}
	}
	segs = append(segs, Segment{Indent: indent, Text: cur})

	for i := range segs {
		segs[i].Text = bytes.TrimLeft(segs[i].Text, " ")
	}
	return segs
}

// Format writes each segment on its own line, prefixed by one space per
// level. Negative levels print without indentation.
func Format(segs []Segment) []byte {
	var buf bytes.Buffer
	_ = WriteSegments(&buf, segs)
	return buf.Bytes()
}

// WriteSegments is Format writing to w.
func WriteSegments(w io.Writer, segs []Segment) error {
	bw := bufio.NewWriter(w)
	for _, s := range segs {
		for i := 0; i < s.Indent; i++ {
			bw.WriteByte(' ')
		}
		bw.Write(s.Text)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Reindent reads all of r and writes the reindented text to w.
func Reindent(w io.Writer, r io.Reader, delims []Delimiter) error {
	input, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if err := WriteSegments(w, Delimit(delims, input)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
