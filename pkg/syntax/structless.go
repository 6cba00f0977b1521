package syntax

// The structless grammar recognises the only structure every text file
// shares: balanced (), [] and {} pairs and double-quoted strings. Anything
// else is a just_text run. The parser is total: an unmatched closer becomes
// an ERROR leaf and unterminated pairs or strings extend to the end of the
// input.

type delimiterKinds struct {
	open, close        byte
	startKind, endKind string
}

var structlessDelimiters = []delimiterKinds{
	{'(', ')', "paren_start", "paren_end"},
	{'[', ']', "bracket_start", "bracket_end"},
	{'{', '}', "brace_start", "brace_end"},
}

func openerKinds(c byte) (delimiterKinds, bool) {
	for _, d := range structlessDelimiters {
		if d.open == c {
			return d, true
		}
	}
	return delimiterKinds{}, false
}

func closerKinds(c byte) (delimiterKinds, bool) {
	for _, d := range structlessDelimiters {
		if d.close == c {
			return d, true
		}
	}
	return delimiterKinds{}, false
}

func isStructlessSpecial(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}', '"':
		return true
	}
	return false
}

func parseStructless(src []byte) *Tree {
	b := NewBuilder(src, GrammarStructless)
	b.Open("source_file", 0)

	// Expected closers of the open delimited nodes, innermost last.
	var closers []byte

	i := 0
	for i < len(src) {
		c := src[i]
		if d, ok := openerKinds(c); ok {
			b.Open("delimited", i)
			b.Leaf(d.startKind, i, i+1)
			closers = append(closers, d.close)
			i++
			continue
		}
		if d, ok := closerKinds(c); ok {
			if n := len(closers); n > 0 && closers[n-1] == c {
				b.Leaf(d.endKind, i, i+1)
				b.Close(i + 1)
				closers = closers[:n-1]
			} else {
				b.Leaf("ERROR", i, i+1)
			}
			i++
			continue
		}
		if c == '"' {
			i = parseStructlessString(b, src, i)
			continue
		}
		j := i + 1
		for j < len(src) && !isStructlessSpecial(src[j]) {
			j++
		}
		b.Leaf("just_text", i, j)
		i = j
	}
	return b.Finish("source_file")
}

// parseStructlessString consumes a string starting at the opening quote at
// src[start] and returns the offset just past it. String content stops at
// a newline, matching the grammar's content token.
func parseStructlessString(b *Builder, src []byte, start int) int {
	b.Open("string", start)
	b.Leaf(`"`, start, start+1)

	i := start + 1
	contentOpen := false
	for i < len(src) && src[i] != '"' && src[i] != '\n' {
		if !contentOpen {
			b.Open("string_content", i)
			contentOpen = true
		}
		if src[i] == '\\' && i+1 < len(src) && isEscapeChar(src[i+1]) {
			b.Leaf("escape_sequence", i, i+2)
			i += 2
			continue
		}
		if src[i] == '\\' && i+1 < len(src) && src[i+1] != '\n' {
			i += 2
			continue
		}
		i++
	}
	if contentOpen {
		b.Close(i)
	}
	if i < len(src) && src[i] == '"' {
		b.Leaf(`"`, i, i+1)
		i++
	}
	b.Close(i)
	return i
}

func isEscapeChar(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	}
	return false
}
