package syntax

import (
	json "github.com/goccy/go-json"
)

// parseJSON builds a tree with the node kinds of tree-sitter-json:
// document, object, pair, array, string, number, true, false, null.
// Punctuation is not represented. Input is validated up front, so the
// structural scan below can assume well-formed JSON.
func parseJSON(src []byte) (*Tree, error) {
	if !json.Valid(src) {
		var probe any
		err := json.Unmarshal(src, &probe)
		msg := "invalid JSON"
		if err != nil {
			msg = err.Error()
		}
		return nil, &ParseError{Grammar: GrammarJSON, Offset: -1, Msg: msg}
	}

	const (
		inObject = 'o'
		inArray  = 'a'
		inPair   = 'p'
	)

	b := NewBuilder(src, GrammarJSON)
	b.Open("document", 0)

	var frames []byte
	top := func() byte {
		if len(frames) == 0 {
			return 0
		}
		return frames[len(frames)-1]
	}
	lastValueEnd := 0
	closePair := func() {
		if top() == inPair {
			b.Close(lastValueEnd)
			frames = frames[:len(frames)-1]
		}
	}

	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isJSONSpace(c), c == ':':
			i++
		case c == ',':
			closePair()
			i++
		case c == '{':
			b.Open("object", i)
			frames = append(frames, inObject)
			i++
		case c == '[':
			b.Open("array", i)
			frames = append(frames, inArray)
			i++
		case c == '}' || c == ']':
			closePair()
			b.Close(i + 1)
			if len(frames) > 0 {
				frames = frames[:len(frames)-1]
			}
			i++
			lastValueEnd = i
		case c == '"':
			j := scanJSONString(src, i)
			if top() == inObject {
				b.Open("pair", i)
				frames = append(frames, inPair)
			}
			b.Leaf("string", i, j)
			i = j
			lastValueEnd = j
		case c == 't' || c == 'f' || c == 'n':
			kind, width := "null", 4
			switch c {
			case 't':
				kind = "true"
			case 'f':
				kind, width = "false", 5
			}
			b.Leaf(kind, i, i+width)
			i += width
			lastValueEnd = i
		default:
			j := i
			for j < len(src) && isJSONNumberByte(src[j]) {
				j++
			}
			if j == i {
				j = i + 1
			}
			b.Leaf("number", i, j)
			i = j
			lastValueEnd = i
		}
	}
	return b.Finish("document"), nil
}

// scanJSONString returns the offset just past the string starting at src[start].
func scanJSONString(src []byte, start int) int {
	i := start + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return len(src)
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isJSONNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}
