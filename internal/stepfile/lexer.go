// Package stepfile implements a single-pass STEP Part 21 instance-file
// scanner and an on-demand attribute decoder.
//
// Grounded on the scanning contract in original_source's
// ifc-lite-core entity scanner: one left-to-right byte pass producing
// (id, type, byte_start, byte_end) without parsing attribute payloads.
package stepfile

import (
	"fmt"
)

// EntityRef is one recognized `#N = TYPENAME(...);` instance.
type EntityRef struct {
	ID    uint32
	Type  string
	Start int // byte offset of '#'
	End   int // byte offset just past the terminating ';'
}

// ScanError reports a malformed instance at a byte offset.
type ScanError struct {
	Offset int
	Msg    string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("step scan error at byte %d: %s", e.Offset, e.Msg)
}

// Index is the dense id -> (type, range) map built by one scan pass, plus
// the file-order sequence of entities.
type Index struct {
	Entities []EntityRef
	byID     map[uint32]int
}

// Lookup returns the entity reference for id, if present.
func (idx *Index) Lookup(id uint32) (EntityRef, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return EntityRef{}, false
	}
	return idx.Entities[i], true
}

// Len reports the number of indexed entities.
func (idx *Index) Len() int { return len(idx.Entities) }

// scanner states while walking the byte stream outside of an instance body.
const (
	sOutside = iota
	sHash
	sID
	sAfterID
	sEq
	sType
	sBody
)

// ScanEntities performs the single-pass lex over data, recognizing
// `#N = TYPENAME(<arglist>);` instances, STEP comments `/* ... */`, and
// quoted strings with `''` escapes. It never looks inside string literals
// or comments for structural punctuation.
func ScanEntities(data []byte) (*Index, error) {
	idx := &Index{byID: make(map[uint32]int)}

	n := len(data)
	i := 0

	for i < n {
		c := data[i]

		switch {
		case c == '/' && i+1 < n && data[i+1] == '*':
			end, err := skipComment(data, i)
			if err != nil {
				return nil, err
			}
			i = end
			continue

		case isSpace(c):
			i++
			continue

		case c == '#':
			start := i
			j := i + 1
			idStart := j
			for j < n && isDigit(data[j]) {
				j++
			}
			if j == idStart {
				// Not an instance label (could be a reference mid-stream
				// outside any context we track); skip the hash.
				i++
				continue
			}
			id, err := parseUint(data[idStart:j])
			if err != nil {
				i = j
				continue
			}

			k := skipSpacesAndComments(data, j)
			if k >= n || data[k] != '=' {
				// Not an instance definition line, keep scanning.
				i = j
				continue
			}
			k = skipSpacesAndComments(data, k+1)

			typeStart := k
			for k < n && isTypeChar(data[k]) {
				k++
			}
			if k == typeStart {
				return nil, &ScanError{Offset: k, Msg: "expected type name after '='"}
			}
			typeName := string(data[typeStart:k])

			k = skipSpacesAndComments(data, k)
			if k >= n || data[k] != '(' {
				return nil, &ScanError{Offset: k, Msg: "expected '(' after type name"}
			}

			closeParen, err := skipBalanced(data, k)
			if err != nil {
				return nil, err
			}

			m := skipSpacesAndComments(data, closeParen+1)
			if m >= n || data[m] != ';' {
				return nil, &ScanError{Offset: m, Msg: "expected ';' after instance"}
			}
			end := m + 1

			ref := EntityRef{ID: id, Type: typeName, Start: start, End: end}
			idx.byID[id] = len(idx.Entities)
			idx.Entities = append(idx.Entities, ref)

			i = end
			continue

		default:
			i++
		}
	}

	return idx, nil
}

// skipBalanced walks from the '(' at data[open] to the matching ')',
// correctly skipping nested parens, comments, and quoted strings.
// Returns the offset of the matching ')'.
func skipBalanced(data []byte, open int) (int, error) {
	depth := 0
	i := open
	n := len(data)
	for i < n {
		c := data[i]
		switch {
		case c == '\'':
			end, err := skipString(data, i)
			if err != nil {
				return 0, err
			}
			i = end
			continue
		case c == '/' && i+1 < n && data[i+1] == '*':
			end, err := skipComment(data, i)
			if err != nil {
				return 0, err
			}
			i = end
			continue
		case c == '(':
			depth++
			i++
		case c == ')':
			depth--
			i++
			if depth == 0 {
				return i - 1, nil
			}
		default:
			i++
		}
	}
	return 0, &ScanError{Offset: open, Msg: "unbalanced parentheses"}
}

// skipString walks a STEP quoted string starting at data[i] == '\''.
// `''` inside the string is an escaped single quote, not a terminator.
func skipString(data []byte, i int) (int, error) {
	n := len(data)
	start := i
	i++ // past opening quote
	for i < n {
		if data[i] == '\'' {
			if i+1 < n && data[i+1] == '\'' {
				i += 2
				continue
			}
			return i + 1, nil
		}
		i++
	}
	return 0, &ScanError{Offset: start, Msg: "unterminated string literal"}
}

func skipComment(data []byte, i int) (int, error) {
	n := len(data)
	start := i
	i += 2 // past "/*"
	for i+1 < n {
		if data[i] == '*' && data[i+1] == '/' {
			return i + 2, nil
		}
		i++
	}
	return 0, &ScanError{Offset: start, Msg: "unterminated comment"}
}

func skipSpacesAndComments(data []byte, i int) int {
	n := len(data)
	for i < n {
		if isSpace(data[i]) {
			i++
			continue
		}
		if data[i] == '/' && i+1 < n && data[i+1] == '*' {
			end, err := skipComment(data, i)
			if err != nil {
				return i
			}
			i = end
			continue
		}
		break
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isTypeChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || isDigit(c) || c == '_'
}

func parseUint(b []byte) (uint32, error) {
	var v uint64
	for _, c := range b {
		v = v*10 + uint64(c-'0')
		if v > 0xFFFFFFFF {
			return 0, fmt.Errorf("id overflow")
		}
	}
	return uint32(v), nil
}
