package frontend

import "strings"

// Token is a dotted identifier cut out of a single line. Start and End are
// byte offsets into that line, End exclusive.
type Token struct {
	Word       string
	Start, End int
}

// isPathChar reports whether c may appear in a dotted prototype path such
// as Neos.Fusion:Component. Word characters are ASCII only.
func isPathChar(c byte) bool {
	// ASCII letters
	if ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') {
		return true
	}
	if '0' <= c && c <= '9' {
		return true
	}
	switch c {
	case '_', '.', ':':
		return true
	}
	return false
}

// ExtractDottedToken returns the run of path characters touching column.
// The run may extend to either side of the column. ok is false when neither
// neighbour of the column is a path character.
func ExtractDottedToken(line string, column int) (tok Token, ok bool) {
	if column < 0 {
		column = 0
	}
	if column > len(line) {
		column = len(line)
	}

	start := column
	for start > 0 && isPathChar(line[start-1]) {
		start--
	}
	end := column
	for end < len(line) && isPathChar(line[end]) {
		end++
	}

	if start == end {
		return Token{}, false
	}
	return Token{Word: line[start:end], Start: start, End: end}, true
}

// Occurrences returns the byte offsets at which word appears in line as a
// whole dotted token, so "Foo" is not found inside "Foo.Bar" or "MyFoo".
func Occurrences(line, word string) []int {
	if word == "" {
		return nil
	}
	var starts []int
	for from := 0; from <= len(line)-len(word); {
		i := strings.Index(line[from:], word)
		if i < 0 {
			break
		}
		i += from
		if tok, ok := ExtractDottedToken(line, i); ok && tok.Start == i && tok.Word == word {
			starts = append(starts, i)
		}
		from = i + len(word)
	}
	return starts
}
