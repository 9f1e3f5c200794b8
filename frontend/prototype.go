package frontend

import (
	"fmt"
	"strings"
)

// DeclarationFormat is how Fusion declares (and extends) a prototype:
// `prototype(Vendor.Site:Component) < prototype(Neos.Fusion:Component)`.
const DeclarationFormat = "prototype(%s)"

// DeclarationPrefix is the part of DeclarationFormat before the name.
const DeclarationPrefix = "prototype("

// DeclarationPattern is the literal text searched for when looking up the
// declaration of word.
func DeclarationPattern(word string) string {
	return fmt.Sprintf(DeclarationFormat, word)
}

// DeclaredPrototypes lists the names wrapped in prototype(...) on a line,
// in order of appearance. Names are the longest path run after the opening
// parenthesis and must be closed by ')'.
func DeclaredPrototypes(line string) []string {
	var names []string
	rest := line
	for {
		i := strings.Index(rest, DeclarationPrefix)
		if i < 0 {
			return names
		}
		rest = rest[i+len(DeclarationPrefix):]
		n := 0
		for n < len(rest) && isPathChar(rest[n]) {
			n++
		}
		if n > 0 && n < len(rest) && rest[n] == ')' {
			names = append(names, rest[:n])
		}
		rest = rest[n:]
	}
}
