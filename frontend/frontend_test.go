package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDottedToken_InsideWord(t *testing.T) {
	line := "foo.bar = Vendor.Site:Component"
	tok, ok := ExtractDottedToken(line, 15)
	require.True(t, ok)
	assert.Equal(t, "Vendor.Site:Component", tok.Word)
	assert.Equal(t, 10, tok.Start)
	assert.Equal(t, 31, tok.End)
	assert.Equal(t, tok.Word, line[tok.Start:tok.End])
}

func TestExtractDottedToken_Sides(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		column int
		word   string
		start  int
		end    int
	}{
		{"cursor at start", "Neos.Fusion:Tag {", 0, "Neos.Fusion:Tag", 0, 15},
		{"cursor at end", "x = Neos.Fusion:Tag", 19, "Neos.Fusion:Tag", 4, 19},
		{"only before", "Foo.Bar {", 7, "Foo.Bar", 0, 7},
		{"only after", "= Foo.Bar", 2, "Foo.Bar", 2, 9},
		{"leading dot kept", "x .Foo", 3, ".Foo", 2, 6},
		{"trailing colon kept", "Foo: y", 1, "Foo:", 0, 4},
		{"double dots kept", "a..b", 2, "a..b", 0, 4},
		{"column past end clamps", "Foo", 99, "Foo", 0, 3},
		{"negative column clamps", "Foo", -4, "Foo", 0, 3},
		{"inside parens", "prototype(A.B:C) < x", 12, "A.B:C", 10, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, ok := ExtractDottedToken(tt.line, tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.word, tok.Word)
			assert.Equal(t, tt.start, tok.Start)
			assert.Equal(t, tt.end, tok.End)
		})
	}
}

func TestExtractDottedToken_None(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		column int
	}{
		{"empty line", "", 0},
		{"between spaces", "a  b", 2},
		{"between punctuation", "(){}", 2},
		{"non ascii neighbours", "é é", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractDottedToken(tt.line, tt.column)
			assert.False(t, ok)
		})
	}
}

// Every column whose neighbour is a path character must give a token whose
// span slices back to the word.
func TestExtractDottedToken_SpanSlicesWord(t *testing.T) {
	lines := []string{
		"prototype(Vendor.Site:Page) < prototype(Neos.Neos:Page) {",
		"  body = Vendor.Site:Content.Main",
		"é = Foo_1.bar",
	}
	for _, line := range lines {
		for col := 0; col <= len(line); col++ {
			before := col > 0 && isPathChar(line[col-1])
			after := col < len(line) && isPathChar(line[col])
			tok, ok := ExtractDottedToken(line, col)
			assert.Equal(t, before || after, ok, "line %q col %d", line, col)
			if ok {
				assert.Equal(t, tok.Word, line[tok.Start:tok.End])
				assert.LessOrEqual(t, tok.Start, col)
				assert.GreaterOrEqual(t, tok.End, col)
			}
		}
	}
}

func TestDeclarationPattern(t *testing.T) {
	assert.Equal(t, "prototype(Vendor.Site:Component)", DeclarationPattern("Vendor.Site:Component"))
}

func TestDeclaredPrototypes(t *testing.T) {
	assert.Equal(t,
		[]string{"Vendor.Site:Page", "Neos.Neos:Page"},
		DeclaredPrototypes("prototype(Vendor.Site:Page) < prototype(Neos.Neos:Page) {"),
	)
	assert.Empty(t, DeclaredPrototypes("prototype( broken"))
	assert.Empty(t, DeclaredPrototypes("prototype() {"))
	assert.Empty(t, DeclaredPrototypes("body = Neos.Fusion:Tag"))
}

func TestOccurrences(t *testing.T) {
	line := "Foo = Foo.Bar + MyFoo + Foo"
	assert.Equal(t, []int{0, 24}, Occurrences(line, "Foo"))
	assert.Equal(t, []int{6}, Occurrences(line, "Foo.Bar"))
	assert.Empty(t, Occurrences(line, "Baz"))
	assert.Empty(t, Occurrences(line, ""))
}
