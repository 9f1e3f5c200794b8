// Package definition resolves Fusion prototype names to the lines that
// declare them.
package definition

import (
	"context"

	"github.com/neosfusion/fusionls/common"
	"github.com/neosfusion/fusionls/frontend"
	"github.com/neosfusion/fusionls/search"
)

// Location is a jump target for one declaration. Target covers the whole
// declaring line; Origin is the token the lookup started from.
type Location struct {
	Path     string
	Target   common.Span
	LineText string
	Origin   *common.Span
}

// Request is a definition lookup at a byte column of one line.
type Request struct {
	Path   string // document the cursor is in, may be ""
	Line   uint32
	Text   string // text of that line
	Column int    // byte offset into Text
	// Roots are the open project roots; only the first one is searched.
	Roots []string
}

// Locator finds declarations by scanning the project on every lookup.
type Locator struct {
	scanner *search.Scanner
}

func NewLocator(scanner *search.Scanner) *Locator {
	return &Locator{scanner: scanner}
}

// Lookup returns the declarations of the dotted name under the cursor. No
// name, no root and no match all yield an empty result with a nil error.
func (l *Locator) Lookup(ctx context.Context, req Request) ([]Location, error) {
	tok, ok := frontend.ExtractDottedToken(req.Text, req.Column)
	if !ok {
		return nil, nil
	}
	if len(req.Roots) == 0 {
		return nil, nil
	}

	matches, err := l.scanner.FindPattern(ctx, req.Roots[0], frontend.DeclarationPattern(tok.Word))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	origin := common.SpanOnLine(req.Path, req.Line, req.Text, tok.Start, tok.End)
	locations := make([]Location, 0, len(matches))
	for _, m := range matches {
		locations = append(locations, Location{
			Path:     m.Path,
			Target:   common.SpanWholeLine(m.Path, uint32(m.Line), m.Text),
			LineText: m.Text,
			Origin:   &origin,
		})
	}
	return locations, nil
}

// Token is the dotted name a lookup at req would search for.
func (req Request) Token() (frontend.Token, bool) {
	return frontend.ExtractDottedToken(req.Text, req.Column)
}
