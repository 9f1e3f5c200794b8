package lsp

import (
	"log"
	"slices"

	"github.com/gluax-lang/lsp"

	"github.com/neosfusion/fusionls/common"
	"github.com/neosfusion/fusionls/frontend"
	"github.com/neosfusion/fusionls/search"
)

// References lists every place the dotted name under the cursor is used
// in the workspace's Fusion files.
func (h *Handler) References(p *lsp.ReferenceParams) ([]lsp.Location, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.references(p.TextDocument.URI, p.Position, p.Context.IncludeDeclaration)
}

const declarationPattern = 1

func (h *Handler) references(uri string, pos lsp.Position, includeDeclaration bool) ([]lsp.Location, error) {
	req, ok := h.request(uri, pos)
	if !ok || len(req.Roots) == 0 {
		return nil, nil
	}
	tok, ok := req.Token()
	if !ok {
		return nil, nil
	}

	ctx, cancel := h.lookupContext()
	defer cancel()

	// the declaration contains the word, so every declaration line is also
	// a use of it; the second pattern only tags those lines.
	patterns := []string{tok.Word, frontend.DeclarationPattern(tok.Word)}
	matches, err := search.NewScanner(h.scannerConfig()).FindPatterns(ctx, req.Roots[0], patterns)
	if err != nil {
		log.Printf("references lookup failed: %v", err)
		return nil, err
	}

	var locations []lsp.Location
	for _, m := range matches {
		if !includeDeclaration && slices.Contains(m.Patterns, declarationPattern) {
			continue
		}
		for _, start := range frontend.Occurrences(m.Text, tok.Word) {
			span := common.SpanOnLine(m.Path, uint32(m.Line), m.Text, start, start+len(tok.Word))
			locations = append(locations, span.ToLocation())
		}
	}
	return locations, nil
}
