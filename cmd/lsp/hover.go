package lsp

import (
	"fmt"
	"strings"

	"github.com/gluax-lang/lsp"
)

// Hover shows the declaring lines of the prototype under the cursor.
func (h *Handler) Hover(p *lsp.HoverParams) (*lsp.Hover, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hover(p.TextDocument.URI, p.Position)
}

func (h *Handler) hover(uri string, pos lsp.Position) (*lsp.Hover, error) {
	req, ok := h.request(uri, pos)
	if !ok {
		return nil, nil
	}

	ctx, cancel := h.lookupContext()
	defer cancel()

	found, err := h.registry.Definition(ctx, req)
	if err != nil || len(found) == 0 {
		return nil, err
	}

	var sb strings.Builder
	for i, loc := range found {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString(fmt.Sprintf("```fusion\n%s\n```\n", strings.TrimSpace(loc.LineText)))
		sb.WriteString(fmt.Sprintf("*%s:%d*\n", h.relPath(loc.Path), loc.Target.Line+1))
	}

	return &lsp.Hover{
		Contents: lsp.MarkupContent{
			Kind:  "markdown",
			Value: sb.String(),
		},
	}, nil
}
