package lsp

import (
	"log"
	"time"

	"github.com/gluax-lang/lsp"
)

func (h *Handler) Definition(p *lsp.DefinitionParams) ([]lsp.Location, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.definition(p.TextDocument.URI, p.Position)
}

func (h *Handler) definition(uri string, pos lsp.Position) ([]lsp.Location, error) {
	req, ok := h.request(uri, pos)
	if !ok {
		return nil, nil
	}

	ctx, cancel := h.lookupContext()
	defer cancel()

	start := time.Now()
	found, err := h.registry.Definition(ctx, req)
	if err != nil {
		log.Printf("definition lookup failed: %v", err)
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	log.Printf("definition: %d result(s) in %s", len(found), since(start))

	locations := make([]lsp.Location, 0, len(found))
	for _, loc := range found {
		locations = append(locations, loc.Target.ToLocation())
	}
	return locations, nil
}
