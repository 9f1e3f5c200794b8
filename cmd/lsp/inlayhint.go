package lsp

import "github.com/gluax-lang/lsp"

// InlayHint is not offered for Fusion files.
func (h *Handler) InlayHint(p *lsp.InlayHintParams) ([]lsp.InlayHint, error) {
	return nil, nil
}
