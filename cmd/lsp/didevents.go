package lsp

import "github.com/gluax-lang/lsp"

func (h *Handler) DidOpen(p *lsp.DidOpenTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	path, err := uriToFilePath(p.TextDocument.URI)
	if err != nil {
		return nil
	}
	h.updateDocument(path, p.TextDocument.Text)
	return nil
}

func (h *Handler) DidChange(p *lsp.DidChangeTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	path, err := uriToFilePath(p.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(p.ContentChanges) == 0 {
		return nil
	}
	h.updateDocument(path, p.ContentChanges[len(p.ContentChanges)-1].Text)
	return nil
}

func (h *Handler) DidClose(p *lsp.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	uri := p.TextDocument.URI
	path, err := uriToFilePath(uri)
	if err != nil {
		return nil
	}
	delete(h.fileCache, path)
	return nil
}

func (h *Handler) DidSave(p *lsp.DidSaveTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	path, err := uriToFilePath(p.TextDocument.URI)
	if err != nil {
		return nil
	}
	if p.Text == nil {
		return nil
	}
	h.updateDocument(path, *p.Text)
	return nil
}

// updateDocument caches the editor's text. Changes to the workspace
// fusion.toml count as configuration changes.
func (h *Handler) updateDocument(path, text string) {
	h.fileCache[path] = text
	if h.isConfigFile(path) {
		h.applyConfig(text)
	}
}
