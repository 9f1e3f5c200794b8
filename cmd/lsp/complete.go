package lsp

import (
	"fmt"
	"log"
	"sort"

	"github.com/gluax-lang/lsp"

	"github.com/neosfusion/fusionls/frontend"
	"github.com/neosfusion/fusionls/search"
)

// Complete offers every prototype name declared in the workspace.
func (h *Handler) Complete(p *lsp.CompletionParams) (*lsp.CompletionList, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.complete()
}

func (h *Handler) complete() (*lsp.CompletionList, error) {
	if h.workspace == "" {
		return nil, nil
	}

	ctx, cancel := h.lookupContext()
	defer cancel()

	matches, err := search.NewScanner(h.scannerConfig()).FindPattern(ctx, h.workspace, frontend.DeclarationPrefix)
	if err != nil {
		log.Printf("completion scan failed: %v", err)
		return nil, nil
	}

	declaredAt := make(map[string]string)
	for _, m := range matches {
		for _, name := range frontend.DeclaredPrototypes(m.Text) {
			if _, exists := declaredAt[name]; exists {
				continue
			}
			declaredAt[name] = fmt.Sprintf("%s:%d", h.relPath(m.Path), m.Line+1)
		}
	}

	names := make([]string, 0, len(declaredAt))
	for name := range declaredAt {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]lsp.CompletionItem, 0, len(names))
	for _, name := range names {
		kind := lsp.CompletionItemKindVariable
		detail := declaredAt[name]
		list = append(list, lsp.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: &detail,
		})
	}

	return &lsp.CompletionList{
		IsIncomplete: false,
		Items:        list,
	}, nil
}
