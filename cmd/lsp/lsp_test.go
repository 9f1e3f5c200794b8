package lsp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gluax-lang/lsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	file_path "github.com/neosfusion/fusionls/filepath"
	"github.com/neosfusion/fusionls/frontend"
)

const pageFusion = `prototype(Vendor.Site:Page) < prototype(Neos.Neos:Page) {
    body = Vendor.Site:Content
}
`

const contentFusion = `// content
prototype(Vendor.Site:Content) < prototype(Neos.Fusion:Component) {
    renderer = afx` + "`<div/>`" + `
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newWorkspace(t *testing.T) (string, *Handler) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Resources", "Page.fusion"), pageFusion)
	writeFile(t, filepath.Join(root, "Resources", "Content.fusion"), contentFusion)

	h := NewHandler()
	h.setup(root)
	t.Cleanup(h.Close)
	return root, h
}

func TestDefinition(t *testing.T) {
	root, h := newWorkspace(t)
	page := filepath.Join(root, "Resources", "Page.fusion")

	// cursor on "Content" in "body = Vendor.Site:Content"
	locs, err := h.definition(file_path.ToURI(page), lsp.Position{Line: 1, Character: 25})
	require.NoError(t, err)
	require.Len(t, locs, 1)

	assert.Equal(t, file_path.ToURI(filepath.Join(root, "Resources", "Content.fusion")), locs[0].URI)
	assert.Equal(t, uint32(1), locs[0].Range.Start.Line)
	assert.Equal(t, uint32(0), locs[0].Range.Start.Character)
	assert.Equal(t, uint32(len("prototype(Vendor.Site:Content) < prototype(Neos.Fusion:Component) {")), locs[0].Range.End.Character)
}

func TestDefinition_UsesOpenDocument(t *testing.T) {
	root, h := newWorkspace(t)
	scratch := filepath.Join(root, "Scratch.fusion")
	h.updateDocument(scratch, "a = 1\nx = Vendor.Site:Page\n")

	locs, err := h.definition(file_path.ToURI(scratch), lsp.Position{Line: 1, Character: 6})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, uint32(0), locs[0].Range.Start.Line)
}

func TestDefinition_NoResult(t *testing.T) {
	root, h := newWorkspace(t)
	page := filepath.Join(root, "Resources", "Page.fusion")

	// blank area after "{"
	locs, err := h.definition(file_path.ToURI(page), lsp.Position{Line: 0, Character: 200})
	require.NoError(t, err)
	assert.Nil(t, locs)

	// "renderer" is a property, never declared with prototype(...)
	content := filepath.Join(root, "Resources", "Content.fusion")
	locs, err = h.definition(file_path.ToURI(content), lsp.Position{Line: 2, Character: 6})
	require.NoError(t, err)
	assert.Nil(t, locs)

	locs, err = h.definition("untitled:1", lsp.Position{})
	require.NoError(t, err)
	assert.Nil(t, locs)
}

func TestDefinition_NoWorkspace(t *testing.T) {
	h := NewHandler()
	h.setup("")
	t.Cleanup(h.Close)

	path := filepath.Join(t.TempDir(), "A.fusion")
	h.updateDocument(path, "prototype(A) {\nx = A\n")
	locs, err := h.definition(file_path.ToURI(path), lsp.Position{Line: 1, Character: 4})
	require.NoError(t, err)
	assert.Nil(t, locs)
}

func TestDefinition_ToggledByConfig(t *testing.T) {
	root, h := newWorkspace(t)
	page := file_path.ToURI(filepath.Join(root, "Resources", "Page.fusion"))
	config := filepath.Join(root, frontend.ConfigFileName)
	pos := lsp.Position{Line: 1, Character: 25}

	h.updateDocument(config, "enable_go_to_definition = false\n")
	assert.Nil(t, h.registry.Active())
	locs, err := h.definition(page, pos)
	require.NoError(t, err)
	assert.Nil(t, locs)

	h.updateDocument(config, "enable_go_to_definition = true\n")
	assert.Equal(t, 1, h.registry.Live())
	locs, err = h.definition(page, pos)
	require.NoError(t, err)
	assert.Len(t, locs, 1)

	// an invalid file keeps the previous configuration
	h.updateDocument(config, "enable_go_to_definition = \n")
	assert.NotNil(t, h.registry.Active())
	assert.Equal(t, 1, h.registry.Live())
}

func TestSetup_ReadsConfigFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, frontend.ConfigFileName), "enable_go_to_definition = false\n")

	h := NewHandler()
	h.setup(root)
	t.Cleanup(h.Close)
	assert.Nil(t, h.registry.Active())
}

type countingCloser struct{ closed int }

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestSetup_CommandLineLogFileWins(t *testing.T) {
	root := t.TempDir()
	configLog := filepath.Join(root, "logs", "fusionls.log")
	writeFile(t, filepath.Join(root, frontend.ConfigFileName), "[log]\nfile = \""+filepath.ToSlash(configLog)+"\"\n")

	cli := &countingCloser{}
	h := NewHandler()
	h.logCloser = cli
	h.setup(root)

	assert.Equal(t, filepath.ToSlash(configLog), h.config.Log.File)
	assert.Same(t, cli, h.logCloser)
	_, err := os.Stat(filepath.Dir(configLog))
	assert.ErrorIs(t, err, os.ErrNotExist)

	h.Close()
	assert.Equal(t, 1, cli.closed)
	assert.Nil(t, h.logCloser)
}

func TestSetup_PatchesTailwindSettings(t *testing.T) {
	root := t.TempDir()
	settingsPath := filepath.Join(root, ".vscode", "settings.json")
	writeFile(t, settingsPath, "{}")

	h := NewHandler()
	h.setup(root)
	t.Cleanup(h.Close)

	content, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"fusion": "html"`)
}

func TestSetup_BrokenTailwindSettingsDoNotBlock(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".vscode", "settings.json"), "// comments are not JSON\n{}")

	h := NewHandler()
	h.setup(root)
	t.Cleanup(h.Close)
	assert.NotNil(t, h.registry.Active())
}

func TestHover(t *testing.T) {
	root, h := newWorkspace(t)
	page := file_path.ToURI(filepath.Join(root, "Resources", "Page.fusion"))

	hover, err := h.hover(page, lsp.Position{Line: 1, Character: 25})
	require.NoError(t, err)
	require.NotNil(t, hover)
	contents := fmt.Sprintf("%v", hover.Contents)
	assert.Contains(t, contents, "prototype(Vendor.Site:Content)")
	assert.Contains(t, contents, "Resources/Content.fusion:2")
}

func TestReferences(t *testing.T) {
	root, h := newWorkspace(t)
	content := file_path.ToURI(filepath.Join(root, "Resources", "Content.fusion"))
	pos := lsp.Position{Line: 1, Character: 15}

	locs, err := h.references(content, pos, true)
	require.NoError(t, err)
	require.Len(t, locs, 2)

	locs, err = h.references(content, pos, false)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.True(t, strings.HasSuffix(locs[0].URI, "Page.fusion"))
	assert.Equal(t, uint32(1), locs[0].Range.Start.Line)
	assert.Equal(t, uint32(11), locs[0].Range.Start.Character)
	assert.Equal(t, uint32(30), locs[0].Range.End.Character)
}

func TestReferences_DropsEveryDeclarationLine(t *testing.T) {
	root, h := newWorkspace(t)
	writeFile(t, filepath.Join(root, "Resources", "Override.fusion"),
		"x = Vendor.Site:Content\nprototype(Vendor.Site:Content).y = 1\nprototype(Vendor.Site:ContentList) < prototype(Neos.Fusion:Map)\n")
	content := file_path.ToURI(filepath.Join(root, "Resources", "Content.fusion"))
	pos := lsp.Position{Line: 1, Character: 15}

	locs, err := h.references(content, pos, true)
	require.NoError(t, err)
	assert.Len(t, locs, 4)

	locs, err = h.references(content, pos, false)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	for _, loc := range locs {
		assert.False(t, strings.HasSuffix(loc.URI, "Content.fusion"))
	}
	assert.True(t, strings.HasSuffix(locs[0].URI, "Override.fusion"))
	assert.Equal(t, uint32(0), locs[0].Range.Start.Line)
	assert.Equal(t, uint32(4), locs[0].Range.Start.Character)
	assert.True(t, strings.HasSuffix(locs[1].URI, "Page.fusion"))
}

func TestServerCapabilities(t *testing.T) {
	raw, err := json.Marshal(serverCapabilities())
	require.NoError(t, err)

	var caps struct {
		HoverProvider      bool `json:"hoverProvider"`
		CompletionProvider struct {
			TriggerCharacters []string `json:"triggerCharacters"`
		} `json:"completionProvider"`
		TextDocumentSync struct {
			OpenClose bool `json:"openClose"`
			Change    int  `json:"change"`
		} `json:"textDocumentSync"`
	}
	require.NoError(t, json.Unmarshal(raw, &caps))
	assert.True(t, caps.HoverProvider)
	assert.Equal(t, []string{"(", ".", ":"}, caps.CompletionProvider.TriggerCharacters)
	assert.True(t, caps.TextDocumentSync.OpenClose)
	assert.Equal(t, 1, caps.TextDocumentSync.Change)
}

func TestComplete(t *testing.T) {
	_, h := newWorkspace(t)

	list, err := h.complete()
	require.NoError(t, err)
	require.NotNil(t, list)

	var labels []string
	for _, item := range list.Items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{
		"Neos.Fusion:Component",
		"Neos.Neos:Page",
		"Vendor.Site:Content",
		"Vendor.Site:Page",
	}, labels)
}
