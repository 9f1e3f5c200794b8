package lsp

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/neosfusion/fusionls/common"
	"github.com/neosfusion/fusionls/definition"
	file_path "github.com/neosfusion/fusionls/filepath"
	"github.com/neosfusion/fusionls/frontend"
	"github.com/neosfusion/fusionls/logging"
	"github.com/neosfusion/fusionls/search"
	"github.com/neosfusion/fusionls/settings"

	protocol "github.com/gluax-lang/lsp"
)

// RunLSP serves on stdio. A non-empty logFile takes precedence over the
// [log] file of the workspace configuration.
func RunLSP(logFile string) error {
	h := NewHandler()
	defer h.Close()
	if logFile != "" {
		config := logging.FromToml(frontend.DefaultFusionToml().Log)
		config.LogFile = logFile
		closer, err := logging.SetupLogging(config)
		if err != nil {
			return err
		}
		h.logCloser = closer
	}
	return h.Serve(context.Background())
}

type Handler struct {
	*protocol.Server
	fileCache map[string]string
	mu        sync.Mutex
	workspace string
	config    frontend.FusionToml
	registry  *definition.Registry
	logCloser io.Closer
}

func NewHandler() *Handler {
	h := &Handler{
		fileCache: make(map[string]string),
		mu:        sync.Mutex{},
		config:    frontend.DefaultFusionToml(),
	}
	h.registry = definition.NewRegistry(h.newProvider)
	h.Server = protocol.NewServer(os.Stdin, os.Stdout, h)
	return h
}

// newProvider builds a provider for the current configuration.
func (h *Handler) newProvider() definition.Provider {
	return definition.NewLocator(search.NewScanner(h.scannerConfig()))
}

func (h *Handler) scannerConfig() search.Config {
	return search.Config{
		Extension:        h.config.Extension,
		RespectGitignore: h.config.RespectGitignore,
	}
}

func (h *Handler) Initialize(p *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	root := ""
	if p.WorkspaceFolders != nil && len(*p.WorkspaceFolders) > 0 {
		workspaceFolders := *p.WorkspaceFolders
		path, err := uriToFilePath(workspaceFolders[0].URI)
		if err != nil {
			log.Printf("invalid workspace folder: %v", err)
		} else {
			root = path
		}
	}
	h.setup(root)

	return &protocol.InitializeResult{Capabilities: serverCapabilities()}, nil
}

// completionTriggers are the characters after which a prototype name is
// being typed: "prototype(", "Vendor.Site" and "Vendor.Site:Component".
var completionTriggers = []string{"(", ".", ":"}

func serverCapabilities() protocol.ServerCapabilities {
	return protocol.ServerCapabilities{
		HoverProvider: protocol.NewHoverProviderBool(true),
		TextDocumentSync: protocol.NewTextDocumentSyncOptions(protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.TextDocumentSyncKindFull,
			Save: &protocol.SaveOptions{
				IncludeText: true,
			},
		}),
		CompletionProvider: protocol.CompletionOptions{
			TriggerCharacters: completionTriggers,
		},
		DefinitionProvider: true,
	}
}

// setup loads the workspace configuration and registers the definition
// provider. root may be "".
func (h *Handler) setup(root string) {
	h.workspace = root
	if h.workspace == "" {
		log.Println("no workspace folder, lookups will return nothing")
	} else {
		log.Printf("root: %s", h.workspace)
		cfg, err := frontend.LoadFusionToml(h.workspace)
		if err != nil {
			log.Printf("using default configuration: %v", err)
		}
		h.config = cfg
	}

	if h.config.Log.File != "" && h.logCloser == nil {
		closer, err := logging.SetupLogging(logging.FromToml(h.config.Log))
		if err != nil {
			log.Printf("cannot open log file: %v", err)
		} else {
			h.logCloser = closer
		}
	}

	h.patchTailwind()
	h.registry.Update(h.config.EnableGoToDefinition)
}

func (h *Handler) Initialized() error {
	log.Println("Initialized")
	return nil
}

// Close releases the registration and the log file.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registry.Dispose()
	if h.logCloser != nil {
		h.logCloser.Close()
		h.logCloser = nil
	}
}

// patchTailwind lets the Tailwind CSS extension treat Fusion files as
// HTML. Failures never stop the server.
func (h *Handler) patchTailwind() {
	tw := h.config.Tailwind
	if !tw.Patch {
		return
	}
	path := tw.Settings
	if !filepath.IsAbs(path) {
		if h.workspace == "" {
			return
		}
		path = filepath.Join(h.workspace, path)
	}
	changed, err := settings.PatchIncludeLanguages(path, "fusion", tw.Language)
	if err != nil {
		log.Printf("tailwind settings not patched: %v", err)
		return
	}
	if changed {
		log.Printf("patched %s in %s", settings.IncludeLanguagesKey, path)
	}
}

// applyConfig takes a new fusion.toml content. The registry is only
// re-toggled when an option it depends on changed.
func (h *Handler) applyConfig(content string) {
	cfg, err := frontend.HandleFusionToml(content)
	if err != nil {
		log.Printf("ignoring invalid %s: %v", frontend.ConfigFileName, err)
		return
	}
	old := h.config
	h.config = cfg
	if cfg.EnableGoToDefinition != old.EnableGoToDefinition ||
		cfg.Extension != old.Extension ||
		cfg.RespectGitignore != old.RespectGitignore {
		h.registry.Update(cfg.EnableGoToDefinition)
	}
}

func (h *Handler) isConfigFile(path string) bool {
	return h.workspace != "" && path == filepath.Join(h.workspace, frontend.ConfigFileName)
}

func (h *Handler) roots() []string {
	if h.workspace == "" {
		return nil
	}
	return []string{h.workspace}
}

// lookupContext applies the configured lookup timeout.
func (h *Handler) lookupContext() (context.Context, context.CancelFunc) {
	if d := h.config.Timeout(); d > 0 {
		return context.WithTimeout(context.Background(), d)
	}
	return context.WithCancel(context.Background())
}

// request builds a lookup request for a position in uri. ok is false when
// the URI is not a file.
func (h *Handler) request(uri string, pos protocol.Position) (definition.Request, bool) {
	path, err := uriToFilePath(uri)
	if err != nil {
		return definition.Request{}, false
	}
	text := lineAt(h.documentText(path), pos.Line)
	idx := common.BuildRuneIndex(text)
	return definition.Request{
		Path:   path,
		Line:   pos.Line,
		Text:   text,
		Column: idx.ByteOffset(pos.Character),
		Roots:  h.roots(),
	}, true
}

// documentText prefers the editor's copy of a document over the disk.
func (h *Handler) documentText(path string) string {
	if text, ok := h.fileCache[path]; ok {
		return text
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(content)
}

func lineAt(text string, line uint32) string {
	lines := strings.Split(text, "\n")
	if int(line) >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line], "\r")
}

func (h *Handler) relPath(path string) string {
	if h.workspace == "" {
		return path
	}
	rel, err := filepath.Rel(h.workspace, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func since(start time.Time) string {
	return time.Since(start).Round(time.Microsecond).String()
}

func uriToFilePath(uri string) (string, error) {
	return file_path.FromURI(uri)
}
