package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/neosfusion/fusionls/definition"
	"github.com/neosfusion/fusionls/frontend"
	"github.com/neosfusion/fusionls/search"
)

type DefineCmd struct {
	File    string `arg:"" help:"Fusion file containing the cursor." type:"existingfile"`
	Line    int    `help:"Cursor line, 1-based." short:"l" required:""`
	Column  int    `help:"Cursor column in characters, 1-based." short:"c" required:""`
	Root    string `help:"Project root to search." short:"r" default:"." type:"existingdir"`
	Format  string `help:"Output format." enum:"text,json,yaml" default:"text"`
	NoColor bool   `help:"Disable colored output." name:"no-color"`
}

type defineOrigin struct {
	Token string `json:"token" yaml:"token"`
	Line  int    `json:"line" yaml:"line"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

type defineTarget struct {
	Path string `json:"path" yaml:"path"`
	Line int    `json:"line" yaml:"line"`
	Text string `json:"text" yaml:"text"`
}

type defineOutput struct {
	Origin      *defineOrigin  `json:"origin,omitempty" yaml:"origin,omitempty"`
	Definitions []defineTarget `json:"definitions" yaml:"definitions"`
}

func (d *DefineCmd) Run() error {
	if d.NoColor {
		color.NoColor = true
	}
	return d.run(context.Background(), os.Stdout)
}

func (d *DefineCmd) run(ctx context.Context, w io.Writer) error {
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return err
	}
	cfg, err := frontend.LoadFusionToml(root)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(d.File)
	if err != nil {
		return err
	}
	lines := strings.Split(string(content), "\n")
	if d.Line < 1 || d.Line > len(lines) {
		return fmt.Errorf("line %d out of range (file has %d lines)", d.Line, len(lines))
	}
	text := strings.TrimSuffix(lines[d.Line-1], "\r")

	req := definition.Request{
		Path:   d.File,
		Line:   uint32(d.Line - 1),
		Text:   text,
		Column: charOffset(text, d.Column-1),
		Roots:  []string{root},
	}

	if timeout := cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	locator := definition.NewLocator(search.NewScanner(search.Config{
		Extension:        cfg.Extension,
		RespectGitignore: cfg.RespectGitignore,
	}))
	found, err := locator.Lookup(ctx, req)
	if err != nil {
		return err
	}

	out := defineOutput{Definitions: []defineTarget{}}
	if tok, ok := req.Token(); ok {
		out.Origin = &defineOrigin{
			Token: tok.Word,
			Line:  d.Line,
			Start: utf8.RuneCountInString(text[:tok.Start]) + 1,
			End:   utf8.RuneCountInString(text[:tok.End]) + 1,
		}
	}
	for _, loc := range found {
		path := loc.Path
		if rel, err := filepath.Rel(root, path); err == nil {
			path = filepath.ToSlash(rel)
		}
		out.Definitions = append(out.Definitions, defineTarget{
			Path: path,
			Line: int(loc.Target.Line) + 1,
			Text: loc.LineText,
		})
	}

	switch d.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, out)
	}
}

type styles struct {
	token *color.Color
	path  *color.Color
	line  *color.Color
	muted *color.Color
}

func newStyles() styles {
	return styles{
		token: color.New(color.Bold, color.FgHiBlue),
		path:  color.New(color.FgHiGreen),
		line:  color.New(color.FgYellow),
		muted: color.New(color.Faint),
	}
}

func writeText(w io.Writer, out defineOutput) error {
	s := newStyles()
	if out.Origin == nil {
		_, err := fmt.Fprintln(w, s.muted.Sprint("no prototype name at this position"))
		return err
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", s.token.Sprint(out.Origin.Token),
		s.muted.Sprintf("(line %d, columns %d-%d)", out.Origin.Line, out.Origin.Start, out.Origin.End)); err != nil {
		return err
	}
	if len(out.Definitions) == 0 {
		_, err := fmt.Fprintln(w, s.muted.Sprint("no declaration found"))
		return err
	}
	for _, def := range out.Definitions {
		if _, err := fmt.Fprintf(w, "%s:%s  %s\n", s.path.Sprint(def.Path), s.line.Sprint(def.Line), strings.TrimSpace(def.Text)); err != nil {
			return err
		}
	}
	return nil
}

// charOffset converts a character column to a byte offset in text.
func charOffset(text string, chars int) int {
	if chars <= 0 {
		return 0
	}
	n := 0
	for i := range text {
		if n == chars {
			return i
		}
		n++
	}
	return len(text)
}
