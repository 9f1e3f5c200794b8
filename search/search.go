// Package search finds lines containing literal patterns in a source tree.
package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/neosfusion/fusionls/common"
)

// Match is one line of one file containing a searched pattern.
type Match struct {
	Path string // file path, rooted like the scanned directory
	Line int    // 0-based
	Text string // full line without the trailing '\n'
	// Patterns holds the indices (into the searched patterns) found on the line.
	Patterns []int
}

// Config controls which files a Scanner visits.
type Config struct {
	// Extension of the files to search, including the leading dot.
	Extension string
	// RespectGitignore skips paths matched by the root .gitignore.
	RespectGitignore bool
}

// Scanner walks a directory tree on every call; nothing is kept between calls.
type Scanner struct {
	config Config
}

func NewScanner(config Config) *Scanner {
	return &Scanner{config: config}
}

// FindPattern returns every line under root containing pattern.
func (s *Scanner) FindPattern(ctx context.Context, root, pattern string) ([]Match, error) {
	return s.FindPatterns(ctx, root, []string{pattern})
}

// FindPatterns returns every line under root containing at least one of
// patterns. Results are in pre-order: a directory's matches appear at the
// position of the directory among its siblings.
func (s *Scanner) FindPatterns(ctx context.Context, root string, patterns []string) ([]Match, error) {
	m := newLineMatcher(patterns)

	var ignore *gitignore.GitIgnore
	if s.config.RespectGitignore {
		gitignorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitignorePath); err == nil {
			ignore, err = gitignore.CompileIgnoreFile(gitignorePath)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", gitignorePath, err)
			}
		}
	}

	rootInfo, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	visited := make(map[string]bool)
	var results []Match
	pending := common.NewStack[string]()
	pending.Push(root)

	for !pending.Empty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, _ := pending.Pop()

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if info.IsDir() {
			if ignore != nil && path != root && ignore.MatchesPath(relSlash(root, path)+"/") {
				continue
			}
			// symlinked directories are followed, but each real directory
			// is listed once so a link cycle terminates
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
			}
			if visited[resolved] {
				continue
			}
			visited[resolved] = true

			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", path, err)
			}
			children := make([]string, len(entries))
			for i, entry := range entries {
				children[i] = filepath.Join(path, entry.Name())
			}
			pending.PushReversed(children)
			continue
		}

		if !hasExtension(info.Name(), s.config.Extension) {
			continue
		}
		if ignore != nil && ignore.MatchesPath(relSlash(root, path)) {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		results = append(results, m.matchLines(path, content)...)
	}

	return results, nil
}

// hasExtension mirrors path.extname: a name that is only the extension
// (".fusion") is a dotfile without one.
func hasExtension(name, ext string) bool {
	return name != ext && filepath.Ext(name) == ext
}

func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// lineMatcher finds literal patterns in lines. Patterns should be
// distinct; of two equal patterns only one index is reported.
type lineMatcher struct {
	matcher *ahocorasick.Matcher
	// index maps a dictionary position to the caller's pattern index.
	index []int
	// always holds the indices of empty patterns, contained in every line.
	always []int
}

func newLineMatcher(patterns []string) *lineMatcher {
	m := &lineMatcher{}
	var dict []string
	for i, p := range patterns {
		if p == "" {
			m.always = append(m.always, i)
			continue
		}
		dict = append(dict, p)
		m.index = append(m.index, i)
	}
	if len(dict) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(dict)
	}
	return m
}

func (m *lineMatcher) matchLines(path string, content []byte) []Match {
	var out []Match
	for i, line := range strings.Split(string(content), "\n") {
		hits := m.match(line)
		if len(hits) == 0 {
			continue
		}
		out = append(out, Match{Path: path, Line: i, Text: line, Patterns: hits})
	}
	return out
}

func (m *lineMatcher) match(line string) []int {
	hits := append([]int(nil), m.always...)
	if m.matcher == nil {
		return hits
	}
	for _, d := range m.matcher.Match([]byte(line)) {
		hits = append(hits, m.index[d])
	}
	sort.Ints(hits)
	return hits
}
