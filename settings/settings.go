// Package settings edits editor settings files on behalf of other
// extensions.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// IncludeLanguagesKey is the Tailwind CSS option mapping a language id to
// the language Tailwind should treat it as.
const IncludeLanguagesKey = "tailwindCSS.includeLanguages"

// PatchIncludeLanguages makes sure the settings file at path maps language
// to mode under tailwindCSS.includeLanguages. It reports whether the file
// was rewritten. A missing file is left alone. Only the mapping entry is
// edited; the rest of the file keeps its bytes.
func PatchIncludeLanguages(path, language, mode string) (bool, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	out, changed, err := patchIncludeLanguages(content, language, mode)
	if err != nil {
		return false, fmt.Errorf("failed to patch %s: %w", path, err)
	}
	if !changed {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

func patchIncludeLanguages(content []byte, language, mode string) ([]byte, bool, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		content = []byte("{}\n")
	}
	doc := map[string]any{}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, false, err
	}

	mapping, found, err := includeLanguages(content)
	if err != nil {
		return nil, false, err
	}
	entry := quote(language) + ": " + quote(mode)
	if !found {
		root, _, err := valueSpan(content)
		if err != nil {
			return nil, false, err
		}
		return insertMember(content, root, quote(IncludeLanguagesKey)+": {"+entry+"}"), true, nil
	}
	if content[mapping.start] != '{' {
		return nil, false, fmt.Errorf("%s is not an object", IncludeLanguagesKey)
	}

	current, found, err := valueSpan(content, append(mapping.keys, language)...)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return insertMember(content, mapping, entry), true, nil
	}
	var value any
	if err := json.Unmarshal(content[current.start:current.end], &value); err != nil {
		return nil, false, err
	}
	if value == mode {
		return content, false, nil
	}
	return splice(content, current.start, current.end, quote(mode)), true, nil
}

// includeLanguages finds the mapping stored either under the flat
// "tailwindCSS.includeLanguages" key or nested as
// {"tailwindCSS": {"includeLanguages": ...}}.
func includeLanguages(content []byte) (span, bool, error) {
	for _, keys := range [][]string{
		{IncludeLanguagesKey},
		{"tailwindCSS", "includeLanguages"},
	} {
		s, found, err := valueSpan(content, keys...)
		if err != nil || found {
			return s, found, err
		}
	}
	return span{}, false, nil
}

// span is the byte range of a JSON value reached through keys.
type span struct {
	keys       []string
	start, end int
}

// valueSpan locates the value reached by following keys through nested
// objects. With no keys it is the root value.
func valueSpan(content []byte, keys ...string) (span, bool, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	for depth := 0; ; depth++ {
		start := skipSeparators(content, int(dec.InputOffset()))
		if depth == len(keys) {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return span{}, false, err
			}
			return span{keys: keys, start: start, end: int(dec.InputOffset())}, true, nil
		}

		tok, err := dec.Token()
		if err != nil {
			return span{}, false, err
		}
		if tok != json.Delim('{') {
			return span{}, false, nil
		}
		found := false
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return span{}, false, err
			}
			if key == keys[depth] {
				found = true
				break
			}
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return span{}, false, err
			}
		}
		if !found {
			return span{}, false, nil
		}
	}
}

func skipSeparators(content []byte, i int) int {
	for i < len(content) {
		switch content[i] {
		case ' ', '\t', '\r', '\n', ':':
			i++
		default:
			return i
		}
	}
	return i
}

// insertMember appends member as the last entry of the object at obj,
// following the object's layout: on its own line with the previous
// entry's indentation when the object spans lines, inline otherwise.
func insertMember(content []byte, obj span, member string) []byte {
	last := obj.end - 2
	for last > obj.start && isSpace(content[last]) {
		last--
	}
	var insert string
	switch {
	case last == obj.start:
		insert = member
	case bytes.IndexByte(content[obj.start:obj.end], '\n') >= 0:
		insert = ",\n" + lineIndent(content, last) + member
	default:
		insert = ", " + member
	}
	return splice(content, last+1, last+1, insert)
}

func lineIndent(content []byte, i int) string {
	lineStart := bytes.LastIndexByte(content[:i], '\n') + 1
	end := lineStart
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return string(content[lineStart:end])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func splice(content []byte, start, end int, insert string) []byte {
	out := make([]byte, 0, len(content)-(end-start)+len(insert))
	out = append(out, content[:start]...)
	out = append(out, insert...)
	return append(out, content[end:]...)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
