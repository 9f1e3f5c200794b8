package file_path

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// Clean is a combination of filepath.Clean and filepath.ToSlash
//
// Example:
//   C:\H\ -> C:/H
func Clean(p string) string {
	// First do the normal OS-based cleanup
	cleaned := filepath.Clean(p)
	// Then normalize all separators to forward slash
	return filepath.ToSlash(cleaned)
}

// ToURI turns an absolute filesystem path into a file:// URI.
func ToURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if runtime.GOOS == "windows" && !strings.HasPrefix(u.Path, "/") {
		// Windows file URIs need three slashes: file:///C:/path
		u.Path = "/" + u.Path
	}
	return u.String()
}

// FromURI converts a file:// URI into an **absolute** filesystem path.
func FromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported scheme %q (must be file)", u.Scheme)
	}

	// url.Parse already unescaped the path (e.g. %20 -> space)
	p := u.Path

	// On Windows, strip the leading slash before the drive letter
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(p, "/") && len(p) >= 3 && p[2] == ':' {
			p = p[1:]
		}
	}

	// Convert slashes to OS‐specific separators
	return filepath.FromSlash(p), nil
}
