// Package intake turns paths, pasted drops and watched directories into
// files the flow controller can select.
package intake

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/asciiforge/internal/flow"
)

// sniffLen is how much of a file content sniffing looks at.
const sniffLen = 512

// FromPath inspects path and describes it as a selectable file. The MIME
// type comes from the extension, falling back to content sniffing.
func FromPath(path string) (flow.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return flow.File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return flow.File{}, fmt.Errorf("%s is a directory", path)
	}

	typ, err := DetectType(path)
	if err != nil {
		return flow.File{}, err
	}
	return flow.File{
		Name: filepath.Base(path),
		Type: typ,
		Path: path,
		Size: info.Size(),
	}, nil
}

// DetectType returns the declared MIME type of path without parameters.
func DetectType(path string) (string, error) {
	if typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); typ != "" {
		if base, _, err := mime.ParseMediaType(typ); err == nil {
			return base, nil
		}
		return typ, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	typ := http.DetectContentType(head[:n])
	if base, _, err := mime.ParseMediaType(typ); err == nil {
		return base, nil
	}
	return typ, nil
}

// Read loads the whole file.
func Read(ctx context.Context, f flow.File) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

// ParsePaths splits text pasted by a terminal drag-and-drop into paths.
// It understands quoting, backslash-escaped spaces and file:// URIs.
func ParsePaths(text string) []string {
	var (
		paths []string
		cur   strings.Builder
		quote rune
		esc   bool
	)
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		paths = append(paths, normalize(cur.String()))
		cur.Reset()
	}

	for _, r := range text {
		switch {
		case esc:
			cur.WriteRune(r)
			esc = false
		case r == '\\' && quote != '\'':
			esc = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return paths
}

// First returns the first path in a pasted drop; the rest are ignored.
func First(text string) (string, bool) {
	paths := ParsePaths(text)
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

func normalize(p string) string {
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			return u.Path
		}
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
