// Package slides rewrites the relative links exported slide decks carry so
// they resolve once the decks are served under the site's static root.
package slides

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// relative is the prefix slide exporters emit for assets two levels up.
var relative = []byte("../..")

// Section returns the site section a slide belongs to: the path segments
// between the slides root and the docs directory. rel is slash separated and
// relative to the slides root. ok is false for files outside a docs tree.
func Section(rel string) (string, bool) {
	parts := strings.Split(rel, "/")
	for i, p := range parts[:len(parts)-1] {
		if p == "docs" {
			if i == 0 {
				return "", false
			}
			return strings.Join(parts[:i], "/"), true
		}
	}
	return "", false
}

// Rewrite replaces every "../.." in content with "/<section>".
func Rewrite(content []byte, section string) []byte {
	return bytes.ReplaceAll(content, relative, []byte("/"+section))
}

// FixLinks rewrites every *.html file under root in place and returns the
// paths it changed.
func FixLinks(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.html", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob slides: %w", err)
	}
	sort.Strings(matches)

	var changed []string
	for _, rel := range matches {
		section, ok := Section(rel)
		if !ok {
			continue
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(path)
		if err != nil {
			return changed, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return changed, err
		}
		if !bytes.Contains(data, relative) {
			continue
		}
		if err := os.WriteFile(path, Rewrite(data, section), info.Mode()&fs.ModePerm); err != nil {
			return changed, fmt.Errorf("writing %s: %w", path, err)
		}
		changed = append(changed, path)
	}
	return changed, nil
}
