package frontmatter

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Convert rewrites a TOML front matter block as YAML, keeping the top-level
// key order and leaving the body untouched. The bool reports whether data
// changed; anything without TOML front matter is returned as is.
func Convert(data []byte) ([]byte, bool, error) {
	format, fm, body, err := Split(data)
	if err != nil {
		return nil, false, err
	}
	if format != TOML {
		return data, false, nil
	}

	var meta map[string]any
	md, err := toml.Decode(string(fm), &meta)
	if err != nil {
		return nil, false, fmt.Errorf("toml front matter: %w", err)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		v, err := yamlNode(meta[name])
		if err != nil {
			return nil, false, fmt.Errorf("key %s: %w", name, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, v)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(doc.Content) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, false, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, false, err
		}
	}
	buf.WriteString("---\n")
	buf.Write(body)
	return buf.Bytes(), true, nil
}

// yamlNode converts a decoded TOML value. Dates are written as plain YAML
// timestamps in the precision TOML gave them.
func yamlNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case time.Time:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: formatTime(t)}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range keys {
			child, err := yamlNode(t[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, child)
		}
		return n, nil
	case []map[string]any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range t {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range t {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

func formatTime(t time.Time) string {
	switch t.Location().String() {
	case "date-local":
		return t.Format("2006-01-02")
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	case "time-local":
		return t.Format("15:04:05.999999999")
	default:
		return t.Format(time.RFC3339Nano)
	}
}

// ConvertTree converts every file under root matching pattern in place and
// returns the paths it rewrote.
func ConvertTree(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(matches)

	var changed []string
	for _, rel := range matches {
		path := filepath.Join(root, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return changed, err
		}
		out, ok, err := Convert(data)
		if err != nil {
			return changed, fmt.Errorf("%s: %w", path, err)
		}
		if !ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return changed, err
		}
		if err := os.WriteFile(path, out, info.Mode()&fs.ModePerm); err != nil {
			return changed, fmt.Errorf("writing %s: %w", path, err)
		}
		changed = append(changed, path)
	}
	return changed, nil
}
