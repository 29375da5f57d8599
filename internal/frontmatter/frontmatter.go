// Package frontmatter reads the metadata block at the top of content files
// and rewrites TOML blocks as YAML.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies a front matter syntax.
type Format int

const (
	None Format = iota
	YAML        // delimited by ---
	TOML        // delimited by +++
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return "none"
	}
}

func (f Format) delimiter() string {
	switch f {
	case YAML:
		return "---"
	case TOML:
		return "+++"
	default:
		return ""
	}
}

// ErrUnterminated is returned when an opening delimiter has no closing one.
var ErrUnterminated = errors.New("unterminated front matter")

// Split separates a leading front matter block from the body. Data without
// front matter is returned whole as the body.
func Split(data []byte) (Format, []byte, []byte, error) {
	first, rest, ok := cutLine(data)
	if !ok && len(rest) == 0 && len(first) == 0 {
		return None, nil, data, nil
	}
	var format Format
	switch string(bytes.TrimRight(first, " \t\r")) {
	case "---":
		format = YAML
	case "+++":
		format = TOML
	default:
		return None, nil, data, nil
	}

	delim := format.delimiter()
	offset := 0
	for {
		line, next, more := cutLine(rest[offset:])
		if string(bytes.TrimRight(line, " \t\r")) == delim {
			return format, rest[:offset], rest[offset+len(line)+boolInt(more):], nil
		}
		if !more {
			return format, nil, data, fmt.Errorf("%w: missing closing %s", ErrUnterminated, delim)
		}
		offset = len(rest) - len(next)
	}
}

// cutLine returns the first line without its newline and what follows.
func cutLine(b []byte) (line, rest []byte, found bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Parse decodes the front matter into a map and returns the body. Data
// without front matter yields an empty map.
func Parse(data []byte) (map[string]any, []byte, error) {
	format, fm, body, err := Split(data)
	if err != nil {
		return nil, nil, err
	}
	meta := map[string]any{}
	switch format {
	case YAML:
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			return nil, nil, fmt.Errorf("yaml front matter: %w", err)
		}
		if meta == nil {
			meta = map[string]any{}
		}
	case TOML:
		if _, err := toml.Decode(string(fm), &meta); err != nil {
			return nil, nil, fmt.Errorf("toml front matter: %w", err)
		}
	}
	return meta, body, nil
}
