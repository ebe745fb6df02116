// Package frontmatter splits YAML front matter from Markdown pages and gives
// typed access to its fields.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Meta is the decoded front matter of a page.
type Meta map[string]any

// Document is a page split into its metadata and Markdown body.
type Document struct {
	Meta Meta
	Body []byte
	// Had reports whether the source carried a front matter block.
	Had bool
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML front matter (`---` delimited) from the Markdown body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. Both LF and CRLF line endings are recognised.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the last line without a trailing newline.
		closeEOF := []byte(nl + "---")
		if bytes.HasSuffix(content, closeEOF) && len(content)-len(closeEOF) >= start {
			return content[start : len(content)-len(closeEOF)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// ParseYAML parses raw YAML front matter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (Meta, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return Meta{}, nil
	}

	var fields Meta
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = Meta{}
	}
	return fields, nil
}

// Parse splits and decodes a page.
func Parse(content []byte) (Document, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return Document{}, err
	}
	meta, err := ParseYAML(fm)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}
	return Document{Meta: meta, Body: body, Had: had}, nil
}

// TypeError reports a front matter field that is present but not of the expected type.
type TypeError struct {
	Key  string
	Want string
	Got  any
}

func (e *TypeError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("front matter field %q must be a %s, got null", e.Key, e.Want)
	}
	return fmt.Sprintf("front matter field %q must be a %s, got %T", e.Key, e.Want, e.Got)
}

// String returns the string value of key. present is false only when the key
// is absent; a present non-string value, null included, yields a *TypeError.
func (m Meta) String(key string) (value string, present bool, err error) {
	raw, ok := m[key]
	if !ok {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", true, &TypeError{Key: key, Want: "string", Got: raw}
	}
	return s, true, nil
}

// Entries returns the list of mappings stored under key, skipping entries that
// are not mappings.
func (m Meta) Entries(key string) []map[string]string {
	raw, ok := m[key].([]any)
	if !ok {
		if typed, ok := m[key].([]map[string]string); ok {
			return typed
		}
		return nil
	}
	out := make([]map[string]string, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case map[string]string:
			out = append(out, v)
		case map[string]any:
			entry := make(map[string]string, len(v))
			for k, val := range v {
				entry[k] = fmt.Sprint(val)
			}
			out = append(out, entry)
		}
	}
	return out
}

// AppendEntry appends a mapping to the list stored under key, keeping
// existing entries.
func (m Meta) AppendEntry(key string, entry map[string]string) {
	switch existing := m[key].(type) {
	case []any:
		m[key] = append(existing, entry)
	case []map[string]string:
		m[key] = append(existing, entry)
	case nil:
		m[key] = []any{entry}
	default:
		m[key] = []any{existing, entry}
	}
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
