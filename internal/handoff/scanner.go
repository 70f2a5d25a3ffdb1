// Package handoff scans markdown handoff documents used for cross-repository
// change coordination. Each document carries YAML frontmatter identifying the
// change, its direction, and whether the receiving team has acknowledged it.
package handoff

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status is the lifecycle state of a handoff item.
type Status string

const (
	StatusProposed     Status = "proposed"
	StatusAcknowledged Status = "acknowledged"
	StatusApplied      Status = "applied"
	StatusRejected     Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusProposed, StatusAcknowledged, StatusApplied, StatusRejected:
		return true
	}
	return false
}

// Direction says which side of the repository boundary originated the change.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}

// idPattern matches handoff identifiers like HO-0042.
var idPattern = regexp.MustCompile(`^HO-\d{4}$`)

// Item is one parsed handoff document.
type Item struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Status    Status    `yaml:"status"`
	Direction Direction `yaml:"direction"`
	Path      string    `yaml:"-"`
}

// Validate checks the frontmatter schema.
func (i *Item) Validate() error {
	if !idPattern.MatchString(i.ID) {
		return fmt.Errorf("id %q does not match HO-NNNN", i.ID)
	}
	if !i.Status.Valid() {
		return fmt.Errorf("unrecognized status %q", string(i.Status))
	}
	if !i.Direction.Valid() {
		return fmt.Errorf("unrecognized direction %q", string(i.Direction))
	}
	return nil
}

// Unacknowledged reports whether this item still needs attention from this
// repository: an incoming change that nobody has acknowledged yet.
func (i *Item) Unacknowledged() bool {
	return i.Direction == DirectionIncoming && i.Status == StatusProposed
}

var frontmatterDelim = []byte("---")

// ParseFile reads one markdown file and parses its frontmatter.
func ParseFile(path string) (*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	fm, err := extractFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var item Item
	if err := yaml.Unmarshal(fm, &item); err != nil {
		return nil, fmt.Errorf("%s: parse frontmatter: %w", path, err)
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	item.Path = path
	return &item, nil
}

// extractFrontmatter returns the YAML block between the leading "---" fences.
func extractFrontmatter(data []byte) ([]byte, error) {
	trimmed := bytes.TrimLeft(data, "\ufeff\r\n")
	if !bytes.HasPrefix(trimmed, frontmatterDelim) {
		return nil, fmt.Errorf("no frontmatter block")
	}
	rest := trimmed[len(frontmatterDelim):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if !bytes.HasPrefix(rest, []byte("\n")) {
		return nil, fmt.Errorf("no frontmatter block")
	}
	rest = rest[1:]

	end := bytes.Index(rest, append([]byte("\n"), frontmatterDelim...))
	if end < 0 {
		return nil, fmt.Errorf("unterminated frontmatter block")
	}
	return rest[:end], nil
}

// Scan parses every markdown file matching the globs. Files that fail to
// parse are returned as errors alongside the successfully parsed items;
// callers decide whether a malformed document is fatal.
func Scan(globs ...string) ([]Item, []error) {
	var items []Item
	var errs []error
	seen := map[string]bool{}

	for _, g := range globs {
		matches, err := filepath.Glob(g)
		if err != nil {
			errs = append(errs, fmt.Errorf("glob %q: %w", g, err))
			continue
		}
		for _, path := range matches {
			if seen[path] || !strings.HasSuffix(path, ".md") {
				continue
			}
			seen[path] = true

			item, err := ParseFile(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			items = append(items, *item)
		}
	}

	sort.Slice(items, func(a, b int) bool { return items[a].ID < items[b].ID })
	return items, errs
}

// Unacknowledged filters the scan result down to items blocking CI.
func Unacknowledged(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.Unacknowledged() {
			out = append(out, it)
		}
	}
	return out
}
