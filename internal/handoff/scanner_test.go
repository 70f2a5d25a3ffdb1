package handoff

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validDoc = `---
id: HO-0001
title: Rename evidence status field
status: proposed
direction: incoming
---

# Details

Backend renames capture_state to status in the next release.
`

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "ho-0001.md", validDoc)

	item, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if item.ID != "HO-0001" || item.Status != StatusProposed || item.Direction != DirectionIncoming {
		t.Errorf("unexpected item: %+v", item)
	}
	if !item.Unacknowledged() {
		t.Error("proposed incoming item should be unacknowledged")
	}
}

func TestParseFileRejectsBadFrontmatter(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
	}{
		{"no frontmatter", "# Just a heading\n"},
		{"unterminated", "---\nid: HO-0001\n"},
		{"bad id", "---\nid: HANDOFF-1\nstatus: proposed\ndirection: incoming\n---\n"},
		{"bad status", "---\nid: HO-0001\nstatus: pondering\ndirection: incoming\n---\n"},
		{"bad direction", "---\nid: HO-0001\nstatus: proposed\ndirection: sideways\n---\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDoc(t, dir, tc.name+".md", tc.content)
			if _, err := ParseFile(path); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", validDoc)
	writeDoc(t, dir, "b.md", `---
id: HO-0002
title: Applied change
status: applied
direction: incoming
---
`)
	writeDoc(t, dir, "c.md", `---
id: HO-0003
title: Our proposal to the backend
status: proposed
direction: outgoing
---
`)
	writeDoc(t, dir, "broken.md", "---\nid: nope\n---\n")
	writeDoc(t, dir, "notes.txt", "not markdown")

	items, errs := Scan(filepath.Join(dir, "*.md"))
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly the broken doc", errs)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	// Sorted by id.
	if items[0].ID != "HO-0001" || items[2].ID != "HO-0003" {
		t.Errorf("unexpected order: %+v", items)
	}

	blocking := Unacknowledged(items)
	if len(blocking) != 1 || blocking[0].ID != "HO-0001" {
		t.Errorf("unacknowledged = %+v, want only HO-0001", blocking)
	}
}

func TestScanOverlappingGlobsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.md", validDoc)

	items, errs := Scan(filepath.Join(dir, "*.md"), filepath.Join(dir, "a.md"))
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	if len(items) != 1 {
		t.Errorf("items = %d, want 1 after dedup", len(items))
	}
}
