package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_DocumentShape(t *testing.T) {
	data := []byte(`{
		"name": "backend stack",
		"items": [
			{"id": "go", "name": "Go", "category": "language", "related_ids": ["postgres"]},
			{"id": "postgres", "name": "PostgreSQL", "category": "database", "url": "https://postgresql.org"}
		]
	}`)

	items, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "go" || items[0].Category != "language" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if len(items[0].RelatedIDs) != 1 || items[0].RelatedIDs[0] != "postgres" {
		t.Errorf("related = %v", items[0].RelatedIDs)
	}
	if items[1].URL != "https://postgresql.org" {
		t.Errorf("url = %q", items[1].URL)
	}
}

func TestParse_BareArray(t *testing.T) {
	data := []byte(`[{"id": "redis", "category": "cache"}]`)
	items, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "redis" {
		t.Fatalf("items = %+v", items)
	}
	// Missing name falls back to the id.
	if items[0].Name != "redis" {
		t.Errorf("name = %q, want id fallback", items[0].Name)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"malformed", `{"items": [`},
		{"missing id", `[{"category": "x"}]`},
		{"missing category", `[{"id": "a"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "stack.json")
	content := `{"items": [{"id": "nats", "name": "NATS", "category": "queue"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "nats" {
		t.Fatalf("items = %+v", items)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
