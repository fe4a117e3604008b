package memory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var bootTime = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestSeedWritesExactSeedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MEMORY.md")

	if err := Seed(path, bootTime); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	// Without Supabase credentials nothing is ever appended, so the file
	// must equal the seed document byte for byte.
	if string(got) != SeedContent(bootTime) {
		t.Errorf("memory file differs from seed content:\n%s", got)
	}
}

func TestSeedOverwritesPriorContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MEMORY.md")
	if err := os.WriteFile(path, []byte("stale notes from last boot"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Seed(path, bootTime); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if strings.Contains(string(got), "stale notes") {
		t.Error("seed must fully replace prior content")
	}
}

func TestSeedContentHasFrontmatterAndInstructions(t *testing.T) {
	content := SeedContent(bootTime)

	fm, body, ok := ParseFrontmatter(content)
	if !ok {
		t.Fatal("seed content should carry parseable frontmatter")
	}
	if fm.CreatedAt != "2026-08-30T12:00:00Z" || fm.UpdatedAt != fm.CreatedAt {
		t.Errorf("frontmatter timestamps = %q/%q", fm.CreatedAt, fm.UpdatedAt)
	}
	if fm.Source != "nanobot-launcher" {
		t.Errorf("Source = %q", fm.Source)
	}
	if !strings.Contains(body, "# Operating Instructions") {
		t.Error("seed body missing operating instructions heading")
	}
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MEMORY.md")
	if err := Seed(path, bootTime); err != nil {
		t.Fatal(err)
	}

	if err := Append(path, "\n## Leads Index\n\n| a |\n"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(got), "---\n") {
		t.Error("append must not disturb the seed header")
	}
	if !strings.HasSuffix(string(got), "| a |\n") {
		t.Errorf("appended section missing:\n%s", got)
	}
}

func TestAppendMissingFileFails(t *testing.T) {
	err := Append(filepath.Join(t.TempDir(), "missing.md"), "x")
	if err == nil {
		t.Fatal("Append() should fail when the memory file does not exist")
	}
}

func TestFrontmatterRoundTrip(t *testing.T) {
	fm := Frontmatter{CreatedAt: "2026-08-30T12:00:00Z", UpdatedAt: "2026-08-30T12:00:00Z", Source: "nanobot-launcher"}
	parsed, body, ok := ParseFrontmatter(RenderFrontmatter(fm) + "body text")
	if !ok {
		t.Fatal("rendered frontmatter should parse")
	}
	if parsed != fm {
		t.Errorf("round trip = %+v, want %+v", parsed, fm)
	}
	if body != "body text" {
		t.Errorf("body = %q", body)
	}
}
