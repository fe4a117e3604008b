// Package memory seeds the agent memory markdown file. The file is
// recreated from scratch on every boot: its content is a function of the
// embedded seed document, the clock, and whatever the leads fetch returns
// — never of what the file contained before.
package memory

import (
	"fmt"
	"os"
	"time"

	launcher "github.com/nidus-labs/nanobot-launcher"
	"github.com/nidus-labs/nanobot-launcher/internal/fsutil"
)

// SeedContent returns the full seed document: frontmatter stamped with now
// plus the embedded operating instructions.
func SeedContent(now time.Time) string {
	ts := now.UTC().Format(time.RFC3339)
	fm := Frontmatter{
		CreatedAt: ts,
		UpdatedAt: ts,
		Source:    "nanobot-launcher",
	}
	return RenderFrontmatter(fm) + "\n" + launcher.SeedMemoryMD
}

// Seed overwrites the memory file at path with the seed document.
// A failure here is fatal to the boot sequence.
func Seed(path string, now time.Time) error {
	if err := fsutil.WriteFileAtomic(path, []byte(SeedContent(now)), 0o644); err != nil {
		return fmt.Errorf("seed memory file: %w", err)
	}
	return nil
}

// Append adds a rendered section (leads index, leads report) to the end of
// the memory file.
func Append(path, section string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open memory file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(section); err != nil {
		return fmt.Errorf("append to memory file: %w", err)
	}
	return nil
}
