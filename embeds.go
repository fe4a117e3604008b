// Package launcher exposes embedded assets to internal packages. The embed
// directives must live here because go:embed paths cannot traverse upward
// with "..".
package launcher

import _ "embed"

// Seed document written to the agent memory file on every boot.

//go:embed templates/MEMORY.md
var SeedMemoryMD string
