package memory

import (
	"bufio"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of the memory file. Timestamps are
// RFC3339 UTC strings, kept as strings so a hand-edited file never fails
// to parse as a whole.
type Frontmatter struct {
	CreatedAt string `yaml:"created_at"`
	UpdatedAt string `yaml:"updated_at"`
	Source    string `yaml:"source"`
}

// RenderFrontmatter serializes fm between "---" fences.
func RenderFrontmatter(fm Frontmatter) string {
	data, _ := yaml.Marshal(fm)
	body := strings.TrimSpace(string(data))
	if body != "" {
		body += "\n"
	}
	return "---\n" + body + "---\n"
}

// ParseFrontmatter splits contents into its frontmatter and body. ok is
// false when no well-formed header exists; the full contents are then
// returned as the body.
func ParseFrontmatter(contents string) (fm Frontmatter, body string, ok bool) {
	sc := bufio.NewScanner(strings.NewReader(contents))
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "---" {
		return Frontmatter{}, contents, false
	}

	var yamlLines, bodyLines []string
	foundEnd := false
	for sc.Scan() {
		line := sc.Text()
		if !foundEnd {
			if strings.TrimSpace(line) == "---" {
				foundEnd = true
				continue
			}
			yamlLines = append(yamlLines, line)
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	if !foundEnd {
		return Frontmatter{}, contents, false
	}

	if err := yaml.Unmarshal([]byte(strings.Join(yamlLines, "\n")), &fm); err != nil {
		return Frontmatter{}, strings.Join(bodyLines, "\n"), false
	}
	return fm, strings.Join(bodyLines, "\n"), true
}
