package parser

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterEnd returns the index of the closing "---" line, or -1 when
// the file has no complete frontmatter block.
func frontmatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return -1
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i
		}
	}
	return -1
}

// frontmatter holds the keys the index cares about.
type frontmatter struct {
	Aliases stringList `yaml:"aliases"`
	Alias   stringList `yaml:"alias"`
}

// stringList accepts either a scalar or a sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if s := strings.TrimSpace(value.Value); s != "" {
			*l = stringList{s}
		}
	case yaml.SequenceNode:
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				continue
			}
			if s := strings.TrimSpace(item.Value); s != "" {
				*l = append(*l, s)
			}
		}
	}
	return nil
}

// parseAliases decodes the aliases declared between the frontmatter fences.
// Malformed YAML declares no aliases.
func parseAliases(lines []string) []string {
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &fm); err != nil {
		return nil
	}
	aliases := append([]string{}, fm.Aliases...)
	aliases = append(aliases, fm.Alias...)
	if len(aliases) == 0 {
		return nil
	}
	return aliases
}
