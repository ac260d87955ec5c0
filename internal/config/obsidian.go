package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// momentTokens maps moment.js date tokens to strftime, longest first within
// each family.
var momentTokens = []struct{ moment, strftime string }{
	{"YYYY", "%Y"},
	{"YY", "%y"},
	{"MMMM", "%B"},
	{"MMM", "%b"},
	{"MM", "%m"},
	{"M", "%-m"},
	{"DD", "%d"},
	{"D", "%-d"},
	{"dddd", "%A"},
	{"ddd", "%a"},
}

// MomentToStrftime converts a moment.js format such as "YYYY-MM-DD" to a
// strftime pattern. Text in [brackets] is copied literally.
func MomentToStrftime(format string) string {
	var sb strings.Builder
	for i := 0; i < len(format); {
		switch format[i] {
		case '[':
			end := strings.IndexByte(format[i:], ']')
			if end < 0 {
				sb.WriteString(escapePercent(format[i:]))
				return sb.String()
			}
			sb.WriteString(escapePercent(format[i+1 : i+end]))
			i += end + 1
			continue
		case '%':
			sb.WriteString("%%")
			i++
			continue
		}

		matched := false
		for _, tok := range momentTokens {
			if strings.HasPrefix(format[i:], tok.moment) {
				sb.WriteString(tok.strftime)
				i += len(tok.moment)
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(format[i])
			i++
		}
	}
	return sb.String()
}

func escapePercent(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// ObsidianDailyNoteFormat reads the daily-notes plugin format from
// <vault>/.obsidian/daily-notes.json, converted to strftime.
func ObsidianDailyNoteFormat(vaultPath string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(vaultPath, ".obsidian", "daily-notes.json"))
	if err != nil {
		return "", false
	}
	var plugin struct {
		Format string `json:"format"`
	}
	if err := json.Unmarshal(data, &plugin); err != nil || strings.TrimSpace(plugin.Format) == "" {
		return "", false
	}
	return MomentToStrftime(plugin.Format), true
}
