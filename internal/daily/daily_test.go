package daily

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aidanlsb/tern/internal/config"
	"github.com/aidanlsb/tern/internal/dates"
	"github.com/aidanlsb/tern/internal/testutil"
)

func settings(notebooks ...string) *config.Settings {
	s := &config.Settings{DailyNote: config.DefaultDailyNote}
	for i := 0; i+2 < len(notebooks); i += 3 {
		s.Notebooks.Set(notebooks[i], config.Notebook{Folder: notebooks[i+1], Format: notebooks[i+2]})
	}
	return s
}

func TestMatchNotebook(t *testing.T) {
	s := settings(
		"journal", "journal", "%Y-%m-%d",
		"log", "log", "%d.%m.%Y",
		"compact", "compact", "%Y%m%d",
	)

	tests := []struct {
		filename string
		want     string
		ok       bool
	}{
		{"2024-01-15.md", "journal", true},
		{"2024-01-15 standup", "journal", true},
		{"15.01.2024.md", "log", true},
		{"20240115.md", "compact", true},
		{"meeting notes.md", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			name, _, ok := MatchNotebook(s, tt.filename)
			if ok != tt.ok || name != tt.want {
				t.Errorf("MatchNotebook(%q) = %q, %v, want %q, %v", tt.filename, name, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMatchNotebookFirstConfiguredWins(t *testing.T) {
	const filename = "2024-01-12.md"

	s := settings("a", "a", "%Y-%m-%d", "b", "b", "%Y-%d-%m")
	if name, _, _ := MatchNotebook(s, filename); name != "a" {
		t.Errorf("got %q, want a", name)
	}

	s = settings("b", "b", "%Y-%d-%m", "a", "a", "%Y-%m-%d")
	if name, _, _ := MatchNotebook(s, filename); name != "b" {
		t.Errorf("got %q, want b", name)
	}
}

func TestMatchNotebookRoundTrip(t *testing.T) {
	s := settings(
		"journal", "journal", "%Y-%m-%d",
		"log", "log", "%d.%m.%Y",
		"compact", "compact", "%Y%m%d",
	)
	today := time.Date(2024, time.March, 9, 0, 0, 0, 0, time.Local)
	for name, nb := range s.Notebooks.All() {
		filename := dates.Format(nb.Format, today) + ".md"
		got, _, ok := MatchNotebook(s, filename)
		if !ok || got != name {
			t.Errorf("%s: MatchNotebook(%q) = %q, %v", name, filename, got, ok)
		}
	}
}

func TestMatchNotebookSkipsSyntheticDaily(t *testing.T) {
	s := settings()
	if _, _, ok := MatchNotebook(s, "2024-01-15.md"); ok {
		t.Error("the synthesised daily notebook should not take part in matching")
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.Local)
	s := settings("log", "logs/work", "%d.%m.%Y")

	str := func(s string) *string { return &s }

	tests := []struct {
		name     string
		notebook string
		date     *string
		wantPath string
	}{
		{"no date is now", "log", nil, "logs/work/15.01.2024.md"},
		{"keyword", "log", str("tomorrow"), "logs/work/16.01.2024.md"},
		{"iso", "log", str("2024-02-01"), "logs/work/01.02.2024.md"},
		{"notebook format", "log", str("03.04.2024"), "logs/work/03.04.2024.md"},
		{"natural language", "log", str("in 3 days"), "logs/work/18.01.2024.md"},
		{"synthesised daily", config.DailyNotebook, str("yesterday"), "2024-01-14.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := Resolve(root, s, tt.notebook, tt.date, now)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if want := filepath.Join(root, filepath.FromSlash(tt.wantPath)); target.Path != want {
				t.Errorf("Path = %q, want %q", target.Path, want)
			}
			if target.Notebook != tt.notebook {
				t.Errorf("Notebook = %q", target.Notebook)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	s := settings("log", "log", "%d.%m.%Y")
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.Local)

	_, err := Resolve(t.TempDir(), s, "missing", nil, now)
	if !errors.Is(err, ErrNotebookNotFound) {
		t.Errorf("missing notebook: err = %v", err)
	}

	bad := "zzz"
	_, err = Resolve(t.TempDir(), s, "log", &bad, now)
	var parseErr *DateParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("bad date: err = %v, want *DateParseError", err)
	}
	if !strings.Contains(err.Error(), bad) || !strings.Contains(err.Error(), "%d.%m.%Y") {
		t.Errorf("message should name the input and format: %q", err.Error())
	}
}

func TestNotePathKeepsDottedNames(t *testing.T) {
	nb := config.Notebook{Format: "%Y.%m.%d"}
	got := NotePath("/vault", nb, testutil.Date(2024, time.January, 15))
	if want := filepath.Join("/vault", "2024.01.15.md"); got != want {
		t.Errorf("NotePath = %q, want %q", got, want)
	}
}

func TestEnsure(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("daily/2024-01-15.md", "existing").
		Build()

	created, err := Ensure(v.Abs("daily/2024-01-15.md"))
	if err != nil || created {
		t.Fatalf("existing note: created=%v err=%v", created, err)
	}
	v.AssertFileContent("daily/2024-01-15.md", "existing")

	created, err = Ensure(v.Abs("nested/deeper/2024-01-16.md"))
	if err != nil || !created {
		t.Fatalf("new note: created=%v err=%v", created, err)
	}
	v.AssertFileContent("nested/deeper/2024-01-16.md", "")

	created, err = Ensure(v.Abs("nested/deeper/2024-01-16.md"))
	if err != nil || created {
		t.Fatalf("second call should be a no-op: created=%v err=%v", created, err)
	}
}
