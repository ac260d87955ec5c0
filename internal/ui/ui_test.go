package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	Plain()
	os.Exit(m.Run())
}

func TestCount(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{0, "reference", "0 references"},
		{1, "reference", "1 reference"},
		{3, "use", "3 uses"},
	}
	for _, tt := range tests {
		if got := Count(tt.n, tt.noun); got != tt.want {
			t.Errorf("Count(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
	if got := Badge(2, "use"); got != "(2 uses)" {
		t.Errorf("Badge = %q", got)
	}
}

func TestLocation(t *testing.T) {
	if got := Location("notes/a.md", 0, 4); got != "notes/a.md:1:5" {
		t.Errorf("Location = %q", got)
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable(3)
	tbl.AddRow("a.md:1:1", "[[x]]", "first")
	tbl.AddRow("longer.md:10:2", "#tag")
	tbl.AddRow("b.md:2:3", "[[y]]", "third", "dropped")

	want := strings.Join([]string{
		"a.md:1:1        [[x]]  first",
		"longer.md:10:2  #tag   ",
		"b.md:2:3        [[y]]  third",
	}, "\n") + "\n"
	if got := tbl.String(); got != want {
		t.Errorf("table =\n%q\nwant\n%q", got, want)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len = %d", tbl.Len())
	}
	if NewTable(2).String() != "" {
		t.Error("empty table should render nothing")
	}
}

func TestSpinnerNotTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s := NewSpinner(f, "Indexing")
	s.Start()
	s.Stop()

	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("spinner wrote %d bytes to a regular file", info.Size())
	}
}
