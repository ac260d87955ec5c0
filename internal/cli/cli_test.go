package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/tern/internal/testutil"
	"github.com/aidanlsb/tern/internal/ui"
)

func TestMain(m *testing.M) {
	ui.Plain()
	os.Exit(m.Run())
}

type cliRun struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command in-process with the clock fixed to
// Monday 2024-01-15 and a private global config directory.
func execute(t *testing.T, args ...string) cliRun {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origNow := now
	now = testutil.FixedClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local))
	t.Cleanup(func() {
		now = origNow
		resetFlags(rootCmd)
		resolvedVaultPath = ""
		settings = nil
	})

	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return cliRun{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func decode(t *testing.T, out string) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	return resp
}

func dataMap(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %#v, want object", resp.Data)
	}
	return data
}

func TestNoteCreatesDailyNote(t *testing.T) {
	v := testutil.NewTestVault(t).Build()

	res := execute(t, "--vault-path", v.Path, "note", "daily")
	if res.err != nil {
		t.Fatalf("note: %v\n%s", res.err, res.stderr)
	}
	if want := v.Abs("2024-01-15.md") + "\n"; res.stdout != want {
		t.Errorf("stdout = %q, want %q", res.stdout, want)
	}
	if !strings.Contains(res.stderr, "Created 2024-01-15.md") {
		t.Errorf("stderr = %q, want creation message", res.stderr)
	}
	v.AssertFileContent("2024-01-15.md", "")
}

func TestNoteKeepsExistingNote(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("2024-01-15.md", "# Monday\n").
		Build()

	res := execute(t, "--vault-path", v.Path, "--json", "note", "daily")
	if res.err != nil {
		t.Fatalf("note: %v", res.err)
	}
	data := dataMap(t, decode(t, res.stdout))
	if data["created"] != false {
		t.Errorf("created = %v, want false", data["created"])
	}
	v.AssertFileContent("2024-01-15.md", "# Monday\n")
}

func TestNoteConfiguredNotebook(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithConfig("notebooks:\n  work:\n    folder: logs/work\n    note_format: \"%d.%m.%Y\"\n").
		Build()

	tests := []struct {
		name string
		args []string
		want string
		date string
	}{
		{"today", []string{"work"}, "logs/work/15.01.2024.md", "2024-01-15"},
		{"keyword", []string{"work", "yesterday"}, "logs/work/14.01.2024.md", "2024-01-14"},
		{"iso", []string{"work", "2024-02-29"}, "logs/work/29.02.2024.md", "2024-02-29"},
		{"own format", []string{"work", "01.03.2024"}, "logs/work/01.03.2024.md", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--vault-path", v.Path, "--json", "note"}, tt.args...)
			res := execute(t, args...)
			if res.err != nil {
				t.Fatalf("note: %v\n%s", res.err, res.stdout)
			}
			resp := decode(t, res.stdout)
			if !resp.OK {
				t.Fatalf("ok = false: %s", res.stdout)
			}
			data := dataMap(t, resp)
			if data["relative"] != tt.want {
				t.Errorf("relative = %v, want %s", data["relative"], tt.want)
			}
			if data["date"] != tt.date {
				t.Errorf("date = %v, want %s", data["date"], tt.date)
			}
			if data["notebook"] != "work" {
				t.Errorf("notebook = %v, want work", data["notebook"])
			}
			v.AssertFileExists(tt.want)
		})
	}
}

func TestNoteErrors(t *testing.T) {
	v := testutil.NewTestVault(t).Build()

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown notebook", []string{"note", "garden"}, ErrNotebookNotFound},
		{"bad date", []string{"note", "daily", "zzz"}, ErrDateInvalid},
		{"missing notebook", []string{"note"}, ErrInvalidInput},
		{"unknown flag", []string{"note", "--nope", "daily"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--vault-path", v.Path, "--json"}, tt.args...)
			res := execute(t, args...)
			if res.err == nil {
				t.Fatalf("expected error, got output %s", res.stdout)
			}
			resp := decode(t, res.stdout)
			if resp.OK || resp.Error == nil {
				t.Fatalf("expected error envelope, got %s", res.stdout)
			}
			if resp.Error.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", resp.Error.Code, tt.code, resp.Error.Message)
			}
		})
	}
}

func TestBadDateMessageNamesFormat(t *testing.T) {
	v := testutil.NewTestVault(t).Build()

	res := execute(t, "--vault-path", v.Path, "note", "daily", "zzz")
	if res.err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(res.stderr, `"zzz"`) || !strings.Contains(res.stderr, "%Y-%m-%d") {
		t.Errorf("stderr = %q, want input and format", res.stderr)
	}
	if res.stdout != "" {
		t.Errorf("stdout = %q, want empty", res.stdout)
	}
}

func TestVaultNotFound(t *testing.T) {
	res := execute(t, "--vault-path", "/nonexistent/vault/path", "--json", "check")
	resp := decode(t, res.stdout)
	if resp.Error == nil || resp.Error.Code != ErrVaultNotFound {
		t.Fatalf("error = %+v, want %s", resp.Error, ErrVaultNotFound)
	}
}

func TestInvalidConfig(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithConfig("notebooks:\n  work:\n    folder: ../outside\n    note_format: \"%Y\"\n").
		Build()

	res := execute(t, "--vault-path", v.Path, "--json", "note", "work")
	resp := decode(t, res.stdout)
	if resp.Error == nil || resp.Error.Code != ErrConfigInvalid {
		t.Fatalf("error = %+v, want %s", resp.Error, ErrConfigInvalid)
	}
}

func checkVault(t *testing.T) *testutil.TestVault {
	t.Helper()
	return testutil.NewTestVault(t).
		WithFile("a.md", "# A\n\nSee [[b]] and [[missing]].\nAgain [[missing]] #tag\n").
		WithFile("b.md", "# B\n\nBack to [[a#A]] and [[c]].\n").
		WithFile("notes/c.md", "Also [[missing]] here. #tag\n").
		Build()
}

func TestCheckVaultJSON(t *testing.T) {
	v := checkVault(t)

	res := execute(t, "--vault-path", v.Path, "--json", "check")
	if res.err != nil {
		t.Fatalf("check: %v", res.err)
	}
	resp := decode(t, res.stdout)
	data := dataMap(t, resp)

	issues, _ := data["issues"].([]interface{})
	if len(issues) != 3 {
		t.Fatalf("issues = %d, want 3\n%s", len(issues), res.stdout)
	}
	if resp.Meta == nil || resp.Meta.Count != 3 {
		t.Errorf("meta = %+v, want count 3", resp.Meta)
	}
	if data["files"] != float64(2) {
		t.Errorf("files = %v, want 2", data["files"])
	}

	first := issues[0].(map[string]interface{})
	want := map[string]interface{}{
		"file":      "a.md",
		"line":      float64(3),
		"column":    float64(15),
		"kind":      "wikilink",
		"reference": "missing",
		"count":     float64(3),
		"message":   "Unresolved Reference used 3 times",
	}
	for k, w := range want {
		if first[k] != w {
			t.Errorf("issue[0].%s = %v, want %v", k, first[k], w)
		}
	}
}

func TestCheckFile(t *testing.T) {
	v := checkVault(t)

	res := execute(t, "--vault-path", v.Path, "--json", "check", "notes/c.md")
	if res.err != nil {
		t.Fatalf("check: %v", res.err)
	}
	data := dataMap(t, decode(t, res.stdout))
	issues, _ := data["issues"].([]interface{})
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1\n%s", len(issues), res.stdout)
	}
	issue := issues[0].(map[string]interface{})
	if issue["file"] != "notes/c.md" || issue["count"] != float64(3) {
		t.Errorf("issue = %v", issue)
	}
}

func TestCheckText(t *testing.T) {
	v := checkVault(t)

	res := execute(t, "--vault-path", v.Path, "check")
	if res.err != nil {
		t.Fatalf("check: %v", res.err)
	}
	for _, want := range []string{
		"a.md:3:15",
		"[[missing]]",
		"(3 uses)",
		"notes/c.md:1:6",
		"3 unresolved references in 2 files",
		"Unresolved references",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestCheckClean(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("a.md", "[[b]]\n").
		WithFile("b.md", "[[a]]\n").
		Build()

	res := execute(t, "--vault-path", v.Path, "check", "--strict")
	if res.err != nil {
		t.Fatalf("check: %v", res.err)
	}
	if !strings.Contains(res.stdout, "No unresolved references") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestCheckErrors(t *testing.T) {
	v := checkVault(t)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"strict", []string{"check", "--strict"}, ErrUnresolved},
		{"outside vault", []string{"check", "../elsewhere.md"}, ErrFileOutsideVault},
		{"not indexed", []string{"check", "nope.md"}, ErrFileNotFound},
		{"too many args", []string{"check", "a.md", "b.md"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--vault-path", v.Path, "--json"}, tt.args...)
			res := execute(t, args...)
			if res.err == nil {
				t.Fatal("expected error")
			}
			// The strict failure follows the report, so the error envelope
			// is the last JSON document written.
			out := res.stdout
			if i := strings.LastIndex(out, "{\n  \"ok\": false"); i > 0 {
				out = out[i:]
			}
			resp := decode(t, out)
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want %s", resp.Error, tt.code)
			}
		})
	}
}

func TestOutline(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("doc.md", "# Title\n\n### Deep\n\n## Section\n\n# Second\n").
		Build()

	res := execute(t, "--vault-path", v.Path, "outline", "doc.md")
	if res.err != nil {
		t.Fatalf("outline: %v", res.err)
	}
	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	if len(lines) != 5 || lines[0] != "doc.md" {
		t.Fatalf("output = %q", res.stdout)
	}
	for i, want := range []string{"Title L1", "Deep L3", "Section L5", "Second L7"} {
		if !strings.HasSuffix(lines[i+1], want) {
			t.Errorf("line %d = %q, want suffix %q", i+1, lines[i+1], want)
		}
	}
	// Deep and Section both nest under Title.
	if !strings.HasPrefix(lines[2], "│") || !strings.HasPrefix(lines[3], "│") {
		t.Errorf("expected nested lines, got:\n%s", res.stdout)
	}
}

func TestOutlineJSON(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("doc.md", "# Title\n\n## Sub\n").
		WithFile("empty.md", "no headings\n").
		Build()

	res := execute(t, "--vault-path", v.Path, "--json", "outline", "doc.md")
	if res.err != nil {
		t.Fatalf("outline: %v", res.err)
	}
	data := dataMap(t, decode(t, res.stdout))
	roots, _ := data["headings"].([]interface{})
	if len(roots) != 1 {
		t.Fatalf("roots = %v", data["headings"])
	}
	root := roots[0].(map[string]interface{})
	children, _ := root["children"].([]interface{})
	if len(children) != 1 {
		t.Fatalf("children = %v", root["children"])
	}

	res = execute(t, "--vault-path", v.Path, "--json", "outline", "empty.md")
	data = dataMap(t, decode(t, res.stdout))
	if list, ok := data["headings"].([]interface{}); !ok || len(list) != 0 {
		t.Errorf("headings = %#v, want empty list", data["headings"])
	}

	res = execute(t, "--vault-path", v.Path, "--json", "outline", "absent.md")
	resp := decode(t, res.stdout)
	if resp.Error == nil || resp.Error.Code != ErrFileNotFound {
		t.Errorf("error = %+v, want %s", resp.Error, ErrFileNotFound)
	}
}

func TestVersionSkipsVault(t *testing.T) {
	res := execute(t, "--vault-path", "/nonexistent/vault/path", "version")
	if res.err != nil {
		t.Fatalf("version: %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "tern ") {
		t.Errorf("stdout = %q", res.stdout)
	}
}
