package testutil

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	// binaryPath caches the built tern binary across tests.
	binaryPath string
	buildMu    sync.Mutex
	buildErr   error
)

// CLIResult is the parsed JSON envelope of one CLI invocation.
type CLIResult struct {
	OK       bool
	Data     map[string]interface{}
	Error    *CLIError
	RawJSON  string
	ExitCode int
}

// CLIError is the structured error of a failed command.
type CLIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// BuildCLI builds the tern binary once per test process and returns its path.
func BuildCLI(t *testing.T) string {
	t.Helper()

	buildMu.Lock()
	defer buildMu.Unlock()

	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err == nil {
			return binaryPath
		}
		binaryPath = ""
		buildErr = nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		buildErr = err
	} else {
		tmpDir, err := os.MkdirTemp("", "tern-cli-bin-*")
		if err != nil {
			buildErr = err
		} else {
			binName := "tern"
			if runtime.GOOS == "windows" {
				binName = "tern.exe"
			}
			binaryPath = filepath.Join(tmpDir, binName)
			cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tern")
			cmd.Dir = projectRoot
			if output, err := cmd.CombinedOutput(); err != nil {
				buildErr = &BuildError{Output: string(output), Err: err}
				binaryPath = ""
			}
		}
	}

	if buildErr != nil {
		t.Fatalf("failed to build CLI: %v", buildErr)
	}
	return binaryPath
}

// BuildError reports a failed build of the CLI binary.
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return e.Err.Error() + "\n" + e.Output
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// RunCLI runs tern against the vault with --json and parses the envelope.
func (v *TestVault) RunCLI(args ...string) *CLIResult {
	v.t.Helper()

	binary := BuildCLI(v.t)
	cmdArgs := append([]string{"--vault-path", v.Path, "--json"}, args...)
	cmd := exec.Command(binary, cmdArgs...)
	// Keep the developer's global config out of the run.
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+v.t.TempDir())
	output, err := cmd.Output()

	result := &CLIResult{RawJSON: string(output)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	var resp struct {
		OK    bool                   `json:"ok"`
		Data  map[string]interface{} `json:"data,omitempty"`
		Error *CLIError              `json:"error,omitempty"`
	}
	if err := json.Unmarshal(output, &resp); err != nil {
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: "failed to parse JSON output: " + err.Error(),
		}
		return result
	}

	result.OK = resp.OK
	result.Data = resp.Data
	result.Error = resp.Error
	return result
}

// MustSucceed fails the test if the command did not succeed.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		msg := "unknown error"
		if r.Error != nil {
			msg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got error: %s\nRaw output: %s", msg, r.RawJSON)
	}
	return r
}

// MustFail fails the test unless the command failed with expectedCode.
func (r *CLIResult) MustFail(t *testing.T, expectedCode string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail with code %s, but it succeeded\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error == nil {
		t.Fatalf("expected error with code %s, but error is nil\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error.Code != expectedCode {
		t.Fatalf("expected error code %s, got %s: %s", expectedCode, r.Error.Code, r.Error.Message)
	}
	return r
}

// MustFailWithMessage fails the test unless the command failed with an
// error message containing substr.
func (r *CLIResult) MustFailWithMessage(t *testing.T, substr string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail, but it succeeded\nRaw output: %s", r.RawJSON)
	}
	if r.Error != nil && !strings.Contains(r.Error.Message, substr) {
		t.Errorf("expected error to contain %q, got: %s", substr, r.Error.Message)
	}
	return r
}

// DataList extracts a list from Data.
func (r *CLIResult) DataList(key string) []interface{} {
	if list, ok := r.Data[key].([]interface{}); ok {
		return list
	}
	return nil
}

// DataString extracts a string from Data.
func (r *CLIResult) DataString(key string) string {
	if s, ok := r.Data[key].(string); ok {
		return s
	}
	return ""
}
