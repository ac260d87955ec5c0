package slugs

import "testing"

func TestHeading(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Heading", "my-heading"},
		{"my-heading", "my-heading"},
		{"Weekly Review: Q1", "weekly-review-q1"},
		{"  spaced  out  ", "spaced-out"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Heading(tt.in); got != tt.want {
				t.Errorf("Heading(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"people/Freya Odin", "people/freya-odin"},
		{"Daily Notes/2024-01-15.md", "daily-notes/2024-01-15"},
		{"index", "index"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Path(tt.in); got != tt.want {
				t.Errorf("Path(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEqualPath(t *testing.T) {
	if !EqualPath("Project Ideas", "project-ideas") {
		t.Error("expected slug-equal names to match")
	}
	if EqualPath("project/ideas", "project-ideas") {
		t.Error("separator should be significant")
	}
}
