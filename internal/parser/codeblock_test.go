package parser

import "testing"

func TestFenceStep(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		wantCode []bool
	}{
		{
			name:     "simple fenced block",
			lines:    []string{"before", "```python", "[[inside]]", "```", "after"},
			wantCode: []bool{false, true, true, true, false},
		},
		{
			name:     "tilde fence",
			lines:    []string{"~~~", "#tag", "~~~", "after"},
			wantCode: []bool{true, true, true, false},
		},
		{
			name:     "longer fence needs longer close",
			lines:    []string{"````", "```", "still inside", "````", "after"},
			wantCode: []bool{true, true, true, true, false},
		},
		{
			name:     "mismatched character does not close",
			lines:    []string{"```", "~~~", "```", "after"},
			wantCode: []bool{true, true, true, false},
		},
		{
			name:     "blockquote fence",
			lines:    []string{"> ```", "> code", "> ```", "outside"},
			wantCode: []bool{true, true, true, false},
		},
		{
			name:     "two backticks are not a fence",
			lines:    []string{"``", "text"},
			wantCode: []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f fence
			for i, line := range tt.lines {
				if got := f.step(line); got != tt.wantCode[i] {
					t.Errorf("line %d (%q): code = %v, want %v", i, line, got, tt.wantCode[i])
				}
			}
		})
	}
}

func TestMaskInlineCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no code here", "no code here"},
		{"see `[[x]]` now", "see         now"},
		{"``a ` b`` c", "          c"},
		{"unclosed `tick", "unclosed `tick"},
		{"`a` and `b`", "    and    "},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := maskInlineCode(tt.in)
			if got != tt.want {
				t.Errorf("maskInlineCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(got) != len(tt.in) {
				t.Errorf("length changed: %d -> %d", len(tt.in), len(got))
			}
		})
	}
}
