package wikilink

import "testing"

func TestFindAll(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Match
	}{
		{
			name: "plain and aliased",
			line: "See [[a]] and [[b|B]]",
			want: []Match{
				{Target: "a", Start: 4, End: 9},
				{Target: "b", Display: "B", Start: 14, End: 21},
			},
		},
		{
			name: "anchors are kept in the target",
			line: "[[notes/idea#Next Steps]] [[#^quote]]",
			want: []Match{
				{Target: "notes/idea#Next Steps", Start: 0, End: 25},
				{Target: "#^quote", Start: 26, End: 37},
			},
		},
		{
			name: "embed",
			line: "![[diagram.png]]",
			want: []Match{{Target: "diagram.png", Embed: true, Start: 0, End: 16}},
		},
		{
			name: "triple brackets are skipped",
			line: "[[[c]]]",
		},
		{
			name: "empty target",
			line: "[[ ]] and [[|x]]",
		},
		{
			name: "whitespace trimmed",
			line: "[[  spaced  |  shown  ]]",
			want: []Match{{Target: "spaced", Display: "shown", Start: 0, End: 24}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindAll(tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("FindAll(%q) returned %d matches, want %d: %#v", tt.line, len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("match %d = %#v, want %#v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in, file, anchor string
	}{
		{"note", "note", ""},
		{"note#Heading", "note", "Heading"},
		{"#^block", "", "^block"},
		{"dir/note # spaced ", "dir/note", "spaced"},
	}
	for _, tt := range tests {
		file, anchor := Split(tt.in)
		if file != tt.file || anchor != tt.anchor {
			t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", tt.in, file, anchor, tt.file, tt.anchor)
		}
	}
}
