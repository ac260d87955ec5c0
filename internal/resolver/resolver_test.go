package resolver

import (
	"testing"

	"github.com/aidanlsb/tern/internal/model"
)

const root = "/vault"

func wiki(from, text string) model.Reference {
	return model.Reference{Kind: model.WikiLink, Path: from, Text: text}
}

func mdLink(from, text string) model.Reference {
	return model.Reference{Kind: model.MarkdownLink, Path: from, Text: text}
}

func TestPredicates(t *testing.T) {
	file := model.Referenceable{Kind: model.TargetFile, Path: "/vault/notes/idea.md", Aliases: []string{"Big Idea"}}
	spaced := model.Referenceable{Kind: model.TargetFile, Path: "/vault/my idea.md"}
	heading := model.Referenceable{Kind: model.TargetHeading, Path: "/vault/notes/idea.md", Name: "Next Steps"}
	block := model.Referenceable{Kind: model.TargetBlock, Path: "/vault/notes/idea.md", Name: "abc"}
	tag := model.Referenceable{Kind: model.TargetTag, Path: "/vault/a.md", Name: "Project"}
	footnote := model.Referenceable{Kind: model.TargetFootnote, Path: "/vault/a.md", Name: "^1"}

	tests := []struct {
		name       string
		target     model.Referenceable
		ref        model.Reference
		wantStrict bool
		wantLoose  bool
	}{
		{"wiki full path", file, wiki("/vault/index.md", "notes/idea"), true, true},
		{"wiki basename", file, wiki("/vault/index.md", "idea"), true, true},
		{"wiki with extension", file, wiki("/vault/index.md", "notes/idea.md"), true, true},
		{"wiki different case", file, wiki("/vault/index.md", "Idea"), false, true},
		{"wiki anchored file link", file, wiki("/vault/index.md", "notes/idea#Heading"), false, true},
		{"wiki alias", file, wiki("/vault/index.md", "Big Idea"), true, true},
		{"wiki slugged alias", file, wiki("/vault/index.md", "big-idea"), false, true},
		{"wiki other file", file, wiki("/vault/index.md", "ideas"), false, false},
		{"markdown from root", file, mdLink("/vault/index.md", "notes/idea.md"), true, true},
		{"markdown sibling", file, mdLink("/vault/notes/other.md", "idea.md"), true, true},
		{"markdown parent", file, mdLink("/vault/sub/x.md", "../notes/idea.md"), true, true},
		{"markdown wrong dir", file, mdLink("/vault/index.md", "idea.md"), false, false},
		{"markdown vault absolute", file, mdLink("/vault/sub/x.md", "/notes/idea.md"), true, true},
		{"markdown escapes vault", file, mdLink("/vault/index.md", "../../notes/idea.md"), false, false},
		{"markdown percent encoded", spaced, mdLink("/vault/index.md", "my%20idea.md"), true, true},
		{"tag is not a file link", file, model.Reference{Kind: model.Tag, Path: "/vault/a.md", Text: "idea"}, false, false},

		{"heading exact", heading, wiki("/vault/index.md", "idea#Next Steps"), true, true},
		{"heading slugged", heading, wiki("/vault/index.md", "idea#next-steps"), false, true},
		{"heading same file", heading, wiki("/vault/notes/idea.md", "#Next Steps"), true, true},
		{"heading same-file link elsewhere", heading, wiki("/vault/index.md", "#Next Steps"), false, false},
		{"heading needs anchor", heading, wiki("/vault/index.md", "idea"), false, false},
		{"heading is not a block", heading, wiki("/vault/index.md", "idea#^abc"), false, false},
		{"heading markdown slug", heading, mdLink("/vault/index.md", "notes/idea.md#next-steps"), false, true},

		{"block exact", block, wiki("/vault/index.md", "idea#^abc"), true, true},
		{"block case", block, wiki("/vault/index.md", "idea#^ABC"), false, true},
		{"block needs caret", block, wiki("/vault/index.md", "idea#abc"), false, false},

		{"tag exact", tag, model.Reference{Kind: model.Tag, Path: "/vault/b.md", Text: "Project"}, true, true},
		{"tag case", tag, model.Reference{Kind: model.Tag, Path: "/vault/b.md", Text: "project"}, false, true},
		{"tag other", tag, model.Reference{Kind: model.Tag, Path: "/vault/b.md", Text: "projects"}, false, false},

		{"footnote same file", footnote, model.Reference{Kind: model.Footnote, Path: "/vault/a.md", Text: "^1"}, true, true},
		{"footnote other file", footnote, model.Reference{Kind: model.Footnote, Path: "/vault/b.md", Text: "^1"}, false, false},
		{"footnote other label", footnote, model.Reference{Kind: model.Footnote, Path: "/vault/a.md", Text: "^2"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesReference(root, tt.target, tt.ref); got != tt.wantStrict {
				t.Errorf("MatchesReference = %v, want %v", got, tt.wantStrict)
			}
			if got := IsReference(root, tt.target, tt.ref); got != tt.wantLoose {
				t.Errorf("IsReference = %v, want %v", got, tt.wantLoose)
			}
		})
	}
}

func TestStrictImpliesLoose(t *testing.T) {
	targets := []model.Referenceable{
		{Kind: model.TargetFile, Path: "/vault/a.md"},
		{Kind: model.TargetHeading, Path: "/vault/a.md", Name: "Top"},
		{Kind: model.TargetBlock, Path: "/vault/a.md", Name: "b1"},
		{Kind: model.TargetTag, Path: "/vault/a.md", Name: "t"},
		{Kind: model.TargetFootnote, Path: "/vault/a.md", Name: "^n"},
	}
	refs := []model.Reference{
		wiki("/vault/a.md", "a"),
		wiki("/vault/a.md", "a#Top"),
		wiki("/vault/a.md", "#^b1"),
		mdLink("/vault/a.md", "a.md#Top"),
		{Kind: model.Tag, Path: "/vault/a.md", Text: "t"},
		{Kind: model.Footnote, Path: "/vault/a.md", Text: "^n"},
	}
	for _, target := range targets {
		for _, ref := range refs {
			if MatchesReference(root, target, ref) && !IsReference(root, target, ref) {
				t.Errorf("%v %q: strict match without loose match for %q", target.Kind, target.Name, ref.Text)
			}
		}
	}
}

func TestEveryKindIsHandled(t *testing.T) {
	ref := wiki("/vault/a.md", "a")
	for _, kind := range model.AllReferenceableKinds {
		// Must not panic; only files resolve a bare link.
		got := IsReference(root, model.Referenceable{Kind: kind, Path: "/vault/a.md"}, ref)
		if got != (kind == model.TargetFile) {
			t.Errorf("%v: IsReference = %v", kind, got)
		}
	}
	if IsReference(root, model.Referenceable{Kind: model.ReferenceableKind(99), Path: "/vault/a.md"}, ref) {
		t.Error("unknown kind should never match")
	}
}

func TestMatchesType(t *testing.T) {
	a := wiki("/vault/a.md", "x")
	if !MatchesType(a, wiki("/vault/b.md", "y")) {
		t.Error("two wiki links should match type")
	}
	if MatchesType(a, mdLink("/vault/a.md", "x")) {
		t.Error("wiki and markdown links differ in type")
	}
}
