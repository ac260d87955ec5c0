// Package resolver decides whether a reference points at a referenceable.
//
// Two predicates are provided. MatchesReference is strict: the reference
// names exactly this target and would take a reader straight to it.
// IsReference is loose: the reference is plausibly meant for the target
// even if written with different case, slugged, or with an anchor the
// target does not carry.
package resolver

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/tern/internal/model"
	"github.com/aidanlsb/tern/internal/paths"
	"github.com/aidanlsb/tern/internal/slugs"
)

// Mode selects between the strict and loose predicates.
type Mode int

const (
	Strict Mode = iota
	Loose
)

// MatchesReference reports whether ref names target exactly.
func MatchesReference(root string, target model.Referenceable, ref model.Reference) bool {
	return Matches(root, target, ref, Strict)
}

// IsReference reports whether ref is plausibly meant for target.
func IsReference(root string, target model.Referenceable, ref model.Reference) bool {
	return Matches(root, target, ref, Loose)
}

// MatchesType reports whether two references are the same kind of syntax.
func MatchesType(a, b model.Reference) bool {
	return a.Kind == b.Kind
}

// Matches applies the predicate selected by mode.
func Matches(root string, target model.Referenceable, ref model.Reference, mode Mode) bool {
	switch target.Kind {
	case model.TargetFile:
		return matchesFile(root, target, ref, mode)
	case model.TargetHeading:
		return matchesHeading(root, target, ref, mode)
	case model.TargetBlock:
		return matchesBlock(root, target, ref, mode)
	case model.TargetTag:
		return matchesTag(target, ref, mode)
	case model.TargetFootnote:
		return ref.Kind == model.Footnote && ref.Path == target.Path && ref.Text == target.Name
	default:
		return false
	}
}

func matchesFile(root string, target model.Referenceable, ref model.Reference, mode Mode) bool {
	name, anchor, ok := linkTarget(root, ref)
	if !ok || (mode == Strict && anchor != "") {
		return false
	}
	return fileMatches(root, target.Path, target.Aliases, name, ref.Kind, mode)
}

func matchesHeading(root string, target model.Referenceable, ref model.Reference, mode Mode) bool {
	name, anchor, ok := linkTarget(root, ref)
	if !ok || anchor == "" || strings.HasPrefix(anchor, "^") {
		return false
	}
	if !fileMatches(root, target.Path, nil, name, ref.Kind, mode) {
		return false
	}
	if mode == Strict {
		return anchor == target.Name
	}
	return slugs.Heading(anchor) == slugs.Heading(target.Name)
}

func matchesBlock(root string, target model.Referenceable, ref model.Reference, mode Mode) bool {
	name, anchor, ok := linkTarget(root, ref)
	if !ok || !strings.HasPrefix(anchor, "^") {
		return false
	}
	if !fileMatches(root, target.Path, nil, name, ref.Kind, mode) {
		return false
	}
	id := anchor[1:]
	if mode == Strict {
		return id == target.Name
	}
	return strings.EqualFold(id, target.Name)
}

func matchesTag(target model.Referenceable, ref model.Reference, mode Mode) bool {
	if ref.Kind != model.Tag {
		return false
	}
	if mode == Strict {
		return ref.Text == target.Name
	}
	return strings.EqualFold(ref.Text, target.Name)
}

// linkTarget returns the vault-relative name a link points at, plus its
// anchor. Wiki links are vault-absolute; markdown links are relative to the
// file that contains them. An empty file part refers to the containing file.
func linkTarget(root string, ref model.Reference) (name, anchor string, ok bool) {
	file, anchor, _ := ref.Target()
	file = strings.TrimSpace(file)
	anchor = strings.TrimSpace(anchor)

	switch ref.Kind {
	case model.WikiLink:
		if file == "" {
			return sameFile(root, ref, anchor)
		}
		return strings.TrimSuffix(filepath.ToSlash(file), paths.MarkdownExt), anchor, true

	case model.MarkdownLink:
		if decoded, err := url.PathUnescape(file); err == nil {
			file = decoded
		}
		if decoded, err := url.PathUnescape(anchor); err == nil {
			anchor = decoded
		}
		if file == "" {
			return sameFile(root, ref, anchor)
		}
		var abs string
		if strings.HasPrefix(file, "/") {
			abs = filepath.Join(root, filepath.FromSlash(file))
		} else {
			abs = filepath.Join(filepath.Dir(ref.Path), filepath.FromSlash(file))
		}
		name, err := paths.RefName(root, abs)
		if err != nil {
			return "", "", false
		}
		return name, anchor, true

	default:
		return "", "", false
	}
}

func sameFile(root string, ref model.Reference, anchor string) (string, string, bool) {
	name, err := paths.RefName(root, ref.Path)
	if err != nil {
		return "", "", false
	}
	return name, anchor, true
}

// fileMatches compares a link's name with the file at targetPath. Wiki
// links may name a file by any trailing portion of its path, or by alias.
func fileMatches(root, targetPath string, aliases []string, name string, kind model.ReferenceKind, mode Mode) bool {
	fileName, err := paths.RefName(root, targetPath)
	if err != nil {
		return false
	}

	eq := func(a, b string) bool {
		if mode == Strict {
			return a == b
		}
		return strings.EqualFold(a, b) || slugs.EqualPath(a, b)
	}

	if eq(name, fileName) {
		return true
	}
	if kind != model.WikiLink {
		return false
	}
	if eq(name, path.Base(fileName)) {
		return true
	}
	if strings.Contains(name, "/") {
		parts := strings.Split(fileName, "/")
		for i := 1; i < len(parts); i++ {
			if eq(name, strings.Join(parts[i:], "/")) {
				return true
			}
		}
	}
	for _, alias := range aliases {
		if eq(name, alias) {
			return true
		}
	}
	return false
}
