package model

import (
	"fmt"

	"github.com/aidanlsb/tern/internal/paths"
)

// ReferenceableKind enumerates the things a reference can point at.
// The set is closed: code that switches on it handles every kind.
type ReferenceableKind int

const (
	TargetFile ReferenceableKind = iota + 1
	TargetHeading
	TargetBlock
	TargetTag
	TargetFootnote
)

// AllReferenceableKinds lists every kind in declaration order.
var AllReferenceableKinds = []ReferenceableKind{
	TargetFile, TargetHeading, TargetBlock, TargetTag, TargetFootnote,
}

func (k ReferenceableKind) String() string {
	switch k {
	case TargetFile:
		return "file"
	case TargetHeading:
		return "heading"
	case TargetBlock:
		return "block"
	case TargetTag:
		return "tag"
	case TargetFootnote:
		return "footnote"
	default:
		return fmt.Sprintf("ReferenceableKind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON output.
func (k ReferenceableKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Referenceable is something in the vault a reference can resolve to.
type Referenceable struct {
	Kind ReferenceableKind `json:"kind"`

	// Path is the absolute path of the file that defines the target.
	Path string `json:"path"`

	// Name is the kind-specific key: heading text, block id without "^",
	// tag without "#", or footnote label including "^". Empty for files.
	Name string `json:"name,omitempty"`

	// Range is where the target is defined. Files have none.
	Range *Range `json:"range,omitempty"`

	// Aliases are alternative names declared in a file's frontmatter.
	Aliases []string `json:"aliases,omitempty"`
}

// RefName is the vault-relative name users write to reach the target,
// for example "notes/idea", "notes/idea#Heading" or "#tag".
func (r Referenceable) RefName(root string) (string, error) {
	if r.Kind == TargetTag {
		return "#" + r.Name, nil
	}
	file, err := paths.RefName(root, r.Path)
	if err != nil {
		return "", err
	}
	switch r.Kind {
	case TargetFile:
		return file, nil
	case TargetHeading:
		return file + "#" + r.Name, nil
	case TargetBlock:
		return file + "#^" + r.Name, nil
	case TargetFootnote:
		return file + "#[" + r.Name + "]", nil
	default:
		return "", fmt.Errorf("unknown referenceable kind %v", r.Kind)
	}
}
