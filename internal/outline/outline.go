// Package outline arranges a file's flat heading list into a tree.
package outline

import "github.com/aidanlsb/tern/internal/model"

// Node is a heading with the headings nested beneath it.
type Node struct {
	Heading model.Heading `json:"heading"`
	// Children is nil for a heading with no subheadings.
	Children []*Node `json:"children,omitempty"`
}

// Build nests headings by level. Each heading becomes a child of the nearest
// preceding heading with a strictly lower level, or a root when there is
// none. Skipped levels are allowed: a level 3 directly under a level 1 is
// its child. A pre-order walk of the result yields the input sequence.
func Build(headings []model.Heading) []*Node {
	var roots []*Node
	var stack []*Node
	for _, h := range headings {
		n := &Node{Heading: h}
		for len(stack) > 0 && stack[len(stack)-1].Heading.Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, n)
	}
	return roots
}

// Walk visits every node in pre-order with its depth, stopping early if fn
// returns false.
func Walk(forest []*Node, fn func(n *Node, depth int) bool) {
	type frame struct {
		node  *Node
		depth int
	}
	stack := make([]frame, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, frame{forest[i], 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			return
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
}

// Flatten returns the headings of forest in pre-order.
func Flatten(forest []*Node) []model.Heading {
	var out []model.Heading
	Walk(forest, func(n *Node, _ int) bool {
		out = append(out, n.Heading)
		return true
	})
	return out
}
