package ast

import (
	"fmt"
	"reflect"

	"github.com/zephyrtronium/contains"
)

// CheckOwnership reports an error if any node is reachable from root along
// more than one path, which would mean two parents share a child or the tree
// contains a cycle.
func CheckOwnership(root Node) error {
	if root == nil {
		return nil
	}
	set := contains.Set{}
	set.Add(nodeID(root))
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range Children(n) {
			if !set.Add(nodeID(child)) {
				return fmt.Errorf("%T at %s is reachable more than once", child, child.Span())
			}
			stack = append(stack, child)
		}
	}
	return nil
}

func nodeID(n Node) uintptr {
	return reflect.ValueOf(n).Pointer()
}
