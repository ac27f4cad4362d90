package vdom

import (
	"fmt"
	"reflect"
	"strconv"
)

// Diff compares two VNode trees and returns the patches needed to transform prev into next.
func Diff(prev, next *VNode) []Patch {
	var patches []Patch
	diff(prev, next, nil, &patches)
	return patches
}

// diff recursively compares nodes and appends patches.
func diff(prev, next *VNode, path Path, patches *[]Patch) {
	if prev == nil && next == nil {
		return
	}

	// Node added (handled by parent via InsertNode)
	if prev == nil {
		return
	}

	if next == nil {
		*patches = append(*patches, Patch{Op: PatchRemoveNode, Path: path})
		return
	}

	if prev.Kind != next.Kind {
		*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, Node: next})
		return
	}

	switch prev.Kind {
	case KindText:
		if prev.Text != next.Text {
			*patches = append(*patches, Patch{Op: PatchSetText, Path: path, Value: next.Text})
		}
	case KindRaw:
		if prev.Text != next.Text {
			*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, Node: next})
		}
	case KindElement:
		if prev.Tag != next.Tag {
			*patches = append(*patches, Patch{Op: PatchReplaceNode, Path: path, Node: next})
			return
		}
		diffProps(prev, next, path, patches)
		diffChildren(prev, next, path, patches)
	case KindFragment:
		diffChildren(prev, next, path, patches)
	}
}

// diffProps compares and patches attributes.
func diffProps(prev, next *VNode, path Path, patches *[]Patch) {
	for key, prevVal := range prev.Props {
		nextVal, exists := next.Props[key]
		if !exists {
			*patches = append(*patches, Patch{Op: PatchRemoveAttr, Path: path, Key: key})
		} else if !propsEqual(prevVal, nextVal) {
			*patches = append(*patches, Patch{
				Op:    PatchSetAttr,
				Path:  path,
				Key:   key,
				Value: propToString(nextVal),
			})
		}
	}

	for key, nextVal := range next.Props {
		if _, exists := prev.Props[key]; !exists {
			*patches = append(*patches, Patch{
				Op:    PatchSetAttr,
				Path:  path,
				Key:   key,
				Value: propToString(nextVal),
			})
		}
	}
}

// diffChildren compares and patches child nodes.
func diffChildren(prev, next *VNode, path Path, patches *[]Patch) {
	if hasKeys(prev.Children) || hasKeys(next.Children) {
		diffKeyedChildren(prev.Children, next.Children, path, patches)
	} else {
		diffUnkeyedChildren(prev.Children, next.Children, path, patches)
	}
}

// diffUnkeyedChildren handles children without keys using positional matching.
func diffUnkeyedChildren(prev, next []*VNode, path Path, patches *[]Patch) {
	maxLen := len(prev)
	if len(next) > maxLen {
		maxLen = len(next)
	}

	// Removals are emitted from the end so earlier indexes stay valid.
	var removals []Patch
	for i := 0; i < maxLen; i++ {
		var prevChild, nextChild *VNode
		if i < len(prev) {
			prevChild = prev[i]
		}
		if i < len(next) {
			nextChild = next[i]
		}

		switch {
		case prevChild == nil && nextChild != nil:
			*patches = append(*patches, Patch{Op: PatchInsertNode, Path: path, Index: i, Node: nextChild})
		case prevChild != nil && nextChild == nil:
			removals = append(removals, Patch{Op: PatchRemoveNode, Path: path.child(i)})
		default:
			diff(prevChild, nextChild, path.child(i), patches)
		}
	}
	for i := len(removals) - 1; i >= 0; i-- {
		*patches = append(*patches, removals[i])
	}
}

// diffKeyedChildren handles children with keys for efficient reordering.
func diffKeyedChildren(prev, next []*VNode, path Path, patches *[]Patch) {
	prevKeyMap := make(map[string]int)
	for i, child := range prev {
		if key := getKey(child); key != "" {
			prevKeyMap[key] = i
		}
	}

	matched := make(map[int]bool)

	for nextIdx, nextChild := range next {
		key := getKey(nextChild)
		prevIdx, exists := prevKeyMap[key]
		if key == "" || !exists {
			*patches = append(*patches, Patch{Op: PatchInsertNode, Path: path, Index: nextIdx, Node: nextChild})
			continue
		}

		matched[prevIdx] = true
		if prevIdx != nextIdx {
			*patches = append(*patches, Patch{
				Op:    PatchMoveNode,
				Path:  path.child(prevIdx),
				Index: nextIdx,
			})
		}
		diff(prev[prevIdx], nextChild, path.child(nextIdx), patches)
	}

	for i := len(prev) - 1; i >= 0; i-- {
		if !matched[i] {
			*patches = append(*patches, Patch{Op: PatchRemoveNode, Path: path.child(i)})
		}
	}
}

// getKey extracts the key from a node.
func getKey(node *VNode) string {
	if node == nil {
		return ""
	}
	return node.Key
}

// hasKeys returns true if any child has a key.
func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if getKey(child) != "" {
			return true
		}
	}
	return false
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}

// propToString converts a prop value to its attribute string.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
