package vdom

import (
	"strconv"
	"strings"
)

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText     PatchOp = 0x01 // Update text content
	PatchSetAttr     PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchInsertNode  PatchOp = 0x04 // Insert new node
	PatchRemoveNode  PatchOp = 0x05 // Remove node
	PatchMoveNode    PatchOp = 0x06 // Move node to new position
	PatchReplaceNode PatchOp = 0x07 // Replace node entirely
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchMoveNode:
		return "MoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	default:
		return "Unknown"
	}
}

// Path addresses a node by child indexes from the root.
type Path []int

// String renders the path as "0.2.1"; the root is "".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

func (p Path) child(i int) Path {
	return append(p[:len(p):len(p)], i)
}

// Patch represents a single DOM operation to apply.
type Patch struct {
	Op    PatchOp // Operation type
	Path  Path    // Target node (or parent, for InsertNode)
	Key   string  // Attribute key (for SetAttr/RemoveAttr)
	Value string  // New value
	Node  *VNode  // For InsertNode/ReplaceNode
	Index int     // Insert/move position
}

// String describes the patch, e.g. "SetText 0.1 \"hi\"".
func (p Patch) String() string {
	var b strings.Builder
	b.WriteString(p.Op.String())
	b.WriteByte(' ')
	if len(p.Path) == 0 {
		b.WriteString("root")
	} else {
		b.WriteString(p.Path.String())
	}
	switch p.Op {
	case PatchSetText:
		b.WriteString(" " + strconv.Quote(p.Value))
	case PatchSetAttr:
		b.WriteString(" " + p.Key + "=" + strconv.Quote(p.Value))
	case PatchRemoveAttr:
		b.WriteString(" " + p.Key)
	case PatchInsertNode, PatchMoveNode:
		b.WriteString(" @" + strconv.Itoa(p.Index))
	}
	return b.String()
}
