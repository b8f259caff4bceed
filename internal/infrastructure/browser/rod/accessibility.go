package rod

import (
	"encoding/json"

	"github.com/go-rod/rod/lib/proto"

	"mcp-agent/internal/domain/entity"
)

// convertAXTree rebuilds the CDP flat node list as a tree. Ignored nodes are
// spliced out and their children promoted. Every other node is kept, named or
// not, so the rendered line positions match the DOM-script path.
func convertAXTree(nodes []*proto.AccessibilityAXNode) *entity.AccessibilityNode {
	if len(nodes) == 0 {
		return nil
	}

	byID := make(map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode, len(nodes))
	for _, n := range nodes {
		byID[n.NodeID] = n
	}

	rootID := nodes[0].NodeID
	for _, n := range nodes {
		if n.ParentID == "" {
			rootID = n.NodeID
			break
		}
	}

	visited := make(map[proto.AccessibilityAXNodeID]bool, len(nodes))
	var build func(id proto.AccessibilityAXNodeID) []*entity.AccessibilityNode
	build = func(id proto.AccessibilityAXNodeID) []*entity.AccessibilityNode {
		n, ok := byID[id]
		if !ok || visited[id] {
			return nil
		}
		visited[id] = true

		var children []*entity.AccessibilityNode
		for _, cid := range n.ChildIDs {
			children = append(children, build(cid)...)
		}

		if n.Ignored {
			return children
		}
		return []*entity.AccessibilityNode{convertAXNode(n, axValueStr(n.Role), children)}
	}

	roots := build(rootID)
	switch len(roots) {
	case 0:
		return nil
	case 1:
		return roots[0]
	default:
		return &entity.AccessibilityNode{Role: "RootWebArea", Children: roots}
	}
}

func convertAXNode(n *proto.AccessibilityAXNode, role string, children []*entity.AccessibilityNode) *entity.AccessibilityNode {
	out := &entity.AccessibilityNode{
		Role:        role,
		Name:        axValueStr(n.Name),
		Description: axValueStr(n.Description),
		Children:    children,
	}
	if v := axValueStr(n.Value); v != "" {
		out.Value = &v
	}
	for _, p := range n.Properties {
		switch p.Name {
		case proto.AccessibilityAXPropertyNameChecked:
			out.Checked = axTristate(p.Value)
		case proto.AccessibilityAXPropertyNameSelected:
			out.Selected = axTristate(p.Value)
		}
	}
	return out
}

func axValueStr(v *proto.AccessibilityAXValue) string {
	if v == nil {
		return ""
	}
	raw := v.Value.JSON("", "")
	if raw == "null" {
		return ""
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return s
		}
	}
	return raw
}

// axTristate maps true/false values and leaves "mixed" unset.
func axTristate(v *proto.AccessibilityAXValue) *bool {
	var b bool
	switch axValueStr(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		return nil
	}
	return &b
}
