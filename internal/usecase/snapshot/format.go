package snapshot

import (
	"strconv"
	"strings"

	"mcp-agent/internal/domain/entity"
)

const unknownRole = "unknown"

// FormatOutline renders the tree one node per line as `- role "name"`,
// indented two spaces per level. A nil or empty node renders as "".
func FormatOutline(node *entity.AccessibilityNode) string {
	if isEmpty(node) {
		return ""
	}
	var lines []string
	walk(node, 0, func(n *entity.AccessibilityNode, depth int) {
		prefix := strings.Repeat("  ", depth)
		if n.Name != "" {
			lines = append(lines, prefix+"- "+roleOf(n)+` "`+n.Name+`"`)
		} else {
			lines = append(lines, prefix+"- "+roleOf(n))
		}
	})
	return strings.Join(lines, "\n")
}

// FormatDetailed renders `[role]` headers followed by one line per populated
// property. Used for standalone page snapshots.
func FormatDetailed(node *entity.AccessibilityNode) string {
	if isEmpty(node) {
		return ""
	}
	var lines []string
	walk(node, 0, func(n *entity.AccessibilityNode, depth int) {
		prefix := strings.Repeat("  ", depth)
		lines = append(lines, prefix+"["+roleOf(n)+"]")
		if n.Name != "" {
			lines = append(lines, prefix+"  Name: "+n.Name)
		}
		if n.Description != "" {
			lines = append(lines, prefix+"  Description: "+n.Description)
		}
		if n.Value != nil {
			lines = append(lines, prefix+"  Value: "+*n.Value)
		}
		if n.Checked != nil {
			lines = append(lines, prefix+"  Checked: "+strconv.FormatBool(*n.Checked))
		}
		if n.Selected != nil {
			lines = append(lines, prefix+"  Selected: "+strconv.FormatBool(*n.Selected))
		}
	})
	return strings.Join(lines, "\n")
}

func isEmpty(n *entity.AccessibilityNode) bool {
	return n == nil || (n.Role == "" && n.Name == "" && n.Description == "" && n.Tag == "" &&
		n.Value == nil && n.Checked == nil && n.Selected == nil && len(n.Children) == 0)
}

func walk(n *entity.AccessibilityNode, depth int, visit func(*entity.AccessibilityNode, int)) {
	visit(n, depth)
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		walk(c, depth+1, visit)
	}
}

func roleOf(n *entity.AccessibilityNode) string {
	if n.Role == "" {
		return unknownRole
	}
	return n.Role
}
