package entity

// AccessibilityNode is one element of a captured accessibility tree. The JSON
// shape matches the DOM walker script so both extraction paths decode into it.
type AccessibilityNode struct {
	Role        string               `json:"role"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Tag         string               `json:"tag"`
	Value       *string              `json:"value,omitempty"`
	Checked     *bool                `json:"checked,omitempty"`
	Selected    *bool                `json:"selected,omitempty"`
	Children    []*AccessibilityNode `json:"children,omitempty"`
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *AccessibilityNode) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
