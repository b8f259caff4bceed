package rod

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"
)

func axv(v any) *proto.AccessibilityAXValue {
	return &proto.AccessibilityAXValue{Type: proto.AccessibilityAXValueTypeString, Value: gson.New(v)}
}

func axNode(id, parent, role, name string, children ...string) *proto.AccessibilityAXNode {
	n := &proto.AccessibilityAXNode{
		NodeID:   proto.AccessibilityAXNodeID(id),
		ParentID: proto.AccessibilityAXNodeID(parent),
		Role:     axv(role),
		Name:     axv(name),
	}
	for _, c := range children {
		n.ChildIDs = append(n.ChildIDs, proto.AccessibilityAXNodeID(c))
	}
	return n
}

func TestConvertAXTree(t *testing.T) {
	checkbox := axNode("5", "3", "checkbox", "Remember me")
	checkbox.Properties = []*proto.AccessibilityAXProperty{
		{Name: proto.AccessibilityAXPropertyNameChecked, Value: axv("true")},
	}
	search := axNode("4", "3", "searchbox", "Search")
	search.Value = axv("shoes")
	ignored := axNode("2", "1", "generic", "", "3")
	ignored.Ignored = true

	nodes := []*proto.AccessibilityAXNode{
		axNode("1", "", "RootWebArea", "Shop", "2"),
		ignored,
		axNode("3", "2", "generic", "", "4", "5", "6"),
		search,
		checkbox,
		axNode("6", "3", "StaticText", "Free shipping", "7"),
		axNode("7", "6", "InlineTextBox", "Free shipping"),
	}

	root := convertAXTree(nodes)

	require.NotNil(t, root)
	assert.Equal(t, "RootWebArea", root.Role)
	assert.Equal(t, "Shop", root.Name)
	require.Len(t, root.Children, 1, "only the ignored node is spliced out")

	wrapper := root.Children[0]
	assert.Equal(t, "generic", wrapper.Role)
	assert.Empty(t, wrapper.Name)
	require.Len(t, wrapper.Children, 3)

	assert.Equal(t, "searchbox", wrapper.Children[0].Role)
	require.NotNil(t, wrapper.Children[0].Value)
	assert.Equal(t, "shoes", *wrapper.Children[0].Value)

	require.NotNil(t, wrapper.Children[1].Checked)
	assert.True(t, *wrapper.Children[1].Checked)

	text := wrapper.Children[2]
	assert.Equal(t, "StaticText", text.Role)
	require.Len(t, text.Children, 1)
	assert.Equal(t, "InlineTextBox", text.Children[0].Role)
}

func TestConvertAXTree_KeepsUninformativeNodes(t *testing.T) {
	nodes := []*proto.AccessibilityAXNode{
		axNode("1", "", "RootWebArea", "Shop", "2"),
		axNode("2", "1", "generic", "", "3", "4"),
		axNode("3", "2", "button", "Buy"),
		axNode("4", "2", "none", "", "5"),
		axNode("5", "4", "link", "Home"),
	}

	root := convertAXTree(nodes)

	require.NotNil(t, root)
	require.Len(t, root.Children, 1)
	generic := root.Children[0]
	assert.Equal(t, "generic", generic.Role)
	require.Len(t, generic.Children, 2)
	assert.Equal(t, "button", generic.Children[0].Role)
	none := generic.Children[1]
	assert.Equal(t, "none", none.Role)
	require.Len(t, none.Children, 1)
	assert.Equal(t, "Home", none.Children[0].Name)
}

func TestConvertAXTree_Empty(t *testing.T) {
	assert.Nil(t, convertAXTree(nil))
}

func TestConvertAXTree_Cycle(t *testing.T) {
	nodes := []*proto.AccessibilityAXNode{
		axNode("1", "", "main", "", "2"),
		axNode("2", "1", "link", "Home", "1"),
	}

	root := convertAXTree(nodes)

	require.NotNil(t, root)
	require.Len(t, root.Children, 1)
	assert.Empty(t, root.Children[0].Children)
}

func TestAxTristate(t *testing.T) {
	assert.Nil(t, axTristate(axv("mixed")))
	assert.Nil(t, axTristate(nil))
	v := axTristate(&proto.AccessibilityAXValue{Value: gson.New(false)})
	require.NotNil(t, v)
	assert.False(t, *v)
}
