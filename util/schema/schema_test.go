package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localrivet/storefront/protocol"
)

type cartArgs struct {
	ItemName string  `json:"itemName" required:"true" description:"Name of the item"`
	Quantity int     `json:"quantity" min:"1" description:"How many"`
	Style    string  `json:"style" enum:"formal,casual"`
	Note     *string `json:"note,omitempty"`
	hidden   string
}

func TestFromStruct(t *testing.T) {
	s := FromStruct(cartArgs{})

	assert.Equal(t, "object", s.Type)
	assert.ElementsMatch(t, []string{"itemName", "quantity", "style"}, s.Required)
	require.Contains(t, s.Properties, "itemName")
	assert.Equal(t, "string", s.Properties["itemName"].Type)
	assert.Equal(t, "Name of the item", s.Properties["itemName"].Description)
	assert.Equal(t, "integer", s.Properties["quantity"].Type)
	require.NotNil(t, s.Properties["quantity"].Minimum)
	assert.Equal(t, 1.0, *s.Properties["quantity"].Minimum)
	assert.Equal(t, []interface{}{"formal", "casual"}, s.Properties["style"].Enum)
	assert.Equal(t, "string", s.Properties["note"].Type)
	assert.NotContains(t, s.Properties, "hidden")
}

func TestFromStructNil(t *testing.T) {
	s := FromStruct(nil)
	assert.Equal(t, "object", s.Type)
	assert.Empty(t, s.Properties)
	assert.Nil(t, s.Required)
}

func TestHandleArgs(t *testing.T) {
	args, content, isErr := HandleArgs[cartArgs](map[string]interface{}{
		"itemName": "Football",
		"quantity": "3",
		"style":    "casual",
	})
	require.False(t, isErr)
	assert.Nil(t, content)
	assert.Equal(t, "Football", args.ItemName)
	assert.Equal(t, 3, args.Quantity)

	args, _, isErr = HandleArgs[cartArgs](map[string]interface{}{
		"itemName": "Football", "quantity": float64(2), "style": "formal",
	})
	require.False(t, isErr)
	assert.Equal(t, 2, args.Quantity)
}

func TestHandleArgsErrors(t *testing.T) {
	_, content, isErr := HandleArgs[cartArgs](nil)
	require.True(t, isErr)
	assert.Equal(t, "Invalid arguments: itemName is required", content[0].(protocol.TextContent).Text)

	_, content, isErr = HandleArgs[cartArgs](map[string]interface{}{"itemName": "Football", "quantity": 0, "style": "formal"})
	require.True(t, isErr)
	assert.Contains(t, content[0].(protocol.TextContent).Text, "quantity must be at least 1")

	_, _, isErr = HandleArgs[cartArgs]("not a map")
	assert.True(t, isErr)
}
