package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"Tennis net", "Football", "Tennis raquet", "Tennis ball"}, c.Labels())

	ball, ok := c.ByID(TennisBall)
	require.True(t, ok)
	assert.Equal(t, 10.3, ball.Price)
	assert.Equal(t, "tennis_ball.png", ball.ImageFile())
	assert.Equal(t, "Standard Tennis ball", ball.Detail)
}

func TestLookupIgnoresCaseAndPunctuation(t *testing.T) {
	c := Default()
	for _, name := range []string{"tennis ball", "TENNIS-BALL", "TennisBall", " tennis_ball! "} {
		it, ok := c.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, TennisBall, it.ID)
	}
	_, ok := c.Lookup("rugby ball")
	assert.False(t, ok)
	_, ok = c.Lookup("")
	assert.False(t, ok)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "tennisnet", NormalizeLabel("Tennis net"))
	assert.Equal(t, "football2", NormalizeLabel("Foot-Ball 2"))
}

func TestNewRejectsCollisions(t *testing.T) {
	_, err := New(Item{ID: "A", Label: "Foot ball"}, Item{ID: "B", Label: "football"})
	assert.Error(t, err)

	_, err = New(Item{ID: "A", Label: "!!"})
	assert.Error(t, err)

	_, err = New(Item{ID: "A", Label: "one"}, Item{ID: "A", Label: "two"})
	assert.Error(t, err)
}

func TestItemsReturnsCopy(t *testing.T) {
	c := Default()
	items := c.Items()
	items[0].Price = 0
	first, _ := c.ByID(TennisNet)
	assert.Equal(t, 10.0, first.Price)
}
