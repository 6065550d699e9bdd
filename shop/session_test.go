package shop

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localrivet/storefront/catalog"
	"github.com/localrivet/storefront/markdown"
)

var fixedTime = time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)

func newTestSession() *Session {
	return NewSession(catalog.Default(), Settings{
		ImagesServerURL: "http://localhost:8080/images/",
		Now:             func() time.Time { return fixedTime },
		NewOrderNumber:  func() string { return "ORD-1" },
	})
}

func TestAddToCartMergesQuantities(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddToCart("Football", 1))
	require.NoError(t, s.AddToCart("foot-ball", 2))

	cart := s.Cart()
	require.Len(t, cart.OrderItems, 1)
	item := cart.OrderItems[0]
	assert.Equal(t, "Football", item.ItemName)
	assert.Equal(t, 3, item.Qty)
	assert.Equal(t, 10.1, item.Rate)
	assert.Equal(t, 30.3, item.Cost)
	assert.Equal(t, "http://localhost:8080/images/football.png", item.Image)
	assert.Equal(t, "USD", item.Currency)
	assert.Equal(t, 30.3, cart.Total)
}

func TestCartKeepsInsertionOrder(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddToCart("Tennis ball", 1))
	require.NoError(t, s.AddToCart("Tennis net", 1))
	require.NoError(t, s.AddToCart("Football", 1))
	require.NoError(t, s.Remove("tennis net"))
	require.NoError(t, s.AddToCart("Tennis net", 1))

	var names []string
	for _, it := range s.Cart().OrderItems {
		names = append(names, it.ItemName)
	}
	assert.Equal(t, []string{"Tennis ball", "Football", "Tennis net"}, names)
}

func TestUnknownItem(t *testing.T) {
	s := newTestSession()
	err := s.AddToCart("rugby ball", 1)
	var ns *NotStockedError
	require.True(t, errors.As(err, &ns))
	assert.Equal(t, "Brand Z Sports store does not stock rugby ball", err.Error())

	assert.Error(t, s.ChangeQuantity("rugby ball", 2))
	assert.Error(t, s.Remove("rugby ball"))
}

func TestQuantityRules(t *testing.T) {
	s := newTestSession()
	assert.ErrorIs(t, s.AddToCart("Football", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, s.ChangeQuantity("Football", -1), ErrInvalidQuantity)

	require.NoError(t, s.ChangeQuantity("Football", 4))
	assert.Equal(t, 4, s.Cart().OrderItems[0].Qty)

	require.NoError(t, s.ChangeQuantity("Football", 0))
	assert.Empty(t, s.Cart().OrderItems)

	require.NoError(t, s.Remove("Football"))
}

func TestCheckoutAndLastOrder(t *testing.T) {
	s := newTestSession()
	_, err := s.LastOrder()
	assert.ErrorIs(t, err, ErrNoOrderHistory)
	assert.EqualError(t, err, "no order history yet")

	require.NoError(t, s.AddToCart("Tennis net", 1))
	require.NoError(t, s.AddToCart("Football", 2))
	order := s.Checkout()

	assert.Equal(t, "ORD-1", order.OrderNumber)
	assert.Equal(t, fixedTime, order.OrderDateTime)
	assert.Equal(t, 30.2, order.Total)
	assert.Len(t, order.OrderItems, 2)
	assert.Empty(t, s.Cart().OrderItems)
	assert.Equal(t, 0.0, s.Cart().Total)

	last, err := s.LastOrder()
	require.NoError(t, err)
	assert.Same(t, order, last)
	assert.Equal(t, 1, s.Orders())
}

func TestDefaultOrderNumber(t *testing.T) {
	s := NewSession(catalog.Default(), Settings{})
	o := s.Checkout()
	assert.Regexp(t, `^ORD-[0-9a-f-]{36}$`, o.OrderNumber)
	assert.Equal(t, DefaultCurrency, o.Currency)
	assert.Empty(t, o.OrderItems)
}

func TestCartMarkdown(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddToCart("Football", 2))

	want := "## Cart\n\n" +
		"- **orderItems**:\n" +
		"  -\n" +
		"    - **itemName**: Football\n" +
		"    - **qty**: 2\n" +
		"    - **rate**: 10.1\n" +
		"    - **cost**: 20.2\n" +
		"    - **image**: ![image](http://localhost:8080/images/football.png)\n" +
		"    - **currency**: USD\n" +
		"- **total**: 20.2\n" +
		"- **currency**: USD\n"
	assert.Equal(t, want, markdown.Render(s.Cart()))
}

func TestOrderMarkdownHeading(t *testing.T) {
	s := newTestSession()
	out := markdown.Render(s.Checkout())
	assert.Contains(t, out, "## Order\n\n- **orderNumber**: ORD-1\n- **orderDateTime**: 2025-05-01T10:30:00Z\n- **orderItems**:\n- **total**: 0\n")

	var nilOrder *Order
	assert.Equal(t, "_null_\n", markdown.Render(nilOrder))
	assert.Equal(t, "_null_\n", markdown.Render((*OrderItem)(nil)))
}

func TestCartJSONAndXML(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.AddToCart("Tennis ball", 1))
	cart := s.Cart()

	data, err := json.Marshal(cart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderItems":[{"itemName":"Tennis ball","qty":1,"rate":10.3,"cost":10.3,
		"image":"http://localhost:8080/images/tennis_ball.png","currency":"USD"}],"total":10.3,"currency":"USD"}`, string(data))

	data, err = xml.Marshal(cart)
	require.NoError(t, err)
	assert.Equal(t, "<Cart><orderItems><orderItem><itemName>Tennis ball</itemName><qty>1</qty><rate>10.3</rate>"+
		"<cost>10.3</cost><image>http://localhost:8080/images/tennis_ball.png</image><currency>USD</currency>"+
		"</orderItem></orderItems><total>10.3</total><currency>USD</currency></Cart>", string(data))
}

func TestSessionConcurrentAdds(t *testing.T) {
	s := newTestSession()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AddToCart("Tennis ball", 1))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Cart().OrderItems[0].Qty)
}

func TestSessionsRegistry(t *testing.T) {
	reg := NewSessions(catalog.Default(), Settings{})
	a := reg.Get("a")
	assert.Same(t, a, reg.Get("a"))
	assert.NotSame(t, a, reg.Get("b"))
	assert.Equal(t, 2, reg.Len())

	require.NoError(t, a.AddToCart("Football", 1))
	reg.Release("a")
	assert.Equal(t, 1, reg.Len())
	assert.Empty(t, reg.Get("a").Cart().OrderItems)
}
